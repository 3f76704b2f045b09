package repository

import (
	"context"
	"sync"

	"KifuBrowser/internal/interfaces"
)

// MemoryTranscriptStore 进程内棋谱缓存，进程存活期间不过期
type MemoryTranscriptStore struct {
	texts sync.Map // share link -> string
}

func NewMemoryTranscriptStore() interfaces.TranscriptStore {
	return &MemoryTranscriptStore{}
}

func (s *MemoryTranscriptStore) Get(_ context.Context, link string) (string, bool, error) {
	v, ok := s.texts.Load(link)
	if !ok {
		return "", false, nil
	}
	return v.(string), true, nil
}

func (s *MemoryTranscriptStore) Set(_ context.Context, link string, text string) error {
	s.texts.Store(link, text)
	return nil
}
