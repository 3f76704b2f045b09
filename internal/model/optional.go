package model

// Optional 显式可选值，替代空字符串等哨兵值
type Optional[T any] struct {
	value T
	valid bool
}

// Some 构造有值的 Optional
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, valid: true}
}

// None 构造空 Optional
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get 返回值及是否存在
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.valid
}

func (o Optional[T]) IsPresent() bool {
	return o.valid
}

// OrElse 不存在时返回 def
func (o Optional[T]) OrElse(def T) T {
	if o.valid {
		return o.value
	}
	return def
}

// OptionalString 空字符串视为不存在
func OptionalString(s string) Optional[string] {
	if s == "" {
		return None[string]()
	}
	return Some(s)
}
