package api

import (
	"errors"
	"mime"
	"net/http"
	"strconv"

	"KifuBrowser/internal/adapter/gdrive"
	"KifuBrowser/internal/repository"
	"KifuBrowser/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// PageHandler 单页浏览器的页面与下载接口
type PageHandler struct {
	browser    *service.BrowserService
	sessions   *repository.SessionStore
	cookieName string
	logger     *logrus.Logger
}

// NewPageHandler 创建 PageHandler
func NewPageHandler(browser *service.BrowserService, sessions *repository.SessionStore, cookieName string, logger *logrus.Logger) *PageHandler {
	return &PageHandler{
		browser:    browser,
		sessions:   sessions,
		cookieName: cookieName,
		logger:     logger,
	}
}

// sessionID 读取会话 cookie，不存在或非法时签发新的
func (h *PageHandler) sessionID(c *gin.Context) string {
	if sid, err := c.Cookie(h.cookieName); err == nil && h.sessions.IsValidID(sid) {
		return sid
	}
	sid := h.sessions.NewID()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookieName, sid, 0, "/", "", false, true)
	return sid
}

// Index 渲染页面
// GET /?match=3
func (h *PageHandler) Index(c *gin.Context) {
	sid := h.sessionID(c)

	var requested *int
	if raw := c.Query("match"); raw != "" {
		ord, err := strconv.Atoi(raw)
		if err != nil {
			c.String(http.StatusBadRequest, "match 参数必须是整数")
			return
		}
		h.sessions.SetSelected(sid, ord)
		requested = &ord
	} else if ord, ok := h.sessions.Selected(sid); ok {
		requested = &ord
	}

	view, err := h.browser.BuildPage(c.Request.Context(), requested)
	if err != nil {
		h.logger.WithError(err).Error("Index 渲染失败：索引不可用")
		c.HTML(http.StatusBadGateway, "error.tmpl", gin.H{
			"Content": h.browser.Content(),
			"Error":   err.Error(),
		})
		return
	}
	c.HTML(http.StatusOK, "index.tmpl", view)
}

// Select 记录下拉框选择后回到首页
// POST /select  form: match=3
func (h *PageHandler) Select(c *gin.Context) {
	sid := h.sessionID(c)
	ord, err := strconv.Atoi(c.PostForm("match"))
	if err != nil {
		c.String(http.StatusBadRequest, "match 参数必须是整数")
		return
	}
	h.sessions.SetSelected(sid, ord)
	c.Redirect(http.StatusSeeOther, "/")
}

// Download 下载棋谱文本
// GET /download/:ordinal
func (h *PageHandler) Download(c *gin.Context) {
	ord, err := strconv.Atoi(c.Param("ordinal"))
	if err != nil {
		c.String(http.StatusBadRequest, "ordinal 必须是整数")
		return
	}

	filename, text, err := h.browser.Download(c.Request.Context(), ord)
	if err != nil {
		status := downloadErrorStatus(err)
		h.logger.WithError(err).WithField("ordinal", ord).Warn("Download 失败")
		c.String(status, err.Error())
		return
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}

func downloadErrorStatus(err error) int {
	var linkErr *service.LinkResolutionError
	var httpErr *gdrive.HTTPError
	switch {
	case errors.Is(err, service.ErrMatchNotFound):
		return http.StatusNotFound
	case errors.As(err, &linkErr), errors.As(err, &httpErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Refresh 清除索引缓存
// POST /refresh
func (h *PageHandler) Refresh(c *gin.Context) {
	h.browser.Refresh()
	c.Redirect(http.StatusSeeOther, "/")
}

// ListMatches 对局列表 JSON
// GET /api/matches
func (h *PageHandler) ListMatches(c *gin.Context) {
	items, err := h.browser.Matches(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("ListMatches failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
}
