package handler

import (
	"bytes"
	"errors"
	"html"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/infolink/internal/db"
	"github.com/infolink/internal/service"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
	previewRuneLimit = 100
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(gmhtml.WithHardWraps(), gmhtml.WithXHTML()),
	)
	sanitizer    = bluemonday.UGCPolicy()
	textStripper = bluemonday.StrictPolicy()
)

type createBoardRequest struct {
	Title   string `json:"title" binding:"required,min=1,max=200"`
	Content string `json:"content" binding:"required,min=1,max=10000"`
}

type updateBoardRequest struct {
	Title   *string `json:"title" binding:"omitempty,min=1,max=200"`
	Content *string `json:"content" binding:"omitempty,min=1,max=10000"`
}

// renderMarkdown 将帖子正文渲染为 HTML 并过滤掉不安全的标签。
func renderMarkdown(content string) (string, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	return string(sanitizer.SanitizeBytes(buf.Bytes())), nil
}

// plainExcerpt 生成列表用的纯文本预览，最多 previewRuneLimit 个字符。
func plainExcerpt(content string) string {
	var buf bytes.Buffer
	text := content
	if err := markdownEngine.Convert([]byte(content), &buf); err == nil {
		text = html.UnescapeString(textStripper.Sanitize(buf.String()))
	}
	text = strings.Join(strings.Fields(text), " ")

	runes := []rune(text)
	if len(runes) <= previewRuneLimit {
		return text
	}
	return string(runes[:previewRuneLimit]) + "..."
}

func boardPayload(board *db.Board, viewerID uint) gin.H {
	contentHTML, err := renderMarkdown(board.Content)
	if err != nil {
		contentHTML = ""
	}
	return gin.H{
		"id":           board.ID,
		"user_id":      board.UserID,
		"title":        board.Title,
		"content":      board.Content,
		"content_html": contentHTML,
		"view_count":   board.ViewCount,
		"author_name":  board.User.Username,
		"is_author":    viewerID != 0 && viewerID == board.UserID,
		"created_at":   board.CreatedAt,
		"updated_at":   board.UpdatedAt,
	}
}

func boardListItem(board *db.Board) gin.H {
	return gin.H{
		"id":          board.ID,
		"title":       board.Title,
		"content":     plainExcerpt(board.Content),
		"view_count":  board.ViewCount,
		"author_name": board.User.Username,
		"created_at":  board.CreatedAt,
	}
}

// ListBoards 游标分页获取帖子列表，无需认证。
func (a *API) ListBoards(c *gin.Context) {
	cursor := parseUintQuery(c, "cursor")
	limit := parseLimitQuery(c, "limit", defaultListLimit, 1, maxListLimit)

	boards, hasMore, err := a.boards.List(cursor, limit)
	if err != nil {
		logError(c, "failed to list boards", err)
		respondError(c, http.StatusInternalServerError, "获取帖子列表失败")
		return
	}

	items := make([]gin.H, 0, len(boards))
	for i := range boards {
		items = append(items, boardListItem(&boards[i]))
	}

	var nextCursor interface{}
	if len(boards) > 0 {
		nextCursor = boards[len(boards)-1].ID
	}

	c.JSON(http.StatusOK, gin.H{
		"items":       items,
		"next_cursor": nextCursor,
		"has_more":    hasMore,
	})
}

// GetBoard 获取帖子详情并计入一次浏览，游客可访问。
func (a *API) GetBoard(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusUnprocessableEntity, "无效的帖子ID")
		return
	}

	board, err := a.boards.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrBoardNotFound) {
			respondError(c, http.StatusNotFound, "帖子不存在")
			return
		}
		logError(c, "failed to get board", err)
		respondError(c, http.StatusInternalServerError, "获取帖子失败")
		return
	}

	var viewerID uint
	if user, ok := currentUser(c); ok {
		viewerID = user.ID
	}
	c.JSON(http.StatusOK, gin.H{"board": boardPayload(board, viewerID)})
}

// CreateBoard 发布新帖子，需要认证。
func (a *API) CreateBoard(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "认证失败，请重新登录")
		return
	}

	var payload createBoardRequest
	if !bindJSON(c, &payload, "标题限1-200字，正文限1-10000字") {
		return
	}

	board, err := a.boards.Create(user.ID, payload.Title, payload.Content)
	if err != nil {
		logError(c, "failed to create board", err)
		respondError(c, http.StatusInternalServerError, "发布帖子失败")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"board": boardPayload(board, user.ID)})
}

// UpdateBoard 修改帖子，只有作者本人可以操作。
func (a *API) UpdateBoard(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "认证失败，请重新登录")
		return
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusUnprocessableEntity, "无效的帖子ID")
		return
	}

	var payload updateBoardRequest
	if !bindJSON(c, &payload, "标题限1-200字，正文限1-10000字") {
		return
	}

	board, err := a.boards.Update(id, user.ID, service.BoardPatch{
		Title:   payload.Title,
		Content: payload.Content,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBoardNotFound):
			respondError(c, http.StatusNotFound, "帖子不存在")
		case errors.Is(err, service.ErrBoardForbidden):
			respondError(c, http.StatusForbidden, "没有修改权限")
		default:
			logError(c, "failed to update board", err)
			respondError(c, http.StatusInternalServerError, "修改帖子失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"board": boardPayload(board, user.ID)})
}

// DeleteBoard 软删除帖子，只有作者本人可以操作。
func (a *API) DeleteBoard(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "认证失败，请重新登录")
		return
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusUnprocessableEntity, "无效的帖子ID")
		return
	}

	if err := a.boards.SoftDelete(id, user.ID); err != nil {
		switch {
		case errors.Is(err, service.ErrBoardNotFound):
			respondError(c, http.StatusNotFound, "帖子不存在")
		case errors.Is(err, service.ErrBoardForbidden):
			respondError(c, http.StatusForbidden, "没有删除权限")
		default:
			logError(c, "failed to delete board", err)
			respondError(c, http.StatusInternalServerError, "删除帖子失败")
		}
		return
	}

	c.Status(http.StatusNoContent)
}
