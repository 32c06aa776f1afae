package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/infolink/internal/db"
)

const (
	currentUserContextKey = "__current_user"
	requestIDContextKey   = "__request_id"
	requestIDHeader       = "X-Request-ID"

	bearerPrefix = "Bearer "
)

// RequestID 为每个请求分配一个 uuid，并通过响应头回传，便于日志关联。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDContextKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func requestID(c *gin.Context) string {
	if id, ok := c.Get(requestIDContextKey); ok {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}

// AuthRequired 验证 Bearer 令牌的中间件，失败时返回 401。
func (a *API) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := a.userFromRequest(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "认证失败，请重新登录")
			c.Abort()
			return
		}
		c.Set(currentUserContextKey, user)
		c.Next()
	}
}

// OptionalAuth 可选认证：令牌缺失或无效时降级为匿名访问，不会阻止请求。
func (a *API) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, ok := a.userFromRequest(c); ok {
			c.Set(currentUserContextKey, user)
		}
		c.Next()
	}
}

// userFromRequest 解析请求头中的令牌并加载对应用户。
// 仅接受存在且处于激活状态的账号。
func (a *API) userFromRequest(c *gin.Context) (*db.User, bool) {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return nil, false
	}

	userID, err := a.auth.ParseToken(strings.TrimPrefix(authHeader, bearerPrefix))
	if err != nil {
		return nil, false
	}

	user, err := a.users.GetByID(userID)
	if err != nil {
		return nil, false
	}
	if !user.IsActive {
		return nil, false
	}
	return user, true
}

func currentUser(c *gin.Context) (*db.User, bool) {
	value, ok := c.Get(currentUserContextKey)
	if !ok {
		return nil, false
	}
	user, ok := value.(*db.User)
	return user, ok
}
