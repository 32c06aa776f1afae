package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/infolink/internal/db"
	"github.com/infolink/internal/service"
)

type signupRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Username string `json:"username" binding:"required,min=1,max=100"`
	Password string `json:"password" binding:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func userPayload(user *db.User) gin.H {
	return gin.H{
		"id":         user.ID,
		"email":      user.Email,
		"username":   user.Username,
		"is_active":  user.IsActive,
		"is_admin":   user.IsAdmin,
		"created_at": user.CreatedAt,
		"updated_at": user.UpdatedAt,
	}
}

// Signup 注册新用户
func (a *API) Signup(c *gin.Context) {
	var payload signupRequest
	if !bindJSON(c, &payload, "请填写有效的邮箱、用户名和密码") {
		return
	}

	user, err := a.users.Create(service.UserInput{
		Email:    payload.Email,
		Username: payload.Username,
		Password: payload.Password,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			respondError(c, http.StatusConflict, "该邮箱已被注册")
			return
		}
		logError(c, "failed to create user", err)
		respondError(c, http.StatusInternalServerError, "注册失败")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": userPayload(user)})
}

// Login 校验凭据并签发访问令牌
func (a *API) Login(c *gin.Context) {
	var payload loginRequest
	if !bindJSON(c, &payload, "请填写邮箱和密码") {
		return
	}

	token, user, err := a.auth.Login(payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, "邮箱或密码错误")
			return
		}
		logError(c, "failed to login", err)
		respondError(c, http.StatusInternalServerError, "登录失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"user":         userPayload(user),
	})
}

// Me 返回当前登录用户的信息
func (a *API) Me(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "认证失败，请重新登录")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": userPayload(user)})
}

type updateMeRequest struct {
	Email    *string `json:"email" binding:"omitempty,email,max=255"`
	Username *string `json:"username" binding:"omitempty,min=1,max=100"`
	Password *string `json:"password" binding:"omitempty,min=6"`
}

// UpdateMe 修改当前用户的资料，缺省字段保持不变
func (a *API) UpdateMe(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "认证失败，请重新登录")
		return
	}

	var payload updateMeRequest
	if !bindJSON(c, &payload, "请填写有效的用户资料") {
		return
	}

	updated, err := a.users.Update(user.ID, service.UserPatch{
		Email:    payload.Email,
		Username: payload.Username,
		Password: payload.Password,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			respondError(c, http.StatusConflict, "该邮箱已被注册")
			return
		}
		logError(c, "failed to update user", err)
		respondError(c, http.StatusInternalServerError, "更新资料失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userPayload(updated)})
}
