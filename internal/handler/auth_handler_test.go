package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestSignupLoginMeFlow(t *testing.T) {
	_, r := setupTestAPI(t)

	w := performJSON(t, r, http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"email":    "flow@example.com",
		"username": "flow",
		"password": "secret123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	created := decodeBody(t, w)["user"].(map[string]interface{})
	if created["email"] != "flow@example.com" || created["username"] != "flow" {
		t.Fatalf("unexpected user payload: %v", created)
	}
	if _, exposed := created["password"]; exposed {
		t.Fatal("password must not appear in responses")
	}

	w = performJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "flow@example.com",
		"password": "secret123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	login := decodeBody(t, w)
	token, _ := login["access_token"].(string)
	if token == "" {
		t.Fatal("expected access_token in login response")
	}
	if login["token_type"] != "bearer" {
		t.Fatalf("expected bearer token type, got %v", login["token_type"])
	}

	w = performJSON(t, r, http.MethodGet, "/api/v1/auth/me", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	me := decodeBody(t, w)["user"].(map[string]interface{})
	if me["username"] != "flow" {
		t.Fatalf("unexpected me payload: %v", me)
	}
}

func TestSignupRejectsDuplicateAndInvalid(t *testing.T) {
	_, r := setupTestAPI(t)

	payload := gin.H{"email": "dup@example.com", "username": "dup", "password": "secret123"}
	if w := performJSON(t, r, http.MethodPost, "/api/v1/auth/signup", "", payload); w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", w.Code)
	}
	if w := performJSON(t, r, http.MethodPost, "/api/v1/auth/signup", "", payload); w.Code != http.StatusConflict {
		t.Fatalf("expected status 409 for duplicate email, got %d", w.Code)
	}

	w := performJSON(t, r, http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"email":    "not-an-email",
		"username": "bad",
		"password": "secret123",
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422 for invalid email, got %d", w.Code)
	}

	w = performJSON(t, r, http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"email":    "short@example.com",
		"username": "short",
		"password": "123",
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422 for short password, got %d", w.Code)
	}
}

func TestUpdateMeAppliesPartialPatch(t *testing.T) {
	api, r := setupTestAPI(t)
	_, token := signupTestUser(t, api, "profile@example.com", "profile")
	_, _ = signupTestUser(t, api, "taken@example.com", "taken")

	w := performJSON(t, r, http.MethodPut, "/api/v1/auth/me", token, gin.H{
		"username": "renamed",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	user := decodeBody(t, w)["user"].(map[string]interface{})
	if user["username"] != "renamed" {
		t.Fatalf("expected renamed user, got %v", user["username"])
	}
	if user["email"] != "profile@example.com" {
		t.Fatalf("expected email unchanged, got %v", user["email"])
	}

	// 改成已被占用的邮箱是冲突
	w = performJSON(t, r, http.MethodPut, "/api/v1/auth/me", token, gin.H{
		"email": "taken@example.com",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", w.Code)
	}
}

func TestLoginRejectsBadCredentialsAndInactive(t *testing.T) {
	api, r := setupTestAPI(t)
	user, _ := signupTestUser(t, api, "locked@example.com", "locked")

	w := performJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "locked@example.com",
		"password": "wrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 for wrong password, got %d", w.Code)
	}

	if err := api.db.Model(user).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate user: %v", err)
	}
	w = performJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "locked@example.com",
		"password": "secret123",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 for inactive account, got %d", w.Code)
	}
}

func TestAuthMiddlewareRejectsBadTokens(t *testing.T) {
	api, r := setupTestAPI(t)
	user, token := signupTestUser(t, api, "mid@example.com", "mid")

	if w := performJSON(t, r, http.MethodGet, "/api/v1/auth/me", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 without token, got %d", w.Code)
	}
	if w := performJSON(t, r, http.MethodGet, "/api/v1/auth/me", "garbage", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 for garbage token, got %d", w.Code)
	}

	// 被停用的账号即便令牌有效也无法通过
	if err := api.db.Model(user).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate user: %v", err)
	}
	if w := performJSON(t, r, http.MethodGet, "/api/v1/auth/me", token, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 for deactivated user, got %d", w.Code)
	}

	// OptionalAuth 对无效令牌降级为匿名而不是 401
	board, err := api.boards.Create(user.ID, "游客可见", "内容")
	if err != nil {
		t.Fatalf("create board: %v", err)
	}
	w := performJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/boards/%d", board.ID), "garbage", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 via optional auth, got %d", w.Code)
	}
	detail := decodeBody(t, w)["board"].(map[string]interface{})
	if detail["is_author"] != false {
		t.Fatalf("expected anonymous viewer, got %v", detail)
	}
}
