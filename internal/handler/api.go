package handler

import (
	"time"

	"github.com/infolink/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db     *gorm.DB
	users  *service.UserService
	auth   *service.AuthService
	boards *service.BoardService
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, jwtSecret string, tokenTTL time.Duration) *API {
	return &API{
		db:     gdb,
		users:  service.NewUserService(gdb),
		auth:   service.NewAuthService(gdb, jwtSecret, tokenTTL),
		boards: service.NewBoardService(gdb),
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}
