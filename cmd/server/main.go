package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/infolink/internal/config"
	"github.com/infolink/internal/db"
	"github.com/infolink/internal/handler"
	"github.com/infolink/internal/router"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// 按需创建初始账号
	if err := db.EnsureRootUser(cfg.RootUserEmail, cfg.RootUserName, cfg.RootUserPassword); err != nil {
		log.Fatalf("failed to ensure root user: %v", err)
	}

	// 设置并运行 Gin 服务器
	api := handler.NewAPI(db.DB, cfg.JWTSecret, cfg.TokenTTL)
	r := router.Setup(api)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
