package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr       string
	Port             string
	DatabasePath     string
	JWTSecret        string
	TokenTTL         time.Duration
	GinMode          string
	RootUserEmail    string
	RootUserName     string
	RootUserPassword string
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
func Load() AppConfig {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	databasePath := strings.TrimSpace(os.Getenv("DATABASE_PATH"))
	if databasePath == "" {
		databasePath = "infolink.db"
	}

	jwtSecret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if jwtSecret == "" {
		jwtSecret = "infolink-dev-secret"
	}

	tokenTTL := 30 * time.Minute
	if raw := strings.TrimSpace(os.Getenv("TOKEN_TTL_MINUTES")); raw != "" {
		if minutes, err := strconv.Atoi(raw); err == nil && minutes > 0 {
			tokenTTL = time.Duration(minutes) * time.Minute
		}
	}

	ginMode := strings.TrimSpace(os.Getenv("GIN_MODE"))
	if ginMode == "" {
		ginMode = "release"
	}

	rootUserEmail := strings.TrimSpace(os.Getenv("ROOT_USER_EMAIL"))
	rootUserName := strings.TrimSpace(os.Getenv("ROOT_USER_NAME"))
	rootUserPassword := strings.TrimSpace(os.Getenv("ROOT_USER_PASSWORD"))

	return AppConfig{
		ListenAddr:       listenAddr,
		Port:             port,
		DatabasePath:     databasePath,
		JWTSecret:        jwtSecret,
		TokenTTL:         tokenTTL,
		GinMode:          ginMode,
		RootUserEmail:    rootUserEmail,
		RootUserName:     rootUserName,
		RootUserPassword: rootUserPassword,
	}
}
