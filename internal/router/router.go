package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/infolink/internal/handler"
)

// Setup 配置 Gin 引擎和路由
func Setup(api *handler.API) *gin.Engine {
	r := gin.Default()

	r.Use(handler.RequestID())

	// 开发环境的宽松 CORS，与前端分离部署
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/signup", api.Signup)
			auth.POST("/login", api.Login)
			auth.GET("/me", api.AuthRequired(), api.Me)
			auth.PUT("/me", api.AuthRequired(), api.UpdateMe)
		}

		boards := v1.Group("/boards")
		{
			boards.GET("", api.ListBoards)
			boards.GET("/:id", api.OptionalAuth(), api.GetBoard)

			// 写操作需要认证
			boards.POST("", api.AuthRequired(), api.CreateBoard)
			boards.PUT("/:id", api.AuthRequired(), api.UpdateBoard)
			boards.DELETE("/:id", api.AuthRequired(), api.DeleteBoard)
		}
	}

	return r
}
