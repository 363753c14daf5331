package main

import (
	"github.com/blogapp/internal/config"
	"github.com/blogapp/internal/db"
	"github.com/blogapp/internal/logger"
	"github.com/blogapp/internal/router"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env 可选，不存在时直接读环境变量
	_ = godotenv.Load()

	cfg := config.Load()

	log := logger.Init(cfg.LogDir, cfg.LogLevel)

	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// 设置并运行 Gin 服务器
	r := router.Setup(cfg)
	log.Infof("listening on %s", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
