package main

import (
	"log/slog"

	"github.com/arnavshah/staffing-planner-go/internal/logging"
	"github.com/arnavshah/staffing-planner-go/pkg/auth"
	"github.com/arnavshah/staffing-planner-go/pkg/config"
	"github.com/arnavshah/staffing-planner-go/pkg/database"
	"github.com/arnavshah/staffing-planner-go/pkg/handlers"
	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadEnvFile()
	cfg := config.Load()
	logging.Setup(cfg.LogLevel)

	if cfg.GinMode == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.JWTSecret == "" || cfg.APIMasterSecret == "" {
		slog.Warn("JWT_SECRET or API_MASTER_SECRET is empty; admin login and API keys will be rejected")
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		logging.Fatal("database init failed", "error", err)
	}
	if err := auth.EnsureAdminExists(db, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		logging.Fatal("admin bootstrap failed", "error", err)
	}

	r := gin.New()
	r.Use(handlers.RequestLogger(), gin.Recovery())
	handlers.NewHandler(db, cfg).Register(r)

	slog.Info("server starting", "port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		logging.Fatal("could not run server", "error", err)
	}
}
