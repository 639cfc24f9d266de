package handler

import (
	"log/slog"
	"net/http"

	"github.com/arnavshah/staffing-planner-go/internal/logging"
	"github.com/arnavshah/staffing-planner-go/pkg/auth"
	"github.com/arnavshah/staffing-planner-go/pkg/config"
	"github.com/arnavshah/staffing-planner-go/pkg/database"
	"github.com/arnavshah/staffing-planner-go/pkg/handlers"
	"github.com/gin-gonic/gin"
)

var r *gin.Engine

func init() {
	// .env is only present under vercel dev
	config.LoadEnvFile()
	cfg := config.Load()
	logging.Setup(cfg.LogLevel)

	db, err := database.InitDB(cfg)
	if err != nil {
		logging.Fatal("database init failed", "error", err)
	}
	if err := auth.EnsureAdminExists(db, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		slog.Error("admin bootstrap failed", "error", err)
	}

	gin.SetMode(gin.ReleaseMode)
	r = gin.New()
	r.Use(handlers.RequestLogger(), gin.Recovery())
	handlers.NewHandler(db, cfg).Register(r)
}

// Handler is the entry point for the Vercel Go runtime
func Handler(w http.ResponseWriter, req *http.Request) {
	r.ServeHTTP(w, req)
}
