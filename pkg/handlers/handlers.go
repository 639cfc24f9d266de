package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/arnavshah/staffing-planner-go/pkg/auth"
	"github.com/arnavshah/staffing-planner-go/pkg/config"
	"github.com/arnavshah/staffing-planner-go/pkg/database"
	"github.com/arnavshah/staffing-planner-go/pkg/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Version is reported by the index route
const Version = "1.0.0"

// PlanStore is the persistence the planning routes need
type PlanStore interface {
	ListPeople(ctx context.Context) ([]models.RosterPerson, error)
	GetPerson(ctx context.Context, id string) (models.RosterPerson, error)
	CreatePerson(ctx context.Context, p models.RosterPerson) (models.RosterPerson, error)
	UpdatePerson(ctx context.Context, id string, p models.RosterPerson) (models.RosterPerson, error)
	DeletePerson(ctx context.Context, id string) error

	ListProjects(ctx context.Context) ([]models.Project, error)
	GetProject(ctx context.Context, id string) (models.Project, error)
	CreateProject(ctx context.Context, p models.Project) (models.Project, error)
	UpdateProject(ctx context.Context, id string, p models.Project) (models.Project, error)
	DeleteProject(ctx context.Context, id string) error
	SetMembers(ctx context.Context, projectID string, personIDs []string) (models.Project, error)
	AppendMonth(ctx context.Context, projectID string, m models.MonthRow) (models.Project, error)
	UpdateMonth(ctx context.Context, projectID string, index int, m models.MonthRow) (models.Project, error)
	DeleteMonth(ctx context.Context, projectID string, index int) (models.Project, error)

	ListTodos(ctx context.Context, weekOf string) ([]models.WeeklyTodo, error)
	CreateTodo(ctx context.Context, t models.WeeklyTodo) (models.WeeklyTodo, error)
	UpdateTodo(ctx context.Context, id string, t models.WeeklyTodo) (models.WeeklyTodo, error)
	DeleteTodo(ctx context.Context, id string) error

	Snapshot(ctx context.Context) (models.Snapshot, error)
}

// Handler contains dependencies for the route handlers
type Handler struct {
	DB     *gorm.DB
	Store  PlanStore
	Config config.Config
}

// NewHandler wires the handlers to an open database
func NewHandler(db *gorm.DB, cfg config.Config) *Handler {
	return &Handler{DB: db, Store: database.NewStore(db), Config: cfg}
}

// Register mounts every route on r
func (h *Handler) Register(r *gin.Engine) {
	r.GET("/", h.Index)
	r.POST("/admin/login", h.Login)

	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware())
	{
		admin.POST("/keys", h.GenerateKey)
		admin.GET("/keys", h.ListKeys)
		admin.PUT("/keys/:id", h.UpdateKeyLimit)
		admin.DELETE("/keys/:id", h.RevokeKey)
		admin.GET("/usage/:id", h.GetUsage)
	}

	api := r.Group("/api")
	api.Use(h.APIKeyMiddleware())
	h.registerAPI(api)
}

// registerAPI mounts the planning routes; split out so tests can skip key checks
func (h *Handler) registerAPI(api *gin.RouterGroup) {
	api.GET("/people", h.ListPeople)
	api.POST("/people", h.CreatePerson)
	api.GET("/people/:id", h.GetPerson)
	api.PUT("/people/:id", h.UpdatePerson)
	api.DELETE("/people/:id", h.DeletePerson)

	api.GET("/projects", h.ListProjects)
	api.POST("/projects", h.CreateProject)
	api.GET("/projects/:id", h.GetProject)
	api.PUT("/projects/:id", h.UpdateProject)
	api.DELETE("/projects/:id", h.DeleteProject)
	api.PUT("/projects/:id/members", h.SetMembers)
	api.POST("/projects/:id/months", h.AppendMonth)
	api.PUT("/projects/:id/months/:index", h.UpdateMonth)
	api.DELETE("/projects/:id/months/:index", h.DeleteMonth)
	api.GET("/projects/:id/totals", h.ProjectTotals)
	api.GET("/projects/:id/breakdown", h.ProjectBreakdown)

	api.GET("/analytics/portfolio", h.Portfolio)
	api.GET("/analytics/calendar", h.Calendar)
	api.GET("/analytics/utilization", h.Utilization)
	api.POST("/analytics/snapshot", h.AnalyzeSnapshot)
	api.POST("/analytics/csv", h.AnalyzeCSV)

	api.GET("/todos", h.ListTodos)
	api.POST("/todos", h.CreateTodo)
	api.PUT("/todos/:id", h.UpdateTodo)
	api.DELETE("/todos/:id", h.DeleteTodo)

	api.POST("/validate", h.ValidateInput)
	api.GET("/usage", h.GetMyUsage)
}

// Index reports the service name and version
func (h *Handler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Staffing Planner API",
		"version": Version,
	})
}

// RequestLogger logs one line per request with its status and latency
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		} else if status >= http.StatusBadRequest {
			level = slog.LevelWarn
		}
		slog.Log(c.Request.Context(), level, "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
	}
}

func bearer(c *gin.Context) string {
	return strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
}

// AuthMiddleware verifies the JWT token for admin routes
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearer(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		claims, err := auth.VerifyToken(h.Config.JWTSecret, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set("username", claims.Username)
		c.Next()
	}
}

// APIKeyMiddleware verifies the HMAC API key and enforces its daily rate limit
func (h *Handler) APIKeyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := bearer(c)
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "API Key required"})
			return
		}

		userID, err := auth.VerifyHMACKey(h.Config.APIMasterSecret, key)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid API Key signature"})
			return
		}

		apiKey, err := database.TouchAPIKey(h.DB, database.APIKey{
			Key:        key,
			Name:       userID,
			KeyPreview: auth.KeyPreview(key),
			RateLimit:  h.Config.DefaultRateLimit,
		})
		if errors.Is(err, database.ErrKeyRevoked) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "API Key revoked"})
			return
		}
		if err != nil {
			respondError(c, err)
			c.Abort()
			return
		}
		if err := database.CheckRateLimit(h.DB, apiKey); err != nil {
			if errors.Is(err, database.ErrRateLimited) {
				c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Daily rate limit exceeded"})
				return
			}
			respondError(c, err)
			c.Abort()
			return
		}

		c.Set("apiKey", apiKey)
		c.Set("userID", userID)
		c.Next()

		// every request that reaches a handler counts toward the daily limit
		u, _ := c.Value(usageKey).(usageCounts)
		if err := database.RecordUsage(h.DB, apiKey.ID, u.projects, u.people); err != nil {
			slog.Warn("recording usage failed", "key_id", apiKey.ID, "error", err)
		}
	}
}

// usageCounts is the size of the data a request touched
type usageCounts struct {
	projects int
	people   int
}

const usageKey = "usage"

// noteUsage records the data size of the current request; the API key
// middleware stores it once the handler returns
func noteUsage(c *gin.Context, projects, people int) {
	c.Set(usageKey, usageCounts{projects: projects, people: people})
}

// respondError maps store errors onto HTTP statuses
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, database.ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		slog.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// Login handles admin login
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	var user database.MasterUser
	if err := h.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := auth.CreateToken(h.Config.JWTSecret, user.Username)
	if err != nil {
		slog.Error("creating token failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
}

// GenerateKey creates a new API key using the HMAC strategy
func (h *Handler) GenerateKey(c *gin.Context) {
	var req struct {
		Name      string `json:"name"`
		RateLimit int    `json:"rate_limit"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	if req.Name == "" || strings.Contains(req.Name, ".") {
		badRequest(c, "name is required and may not contain '.'")
		return
	}

	if req.RateLimit <= 0 {
		req.RateLimit = h.Config.DefaultRateLimit
	}

	key := auth.GenerateHMACKey(h.Config.APIMasterSecret, req.Name)
	apiKey, err := database.IssueAPIKey(h.DB, database.APIKey{
		Key:        key,
		Name:       req.Name,
		KeyPreview: auth.KeyPreview(key),
		RateLimit:  req.RateLimit,
	})
	if err != nil {
		slog.Error("creating key failed", "name", req.Name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create key record"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":   apiKey.ID,
		"name": req.Name,
		"key":  key,
	})
}

// ListKeys returns all API keys
func (h *Handler) ListKeys(c *gin.Context) {
	var keys []database.APIKey
	if err := h.DB.Order("id").Find(&keys).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"keys": keys})
}

// RevokeKey blocks an API key from further use
func (h *Handler) RevokeKey(c *gin.Context) {
	if err := database.RevokeAPIKey(h.DB, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Key revoked"})
}

// UpdateKeyLimit updates the rate limit for a key
func (h *Handler) UpdateKeyLimit(c *gin.Context) {
	id := c.Param("id")
	var req struct {
		RateLimit int `json:"rate_limit" form:"rate_limit"`
	}

	// JSON body first, then the query string
	if err := c.ShouldBindJSON(&req); err != nil {
		if err := c.ShouldBindQuery(&req); err != nil {
			badRequest(c, "rate_limit is required")
			return
		}
	}

	if req.RateLimit <= 0 {
		badRequest(c, "invalid rate limit")
		return
	}

	if err := h.DB.Model(&database.APIKey{}).Where("id = ?", id).Update("rate_limit", req.RateLimit).Error; err != nil {
		slog.Error("updating key limit failed", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update key limit"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Rate limit updated successfully"})
}

// GetUsage returns usage stats for a key
func (h *Handler) GetUsage(c *gin.Context) {
	var apiKey database.APIKey
	if err := h.DB.First(&apiKey, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Key not found"})
		return
	}
	usage, err := database.UsageHistory(h.DB, apiKey.ID, 30)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"usage": usage})
}
