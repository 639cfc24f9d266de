package handlers

import (
	"log/slog"
	"net/http"

	"github.com/arnavshah/staffing-planner-go/pkg/database"
	"github.com/gin-gonic/gin"
)

// GetMyUsage returns usage stats for the authenticated API key
func (h *Handler) GetMyUsage(c *gin.Context) {
	apiKeyRaw, exists := c.Get("apiKey")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "API Key context missing"})
		return
	}
	apiKey := apiKeyRaw.(*database.APIKey)

	usage, err := database.UsageHistory(h.DB, apiKey.ID, 30)
	if err != nil {
		slog.Error("loading usage failed", "key_id", apiKey.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch usage details"})
		return
	}

	var totalRequests, totalProjects, totalPeople int64
	for _, u := range usage {
		totalRequests += int64(u.RequestCount)
		totalProjects += int64(u.TotalProjects)
		totalPeople += int64(u.TotalPeople)
	}

	c.JSON(http.StatusOK, gin.H{
		"key_name":      apiKey.Name,
		"key_preview":   apiKey.KeyPreview,
		"rate_limit":    apiKey.RateLimit,
		"usage_history": usage,
		"totals": gin.H{
			"requests": totalRequests,
			"projects": totalProjects,
			"people":   totalPeople,
		},
	})
}
