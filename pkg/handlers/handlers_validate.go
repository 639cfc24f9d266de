package handlers

import (
	"net/http"

	"github.com/arnavshah/staffing-planner-go/pkg/snapshot"
	"github.com/gin-gonic/gin"
)

// ValidateInput checks a posted snapshot and reports its problems without storing it
func (h *Handler) ValidateInput(c *gin.Context) {
	data, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"valid": false, "error": err.Error()})
		return
	}
	snap, err := snapshot.Parse(data, snapshot.FormatJSON)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"valid": false,
			"error": err.Error(),
		})
		return
	}

	report := snapshot.Validate(snap)
	if len(snap.People) == 0 {
		report.Valid = false
		report.Errors = append(report.Errors, snapshot.Issue{
			Severity: snapshot.SeverityError,
			Path:     "people",
			Message:  "At least one person is required",
		})
	}
	c.JSON(http.StatusOK, report)
}
