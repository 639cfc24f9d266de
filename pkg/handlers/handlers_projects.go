package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/arnavshah/staffing-planner-go/pkg/finance"
	"github.com/arnavshah/staffing-planner-go/pkg/models"
	"github.com/gin-gonic/gin"
)

// cleanProject fills defaults and checks the fields the engine depends on
func cleanProject(p *models.Project) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.ProjectStatus == "" {
		p.ProjectStatus = models.StatusActive
	}
	if !p.ProjectStatus.Valid() {
		return fmt.Errorf("unknown project_status %q", p.ProjectStatus)
	}
	ym, ok := finance.NormalizeYM(p.StartMonth)
	if !ok {
		return fmt.Errorf("start_month must be YYYY-MM")
	}
	p.StartMonth = ym
	return nil
}

func monthIndex(c *gin.Context) (int, bool) {
	i, err := strconv.Atoi(c.Param("index"))
	if err != nil || i < 0 {
		badRequest(c, "month index must be a non-negative integer")
		return 0, false
	}
	return i, true
}

// ListProjects returns every project
func (h *Handler) ListProjects(c *gin.Context) {
	projects, err := h.Store.ListProjects(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	statuses, err := parseStatuses(c.Query("status"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": filterProjects(projects, statuses)})
}

// GetProject returns one project
func (h *Handler) GetProject(c *gin.Context) {
	p, err := h.Store.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// CreateProject adds a project with its members and months
func (h *Handler) CreateProject(c *gin.Context) {
	var p models.Project
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := cleanProject(&p); err != nil {
		badRequest(c, err.Error())
		return
	}
	created, err := h.Store.CreateProject(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateProject replaces a project's settings; members and months are untouched
func (h *Handler) UpdateProject(c *gin.Context) {
	var p models.Project
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := cleanProject(&p); err != nil {
		badRequest(c, err.Error())
		return
	}
	updated, err := h.Store.UpdateProject(c.Request.Context(), c.Param("id"), p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteProject removes a project
func (h *Handler) DeleteProject(c *gin.Context) {
	if err := h.Store.DeleteProject(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Project deleted"})
}

// SetMembers replaces a project's member set
func (h *Handler) SetMembers(c *gin.Context) {
	var req struct {
		MemberIDs []string `json:"member_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	p, err := h.Store.SetMembers(c.Request.Context(), c.Param("id"), req.MemberIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// AppendMonth adds a month at the end of the project
func (h *Handler) AppendMonth(c *gin.Context) {
	var m models.MonthRow
	if err := c.ShouldBindJSON(&m); err != nil {
		badRequest(c, err.Error())
		return
	}
	p, err := h.Store.AppendMonth(c.Request.Context(), c.Param("id"), m)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// UpdateMonth replaces one month's figures and allocations
func (h *Handler) UpdateMonth(c *gin.Context) {
	index, ok := monthIndex(c)
	if !ok {
		return
	}
	var m models.MonthRow
	if err := c.ShouldBindJSON(&m); err != nil {
		badRequest(c, err.Error())
		return
	}
	p, err := h.Store.UpdateMonth(c.Request.Context(), c.Param("id"), index, m)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// DeleteMonth removes one month; later months move up
func (h *Handler) DeleteMonth(c *gin.Context) {
	index, ok := monthIndex(c)
	if !ok {
		return
	}
	p, err := h.Store.DeleteMonth(c.Request.Context(), c.Param("id"), index)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
