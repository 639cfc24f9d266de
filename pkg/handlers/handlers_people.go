package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/arnavshah/staffing-planner-go/pkg/finance"
	"github.com/arnavshah/staffing-planner-go/pkg/models"
	"github.com/gin-gonic/gin"
)

// cleanPerson fills defaults and rejects values outside the known enums
func cleanPerson(p *models.RosterPerson) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.PersonType == "" {
		p.PersonType = models.PersonFullTime
	}
	if !p.PersonType.Valid() {
		return fmt.Errorf("unknown person_type %q", p.PersonType)
	}
	if p.Department == "" {
		p.Department = models.DeptOther
	}
	if !p.Department.Valid() {
		return fmt.Errorf("unknown department %q", p.Department)
	}
	if p.CompMode == "" {
		p.CompMode = models.CompMonthly
	}
	if !p.CompMode.Valid() {
		return fmt.Errorf("unknown comp_mode %q", p.CompMode)
	}
	if p.InactiveDate != "" {
		d, ok := finance.NormalizeDate(p.InactiveDate)
		if !ok {
			return fmt.Errorf("inactive_date must be YYYY-MM-DD")
		}
		p.InactiveDate = d
	}
	return nil
}

// ListPeople returns the roster
func (h *Handler) ListPeople(c *gin.Context) {
	people, err := h.Store.ListPeople(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"people": people})
}

// GetPerson returns one roster entry with its effective hourly rate
func (h *Handler) GetPerson(c *gin.Context) {
	p, err := h.Store.GetPerson(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"person":         p,
		"effective_rate": finance.EffectiveHourlyRate(&p),
	})
}

// CreatePerson adds a roster entry
func (h *Handler) CreatePerson(c *gin.Context) {
	var p models.RosterPerson
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := cleanPerson(&p); err != nil {
		badRequest(c, err.Error())
		return
	}
	created, err := h.Store.CreatePerson(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdatePerson replaces a roster entry's fields
func (h *Handler) UpdatePerson(c *gin.Context) {
	var p models.RosterPerson
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := cleanPerson(&p); err != nil {
		badRequest(c, err.Error())
		return
	}
	updated, err := h.Store.UpdatePerson(c.Request.Context(), c.Param("id"), p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeletePerson removes a roster entry and its allocations
func (h *Handler) DeletePerson(c *gin.Context) {
	if err := h.Store.DeletePerson(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Person deleted"})
}
