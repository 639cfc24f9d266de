package handlers

import (
	"net/http"
	"time"

	"github.com/arnavshah/staffing-planner-go/pkg/models"
	"github.com/gin-gonic/gin"
)

// ListTodos returns the todos of a week; the current week when none is given
func (h *Handler) ListTodos(c *gin.Context) {
	week := c.DefaultQuery("week", time.Now().Format("2006-01-02"))
	todos, err := h.Store.ListTodos(c.Request.Context(), week)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"todos": todos})
}

// CreateTodo adds a todo or BD item
func (h *Handler) CreateTodo(c *gin.Context) {
	var t models.WeeklyTodo
	if err := c.ShouldBindJSON(&t); err != nil {
		badRequest(c, err.Error())
		return
	}
	created, err := h.Store.CreateTodo(c.Request.Context(), t)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateTodo replaces a todo
func (h *Handler) UpdateTodo(c *gin.Context) {
	var t models.WeeklyTodo
	if err := c.ShouldBindJSON(&t); err != nil {
		badRequest(c, err.Error())
		return
	}
	updated, err := h.Store.UpdateTodo(c.Request.Context(), c.Param("id"), t)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteTodo removes a todo
func (h *Handler) DeleteTodo(c *gin.Context) {
	if err := h.Store.DeleteTodo(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Todo deleted"})
}
