package handler

import (
	"net/http"
	"strconv"

	"productivity-ranker/internal/model"
	"productivity-ranker/internal/service"

	"github.com/gin-gonic/gin"
)

type EntryHandler struct{ entries *service.EntryService }

func NewEntryHandler(entries *service.EntryService) *EntryHandler {
	return &EntryHandler{entries: entries}
}

func (h *EntryHandler) Create(c *gin.Context) {
	var req model.EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	e, err := h.entries.Create(c.Request.Context(), c.GetInt("user_id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

// List returns one day's entries; ?date= defaults to today.
func (h *EntryHandler) List(c *gin.Context) {
	entries, err := h.entries.ListDay(c.Request.Context(), c.GetInt("user_id"), c.Query("date"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(entries))
}

func (h *EntryHandler) Range(c *gin.Context) {
	entries, err := h.entries.ListRange(c.Request.Context(), c.GetInt("user_id"), c.Query("start"), c.Query("end"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(entries))
}

func (h *EntryHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "fields": gin.H{"id": "numeric"}})
		return
	}
	if err := h.entries.Delete(c.Request.Context(), c.GetInt("user_id"), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// nonNil keeps empty lists encoding as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
