package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orkestra-labs/roster-backend/internal/api/middleware"
	"github.com/orkestra-labs/roster-backend/internal/models"
	"github.com/orkestra-labs/roster-backend/internal/repository"
	"github.com/orkestra-labs/roster-backend/internal/service"
)

// ============================================
// Event Handler
// ============================================

type EventHandler struct {
	eventService service.EventService
}

func (h *EventHandler) List(c *gin.Context) {
	var (
		events []*repository.Event
		err    error
	)
	if c.Query("upcoming") == "true" {
		events, err = h.eventService.ListUpcoming(c.Request.Context())
	} else {
		events, err = h.eventService.List(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch events"})
		return
	}

	response := make([]models.EventResponse, len(events))
	for i, e := range events {
		response[i] = toEventResponse(e)
	}

	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: response})
}

func (h *EventHandler) Get(c *gin.Context) {
	event, err := h.eventService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: toEventResponse(event)})
}

func (h *EventHandler) Create(c *gin.Context) {
	memberID, ok := middleware.RequireMemberID(c)
	if !ok {
		return
	}

	var req models.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event := &repository.Event{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Fee:         req.Fee,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
	}

	created, err := h.eventService.Create(c.Request.Context(), memberID, event)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.SuccessResponse{Success: true, Data: toEventResponse(created)})
}

func (h *EventHandler) Update(c *gin.Context) {
	memberID, ok := middleware.RequireMemberID(c)
	if !ok {
		return
	}

	existing, err := h.eventService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	var req models.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Title != nil {
		existing.Title = *req.Title
	}
	if req.Description != nil {
		existing.Description = req.Description
	}
	if req.Location != nil {
		existing.Location = req.Location
	}
	if req.Fee != nil {
		existing.Fee = *req.Fee
	}
	if req.StartsAt != nil {
		existing.StartsAt = *req.StartsAt
	}
	if req.EndsAt != nil {
		existing.EndsAt = req.EndsAt
	}

	updated, err := h.eventService.Update(c.Request.Context(), memberID, existing)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: toEventResponse(updated)})
}

func (h *EventHandler) Delete(c *gin.Context) {
	memberID, ok := middleware.RequireMemberID(c)
	if !ok {
		return
	}

	if err := h.eventService.Delete(c.Request.Context(), memberID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted"})
}
