package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orkestra-labs/roster-backend/internal/api/middleware"
	"github.com/orkestra-labs/roster-backend/internal/models"
	"github.com/orkestra-labs/roster-backend/internal/service"
)

// ============================================
// Status Request Handler
// ============================================

type StatusRequestHandler struct {
	requestService service.StatusRequestService
}

func (h *StatusRequestHandler) Create(c *gin.Context) {
	memberID, ok := middleware.RequireMemberID(c)
	if !ok {
		return
	}

	var req models.CreateStatusRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.requestService.Create(c.Request.Context(), memberID, req.TargetID, req.ToStatus)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.SuccessResponse{Success: true, Data: toStatusRequestResponse(created)})
}

// ListPending returns requests awaiting the caller's decision.
func (h *StatusRequestHandler) ListPending(c *gin.Context) {
	memberID, ok := middleware.RequireMemberID(c)
	if !ok {
		return
	}

	requests, err := h.requestService.ListPendingForMember(c.Request.Context(), memberID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch requests"})
		return
	}

	response := make([]models.StatusRequestResponse, len(requests))
	for i, r := range requests {
		response[i] = toStatusRequestResponse(r)
	}

	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: response})
}

// ListInitiated returns requests the caller opened.
func (h *StatusRequestHandler) ListInitiated(c *gin.Context) {
	memberID, ok := middleware.RequireMemberID(c)
	if !ok {
		return
	}

	requests, err := h.requestService.ListInitiatedBy(c.Request.Context(), memberID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch requests"})
		return
	}

	response := make([]models.StatusRequestResponse, len(requests))
	for i, r := range requests {
		response[i] = toStatusRequestResponse(r)
	}

	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: response})
}

func (h *StatusRequestHandler) Get(c *gin.Context) {
	memberID, ok := middleware.RequireMemberID(c)
	if !ok {
		return
	}

	request, err := h.requestService.GetByID(c.Request.Context(), memberID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: toStatusRequestResponse(request)})
}

func (h *StatusRequestHandler) Accept(c *gin.Context) {
	memberID, ok := middleware.RequireMemberID(c)
	if !ok {
		return
	}

	resolved, err := h.requestService.Accept(c.Request.Context(), memberID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: toStatusRequestResponse(resolved)})
}

func (h *StatusRequestHandler) Reject(c *gin.Context) {
	memberID, ok := middleware.RequireMemberID(c)
	if !ok {
		return
	}

	resolved, err := h.requestService.Reject(c.Request.Context(), memberID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: toStatusRequestResponse(resolved)})
}
