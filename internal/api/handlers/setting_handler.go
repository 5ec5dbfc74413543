package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orkestra-labs/roster-backend/internal/api/middleware"
	"github.com/orkestra-labs/roster-backend/internal/models"
	"github.com/orkestra-labs/roster-backend/internal/service"
)

// ============================================
// Setting Handler
// ============================================

type SettingHandler struct {
	settingService service.SettingService
}

func (h *SettingHandler) List(c *gin.Context) {
	settings, err := h.settingService.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch settings"})
		return
	}

	response := make([]models.SettingResponse, len(settings))
	for i, s := range settings {
		response[i] = toSettingResponse(s)
	}

	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: response})
}

func (h *SettingHandler) Update(c *gin.Context) {
	memberID, ok := middleware.RequireMemberID(c)
	if !ok {
		return
	}

	var req models.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.settingService.Set(c.Request.Context(), memberID, req.Settings); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Settings updated"})
}
