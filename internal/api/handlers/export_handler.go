package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orkestra-labs/roster-backend/internal/api/middleware"
	"github.com/orkestra-labs/roster-backend/internal/models"
	"github.com/orkestra-labs/roster-backend/internal/service"
)

// ============================================
// Export / Backup Handler
// ============================================

type ExportHandler struct {
	exportService service.ExportService
}

func (h *ExportHandler) ExportCSV(c *gin.Context) {
	data, err := h.exportService.ExportCSV(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export members"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="members.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}

func (h *ExportHandler) ExportJSON(c *gin.Context) {
	data, err := h.exportService.ExportJSON(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export members"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="members.json"`)
	c.Data(http.StatusOK, "application/json", data)
}

func (h *ExportHandler) CreateBackup(c *gin.Context) {
	memberID, ok := middleware.RequireMemberID(c)
	if !ok {
		return
	}

	backup, err := h.exportService.CreateBackup(c.Request.Context(), memberID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.SuccessResponse{Success: true, Data: toBackupResponse(backup)})
}

func (h *ExportHandler) ListBackups(c *gin.Context) {
	memberID, ok := middleware.RequireMemberID(c)
	if !ok {
		return
	}

	backups, err := h.exportService.ListBackups(c.Request.Context(), memberID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]models.BackupResponse, len(backups))
	for i, b := range backups {
		response[i] = toBackupResponse(b)
	}

	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: response})
}

// Import accepts a legacy export file as the raw request body and loads the
// members it can recognize.
func (h *ExportHandler) Import(c *gin.Context) {
	memberID, ok := middleware.RequireMemberID(c)
	if !ok {
		return
	}

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 32<<20))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read import payload"})
		return
	}

	result, err := h.exportService.Import(c.Request.Context(), memberID, payload)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: models.ImportResultResponse{
		Imported: result.Imported,
		Skipped:  result.Skipped,
	}})
}
