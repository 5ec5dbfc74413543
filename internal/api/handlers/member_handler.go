package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orkestra-labs/roster-backend/internal/api/middleware"
	"github.com/orkestra-labs/roster-backend/internal/models"
	"github.com/orkestra-labs/roster-backend/internal/repository"
	"github.com/orkestra-labs/roster-backend/internal/service"
)

// ============================================
// Member Handler
// ============================================

type MemberHandler struct {
	memberService service.MemberService
}

func (h *MemberHandler) List(c *gin.Context) {
	members, err := h.memberService.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch members"})
		return
	}

	response := make([]models.MemberResponse, len(members))
	for i, m := range members {
		response[i] = toMemberResponse(m)
	}

	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: response})
}

func (h *MemberHandler) Get(c *gin.Context) {
	member, err := h.memberService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: toMemberResponse(member)})
}

func (h *MemberHandler) Create(c *gin.Context) {
	memberID, ok := middleware.RequireMemberID(c)
	if !ok {
		return
	}

	var req models.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	member := &repository.Member{
		Name:           req.Name,
		RegistrationNo: req.RegistrationNo,
		Email:          req.Email,
		Phone:          req.Phone,
		Department:     req.Department,
		Cohort:         req.Cohort,
		Status:         req.Status,
	}

	created, err := h.memberService.Create(c.Request.Context(), memberID, member, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.SuccessResponse{Success: true, Data: toMemberResponse(created)})
}

// Update binds the dashboard's multipart form. The status field arrives
// under either its canonical key or the legacy status_keanggotaan key, and
// an optional photo file part replaces the profile photo.
func (h *MemberHandler) Update(c *gin.Context) {
	memberID, ok := middleware.RequireMemberID(c)
	if !ok {
		return
	}

	var req models.UpdateMemberRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := &service.MemberUpdateInput{
		Name:           req.Name,
		RegistrationNo: req.RegistrationNo,
		Email:          req.Email,
		Phone:          req.Phone,
		Department:     req.Department,
		Cohort:         req.Cohort,
		Status:         req.EffectiveStatus(),
	}

	if req.ConfirmationDate != nil && *req.ConfirmationDate != "" {
		parsed, err := time.Parse("2006-01-02", *req.ConfirmationDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "confirmation_date must be YYYY-MM-DD"})
			return
		}
		input.ConfirmationDate = &parsed
	}

	if file, err := c.FormFile("photo"); err == nil {
		src, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read photo"})
			return
		}
		defer src.Close()

		input.Photo = &service.PhotoUpload{
			Filename:    file.Filename,
			ContentType: file.Header.Get("Content-Type"),
			Size:        file.Size,
			Body:        src,
		}
	}

	result, err := h.memberService.Update(c.Request.Context(), memberID, c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := models.SuccessResponse{Success: true, Data: toMemberResponse(result.Member)}
	if result.Request != nil {
		resp.Message = "Status change submitted for approval"
		c.JSON(http.StatusAccepted, gin.H{
			"success": true,
			"message": resp.Message,
			"data":    toMemberResponse(result.Member),
			"request": toStatusRequestResponse(result.Request),
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Editable returns the per-field edit permissions the viewer has on the
// target record.
func (h *MemberHandler) Editable(c *gin.Context) {
	memberID, ok := middleware.RequireMemberID(c)
	if !ok {
		return
	}

	targetID := c.Param("id")
	fields, err := h.memberService.EditableFields(c.Request.Context(), memberID, targetID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: models.EditableFieldsResponse{
		MemberID: targetID,
		Fields:   fields,
	}})
}

func (h *MemberHandler) Delete(c *gin.Context) {
	memberID, ok := middleware.RequireMemberID(c)
	if !ok {
		return
	}

	if err := h.memberService.Delete(c.Request.Context(), memberID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member deleted"})
}
