package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"salon_crm_backend/internal/models"
	"salon_crm_backend/internal/services"
	"salon_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// StaffHandler holds the staff service.
type StaffHandler struct {
	staffService services.StaffService
}

// NewStaffHandler creates a new StaffHandler.
func NewStaffHandler(ss services.StaffService) *StaffHandler {
	return &StaffHandler{staffService: ss}
}

func respondStaffError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, services.ErrStaffNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Staff member not found.", err.Error()))
	case errors.Is(err, services.ErrStaffNameExists):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "A staff member with this name already exists.", err.Error()))
	case errors.Is(err, models.ErrValidation):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
	default:
		utils.RespondInternalError(c, "Failed to "+action+" staff member.")
	}
}

// GetStaffMembers lists staff ordered by name. ?active=true keeps only active members.
func (h *StaffHandler) GetStaffMembers(c *gin.Context) {
	activeOnly := false
	if raw := c.Query("active"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid active filter.", err.Error()))
			return
		}
		activeOnly = v
	}

	staff, err := h.staffService.GetStaffMembers(c.Request.Context(), activeOnly)
	if err != nil {
		utils.LogError(err, "GetStaffMembers: Error from staffService.GetStaffMembers")
		utils.RespondInternalError(c, "Failed to fetch staff.")
		return
	}
	c.JSON(http.StatusOK, staff)
}

// GetStaffMemberByID handles fetching a single staff member.
func (h *StaffHandler) GetStaffMemberByID(c *gin.Context) {
	id := c.Param("id")
	member, err := h.staffService.GetStaffMemberByID(c.Request.Context(), id)
	if err != nil {
		utils.LogError(err, "GetStaffMemberByID: Error for ID "+id)
		respondStaffError(c, err, "fetch")
		return
	}
	c.JSON(http.StatusOK, member)
}

// CreateStaffMember handles adding a staff member.
func (h *StaffHandler) CreateStaffMember(c *gin.Context) {
	var req services.CreateStaffMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateStaffMember: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	member, err := h.staffService.CreateStaffMember(c.Request.Context(), req)
	if err != nil {
		utils.LogError(err, "CreateStaffMember: Error from staffService.CreateStaffMember")
		respondStaffError(c, err, "create")
		return
	}
	c.JSON(http.StatusCreated, member)
}

// UpdateStaffMember handles updating a staff member.
func (h *StaffHandler) UpdateStaffMember(c *gin.Context) {
	id := c.Param("id")
	var req services.UpdateStaffMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateStaffMember: Failed to bind JSON for ID "+id)
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	member, err := h.staffService.UpdateStaffMember(c.Request.Context(), id, req)
	if err != nil {
		utils.LogError(err, "UpdateStaffMember: Error for ID "+id)
		respondStaffError(c, err, "update")
		return
	}
	c.JSON(http.StatusOK, member)
}

// DeleteStaffMember handles removing a staff member.
func (h *StaffHandler) DeleteStaffMember(c *gin.Context) {
	id := c.Param("id")
	if err := h.staffService.DeleteStaffMember(c.Request.Context(), id); err != nil {
		utils.LogError(err, "DeleteStaffMember: Error for ID "+id)
		respondStaffError(c, err, "delete")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Staff member deleted successfully"})
}
