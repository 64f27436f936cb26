package handlers

import (
	"errors"
	"net/http"

	"salon_crm_backend/internal/models"
	"salon_crm_backend/internal/services"
	"salon_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ReportHandler serves revenue reports.
type ReportHandler struct {
	reportService services.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(rs services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: rs}
}

// GetReport aggregates visits between start_date and end_date (YYYY-MM-DD, inclusive).
func (h *ReportHandler) GetReport(c *gin.Context) {
	var params models.ReportRequestParams
	if err := c.ShouldBindQuery(&params); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid query parameters.", err.Error()))
		return
	}

	report, err := h.reportService.GenerateReport(c.Request.Context(), params)
	if err != nil {
		utils.LogError(err, "GetReport: Error from reportService.GenerateReport", map[string]interface{}{
			"start_date": params.StartDate, "end_date": params.EndDate, "service_filter": params.ServiceFilter,
		})
		if errors.Is(err, models.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), err.Error()))
		} else {
			utils.RespondInternalError(c, "Failed to generate report.")
		}
		return
	}
	c.JSON(http.StatusOK, report)
}
