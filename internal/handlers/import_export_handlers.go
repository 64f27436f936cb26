package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"salon_crm_backend/internal/models"
	"salon_crm_backend/internal/services"
	"salon_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// MaxImportBytes caps the size of an uploaded import file.
const MaxImportBytes = 10 << 20

// ImportExportHandler serves spreadsheet import and export.
type ImportExportHandler struct {
	service services.ImportExportService
	now     func() time.Time
}

// NewImportExportHandler creates a new ImportExportHandler.
func NewImportExportHandler(s services.ImportExportService) *ImportExportHandler {
	return &ImportExportHandler{service: s, now: time.Now}
}

// Export writes every customer as CSV or XLSX, selected with ?format=.
func (h *ImportExportHandler) Export(c *gin.Context) {
	format, err := services.ParseExportFormat(c.Query("format"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), err.Error()))
		return
	}

	var buf bytes.Buffer
	if err := h.service.Export(c.Request.Context(), format, &buf); err != nil {
		utils.LogError(err, "Export: Error from importExportService.Export", map[string]interface{}{"format": format})
		utils.RespondInternalError(c, "Failed to export customers.")
		return
	}

	filename := fmt.Sprintf("customers-%s.%s", h.now().Format("20060102"), format)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

// Import creates customers from an uploaded .csv or .xlsx file in the "file" form field.
func (h *ImportExportHandler) Import(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxImportBytes)
	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusRequestEntityTooLarge, utils.ErrCodePayloadTooLarge, "Import file is too large.", err.Error()))
			return
		}
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "No file uploaded.", err.Error()))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.LogError(err, "Import: could not open uploaded file")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Could not read the uploaded file.", err.Error()))
		return
	}
	defer file.Close()

	result, err := h.service.Import(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		utils.LogError(err, "Import: Error from importExportService.Import", map[string]interface{}{"filename": fileHeader.Filename})
		switch {
		case errors.Is(err, models.ErrValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), err.Error()))
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusServiceUnavailable, utils.ErrCodeServiceUnavailable, "Import was interrupted.", summarizeImport(result)))
		default:
			utils.RespondInternalError(c, "Failed to import customers.")
		}
		return
	}

	utils.LogInfo("Import finished", map[string]interface{}{
		"filename": fileHeader.Filename, "total": result.Total, "success": result.Success,
		"failed": result.Failed, "skipped": result.Skipped,
	})
	c.JSON(http.StatusOK, result)
}

func summarizeImport(r *models.ImportResult) string {
	if r == nil {
		return ""
	}
	return fmt.Sprintf("processed %d rows: %d created, %d failed, %d skipped", r.Total, r.Success, r.Failed, r.Skipped)
}

// Template serves a sample CSV for imports.
func (h *ImportExportHandler) Template(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.service.WriteTemplate(&buf); err != nil {
		utils.LogError(err, "Template: failed to write import template")
		utils.RespondInternalError(c, "Failed to build import template.")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="customer-import-template.csv"`)
	c.Data(http.StatusOK, services.FormatCSV.ContentType(), buf.Bytes())
}
