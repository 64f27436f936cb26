package handlers

import (
	"errors"
	"net/http"

	"salon_crm_backend/internal/models"
	"salon_crm_backend/internal/services"
	"salon_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// multipartOverhead allows for form boundaries and headers around the file part.
const multipartOverhead = 1 << 20

// UploadHandler accepts customer photo uploads.
type UploadHandler struct {
	uploadService services.UploadService
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(us services.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: us}
}

// UploadPhoto stores the image in the "file" form field.
func (h *UploadHandler) UploadPhoto(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.uploadService.MaxBytes()+multipartOverhead)
	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusRequestEntityTooLarge, utils.ErrCodePayloadTooLarge, services.ErrUploadTooLarge.Error(), err.Error()))
			return
		}
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, services.ErrNoFile.Error(), err.Error()))
		return
	}
	if fileHeader.Size > h.uploadService.MaxBytes() {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusRequestEntityTooLarge, utils.ErrCodePayloadTooLarge, services.ErrUploadTooLarge.Error(), fileHeader.Filename))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Could not read the uploaded file.", err.Error()))
		return
	}
	defer file.Close()

	result, err := h.uploadService.SavePhoto(file)
	if err != nil {
		utils.LogError(err, "UploadPhoto: Error from uploadService.SavePhoto", map[string]interface{}{"filename": fileHeader.Filename})
		switch {
		case errors.Is(err, services.ErrUploadTooLarge):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusRequestEntityTooLarge, utils.ErrCodePayloadTooLarge, err.Error(), err.Error()))
		case errors.Is(err, services.ErrUnsupportedFileType):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnsupportedMediaType, utils.ErrCodeUnsupportedMedia, services.ErrUnsupportedFileType.Error(), err.Error()))
		case errors.Is(err, models.ErrValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), err.Error()))
		default:
			utils.RespondInternalError(c, "Failed to upload file.")
		}
		return
	}
	c.JSON(http.StatusOK, result)
}
