package handlers

import (
	"errors"
	"net/http"

	"salon_crm_backend/internal/models"
	"salon_crm_backend/internal/services"
	"salon_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// CustomerHandler holds the customer service.
type CustomerHandler struct {
	customerService services.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(cs services.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: cs}
}

// BulkDeleteRequest lists the customer IDs to delete.
type BulkDeleteRequest struct {
	IDs []string `json:"ids" binding:"required,min=1"`
}

func respondCustomerError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, services.ErrCustomerNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Customer not found.", err.Error()))
	case errors.Is(err, models.ErrValidation):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
	default:
		utils.RespondInternalError(c, "Failed to "+action+" customer.")
	}
}

// CreateCustomer handles the creation of a new customer visit record.
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req services.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateCustomer: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), req)
	if err != nil {
		utils.LogError(err, "CreateCustomer: Error from customerService.CreateCustomer")
		respondCustomerError(c, err, "create")
		return
	}
	c.JSON(http.StatusCreated, customer)
}

// GetCustomers handles listing customers with search, staff filter and pagination.
func (h *CustomerHandler) GetCustomers(c *gin.Context) {
	var params services.CustomerListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid query parameters.", err.Error()))
		return
	}

	customers, total, filter, err := h.customerService.GetCustomers(c.Request.Context(), params)
	if err != nil {
		utils.LogError(err, "GetCustomers: Error from customerService.GetCustomers")
		utils.RespondInternalError(c, "Failed to fetch customers.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      customers,
		"total":     total,
		"page":      filter.Page,
		"page_size": filter.PageSize,
	})
}

// GetCustomerByID handles fetching a single customer.
func (h *CustomerHandler) GetCustomerByID(c *gin.Context) {
	id := c.Param("id")
	customer, err := h.customerService.GetCustomerByID(c.Request.Context(), id)
	if err != nil {
		utils.LogError(err, "GetCustomerByID: Error from customerService.GetCustomerByID for ID "+id)
		respondCustomerError(c, err, "fetch")
		return
	}
	c.JSON(http.StatusOK, customer)
}

// UpdateCustomer handles a full overwrite of a customer record.
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	id := c.Param("id")
	var req services.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateCustomer: Failed to bind JSON for ID "+id)
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	customer, err := h.customerService.UpdateCustomer(c.Request.Context(), id, req)
	if err != nil {
		utils.LogError(err, "UpdateCustomer: Error from customerService.UpdateCustomer for ID "+id)
		respondCustomerError(c, err, "update")
		return
	}
	c.JSON(http.StatusOK, customer)
}

// DeleteCustomer handles deleting a customer.
func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	id := c.Param("id")
	if err := h.customerService.DeleteCustomer(c.Request.Context(), id); err != nil {
		utils.LogError(err, "DeleteCustomer: Error from customerService.DeleteCustomer for ID "+id)
		respondCustomerError(c, err, "delete")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully"})
}

// BulkDeleteCustomers deletes each listed customer independently.
func (h *CustomerHandler) BulkDeleteCustomers(c *gin.Context) {
	var req BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "BulkDeleteCustomers: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	c.JSON(http.StatusOK, h.customerService.BulkDeleteCustomers(c.Request.Context(), req.IDs))
}
