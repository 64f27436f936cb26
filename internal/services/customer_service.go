package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"salon_crm_backend/internal/models"
	"salon_crm_backend/internal/repositories"
	"salon_crm_backend/pkg/utils"
)

// --- Custom Service Errors for Customer ---
var (
	ErrCustomerNotFound   = errors.New("customer not found")
	ErrCustomerValidation = fmt.Errorf("%w: customer data", models.ErrValidation)
)

// Default pagination for customer listings.
const (
	DefaultPage     = 1
	DefaultPageSize = 50
	MaxPageSize     = 500
)

// --- Customer DTOs ---

// CustomerRequest carries every writable customer field. Updates are full
// overwrites, so the same shape serves create and update.
type CustomerRequest struct {
	Name           string            `json:"name"`
	Contact        string            `json:"contact"`
	Email          *string           `json:"email"`
	Photo          *string           `json:"photo"`
	Services       []string          `json:"services"`
	ServiceTakenBy models.StaffNames `json:"service_taken_by"`
	Amount         float64           `json:"amount"`
	Discount       float64           `json:"discount"`
	PaymentType    string            `json:"payment_type"`
	VisitDate      *time.Time        `json:"visit_date"`
	Notes          *string           `json:"notes"`
}

type CreateCustomerRequest = CustomerRequest
type UpdateCustomerRequest = CustomerRequest

// BulkDeleteResult reports the outcome of a bulk delete.
type BulkDeleteResult struct {
	Deleted int      `json:"deleted"`
	Failed  []string `json:"failed"`
}

// CustomerListParams are the raw listing parameters from the query string.
type CustomerListParams struct {
	Search   string `form:"search"`
	Staff    string `form:"staff"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// --- CustomerService Interface ---
type CustomerService interface {
	CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*models.Customer, error)
	GetCustomerByID(ctx context.Context, id string) (*models.Customer, error)
	GetCustomers(ctx context.Context, params CustomerListParams) ([]models.Customer, int, models.CustomerListFilter, error)
	UpdateCustomer(ctx context.Context, id string, req UpdateCustomerRequest) (*models.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error
	BulkDeleteCustomers(ctx context.Context, ids []string) BulkDeleteResult
}

type customerService struct {
	repo repositories.CustomerRepository
	now  func() time.Time
}

// NewCustomerService creates a new instance of CustomerService.
func NewCustomerService(repo repositories.CustomerRepository) CustomerService {
	return &customerService{repo: repo, now: time.Now}
}

// buildCustomer validates req and normalizes it into a record.
func buildCustomer(req CustomerRequest) (*models.Customer, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrCustomerValidation)
	}
	contact := strings.TrimSpace(req.Contact)
	if !utils.IsValidContact(contact) {
		return nil, fmt.Errorf("%w: contact number must be exactly 10 digits", ErrCustomerValidation)
	}
	email := utils.NewNullString(utils.DerefString(req.Email))
	if email != nil && !utils.IsValidEmail(*email) {
		return nil, fmt.Errorf("%w: email format is invalid", ErrCustomerValidation)
	}

	services := make([]string, 0, len(req.Services))
	for _, s := range req.Services {
		if s = strings.TrimSpace(s); s != "" {
			services = append(services, s)
		}
	}
	if len(services) == 0 {
		return nil, fmt.Errorf("%w: at least one service is required", ErrCustomerValidation)
	}

	if math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) || req.Amount < 0 {
		return nil, fmt.Errorf("%w: amount must be a non-negative number", ErrCustomerValidation)
	}
	if math.IsNaN(req.Discount) || req.Discount < 0 || req.Discount > 100 {
		return nil, fmt.Errorf("%w: discount must be between 0 and 100", ErrCustomerValidation)
	}

	paymentType := models.PaymentCash
	if strings.TrimSpace(req.PaymentType) != "" {
		pt, ok := models.ParsePaymentType(req.PaymentType)
		if !ok {
			return nil, fmt.Errorf("%w: payment type must be one of CASH, UPI, CARD", ErrCustomerValidation)
		}
		paymentType = pt
	}

	c := &models.Customer{
		Name:           name,
		Contact:        contact,
		Email:          email,
		Photo:          utils.NewNullString(utils.DerefString(req.Photo)),
		Services:       services,
		ServiceTakenBy: models.NewStaffNames(req.ServiceTakenBy...),
		Amount:         req.Amount,
		Discount:       req.Discount,
		PaymentType:    paymentType,
		Notes:          utils.NewNullString(utils.DerefString(req.Notes)),
	}
	if req.VisitDate != nil {
		c.VisitDate = *req.VisitDate
	}
	return c, nil
}

func (s *customerService) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*models.Customer, error) {
	customer, err := buildCustomer(req)
	if err != nil {
		return nil, err
	}
	if customer.VisitDate.IsZero() {
		customer.VisitDate = s.now()
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return customer, nil
}

func (s *customerService) GetCustomerByID(ctx context.Context, id string) (*models.Customer, error) {
	customer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return customer, nil
}

// GetCustomers lists customers and returns the effective filter so callers can echo paging.
func (s *customerService) GetCustomers(ctx context.Context, params CustomerListParams) ([]models.Customer, int, models.CustomerListFilter, error) {
	filter := models.CustomerListFilter{
		Search:   utils.NewNullString(params.Search),
		Staff:    utils.NewNullString(params.Staff),
		Page:     params.Page,
		PageSize: params.PageSize,
	}
	if filter.Page < 1 {
		filter.Page = DefaultPage
	}
	if filter.PageSize < 1 {
		filter.PageSize = DefaultPageSize
	}
	if filter.PageSize > MaxPageSize {
		filter.PageSize = MaxPageSize
	}

	customers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, filter, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, total, filter, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, id string, req UpdateCustomerRequest) (*models.Customer, error) {
	existing, err := s.GetCustomerByID(ctx, id)
	if err != nil {
		return nil, err
	}
	customer, err := buildCustomer(req)
	if err != nil {
		return nil, err
	}
	customer.ID = existing.ID
	customer.CreatedAt = existing.CreatedAt
	if customer.VisitDate.IsZero() {
		customer.VisitDate = existing.VisitDate
	}

	if err := s.repo.Update(ctx, customer); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return customer, nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCustomerNotFound
		}
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	return nil
}

// BulkDeleteCustomers removes each id independently; failures do not stop the rest.
func (s *customerService) BulkDeleteCustomers(ctx context.Context, ids []string) BulkDeleteResult {
	result := BulkDeleteResult{Failed: []string{}}
	for _, id := range ids {
		if err := s.DeleteCustomer(ctx, id); err != nil {
			utils.LogWarn("Bulk delete: customer not removed", map[string]interface{}{"customer_id": id, "error": err.Error()})
			result.Failed = append(result.Failed, id)
			continue
		}
		result.Deleted++
	}
	return result
}
