package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"salon_crm_backend/internal/models"
	"salon_crm_backend/internal/repositories"
	"salon_crm_backend/pkg/utils"
)

// --- Custom Service Errors for Staff ---
var (
	ErrStaffNotFound       = errors.New("staff member not found")
	ErrStaffDataValidation = fmt.Errorf("%w: staff data", models.ErrValidation)
	ErrStaffNameExists     = errors.New("a staff member with this name already exists")
)

// --- StaffMember DTOs ---
type CreateStaffMemberRequest struct {
	Name     string  `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Position string  `json:"position"`
	IsActive *bool   `json:"is_active"` // defaults to true
}

// UpdateStaffMemberRequest replaces name, position and contact details.
// IsActive keeps its current value when omitted.
type UpdateStaffMemberRequest struct {
	Name     string  `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Position string  `json:"position"`
	IsActive *bool   `json:"is_active"`
}

// --- StaffService Interface ---
type StaffService interface {
	CreateStaffMember(ctx context.Context, req CreateStaffMemberRequest) (*models.StaffMember, error)
	GetStaffMemberByID(ctx context.Context, id string) (*models.StaffMember, error)
	GetStaffMembers(ctx context.Context, activeOnly bool) ([]models.StaffMember, error)
	UpdateStaffMember(ctx context.Context, id string, req UpdateStaffMemberRequest) (*models.StaffMember, error)
	DeleteStaffMember(ctx context.Context, id string) error
}

type staffService struct {
	repo repositories.StaffRepository
}

// NewStaffService creates a new instance of StaffService.
func NewStaffService(repo repositories.StaffRepository) StaffService {
	return &staffService{repo: repo}
}

func validateStaffFields(name, position string, email *string) error {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(position) == "" {
		return fmt.Errorf("%w: name and position are required", ErrStaffDataValidation)
	}
	if e := utils.NewNullString(utils.DerefString(email)); e != nil && !utils.IsValidEmail(*e) {
		return fmt.Errorf("%w: email format is invalid", ErrStaffDataValidation)
	}
	return nil
}

func mapStaffRepoError(err error, action string) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return ErrStaffNotFound
	case errors.Is(err, repositories.ErrDuplicateKey):
		return ErrStaffNameExists
	default:
		return fmt.Errorf("failed to %s staff member: %w", action, err)
	}
}

func (s *staffService) CreateStaffMember(ctx context.Context, req CreateStaffMemberRequest) (*models.StaffMember, error) {
	if err := validateStaffFields(req.Name, req.Position, req.Email); err != nil {
		return nil, err
	}
	member := &models.StaffMember{
		Name:     strings.TrimSpace(req.Name),
		Email:    utils.NewNullString(utils.DerefString(req.Email)),
		Phone:    utils.NewNullString(utils.DerefString(req.Phone)),
		Position: strings.TrimSpace(req.Position),
		IsActive: true,
	}
	if req.IsActive != nil {
		member.IsActive = *req.IsActive
	}
	if err := s.repo.Create(ctx, member); err != nil {
		return nil, mapStaffRepoError(err, "create")
	}
	return member, nil
}

func (s *staffService) GetStaffMemberByID(ctx context.Context, id string) (*models.StaffMember, error) {
	member, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapStaffRepoError(err, "get")
	}
	return member, nil
}

func (s *staffService) GetStaffMembers(ctx context.Context, activeOnly bool) ([]models.StaffMember, error) {
	staff, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	return staff, nil
}

func (s *staffService) UpdateStaffMember(ctx context.Context, id string, req UpdateStaffMemberRequest) (*models.StaffMember, error) {
	if err := validateStaffFields(req.Name, req.Position, req.Email); err != nil {
		return nil, err
	}
	member, err := s.GetStaffMemberByID(ctx, id)
	if err != nil {
		return nil, err
	}
	member.Name = strings.TrimSpace(req.Name)
	member.Email = utils.NewNullString(utils.DerefString(req.Email))
	member.Phone = utils.NewNullString(utils.DerefString(req.Phone))
	member.Position = strings.TrimSpace(req.Position)
	if req.IsActive != nil {
		member.IsActive = *req.IsActive
	}
	if err := s.repo.Update(ctx, member); err != nil {
		return nil, mapStaffRepoError(err, "update")
	}
	return member, nil
}

func (s *staffService) DeleteStaffMember(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapStaffRepoError(err, "delete")
	}
	return nil
}
