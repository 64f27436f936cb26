package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"salon_crm_backend/internal/models"
)

// StaffRepository defines storage operations for staff members.
type StaffRepository interface {
	Create(ctx context.Context, staff *models.StaffMember) error
	GetByID(ctx context.Context, id string) (*models.StaffMember, error)
	List(ctx context.Context, activeOnly bool) ([]models.StaffMember, error)
	Update(ctx context.Context, staff *models.StaffMember) error
	Delete(ctx context.Context, id string) error
}

type staffRepository struct {
	db SQLExecutor
}

// NewStaffRepository creates a Postgres-backed StaffRepository.
func NewStaffRepository(db SQLExecutor) StaffRepository {
	return &staffRepository{db: db}
}

const staffColumns = `id, name, email, phone, position, is_active, created_at, updated_at`

func scanStaffMember(row scanner) (*models.StaffMember, error) {
	var s models.StaffMember
	if err := row.Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.Position, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *staffRepository) Create(ctx context.Context, s *models.StaffMember) error {
	now := time.Now()
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	s.CreatedAt = now
	s.UpdatedAt = now

	query := `INSERT INTO staff (` + staffColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := r.db.ExecContext(ctx, query,
		s.ID, s.Name, s.Email, s.Phone, s.Position, s.IsActive, s.CreatedAt, s.UpdatedAt,
	); err != nil {
		return translateError("creating staff member", err)
	}
	return nil
}

func (r *staffRepository) GetByID(ctx context.Context, id string) (*models.StaffMember, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE id = $1`
	s, err := scanStaffMember(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(fmt.Sprintf("getting staff member by ID %s", id), err)
	}
	return s, nil
}

// List returns staff ordered by name, optionally only the active ones.
func (r *staffRepository) List(ctx context.Context, activeOnly bool) ([]models.StaffMember, error) {
	query := `SELECT ` + staffColumns + ` FROM staff`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying staff: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	staff := []models.StaffMember{}
	for rows.Next() {
		s, err := scanStaffMember(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning staff member: %v", ErrDatabaseError, err)
		}
		staff = append(staff, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating staff rows: %v", ErrDatabaseError, err)
	}
	return staff, nil
}

func (r *staffRepository) Update(ctx context.Context, s *models.StaffMember) error {
	s.UpdatedAt = time.Now()
	query := `UPDATE staff SET name = $1, email = $2, phone = $3, position = $4, is_active = $5, updated_at = $6
	          WHERE id = $7`
	res, err := r.db.ExecContext(ctx, query, s.Name, s.Email, s.Phone, s.Position, s.IsActive, s.UpdatedAt, s.ID)
	if err != nil {
		return translateError(fmt.Sprintf("updating staff member %s", s.ID), err)
	}
	return requireAffected("updating staff member", res)
}

func (r *staffRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM staff WHERE id = $1`, id)
	if err != nil {
		return translateError(fmt.Sprintf("deleting staff member %s", id), err)
	}
	return requireAffected("deleting staff member", res)
}
