package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"salon_crm_backend/internal/models"
)

// CustomerRepository defines storage operations for customer visit records.
type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	GetByID(ctx context.Context, id string) (*models.Customer, error)
	List(ctx context.Context, filter models.CustomerListFilter) ([]models.Customer, int, error) // records, total count, error
	ListAll(ctx context.Context) ([]models.Customer, error)
	Update(ctx context.Context, customer *models.Customer) error
	Delete(ctx context.Context, id string) error
	// QueryByDateRange returns records with start <= visit_date < endExclusive.
	// A non-empty serviceFilter keeps only records whose services contain it exactly.
	QueryByDateRange(ctx context.Context, start, endExclusive time.Time, serviceFilter string) ([]models.Customer, error)
}

type customerRepository struct {
	db SQLExecutor
}

// NewCustomerRepository creates a Postgres-backed CustomerRepository.
func NewCustomerRepository(db SQLExecutor) CustomerRepository {
	return &customerRepository{db: db}
}

const customerColumns = `id, name, contact, email, photo, services, service_taken_by, amount, discount,
	payment_type, visit_date, notes, created_at, updated_at`

func scanCustomer(s scanner, extra ...interface{}) (models.Customer, error) {
	var c models.Customer
	var services, staff pq.StringArray
	var paymentType string
	dest := []interface{}{
		&c.ID, &c.Name, &c.Contact, &c.Email, &c.Photo, &services, &staff,
		&c.Amount, &c.Discount, &paymentType, &c.VisitDate, &c.Notes, &c.CreatedAt, &c.UpdatedAt,
	}
	if err := s.Scan(append(dest, extra...)...); err != nil {
		return c, err
	}
	c.Services = []string(services)
	if c.Services == nil {
		c.Services = []string{}
	}
	c.ServiceTakenBy = models.NewStaffNames(staff...)
	c.PaymentType = models.PaymentType(paymentType)
	return c, nil
}

func staffArray(names models.StaffNames) pq.StringArray {
	if names == nil {
		return pq.StringArray{}
	}
	return pq.StringArray(names)
}

// Create inserts a new customer, assigning ID and timestamps when unset.
func (r *customerRepository) Create(ctx context.Context, c *models.Customer) error {
	now := time.Now()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	if c.VisitDate.IsZero() {
		c.VisitDate = now
	}

	query := `INSERT INTO customers (` + customerColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.Name, c.Contact, c.Email, c.Photo, pq.Array(c.Services), staffArray(c.ServiceTakenBy),
		c.Amount, c.Discount, string(c.PaymentType), c.VisitDate, c.Notes, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return translateError("creating customer", err)
	}
	return nil
}

// GetByID retrieves a customer by ID.
func (r *customerRepository) GetByID(ctx context.Context, id string) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	c, err := scanCustomer(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(fmt.Sprintf("getting customer by ID %s", id), err)
	}
	return &c, nil
}

// List retrieves customers newest visit first, with optional search, staff filter and pagination.
func (r *customerRepository) List(ctx context.Context, filter models.CustomerListFilter) ([]models.Customer, int, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + customerColumns + `, COUNT(*) OVER() AS total_count FROM customers`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		pattern := "%" + strings.TrimSpace(*filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR contact ILIKE $%d OR COALESCE(email, '') ILIKE $%d)", argCount, argCount, argCount))
		args = append(args, pattern)
		argCount++
	}
	if filter.Staff != nil && strings.TrimSpace(*filter.Staff) != "" {
		conditions = append(conditions, fmt.Sprintf("$%d = ANY(service_taken_by)", argCount))
		args = append(args, strings.TrimSpace(*filter.Staff))
		argCount++
	}
	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY visit_date DESC, created_at DESC")

	if filter.PageSize > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argCount))
		args = append(args, filter.PageSize)
		argCount++
		if filter.Page > 1 {
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argCount))
			args = append(args, (filter.Page-1)*filter.PageSize)
		}
	}

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying customers: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	customers := []models.Customer{}
	total := 0
	for rows.Next() {
		c, err := scanCustomer(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: scanning customer: %v", ErrDatabaseError, err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating customer rows: %v", ErrDatabaseError, err)
	}
	return customers, total, nil
}

// ListAll returns every customer, newest visit first.
func (r *customerRepository) ListAll(ctx context.Context) ([]models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers ORDER BY visit_date DESC, created_at DESC`
	return r.queryCustomers(ctx, "listing customers", query)
}

// QueryByDateRange returns the records a report covers.
func (r *customerRepository) QueryByDateRange(ctx context.Context, start, endExclusive time.Time, serviceFilter string) ([]models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE visit_date >= $1 AND visit_date < $2`
	args := []interface{}{start, endExclusive}
	if serviceFilter != "" {
		query += ` AND $3 = ANY(services)`
		args = append(args, serviceFilter)
	}
	query += ` ORDER BY visit_date ASC, created_at ASC`
	return r.queryCustomers(ctx, "querying customers by date range", query, args...)
}

func (r *customerRepository) queryCustomers(ctx context.Context, op, query string, args ...interface{}) ([]models.Customer, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDatabaseError, op, err)
	}
	defer rows.Close()

	customers := []models.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: scanning: %v", ErrDatabaseError, op, err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: iterating: %v", ErrDatabaseError, op, err)
	}
	return customers, nil
}

// Update overwrites every mutable field of an existing customer.
func (r *customerRepository) Update(ctx context.Context, c *models.Customer) error {
	c.UpdatedAt = time.Now()
	query := `UPDATE customers SET
	            name = $1, contact = $2, email = $3, photo = $4, services = $5, service_taken_by = $6,
	            amount = $7, discount = $8, payment_type = $9, visit_date = $10, notes = $11, updated_at = $12
	          WHERE id = $13`
	res, err := r.db.ExecContext(ctx, query,
		c.Name, c.Contact, c.Email, c.Photo, pq.Array(c.Services), staffArray(c.ServiceTakenBy),
		c.Amount, c.Discount, string(c.PaymentType), c.VisitDate, c.Notes, c.UpdatedAt, c.ID,
	)
	if err != nil {
		return translateError(fmt.Sprintf("updating customer %s", c.ID), err)
	}
	return requireAffected("updating customer", res)
}

// Delete removes a customer by ID.
func (r *customerRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return translateError(fmt.Sprintf("deleting customer %s", id), err)
	}
	return requireAffected("deleting customer", res)
}
