package services

import (
	"context"
	"time"

	"salon_crm_backend/internal/models"
	"salon_crm_backend/internal/repositories"
)

// fakeCustomerRepo wraps the in-memory repository and lets tests inject failures.
type fakeCustomerRepo struct {
	repositories.CustomerRepository
	createErr    error
	queryErr     error
	failCreateOn map[string]error // keyed by customer name
	queryCalls   int
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{CustomerRepository: repositories.NewMemoryCustomerRepository()}
}

func (f *fakeCustomerRepo) Create(ctx context.Context, c *models.Customer) error {
	if f.createErr != nil {
		return f.createErr
	}
	if err, ok := f.failCreateOn[c.Name]; ok {
		return err
	}
	return f.CustomerRepository.Create(ctx, c)
}

func (f *fakeCustomerRepo) QueryByDateRange(ctx context.Context, start, end time.Time, service string) ([]models.Customer, error) {
	f.queryCalls++
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.CustomerRepository.QueryByDateRange(ctx, start, end, service)
}

func ptr[T any](v T) *T { return &v }

func validRequest(name string) CustomerRequest {
	return CustomerRequest{
		Name:        name,
		Contact:     "9876543210",
		Services:    []string{"Hair Cut"},
		Amount:      100,
		PaymentType: "cash",
	}
}
