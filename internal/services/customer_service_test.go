package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salon_crm_backend/internal/models"
	"salon_crm_backend/internal/repositories"
)

func TestCustomerService_CreateNormalizes(t *testing.T) {
	svc := NewCustomerService(newFakeCustomerRepo())
	req := validRequest("  Anita ")
	req.Services = []string{" Hair Cut ", "", "Facial"}
	req.ServiceTakenBy = models.NewStaffNames("Priya Sharma", "Priya Sharma")
	req.Email = ptr("  ")
	req.Discount = 10

	c, err := svc.CreateCustomer(context.Background(), req)
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "Anita", c.Name)
	assert.Equal(t, []string{"Hair Cut", "Facial"}, c.Services)
	assert.Equal(t, models.StaffNames{"Priya Sharma"}, c.ServiceTakenBy)
	assert.Equal(t, models.PaymentCash, c.PaymentType)
	assert.Nil(t, c.Email)
	assert.InDelta(t, 90.0, c.FinalAmount(), 1e-9)
	assert.False(t, c.VisitDate.IsZero(), "visit date defaults to creation time")
}

func TestCustomerService_CreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CustomerRequest)
	}{
		{"missing name", func(r *CustomerRequest) { r.Name = " " }},
		{"short contact", func(r *CustomerRequest) { r.Contact = "12345" }},
		{"contact with letters", func(r *CustomerRequest) { r.Contact = "98765abcde" }},
		{"bad email", func(r *CustomerRequest) { r.Email = ptr("not-an-email") }},
		{"no services", func(r *CustomerRequest) { r.Services = []string{" "} }},
		{"negative amount", func(r *CustomerRequest) { r.Amount = -1 }},
		{"discount over 100", func(r *CustomerRequest) { r.Discount = 101 }},
		{"negative discount", func(r *CustomerRequest) { r.Discount = -5 }},
		{"unknown payment", func(r *CustomerRequest) { r.PaymentType = "CHEQUE" }},
	}
	svc := NewCustomerService(newFakeCustomerRepo())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest("Anita")
			tt.mutate(&req)
			_, err := svc.CreateCustomer(context.Background(), req)
			assert.ErrorIs(t, err, ErrCustomerValidation)
			assert.ErrorIs(t, err, models.ErrValidation)
		})
	}
}

func TestCustomerService_CreatePropagatesStoreError(t *testing.T) {
	repo := newFakeCustomerRepo()
	repo.createErr = repositories.ErrDatabaseError
	svc := NewCustomerService(repo)

	_, err := svc.CreateCustomer(context.Background(), validRequest("Anita"))
	assert.ErrorIs(t, err, repositories.ErrDatabaseError)
	assert.False(t, errors.Is(err, models.ErrValidation))
}

func TestCustomerService_UpdateOverwrites(t *testing.T) {
	ctx := context.Background()
	svc := NewCustomerService(newFakeCustomerRepo())
	visit := time.Date(2024, 1, 5, 11, 0, 0, 0, time.UTC)
	req := validRequest("Anita")
	req.VisitDate = &visit
	req.Notes = ptr("regular")
	created, err := svc.CreateCustomer(ctx, req)
	require.NoError(t, err)

	upd := validRequest("Anita Rao")
	upd.Services = []string{"Facial"}
	upd.PaymentType = "UPI"
	updated, err := svc.UpdateCustomer(ctx, created.ID, upd)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Anita Rao", updated.Name)
	assert.Equal(t, []string{"Facial"}, updated.Services)
	assert.Nil(t, updated.Notes, "omitted fields are cleared")
	assert.True(t, visit.Equal(updated.VisitDate), "visit date kept when omitted")

	_, err = svc.UpdateCustomer(ctx, "missing", upd)
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestCustomerService_GetCustomersDefaults(t *testing.T) {
	ctx := context.Background()
	svc := NewCustomerService(newFakeCustomerRepo())
	for _, n := range []string{"A", "B", "C"} {
		_, err := svc.CreateCustomer(ctx, validRequest(n))
		require.NoError(t, err)
	}

	list, total, filter, err := svc.GetCustomers(ctx, CustomerListParams{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, list, 3)
	assert.Equal(t, DefaultPage, filter.Page)
	assert.Equal(t, DefaultPageSize, filter.PageSize)

	_, _, filter, err = svc.GetCustomers(ctx, CustomerListParams{PageSize: 10000})
	require.NoError(t, err)
	assert.Equal(t, MaxPageSize, filter.PageSize)
}

func TestCustomerService_DeleteAndBulkDelete(t *testing.T) {
	ctx := context.Background()
	svc := NewCustomerService(newFakeCustomerRepo())
	a, err := svc.CreateCustomer(ctx, validRequest("A"))
	require.NoError(t, err)
	b, err := svc.CreateCustomer(ctx, validRequest("B"))
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteCustomer(ctx, "nope"), ErrCustomerNotFound)

	res := svc.BulkDeleteCustomers(ctx, []string{a.ID, "nope", b.ID})
	assert.Equal(t, 2, res.Deleted)
	assert.Equal(t, []string{"nope"}, res.Failed)

	_, err = svc.GetCustomerByID(ctx, a.ID)
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}
