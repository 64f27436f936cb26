package repositories

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"salon_crm_backend/internal/models"
)

// memoryCustomerRepository keeps customers in process memory. It is used when
// STORAGE_BACKEND=memory and by tests.
type memoryCustomerRepository struct {
	mu        sync.RWMutex
	customers map[string]models.Customer
	now       func() time.Time
}

// NewMemoryCustomerRepository creates an empty in-memory CustomerRepository.
func NewMemoryCustomerRepository() CustomerRepository {
	return &memoryCustomerRepository{customers: make(map[string]models.Customer), now: time.Now}
}

func cloneCustomer(c models.Customer) models.Customer {
	c.Services = slices.Clone(c.Services)
	if c.Services == nil {
		c.Services = []string{}
	}
	c.ServiceTakenBy = slices.Clone(c.ServiceTakenBy)
	if c.ServiceTakenBy == nil {
		c.ServiceTakenBy = models.StaffNames{}
	}
	return c
}

// newestFirst orders by visit date, then creation time, both descending.
func newestFirst(a, b models.Customer) int {
	if c := b.VisitDate.Compare(a.VisitDate); c != 0 {
		return c
	}
	return b.CreatedAt.Compare(a.CreatedAt)
}

func (r *memoryCustomerRepository) Create(_ context.Context, c *models.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if _, exists := r.customers[c.ID]; exists {
		return fmt.Errorf("%w: customer %s already exists", ErrDuplicateKey, c.ID)
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	if c.VisitDate.IsZero() {
		c.VisitDate = now
	}
	*c = cloneCustomer(*c)
	r.customers[c.ID] = cloneCustomer(*c)
	return nil
}

func (r *memoryCustomerRepository) GetByID(_ context.Context, id string) (*models.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.customers[id]
	if !ok {
		return nil, ErrNotFound
	}
	c = cloneCustomer(c)
	return &c, nil
}

func (r *memoryCustomerRepository) snapshot(keep func(models.Customer) bool) []models.Customer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.Customer{}
	for _, c := range r.customers {
		if keep == nil || keep(c) {
			out = append(out, cloneCustomer(c))
		}
	}
	return out
}

func (r *memoryCustomerRepository) List(_ context.Context, filter models.CustomerListFilter) ([]models.Customer, int, error) {
	search := ""
	if filter.Search != nil {
		search = strings.ToLower(strings.TrimSpace(*filter.Search))
	}
	staff := ""
	if filter.Staff != nil {
		staff = strings.TrimSpace(*filter.Staff)
	}

	matched := r.snapshot(func(c models.Customer) bool {
		if staff != "" && !c.ServiceTakenBy.Contains(staff) {
			return false
		}
		if search == "" {
			return true
		}
		email := ""
		if c.Email != nil {
			email = *c.Email
		}
		return strings.Contains(strings.ToLower(c.Name), search) ||
			strings.Contains(strings.ToLower(c.Contact), search) ||
			strings.Contains(strings.ToLower(email), search)
	})
	slices.SortStableFunc(matched, newestFirst)

	total := len(matched)
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		from := (page - 1) * filter.PageSize
		if from >= total {
			return []models.Customer{}, total, nil
		}
		to := min(from+filter.PageSize, total)
		matched = matched[from:to]
	}
	return matched, total, nil
}

func (r *memoryCustomerRepository) ListAll(_ context.Context) ([]models.Customer, error) {
	all := r.snapshot(nil)
	slices.SortStableFunc(all, newestFirst)
	return all, nil
}

func (r *memoryCustomerRepository) QueryByDateRange(_ context.Context, start, endExclusive time.Time, serviceFilter string) ([]models.Customer, error) {
	matched := r.snapshot(func(c models.Customer) bool {
		if c.VisitDate.Before(start) || !c.VisitDate.Before(endExclusive) {
			return false
		}
		return serviceFilter == "" || c.HasService(serviceFilter)
	})
	slices.SortStableFunc(matched, func(a, b models.Customer) int {
		if c := a.VisitDate.Compare(b.VisitDate); c != 0 {
			return c
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return matched, nil
}

func (r *memoryCustomerRepository) Update(_ context.Context, c *models.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.customers[c.ID]
	if !ok {
		return ErrNotFound
	}
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = r.now()
	r.customers[c.ID] = cloneCustomer(*c)
	return nil
}

func (r *memoryCustomerRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.customers[id]; !ok {
		return ErrNotFound
	}
	delete(r.customers, id)
	return nil
}

// memoryStaffRepository keeps staff members in process memory.
type memoryStaffRepository struct {
	mu    sync.RWMutex
	staff map[string]models.StaffMember
	now   func() time.Time
}

// NewMemoryStaffRepository creates an in-memory StaffRepository holding seed.
// A seed entry that cannot be stored, such as a repeated name, is an error.
func NewMemoryStaffRepository(seed ...models.StaffMember) (StaffRepository, error) {
	r := &memoryStaffRepository{staff: make(map[string]models.StaffMember), now: time.Now}
	for i := range seed {
		s := seed[i]
		if err := r.Create(context.Background(), &s); err != nil {
			return nil, fmt.Errorf("seed staff %q: %w", s.Name, err)
		}
	}
	return r, nil
}

// SampleStaff is loaded into the in-memory backend at startup.
func SampleStaff() []models.StaffMember {
	return []models.StaffMember{
		{Name: "Priya Sharma", Position: "Stylist", IsActive: true},
		{Name: "Rajesh Kumar", Position: "Manager", IsActive: true},
		{Name: "Sneha Patel", Position: "Receptionist", IsActive: true},
		{Name: "Amit Singh", Position: "Assistant", IsActive: true},
		{Name: "Kavya Reddy", Position: "Trainee", IsActive: false},
	}
}

// nameTaken must be called with the lock held.
func (r *memoryStaffRepository) nameTaken(name, exceptID string) bool {
	for id, s := range r.staff {
		if id != exceptID && s.Name == name {
			return true
		}
	}
	return false
}

func (r *memoryStaffRepository) Create(_ context.Context, s *models.StaffMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if _, exists := r.staff[s.ID]; exists {
		return fmt.Errorf("%w: staff member %s already exists", ErrDuplicateKey, s.ID)
	}
	if r.nameTaken(s.Name, "") {
		return fmt.Errorf("%w: staff name %q (constraint: staff_name_key)", ErrDuplicateKey, s.Name)
	}
	now := r.now()
	s.CreatedAt = now
	s.UpdatedAt = now
	r.staff[s.ID] = *s
	return nil
}

func (r *memoryStaffRepository) GetByID(_ context.Context, id string) (*models.StaffMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.staff[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (r *memoryStaffRepository) List(_ context.Context, activeOnly bool) ([]models.StaffMember, error) {
	r.mu.RLock()
	out := []models.StaffMember{}
	for _, s := range r.staff {
		if activeOnly && !s.IsActive {
			continue
		}
		out = append(out, s)
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b models.StaffMember) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (r *memoryStaffRepository) Update(_ context.Context, s *models.StaffMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.staff[s.ID]
	if !ok {
		return ErrNotFound
	}
	if r.nameTaken(s.Name, s.ID) {
		return fmt.Errorf("%w: staff name %q (constraint: staff_name_key)", ErrDuplicateKey, s.Name)
	}
	s.CreatedAt = existing.CreatedAt
	s.UpdatedAt = r.now()
	r.staff[s.ID] = *s
	return nil
}

func (r *memoryStaffRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.staff[id]; !ok {
		return ErrNotFound
	}
	delete(r.staff, id)
	return nil
}
