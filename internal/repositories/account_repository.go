package repositories

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"salon_crm_backend/internal/models"
)

// AccountRepository looks up login accounts.
type AccountRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
}

// AccountSeed is a login whose password still needs hashing.
type AccountSeed struct {
	Email    string
	Password string
	Name     string
	Role     string
}

type staticAccountRepository struct {
	accounts map[string]models.Account // keyed by lower-cased email
}

// NewStaticAccountRepository hashes each seed password with bcrypt and keeps
// the accounts in memory. Seeds without an email or password are ignored.
func NewStaticAccountRepository(seeds []AccountSeed, cost int) (AccountRepository, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	repo := &staticAccountRepository{accounts: make(map[string]models.Account, len(seeds))}
	for _, seed := range seeds {
		email := strings.ToLower(strings.TrimSpace(seed.Email))
		if email == "" || seed.Password == "" {
			continue
		}
		if _, dup := repo.accounts[email]; dup {
			return nil, fmt.Errorf("%w: account %s configured twice", ErrDuplicateKey, email)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), cost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password for %s: %w", email, err)
		}
		repo.accounts[email] = models.Account{
			Email:        strings.TrimSpace(seed.Email),
			Name:         seed.Name,
			Role:         seed.Role,
			PasswordHash: string(hash),
		}
	}
	return repo, nil
}

func (r *staticAccountRepository) FindByEmail(_ context.Context, email string) (*models.Account, error) {
	acc, ok := r.accounts[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, ErrNotFound
	}
	return &acc, nil
}
