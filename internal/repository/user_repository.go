package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/silverleaf-workload-api/internal/models"
	"github.com/noah-isme/silverleaf-workload-api/pkg/config"
	appErrors "github.com/noah-isme/silverleaf-workload-api/pkg/errors"
)

// UserRepository holds the accounts allowed to sign in. Emails match case-insensitively.
type UserRepository struct {
	mu      sync.RWMutex
	byEmail map[string]models.User
}

// NewUserRepository creates a repository seeded with users.
func NewUserRepository(users ...models.User) *UserRepository {
	r := &UserRepository{byEmail: make(map[string]models.User, len(users))}
	for _, u := range users {
		r.byEmail[emailKey(u.Email)] = u
	}
	return r
}

// FindByEmail returns a user by email address.
func (r *UserRepository) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.byEmail[emailKey(email)]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
	}
	return &user, nil
}

// FindByID returns a user by identifier.
func (r *UserRepository) FindByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.byEmail {
		if user.ID == id {
			u := user
			return &u, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// DemoUser builds the configured demo account. A plain DemoPassword is bcrypt-hashed unless
// DemoPasswordHash is already set.
func DemoUser(cfg config.AuthConfig) (models.User, error) {
	hash := cfg.DemoPasswordHash
	if hash == "" {
		if cfg.DemoPassword == "" {
			return models.User{}, fmt.Errorf("demo account needs DEMO_PASSWORD or DEMO_PASSWORD_HASH")
		}
		raw, err := bcrypt.GenerateFromPassword([]byte(cfg.DemoPassword), bcrypt.DefaultCost)
		if err != nil {
			return models.User{}, fmt.Errorf("hash demo password: %w", err)
		}
		hash = string(raw)
	}
	role := models.UserRole(strings.ToLower(strings.TrimSpace(cfg.DemoRole)))
	if role == "" {
		role = models.RoleAdmin
	}
	return models.User{
		ID:             "user-" + strconv.Itoa(cfg.DemoAdminID),
		Email:          cfg.DemoEmail,
		PasswordHash:   hash,
		Name:           cfg.DemoName,
		Role:           role,
		AdminID:        cfg.DemoAdminID,
		DepartmentID:   cfg.DemoDepartmentID,
		DepartmentName: cfg.DemoDepartment,
	}, nil
}
