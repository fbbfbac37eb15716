package ports

import (
	"context"

	"github.com/titanicdata/passenger-api/internal/core/domain"
)

// AuthService issues credentials and resolves bearer tokens back to live
// user records.
type AuthService interface {
	// Register creates an account. An empty role defaults to domain.RoleUser.
	Register(ctx context.Context, email, password, role string) (*domain.User, error)
	// Login verifies credentials and returns a signed token plus the user.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// Resolve validates a token and returns the current user record. The
	// store is re-read on every call: the token proves identity, never
	// current permissions.
	Resolve(ctx context.Context, token string) (*domain.User, error)
	// ListUsers returns every account. Authorization is the caller's job.
	ListUsers(ctx context.Context) ([]domain.User, error)
}
