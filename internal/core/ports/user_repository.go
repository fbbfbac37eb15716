package ports

import (
	"context"

	"github.com/titanicdata/passenger-api/internal/core/domain"
)

// UserRepository is the credential store. Implementations must enforce email
// uniqueness atomically: a concurrent duplicate Insert returns
// domain.ErrEmailExists for all but one caller.
type UserRepository interface {
	// FindByEmail returns domain.ErrUserNotFound when no user matches.
	// The match is case-sensitive and exact.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByID returns domain.ErrUserNotFound when no user matches.
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	// Insert stores the user and assigns its id.
	Insert(ctx context.Context, user *domain.User) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Count(ctx context.Context) (int64, error)
}
