package ports

import (
	"context"

	"github.com/titanicdata/passenger-api/internal/core/domain"
)

// PassengerRepository defines persistence for passenger records.
type PassengerRepository interface {
	List(ctx context.Context, skip, limit int64) ([]domain.Passenger, error)
	Count(ctx context.Context) (int64, error)
	// FindByID returns domain.ErrPassengerNotFound when no record matches.
	FindByID(ctx context.Context, id int64) (*domain.Passenger, error)
	Search(ctx context.Context, filters SearchFilters) ([]domain.Passenger, error)
	// Insert stores the passenger and assigns its id.
	Insert(ctx context.Context, p *domain.Passenger) (*domain.Passenger, error)
	// Update applies the non-nil fields and returns the updated record, or
	// domain.ErrPassengerNotFound.
	Update(ctx context.Context, id int64, fields UpdateFields) (*domain.Passenger, error)
	// Delete returns domain.ErrPassengerNotFound when no record matches.
	Delete(ctx context.Context, id int64) error
	// Statistics aggregates per-group counts, survival rates and averages.
	// An empty groupBy yields a single overall bucket.
	Statistics(ctx context.Context, groupBy string) ([]StatisticsGroup, error)
}

// StatisticsCache is a short-lived cache of statistics responses keyed by
// the group_by dimension.
type StatisticsCache interface {
	// Get returns the cached groups and whether the key was present.
	Get(ctx context.Context, groupBy string) ([]StatisticsGroup, bool, error)
	Set(ctx context.Context, groupBy string, groups []StatisticsGroup) error
	// Invalidate drops every cached dimension; called after any mutation.
	Invalidate(ctx context.Context) error
}
