package ports

import (
	"context"

	"github.com/titanicdata/passenger-api/internal/core/domain"
)

// ListPassengersInput carries pagination parameters.
type ListPassengersInput struct {
	Skip  int64
	Limit int64
}

// ListPassengersResult is returned by List.
type ListPassengersResult struct {
	Items []domain.Passenger
	Total int64
	Page  int64
	Limit int64
}

// SearchFilters are the optional criteria of the advanced search. Nil means
// the criterion is not applied.
type SearchFilters struct {
	Sex      *string
	MinAge   *float64
	MaxAge   *float64
	Pclass   *int
	Embarked *string
	Survived *bool
}

// SearchPassengersResult bundles the matches with their survival rate (in
// percent, one decimal).
type SearchPassengersResult struct {
	Items        []domain.Passenger
	SurvivalRate float64
}

// StatisticsGroup is one aggregation bucket. Category is the stringified
// group key ("overall" when no grouping was requested). Averages are nil
// when no record in the bucket carried the field.
type StatisticsGroup struct {
	Category     string   `json:"category"`
	Count        int64    `json:"count"`
	SurvivalRate float64  `json:"survival_rate"`
	AverageAge   *float64 `json:"average_age"`
	AverageFare  *float64 `json:"average_fare"`
}

// CreatePassengerInput carries the data for a new passenger record.
type CreatePassengerInput struct {
	Name     string
	Sex      string
	Age      *float64
	Survived bool
	Pclass   int
	Fare     *float64
	Embarked *string
}

// UpdateFields is a partial update: nil fields stay untouched.
type UpdateFields struct {
	Name     *string
	Sex      *string
	Age      *float64
	Survived *bool
	Pclass   *int
	Fare     *float64
	Embarked *string
}

// PassengerService defines the use-case operations over passenger records.
// Mutations assume the caller already passed through the auth gates.
type PassengerService interface {
	List(ctx context.Context, input ListPassengersInput) (*ListPassengersResult, error)
	Get(ctx context.Context, id int64) (*domain.Passenger, error)
	Search(ctx context.Context, filters SearchFilters) (*SearchPassengersResult, error)
	Statistics(ctx context.Context, groupBy string) ([]StatisticsGroup, error)
	Create(ctx context.Context, input CreatePassengerInput) (*domain.Passenger, error)
	Update(ctx context.Context, id int64, fields UpdateFields) (*domain.Passenger, error)
	Delete(ctx context.Context, id int64) error
}
