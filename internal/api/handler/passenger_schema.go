package handler

import "github.com/titanicdata/passenger-api/internal/core/domain"

// createPassengerRequest is the payload for POST /passengers.
type createPassengerRequest struct {
	Name     string   `json:"name"     validate:"required,min=2,max=100"`
	Sex      string   `json:"sex"      validate:"required"`
	Age      *float64 `json:"age"      validate:"omitempty,gte=0,lte=120"`
	Survived *bool    `json:"survived" validate:"required"`
	Pclass   int      `json:"pclass"   validate:"required,gte=1,lte=3"`
	Fare     *float64 `json:"fare"     validate:"omitempty,gte=0"`
	Embarked *string  `json:"embarked"`
}

// updatePassengerRequest is the payload for PUT /passengers/:id. Absent
// fields stay untouched.
type updatePassengerRequest struct {
	Name     *string  `json:"name"     validate:"omitempty,min=2,max=100"`
	Sex      *string  `json:"sex"`
	Age      *float64 `json:"age"      validate:"omitempty,gte=0,lte=120"`
	Survived *bool    `json:"survived"`
	Pclass   *int     `json:"pclass"   validate:"omitempty,gte=1,lte=3"`
	Fare     *float64 `json:"fare"     validate:"omitempty,gte=0"`
	Embarked *string  `json:"embarked"`
}

// listPassengersResponse is the paginated list envelope.
type listPassengersResponse struct {
	Items []domain.Passenger `json:"items"`
	Total int64              `json:"total"`
	Page  int64              `json:"page"`
	Limit int64              `json:"limit"`
}

// searchFiltersEcho mirrors the applied filters back to the caller.
type searchFiltersEcho struct {
	Sex      *string  `json:"sex"`
	MinAge   *float64 `json:"min_age"`
	MaxAge   *float64 `json:"max_age"`
	Pclass   *int     `json:"pclass"`
	Embarked *string  `json:"embarked"`
	Survived *bool    `json:"survived"`
}

// searchPassengersResponse is returned by the advanced search.
type searchPassengersResponse struct {
	Items        []domain.Passenger `json:"items"`
	Count        int                `json:"count"`
	SurvivalRate float64            `json:"survival_rate"`
	Filters      searchFiltersEcho  `json:"filters"`
}

// statisticsResponse is returned by the statistics endpoint.
type statisticsResponse struct {
	GroupBy string                  `json:"group_by,omitempty"`
	Groups  []statisticsGroupSchema `json:"groups"`
}

type statisticsGroupSchema struct {
	Category     string   `json:"category"`
	Count        int64    `json:"count"`
	SurvivalRate float64  `json:"survival_rate"`
	AverageAge   *float64 `json:"average_age"`
	AverageFare  *float64 `json:"average_fare"`
}
