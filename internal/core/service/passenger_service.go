package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/titanicdata/passenger-api/internal/core/domain"
	"github.com/titanicdata/passenger-api/internal/core/ports"
)

const (
	defaultPageLimit = 100
	maxPageLimit     = 1000
)

var statisticsDimensions = map[string]struct{}{
	"sex":      {},
	"pclass":   {},
	"embarked": {},
	"survived": {},
}

// PassengerService implements the passenger use cases. The statistics cache
// is optional: a nil cache disables caching without changing behaviour.
type PassengerService struct {
	repo   ports.PassengerRepository
	cache  ports.StatisticsCache
	logger zerolog.Logger
}

func NewPassengerService(repo ports.PassengerRepository, cache ports.StatisticsCache, logger zerolog.Logger) *PassengerService {
	return &PassengerService{repo: repo, cache: cache, logger: logger}
}

// List returns a page of passengers with the total record count.
func (s *PassengerService) List(ctx context.Context, input ports.ListPassengersInput) (*ports.ListPassengersResult, error) {
	skip := input.Skip
	if skip < 0 {
		skip = 0
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	items, err := s.repo.List(ctx, skip, limit)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &ports.ListPassengersResult{
		Items: items,
		Total: total,
		Page:  skip/limit + 1,
		Limit: limit,
	}, nil
}

func (s *PassengerService) Get(ctx context.Context, id int64) (*domain.Passenger, error) {
	return s.repo.FindByID(ctx, id)
}

// Search applies the advanced filters and reports the survival rate of the
// matching set.
func (s *PassengerService) Search(ctx context.Context, filters ports.SearchFilters) (*ports.SearchPassengersResult, error) {
	if filters.Sex != nil {
		sex := strings.ToLower(*filters.Sex)
		if !domain.ValidSex(sex) {
			return nil, fmt.Errorf("%w: sex must be 'male' or 'female'", domain.ErrValidation)
		}
		filters.Sex = &sex
	}
	if filters.Embarked != nil {
		port := strings.ToUpper(*filters.Embarked)
		if !domain.ValidEmbarked(port) {
			return nil, fmt.Errorf("%w: embarked must be C, S or Q", domain.ErrValidation)
		}
		filters.Embarked = &port
	}
	if filters.MinAge != nil && filters.MaxAge != nil && *filters.MinAge > *filters.MaxAge {
		return nil, fmt.Errorf("%w: min_age must not exceed max_age", domain.ErrValidation)
	}

	items, err := s.repo.Search(ctx, filters)
	if err != nil {
		return nil, err
	}

	return &ports.SearchPassengersResult{
		Items:        items,
		SurvivalRate: survivalRate(items),
	}, nil
}

// Statistics aggregates passengers grouped by the given dimension (empty for
// an overall summary). Results are served from the cache when present.
func (s *PassengerService) Statistics(ctx context.Context, groupBy string) ([]ports.StatisticsGroup, error) {
	if groupBy != "" {
		if _, ok := statisticsDimensions[groupBy]; !ok {
			return nil, fmt.Errorf("%w: group_by must be one of sex, pclass, embarked, survived", domain.ErrValidation)
		}
	}

	if s.cache != nil {
		if groups, found, err := s.cache.Get(ctx, groupBy); err != nil {
			// A cache failure is not a request failure.
			s.logger.Warn().Err(err).Msg("statistics cache read failed")
		} else if found {
			return groups, nil
		}
	}

	groups, err := s.repo.Statistics(ctx, groupBy)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, groupBy, groups); err != nil {
			s.logger.Warn().Err(err).Msg("statistics cache write failed")
		}
	}
	return groups, nil
}

// Create validates, normalizes and stores a new passenger.
func (s *PassengerService) Create(ctx context.Context, input ports.CreatePassengerInput) (*domain.Passenger, error) {
	name := strings.TrimSpace(input.Name)
	if len(name) < 2 {
		return nil, fmt.Errorf("%w: name must contain at least 2 characters", domain.ErrValidation)
	}

	sex := strings.ToLower(input.Sex)
	if !domain.ValidSex(sex) {
		return nil, fmt.Errorf("%w: sex must be 'male' or 'female'", domain.ErrValidation)
	}
	if input.Age != nil && (*input.Age < 0 || *input.Age > 120) {
		return nil, fmt.Errorf("%w: age must be between 0 and 120", domain.ErrValidation)
	}
	if input.Pclass < 1 || input.Pclass > 3 {
		return nil, fmt.Errorf("%w: pclass must be 1, 2 or 3", domain.ErrValidation)
	}
	if input.Fare != nil && *input.Fare < 0 {
		return nil, fmt.Errorf("%w: fare must not be negative", domain.ErrValidation)
	}

	var embarked *string
	if input.Embarked != nil && *input.Embarked != "" {
		port := strings.ToUpper(*input.Embarked)
		if !domain.ValidEmbarked(port) {
			return nil, fmt.Errorf("%w: embarked must be C, S or Q", domain.ErrValidation)
		}
		embarked = &port
	}

	created, err := s.repo.Insert(ctx, &domain.Passenger{
		Name:     name,
		Sex:      sex,
		Age:      input.Age,
		Survived: input.Survived,
		Pclass:   input.Pclass,
		Fare:     input.Fare,
		Embarked: embarked,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create passenger")
		return nil, err
	}

	s.invalidateStats(ctx)
	s.logger.Info().Int64("passenger_id", created.ID).Msg("passenger created")
	return created, nil
}

// Update applies a partial update after validating the changed fields.
func (s *PassengerService) Update(ctx context.Context, id int64, fields ports.UpdateFields) (*domain.Passenger, error) {
	if fields.Name != nil {
		name := strings.TrimSpace(*fields.Name)
		if len(name) < 2 {
			return nil, fmt.Errorf("%w: name must contain at least 2 characters", domain.ErrValidation)
		}
		fields.Name = &name
	}
	if fields.Sex != nil {
		sex := strings.ToLower(*fields.Sex)
		if !domain.ValidSex(sex) {
			return nil, fmt.Errorf("%w: sex must be 'male' or 'female'", domain.ErrValidation)
		}
		fields.Sex = &sex
	}
	if fields.Age != nil && (*fields.Age < 0 || *fields.Age > 120) {
		return nil, fmt.Errorf("%w: age must be between 0 and 120", domain.ErrValidation)
	}
	if fields.Pclass != nil && (*fields.Pclass < 1 || *fields.Pclass > 3) {
		return nil, fmt.Errorf("%w: pclass must be 1, 2 or 3", domain.ErrValidation)
	}
	if fields.Fare != nil && *fields.Fare < 0 {
		return nil, fmt.Errorf("%w: fare must not be negative", domain.ErrValidation)
	}
	if fields.Embarked != nil {
		port := strings.ToUpper(*fields.Embarked)
		if !domain.ValidEmbarked(port) {
			return nil, fmt.Errorf("%w: embarked must be C, S or Q", domain.ErrValidation)
		}
		fields.Embarked = &port
	}

	updated, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	s.invalidateStats(ctx)
	s.logger.Info().Int64("passenger_id", id).Msg("passenger updated")
	return updated, nil
}

func (s *PassengerService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateStats(ctx)
	s.logger.Info().Int64("passenger_id", id).Msg("passenger deleted")
	return nil
}

func (s *PassengerService) invalidateStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("statistics cache invalidation failed")
	}
}

// survivalRate returns the percentage of survivors in items, rounded to one
// decimal. Zero when items is empty.
func survivalRate(items []domain.Passenger) float64 {
	if len(items) == 0 {
		return 0
	}
	survivors := 0
	for _, p := range items {
		if p.Survived {
			survivors++
		}
	}
	return math.Round(float64(survivors)/float64(len(items))*1000) / 10
}
