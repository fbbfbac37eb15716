package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/titanicdata/passenger-api/internal/core/domain"
	"github.com/titanicdata/passenger-api/internal/core/ports"
)

type stubPassengerRepo struct {
	passengers []domain.Passenger
	nextID     int64

	lastSkip, lastLimit int64
	lastFilters         ports.SearchFilters
	lastGroupBy         string
	statsCalls          int
	statsResult         []ports.StatisticsGroup
}

func (r *stubPassengerRepo) List(_ context.Context, skip, limit int64) ([]domain.Passenger, error) {
	r.lastSkip, r.lastLimit = skip, limit
	return r.passengers, nil
}

func (r *stubPassengerRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.passengers)), nil
}

func (r *stubPassengerRepo) FindByID(_ context.Context, id int64) (*domain.Passenger, error) {
	for i := range r.passengers {
		if r.passengers[i].ID == id {
			p := r.passengers[i]
			return &p, nil
		}
	}
	return nil, domain.ErrPassengerNotFound
}

func (r *stubPassengerRepo) Search(_ context.Context, filters ports.SearchFilters) ([]domain.Passenger, error) {
	r.lastFilters = filters
	return r.passengers, nil
}

func (r *stubPassengerRepo) Insert(_ context.Context, p *domain.Passenger) (*domain.Passenger, error) {
	r.nextID++
	copy := *p
	copy.ID = r.nextID
	r.passengers = append(r.passengers, copy)
	return &copy, nil
}

func (r *stubPassengerRepo) Update(_ context.Context, id int64, fields ports.UpdateFields) (*domain.Passenger, error) {
	for i := range r.passengers {
		if r.passengers[i].ID == id {
			if fields.Name != nil {
				r.passengers[i].Name = *fields.Name
			}
			p := r.passengers[i]
			return &p, nil
		}
	}
	return nil, domain.ErrPassengerNotFound
}

func (r *stubPassengerRepo) Delete(_ context.Context, id int64) error {
	for i := range r.passengers {
		if r.passengers[i].ID == id {
			r.passengers = append(r.passengers[:i], r.passengers[i+1:]...)
			return nil
		}
	}
	return domain.ErrPassengerNotFound
}

func (r *stubPassengerRepo) Statistics(_ context.Context, groupBy string) ([]ports.StatisticsGroup, error) {
	r.lastGroupBy = groupBy
	r.statsCalls++
	return r.statsResult, nil
}

type stubStatsCache struct {
	entries     map[string][]ports.StatisticsGroup
	invalidated int
	failing     bool
}

func newStubStatsCache() *stubStatsCache {
	return &stubStatsCache{entries: make(map[string][]ports.StatisticsGroup)}
}

func (c *stubStatsCache) Get(_ context.Context, groupBy string) ([]ports.StatisticsGroup, bool, error) {
	if c.failing {
		return nil, false, errors.New("cache down")
	}
	groups, ok := c.entries[groupBy]
	return groups, ok, nil
}

func (c *stubStatsCache) Set(_ context.Context, groupBy string, groups []ports.StatisticsGroup) error {
	if c.failing {
		return errors.New("cache down")
	}
	c.entries[groupBy] = groups
	return nil
}

func (c *stubStatsCache) Invalidate(_ context.Context) error {
	c.invalidated++
	c.entries = make(map[string][]ports.StatisticsGroup)
	return nil
}

func floatPtr(v float64) *float64 { return &v }

func strPtr(v string) *string { return &v }

func intPtr(v int) *int { return &v }

func samplePassengers() []domain.Passenger {
	return []domain.Passenger{
		{ID: 1, Name: "Allen, Miss. Elisabeth Walton", Sex: "female", Survived: true, Pclass: 1},
		{ID: 2, Name: "Braund, Mr. Owen Harris", Sex: "male", Survived: false, Pclass: 3},
		{ID: 3, Name: "Heikkinen, Miss. Laina", Sex: "female", Survived: true, Pclass: 3},
	}
}

func TestPassengerService_List_Defaults(t *testing.T) {
	repo := &stubPassengerRepo{passengers: samplePassengers()}
	svc := NewPassengerService(repo, nil, zerolog.Nop())

	result, err := svc.List(context.Background(), ports.ListPassengersInput{Skip: -5, Limit: 0})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if repo.lastSkip != 0 {
		t.Fatalf("expected skip clamped to 0, got %d", repo.lastSkip)
	}
	if repo.lastLimit != defaultPageLimit {
		t.Fatalf("expected default limit %d, got %d", defaultPageLimit, repo.lastLimit)
	}
	if result.Total != 3 || result.Page != 1 {
		t.Fatalf("unexpected result: total=%d page=%d", result.Total, result.Page)
	}
}

func TestPassengerService_List_ClampsLimit(t *testing.T) {
	repo := &stubPassengerRepo{}
	svc := NewPassengerService(repo, nil, zerolog.Nop())

	result, err := svc.List(context.Background(), ports.ListPassengersInput{Skip: 200, Limit: 5000})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if repo.lastLimit != maxPageLimit {
		t.Fatalf("expected limit clamped to %d, got %d", maxPageLimit, repo.lastLimit)
	}
	if result.Page != 1 {
		t.Fatalf("expected page 1 for skip 200 limit 1000, got %d", result.Page)
	}
}

func TestPassengerService_Search_NormalizesFilters(t *testing.T) {
	repo := &stubPassengerRepo{passengers: samplePassengers()}
	svc := NewPassengerService(repo, nil, zerolog.Nop())

	result, err := svc.Search(context.Background(), ports.SearchFilters{
		Sex:      strPtr("FEMALE"),
		Embarked: strPtr("c"),
	})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if *repo.lastFilters.Sex != "female" {
		t.Fatalf("expected sex lowercased, got %s", *repo.lastFilters.Sex)
	}
	if *repo.lastFilters.Embarked != "C" {
		t.Fatalf("expected embarked uppercased, got %s", *repo.lastFilters.Embarked)
	}
	// 2 survivors out of 3.
	if result.SurvivalRate != 66.7 {
		t.Fatalf("expected survival rate 66.7, got %v", result.SurvivalRate)
	}
}

func TestPassengerService_Search_Validation(t *testing.T) {
	svc := NewPassengerService(&stubPassengerRepo{}, nil, zerolog.Nop())

	cases := []ports.SearchFilters{
		{Sex: strPtr("other")},
		{Embarked: strPtr("X")},
		{MinAge: floatPtr(50), MaxAge: floatPtr(10)},
	}
	for i, filters := range cases {
		if _, err := svc.Search(context.Background(), filters); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("case %d: expected ErrValidation, got %v", i, err)
		}
	}
}

func TestPassengerService_Search_EmptyResult(t *testing.T) {
	svc := NewPassengerService(&stubPassengerRepo{}, nil, zerolog.Nop())

	result, err := svc.Search(context.Background(), ports.SearchFilters{Pclass: intPtr(1)})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if result.SurvivalRate != 0 {
		t.Fatalf("expected zero survival rate for empty set, got %v", result.SurvivalRate)
	}
}

func TestPassengerService_Statistics_InvalidDimension(t *testing.T) {
	svc := NewPassengerService(&stubPassengerRepo{}, nil, zerolog.Nop())

	if _, err := svc.Statistics(context.Background(), "cabin"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestPassengerService_Statistics_CacheMissThenHit(t *testing.T) {
	repo := &stubPassengerRepo{
		statsResult: []ports.StatisticsGroup{{Category: "male", Count: 2}},
	}
	cache := newStubStatsCache()
	svc := NewPassengerService(repo, cache, zerolog.Nop())

	first, err := svc.Statistics(context.Background(), "sex")
	if err != nil {
		t.Fatalf("first Statistics returned error: %v", err)
	}
	if repo.statsCalls != 1 {
		t.Fatalf("expected 1 repo call, got %d", repo.statsCalls)
	}

	second, err := svc.Statistics(context.Background(), "sex")
	if err != nil {
		t.Fatalf("second Statistics returned error: %v", err)
	}
	if repo.statsCalls != 1 {
		t.Fatalf("expected cache hit, repo called %d times", repo.statsCalls)
	}
	if len(first) != len(second) || first[0].Category != second[0].Category {
		t.Fatalf("cached result differs: %+v vs %+v", first, second)
	}
}

func TestPassengerService_Statistics_CacheFailureFallsThrough(t *testing.T) {
	repo := &stubPassengerRepo{
		statsResult: []ports.StatisticsGroup{{Category: "overall", Count: 3}},
	}
	cache := newStubStatsCache()
	cache.failing = true
	svc := NewPassengerService(repo, cache, zerolog.Nop())

	groups, err := svc.Statistics(context.Background(), "")
	if err != nil {
		t.Fatalf("Statistics returned error: %v", err)
	}
	if len(groups) != 1 || groups[0].Count != 3 {
		t.Fatalf("unexpected groups: %+v", groups)
	}
}

func TestPassengerService_Create_InvalidatesCache(t *testing.T) {
	repo := &stubPassengerRepo{}
	cache := newStubStatsCache()
	cache.entries["sex"] = []ports.StatisticsGroup{{Category: "stale"}}
	svc := NewPassengerService(repo, cache, zerolog.Nop())

	created, err := svc.Create(context.Background(), ports.CreatePassengerInput{
		Name:     "Dahl, Mr. Karl Edwart",
		Sex:      "Male",
		Pclass:   3,
		Survived: true,
		Embarked: strPtr("s"),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("expected assigned id")
	}
	if created.Sex != "male" {
		t.Fatalf("expected sex normalized, got %s", created.Sex)
	}
	if created.Embarked == nil || *created.Embarked != "S" {
		t.Fatalf("expected embarked normalized, got %v", created.Embarked)
	}
	if cache.invalidated != 1 {
		t.Fatalf("expected cache invalidation, got %d", cache.invalidated)
	}
}

func TestPassengerService_Create_Validation(t *testing.T) {
	svc := NewPassengerService(&stubPassengerRepo{}, nil, zerolog.Nop())

	cases := []ports.CreatePassengerInput{
		{Name: "X", Sex: "male", Pclass: 1},
		{Name: "Valid Name", Sex: "robot", Pclass: 1},
		{Name: "Valid Name", Sex: "male", Pclass: 4},
		{Name: "Valid Name", Sex: "male", Pclass: 1, Age: floatPtr(130)},
		{Name: "Valid Name", Sex: "male", Pclass: 1, Fare: floatPtr(-1)},
		{Name: "Valid Name", Sex: "male", Pclass: 1, Embarked: strPtr("Z")},
	}
	for i, input := range cases {
		if _, err := svc.Create(context.Background(), input); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("case %d: expected ErrValidation, got %v", i, err)
		}
	}
}

func TestPassengerService_Update_Validation(t *testing.T) {
	repo := &stubPassengerRepo{passengers: samplePassengers()}
	svc := NewPassengerService(repo, nil, zerolog.Nop())

	if _, err := svc.Update(context.Background(), 1, ports.UpdateFields{Name: strPtr(" x ")}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for short name, got %v", err)
	}
	if _, err := svc.Update(context.Background(), 1, ports.UpdateFields{Pclass: intPtr(0)}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for pclass, got %v", err)
	}

	updated, err := svc.Update(context.Background(), 1, ports.UpdateFields{Name: strPtr("  Allen, Miss. E. W.  ")})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Name != "Allen, Miss. E. W." {
		t.Fatalf("expected trimmed name, got %q", updated.Name)
	}
}

func TestPassengerService_Update_NotFound(t *testing.T) {
	svc := NewPassengerService(&stubPassengerRepo{}, nil, zerolog.Nop())

	if _, err := svc.Update(context.Background(), 42, ports.UpdateFields{Name: strPtr("Somebody Else")}); err != domain.ErrPassengerNotFound {
		t.Fatalf("expected ErrPassengerNotFound, got %v", err)
	}
}

func TestPassengerService_Delete_InvalidatesCache(t *testing.T) {
	repo := &stubPassengerRepo{passengers: samplePassengers()}
	cache := newStubStatsCache()
	svc := NewPassengerService(repo, cache, zerolog.Nop())

	if err := svc.Delete(context.Background(), 2); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if cache.invalidated != 1 {
		t.Fatalf("expected cache invalidation, got %d", cache.invalidated)
	}

	if err := svc.Delete(context.Background(), 2); err != domain.ErrPassengerNotFound {
		t.Fatalf("expected ErrPassengerNotFound on second delete, got %v", err)
	}
	if cache.invalidated != 1 {
		t.Fatalf("failed delete should not invalidate, got %d", cache.invalidated)
	}
}

func TestSurvivalRate_Rounding(t *testing.T) {
	items := []domain.Passenger{
		{Survived: true}, {Survived: false}, {Survived: false},
	}
	if got := survivalRate(items); got != 33.3 {
		t.Fatalf("expected 33.3, got %v", got)
	}
}
