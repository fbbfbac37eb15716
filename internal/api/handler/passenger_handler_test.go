package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/titanicdata/passenger-api/internal/core/domain"
	"github.com/titanicdata/passenger-api/internal/core/ports"
)

type stubPassengerService struct {
	listFn   func(ctx context.Context, input ports.ListPassengersInput) (*ports.ListPassengersResult, error)
	getFn    func(ctx context.Context, id int64) (*domain.Passenger, error)
	searchFn func(ctx context.Context, filters ports.SearchFilters) (*ports.SearchPassengersResult, error)
	statsFn  func(ctx context.Context, groupBy string) ([]ports.StatisticsGroup, error)
	createFn func(ctx context.Context, input ports.CreatePassengerInput) (*domain.Passenger, error)
	updateFn func(ctx context.Context, id int64, fields ports.UpdateFields) (*domain.Passenger, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (s *stubPassengerService) List(ctx context.Context, input ports.ListPassengersInput) (*ports.ListPassengersResult, error) {
	return s.listFn(ctx, input)
}

func (s *stubPassengerService) Get(ctx context.Context, id int64) (*domain.Passenger, error) {
	return s.getFn(ctx, id)
}

func (s *stubPassengerService) Search(ctx context.Context, filters ports.SearchFilters) (*ports.SearchPassengersResult, error) {
	return s.searchFn(ctx, filters)
}

func (s *stubPassengerService) Statistics(ctx context.Context, groupBy string) ([]ports.StatisticsGroup, error) {
	return s.statsFn(ctx, groupBy)
}

func (s *stubPassengerService) Create(ctx context.Context, input ports.CreatePassengerInput) (*domain.Passenger, error) {
	return s.createFn(ctx, input)
}

func (s *stubPassengerService) Update(ctx context.Context, id int64, fields ports.UpdateFields) (*domain.Passenger, error) {
	return s.updateFn(ctx, id, fields)
}

func (s *stubPassengerService) Delete(ctx context.Context, id int64) error {
	return s.deleteFn(ctx, id)
}

func TestPassengerHandler_List(t *testing.T) {
	e := newAuthTestEcho()
	stub := &stubPassengerService{
		listFn: func(_ context.Context, input ports.ListPassengersInput) (*ports.ListPassengersResult, error) {
			if input.Skip != 10 || input.Limit != 5 {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &ports.ListPassengersResult{
				Items: []domain.Passenger{{ID: 11, Name: "Braund, Mr. Owen Harris", Sex: "male", Pclass: 3}},
				Total: 891,
				Page:  3,
				Limit: 5,
			}, nil
		},
	}
	handler := NewPassengerHandler(stub)

	c, rec := newTestContext(e, http.MethodGet, "/passengers?skip=10&limit=5", "")

	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["total"] != float64(891) || resp["page"] != float64(3) {
		t.Fatalf("unexpected response: %v", resp)
	}
}

func TestPassengerHandler_Get(t *testing.T) {
	e := newAuthTestEcho()
	stub := &stubPassengerService{
		getFn: func(_ context.Context, id int64) (*domain.Passenger, error) {
			if id != 42 {
				t.Fatalf("unexpected id: %d", id)
			}
			return &domain.Passenger{ID: 42, Name: "Heikkinen, Miss. Laina", Sex: "female", Survived: true, Pclass: 3}, nil
		},
	}
	handler := NewPassengerHandler(stub)

	c, rec := newTestContext(e, http.MethodGet, "/passengers/42", "")
	c.SetParamNames("id")
	c.SetParamValues("42")

	if err := handler.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestPassengerHandler_Get_BadID(t *testing.T) {
	e := newAuthTestEcho()
	stub := &stubPassengerService{
		getFn: func(context.Context, int64) (*domain.Passenger, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}
	handler := NewPassengerHandler(stub)

	for _, id := range []string{"abc", "-1", "0", ""} {
		c, _ := newTestContext(e, http.MethodGet, "/passengers/"+id, "")
		c.SetParamNames("id")
		c.SetParamValues(id)

		err := handler.Get(c)
		assertHandlerHTTPError(t, err, http.StatusBadRequest)
	}
}

func TestPassengerHandler_Get_NotFound(t *testing.T) {
	e := newAuthTestEcho()
	stub := &stubPassengerService{
		getFn: func(context.Context, int64) (*domain.Passenger, error) {
			return nil, domain.ErrPassengerNotFound
		},
	}
	handler := NewPassengerHandler(stub)

	c, _ := newTestContext(e, http.MethodGet, "/passengers/999", "")
	c.SetParamNames("id")
	c.SetParamValues("999")

	if err := handler.Get(c); err != domain.ErrPassengerNotFound {
		t.Fatalf("expected ErrPassengerNotFound, got %v", err)
	}
}

func TestPassengerHandler_Search(t *testing.T) {
	e := newAuthTestEcho()
	stub := &stubPassengerService{
		searchFn: func(_ context.Context, filters ports.SearchFilters) (*ports.SearchPassengersResult, error) {
			if filters.Sex == nil || *filters.Sex != "female" {
				t.Fatalf("expected sex filter, got %+v", filters)
			}
			if filters.MinAge == nil || *filters.MinAge != 18 {
				t.Fatalf("expected min_age filter, got %+v", filters)
			}
			if filters.Survived == nil || !*filters.Survived {
				t.Fatalf("expected survived filter, got %+v", filters)
			}
			return &ports.SearchPassengersResult{
				Items:        []domain.Passenger{{ID: 1, Sex: "female", Survived: true, Pclass: 1}},
				SurvivalRate: 100,
			}, nil
		},
	}
	handler := NewPassengerHandler(stub)

	c, rec := newTestContext(e, http.MethodGet,
		"/passengers/search/advanced?sex=female&min_age=18&survived=true", "")

	if err := handler.Search(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["count"] != float64(1) || resp["survival_rate"] != float64(100) {
		t.Fatalf("unexpected response: %v", resp)
	}
}

func TestPassengerHandler_Search_BadParams(t *testing.T) {
	e := newAuthTestEcho()
	stub := &stubPassengerService{
		searchFn: func(context.Context, ports.SearchFilters) (*ports.SearchPassengersResult, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}
	handler := NewPassengerHandler(stub)

	for _, query := range []string{"min_age=abc", "max_age=x", "pclass=9", "survived=maybe"} {
		c, _ := newTestContext(e, http.MethodGet, "/passengers/search/advanced?"+query, "")
		err := handler.Search(c)
		assertHandlerHTTPError(t, err, http.StatusBadRequest)
	}
}

func TestPassengerHandler_Statistics(t *testing.T) {
	e := newAuthTestEcho()
	avgAge := 28.5
	stub := &stubPassengerService{
		statsFn: func(_ context.Context, groupBy string) ([]ports.StatisticsGroup, error) {
			if groupBy != "sex" {
				t.Fatalf("unexpected group_by: %s", groupBy)
			}
			return []ports.StatisticsGroup{
				{Category: "female", Count: 314, SurvivalRate: 74.2, AverageAge: &avgAge},
				{Category: "male", Count: 577, SurvivalRate: 18.9},
			}, nil
		},
	}
	handler := NewPassengerHandler(stub)

	c, rec := newTestContext(e, http.MethodGet, "/passengers/statistics?group_by=sex", "")

	if err := handler.Statistics(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	groups, ok := resp["groups"].([]any)
	if !ok || len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %v", resp)
	}
	second := groups[1].(map[string]any)
	if second["average_age"] != nil {
		t.Fatalf("expected null average_age for bucket without ages, got %v", second["average_age"])
	}
}

func TestPassengerHandler_Create(t *testing.T) {
	e := newAuthTestEcho()
	stub := &stubPassengerService{
		createFn: func(_ context.Context, input ports.CreatePassengerInput) (*domain.Passenger, error) {
			if input.Name != "Dahl, Mr. Karl Edwart" || input.Survived {
				t.Fatalf("unexpected input: %+v", input)
			}
			p := domain.Passenger{ID: 892, Name: input.Name, Sex: input.Sex, Pclass: input.Pclass}
			return &p, nil
		},
	}
	handler := NewPassengerHandler(stub)

	c, rec := newTestContext(e, http.MethodPost, "/passengers",
		`{"name":"Dahl, Mr. Karl Edwart","sex":"male","survived":false,"pclass":3}`)

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestPassengerHandler_Create_Validation(t *testing.T) {
	e := newAuthTestEcho()
	stub := &stubPassengerService{
		createFn: func(context.Context, ports.CreatePassengerInput) (*domain.Passenger, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}
	handler := NewPassengerHandler(stub)

	cases := []string{
		`{"sex":"male","survived":true,"pclass":3}`,
		`{"name":"Valid Name","survived":true,"pclass":3}`,
		`{"name":"Valid Name","sex":"male","pclass":3}`,
		`{"name":"Valid Name","sex":"male","survived":true}`,
	}
	for _, body := range cases {
		c, _ := newTestContext(e, http.MethodPost, "/passengers", body)
		err := handler.Create(c)
		assertHandlerHTTPError(t, err, http.StatusBadRequest)
	}
}

func TestPassengerHandler_Update(t *testing.T) {
	e := newAuthTestEcho()
	stub := &stubPassengerService{
		updateFn: func(_ context.Context, id int64, fields ports.UpdateFields) (*domain.Passenger, error) {
			if id != 5 {
				t.Fatalf("unexpected id: %d", id)
			}
			if fields.Name == nil || *fields.Name != "New Name" {
				t.Fatalf("expected name field, got %+v", fields)
			}
			if fields.Sex != nil {
				t.Fatalf("unset fields must stay nil, got %+v", fields)
			}
			return &domain.Passenger{ID: 5, Name: *fields.Name, Sex: "male", Pclass: 2}, nil
		},
	}
	handler := NewPassengerHandler(stub)

	c, rec := newTestContext(e, http.MethodPut, "/passengers/5", `{"name":"New Name"}`)
	c.SetParamNames("id")
	c.SetParamValues("5")

	if err := handler.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestPassengerHandler_Delete(t *testing.T) {
	e := newAuthTestEcho()
	stub := &stubPassengerService{
		deleteFn: func(_ context.Context, id int64) error {
			if id != 6 {
				t.Fatalf("unexpected id: %d", id)
			}
			return nil
		},
	}
	handler := NewPassengerHandler(stub)

	c, rec := newTestContext(e, http.MethodDelete, "/passengers/6", "")
	c.SetParamNames("id")
	c.SetParamValues("6")

	if err := handler.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}
