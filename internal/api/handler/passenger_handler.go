package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/titanicdata/passenger-api/internal/api/metrics"
	"github.com/titanicdata/passenger-api/internal/core/ports"
)

// PassengerHandler handles HTTP requests for the passenger resource.
type PassengerHandler struct {
	service ports.PassengerService
}

func NewPassengerHandler(service ports.PassengerService) *PassengerHandler {
	return &PassengerHandler{service: service}
}

// List handles GET /passengers.
//
// @Summary      List passengers
// @Tags         passengers
// @Produce      json
// @Param        skip   query     int  false  "Records to skip"          default(0)
// @Param        limit  query     int  false  "Page size (max 1000)"     default(100)
// @Success      200    {object}  listPassengersResponse
// @Failure      500    {object}  map[string]string
// @Router       /passengers [get]
func (h *PassengerHandler) List(c echo.Context) error {
	skip, _ := strconv.ParseInt(c.QueryParam("skip"), 10, 64)
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)

	result, err := h.service.List(c.Request().Context(), ports.ListPassengersInput{Skip: skip, Limit: limit})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listPassengersResponse{
		Items: result.Items,
		Total: result.Total,
		Page:  result.Page,
		Limit: result.Limit,
	})
}

// Get handles GET /passengers/:id.
//
// @Summary      Get a passenger by id
// @Tags         passengers
// @Produce      json
// @Param        id   path      int  true  "Passenger id"
// @Success      200  {object}  domain.Passenger
// @Failure      404  {object}  map[string]string
// @Router       /passengers/{id} [get]
func (h *PassengerHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	passenger, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, passenger)
}

// Search handles GET /passengers/search/advanced.
//
// @Summary      Advanced search
// @Tags         passengers
// @Produce      json
// @Param        sex       query     string   false  "male or female"
// @Param        min_age   query     number   false  "Minimum age"
// @Param        max_age   query     number   false  "Maximum age"
// @Param        pclass    query     int      false  "Ticket class (1-3)"
// @Param        embarked  query     string   false  "Embarkation port (C, S or Q)"
// @Param        survived  query     boolean  false  "Survival flag"
// @Success      200       {object}  searchPassengersResponse
// @Failure      400       {object}  map[string]string
// @Router       /passengers/search/advanced [get]
func (h *PassengerHandler) Search(c echo.Context) error {
	filters, err := parseSearchFilters(c)
	if err != nil {
		return err
	}

	result, err := h.service.Search(c.Request().Context(), filters)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, searchPassengersResponse{
		Items:        result.Items,
		Count:        len(result.Items),
		SurvivalRate: result.SurvivalRate,
		Filters: searchFiltersEcho{
			Sex:      filters.Sex,
			MinAge:   filters.MinAge,
			MaxAge:   filters.MaxAge,
			Pclass:   filters.Pclass,
			Embarked: filters.Embarked,
			Survived: filters.Survived,
		},
	})
}

// Statistics handles GET /passengers/statistics.
//
// @Summary      Passenger statistics
// @Tags         passengers
// @Produce      json
// @Param        group_by  query     string  false  "Dimension: sex, pclass, embarked or survived"
// @Success      200       {object}  statisticsResponse
// @Failure      400       {object}  map[string]string
// @Router       /passengers/statistics [get]
func (h *PassengerHandler) Statistics(c echo.Context) error {
	groupBy := c.QueryParam("group_by")

	groups, err := h.service.Statistics(c.Request().Context(), groupBy)
	if err != nil {
		return err
	}

	out := make([]statisticsGroupSchema, 0, len(groups))
	for _, g := range groups {
		out = append(out, statisticsGroupSchema(g))
	}
	return c.JSON(http.StatusOK, statisticsResponse{GroupBy: groupBy, Groups: out})
}

// Create handles POST /passengers. Requires any authenticated role.
//
// @Summary      Create a passenger
// @Tags         passengers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPassengerRequest  true  "Passenger details"
// @Success      201   {object}  domain.Passenger
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /passengers [post]
func (h *PassengerHandler) Create(c echo.Context) error {
	var req createPassengerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := h.service.Create(c.Request().Context(), ports.CreatePassengerInput{
		Name:     req.Name,
		Sex:      req.Sex,
		Age:      req.Age,
		Survived: req.Survived != nil && *req.Survived,
		Pclass:   req.Pclass,
		Fare:     req.Fare,
		Embarked: req.Embarked,
	})
	if err != nil {
		return err
	}

	metrics.PassengerWritesTotal.WithLabelValues("create").Inc()
	return c.JSON(http.StatusCreated, created)
}

// Update handles PUT /passengers/:id. Admin only.
//
// @Summary      Update a passenger
// @Tags         passengers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                     true  "Passenger id"
// @Param        body  body      updatePassengerRequest  true  "Fields to change"
// @Success      200   {object}  domain.Passenger
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /passengers/{id} [put]
func (h *PassengerHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req updatePassengerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.service.Update(c.Request().Context(), id, ports.UpdateFields{
		Name:     req.Name,
		Sex:      req.Sex,
		Age:      req.Age,
		Survived: req.Survived,
		Pclass:   req.Pclass,
		Fare:     req.Fare,
		Embarked: req.Embarked,
	})
	if err != nil {
		return err
	}

	metrics.PassengerWritesTotal.WithLabelValues("update").Inc()
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /passengers/:id. Admin only.
//
// @Summary      Delete a passenger
// @Tags         passengers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Passenger id"
// @Success      204  "deleted"
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /passengers/{id} [delete]
func (h *PassengerHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}

	metrics.PassengerWritesTotal.WithLabelValues("delete").Inc()
	return c.NoContent(http.StatusNoContent)
}

// pathID parses the numeric :id path parameter.
func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id must be a positive integer")
	}
	return id, nil
}

// parseSearchFilters reads the optional advanced-search query parameters.
func parseSearchFilters(c echo.Context) (ports.SearchFilters, error) {
	var filters ports.SearchFilters

	if v := c.QueryParam("sex"); v != "" {
		filters.Sex = &v
	}
	if v := c.QueryParam("embarked"); v != "" {
		filters.Embarked = &v
	}
	if v := c.QueryParam("min_age"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return filters, echo.NewHTTPError(http.StatusBadRequest, "min_age must be a number")
		}
		filters.MinAge = &f
	}
	if v := c.QueryParam("max_age"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return filters, echo.NewHTTPError(http.StatusBadRequest, "max_age must be a number")
		}
		filters.MaxAge = &f
	}
	if v := c.QueryParam("pclass"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 3 {
			return filters, echo.NewHTTPError(http.StatusBadRequest, "pclass must be 1, 2 or 3")
		}
		filters.Pclass = &n
	}
	if v := c.QueryParam("survived"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return filters, echo.NewHTTPError(http.StatusBadRequest, "survived must be a boolean")
		}
		filters.Survived = &b
	}
	return filters, nil
}
