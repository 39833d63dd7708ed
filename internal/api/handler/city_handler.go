package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shipsphere/logistics-api/internal/api/metrics"
	"github.com/shipsphere/logistics-api/internal/core/domain"
	"github.com/shipsphere/logistics-api/internal/core/ports"
)

// CityHandler handles HTTP requests for service cities.
type CityHandler struct {
	service ports.CityService
}

func NewCityHandler(service ports.CityService) *CityHandler {
	return &CityHandler{service: service}
}

// ListActive handles GET /api/cities.
//
// @Summary      List active cities
// @Tags         cities
// @Produce      json
// @Success      200  {object}  Envelope{data=publicCitiesData}
// @Router       /cities [get]
func (h *CityHandler) ListActive(c echo.Context) error {
	cities, err := h.service.ListActive(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", publicCitiesData{Cities: toPublicCities(cities)})
}

// ListAll handles GET /api/cities/admin.
//
// @Summary      List all cities with user counts
// @Tags         cities
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope{data=citiesWithCountData}
// @Failure      401  {object}  Envelope
// @Failure      403  {object}  Envelope
// @Router       /cities/admin [get]
func (h *CityHandler) ListAll(c echo.Context) error {
	cities, err := h.service.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	if cities == nil {
		cities = []*domain.CityWithCount{}
	}
	return respond(c, http.StatusOK, "", citiesWithCountData{Cities: cities})
}

// Get handles GET /api/cities/:id. Inactive cities are returned too.
//
// @Summary      Get a city by id
// @Tags         cities
// @Produce      json
// @Param        id   path      string  true  "City id"
// @Success      200  {object}  Envelope{data=cityData}
// @Failure      404  {object}  Envelope
// @Router       /cities/{id} [get]
func (h *CityHandler) Get(c echo.Context) error {
	city, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", cityData{City: city})
}

// Create handles POST /api/cities.
//
// @Summary      Create a city
// @Tags         cities
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCityRequest  true  "City details"
// @Success      201   {object}  Envelope{data=cityData}
// @Failure      400   {object}  Envelope
// @Failure      401   {object}  Envelope
// @Failure      403   {object}  Envelope
// @Router       /cities [post]
func (h *CityHandler) Create(c echo.Context) error {
	var req createCityRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	city, err := h.service.Create(c.Request().Context(), ports.CreateCityInput{
		Name:        req.Name,
		State:       req.State,
		PricePerKg:  *req.PricePerKg,
		Description: req.Description,
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, "City created successfully", cityData{City: city})
}

// Update handles PUT /api/cities/:id.
//
// @Summary      Update a city
// @Tags         cities
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "City id"
// @Param        body  body      updateCityRequest  true  "Fields to change"
// @Success      200   {object}  Envelope{data=cityData}
// @Failure      400   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Router       /cities/{id} [put]
func (h *CityHandler) Update(c echo.Context) error {
	var req updateCityRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	city, err := h.service.Update(c.Request().Context(), c.Param("id"), req.patch())
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "City updated successfully", cityData{City: city})
}

// Delete handles DELETE /api/cities/:id. Cities that still have users are
// deactivated instead of removed.
//
// @Summary      Delete or deactivate a city
// @Tags         cities
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "City id"
// @Success      200  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /cities/{id} [delete]
func (h *CityHandler) Delete(c echo.Context) error {
	outcome, err := h.service.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	metrics.CitiesRemovedTotal.WithLabelValues(string(outcome)).Inc()

	if outcome == domain.CityDeactivated {
		return respond(c, http.StatusOK, "City deactivated successfully (has users, cannot delete permanently)", nil)
	}
	return respond(c, http.StatusOK, "City deleted successfully", nil)
}
