package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/shipsphere/logistics-api/internal/api/metrics"
	"github.com/shipsphere/logistics-api/internal/core/ports"
)

// UserHandler serves the admin user management endpoints.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// List handles GET /api/users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Page size (default 10, max 100)"
// @Param        role    query     string  false  "ADMIN or USER"
// @Param        search  query     string  false  "Matches first name, last name or email"
// @Success      200     {object}  Envelope{data=usersData}
// @Failure      401     {object}  Envelope
// @Failure      403     {object}  Envelope
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	res, err := h.service.List(c.Request().Context(), ports.ListUsersInput{
		Page:   queryInt(c, "page"),
		Limit:  queryInt(c, "limit"),
		Role:   c.QueryParam("role"),
		Search: c.QueryParam("search"),
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", toUsersData(res))
}

// Stats handles GET /api/users/stats/overview.
//
// @Summary      User statistics
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope{data=statsData}
// @Router       /users/stats/overview [get]
func (h *UserHandler) Stats(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", statsData{Stats: statsResponse{
		TotalUsers:   stats.TotalUsers,
		AdminUsers:   stats.AdminUsers,
		RegularUsers: stats.RegularUsers,
		RecentUsers:  stats.RecentUsers,
	}})
}

// Get handles GET /api/users/:id.
//
// @Summary      Get a user by id
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  Envelope{data=userData}
// @Failure      404  {object}  Envelope
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", userData{User: user})
}

// UpdateRole handles PUT /api/users/:id/role.
//
// @Summary      Change a user's role
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User id"
// @Param        body  body      updateRoleRequest  true  "New role"
// @Success      200   {object}  Envelope{data=userData}
// @Failure      400   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Router       /users/{id}/role [put]
func (h *UserHandler) UpdateRole(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}

	var req updateRoleRequest
	if err := c.Bind(&req); err != nil {
		return bindError(&req, err)
	}

	user, err := h.service.UpdateRole(c.Request().Context(), id, c.Param("id"), req.Role)
	if err != nil {
		return err
	}
	metrics.UserRoleChangesTotal.WithLabelValues(string(user.Role)).Inc()

	return respond(c, http.StatusOK, "User role updated successfully", userData{User: user})
}

// Delete handles DELETE /api/users/:id.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  Envelope
// @Failure      400  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), id, c.Param("id")); err != nil {
		return err
	}
	metrics.UsersDeletedTotal.Inc()

	return respond(c, http.StatusOK, "User deleted successfully", nil)
}

// queryInt reads an integer query parameter. Missing or malformed values
// read as 0 and are defaulted by the service.
func queryInt(c echo.Context, name string) int {
	n, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}
	return n
}
