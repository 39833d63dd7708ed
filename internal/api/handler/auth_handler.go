package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shipsphere/logistics-api/internal/api/metrics"
	"github.com/shipsphere/logistics-api/internal/core/domain"
	"github.com/shipsphere/logistics-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new USER account and signs it in.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  Envelope{data=authData}
// @Failure      400   {object}  Envelope
// @Failure      429   {object}  Envelope
// @Failure      500   {object}  Envelope
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		observeAuth("register", err)
		return err
	}

	res, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		CityID:    req.CityID,
	})
	observeAuth("register", err)
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, "User registered successfully", authData{User: res.User, Token: res.Token})
}

// Login authenticates a user and returns a JWT token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  Envelope{data=authData}
// @Failure      400   {object}  Envelope
// @Failure      401   {object}  Envelope
// @Failure      429   {object}  Envelope
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		observeAuth("login", err)
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	observeAuth("login", err)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "Login successful", authData{User: res.User, Token: res.Token})
}

// Profile returns the authenticated user.
//
// @Summary      Current user profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope{data=userData}
// @Failure      401  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /auth/profile [get]
func (h *AuthHandler) Profile(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}

	user, err := h.authService.Profile(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "", userData{User: user})
}

// UpdateProfile applies a partial update to the authenticated user.
//
// @Summary      Update current user profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  Envelope{data=userData}
// @Failure      400   {object}  Envelope
// @Failure      401   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Router       /auth/profile [put]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authService.UpdateProfile(c.Request().Context(), id, domain.UserPatch{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		CityID:    req.CityID,
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "Profile updated successfully", userData{User: user})
}

func observeAuth(operation string, err error) {
	result := "success"
	var ve *domain.ValidationError
	switch {
	case err == nil:
	case errors.As(err, &ve),
		errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUserExists),
		errors.Is(err, domain.ErrCityUnavailable):
		result = "invalid"
	default:
		result = "error"
	}
	metrics.AuthAttemptsTotal.WithLabelValues(operation, result).Inc()
}
