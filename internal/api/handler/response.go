package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/shipsphere/logistics-api/internal/core/domain"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Data    any                 `json:"data,omitempty"`
	Errors  []domain.FieldError `json:"errors,omitempty"`
}

func respond(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

// Fail writes an unsuccessful envelope. Used by the HTTP error handler.
func Fail(c echo.Context, status int, message string, fields []domain.FieldError) error {
	return c.JSON(status, Envelope{Success: false, Message: message, Errors: fields})
}
