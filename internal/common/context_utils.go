package common

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	UserIDKey contextKey = "user_id"
	RoleKey   contextKey = "role"
)

// GetUserIDFromContext extracts the authenticated user ID from request context
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// GetRoleFromContext extracts the authenticated user's role from request context
func GetRoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(RoleKey).(string)
	return role, ok
}

// Envelope is the uniform response body for every endpoint
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// SendData sends a success envelope with a payload
func SendData(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

// SendMessage sends a success envelope without a payload
func SendMessage(c echo.Context, message string) error {
	return c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: nil})
}

// SendError translates an operation error into the envelope with the
// mapped HTTP status. This is the single translation point for handler
// failures.
func SendError(c echo.Context, err error) error {
	return c.JSON(HTTPStatus(err), Envelope{Success: false, Message: PublicMessage(err), Data: nil})
}

// SendBadRequest sends a validation failure envelope
func SendBadRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, Envelope{Success: false, Message: message, Data: nil})
}

// ValidateUUID validates and parses a UUID path or query parameter
func ValidateUUID(idStr string, fieldName string) (uuid.UUID, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return uuid.Nil, fmt.Errorf("%s is required", fieldName)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s must be a valid UUID", fieldName)
	}
	if id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%s cannot be the nil UUID", fieldName)
	}
	return id, nil
}
