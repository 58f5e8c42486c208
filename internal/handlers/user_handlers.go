package handlers

import (
	"net/http"

	"github.com/MananRajppout/newamplify/internal/common"
	"github.com/MananRajppout/newamplify/internal/models"
	"github.com/MananRajppout/newamplify/internal/services"

	"github.com/labstack/echo/v4"
)

// UserHandlers exposes the account lifecycle over HTTP, one route per
// operation.
type UserHandlers struct {
	accountSvc services.AccountService
}

func NewUserHandlers(accountSvc services.AccountService) *UserHandlers {
	return &UserHandlers{accountSvc: accountSvc}
}

// Register handles POST /register
func (h *UserHandlers) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var req services.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return common.SendBadRequest(c, "invalid request format")
	}
	if req.Email == "" || req.Password == "" || req.FirstName == "" || req.LastName == "" {
		return common.SendBadRequest(c, "firstName, lastName, email and password are required")
	}

	user, err := h.accountSvc.Register(ctx, &req)
	if err != nil {
		return common.SendError(c, err)
	}

	return common.SendData(c, http.StatusCreated, "User registered successfully", user)
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse pairs the sanitized user with the session token.
type LoginResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// Login handles POST /login
func (h *UserHandlers) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return common.SendBadRequest(c, "invalid request format")
	}
	if req.Email == "" || req.Password == "" {
		return common.SendBadRequest(c, "email and password are required")
	}

	user, token, err := h.accountSvc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return common.SendError(c, err)
	}

	return common.SendData(c, http.StatusOK, "Login successful", LoginResponse{User: user, Token: token})
}

// VerifyEmail handles GET /verify-email?token=...
func (h *UserHandlers) VerifyEmail(c echo.Context) error {
	ctx := c.Request().Context()

	token := c.QueryParam("token")
	if token == "" {
		return common.SendBadRequest(c, "token is required")
	}

	if err := h.accountSvc.VerifyEmail(ctx, token); err != nil {
		return common.SendError(c, err)
	}

	return common.SendMessage(c, "Email verified successfully")
}

// ForgotPasswordRequest is the forgot-password payload.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword handles POST /forgot-password
func (h *UserHandlers) ForgotPassword(c echo.Context) error {
	ctx := c.Request().Context()

	var req ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return common.SendBadRequest(c, "invalid request format")
	}
	if req.Email == "" {
		return common.SendBadRequest(c, "email is required")
	}

	if err := h.accountSvc.ForgotPassword(ctx, req.Email); err != nil {
		return common.SendError(c, err)
	}

	return common.SendMessage(c, "Password reset instructions sent")
}

// ResetPasswordRequest is the reset-password payload.
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// ResetPassword handles POST /reset-password
func (h *UserHandlers) ResetPassword(c echo.Context) error {
	ctx := c.Request().Context()

	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return common.SendBadRequest(c, "invalid request format")
	}
	if req.Token == "" || req.NewPassword == "" {
		return common.SendBadRequest(c, "token and newPassword are required")
	}

	if err := h.accountSvc.ResetPassword(ctx, req.Token, req.NewPassword); err != nil {
		return common.SendError(c, err)
	}

	return common.SendMessage(c, "Password reset successfully")
}

// ChangePasswordRequest is the change-password payload. The current
// password is required; holding a session token is not enough.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// ChangePassword handles POST /change-password (session protected)
func (h *UserHandlers) ChangePassword(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return c.JSON(http.StatusUnauthorized, common.Envelope{Success: false, Message: "not authenticated"})
	}

	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return common.SendBadRequest(c, "invalid request format")
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		return common.SendBadRequest(c, "oldPassword and newPassword are required")
	}

	if err := h.accountSvc.ChangePassword(ctx, userID, req.OldPassword, req.NewPassword); err != nil {
		return common.SendError(c, err)
	}

	return common.SendMessage(c, "Password changed successfully")
}

// FindByID handles GET /find-by-id?id=... (session protected)
func (h *UserHandlers) FindByID(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.QueryParam("id"), "id")
	if err != nil {
		return common.SendBadRequest(c, err.Error())
	}

	user, err := h.accountSvc.FindByID(ctx, id)
	if err != nil {
		return common.SendError(c, err)
	}

	return common.SendData(c, http.StatusOK, "User found", user)
}

// UpdateUser handles PUT /edit/:id (session protected)
func (h *UserHandlers) UpdateUser(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendBadRequest(c, err.Error())
	}

	var req services.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return common.SendBadRequest(c, "invalid request format")
	}

	user, err := h.accountSvc.Update(ctx, id, &req)
	if err != nil {
		return common.SendError(c, err)
	}

	return common.SendData(c, http.StatusOK, "User updated successfully", user)
}

// DeleteUser handles DELETE /:id (session protected). Soft delete only.
func (h *UserHandlers) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendBadRequest(c, err.Error())
	}

	if err := h.accountSvc.Delete(ctx, id); err != nil {
		return common.SendError(c, err)
	}

	return common.SendMessage(c, "User deleted successfully")
}
