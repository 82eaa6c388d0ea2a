package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/PeterWalton01/userapi/middleware/tokenauth"
	"github.com/PeterWalton01/userapi/services/user"
	"github.com/labstack/echo/v4"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateUserRequest struct {
	Username string `json:"username"`
	Image    string `json:"image"`
}

type passwordResetRequest struct {
	Email string `json:"email"`
}

type passwordUpdateRequest struct {
	Password           string `json:"password"`
	PasswordResetToken string `json:"passwordResetToken"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Register creates an inactive account and triggers the activation mail.
func (h *Handler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return newValidationError(map[string]string{"body": "validation_failure"})
	}

	validationErrors := make(map[string]string)
	if key := validateUsername(req.Username); key != "" {
		validationErrors["username"] = key
	}
	if key := validateEmail(req.Email); key != "" {
		validationErrors["email"] = key
	} else {
		existing, err := h.users.FindByEmail(req.Email)
		if err != nil {
			return err
		}
		if existing != nil {
			validationErrors["email"] = "email_in_use"
		}
	}
	if key := validatePassword(req.Password); key != "" {
		validationErrors["password"] = key
	}
	if len(validationErrors) > 0 {
		return newValidationError(validationErrors)
	}

	if err := h.users.Register(req.Username, req.Email, req.Password); err != nil {
		switch {
		case errors.Is(err, user.ErrEmailInUse):
			return newValidationError(map[string]string{"email": "email_in_use"})
		case errors.Is(err, user.ErrMailDelivery):
			return newAPIError(http.StatusBadGateway, "email_failure")
		default:
			return err
		}
	}

	return c.JSON(http.StatusOK, messageResponse{Message: h.translate(c, "user_create_success")})
}

// Activate consumes an emailed activation token.
func (h *Handler) Activate(c echo.Context) error {
	if err := h.users.Activate(c.Param("token")); err != nil {
		if errors.Is(err, user.ErrInvalidActivationToken) {
			return newAPIError(http.StatusBadRequest, "account_activation_failure")
		}
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: h.translate(c, "account_activation_success")})
}

// ListUsers returns one page of active accounts, excluding the caller.
func (h *Handler) ListUsers(c echo.Context) error {
	page, size := parsePagination(c)

	authenticatedUserID, _ := tokenauth.CurrentUserID(c)

	result, err := h.users.List(page, size, authenticatedUserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

func (h *Handler) GetUser(c echo.Context) error {
	id, err := parseUserID(c)
	if err != nil {
		return newAPIError(http.StatusNotFound, "user_not_found")
	}

	view, err := h.users.Get(id)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return newAPIError(http.StatusNotFound, "user_not_found")
		}
		return err
	}

	return c.JSON(http.StatusOK, view)
}

// UpdateUser changes username and, optionally, the profile image. Only the
// resource owner may update; the ownership check runs before validation.
func (h *Handler) UpdateUser(c echo.Context) error {
	id, err := parseUserID(c)
	if err != nil {
		return newAPIError(http.StatusForbidden, "unauthorised_user_update")
	}

	if err := tokenauth.RequireOwner(c, id); err != nil {
		return newAPIError(http.StatusForbidden, "unauthorised_user_update")
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return newValidationError(map[string]string{"body": "validation_failure"})
	}

	validationErrors := make(map[string]string)
	if key := validateUsername(req.Username); key != "" {
		validationErrors["username"] = key
	}
	if key := validateImage(h.files, req.Image); key != "" {
		validationErrors["image"] = key
	}
	if len(validationErrors) > 0 {
		return newValidationError(validationErrors)
	}

	view, err := h.users.Update(id, req.Username, req.Image)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, view)
}

// DeleteUser removes the caller's own account and cascades to its tokens.
func (h *Handler) DeleteUser(c echo.Context) error {
	id, err := parseUserID(c)
	if err != nil {
		return newAPIError(http.StatusForbidden, "unauthorised_user_delete")
	}

	if err := tokenauth.RequireOwner(c, id); err != nil {
		return newAPIError(http.StatusForbidden, "unauthorised_user_delete")
	}

	if err := h.users.Delete(id); err != nil && !errors.Is(err, user.ErrUserNotFound) {
		return err
	}

	return c.NoContent(http.StatusOK)
}

// PasswordResetRequest mails a reset token to a registered address.
func (h *Handler) PasswordResetRequest(c echo.Context) error {
	var req passwordResetRequest
	if err := c.Bind(&req); err != nil {
		return newValidationError(map[string]string{"body": "validation_failure"})
	}

	if key := validateEmail(req.Email); key != "" {
		return newValidationError(map[string]string{"email": key})
	}

	if err := h.users.RequestPasswordReset(req.Email); err != nil {
		switch {
		case errors.Is(err, user.ErrEmailNotInUse):
			return newAPIError(http.StatusNotFound, "email_not_in_use")
		case errors.Is(err, user.ErrMailDelivery):
			return newAPIError(http.StatusBadGateway, "email_failure")
		default:
			return err
		}
	}

	return c.JSON(http.StatusOK, messageResponse{Message: h.translate(c, "password_reset_request_success")})
}

// PasswordUpdate completes a reset: the token is checked before the new
// password is even validated, so token probing learns nothing about rules.
func (h *Handler) PasswordUpdate(c echo.Context) error {
	var req passwordUpdateRequest
	if err := c.Bind(&req); err != nil {
		return newValidationError(map[string]string{"body": "validation_failure"})
	}

	holder, err := h.users.FindByPasswordResetToken(req.PasswordResetToken)
	if err != nil {
		return err
	}
	if holder == nil {
		return newAPIError(http.StatusForbidden, "unauthorised_password_reset")
	}

	if key := validatePassword(req.Password); key != "" {
		return newValidationError(map[string]string{"password": key})
	}

	if err := h.users.ResetPassword(req.PasswordResetToken, req.Password); err != nil {
		if errors.Is(err, user.ErrInvalidResetToken) {
			return newAPIError(http.StatusForbidden, "unauthorised_password_reset")
		}
		return err
	}

	return c.NoContent(http.StatusOK)
}

func parseUserID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
