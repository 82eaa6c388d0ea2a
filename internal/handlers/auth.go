package handlers

import (
	"errors"
	"net/http"

	"github.com/PeterWalton01/userapi/middleware/tokenauth"
	"github.com/PeterWalton01/userapi/services/user"
	"github.com/labstack/echo/v4"
	"github.com/mileusna/useragent"
	"go.uber.org/zap"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	ID       uint    `json:"id"`
	Username string  `json:"username"`
	Token    string  `json:"token"`
	Image    *string `json:"image"`
}

// Login verifies credentials and returns a fresh bearer token.
func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return newAPIError(http.StatusUnauthorized, "authentication_failure")
	}

	account, value, err := h.users.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrInvalidCredentials):
			return newAPIError(http.StatusUnauthorized, "authentication_failure")
		case errors.Is(err, user.ErrAccountInactive):
			return newAPIError(http.StatusForbidden, "inactive_authentication_failure")
		default:
			return err
		}
	}

	ua := useragent.Parse(c.Request().UserAgent())
	h.logger.Info("user logged in",
		zap.Uint("user_id", account.ID),
		zap.String("ip", c.RealIP()),
		zap.String("browser", ua.Name),
		zap.String("os", ua.OS))

	return c.JSON(http.StatusOK, loginResponse{
		ID:       account.ID,
		Username: account.Username,
		Token:    value,
		Image:    account.Image,
	})
}

// Logout revokes the presented token. Requests without a usable credential
// succeed anyway; there is nothing to revoke.
func (h *Handler) Logout(c echo.Context) error {
	if value, ok := tokenauth.BearerToken(c.Request().Header.Get("Authorization")); ok {
		if err := h.tokens.Revoke(value); err != nil {
			return err
		}
	}

	return c.NoContent(http.StatusOK)
}
