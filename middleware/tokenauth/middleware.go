package tokenauth

import (
	"errors"
	"strings"

	"github.com/PeterWalton01/userapi/services/token"
	"github.com/labstack/echo/v4"
)

const UserIDKey = "_auth_user_id"

// ErrForbidden is returned by RequireOwner. Handlers surface it as a 403; it
// is expected control flow, never logged as an application error.
var ErrForbidden = errors.New("forbidden")

// Middleware resolves a bearer token to a request identity. A valid token
// attaches the owning user id to the context and refreshes the token's
// sliding window. A missing, malformed or invalid credential leaves the
// request anonymous; rejecting is the handler's job, not the middleware's.
// Storage failures propagate so the request fails with a 5xx.
func Middleware(tokens token.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			value, ok := BearerToken(c.Request().Header.Get("Authorization"))
			if !ok {
				return next(c)
			}

			userID, err := tokens.Validate(value)
			if err != nil {
				if errors.Is(err, token.ErrTokenInvalid) {
					return next(c)
				}
				return err
			}

			c.Set(UserIDKey, userID)
			return next(c)
		}
	}
}

// BearerToken extracts the credential from an Authorization header. A wrong
// scheme or empty value is treated the same as no header at all.
func BearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	scheme, value, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	return value, true
}

// CurrentUserID reports the authenticated identity, if any.
func CurrentUserID(c echo.Context) (uint, bool) {
	userID, ok := c.Get(UserIDKey).(uint)
	return userID, ok
}

// RequireOwner is the single authorization primitive for mutating endpoints:
// it fails unless the request identity exists and matches the resource owner.
func RequireOwner(c echo.Context, resourceOwnerID uint) error {
	userID, ok := CurrentUserID(c)
	if !ok || userID != resourceOwnerID {
		return ErrForbidden
	}
	return nil
}
