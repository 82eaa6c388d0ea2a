package tokenauth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/PeterWalton01/userapi/services/token"
	"github.com/PeterWalton01/userapi/testutils"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runMiddleware(t *testing.T, tokens *testutils.MockTokenService, authHeader string) echo.Context {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Middleware(tokens)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))

	return c
}

func TestMiddleware_ValidToken(t *testing.T) {
	tokens := &testutils.MockTokenService{}
	tokens.On("Validate", "good-token").Return(uint(42), nil)

	c := runMiddleware(t, tokens, "Bearer good-token")

	userID, ok := CurrentUserID(c)
	assert.True(t, ok)
	assert.Equal(t, uint(42), userID)
	tokens.AssertExpectations(t)
}

func TestMiddleware_AnonymousRequests(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"empty value", "Bearer "},
		{"scheme only", "Bearer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := &testutils.MockTokenService{}

			c := runMiddleware(t, tokens, tt.header)

			_, ok := CurrentUserID(c)
			assert.False(t, ok)
			tokens.AssertNotCalled(t, "Validate")
		})
	}
}

func TestMiddleware_InvalidTokenStaysAnonymous(t *testing.T) {
	tokens := &testutils.MockTokenService{}
	tokens.On("Validate", "stale-token").Return(uint(0), token.ErrTokenInvalid)

	c := runMiddleware(t, tokens, "Bearer stale-token")

	_, ok := CurrentUserID(c)
	assert.False(t, ok)
}

func TestMiddleware_StorageErrorFailsRequest(t *testing.T) {
	storageErr := errors.New("database error: connection refused")
	tokens := &testutils.MockTokenService{}
	tokens.On("Validate", "any-token").Return(uint(0), storageErr)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer any-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Middleware(tokens)(func(c echo.Context) error {
		t.Fatal("handler should not run when the store is unavailable")
		return nil
	})
	err := handler(c)
	assert.ErrorIs(t, err, storageErr)
}

func TestRequireOwner(t *testing.T) {
	e := echo.New()

	newContext := func() echo.Context {
		req := httptest.NewRequest(http.MethodPut, "/", nil)
		return e.NewContext(req, httptest.NewRecorder())
	}

	t.Run("anonymous identity is forbidden", func(t *testing.T) {
		c := newContext()
		assert.ErrorIs(t, RequireOwner(c, 42), ErrForbidden)
	})

	t.Run("different owner is forbidden", func(t *testing.T) {
		c := newContext()
		c.Set(UserIDKey, uint(7))
		assert.ErrorIs(t, RequireOwner(c, 42), ErrForbidden)
	})

	t.Run("matching owner passes", func(t *testing.T) {
		c := newContext()
		c.Set(UserIDKey, uint(42))
		assert.NoError(t, RequireOwner(c, 42))
	})
}
