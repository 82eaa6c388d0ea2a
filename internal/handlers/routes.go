package handlers

import (
	"strconv"
	"time"

	"github.com/PeterWalton01/userapi/middleware/ratelimit"
	"github.com/PeterWalton01/userapi/middleware/tokenauth"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

const imageCacheMaxAge = 365 * 24 * time.Hour

// RegisterRoutes wires the api/1.0 surface. The token middleware runs on
// every route; it only attaches identity, rejecting is left to handlers.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.HTTPErrorHandler = ErrorHandler(h.bundle, h.logger)

	// Base64 image payloads inflate the 2 MiB image limit by a third.
	e.Use(echomw.BodyLimit("3M"))
	e.Use(tokenauth.Middleware(h.tokens))

	var credentialGuard echo.MiddlewareFunc
	if h.config.RateLimit.Enabled {
		credentialGuard = ratelimit.Middleware(&ratelimit.Config{
			Rate:   h.config.RateLimit.Rate,
			Period: h.config.RateLimit.Period,
		})
	} else {
		credentialGuard = func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	api := e.Group("/api/1.0")

	api.POST("/users", h.Register)
	api.POST("/users/token/:token", h.Activate)
	api.GET("/users", h.ListUsers)
	api.GET("/users/:id", h.GetUser)
	api.PUT("/users/:id", h.UpdateUser)
	api.DELETE("/users/:id", h.DeleteUser)

	api.POST("/auth", h.Login, credentialGuard)
	api.POST("/logout", h.Logout)

	api.POST("/user/password", h.PasswordResetRequest, credentialGuard)
	api.PUT("/user/password", h.PasswordUpdate)

	images := e.Group("/images", cacheControl(imageCacheMaxAge))
	images.Static("/", h.files.ProfileFolder())
}

func cacheControl(maxAge time.Duration) echo.MiddlewareFunc {
	value := "public, max-age=" + strconv.FormatInt(int64(maxAge/time.Second), 10)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set("Cache-Control", value)
			return next(c)
		}
	}
}
