package handlers

import (
	"strconv"

	"github.com/PeterWalton01/userapi/config"
	"github.com/PeterWalton01/userapi/internal/i18n"
	"github.com/PeterWalton01/userapi/services/file"
	"github.com/PeterWalton01/userapi/services/logging"
	"github.com/PeterWalton01/userapi/services/token"
	"github.com/PeterWalton01/userapi/services/user"
	"github.com/labstack/echo/v4"
)

type Handler struct {
	config *config.Config
	users  *user.Service
	tokens token.TokenService
	files  *file.Service
	bundle *i18n.Bundle
	logger *logging.Service
}

func NewHandler(cfg *config.Config, users *user.Service, tokens token.TokenService, files *file.Service, bundle *i18n.Bundle, logger *logging.Service) *Handler {
	return &Handler{
		config: cfg,
		users:  users,
		tokens: tokens,
		files:  files,
		bundle: bundle,
		logger: logger,
	}
}

func (h *Handler) translate(c echo.Context, key string) string {
	locale := h.bundle.Locale(c.Request().Header.Get("Accept-Language"))
	return h.bundle.T(locale, key)
}

// parsePagination applies the listing defaults: page 0 and size 10, with any
// out-of-range or non-numeric parameter falling back to its default.
func parsePagination(c echo.Context) (page, size int) {
	page, size = 0, 10

	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(c.QueryParam("size")); err == nil && v > 0 && v <= 100 {
		size = v
	}

	return page, size
}
