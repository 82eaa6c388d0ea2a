package handlers

import (
	"github.com/PeterWalton01/userapi/internal/i18n"
	"github.com/PeterWalton01/userapi/server"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(i18n.NewBundle),
	fx.Provide(NewHandler),
	fx.Invoke(func(h *Handler, srv *server.Server) {
		h.RegisterRoutes(srv.Echo())
	}),
)
