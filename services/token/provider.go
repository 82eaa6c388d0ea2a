package token

import (
	"context"

	"github.com/PeterWalton01/userapi/config"
	"github.com/PeterWalton01/userapi/services/logging"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func ProvideTokenService(lc fx.Lifecycle, db *gorm.DB, cfg *config.Config, logger *logging.Service) TokenService {
	service := NewService(db, cfg, logger)

	if cfg.Token.SweepInterval > 0 {
		lc.Append(fx.Hook{
			OnStart: func(context.Context) error {
				service.StartSweeper()
				return nil
			},
			OnStop: func(context.Context) error {
				service.StopSweeper()
				return nil
			},
		})
	}

	return service
}

var Module = fx.Options(
	fx.Provide(ProvideTokenService),
)
