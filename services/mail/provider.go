package mail

import (
	"github.com/PeterWalton01/userapi/config"
	"github.com/PeterWalton01/userapi/services/logging"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(func(cfg *config.Config, logger *logging.Service) (*Service, error) {
		return NewService(&cfg.Mail, logger)
	}),
)
