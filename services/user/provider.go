package user

import (
	"github.com/PeterWalton01/userapi/config"
	"github.com/PeterWalton01/userapi/services/file"
	"github.com/PeterWalton01/userapi/services/logging"
	"github.com/PeterWalton01/userapi/services/mail"
	"github.com/PeterWalton01/userapi/services/token"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Options(
	fx.Provide(func(db *gorm.DB, cfg *config.Config, mailSvc *mail.Service, files *file.Service, tokens token.TokenService, logger *logging.Service) *Service {
		return NewService(db, cfg, mailSvc, files, tokens, logger)
	}),
)
