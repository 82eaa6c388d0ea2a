package file

import (
	"github.com/PeterWalton01/userapi/config"
	"github.com/PeterWalton01/userapi/services/logging"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(func(cfg *config.Config, logger *logging.Service) (*Service, error) {
		service := NewService(cfg, logger)
		if err := service.CreateFolders(); err != nil {
			return nil, err
		}
		return service, nil
	}),
)
