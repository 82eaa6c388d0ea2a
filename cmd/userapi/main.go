package main

import (
	"github.com/PeterWalton01/userapi/config"
	"github.com/PeterWalton01/userapi/database"
	"github.com/PeterWalton01/userapi/internal/handlers"
	"github.com/PeterWalton01/userapi/server"
	"github.com/PeterWalton01/userapi/services/file"
	"github.com/PeterWalton01/userapi/services/logging"
	"github.com/PeterWalton01/userapi/services/mail"
	"github.com/PeterWalton01/userapi/services/token"
	"github.com/PeterWalton01/userapi/services/user"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logging.Module,
		fx.Supply(database.WithModels(&user.User{}, &token.Token{})),
		database.Module,
		mail.Module,
		file.Module,
		token.Module,
		user.Module,
		server.Module,
		handlers.Module,
	)

	app.Run()
}
