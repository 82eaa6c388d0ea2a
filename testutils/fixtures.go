package testutils

import (
	"time"

	"github.com/PeterWalton01/userapi/config"
	"golang.org/x/crypto/bcrypt"
)

func GetTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name: "Test App",
			URL:  "http://localhost:8080",
		},
		Auth: config.AuthConfig{
			BcryptCost:            bcrypt.MinCost,
			MinPasswordLength:     8,
			ActivationTokenLength: 16,
			ResetTokenLength:      16,
		},
		Token: config.TokenConfig{
			Length:        32,
			Expiry:        7 * 24 * time.Hour,
			SweepInterval: time.Hour,
		},
		Database: config.DatabaseConfig{
			Driver: "sqlite",
			DSN:    ":memory:",
		},
		Uploads: config.UploadsConfig{
			Dir:        "upload-test",
			ProfileDir: "profile",
		},
	}
}

var TestPasswords = struct {
	Valid    string
	TooShort string
	NoUpper  string
	NoLower  string
	NoNumber string
}{
	Valid:    "P4ssword",
	TooShort: "P4ssw",
	NoUpper:  "p4ssword",
	NoLower:  "P4SSWORD",
	NoNumber: "Password",
}
