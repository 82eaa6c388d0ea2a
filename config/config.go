package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig       `envPrefix:"USERAPI_APP_"`
	Server    ServerConfig    `envPrefix:"USERAPI_SERVER_"`
	Log       LogConfig       `envPrefix:"USERAPI_LOG_"`
	Database  DatabaseConfig  `envPrefix:"USERAPI_DATABASE_"`
	Mail      MailConfig      `envPrefix:"USERAPI_MAIL_"`
	Auth      AuthConfig      `envPrefix:"USERAPI_AUTH_"`
	Token     TokenConfig     `envPrefix:"USERAPI_TOKEN_"`
	Uploads   UploadsConfig   `envPrefix:"USERAPI_UPLOADS_"`
	RateLimit RateLimitConfig `envPrefix:"USERAPI_RATELIMIT_"`
}

type AppConfig struct {
	Name string `env:"NAME" envDefault:"User API"`
	URL  string `env:"URL" envDefault:"http://localhost:8080"`
}

type ServerConfig struct {
	Host string `env:"HOST" envDefault:"localhost"`
	Port string `env:"PORT" envDefault:"8080"`
}

type LogConfig struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"json"`
	Output string `env:"OUTPUT" envDefault:"stdout"`
}

type DatabaseConfig struct {
	Driver      string `env:"DRIVER" envDefault:"sqlite"`
	DSN         string `env:"DSN" envDefault:"userapi.db"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"true"`
}

type MailConfig struct {
	Host         string `env:"HOST" envDefault:"localhost"`
	Port         int    `env:"PORT" envDefault:"587"`
	Username     string `env:"USERNAME"`
	Password     string `env:"PASSWORD"`
	Encryption   string `env:"ENCRYPTION" envDefault:"starttls"`
	FromAddress  string `env:"FROM_ADDRESS" envDefault:"noreply@localhost"`
	FromName     string `env:"FROM_NAME"`
	TemplatesDir string `env:"TEMPLATES_DIR" envDefault:"templates/mail"`
}

type AuthConfig struct {
	BcryptCost            int `env:"BCRYPT_COST" envDefault:"10"`
	MinPasswordLength     int `env:"MIN_PASSWORD_LENGTH" envDefault:"8"`
	ActivationTokenLength int `env:"ACTIVATION_TOKEN_LENGTH" envDefault:"16"`
	ResetTokenLength      int `env:"RESET_TOKEN_LENGTH" envDefault:"16"`
}

// TokenConfig controls the opaque bearer tokens issued on login. Expiry is a
// sliding window: any successful use extends it by the full duration.
type TokenConfig struct {
	Length        int           `env:"LENGTH" envDefault:"32"`
	Expiry        time.Duration `env:"EXPIRY" envDefault:"168h"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"1h"`
}

type UploadsConfig struct {
	Dir        string `env:"DIR" envDefault:"upload"`
	ProfileDir string `env:"PROFILE_DIR" envDefault:"profile"`
}

type RateLimitConfig struct {
	Enabled bool          `env:"ENABLED" envDefault:"true"`
	Rate    int           `env:"RATE" envDefault:"10"`
	Period  time.Duration `env:"PERIOD" envDefault:"1m"`
}

func LoadConfig(cfg *Config) error {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	if err := env.Parse(cfg); err != nil {
		return err
	}

	return validateTokenConfig(&cfg.Token)
}

func validateTokenConfig(cfg *TokenConfig) error {
	if cfg.Length < 16 {
		return fmt.Errorf("token length must be at least 16 bytes, got %d", cfg.Length)
	}
	if cfg.Expiry <= 0 {
		return fmt.Errorf("token expiry must be positive, got %s", cfg.Expiry)
	}
	if cfg.SweepInterval < 0 {
		return fmt.Errorf("token sweep interval must not be negative, got %s", cfg.SweepInterval)
	}
	return nil
}
