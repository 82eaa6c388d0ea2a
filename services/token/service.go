package token

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/PeterWalton01/userapi/config"
	"github.com/PeterWalton01/userapi/services/logging"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrTokenInvalid covers missing, malformed and expired tokens alike so
	// callers cannot distinguish an expired token from one never issued.
	ErrTokenInvalid          = errors.New("token invalid or expired")
	ErrTokenGenerationFailed = errors.New("failed to generate secure token")
)

type TokenService interface {
	Issue(userID uint) (string, error)
	Validate(value string) (uint, error)
	Revoke(value string) error
	RevokeAll(userID uint) error
	Sweep() error
}

type Service struct {
	db     *gorm.DB
	config *config.Config
	logger *logging.Service

	stopOnce sync.Once
	done     chan struct{}
}

func NewService(db *gorm.DB, cfg *config.Config, logger *logging.Service) *Service {
	logger.Info("initializing token service",
		zap.Duration("expiry", cfg.Token.Expiry),
		zap.Int("token_length", cfg.Token.Length),
		zap.Duration("sweep_interval", cfg.Token.SweepInterval))

	return &Service{
		db:     db,
		config: cfg,
		logger: logger,
		done:   make(chan struct{}),
	}
}

// Issue mints an opaque token for the user and persists it with a fresh
// last-used timestamp. A persistence failure is returned to the caller; no
// token string is handed out that the store never saw.
func (s *Service) Issue(userID uint) (string, error) {
	value, err := s.generateSecureToken()
	if err != nil {
		s.logger.Error("failed to generate token value", zap.Error(err))
		return "", ErrTokenGenerationFailed
	}

	record := Token{
		Value:      value,
		UserID:     userID,
		LastUsedAt: time.Now(),
	}

	if err := s.db.Create(&record).Error; err != nil {
		s.logger.Error("failed to store token",
			zap.Error(err),
			zap.Uint("user_id", userID))
		return "", fmt.Errorf("failed to store token: %w", err)
	}

	s.logger.Info("token issued",
		zap.Uint("user_id", userID),
		zap.Uint("token_id", record.ID))

	return value, nil
}

// Validate resolves a token to its owning user id and extends the sliding
// window. The refresh is a single conditional UPDATE so a concurrent sweep or
// revoke always wins: a token that aged out or was deleted can never be
// resurrected by a racing refresh.
func (s *Service) Validate(value string) (uint, error) {
	now := time.Now()
	cutoff := now.Add(-s.config.Token.Expiry)

	res := s.db.Model(&Token{}).
		Where("value = ? AND last_used_at > ?", value, cutoff).
		Update("last_used_at", now)
	if res.Error != nil {
		s.logger.Error("token validation failed - database error", zap.Error(res.Error))
		return 0, fmt.Errorf("database error: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, ErrTokenInvalid
	}

	var record Token
	err := s.db.Select("user_id").Where("value = ?", value).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Revoked between the refresh and the read; the delete wins.
			return 0, ErrTokenInvalid
		}
		s.logger.Error("token validation failed - database error", zap.Error(err))
		return 0, fmt.Errorf("database error: %w", err)
	}

	return record.UserID, nil
}

// Revoke deletes a single token. Deleting an absent token is a no-op.
func (s *Service) Revoke(value string) error {
	result := s.db.Where("value = ?", value).Delete(&Token{})
	if result.Error != nil {
		s.logger.Error("failed to revoke token", zap.Error(result.Error))
		return fmt.Errorf("failed to revoke token: %w", result.Error)
	}

	s.logger.Info("token revoked", zap.Int64("affected_rows", result.RowsAffected))
	return nil
}

// RevokeAll deletes every token owned by the user. Used on password reset and
// account deletion.
func (s *Service) RevokeAll(userID uint) error {
	result := s.db.Where("user_id = ?", userID).Delete(&Token{})
	if result.Error != nil {
		s.logger.Error("failed to revoke user tokens",
			zap.Error(result.Error),
			zap.Uint("user_id", userID))
		return fmt.Errorf("failed to revoke user tokens: %w", result.Error)
	}

	s.logger.Info("all user tokens revoked",
		zap.Uint("user_id", userID),
		zap.Int64("count", result.RowsAffected))
	return nil
}

// Sweep deletes every token whose last use is at least one expiry window in
// the past. The delete carries its own age predicate, so it cannot remove a
// token that a concurrent Validate refreshed first.
func (s *Service) Sweep() error {
	cutoff := time.Now().Add(-s.config.Token.Expiry)

	result := s.db.Where("last_used_at <= ?", cutoff).Delete(&Token{})
	if result.Error != nil {
		s.logger.Error("failed to sweep expired tokens", zap.Error(result.Error))
		return fmt.Errorf("failed to sweep expired tokens: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		s.logger.Info("swept expired tokens", zap.Int64("count", result.RowsAffected))
	} else {
		s.logger.Debug("no expired tokens to sweep")
	}
	return nil
}

// StartSweeper runs Sweep on the configured interval until StopSweeper is
// called. A failed tick is logged and the next tick runs as normal.
func (s *Service) StartSweeper() {
	go func() {
		ticker := time.NewTicker(s.config.Token.SweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := s.Sweep(); err != nil {
					s.logger.Error("token sweep tick failed", zap.Error(err))
				}
			case <-s.done:
				return
			}
		}
	}()

	s.logger.Info("started token sweeper",
		zap.Duration("interval", s.config.Token.SweepInterval))
}

func (s *Service) StopSweeper() {
	s.stopOnce.Do(func() {
		close(s.done)
		s.logger.Info("stopped token sweeper")
	})
}

func (s *Service) generateSecureToken() (string, error) {
	bytes := make([]byte, s.config.Token.Length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
