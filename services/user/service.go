package user

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/PeterWalton01/userapi/config"
	"github.com/PeterWalton01/userapi/services/file"
	"github.com/PeterWalton01/userapi/services/logging"
	"github.com/PeterWalton01/userapi/services/token"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailInUse             = errors.New("email already in use")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrAccountInactive        = errors.New("account is inactive")
	ErrInvalidActivationToken = errors.New("invalid activation token")
	ErrInvalidResetToken      = errors.New("invalid password reset token")
	ErrUserNotFound           = errors.New("user not found")
	ErrEmailNotInUse          = errors.New("email not in use")
	ErrMailDelivery           = errors.New("failed to deliver email")
	ErrPasswordHashingFailed  = errors.New("failed to hash password")
)

type Mailer interface {
	SendTemplate(templateName string, to []string, subject string, data map[string]any) error
}

type Service struct {
	db     *gorm.DB
	config *config.Config
	mailer Mailer
	files  *file.Service
	tokens token.TokenService
	logger *logging.Service
}

func NewService(db *gorm.DB, cfg *config.Config, mailer Mailer, files *file.Service, tokens token.TokenService, logger *logging.Service) *Service {
	if cfg.Auth.BcryptCost < bcrypt.MinCost || cfg.Auth.BcryptCost > bcrypt.MaxCost {
		cfg.Auth.BcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		db:     db,
		config: cfg,
		mailer: mailer,
		files:  files,
		tokens: tokens,
		logger: logger,
	}
}

// Register creates an inactive account and sends the activation mail inside
// one transaction: if the mail cannot be handed to the transport, the account
// is rolled back so the address can register again later.
func (s *Service) Register(username, email, password string) error {
	existing, err := s.FindByEmail(email)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrEmailInUse
	}

	hash, err := s.hashPassword(password)
	if err != nil {
		return err
	}

	activationToken, err := randomToken(s.config.Auth.ActivationTokenLength)
	if err != nil {
		return err
	}

	record := &User{
		Username:        username,
		Email:           email,
		Password:        hash,
		Inactive:        true,
		ActivationToken: &activationToken,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(record).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		if err := s.sendActivationMail(email, activationToken); err != nil {
			return ErrMailDelivery
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("user registration failed",
			zap.Error(err),
			zap.String("email", email))
		return err
	}

	s.logger.Info("user registered", zap.String("email", email))
	return nil
}

func (s *Service) FindByEmail(email string) (*User, error) {
	var record User
	err := s.db.Where("email = ?", email).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &record, nil
}

// Activate flips an account to active and consumes the activation token.
func (s *Service) Activate(activationToken string) error {
	var record User
	err := s.db.Where("activation_token = ?", activationToken).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidActivationToken
		}
		return fmt.Errorf("database error: %w", err)
	}

	err = s.db.Model(&record).Updates(map[string]any{
		"inactive":         false,
		"activation_token": nil,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to activate user: %w", err)
	}

	s.logger.Info("user activated", zap.Uint("user_id", record.ID))
	return nil
}

// Login verifies credentials and mints a bearer token. Inactive accounts
// cannot log in even with the right password.
func (s *Service) Login(email, password string) (*User, string, error) {
	record, err := s.FindByEmail(email)
	if err != nil {
		return nil, "", err
	}
	if record == nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(record.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if record.Inactive {
		return nil, "", ErrAccountInactive
	}

	value, err := s.tokens.Issue(record.ID)
	if err != nil {
		return nil, "", err
	}

	return record, value, nil
}

// List returns one page of active accounts, excluding the caller so users
// never see themselves in the directory.
func (s *Service) List(page, size int, authenticatedUserID uint) (*Page, error) {
	query := s.db.Model(&User{}).
		Where("inactive = ?", false).
		Where("id <> ?", authenticatedUserID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	var content []View
	err := query.
		Select("id", "username", "email", "image").
		Order("id").
		Limit(size).
		Offset(page * size).
		Find(&content).Error
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	totalPages := int((total + int64(size) - 1) / int64(size))

	return &Page{
		Content:    content,
		Page:       page,
		Size:       size,
		TotalPages: totalPages,
	}, nil
}

func (s *Service) Get(id uint) (*View, error) {
	var record User
	err := s.db.Where("id = ? AND inactive = ?", id, false).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return viewOf(&record), nil
}

// Update changes the username and, when an image payload is present, replaces
// the stored profile image.
func (s *Service) Update(id uint, username, imageBase64 string) (*View, error) {
	var record User
	if err := s.db.Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	record.Username = username

	if imageBase64 != "" {
		if record.Image != nil {
			if err := s.files.DeleteProfileImage(*record.Image); err != nil {
				s.logger.Warn("failed to remove replaced profile image", zap.Error(err))
			}
		}
		filename, err := s.files.SaveProfileImage(imageBase64)
		if err != nil {
			return nil, err
		}
		record.Image = &filename
	}

	if err := s.db.Save(&record).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return viewOf(&record), nil
}

// Delete removes the account and every token it owns in one transaction. The
// token cascade is explicit rather than a storage-level foreign-key feature.
func (s *Service) Delete(id uint) error {
	var record User
	if err := s.db.Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("database error: %w", err)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&token.Token{}).Error; err != nil {
			return fmt.Errorf("failed to delete user tokens: %w", err)
		}
		if err := tx.Delete(&User{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if record.Image != nil {
		if err := s.files.DeleteProfileImage(*record.Image); err != nil {
			s.logger.Warn("failed to remove profile image of deleted user", zap.Error(err))
		}
	}

	s.logger.Info("user deleted", zap.Uint("user_id", id))
	return nil
}

// RequestPasswordReset stores a reset token on the account and mails it.
func (s *Service) RequestPasswordReset(email string) error {
	record, err := s.FindByEmail(email)
	if err != nil {
		return err
	}
	if record == nil {
		return ErrEmailNotInUse
	}

	resetToken, err := randomToken(s.config.Auth.ResetTokenLength)
	if err != nil {
		return err
	}

	err = s.db.Model(record).Update("password_reset_token", resetToken).Error
	if err != nil {
		return fmt.Errorf("failed to store password reset token: %w", err)
	}

	if err := s.sendPasswordResetMail(email, resetToken); err != nil {
		s.logger.Error("failed to send password reset mail",
			zap.Error(err),
			zap.String("email", email))
		return ErrMailDelivery
	}

	s.logger.Info("password reset requested", zap.String("email", email))
	return nil
}

func (s *Service) FindByPasswordResetToken(resetToken string) (*User, error) {
	var record User
	err := s.db.Where("password_reset_token = ?", resetToken).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &record, nil
}

// ResetPassword replaces the password, activates the account and revokes
// every bearer token the account holds.
func (s *Service) ResetPassword(resetToken, newPassword string) error {
	record, err := s.FindByPasswordResetToken(resetToken)
	if err != nil {
		return err
	}
	if record == nil {
		return ErrInvalidResetToken
	}

	hash, err := s.hashPassword(newPassword)
	if err != nil {
		return err
	}

	err = s.db.Model(record).Updates(map[string]any{
		"password":             hash,
		"password_reset_token": nil,
		"activation_token":     nil,
		"inactive":             false,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}

	if err := s.tokens.RevokeAll(record.ID); err != nil {
		return err
	}

	s.logger.Info("password reset completed", zap.Uint("user_id", record.ID))
	return nil
}

func (s *Service) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.config.Auth.BcryptCost)
	if err != nil {
		s.logger.Error("password hashing failed", zap.Error(err))
		return "", ErrPasswordHashingFailed
	}
	return string(hash), nil
}

func (s *Service) sendActivationMail(email, activationToken string) error {
	data := map[string]any{
		"Email":         email,
		"ActivationURL": fmt.Sprintf("%s/#/login?token=%s", s.config.App.URL, activationToken),
		"AppName":       s.config.App.Name,
	}
	return s.mailer.SendTemplate("account_activation", []string{email}, "Account activation", data)
}

func (s *Service) sendPasswordResetMail(email, resetToken string) error {
	data := map[string]any{
		"Email":    email,
		"ResetURL": fmt.Sprintf("%s/#/password-reset?reset=%s", s.config.App.URL, resetToken),
		"AppName":  s.config.App.Name,
	}
	return s.mailer.SendTemplate("password_reset", []string{email}, "Password Reset", data)
}

func viewOf(record *User) *View {
	return &View{
		ID:       record.ID,
		Username: record.Username,
		Email:    record.Email,
		Image:    record.Image,
	}
}

func randomToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate secure token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// DecodeImage decodes a base64 image payload for validation purposes.
func DecodeImage(encoded string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(encoded)
}
