package file

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/PeterWalton01/userapi/config"
	"github.com/PeterWalton01/userapi/services/logging"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const MaxImageBytes = 2 * 1024 * 1024

var ErrUnsupportedFileType = errors.New("unsupported file type")

// Service stores profile images on disk under <uploads>/<profile>. File names
// are random so a caller can never address another user's image by guessing.
type Service struct {
	profileFolder string
	logger        *logging.Service
}

func NewService(cfg *config.Config, logger *logging.Service) *Service {
	return &Service{
		profileFolder: filepath.Join(cfg.Uploads.Dir, cfg.Uploads.ProfileDir),
		logger:        logger,
	}
}

func (s *Service) CreateFolders() error {
	if err := os.MkdirAll(s.profileFolder, 0o755); err != nil {
		return fmt.Errorf("failed to create upload folders: %w", err)
	}
	return nil
}

func (s *Service) ProfileFolder() string {
	return s.profileFolder
}

// SaveProfileImage decodes a base64 payload and stores it under a random
// name, returning the name for the user record.
func (s *Service) SaveProfileImage(encoded string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("invalid base64 image payload: %w", err)
	}

	filename := uuid.NewString()
	path := filepath.Join(s.profileFolder, filename)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		s.logger.Error("failed to write profile image", zap.Error(err))
		return "", fmt.Errorf("failed to store profile image: %w", err)
	}

	return filename, nil
}

// DeleteProfileImage removes a stored image. A missing file is a no-op.
func (s *Service) DeleteProfileImage(filename string) error {
	if filename == "" {
		return nil
	}

	path := filepath.Join(s.profileFolder, filename)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.logger.Error("failed to delete profile image",
			zap.Error(err),
			zap.String("filename", filename))
		return fmt.Errorf("failed to delete profile image: %w", err)
	}

	return nil
}

func (s *Service) IsWithinSizeLimit(data []byte) bool {
	return len(data) < MaxImageBytes
}

// CheckSupportedType sniffs the payload and accepts png and jpeg only.
func (s *Service) CheckSupportedType(data []byte) error {
	switch http.DetectContentType(data) {
	case "image/png", "image/jpeg":
		return nil
	default:
		return ErrUnsupportedFileType
	}
}
