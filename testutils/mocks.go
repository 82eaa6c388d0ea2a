package testutils

import (
	"github.com/stretchr/testify/mock"
)

type MockMailService struct {
	mock.Mock
}

func (m *MockMailService) SendTemplate(templateName string, to []string, subject string, data map[string]any) error {
	args := m.Called(templateName, to, subject, data)
	return args.Error(0)
}

type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) Issue(userID uint) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) Validate(value string) (uint, error) {
	args := m.Called(value)
	return args.Get(0).(uint), args.Error(1)
}

func (m *MockTokenService) Revoke(value string) error {
	args := m.Called(value)
	return args.Error(0)
}

func (m *MockTokenService) RevokeAll(userID uint) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockTokenService) Sweep() error {
	args := m.Called()
	return args.Error(0)
}
