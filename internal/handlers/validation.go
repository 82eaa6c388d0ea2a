package handlers

import (
	"errors"
	"unicode"

	"github.com/PeterWalton01/userapi/services/file"
	"github.com/PeterWalton01/userapi/services/user"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// Validation failures are reported as message-catalog keys; the error handler
// translates them per request locale.

func validateUsername(username string) string {
	err := validation.Validate(username,
		validation.Required.Error("username_not_null"),
		validation.Length(4, 32).Error("username_size"),
	)
	if err != nil {
		return err.Error()
	}
	return ""
}

func validateEmail(email string) string {
	err := validation.Validate(email,
		validation.Required.Error("email_not_null"),
		is.Email.Error("email_not_valid"),
	)
	if err != nil {
		return err.Error()
	}
	return ""
}

func validatePassword(password string) string {
	err := validation.Validate(password,
		validation.Required.Error("password_not_null"),
		validation.Length(8, 0).Error("password_size"),
		validation.By(passwordPattern),
	)
	if err != nil {
		return err.Error()
	}
	return ""
}

// passwordPattern requires at least one lowercase letter, one uppercase
// letter and one digit.
func passwordPattern(value interface{}) error {
	password, _ := value.(string)
	if password == "" {
		return nil
	}

	var hasUpper, hasLower, hasNumber bool
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}

	if !hasUpper || !hasLower || !hasNumber {
		return errors.New("password_pattern")
	}
	return nil
}

// validateImage checks an optional base64 profile image payload.
func validateImage(files *file.Service, encoded string) string {
	if encoded == "" {
		return ""
	}

	data, err := user.DecodeImage(encoded)
	if err != nil {
		return "unsupported_file_type"
	}
	if !files.IsWithinSizeLimit(data) {
		return "profile_image_size"
	}
	if err := files.CheckSupportedType(data); err != nil {
		return "unsupported_file_type"
	}
	return ""
}
