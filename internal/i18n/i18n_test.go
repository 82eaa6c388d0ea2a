package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBundle(t *testing.T) {
	bundle, err := NewBundle()
	require.NoError(t, err)
	assert.Contains(t, bundle.locales, "en")
	assert.Contains(t, bundle.locales, "is")
}

func TestBundle_Locale(t *testing.T) {
	bundle, err := NewBundle()
	require.NoError(t, err)

	tests := []struct {
		header string
		want   string
	}{
		{"", "en"},
		{"en", "en"},
		{"is", "is"},
		{"is-IS", "is"},
		{"is,en;q=0.8", "is"},
		{"de", "en"},
		{"garbage;;;", "en"},
	}

	for _, tt := range tests {
		t.Run("header "+tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, bundle.Locale(tt.header))
		})
	}
}

func TestBundle_T(t *testing.T) {
	bundle, err := NewBundle()
	require.NoError(t, err)

	t.Run("translates known keys", func(t *testing.T) {
		assert.Equal(t, "User created", bundle.T("en", "user_create_success"))
		assert.Equal(t, "Notandi stofnaður", bundle.T("is", "user_create_success"))
	})

	t.Run("falls back to english for unknown locale", func(t *testing.T) {
		assert.Equal(t, "User created", bundle.T("de", "user_create_success"))
	})

	t.Run("falls back to the key itself", func(t *testing.T) {
		assert.Equal(t, "no_such_key", bundle.T("en", "no_such_key"))
	})

	t.Run("both catalogs carry the same keys", func(t *testing.T) {
		for key := range bundle.messages["en"] {
			_, ok := bundle.messages["is"][key]
			assert.True(t, ok, "missing icelandic translation for %s", key)
		}
	})
}
