package token

import (
	"testing"
	"time"

	"github.com/PeterWalton01/userapi/config"
	"github.com/PeterWalton01/userapi/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func getTestTokenConfig() *config.Config {
	return &config.Config{
		Token: config.TokenConfig{
			Length:        32,
			Expiry:        7 * 24 * time.Hour,
			SweepInterval: time.Hour,
		},
	}
}

func rewindLastUsed(t *testing.T, db *gorm.DB, value string, age time.Duration) {
	t.Helper()
	err := db.Model(&Token{}).
		Where("value = ?", value).
		Update("last_used_at", time.Now().Add(-age)).Error
	require.NoError(t, err)
}

func TestNewService(t *testing.T) {
	cfg := getTestTokenConfig()
	db := testutils.SetupTestDB(t, &Token{})

	service := NewService(db, cfg, nil)

	assert.NotNil(t, service)
	assert.Equal(t, db, service.db)
	assert.Equal(t, cfg, service.config)
}

func TestService_Issue(t *testing.T) {
	cfg := getTestTokenConfig()
	db := testutils.SetupTestDB(t, &Token{})
	service := NewService(db, cfg, nil)

	t.Run("issued token validates immediately", func(t *testing.T) {
		value, err := service.Issue(42)
		require.NoError(t, err)
		assert.Len(t, value, 64)

		userID, err := service.Validate(value)
		require.NoError(t, err)
		assert.Equal(t, uint(42), userID)
	})

	t.Run("issued tokens are unique", func(t *testing.T) {
		first, err := service.Issue(1)
		require.NoError(t, err)
		second, err := service.Issue(1)
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
	})

	t.Run("token row is persisted", func(t *testing.T) {
		value, err := service.Issue(7)
		require.NoError(t, err)

		var record Token
		err = db.Where("value = ?", value).First(&record).Error
		require.NoError(t, err)
		assert.Equal(t, uint(7), record.UserID)
		assert.WithinDuration(t, time.Now(), record.LastUsedAt, 5*time.Second)
	})
}

func TestService_Validate(t *testing.T) {
	cfg := getTestTokenConfig()
	db := testutils.SetupTestDB(t, &Token{})
	service := NewService(db, cfg, nil)

	t.Run("unknown token", func(t *testing.T) {
		userID, err := service.Validate("never-issued")
		assert.Zero(t, userID)
		testutils.AssertErrorType(t, ErrTokenInvalid, err)
	})

	t.Run("refreshes the sliding window", func(t *testing.T) {
		value, err := service.Issue(42)
		require.NoError(t, err)
		rewindLastUsed(t, db, value, 6*24*time.Hour)

		userID, err := service.Validate(value)
		require.NoError(t, err)
		assert.Equal(t, uint(42), userID)

		var record Token
		require.NoError(t, db.Where("value = ?", value).First(&record).Error)
		assert.WithinDuration(t, time.Now(), record.LastUsedAt, 5*time.Second)
	})

	t.Run("expired token is indistinguishable from unknown", func(t *testing.T) {
		value, err := service.Issue(42)
		require.NoError(t, err)
		rewindLastUsed(t, db, value, 7*24*time.Hour+time.Hour)

		userID, err := service.Validate(value)
		assert.Zero(t, userID)
		testutils.AssertErrorType(t, ErrTokenInvalid, err)
	})

	t.Run("expired token is not deleted on the read path", func(t *testing.T) {
		value, err := service.Issue(42)
		require.NoError(t, err)
		rewindLastUsed(t, db, value, 8*24*time.Hour)

		_, err = service.Validate(value)
		require.Error(t, err)

		var count int64
		require.NoError(t, db.Model(&Token{}).Where("value = ?", value).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("expired token is never resurrected by validate", func(t *testing.T) {
		value, err := service.Issue(42)
		require.NoError(t, err)
		rewindLastUsed(t, db, value, 8*24*time.Hour)

		_, err = service.Validate(value)
		require.Error(t, err)

		var record Token
		require.NoError(t, db.Where("value = ?", value).First(&record).Error)
		assert.True(t, record.LastUsedAt.Before(time.Now().Add(-7*24*time.Hour)))
	})

	t.Run("daily use keeps a token alive indefinitely", func(t *testing.T) {
		value, err := service.Issue(42)
		require.NoError(t, err)

		for day := 0; day < 10; day++ {
			rewindLastUsed(t, db, value, 24*time.Hour)

			userID, err := service.Validate(value)
			require.NoError(t, err)
			require.Equal(t, uint(42), userID)

			require.NoError(t, service.Sweep())
		}

		userID, err := service.Validate(value)
		require.NoError(t, err)
		assert.Equal(t, uint(42), userID)
	})
}

func TestService_Revoke(t *testing.T) {
	cfg := getTestTokenConfig()
	db := testutils.SetupTestDB(t, &Token{})
	service := NewService(db, cfg, nil)

	t.Run("revoked token no longer validates", func(t *testing.T) {
		value, err := service.Issue(42)
		require.NoError(t, err)

		require.NoError(t, service.Revoke(value))

		_, err = service.Validate(value)
		testutils.AssertErrorType(t, ErrTokenInvalid, err)
	})

	t.Run("revoking an absent token is a no-op", func(t *testing.T) {
		assert.NoError(t, service.Revoke("never-issued"))
	})

	t.Run("revoking one token leaves the user's others intact", func(t *testing.T) {
		first, err := service.Issue(42)
		require.NoError(t, err)
		second, err := service.Issue(42)
		require.NoError(t, err)

		require.NoError(t, service.Revoke(first))

		userID, err := service.Validate(second)
		require.NoError(t, err)
		assert.Equal(t, uint(42), userID)
	})
}

func TestService_RevokeAll(t *testing.T) {
	cfg := getTestTokenConfig()
	db := testutils.SetupTestDB(t, &Token{})
	service := NewService(db, cfg, nil)

	first, err := service.Issue(42)
	require.NoError(t, err)
	second, err := service.Issue(42)
	require.NoError(t, err)
	other, err := service.Issue(99)
	require.NoError(t, err)

	require.NoError(t, service.RevokeAll(42))

	_, err = service.Validate(first)
	testutils.AssertErrorType(t, ErrTokenInvalid, err)
	_, err = service.Validate(second)
	testutils.AssertErrorType(t, ErrTokenInvalid, err)

	userID, err := service.Validate(other)
	require.NoError(t, err)
	assert.Equal(t, uint(99), userID)
}

func TestService_Sweep(t *testing.T) {
	cfg := getTestTokenConfig()
	db := testutils.SetupTestDB(t, &Token{})
	service := NewService(db, cfg, nil)

	t.Run("removes exactly the stale tokens", func(t *testing.T) {
		stale, err := service.Issue(42)
		require.NoError(t, err)
		rewindLastUsed(t, db, stale, 8*24*time.Hour)

		recent, err := service.Issue(42)
		require.NoError(t, err)
		rewindLastUsed(t, db, recent, 6*24*time.Hour)

		fresh, err := service.Issue(99)
		require.NoError(t, err)

		require.NoError(t, service.Sweep())

		var values []string
		require.NoError(t, db.Model(&Token{}).Pluck("value", &values).Error)
		assert.NotContains(t, values, stale)
		assert.Contains(t, values, recent)
		assert.Contains(t, values, fresh)
	})

	t.Run("swept token no longer validates", func(t *testing.T) {
		value, err := service.Issue(42)
		require.NoError(t, err)
		rewindLastUsed(t, db, value, 8*24*time.Hour)

		require.NoError(t, service.Sweep())

		_, err = service.Validate(value)
		testutils.AssertErrorType(t, ErrTokenInvalid, err)
	})
}

func TestService_Sweeper(t *testing.T) {
	cfg := getTestTokenConfig()
	cfg.Token.SweepInterval = 10 * time.Millisecond
	db := testutils.SetupTestDB(t, &Token{})
	service := NewService(db, cfg, nil)

	value, err := service.Issue(42)
	require.NoError(t, err)
	rewindLastUsed(t, db, value, 8*24*time.Hour)

	service.StartSweeper()
	defer service.StopSweeper()

	assert.Eventually(t, func() bool {
		var count int64
		if err := db.Model(&Token{}).Where("value = ?", value).Count(&count).Error; err != nil {
			return false
		}
		return count == 0
	}, time.Second, 10*time.Millisecond)
}

func TestService_StopSweeperIsIdempotent(t *testing.T) {
	cfg := getTestTokenConfig()
	cfg.Token.SweepInterval = time.Hour
	db := testutils.SetupTestDB(t, &Token{})
	service := NewService(db, cfg, nil)

	service.StartSweeper()
	service.StopSweeper()
	service.StopSweeper()
}
