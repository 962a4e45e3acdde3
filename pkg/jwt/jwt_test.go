package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/bookstore-api/pkg/errors"
)

func TestManager_GenerateAndParse(t *testing.T) {
	m := NewManager("test-secret", time.Hour, 24*time.Hour)

	pair, err := m.GenerateToken("user-1", "reader@example.com", "reader")
	require.NoError(t, err)
	assert.Equal(t, int64(3600), pair.ExpiresIn)

	t.Run("Access Token可以解析", func(t *testing.T) {
		claims, err := m.ParseToken(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID)
		assert.Equal(t, "reader", claims.Username)
		assert.InDelta(t, time.Hour.Seconds(), claims.RemainingTTL().Seconds(), 5)
	})

	t.Run("Refresh Token不能当作Access Token使用", func(t *testing.T) {
		_, err := m.ParseToken(pair.RefreshToken)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("刷新Access Token", func(t *testing.T) {
		token, err := m.RefreshAccessToken(pair.RefreshToken, "reader@example.com", "reader")
		require.NoError(t, err)

		claims, err := m.ParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID)
	})

	t.Run("密钥不同时校验失败", func(t *testing.T) {
		other := NewManager("other-secret", time.Hour, time.Hour)
		_, err := other.ParseToken(pair.AccessToken)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})
}

func TestManager_Expired(t *testing.T) {
	m := NewManager("test-secret", -time.Minute, time.Hour)

	pair, err := m.GenerateToken("user-1", "reader@example.com", "reader")
	require.NoError(t, err)

	_, err = m.ParseToken(pair.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}
