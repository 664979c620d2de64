package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_RoundTrip(t *testing.T) {
	s := NewJWTService("secret", time.Hour)

	token, err := s.GenerateToken("tg_42", true)
	require.NoError(t, err)

	claims, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "tg_42", claims.UserID)
	assert.True(t, claims.IsAdmin)
}

func TestJWTService_WrongSecret(t *testing.T) {
	token, err := NewJWTService("one", time.Hour).GenerateToken("tg_1", false)
	require.NoError(t, err)

	_, err = NewJWTService("two", time.Hour).ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_Expired(t *testing.T) {
	s := NewJWTService("secret", time.Minute)
	s.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := s.GenerateToken("tg_1", false)
	require.NoError(t, err)

	s.now = time.Now
	_, err = s.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_Garbage(t *testing.T) {
	_, err := NewJWTService("secret", time.Hour).ValidateToken("not-a-token")
	assert.Error(t, err)
}
