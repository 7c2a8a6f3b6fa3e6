package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Phirakan/go-inventory/models"
)

func TestGeneratePairAndValidate(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour, 24*time.Hour)

	pair, err := m.GeneratePair(42, models.RoleAdmin)
	require.NoError(t, err)

	claims, err := m.Validate(pair.AccessToken, AccessToken)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.NotEmpty(t, claims.ID)

	refresh, err := m.Validate(pair.RefreshToken, RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, claims.ID, refresh.ID)
}

func TestValidateRejectsWrongType(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour, 24*time.Hour)
	pair, err := m.GeneratePair(1, models.RoleStaff)
	require.NoError(t, err)

	_, err = m.Validate(pair.RefreshToken, AccessToken)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestValidateExpired(t *testing.T) {
	m := NewTokenManager("test-secret", time.Minute, time.Hour)
	issued := time.Now().Add(-2 * time.Hour)
	m.now = func() time.Time { return issued }
	token, err := m.Generate(1, models.RoleStaff, AccessToken)
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Validate(token, AccessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateWrongSecret(t *testing.T) {
	token, err := NewTokenManager("one", time.Hour, time.Hour).Generate(1, models.RoleStaff, AccessToken)
	require.NoError(t, err)

	_, err = NewTokenManager("two", time.Hour, time.Hour).Validate(token, AccessToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = NewTokenManager("two", time.Hour, time.Hour).Validate("not-a-token", AccessToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("admin123", 4)
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, "admin123"))
	assert.False(t, CheckPassword(hash, "admin124"))
	assert.False(t, CheckPassword("not-a-hash", "admin123"))
}
