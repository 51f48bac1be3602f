package auth_test

import (
	"testing"
	"time"

	"github.com/opsarc/tenantd/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenGenerateAndValidate(t *testing.T) {
	tm := auth.NewTokenManager("test_secret", time.Hour)

	token, err := tm.Generate("9f0c2f14-7d2a-4a41-8d0e-25d61a7f2b10", "admin@acme.test", "Acme")
	require.NoError(t, err)

	claims, err := tm.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "9f0c2f14-7d2a-4a41-8d0e-25d61a7f2b10", claims.AdminID)
	assert.Equal(t, "admin@acme.test", claims.Email)
	assert.Equal(t, "Acme", claims.OrganizationName)
}

func TestTokenExpired(t *testing.T) {
	tm := auth.NewTokenManager("test_secret", time.Millisecond)

	token, err := tm.Generate("admin-id", "admin@acme.test", "Acme")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	_, err = tm.Validate(token)
	assert.Error(t, err)
}

func TestTokenTampered(t *testing.T) {
	tm := auth.NewTokenManager("test_secret", time.Hour)

	token, err := tm.Generate("admin-id", "admin@acme.test", "Acme")
	require.NoError(t, err)

	// Signed with a different secret
	other := auth.NewTokenManager("other_secret", time.Hour)
	_, err = other.Validate(token)
	assert.Error(t, err)

	_, err = tm.Validate(token + "x")
	assert.Error(t, err)

	_, err = tm.Validate("not.a.token")
	assert.Error(t, err)
}
