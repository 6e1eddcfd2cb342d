package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"davrcash/internal/core/id"
)

func newTestUser() *User {
	u := NewUser("manager@davrcash.local", "hash")
	u.Roles = []string{"manager"}
	u.Permissions = []string{"reports:submit", "reports:read"}
	u.TerminalIDs = []string{id.New().String()}
	return u
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("test-secret"))
	user := newTestUser()

	token, expiresAt, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	uc, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), uc.UserID)
	assert.Equal(t, user.Email, uc.Email)
	assert.Equal(t, user.Roles, uc.Roles)
	assert.Equal(t, user.Permissions, uc.Permissions)
	assert.Equal(t, user.TerminalIDs, uc.TerminalIDs)
	assert.False(t, uc.IsAdmin)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, _, err := NewJWTService(DefaultJWTConfig("secret-a")).GenerateAccessToken(newTestUser())
	require.NoError(t, err)

	_, err = NewJWTService(DefaultJWTConfig("secret-b")).ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	cfg := DefaultJWTConfig("test-secret")
	cfg.AccessTokenTTL = -time.Minute
	svc := NewJWTService(cfg)

	token, _, err := svc.GenerateAccessToken(newTestUser())
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenGarbage(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("test-secret"))
	_, err := svc.ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("Sup3rSecret!")
	require.NoError(t, err)
	assert.NotEqual(t, "Sup3rSecret!", hash)

	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("Sup3rSecret!")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("wrong")))
}
