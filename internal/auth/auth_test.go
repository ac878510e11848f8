package auth

import (
	"testing"
	"time"

	"docvault/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	user := &model.User{ID: "user-1", Email: "e1@example.com", Role: model.RoleEditor}

	token, err := GenerateToken(user, secret, time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "e1@example.com", claims.Email)
	assert.Equal(t, model.RoleEditor, claims.Role)
}

func TestParseToken_WrongSecret(t *testing.T) {
	user := &model.User{ID: "user-1", Role: model.RoleViewer}

	token, err := GenerateToken(user, []byte("right"), time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, []byte("wrong"))
	assert.Error(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	secret := []byte("test-secret")
	user := &model.User{ID: "user-1", Role: model.RoleViewer}

	token, err := GenerateToken(user, secret, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, secret)
	assert.Error(t, err)
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := ParseToken("not-a-token", []byte("secret"))
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.True(t, CheckPassword(hash, "s3cret"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
