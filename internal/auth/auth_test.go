package auth

import (
	"context"
	"testing"

	"swiftcart/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func testUser() *model.User {
	return &model.User{
		ID:    uuid.New(),
		Name:  "Ada Lovelace",
		Email: "ada@example.com",
		Role:  model.RoleUser,
	}
}

func TestGenerateAndParseToken(t *testing.T) {
	user := testUser()

	token, err := GenerateToken(testSecret, user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, model.RoleUser, claims.Role)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken(testSecret, testUser())
	require.NoError(t, err)

	claims, err := ParseToken("other-secret", token)
	assert.Equal(t, ErrInvalidToken, err)
	assert.Nil(t, claims)
}

func TestParseToken_Garbage(t *testing.T) {
	claims, err := ParseToken(testSecret, "not.a.token")
	assert.Equal(t, ErrInvalidToken, err)
	assert.Nil(t, claims)
}

func TestGenerateToken_MissingSecret(t *testing.T) {
	_, err := GenerateToken("", testUser())
	require.Error(t, err)
}

func TestIdentityContext(t *testing.T) {
	ctx := context.Background()

	_, ok := FromContext(ctx)
	assert.False(t, ok)

	id := Identity{UserID: uuid.New(), Role: model.RoleAdmin}
	ctx = WithIdentity(ctx, id)

	got, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, id, got)
	assert.True(t, got.Admin())
}
