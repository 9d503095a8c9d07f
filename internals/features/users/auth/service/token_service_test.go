package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sertifikatku_backend/internals/configs"
	"sertifikatku_backend/internals/constants"
	userModel "sertifikatku_backend/internals/features/users/user/model"
)

func withJWTSecret(t *testing.T, secret string) {
	t.Helper()
	old := configs.JWTSecret
	configs.JWTSecret = secret
	t.Cleanup(func() { configs.JWTSecret = old })
}

func TestGenerateAccessTokenRoundTrip(t *testing.T) {
	withJWTSecret(t, "rahasia-test")

	user := &userModel.UserModel{
		ID:       uuid.New(),
		UserName: "issuer1",
		Role:     constants.RoleIssuer,
	}

	signed, err := GenerateAccessToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(signed, claims, func(tok *jwt.Token) (interface{}, error) {
		assert.Equal(t, jwt.SigningMethodHS256, tok.Method)
		return []byte("rahasia-test"), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	assert.Equal(t, user.ID.String(), claims["user_id"])
	assert.Equal(t, "issuer1", claims["user_name"])
	assert.Equal(t, constants.RoleIssuer, claims["role"])

	iat, ok := claims["iat"].(float64)
	require.True(t, ok)
	exp, ok := claims["exp"].(float64)
	require.True(t, ok)
	assert.InDelta(t, 24*time.Hour.Seconds(), exp-iat, 1)
}

func TestGenerateAccessTokenRejectsWrongSecret(t *testing.T) {
	withJWTSecret(t, "rahasia-test")

	signed, err := GenerateAccessToken(&userModel.UserModel{
		ID:       uuid.New(),
		UserName: "student1",
		Role:     constants.RoleStudent,
	})
	require.NoError(t, err)

	_, err = jwt.Parse(signed, func(tok *jwt.Token) (interface{}, error) {
		return []byte("rahasia-lain"), nil
	})
	assert.Error(t, err)
}

func TestGenerateAccessTokenRequiresSecret(t *testing.T) {
	withJWTSecret(t, "")

	_, err := GenerateAccessToken(&userModel.UserModel{ID: uuid.New()})
	require.Error(t, err)
}
