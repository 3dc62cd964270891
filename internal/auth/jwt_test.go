package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGenerateValidateRoundtrip(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour, "gatherhub")

	token, err := manager.Generate("admin", RoleAdmin)
	require.NoError(t, err)

	claims, err := manager.Validate(token)
	require.NoError(t, err)
	require.Equal(t, "admin", claims.Subject)
	require.Equal(t, RoleAdmin, claims.Role)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour, "gatherhub")
	other := NewJWTManager("other-secret", time.Hour, "gatherhub")

	token, err := manager.Generate("admin", RoleAdmin)
	require.NoError(t, err)

	_, err = other.Validate(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpired(t *testing.T) {
	manager := NewJWTManager("test-secret", -time.Minute, "gatherhub")

	token, err := manager.Generate("admin", RoleAdmin)
	require.NoError(t, err)

	_, err = manager.Validate(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsWrongIssuer(t *testing.T) {
	minter := NewJWTManager("test-secret", time.Hour, "someone-else")
	manager := NewJWTManager("test-secret", time.Hour, "gatherhub")

	token, err := minter.Generate("admin", RoleAdmin)
	require.NoError(t, err)

	_, err = manager.Validate(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestGenerateRequiresSubjectAndRole(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour, "gatherhub")

	_, err := manager.Generate("", RoleAdmin)
	require.Error(t, err)
	_, err = manager.Generate("admin", "")
	require.Error(t, err)
}

func TestTokenFromHeader(t *testing.T) {
	token, err := TokenFromHeader("Bearer abc.def.ghi")
	require.NoError(t, err)
	require.Equal(t, "abc.def.ghi", token)

	token, err = TokenFromHeader("bearer abc.def.ghi")
	require.NoError(t, err)
	require.Equal(t, "abc.def.ghi", token)

	_, err = TokenFromHeader("")
	require.ErrorIs(t, err, ErrMissingToken)
	_, err = TokenFromHeader("Basic abc")
	require.ErrorIs(t, err, ErrMissingToken)
}
