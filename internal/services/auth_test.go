package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/learnnow-backend/internal/data/repos/testutil"
)

func signToken(t *testing.T, key string, claims TokenClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return s
}

func TestSetContextFromToken(t *testing.T) {
	svc, err := NewAuthService(testutil.Logger(t), AuthConfig{SigningKey: "secret", Audience: "api://learnnow", Issuer: "https://issuer"})
	require.NoError(t, err)
	userID := uuid.New()
	valid := jwt.RegisteredClaims{
		Audience:  jwt.ClaimStrings{"api://learnnow"},
		Issuer:    "https://issuer",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}

	token := signToken(t, "secret", TokenClaims{ObjectID: userID.String(), RegisteredClaims: valid})
	ctx, err := svc.SetContextFromToken(context.Background(), token)
	require.NoError(t, err)
	caller, ok := CallerFromContext(ctx)
	require.True(t, ok)
	require.Equal(t, userID, caller.UserID)
	require.Equal(t, token, caller.Token)

	subOnly := valid
	subOnly.Subject = userID.String()
	ctx, err = svc.SetContextFromToken(context.Background(), signToken(t, "secret", TokenClaims{RegisteredClaims: subOnly}))
	require.NoError(t, err)
	caller, _ = CallerFromContext(ctx)
	require.Equal(t, userID, caller.UserID)

	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	wrongAud := valid
	wrongAud.Audience = jwt.ClaimStrings{"someone-else"}
	for name, tok := range map[string]string{
		"empty":       "",
		"bad key":     signToken(t, "other", TokenClaims{ObjectID: userID.String(), RegisteredClaims: valid}),
		"expired":     signToken(t, "secret", TokenClaims{ObjectID: userID.String(), RegisteredClaims: expired}),
		"audience":    signToken(t, "secret", TokenClaims{ObjectID: userID.String(), RegisteredClaims: wrongAud}),
		"non-uuid id": signToken(t, "secret", TokenClaims{ObjectID: "alice", RegisteredClaims: valid}),
	} {
		_, err := svc.SetContextFromToken(context.Background(), tok)
		require.Error(t, err, name)
	}

	_, ok = CallerFromContext(context.Background())
	require.False(t, ok)
}

func TestNewAuthServiceRequiresKey(t *testing.T) {
	_, err := NewAuthService(testutil.Logger(t), AuthConfig{})
	require.Error(t, err)
}
