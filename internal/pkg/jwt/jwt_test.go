package jwt

import (
	"context"
	"testing"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/user"
)

func TestGenerateAccessToken_RoundTripsActor(t *testing.T) {
	svc := NewJWTService("test-secret-key-for-jwt", "1h")
	actor := user.Actor{UserID: "user-1", EmployeeID: "emp-1", CompanyID: "company-1", Role: user.RoleManager}

	tokenString, expiresAt, err := svc.GenerateAccessToken(actor)
	require.NoError(t, err)
	assert.NotZero(t, expiresAt)

	token, err := jwtauth.VerifyToken(svc.JWTAuth(), tokenString)
	require.NoError(t, err)

	ctx := jwtauth.NewContext(context.Background(), token, nil)
	got, err := ActorFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, actor, got)
}

func TestActorFromContext_WithoutToken(t *testing.T) {
	_, err := ActorFromContext(context.Background())
	assert.ErrorIs(t, err, user.ErrInvalidToken)
}

func TestGenerateAccessToken_InvalidDuration(t *testing.T) {
	svc := NewJWTService("secret", "forever")
	_, _, err := svc.GenerateAccessToken(user.Actor{UserID: "user-1"})
	assert.Error(t, err)
}
