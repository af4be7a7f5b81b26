package services

import (
	"context"
	"testing"
	"time"

	"github.com/justsurfingit/jobs-in-germany/internal/auth"
	"github.com/justsurfingit/jobs-in-germany/internal/logging"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) (*AuthService, *auth.TokenIssuer) {
	t.Helper()
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	return NewAuthService(newTestDB(t), tokens, logging.Discard()), tokens
}

func TestAuthService_SignIn(t *testing.T) {
	s, tokens := newAuthService(t)
	ctx := context.Background()

	user, err := s.CreateUser(ctx, " Anna@Example.com ", "correct horse", "Anna", "candidate")
	require.NoError(t, err)
	require.Equal(t, "anna@example.com", user.Email)
	require.NotEqual(t, "correct horse", user.PasswordHash)

	sess, err := s.SignIn(ctx, "ANNA@example.com", "correct horse")
	require.NoError(t, err)
	require.Equal(t, user.ID, sess.User.ID)
	require.Equal(t, "candidate", sess.User.Role)
	claims, err := tokens.Validate(sess.Token)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
	require.Equal(t, "anna@example.com", claims.Email)

	_, err = s.SignIn(ctx, "anna@example.com", "wrong horse")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = s.SignIn(ctx, "nobody@example.com", "correct horse")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Register(t *testing.T) {
	s, _ := newAuthService(t)
	ctx := context.Background()

	sess, err := s.Register(ctx, "omar@example.com", "secret123", "Omar")
	require.NoError(t, err)
	require.NotEmpty(t, sess.Token)
	require.Equal(t, "candidate", sess.User.Role)

	_, err = s.Register(ctx, "OMAR@example.com", "other", "Omar Again")
	require.ErrorIs(t, err, ErrEmailTaken)

	me, err := s.Me(ctx, sess.User.ID)
	require.NoError(t, err)
	require.Equal(t, "omar@example.com", me.Email)
	require.Equal(t, "Omar", me.Name)

	_, err = s.Me(ctx, sess.User.ID+100)
	require.ErrorIs(t, err, ErrUserNotFound)
}
