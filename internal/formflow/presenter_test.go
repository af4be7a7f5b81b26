package formflow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPresent(t *testing.T) {
	base := Snapshot{ID: "a1", Form: "signin", SuccessRoute: "/dashboard", SuccessMessage: "Welcome back"}

	t.Run("idle", func(t *testing.T) {
		s := base
		s.Status = StatusIdle
		v := Present(s, nil)
		require.False(t, v.Busy)
		require.False(t, v.SubmitDisabled)
		require.Nil(t, v.Banner)
		require.Empty(t, v.Redirect)
		require.NotNil(t, v.Fields)
	})

	t.Run("in flight shows spinner", func(t *testing.T) {
		s := base
		s.Status = StatusInFlight
		v := Present(s, nil)
		require.True(t, v.Busy)
		require.True(t, v.SubmitDisabled)
		require.Nil(t, v.Banner)
	})

	t.Run("succeeded redirects", func(t *testing.T) {
		s := base
		s.Status = StatusSucceeded
		s.Result = "token"
		v := Present(s, nil)
		require.Equal(t, "/dashboard", v.Redirect)
		require.Equal(t, &Banner{Kind: BannerSuccess, Text: "Welcome back"}, v.Banner)
		require.Equal(t, "token", v.Result)
	})

	t.Run("failed shows collaborator message", func(t *testing.T) {
		s := base
		s.Status = StatusFailed
		s.ErrorMessage = "Invalid login credentials"
		v := Present(s, &CollaboratorError{Message: "Invalid login credentials"})
		require.Equal(t, &Banner{Kind: BannerError, Text: "Invalid login credentials"}, v.Banner)
		require.False(t, v.SubmitDisabled)
		require.Empty(t, v.Redirect)
	})

	t.Run("validation error keeps status", func(t *testing.T) {
		s := base
		s.Status = StatusIdle
		v := Present(s, &ValidationError{Field: "email", Reason: ReasonInvalidEmail})
		require.Equal(t, StatusIdle, v.Status)
		require.Equal(t, &Banner{Kind: BannerValidation, Text: "valid email required", Field: "email"}, v.Banner)
	})

	t.Run("lifecycle errors do not add a banner", func(t *testing.T) {
		s := base
		s.Status = StatusInFlight
		v := Present(s, ErrInFlight)
		require.Nil(t, v.Banner)
		require.Nil(t, Present(Snapshot{Status: StatusIdle}, errors.New("x")).Banner)
	})
}
