package formflow

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testRegistry() *Registry {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}))
	r := NewRegistry(logger)
	r.Register(
		&Form{Name: "signin", Submit: func(context.Context, Fields) (any, error) { return nil, nil }},
		&Form{Name: "resume", Protected: true},
	)
	return r
}

func TestRegistry_MountGetUnmount(t *testing.T) {
	r := testRegistry()

	a, err := r.Mount("signin", "")
	require.NoError(t, err)
	require.NotEmpty(t, a.ID)
	require.Equal(t, StatusIdle, a.Status())

	got, err := r.Get(a.ID)
	require.NoError(t, err)
	require.Same(t, a, got)

	b, err := r.Mount("signin", "")
	require.NoError(t, err)
	require.NotEqual(t, a.ID, b.ID, "each mount is a separate instance")
	require.Equal(t, 2, r.Len())

	require.True(t, r.Unmount(a.ID))
	require.False(t, r.Unmount(a.ID))
	_, err = r.Get(a.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRegistry_UnknownForm(t *testing.T) {
	_, err := testRegistry().Mount("newsletter", "")
	require.ErrorIs(t, err, ErrUnknownForm)
}

func TestRegistry_Forms(t *testing.T) {
	forms := testRegistry().Forms()
	require.Len(t, forms, 2)
	require.Equal(t, "resume", forms[0].Name)
	require.Equal(t, "signin", forms[1].Name)
}

func TestRegistry_Sweep(t *testing.T) {
	r := testRegistry()
	idle, _ := r.Mount("signin", "")
	done, _ := r.Mount("signin", "")
	require.NoError(t, done.SetAll(Fields{"email": Text("user@example.com")}))
	_, err := done.Submit(context.Background())
	require.NoError(t, err)

	now := time.Now()
	require.Zero(t, r.Sweep(now, time.Hour, time.Minute))

	require.Equal(t, 1, r.Sweep(now.Add(2*time.Minute), time.Hour, time.Minute))
	_, err = r.Get(done.ID)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = r.Get(idle.ID)
	require.NoError(t, err)

	require.Equal(t, 1, r.Sweep(now.Add(2*time.Hour), time.Hour, time.Minute))
	require.Zero(t, r.Len())
}

func TestRegistry_SweepSkipsInFlight(t *testing.T) {
	r := testRegistry()
	started := make(chan struct{})
	release := make(chan struct{})
	r.Register(&Form{Name: "slow", Submit: func(context.Context, Fields) (any, error) {
		close(started)
		<-release
		return nil, nil
	}})
	a, _ := r.Mount("slow", "")
	errc := make(chan error, 1)
	go func() {
		_, err := a.Submit(context.Background())
		errc <- err
	}()
	<-started

	require.Zero(t, r.Sweep(time.Now().Add(24*time.Hour), time.Hour, time.Minute))
	close(release)
	require.NoError(t, <-errc)
}
