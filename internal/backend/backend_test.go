package backend

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seulink/internal/authstate"
	"seulink/internal/config"
	"seulink/internal/store"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestNew_MockWhenUnconfigured(t *testing.T) {
	for _, cfg := range []config.Config{
		{},
		{SupabaseURL: config.PlaceholderSupabaseURL, SupabaseAnonKey: "key"},
		{SupabaseURL: "https://abc.supabase.co"},
	} {
		cfg.BadgerDBPath = t.TempDir()
		client, err := New(cfg, authstate.NewBroker(), quietLogger())
		require.NoError(t, err)
		assert.Equal(t, store.ModeMock, client.Mode())
		require.NoError(t, client.Close())
	}
}

func TestNew_RemoteWhenConfigured(t *testing.T) {
	cfg := config.Config{SupabaseURL: "https://abc.supabase.co", SupabaseAnonKey: "key"}

	client, err := New(cfg, authstate.NewBroker(), quietLogger())
	require.NoError(t, err)
	defer client.Close()
	assert.Equal(t, store.ModeRemote, client.Mode())
}

func TestNew_AuthPublishesEvents(t *testing.T) {
	broker := authstate.NewBroker()
	var kinds []authstate.Kind
	broker.Subscribe(func(ev authstate.Event) { kinds = append(kinds, ev.Kind) })

	client, err := New(config.Config{BadgerDBPath: t.TempDir(), SessionSecret: "s"}, broker, quietLogger())
	require.NoError(t, err)
	defer client.Close()

	session, err := client.Auth().SignIn(context.Background(), "ana@example.com", "")
	require.NoError(t, err)
	require.NoError(t, client.Auth().SignOut(context.Background(), session.AccessToken))

	assert.Equal(t, []authstate.Kind{authstate.SignedIn, authstate.SignedOut}, kinds)
}

func TestIsConfigured(t *testing.T) {
	assert.True(t, IsConfigured("https://abc.supabase.co", "key"))
	assert.False(t, IsConfigured("https://abc.supabase.co", ""))
	assert.False(t, IsConfigured("", "key"))
	assert.False(t, IsConfigured(config.PlaceholderSupabaseURL, "key"))
}
