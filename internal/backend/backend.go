// Package backend picks the persistence client for the process.
package backend

import (
	"crypto/rand"
	"fmt"

	"github.com/sirupsen/logrus"

	"seulink/internal/authstate"
	"seulink/internal/config"
	"seulink/internal/storage"
	"seulink/internal/store"
	"seulink/internal/supabase"
)

// IsConfigured reports whether url and key point at a real Supabase project.
func IsConfigured(url, key string) bool {
	return config.Config{SupabaseURL: url, SupabaseAnonKey: key}.SupabaseConfigured()
}

// New returns the Supabase client when cfg configures one, otherwise the
// local mock engine. Auth calls on the returned client publish to broker.
func New(cfg config.Config, broker *authstate.Broker, logger logrus.FieldLogger) (store.Client, error) {
	var (
		client store.Client
		err    error
	)
	if IsConfigured(cfg.SupabaseURL, cfg.SupabaseAnonKey) {
		client, err = supabase.New(cfg.SupabaseURL, cfg.SupabaseAnonKey, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create supabase client: %w", err)
		}
		logger.WithField("url", cfg.SupabaseURL).Info("Using Supabase backend")
	} else {
		client, err = newMock(cfg, logger)
		if err != nil {
			return nil, err
		}
		logger.WithField("badgerdb_path", cfg.BadgerDBPath).
			Warn("Supabase URL missing or default. Using local mock backend; data stays on this machine.")
	}
	return &observed{Client: client, auth: authstate.Observe(client.Auth(), broker)}, nil
}

func newMock(cfg config.Config, logger logrus.FieldLogger) (store.Client, error) {
	secret := []byte(cfg.SessionSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("failed to generate session secret: %w", err)
		}
		logger.Warn("SESSION_SECRET not set; sessions will not survive a restart")
	}
	engine, err := storage.Open(cfg.BadgerDBPath, logger)
	if err != nil {
		return nil, err
	}
	return storage.NewMockClient(engine, secret), nil
}

type observed struct {
	store.Client
	auth store.Auth
}

func (o *observed) Auth() store.Auth { return o.auth }
