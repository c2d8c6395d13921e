package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"seulink/internal/authstate"
	"seulink/internal/backend"
	"seulink/internal/cache"
	"seulink/internal/config"
	"seulink/internal/editor"
	"seulink/internal/logging"
	"seulink/internal/scraper"
	"seulink/internal/store"
	"seulink/internal/viewer"
)

// app holds the process-wide components shared by every command.
type app struct {
	cfg     config.Config
	log     *logrus.Logger
	broker  *authstate.Broker
	client  store.Client
	cache   *cache.ProfileCache
	editor  *editor.Service
	drafts  *editor.Drafts
	viewer  *viewer.Service
	scraper scraper.Scraper
	closers []func() error
}

func newApp(ctx context.Context, configPath string) (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("error loading configuration: %w", err)
	}

	log, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	log.WithFields(logrus.Fields{
		"http_addr":       cfg.HTTPAddr,
		"supabase":        backend.IsConfigured(cfg.SupabaseURL, cfg.SupabaseAnonKey),
		"redis":           cfg.RedisAddr != "",
		"scraper_enabled": cfg.ScraperEnabled,
	}).Info("Configuration loaded successfully")

	a := &app{cfg: cfg, log: log, broker: authstate.NewBroker()}
	a.broker.Subscribe(func(ev authstate.Event) {
		log.WithFields(logrus.Fields{
			"event":   ev.Kind,
			"user_id": ev.Account.ID,
		}).Info("Auth state changed")
	})

	a.client, err = backend.New(cfg, a.broker, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize backend: %w", err)
	}
	a.closers = append(a.closers, a.client.Close)

	var invalidator editor.Invalidator
	var profileCache viewer.Cache
	if cfg.RedisAddr != "" {
		r, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.WithError(err).Warn("Redis unavailable; public profiles will not be cached")
		} else {
			a.cache = cache.NewProfileCache(r, cache.DefaultTTL)
			a.closers = append(a.closers, r.Close)
			invalidator, profileCache = a.cache, a.cache
		}
	}

	a.editor = editor.NewService(a.client, invalidator, log)
	a.drafts = editor.NewDrafts(a.editor)
	a.drafts.Watch(a.broker)
	a.viewer = viewer.NewService(a.client, profileCache, log)

	a.scraper = scraper.Disabled{}
	if cfg.ScraperEnabled {
		if scraper.Available() {
			a.scraper = scraper.NewRodScraper(log)
		} else {
			log.Warn("SCRAPER_ENABLED is set but no browser was found; link previews stay disabled")
		}
	}
	return a, nil
}

// baseURL is the configured public address, or a local one for the CLI exports.
func (a *app) baseURL() string {
	if a.cfg.PublicBaseURL != "" {
		return a.cfg.PublicBaseURL
	}
	return "http://localhost" + a.cfg.HTTPAddr
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.WithError(err).Error("Error during shutdown")
		}
	}
}
