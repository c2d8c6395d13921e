package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"seulink/internal/bot"
	"seulink/internal/server"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server, and the Telegram bot when a token is set",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), *configPath)
		},
	}
}

func runServe(parent context.Context, configPath string) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, configPath)
	if err != nil {
		return err
	}
	defer a.close()

	srv, err := server.New(server.Deps{
		Client:  a.client,
		Editor:  a.editor,
		Drafts:  a.drafts,
		Viewer:  a.viewer,
		Scraper: a.scraper,
		BaseURL: a.cfg.PublicBaseURL,
	}, a.log)
	if err != nil {
		return err
	}

	if a.cfg.TelegramBotToken != "" {
		h, err := bot.NewHandler(a.cfg.TelegramBotToken, a.viewer, a.baseURL(), a.log)
		if err != nil {
			a.log.WithError(err).Error("Telegram bot disabled")
		} else {
			go h.Start(ctx)
		}
	}

	a.log.Info("SeuLink is running. Press Ctrl+C to exit.")
	if err := srv.Run(ctx, a.cfg.HTTPAddr); err != nil {
		return err
	}
	a.log.Info("SeuLink shut down gracefully.")
	return nil
}
