// Package bot shares public cards over Telegram.
package bot

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/sirupsen/logrus"

	"seulink/internal/viewer"
)

const (
	welcomeMessage = "Welcome to SeuLink! Send /card <username> to get someone's card, QR code and contact file."
	usageMessage   = "Usage: /card <username>"
	notFoundFormat = "Profile %q not found."
)

// Profiles resolves usernames to public profiles.
type Profiles interface {
	Lookup(ctx context.Context, username string) viewer.Lookup
}

// Handler holds dependencies for the Telegram bot handlers.
type Handler struct {
	bot      *tgbot.Bot
	profiles Profiles
	baseURL  string
	log      logrus.FieldLogger
}

// NewHandler creates the bot and registers its commands.
func NewHandler(token string, profiles Profiles, baseURL string, logger logrus.FieldLogger) (*Handler, error) {
	log := logger.WithField("component", "bot_handler")

	h := &Handler{profiles: profiles, baseURL: baseURL, log: log}

	b, err := tgbot.New(token, tgbot.WithDefaultHandler(h.defaultHandler))
	if err != nil {
		log.WithError(err).Error("Failed to create Telegram bot instance")
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	h.bot = b
	h.registerHandlers()

	log.Info("Telegram bot handler initialized")
	return h, nil
}

func (h *Handler) registerHandlers() {
	h.bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/start", tgbot.MatchTypeExact, h.startHandler)
	h.bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/card", tgbot.MatchTypePrefix, h.cardHandler)
}

// Start polls for updates until ctx is cancelled.
func (h *Handler) Start(ctx context.Context) {
	h.log.Info("Starting Telegram bot polling")
	h.bot.Start(ctx)
	h.log.Info("Telegram bot polling stopped")
}

func (h *Handler) startHandler(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	h.reply(ctx, b, update, welcomeMessage)
}

func (h *Handler) defaultHandler(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.reply(ctx, b, update, usageMessage)
}

func (h *Handler) cardHandler(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	username, ok := parseCardCommand(update.Message.Text)
	if !ok {
		h.reply(ctx, b, update, usageMessage)
		return
	}
	log := h.log.WithFields(logrus.Fields{
		"chat_id":  update.Message.Chat.ID,
		"username": username,
	})

	c, err := h.card(ctx, username)
	if err != nil {
		log.WithError(err).Warn("Card request failed")
		h.reply(ctx, b, update, err.Error())
		return
	}

	chatID := update.Message.Chat.ID
	if _, err := b.SendMessage(ctx, &tgbot.SendMessageParams{ChatID: chatID, Text: c.summary}); err != nil {
		log.WithError(err).Error("Failed to send card summary")
		return
	}
	if _, err := b.SendPhoto(ctx, &tgbot.SendPhotoParams{
		ChatID:  chatID,
		Photo:   &models.InputFileUpload{Filename: "qr.png", Data: bytes.NewReader(c.qr)},
		Caption: c.url,
	}); err != nil {
		log.WithError(err).Error("Failed to send QR code")
	}
	if _, err := b.SendDocument(ctx, &tgbot.SendDocumentParams{
		ChatID:   chatID,
		Document: &models.InputFileUpload{Filename: c.filename, Data: bytes.NewReader(c.vcf)},
	}); err != nil {
		log.WithError(err).Error("Failed to send contact card")
	}
	log.Info("Card shared")
}

func (h *Handler) reply(ctx context.Context, b *tgbot.Bot, update *models.Update, text string) {
	if _, err := b.SendMessage(ctx, &tgbot.SendMessageParams{ChatID: update.Message.Chat.ID, Text: text}); err != nil {
		h.log.WithError(err).Error("Failed to send message")
	}
}

// parseCardCommand extracts the username from "/card <username>".
func parseCardCommand(text string) (string, bool) {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return "", false
	}
	cmd, _, _ := strings.Cut(fields[0], "@")
	if cmd != "/card" {
		return "", false
	}
	username := strings.TrimPrefix(fields[1], "@")
	return username, username != ""
}

type cardReply struct {
	summary  string
	url      string
	qr       []byte
	vcf      []byte
	filename string
}

func (h *Handler) card(ctx context.Context, username string) (cardReply, error) {
	res := h.profiles.Lookup(ctx, username)
	if !res.OK() {
		return cardReply{}, fmt.Errorf(notFoundFormat, username)
	}
	p := res.Profile
	url := viewer.PublicURL(h.baseURL, p.Username)

	qr, err := viewer.QRCode(url, viewer.DefaultQRSize)
	if err != nil {
		return cardReply{}, err
	}
	vcf, err := viewer.VCard(p, url)
	if err != nil {
		return cardReply{}, err
	}

	card := viewer.NewCard(p)
	var sb strings.Builder
	sb.WriteString(card.DisplayName())
	if !card.BioIsDefault {
		sb.WriteString("\n" + card.Bio)
	}
	for _, l := range card.Links {
		fmt.Fprintf(&sb, "\n• %s: %s", l.Title, l.URL)
	}
	sb.WriteString("\n" + url)

	return cardReply{
		summary:  sb.String(),
		url:      url,
		qr:       qr,
		vcf:      vcf,
		filename: viewer.VCardFilename(p),
	}, nil
}
