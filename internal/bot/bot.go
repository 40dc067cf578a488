// Package bot is the Telegram frontend: it answers shared locations with
// the nearest fuel prices and EV chargers.
package bot

import (
	"context"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"myfuel/internal/geo"
	"myfuel/internal/nearby"
)

// botLimit keeps chat replies short: only the three closest of each kind.
const botLimit = 3

// Querier is the aggregation operation the bot depends on.
type Querier interface {
	Query(ctx context.Context, point geo.Coordinate, limit int) (*nearby.Envelope, error)
}

// Bot runs the Telegram long-polling loop.
type Bot struct {
	api *tgbotapi.BotAPI
	agg Querier
	log *slog.Logger
}

// New authenticates against the Telegram API.
func New(token string, agg Querier, logger *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Bot{api: api, agg: agg, log: logger}, nil
}

// Run polls for updates until the context is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	b.log.Info("bot started", "username", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update := <-updates:
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	switch {
	case msg.IsCommand() && msg.Command() == "start":
		b.handleStart(msg)
	case msg.Location != nil:
		b.handleLocation(ctx, msg)
	case msg.Text != "" && !msg.IsCommand():
		b.reply(msg.Chat.ID, "Envíame tu ubicación para ver los precios detallados de combustible y cargadores.")
	}
}

func (b *Bot) handleStart(msg *tgbotapi.Message) {
	username := msg.From.FirstName
	if msg.From.UserName != "" {
		username = msg.From.UserName
	}

	reply := tgbotapi.NewMessage(msg.Chat.ID,
		"¡Hola, "+username+"! Pulsa el botón de abajo para enviarme tu ubicación y te daré los precios de gasolina y cargadores en tiempo real.")
	reply.ReplyMarkup = tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButtonLocation("📍 Enviar mi ubicación"),
		),
	)
	if _, err := b.api.Send(reply); err != nil {
		b.log.Warn("error sending start reply", "error", err)
	}
}

func (b *Bot) handleLocation(ctx context.Context, msg *tgbotapi.Message) {
	b.reply(msg.Chat.ID, "Consultando todos los precios y cargadores oficiales...")

	point := geo.Coordinate{Lat: msg.Location.Latitude, Lon: msg.Location.Longitude}
	env, err := b.agg.Query(ctx, point, botLimit)
	if err != nil {
		b.log.Error("bot query failed", "error", err)
		b.reply(msg.Chat.ID, "Lo siento, hubo un error al consultar los datos.")
		return
	}

	reply := tgbotapi.NewMessage(msg.Chat.ID, FormatEnvelope(env))
	reply.ParseMode = tgbotapi.ModeHTML
	reply.DisableWebPagePreview = true
	if _, err := b.api.Send(reply); err != nil {
		b.log.Warn("error sending results", "error", err)
	}
}

func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.log.Warn("error sending message", "error", err)
	}
}
