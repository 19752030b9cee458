package bootstrap

import (
	"context"
	"errors"
	"os"

	"github.com/ArthurBash/telegramBot/adapter/in/bot"
	"github.com/ArthurBash/telegramBot/config"
	"github.com/ArthurBash/telegramBot/pkg/logger"

	"github.com/rs/zerolog"
)

// Bot runs the Telegram long-polling process.
type Bot struct {
	poller *bot.Poller
	deps   *Dependencies
	ctx    context.Context
	cancel context.CancelFunc
	zlog   zerolog.Logger
}

// NewBot builds the polling bot.
func NewBot(cfg *config.Config) (*Bot, func(), error) {
	deps, cleanup, err := NewDependencies(cfg)
	if err != nil {
		return nil, nil, err
	}

	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
		With().Timestamp().Str("component", "bot").Logger()

	handler := bot.NewHandler(
		deps.TelegramClient,
		deps.CategoryService,
		deps.MessageService,
		logger.Default(),
	)

	poller := bot.NewPoller(deps.TelegramClient, handler, &bot.PollerConfig{
		PollTimeout: cfg.PollTimeout,
		RetryDelay:  cfg.PollRetryDelay,
	}, zlog)

	ctx, cancel := context.WithCancel(context.Background())

	return &Bot{
		poller: poller,
		deps:   deps,
		ctx:    ctx,
		cancel: cancel,
		zlog:   zlog,
	}, cleanup, nil
}

// Start runs the polling loop until Stop is called.
func (b *Bot) Start() error {
	err := b.poller.Run(b.ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Stop cancels the polling loop.
func (b *Bot) Stop() {
	b.cancel()
}
