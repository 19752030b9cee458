package bot

import (
	"context"
	"time"

	"github.com/ArthurBash/telegramBot/adapter/out/telegram"

	"github.com/rs/zerolog"
)

// PollerConfig holds long-polling configuration.
type PollerConfig struct {
	PollTimeout time.Duration // server-side long-poll duration
	RetryDelay  time.Duration // backoff after a failed getUpdates call
}

// DefaultPollerConfig returns default polling configuration.
func DefaultPollerConfig() *PollerConfig {
	return &PollerConfig{
		PollTimeout: 30 * time.Second,
		RetryDelay:  5 * time.Second,
	}
}

// Poller runs the getUpdates loop and dispatches each update to the
// handler. Updates are processed sequentially so replies keep the
// order messages arrived in.
type Poller struct {
	client  *telegram.Client
	handler *Handler
	config  *PollerConfig
	log     zerolog.Logger

	offset int64
}

// NewPoller creates a new Poller.
func NewPoller(client *telegram.Client, handler *Handler, config *PollerConfig, log zerolog.Logger) *Poller {
	if config == nil {
		config = DefaultPollerConfig()
	}
	return &Poller{
		client:  client,
		handler: handler,
		config:  config,
		log:     log.With().Str("component", "telegram_poller").Logger(),
	}
}

// Run polls for updates until the context is cancelled. The bot token
// is verified up front via getMe.
func (p *Poller) Run(ctx context.Context) error {
	me, err := p.client.GetMe(ctx)
	if err != nil {
		return err
	}

	p.log.Info().
		Str("username", me.Username).
		Int64("bot_id", me.ID).
		Msg("starting poller")

	timeoutSeconds := int(p.config.PollTimeout / time.Second)

	for {
		select {
		case <-ctx.Done():
			p.log.Info().Msg("poller stopped")
			return ctx.Err()
		default:
		}

		updates, err := p.client.GetUpdates(ctx, p.offset, timeoutSeconds)
		if err != nil {
			if ctx.Err() != nil {
				p.log.Info().Msg("poller stopped")
				return ctx.Err()
			}
			p.log.Error().Err(err).Msg("error polling updates")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.config.RetryDelay):
			}
			continue
		}

		for _, update := range updates {
			p.offset = update.UpdateID + 1
			p.handler.HandleUpdate(ctx, update)
		}
	}
}
