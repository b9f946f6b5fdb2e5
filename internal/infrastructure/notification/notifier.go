// Package notification delivers transfer notifications to account holders.
package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iho/fundledger/internal/domain"
	"github.com/iho/fundledger/internal/usecase"
)

// Sink names used in metrics.
const (
	SinkLog   = "log"
	SinkRedis = "redis"
)

// Recorder observes delivered notifications.
type Recorder interface {
	NotificationSent(sink string)
}

type nopRecorder struct{}

func (nopRecorder) NotificationSent(string) {}

// LogNotifier writes notifications to the log.
type LogNotifier struct {
	logger   zerolog.Logger
	recorder Recorder
}

// NewLogNotifier creates a new LogNotifier. recorder may be nil.
func NewLogNotifier(logger zerolog.Logger, recorder Recorder) *LogNotifier {
	if recorder == nil {
		recorder = nopRecorder{}
	}

	return &LogNotifier{
		logger:   logger.With().Str("component", "notifier").Logger(),
		recorder: recorder,
	}
}

// Notify logs the notification.
func (n *LogNotifier) Notify(ctx context.Context, notification domain.Notification) error {
	n.logger.Info().
		Str("notification_id", notification.ID).
		Str("account_id", notification.AccountID).
		Str("transfer_id", notification.TransferID).
		Msg(notification.Message)

	n.recorder.NotificationSent(SinkLog)

	return nil
}

// RedisNotifier publishes notifications as JSON on a Redis channel.
type RedisNotifier struct {
	client   redis.UniversalClient
	channel  string
	retrier  *Retrier
	recorder Recorder
}

// NewRedisNotifier creates a new RedisNotifier. retrier and recorder may be nil.
func NewRedisNotifier(client redis.UniversalClient, channel string, retrier *Retrier, recorder Recorder) *RedisNotifier {
	if recorder == nil {
		recorder = nopRecorder{}
	}

	return &RedisNotifier{
		client:   client,
		channel:  channel,
		retrier:  retrier,
		recorder: recorder,
	}
}

// Notify publishes the notification, retrying transient failures.
func (n *RedisNotifier) Notify(ctx context.Context, notification domain.Notification) error {
	payload, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	publish := func() error {
		return n.client.Publish(ctx, n.channel, payload).Err()
	}

	if n.retrier != nil {
		err = n.retrier.Retry(ctx, publish)
	} else {
		err = publish()
	}

	if err != nil {
		return fmt.Errorf("failed to publish notification for account %s: %w", notification.AccountID, err)
	}

	n.recorder.NotificationSent(SinkRedis)

	return nil
}

// Config selects and configures a notifier.
type Config struct {
	Kind            string // log, redis
	Channel         string
	MaxRetries      uint64
	InitialInterval time.Duration
}

// New builds the notifier named by cfg.Kind. client is required for redis.
func New(cfg Config, client redis.UniversalClient, recorder Recorder, logger zerolog.Logger) (usecase.Notifier, error) {
	switch cfg.Kind {
	case SinkLog, "":
		return NewLogNotifier(logger, recorder), nil
	case SinkRedis:
		if client == nil {
			return nil, fmt.Errorf("redis notifier requires a redis client")
		}

		retrier := NewRetrier(cfg.MaxRetries, cfg.InitialInterval, logger)

		return NewRedisNotifier(client, cfg.Channel, retrier, recorder), nil
	default:
		return nil, fmt.Errorf("unknown notifier %q", cfg.Kind)
	}
}
