package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/fundledger/internal/domain"
)

type countingRecorder struct {
	mu    sync.Mutex
	sinks map[string]int
}

func (r *countingRecorder) NotificationSent(sink string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sinks == nil {
		r.sinks = map[string]int{}
	}
	r.sinks[sink]++
}

func (r *countingRecorder) count(sink string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.sinks[sink]
}

func sampleNotification() domain.Notification {
	amount := decimal.RequireFromString("10.00")

	return domain.Notification{
		ID:         "n-1",
		AccountID:  "ID-B",
		TransferID: "tx-1",
		Amount:     amount,
		Message:    domain.ReceivedMessage(amount, "ID-A"),
		CreatedAt:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return s, client
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	recorder := &countingRecorder{}

	n := NewLogNotifier(zerolog.New(&buf), recorder)
	require.NoError(t, n.Notify(context.Background(), sampleNotification()))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "An amount of 10.00 received from Account ID-A", entry["message"])
	assert.Equal(t, "ID-B", entry["account_id"])
	assert.Equal(t, "tx-1", entry["transfer_id"])
	assert.Equal(t, 1, recorder.count(SinkLog))
}

func TestRedisNotifier_Publishes(t *testing.T) {
	_, client := setupRedis(t)
	ctx := context.Background()

	sub := client.Subscribe(ctx, "notifications")
	t.Cleanup(func() { _ = sub.Close() })

	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	recorder := &countingRecorder{}
	n := NewRedisNotifier(client, "notifications", nil, recorder)
	require.NoError(t, n.Notify(ctx, sampleNotification()))

	select {
	case msg := <-sub.Channel():
		var got domain.Notification
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		assert.Equal(t, "ID-B", got.AccountID)
		assert.Equal(t, "An amount of 10.00 received from Account ID-A", got.Message)
		assert.True(t, got.Amount.Equal(decimal.RequireFromString("10")))
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not published")
	}

	assert.Equal(t, 1, recorder.count(SinkRedis))
}

func TestRedisNotifier_FailsWhenRedisDown(t *testing.T) {
	s, client := setupRedis(t)
	s.Close()

	recorder := &countingRecorder{}
	retrier := NewRetrier(2, time.Millisecond, zerolog.Nop())
	n := NewRedisNotifier(client, "notifications", retrier, recorder)

	err := n.Notify(context.Background(), sampleNotification())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ID-B")
	assert.Zero(t, recorder.count(SinkRedis))
}

func TestRetrier(t *testing.T) {
	t.Run("succeeds after transient failures", func(t *testing.T) {
		r := NewRetrier(3, time.Millisecond, zerolog.Nop())

		calls := 0
		err := r.Retry(context.Background(), func() error {
			calls++
			if calls < 3 {
				return errors.New("connection reset")
			}
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		r := NewRetrier(2, time.Millisecond, zerolog.Nop())
		boom := errors.New("connection refused")

		calls := 0
		err := r.Retry(context.Background(), func() error {
			calls++
			return boom
		})

		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 3, calls)
	})

	t.Run("does not retry cancellation", func(t *testing.T) {
		r := NewRetrier(5, time.Millisecond, zerolog.Nop())

		calls := 0
		err := r.Retry(context.Background(), func() error {
			calls++
			return context.Canceled
		})

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}

func TestNew(t *testing.T) {
	_, client := setupRedis(t)

	tests := []struct {
		name    string
		cfg     Config
		client  redis.UniversalClient
		want    any
		wantErr bool
	}{
		{name: "default is log", cfg: Config{}, want: &LogNotifier{}},
		{name: "log", cfg: Config{Kind: SinkLog}, want: &LogNotifier{}},
		{name: "redis", cfg: Config{Kind: SinkRedis, Channel: "c", MaxRetries: 1}, client: client, want: &RedisNotifier{}},
		{name: "redis without client", cfg: Config{Kind: SinkRedis}, wantErr: true},
		{name: "unknown", cfg: Config{Kind: "smtp"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := New(tt.cfg, tt.client, nil, zerolog.Nop())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.IsType(t, tt.want, n)
		})
	}
}
