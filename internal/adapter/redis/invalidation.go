package redis

import (
	"context"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"
)

// InvalidationSubscriber reacts to entry changes made by other instances.
// onRemote runs before local summaries are dropped so recomputed summaries see its effect.
type InvalidationSubscriber struct {
	rdb      *goredis.Client
	cache    *InsightsCache
	onRemote func(ctx context.Context) error
}

// NewInvalidationSubscriber creates a subscriber. onRemote may be nil.
func NewInvalidationSubscriber(rdb *goredis.Client, cache *InsightsCache, onRemote func(ctx context.Context) error) *InvalidationSubscriber {
	return &InvalidationSubscriber{rdb: rdb, cache: cache, onRemote: onRemote}
}

// Start blocks until ctx is cancelled or the subscription closes.
func (s *InvalidationSubscriber) Start(ctx context.Context) {
	pubsub := s.rdb.Subscribe(ctx, insightsInvalidateTopic)
	defer func() { _ = pubsub.Close() }()

	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok || msg == nil {
				return
			}
			s.handleInvalidation(ctx, msg.Payload)
		case <-ctx.Done():
			return
		}
	}
}

func (s *InvalidationSubscriber) handleInvalidation(ctx context.Context, sender string) {
	if sender == "" {
		slog.WarnContext(ctx, "Empty insights invalidation message")
		return
	}
	if sender == s.cache.InstanceID() {
		return
	}

	if s.onRemote != nil {
		if err := s.onRemote(ctx); err != nil {
			slog.ErrorContext(ctx, "Failed to apply remote entry change", "sender", sender, "error", err)
		}
	}

	s.cache.dropLocal()
	s.cache.metrics.Invalidations.WithLabelValues("remote").Inc()
	slog.DebugContext(ctx, "Dropped local insights cache", "sender", sender)
}
