// Package behavior turns tracking events into the Redis counters that back
// recommendations and trending search keywords.
package behavior

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/hqtrung/vnshop/internal/events"
	kafkax "github.com/hqtrung/vnshop/internal/kafka"
	"github.com/hqtrung/vnshop/internal/redisx"
	"github.com/hqtrung/vnshop/internal/suggest"
)

type Service struct {
	Redis       *redis.Client
	ServiceName string
}

// Handle is wired as the consumer handler for every behavior topic.
func (s *Service) Handle(ctx context.Context, m kafkago.Message) error {
	var env events.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}

	// dedup by event id so redelivery doesn't double-count
	dkey := fmt.Sprintf(redisx.KeyDedup, "behavior", env.EventID)
	exists, _ := redisx.Exists(ctx, s.Redis, dkey)
	if exists {
		return nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	switch env.EventType {
	case events.EventProductViewed:
		p, err := kafkax.UnwrapPayload[events.ProductViewedPayload](env.Payload)
		if err != nil {
			return err
		}
		return s.bump(ctx, redisx.KeyProductViews, p.ProductID, redisx.MaxTrackedProducts)
	case events.EventSearchPerformed:
		p, err := kafkax.UnwrapPayload[events.SearchPerformedPayload](env.Payload)
		if err != nil {
			return err
		}
		kw := suggest.Normalize(p.Query)
		if kw == "" {
			return nil
		}
		return s.bump(ctx, redisx.KeyTrendingKeywords, kw, redisx.MaxTrackedKeywords)
	case events.EventOrderPlaced:
		p, err := kafkax.UnwrapPayload[events.OrderPlacedPayload](env.Payload)
		if err != nil {
			return err
		}
		// purchases weigh heavier than views
		for _, it := range p.Items {
			if err := s.Redis.ZIncrBy(ctx, redisx.KeyProductViews, float64(it.Qty*5), it.ProductID).Err(); err != nil {
				return err
			}
		}
		return nil
	default:
		logrus.WithField("event_type", env.EventType).Debug("ignoring event")
		return nil
	}
}

func (s *Service) bump(ctx context.Context, key, member string, maxLen int64) error {
	if err := s.Redis.ZIncrBy(ctx, key, 1, member).Err(); err != nil {
		return err
	}
	// trim the tail so the ZSET stays bounded
	return s.Redis.ZRemRangeByRank(ctx, key, 0, -(maxLen + 1)).Err()
}
