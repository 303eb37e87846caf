package notifications

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"
)

// RedisBus fans events out through Redis Pub/Sub so matches resolved on one
// instance reach participants connected to another.
type RedisBus struct {
	rdb *redis.Client
}

func NewRedisBus(url string) (*RedisBus, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &RedisBus{rdb: rdb}, nil
}

func (b *RedisBus) Publish(topic string, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return b.rdb.Publish(context.Background(), topic, payload).Err()
}

func (b *RedisBus) Subscribe(topic string) (<-chan Event, func()) {
	ctx, cancelCtx := context.WithCancel(context.Background())
	ps := b.rdb.Subscribe(ctx, topic)
	out := make(chan Event, subscriberBuffer)

	go func() {
		defer close(out)
		for msg := range ps.Channel() {
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Printf("Dropping malformed notification on %s: %v", topic, err)
				continue
			}
			select {
			case out <- event:
			default:
			}
		}
	}()

	cancel := func() {
		cancelCtx()
		if err := ps.Close(); err != nil {
			log.Printf("Error closing redis subscription for %s: %v", topic, err)
		}
	}
	return out, cancel
}
