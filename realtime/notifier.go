package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/redis/go-redis/v9"
)

const channelPrefix = "changes:"

func channel(table string) string { return channelPrefix + table }

type RedisNotifier struct {
	rdb *redis.Client
}

func NewRedisNotifier(rdb *redis.Client) *RedisNotifier {
	return &RedisNotifier{rdb: rdb}
}

func (n *RedisNotifier) Publish(ctx context.Context, c Change) error {
	b, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return n.rdb.Publish(ctx, channel(c.Table), b).Err()
}

// Subscribe returns once Redis has confirmed the subscription, so no
// change published afterwards is missed.
func (n *RedisNotifier) Subscribe(ctx context.Context, tables ...string) (Subscription, error) {
	channels := make([]string, len(tables))
	for i, t := range tables {
		channels[i] = channel(t)
	}
	ps := n.rdb.Subscribe(ctx, channels...)
	// one confirmation per channel
	for range channels {
		if _, err := ps.Receive(ctx); err != nil {
			_ = ps.Close()
			return nil, err
		}
	}
	s := &redisSubscription{
		ps:   ps,
		out:  make(chan Change, 16),
		done: make(chan struct{}),
	}
	go s.run()
	return s, nil
}

type redisSubscription struct {
	ps   *redis.PubSub
	out  chan Change
	done chan struct{}
	once sync.Once
}

func (s *redisSubscription) run() {
	defer close(s.out)
	for msg := range s.ps.Channel() {
		c, err := ParseChange(msg.Payload)
		if err != nil {
			continue
		}
		select {
		case s.out <- c:
		case <-s.done:
			return
		}
	}
}

func (s *redisSubscription) Changes() <-chan Change { return s.out }

func (s *redisSubscription) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		err = s.ps.Close()
	})
	return err
}
