// Package views carries the cache-invalidation and navigation signals the
// chat operations hand back to the UI layer.
package views

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/PaulBabatuyi/chatStore-gRPC/internal/normalize"
	"github.com/redis/go-redis/v9"
)

// Root is the path of the chat list view.
const Root = "/"

// DefaultChannel is the pub/sub channel RedisSignaler publishes on.
const DefaultChannel = "chat:views"

// Signal tells the UI which views are stale and, optionally, where to go
// next. The zero Signal asks for nothing.
type Signal struct {
	UserID     string   `json:"userId,omitempty"`
	Revalidate []string `json:"revalidate,omitempty"`
	Redirect   string   `json:"redirect,omitempty"`
}

// Revalidate returns a signal marking paths stale. Paths are normalized and
// de-duplicated in order.
func Revalidate(paths ...string) Signal {
	var s Signal
	seen := map[string]bool{}
	for _, p := range paths {
		p = normalize.Path(p)
		if !seen[p] {
			seen[p] = true
			s.Revalidate = append(s.Revalidate, p)
		}
	}
	return s
}

// Redirect returns a signal asking the UI to navigate to path.
func Redirect(path string) Signal {
	return Signal{Redirect: normalize.Path(path)}
}

// Empty reports whether s asks for nothing.
func (s Signal) Empty() bool {
	return len(s.Revalidate) == 0 && s.Redirect == ""
}

// Signaler forwards signals to whatever is rendering the views.
type Signaler interface {
	Emit(ctx context.Context, s Signal) error
}

// Noop drops every signal. It is used when no broadcaster is configured.
type Noop struct{}

func (Noop) Emit(context.Context, Signal) error { return nil }

// RedisSignaler publishes signals as JSON on a Redis channel so every UI
// instance subscribed to it sees them.
type RedisSignaler struct {
	client  *redis.Client
	channel string
}

func NewRedisSignaler(client *redis.Client, channel string) *RedisSignaler {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisSignaler{client: client, channel: channel}
}

func (r *RedisSignaler) Emit(ctx context.Context, s Signal) error {
	if s.Empty() {
		return nil
	}
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("views: marshal signal: %w", err)
	}
	if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		return fmt.Errorf("views: publish: %w", err)
	}
	return nil
}

// Subscribe returns a channel of signals published on r's channel. It is
// closed when ctx ends.
func (r *RedisSignaler) Subscribe(ctx context.Context) (<-chan Signal, error) {
	sub := r.client.Subscribe(ctx, r.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("views: subscribe: %w", err)
	}

	out := make(chan Signal)
	go func() {
		defer close(out)
		defer sub.Close()
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-msgs:
				if !ok {
					return
				}
				var s Signal
				if err := json.Unmarshal([]byte(m.Payload), &s); err != nil {
					continue
				}
				select {
				case out <- s:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
