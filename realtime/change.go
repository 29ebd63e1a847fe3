// Package realtime relays table change hints from Postgres to every
// service instance through Redis pub/sub.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
)

type Event string

const (
	Insert Event = "INSERT"
	Update Event = "UPDATE"
	Delete Event = "DELETE"
)

// Change says that a row in Table changed. It carries no row data: a
// receiver re-reads the table.
type Change struct {
	Table string `json:"table"`
	Event Event  `json:"type"`
}

func ParseChange(payload string) (Change, error) {
	var c Change
	if err := json.Unmarshal([]byte(payload), &c); err != nil {
		return Change{}, fmt.Errorf("decode change: %w", err)
	}
	if c.Table == "" {
		return Change{}, fmt.Errorf("decode change: missing table")
	}
	switch c.Event {
	case Insert, Update, Delete:
	default:
		return Change{}, fmt.Errorf("decode change: unknown event %q", c.Event)
	}
	return c, nil
}

type Publisher interface {
	Publish(ctx context.Context, c Change) error
}

type Subscription interface {
	// Changes is closed once the subscription ends.
	Changes() <-chan Change
	Close() error
}

type Subscriber interface {
	Subscribe(ctx context.Context, tables ...string) (Subscription, error)
}
