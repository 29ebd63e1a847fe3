package realtime

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"Gin_postgres_redis_division_inventory/db"
	"Gin_postgres_redis_division_inventory/metrics"
)

// Listener holds a dedicated Postgres connection on LISTEN and relays
// each trigger notification to a Publisher.
type Listener struct {
	dsn     string
	pub     Publisher
	log     *zap.Logger
	backoff time.Duration
}

func NewListener(dsn string, pub Publisher, log *zap.Logger) *Listener {
	return &Listener{dsn: dsn, pub: pub, log: log, backoff: 2 * time.Second}
}

// Run reconnects until ctx is cancelled.
func (l *Listener) Run(ctx context.Context) error {
	for {
		err := l.listen(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		l.log.Warn("change listener disconnected", zap.Error(err), zap.Duration("retry_in", l.backoff))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.backoff):
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, l.dsn)
	if err != nil {
		return err
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{db.ChangeChannel}.Sanitize()); err != nil {
		return err
	}
	l.log.Info("listening for table changes", zap.String("channel", db.ChangeChannel))

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}
		l.relay(ctx, n.Payload)
	}
}

func (l *Listener) relay(ctx context.Context, payload string) {
	c, err := ParseChange(payload)
	if err != nil {
		l.log.Warn("drop malformed change", zap.String("payload", payload), zap.Error(err))
		return
	}
	metrics.Notifications.WithLabelValues(c.Table, string(c.Event)).Inc()
	if err := l.pub.Publish(ctx, c); err != nil {
		l.log.Error("publish change", zap.String("table", c.Table), zap.Error(err))
	}
}
