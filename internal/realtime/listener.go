package realtime

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	// Channel the deliveries triggers NOTIFY on (see migrations).
	channelName = "deliveries_changed"
	// A burst of inserts from one busy minute collapses into a single
	// re-fetch and broadcast.
	debounceWindow = 300 * time.Millisecond
	reconnectDelay = 5 * time.Second
)

// SnapshotFunc produces the payload broadcast after a change: the
// current shift's records, fetched fresh.
type SnapshotFunc func(ctx context.Context) (any, error)

// Listener holds a dedicated connection on LISTEN and pushes a fresh
// snapshot through the hub whenever the deliveries table changes.
type Listener struct {
	pool     *pgxpool.Pool
	hub      *Hub
	snapshot SnapshotFunc
}

func NewListener(pool *pgxpool.Pool, hub *Hub, snapshot SnapshotFunc) *Listener {
	return &Listener{pool: pool, hub: hub, snapshot: snapshot}
}

// Run blocks until the context is canceled, reconnecting after
// connection failures.
func (l *Listener) Run(ctx context.Context) {
	for {
		if err := l.listen(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("realtime: listener error, reconnecting: %v", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectDelay):
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+channelName); err != nil {
		return err
	}

	for {
		if _, err := conn.Conn().WaitForNotification(ctx); err != nil {
			return err
		}
		coalesce(ctx, debounceWindow, func(waitCtx context.Context) error {
			_, err := conn.Conn().WaitForNotification(waitCtx)
			return err
		})
		l.publish(ctx)
	}
}

// coalesce keeps draining notifications until the window passes with the
// wait returning a deadline error.
func coalesce(ctx context.Context, window time.Duration, wait func(context.Context) error) {
	waitCtx, cancel := context.WithTimeout(ctx, window)
	defer cancel()
	for {
		if err := wait(waitCtx); err != nil {
			if !errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
				log.Printf("realtime: drain: %v", err)
			}
			return
		}
	}
}

func (l *Listener) publish(ctx context.Context) {
	payload, err := l.snapshot(ctx)
	if err != nil {
		log.Printf("realtime: snapshot failed: %v", err)
		return
	}
	if err := l.hub.BroadcastJSON(payload); err != nil {
		log.Printf("realtime: broadcast failed: %v", err)
	}
}
