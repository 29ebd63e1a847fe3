// Package dashboard keeps one viewer's dashboard collections fresh.
package dashboard

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"Gin_postgres_redis_division_inventory/access"
	"Gin_postgres_redis_division_inventory/metrics"
	"Gin_postgres_redis_division_inventory/models"
	"Gin_postgres_redis_division_inventory/realtime"
)

// ErrClosed is returned by operations on a closed State.
var ErrClosed = errors.New("dashboard closed")

// ActivityFetchLimit is how many log rows a refresh reads.
const ActivityFetchLimit = 20

type Backend interface {
	ListInventory(ctx context.Context, scope access.Scope) ([]models.InventoryRow, error)
	ListRequests(ctx context.Context, scope access.Scope) ([]models.RequestRow, error)
	ListActivityLogs(ctx context.Context, scope access.Scope, limit int) ([]models.ActivityLogRow, error)
	AppendActivityLog(ctx context.Context, l *models.ActivityLog) error
}

type Collection string

const (
	Inventory Collection = "inventory"
	Requests  Collection = "requests"
	Activity  Collection = "activity"
)

// State is the in-memory copy of the three collections for one viewer.
// A failed refresh keeps the previous rows and records the error.
type State struct {
	backend Backend
	viewer  access.Viewer

	mu        sync.RWMutex
	inventory []models.InventoryRow
	requests  []models.RequestRow
	logs      []models.ActivityLogRow
	errs      map[Collection]error
	loading   bool

	done      chan struct{}
	closeOnce sync.Once
}

func New(backend Backend, viewer access.Viewer) *State {
	return &State{
		backend: backend,
		viewer:  viewer,
		errs:    make(map[Collection]error),
		loading: true,
		done:    make(chan struct{}),
	}
}

func (s *State) Viewer() access.Viewer { return s.viewer }

// Load fetches every collection concurrently. Per-collection failures are
// recorded on the state, not returned.
func (s *State) Load(ctx context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { s.RefreshInventory(gctx); return nil })
	g.Go(func() error { s.RefreshRequests(gctx); return nil })
	g.Go(func() error { s.RefreshActivityLogs(gctx); return nil })
	_ = g.Wait()

	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

func (s *State) RefreshInventory(ctx context.Context) {
	rows, err := s.backend.ListInventory(ctx, s.viewer.Scope())
	s.store(Inventory, err, func() { s.inventory = rows })
}

func (s *State) RefreshRequests(ctx context.Context) {
	rows, err := s.backend.ListRequests(ctx, s.viewer.Scope())
	s.store(Requests, err, func() { s.requests = rows })
}

func (s *State) RefreshActivityLogs(ctx context.Context) {
	rows, err := s.backend.ListActivityLogs(ctx, s.viewer.Scope(), ActivityFetchLimit)
	s.store(Activity, err, func() { s.logs = rows })
}

// store applies a finished fetch. Writes after Close are dropped.
func (s *State) store(c Collection, err error, apply func()) {
	metrics.Fetches.WithLabelValues(string(c), metrics.Result(err)).Inc()
	if s.Closed() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.errs[c] = err
		return
	}
	delete(s.errs, c)
	apply()
}

// Refresh re-reads the collection backed by table. It reports false for
// tables the dashboard does not show.
func (s *State) Refresh(ctx context.Context, table string) bool {
	switch table {
	case models.InventoryTable:
		s.RefreshInventory(ctx)
	case models.RequestTable:
		s.RefreshRequests(ctx)
	case models.ActivityLogTable:
		s.RefreshActivityLogs(ctx)
	default:
		return false
	}
	return true
}

// LogActivity appends a row under the viewer's division and re-reads the
// activity collection.
func (s *State) LogActivity(ctx context.Context, action string, details *string) (*models.ActivityLog, error) {
	if s.Closed() {
		return nil, ErrClosed
	}
	l := &models.ActivityLog{
		Action:     action,
		UserID:     s.viewer.ProfileID,
		DivisionID: s.viewer.Division,
		Details:    details,
	}
	if err := s.backend.AppendActivityLog(ctx, l); err != nil {
		return nil, err
	}
	s.RefreshActivityLogs(ctx)
	return l, nil
}

// wants filters out notifications that do not change what is shown: the
// activity feed is append-only.
func wants(c realtime.Change) bool {
	if c.Table == models.ActivityLogTable {
		return c.Event == realtime.Insert
	}
	return true
}

// Subscribe opens the change subscription for the dashboard tables.
// Callers subscribe before Load so nothing committed during the load is
// missed.
func (s *State) Subscribe(ctx context.Context, sub realtime.Subscriber) (realtime.Subscription, error) {
	return sub.Subscribe(ctx, models.ChangeTables...)
}

// Watch subscribes and then runs the refresh loop.
func (s *State) Watch(ctx context.Context, sub realtime.Subscriber, onChange func(View)) error {
	subscription, err := s.Subscribe(ctx, sub)
	if err != nil {
		return err
	}
	return s.Run(ctx, subscription, onChange)
}

// Run re-fetches a collection on every change notification for its table
// and hands the new snapshot to onChange. It blocks until ctx ends, the
// state is closed or the subscription drops. The subscription is always
// released.
func (s *State) Run(ctx context.Context, subscription realtime.Subscription, onChange func(View)) error {
	defer subscription.Close()

	changes := subscription.Changes()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.done:
			return nil
		case c, ok := <-changes:
			if !ok {
				return nil
			}
			if !wants(c) || !s.Refresh(ctx, c.Table) {
				continue
			}
			if s.Closed() {
				return nil
			}
			if onChange != nil {
				onChange(s.Snapshot())
			}
		}
	}
}

// Close stops any Watch loop; later fetches no longer update the state.
func (s *State) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

func (s *State) Closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}
