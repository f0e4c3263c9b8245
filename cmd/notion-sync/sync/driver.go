package sync

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"notion-sync-backend/cmd/notion-sync/applog"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

type State string

const (
	StateIdle           State = "idle"
	StateRunningEvents  State = "running_events"
	StateRunningMembers State = "running_members"
	StateFailed         State = "failed"
)

// Status is a snapshot of the driver for the ops endpoint.
type Status struct {
	State        State      `json:"state"`
	LastRunID    string     `json:"last_run_id,omitempty"`
	LastStarted  *time.Time `json:"last_started,omitempty"`
	LastFinished *time.Time `json:"last_finished,omitempty"`
	LastError    string     `json:"last_error,omitempty"`
	EventsSynced int        `json:"events_synced"`
	MemberCounts Counts     `json:"member_counts"`
}

// Driver runs the two reconcilers sequentially: events first, then
// members. A failure anywhere marks the cycle failed and is swallowed so
// the process keeps running; the next trigger starts clean. Triggers that
// arrive while a run is in flight are skipped rather than overlapped.
type Driver struct {
	events  *EventReconciler
	members *MemberReconciler

	inFlight atomic.Bool

	mu     sync.Mutex
	status Status
}

func NewDriver(events *EventReconciler, members *MemberReconciler) *Driver {

	return &Driver{
		events:  events,
		members: members,
		status:  Status{State: StateIdle},
	}
}

// Start runs one sync immediately and schedules the rest on cronSpec.
// The returned cron is already started; the caller stops it on shutdown.
func (d *Driver) Start(ctx context.Context, cronSpec string) (*cron.Cron, error) {

	go d.RunOnce(ctx)

	c := cron.New()
	_, err := c.AddFunc(cronSpec, func() {
		d.RunOnce(ctx)
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	applog.Info("sync scheduler started", "cron", cronSpec)

	return c, nil
}

// RunOnce executes a full reconciliation cycle. Safe to call from any
// goroutine; concurrent calls beyond the first are dropped.
func (d *Driver) RunOnce(ctx context.Context) {

	if !d.inFlight.CompareAndSwap(false, true) {
		applog.Warn("sync already in flight, skipping trigger")
		return
	}
	defer d.inFlight.Store(false)

	runID := newRunID()
	started := time.Now().UTC()

	d.update(func(s *Status) {
		s.State = StateRunningEvents
		s.LastRunID = runID
		s.LastStarted = &started
		s.LastFinished = nil
		s.LastError = ""
	})

	applog.Info("sync starting", "run_id", runID)

	eventsSynced, err := d.events.Reconcile(ctx)
	if err != nil {
		d.fail(runID, err)
		return
	}

	d.update(func(s *Status) {
		s.State = StateRunningMembers
		s.EventsSynced = eventsSynced
	})

	counts, err := d.members.Reconcile(ctx)
	if err != nil {
		d.fail(runID, err)
		return
	}

	finished := time.Now().UTC()
	d.update(func(s *Status) {
		s.State = StateIdle
		s.LastFinished = &finished
		s.MemberCounts = counts
	})

	applog.Info("sync complete",
		"run_id", runID,
		"events_synced", eventsSynced,
		"members_inserted", counts.Inserted,
		"members_updated", counts.Updated,
		"members_skipped", counts.Skipped,
	)
}

// Status returns a copy of the current driver snapshot.
func (d *Driver) Status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status
}

func (d *Driver) update(fn func(*Status)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn(&d.status)
}

// fail logs and records the cycle failure. The error is swallowed here:
// resilience comes from the next scheduled cycle re-running the whole
// reconciliation, not from retrying in place.
func (d *Driver) fail(runID string, err error) {

	applog.Error("sync failed", err, "run_id", runID)

	finished := time.Now().UTC()
	d.update(func(s *Status) {
		s.State = StateFailed
		s.LastFinished = &finished
		s.LastError = err.Error()
	})
}

func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return id.String()
}
