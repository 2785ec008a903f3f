package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pdihub/pdihub/internal/models"
)

// waitFor polls cond until it returns true or the timeout elapses.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestAuditWorkerRecordsEntries(t *testing.T) {
	auditor := &mockAuditor{}
	names := &mockUserStore{
		getUserByEmail: func(_ context.Context, _ string) (*models.User, error) {
			return &models.User{Name: "Dana Ops"}, nil
		},
	}
	worker := NewAuditWorker(auditor, names, testLogger(), 10)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go worker.Run(ctx)

	worker.Enqueue(&AuditJob{
		Action:     models.ActionInspectionCreated,
		EntityType: "inspection",
		EntityID:   "i1",
		Actor:      &models.Actor{ID: "u1", Email: "Dana@Example.com"},
		Detail:     map[string]any{"number": "PDI-1"},
		IP:         "203.0.113.9",
		UserAgent:  "pdihub-cli",
	})

	waitFor(t, time.Second, func() bool { return len(auditor.recorded()) == 1 })

	entry := auditor.recorded()[0]
	if entry.Action != models.ActionInspectionCreated {
		t.Errorf("got action %q", entry.Action)
	}
	if entry.ActorEmail != "dana@example.com" {
		t.Errorf("actor email not normalized: %q", entry.ActorEmail)
	}
	if entry.ActorName != "Dana Ops" {
		t.Errorf("display name not resolved: %q", entry.ActorName)
	}
	if entry.IP != "203.0.113.9" || entry.UserAgent != "pdihub-cli" {
		t.Errorf("request meta lost: %q %q", entry.IP, entry.UserAgent)
	}
}

// TestAuditWorkerAnonymousFallback verifies entries without an actor are
// recorded under the anonymous identity with "unknown" request meta.
func TestAuditWorkerAnonymousFallback(t *testing.T) {
	auditor := &mockAuditor{}
	worker := NewAuditWorker(auditor, nil, testLogger(), 10)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go worker.Run(ctx)

	worker.Enqueue(&AuditJob{Action: models.ActionRetentionSweep, EntityType: "inspection", EntityID: "batch"})

	waitFor(t, time.Second, func() bool { return len(auditor.recorded()) == 1 })

	entry := auditor.recorded()[0]
	if entry.ActorID != models.AnonymousActorID || entry.ActorEmail != models.AnonymousActorEmail {
		t.Errorf("got actor %q/%q, want anonymous", entry.ActorID, entry.ActorEmail)
	}
	if entry.IP != "unknown" || entry.UserAgent != "unknown" {
		t.Errorf("got meta %q/%q, want unknown", entry.IP, entry.UserAgent)
	}
}

// TestAuditWorkerDropsWhenFull verifies Enqueue never blocks the caller.
func TestAuditWorkerDropsWhenFull(t *testing.T) {
	auditor := &mockAuditor{}
	worker := NewAuditWorker(auditor, nil, testLogger(), 2)
	// No Run goroutine: the queue fills up and stays full.

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			worker.Enqueue(&AuditJob{Action: models.ActionInspectionUpdated})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}
}

// TestAuditWorkerDrainsOnShutdown verifies queued entries are flushed after
// the context is cancelled.
func TestAuditWorkerDrainsOnShutdown(t *testing.T) {
	auditor := &mockAuditor{}
	worker := NewAuditWorker(auditor, nil, testLogger(), 10)

	for i := 0; i < 5; i++ {
		worker.Enqueue(&AuditJob{Action: models.ActionInspectionUpdated, EntityID: "i1"})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // already cancelled: Run drains and returns

	finished := make(chan struct{})
	go func() {
		worker.Run(ctx)
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}

	if got := len(auditor.recorded()); got != 5 {
		t.Errorf("got %d entries after drain, want 5", got)
	}
}

// TestAuditWorkerFailureIsSwallowed verifies a failing audit store is logged,
// not propagated.
func TestAuditWorkerFailureIsSwallowed(t *testing.T) {
	auditor := &mockAuditor{err: errors.New("insert failed")}
	worker := NewAuditWorker(auditor, nil, testLogger(), 10)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go worker.Run(ctx)

	worker.Enqueue(&AuditJob{Action: models.ActionUserCreated, EntityID: "u1"})
	worker.Enqueue(&AuditJob{Action: models.ActionUserUpdated, EntityID: "u1"})

	// Both entries are attempted despite the first failing.
	waitFor(t, time.Second, func() bool { return len(auditor.recorded()) == 2 })
}

// TestAuditWorkerNameLookupFailure verifies an unresolvable display name
// still records the entry.
func TestAuditWorkerNameLookupFailure(t *testing.T) {
	auditor := &mockAuditor{}
	names := &mockUserStore{
		getUserByEmail: func(_ context.Context, _ string) (*models.User, error) {
			return nil, models.ErrUserNotFound
		},
	}
	worker := NewAuditWorker(auditor, names, testLogger(), 10)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go worker.Run(ctx)

	worker.Enqueue(&AuditJob{
		Action: models.ActionInspectionDeleted,
		Actor:  &models.Actor{ID: "u1", Email: "gone@example.com"},
	})

	waitFor(t, time.Second, func() bool { return len(auditor.recorded()) == 1 })

	if name := auditor.recorded()[0].ActorName; name != "" {
		t.Errorf("got actor name %q, want empty", name)
	}
}
