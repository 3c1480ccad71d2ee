package engine

import (
	"fmt"
	"testing"
	"time"

	"huddle/pkg/directory"
	"huddle/pkg/errs"
	"huddle/pkg/models"
	"huddle/pkg/scheduler"
	"huddle/pkg/store"
)

type fixture struct {
	t     *testing.T
	st    *store.Store
	dir   *directory.Directory
	sched *scheduler.Scheduler
	eng   *Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := store.New()
	dir := directory.New(st)
	sched := scheduler.New()
	t.Cleanup(sched.Stop)
	return &fixture{t: t, st: st, dir: dir, sched: sched, eng: New(st, dir, sched)}
}

var emailSeq int

// register creates a user whose handle is the lowercased concatenation of
// the names.
func (f *fixture) register(nameFirst, nameLast string) directory.Session {
	f.t.Helper()
	emailSeq++
	sess, err := f.dir.Register(fmt.Sprintf("user%d@example.com", emailSeq), "password", nameFirst, nameLast)
	if err != nil {
		f.t.Fatalf("register: %v", err)
	}
	return sess
}

func (f *fixture) channel(token, name string) models.Location {
	f.t.Helper()
	id, err := f.dir.CreateChannel(token, name, true)
	if err != nil {
		f.t.Fatalf("create channel: %v", err)
	}
	return models.Location{Kind: models.KindChannel, ID: id}
}

func (f *fixture) dm(token string, members ...int64) models.Location {
	f.t.Helper()
	id, err := f.dir.CreateDM(token, members)
	if err != nil {
		f.t.Fatalf("create dm: %v", err)
	}
	return models.Location{Kind: models.KindDM, ID: id}
}

func (f *fixture) send(token string, loc models.Location, body string) int64 {
	f.t.Helper()
	id, err := f.eng.Send(token, loc, body)
	if err != nil {
		f.t.Fatalf("send %q: %v", body, err)
	}
	return id
}

// wantStatus asserts err carries the given status class.
func wantStatus(t *testing.T, err error, status int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected status %d error, got nil", status)
	}
	if got := errs.StatusOf(err); got != status {
		t.Fatalf("expected status %d, got %d (%v)", status, got, err)
	}
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("condition not met within %v", timeout)
}

// notifications fetches the caller's recent notifications.
func (f *fixture) notifications(token string) []models.Notification {
	f.t.Helper()
	out, err := f.eng.Notifications(token)
	if err != nil {
		f.t.Fatalf("notifications: %v", err)
	}
	return out
}
