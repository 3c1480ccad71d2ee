package store

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"huddle/pkg/models"
)

func seedWorkspace(s *Store) {
	s.Lock()
	defer s.Unlock()
	ws := s.Workspace()
	ws.Users = append(ws.Users, &models.User{ID: 1, Email: "a@b.com", Handle: "ab", GlobalOwner: true})
	ws.Sessions["tok"] = 1
	ws.Channels = append(ws.Channels, &models.Channel{
		ID: 1, Name: "general", Public: true,
		OwnerIDs: []int64{1}, MemberIDs: []int64{1},
	})
	ws.DMs = append(ws.DMs, &models.DM{
		ID: 1, Name: "ab", CreatorID: 1, MemberIDs: []int64{1},
	})
	ch := models.Location{Kind: models.KindChannel, ID: 1}
	dm := models.Location{Kind: models.KindDM, ID: 1}
	for _, loc := range []models.Location{ch, dm, ch} {
		id := s.AllocateMessageID()
		s.Attach(loc, models.NewMessage(id, 1, "msg", time.Now().Unix()))
	}
}

func TestAttachDetach(t *testing.T) {
	s := New()
	seedWorkspace(s)
	s.Lock()
	defer s.Unlock()

	// Ids 1..3 were allocated; 1 and 3 live in the channel, 2 in the dm.
	loc, ok := s.Resolve(2)
	if !ok || loc.Kind != models.KindDM {
		t.Fatalf("message 2 resolved to %+v", loc)
	}
	if s.Workspace().LiveMessages != 3 {
		t.Fatalf("live count %d, want 3", s.Workspace().LiveMessages)
	}

	msg, loc, ok := s.Detach(1)
	if !ok || msg.ID != 1 || loc.Kind != models.KindChannel {
		t.Fatalf("detach 1: %+v %+v %v", msg, loc, ok)
	}
	if _, ok := s.Resolve(1); ok {
		t.Fatal("detached message still indexed")
	}
	if s.Workspace().LiveMessages != 2 {
		t.Fatalf("live count %d after detach, want 2", s.Workspace().LiveMessages)
	}
	// The allocator never rewinds.
	if id := s.AllocateMessageID(); id != 4 {
		t.Fatalf("next id %d, want 4", id)
	}

	if _, _, ok := s.Detach(99); ok {
		t.Fatal("detach of unknown id succeeded")
	}
}

func TestLookup(t *testing.T) {
	s := New()
	seedWorkspace(s)
	s.Lock()
	defer s.Unlock()

	msg, loc, ok := s.Lookup(3)
	if !ok || msg.ID != 3 || loc.Kind != models.KindChannel {
		t.Fatalf("lookup 3: %+v %+v %v", msg, loc, ok)
	}
	if _, _, ok := s.Lookup(99); ok {
		t.Fatal("lookup of unknown id succeeded")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if !s.Ready() {
		t.Fatal("store not ready after open")
	}
	seedWorkspace(s)
	if err := s.SaveSnapshot(); err != nil {
		t.Fatalf("save: %v", err)
	}
	want := s.Workspace()
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	if diff := cmp.Diff(want, reopened.Workspace()); diff != "" {
		t.Fatalf("workspace mismatch after reload (-want +got):\n%s", diff)
	}

	// The message index is derived, not stored; it must come back too.
	reopened.Lock()
	defer reopened.Unlock()
	for id, wantKind := range map[int64]models.ContainerKind{
		1: models.KindChannel,
		2: models.KindDM,
		3: models.KindChannel,
	} {
		loc, ok := reopened.Resolve(id)
		if !ok || loc.Kind != wantKind {
			t.Fatalf("message %d resolved to %+v after reload", id, loc)
		}
	}
	if id := reopened.AllocateMessageID(); id != 4 {
		t.Fatalf("allocator rewound to %d after reload", id)
	}
}

func TestSnapshotHistoryKeys(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()
	seedWorkspace(s)

	for i := 0; i < 3; i++ {
		if err := s.SaveSnapshot(); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}
	keys, err := s.ListSnapshotKeys()
	if err != nil {
		t.Fatalf("list keys: %v", err)
	}
	// Three timestamped copies plus the latest pointer.
	if len(keys) != 4 {
		t.Fatalf("expected 4 keys, got %d: %v", len(keys), keys)
	}

	latest, err := s.LatestSnapshot()
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if len(latest) == 0 {
		t.Fatal("latest snapshot empty")
	}
}

func TestFreshStoreHasNoBacking(t *testing.T) {
	s := New()
	if s.Ready() {
		t.Fatal("fresh store reports snapshot backing")
	}
	if err := s.SaveSnapshot(); err != nil {
		t.Fatalf("save without backing: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close without backing: %v", err)
	}
}
