package engine

import (
	"testing"

	"huddle/pkg/models"
)

func TestReactRoundTrip(t *testing.T) {
	f := newFixture(t)
	alice := f.register("al", "ice")
	bob := f.register("b", "ob")
	ch := f.channel(alice.Token, "general")
	if err := f.dir.JoinChannel(bob.Token, ch.ID); err != nil {
		t.Fatalf("join: %v", err)
	}
	msgID := f.send(alice.Token, ch, "react to me")

	if err := f.eng.React(bob.Token, msgID, models.ReactionKindThumbsUp); err != nil {
		t.Fatalf("react: %v", err)
	}
	page, err := f.eng.Paginate(bob.Token, ch, 0)
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	r := page.Messages[0].Reactions[0]
	if !r.UserHasReacted || len(r.UserIDs) != 1 || r.UserIDs[0] != bob.UserID {
		t.Fatalf("unexpected reaction state after react: %+v", r)
	}

	// The author sees the same user set but not their own flag.
	page, _ = f.eng.Paginate(alice.Token, ch, 0)
	if page.Messages[0].Reactions[0].UserHasReacted {
		t.Fatal("author reported as reacted without reacting")
	}

	if err := f.eng.Unreact(bob.Token, msgID, models.ReactionKindThumbsUp); err != nil {
		t.Fatalf("unreact: %v", err)
	}
	page, _ = f.eng.Paginate(bob.Token, ch, 0)
	r = page.Messages[0].Reactions[0]
	if r.UserHasReacted || len(r.UserIDs) != 0 {
		t.Fatalf("unexpected reaction state after unreact: %+v", r)
	}
}

func TestDoubleReactRejected(t *testing.T) {
	f := newFixture(t)
	alice := f.register("al", "ice")
	ch := f.channel(alice.Token, "general")
	msgID := f.send(alice.Token, ch, "once only")

	if err := f.eng.React(alice.Token, msgID, models.ReactionKindThumbsUp); err != nil {
		t.Fatalf("react: %v", err)
	}
	wantStatus(t, f.eng.React(alice.Token, msgID, models.ReactionKindThumbsUp), 400)

	// The failed second react left exactly one entry behind.
	page, _ := f.eng.Paginate(alice.Token, ch, 0)
	if got := len(page.Messages[0].Reactions[0].UserIDs); got != 1 {
		t.Fatalf("expected 1 reacting user after double react, got %d", got)
	}

	if err := f.eng.Unreact(alice.Token, msgID, models.ReactionKindThumbsUp); err != nil {
		t.Fatalf("unreact: %v", err)
	}
	wantStatus(t, f.eng.Unreact(alice.Token, msgID, models.ReactionKindThumbsUp), 400)
}

func TestReactValidation(t *testing.T) {
	f := newFixture(t)
	alice := f.register("al", "ice")
	bob := f.register("b", "ob")
	ch := f.channel(alice.Token, "general")
	msgID := f.send(alice.Token, ch, "hello")

	wantStatus(t, f.eng.React(alice.Token, 999, models.ReactionKindThumbsUp), 400)
	wantStatus(t, f.eng.React(alice.Token, msgID, 2), 400)

	// A non-member reacting is a 400, not a 403: the message is simply not
	// addressable from outside the container.
	wantStatus(t, f.eng.React(bob.Token, msgID, models.ReactionKindThumbsUp), 400)
	wantStatus(t, f.eng.Unreact(bob.Token, msgID, models.ReactionKindThumbsUp), 400)
}

func TestReactNotifiesAuthor(t *testing.T) {
	f := newFixture(t)
	alice := f.register("al", "ice")
	bob := f.register("b", "ob")
	ch := f.channel(alice.Token, "general")
	if err := f.dir.JoinChannel(bob.Token, ch.ID); err != nil {
		t.Fatalf("join: %v", err)
	}
	msgID := f.send(alice.Token, ch, "notify me")

	if err := f.eng.React(bob.Token, msgID, models.ReactionKindThumbsUp); err != nil {
		t.Fatalf("react: %v", err)
	}
	notes := f.notifications(alice.Token)
	if len(notes) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notes))
	}
	want := "@bob reacted to your message in general"
	if notes[0].Message != want || notes[0].ChannelID != ch.ID || notes[0].DMID != -1 {
		t.Fatalf("unexpected notification %+v, want message %q", notes[0], want)
	}
}

func TestSelfReactDoesNotNotify(t *testing.T) {
	f := newFixture(t)
	alice := f.register("al", "ice")
	ch := f.channel(alice.Token, "general")
	msgID := f.send(alice.Token, ch, "own horn")

	if err := f.eng.React(alice.Token, msgID, models.ReactionKindThumbsUp); err != nil {
		t.Fatalf("react: %v", err)
	}
	if notes := f.notifications(alice.Token); len(notes) != 0 {
		t.Fatalf("self-react produced %d notifications", len(notes))
	}
}

func TestPinStateMachine(t *testing.T) {
	f := newFixture(t)
	alice := f.register("al", "ice")
	bob := f.register("b", "ob")
	ch := f.channel(alice.Token, "general")
	if err := f.dir.JoinChannel(bob.Token, ch.ID); err != nil {
		t.Fatalf("join: %v", err)
	}
	msgID := f.send(bob.Token, ch, "important")

	// Plain members cannot pin, even the author.
	wantStatus(t, f.eng.Pin(bob.Token, msgID), 403)

	if err := f.eng.Pin(alice.Token, msgID); err != nil {
		t.Fatalf("pin: %v", err)
	}
	wantStatus(t, f.eng.Pin(alice.Token, msgID), 400)

	page, _ := f.eng.Paginate(alice.Token, ch, 0)
	if !page.Messages[0].Pinned {
		t.Fatal("message not pinned after pin")
	}

	if err := f.eng.Unpin(alice.Token, msgID); err != nil {
		t.Fatalf("unpin: %v", err)
	}
	wantStatus(t, f.eng.Unpin(alice.Token, msgID), 400)

	wantStatus(t, f.eng.Pin(alice.Token, 999), 400)
}

func TestPinDMCreatorOnly(t *testing.T) {
	f := newFixture(t)
	owner := f.register("glo", "bal")
	alice := f.register("al", "ice")

	dm := f.dm(alice.Token, owner.UserID)
	msgID := f.send(owner.Token, dm, "pin me maybe")

	// Global owner privilege stops at the DM boundary.
	wantStatus(t, f.eng.Pin(owner.Token, msgID), 403)

	if err := f.eng.Pin(alice.Token, msgID); err != nil {
		t.Fatalf("creator pin: %v", err)
	}
}
