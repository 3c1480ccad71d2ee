package engine

import (
	"strings"
	"testing"

	"huddle/pkg/models"
)

func TestShareIntoChannel(t *testing.T) {
	f := newFixture(t)
	alice := f.register("al", "ice")
	src := f.channel(alice.Token, "source")
	dst := f.channel(alice.Token, "dest")

	ogID := f.send(alice.Token, src, "original")
	if err := f.eng.Pin(alice.Token, ogID); err != nil {
		t.Fatalf("pin: %v", err)
	}
	if err := f.eng.React(alice.Token, ogID, models.ReactionKindThumbsUp); err != nil {
		t.Fatalf("react: %v", err)
	}

	sharedID, err := f.eng.Share(alice.Token, ogID, "check this", dst.ID, UnsetID)
	if err != nil {
		t.Fatalf("share: %v", err)
	}
	if sharedID == ogID {
		t.Fatal("share reused the original message id")
	}

	page, _ := f.eng.Paginate(alice.Token, dst, 0)
	got := page.Messages[0]
	if got.ID != sharedID || got.Body != "original check this" {
		t.Fatalf("unexpected shared message %+v", got)
	}
	// The copy is a fresh message: no pin, no reactions carried over.
	if got.Pinned || len(got.Reactions[0].UserIDs) != 0 {
		t.Fatalf("share copied pin or reaction state: %+v", got)
	}

	// The original is untouched.
	page, _ = f.eng.Paginate(alice.Token, src, 0)
	if og := page.Messages[0]; og.Body != "original" || !og.Pinned {
		t.Fatalf("share mutated the original: %+v", og)
	}
}

func TestShareEmptySupplement(t *testing.T) {
	f := newFixture(t)
	alice := f.register("al", "ice")
	bob := f.register("b", "ob")
	src := f.channel(alice.Token, "source")
	dm := f.dm(alice.Token, bob.UserID)

	ogID := f.send(alice.Token, src, "as-is")
	sharedID, err := f.eng.Share(alice.Token, ogID, "", UnsetID, dm.ID)
	if err != nil {
		t.Fatalf("share: %v", err)
	}
	page, _ := f.eng.Paginate(bob.Token, dm, 0)
	if got := page.Messages[0]; got.ID != sharedID || got.Body != "as-is" {
		t.Fatalf("empty supplement appended something: %q", got.Body)
	}
}

func TestShareValidation(t *testing.T) {
	f := newFixture(t)
	alice := f.register("al", "ice")
	bob := f.register("b", "ob")
	src := f.channel(alice.Token, "source")
	dst := f.channel(alice.Token, "dest")
	ogID := f.send(alice.Token, src, "original")

	// Both targets set, or neither.
	_, err := f.eng.Share(alice.Token, ogID, "", dst.ID, 1)
	wantStatus(t, err, 400)
	_, err = f.eng.Share(alice.Token, ogID, "", UnsetID, UnsetID)
	wantStatus(t, err, 400)

	_, err = f.eng.Share(alice.Token, ogID, "", 999, UnsetID)
	wantStatus(t, err, 400)

	_, err = f.eng.Share(alice.Token, 999, "", dst.ID, UnsetID)
	wantStatus(t, err, 400)

	_, err = f.eng.Share(alice.Token, ogID, strings.Repeat("x", MaxBody+1), dst.ID, UnsetID)
	wantStatus(t, err, 400)

	// bob is not a member of the destination.
	_, err = f.eng.Share(bob.Token, ogID, "", dst.ID, UnsetID)
	wantStatus(t, err, 403)
}
