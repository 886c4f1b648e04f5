package core

import (
	"fmt"
	"testing"
)

func TestHistoryBufferEvictsOldest(t *testing.T) {
	h := NewHistoryBuffer(3)

	for i := 1; i <= 4; i++ {
		h.Append("r1", Message{MsgID: fmt.Sprintf("m%d", i)})
	}

	snap := h.Snapshot("r1")
	if len(snap) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(snap))
	}
	if snap[0].MsgID != "m2" || snap[2].MsgID != "m4" {
		t.Fatalf("expected m2..m4, got %+v", snap)
	}
}

func TestHistoryBufferNeverExceedsLimit(t *testing.T) {
	h := NewHistoryBuffer(5)

	for i := 0; i < 50; i++ {
		h.Append("r1", Message{MsgID: fmt.Sprintf("m%d", i)})
		if n := len(h.Snapshot("r1")); n > 5 {
			t.Fatalf("buffer exceeded limit: %d", n)
		}
	}
}

func TestHistoryBufferReplace(t *testing.T) {
	h := NewHistoryBuffer(3)
	h.Append("r1", Message{MsgID: "m1"})

	h.Replace("r1", "m1", Message{MsgID: "m1", Reactions: []Reaction{{Emoji: "👍"}}})
	if snap := h.Snapshot("r1"); len(snap[0].Reactions) != 1 {
		t.Fatalf("replace did not take: %+v", snap)
	}

	// Evicted or never-cached ids are skipped; history is a cache, not
	// the source of truth.
	h.Replace("r1", "ghost", Message{MsgID: "ghost"})
	if snap := h.Snapshot("r1"); len(snap) != 1 {
		t.Fatalf("replace of absent id must be a no-op: %+v", snap)
	}
}

func TestHistoryBufferUnknownRoom(t *testing.T) {
	h := NewHistoryBuffer(3)

	if snap := h.Snapshot("nowhere"); snap == nil || len(snap) != 0 {
		t.Fatalf("unknown room must yield empty snapshot, got %#v", snap)
	}
}

func TestHistoryBufferRoomsIndependent(t *testing.T) {
	h := NewHistoryBuffer(2)
	h.Append("r1", Message{MsgID: "a"})
	h.Append("r2", Message{MsgID: "b"})

	if len(h.Snapshot("r1")) != 1 || len(h.Snapshot("r2")) != 1 {
		t.Fatal("rooms must not share entries")
	}
}
