package core

import (
	"context"
	"errors"
	"testing"

	"github.com/roomhub/roomhub-server/internal/store"
)

func newTestGate(rooms map[string]*store.Room) (*CapacityGate, *fakeStore) {
	st := newFakeStore()
	for id, room := range rooms {
		st.rooms[id] = room
	}
	return NewCapacityGate(st), st
}

func TestCapacityGateAdmitsUntilFull(t *testing.T) {
	gate, st := newTestGate(map[string]*store.Room{
		"r1": {ID: "r1", Capacity: store.Occupancy{Viewers: 2}},
	})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		admitted, _, err := gate.TryAdmit(ctx, "r1", RoleViewer)
		if err != nil {
			t.Fatalf("admit %d: %v", i, err)
		}
		if !admitted {
			t.Fatalf("admit %d: expected admission", i)
		}
	}

	admitted, _, err := gate.TryAdmit(ctx, "r1", RoleViewer)
	if err != nil {
		t.Fatalf("third admit: %v", err)
	}
	if admitted {
		t.Fatal("expected rejection once capacity is reached")
	}
	if got := st.occupancy("r1").Viewers; got != 2 {
		t.Fatalf("rejection must not mutate the counter: got %d", got)
	}
}

func TestCapacityGateUnknownRoom(t *testing.T) {
	gate, _ := newTestGate(nil)
	ctx := context.Background()

	if _, _, err := gate.TryAdmit(ctx, "ghost", RoleViewer); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
	if err := gate.Release(ctx, "ghost", RoleViewer); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestCapacityGateReleaseFloorsAtZero(t *testing.T) {
	gate, st := newTestGate(map[string]*store.Room{
		"r1": {ID: "r1", Capacity: store.Occupancy{Users: 1}},
	})
	ctx := context.Background()

	if err := gate.Release(ctx, "r1", RoleUser); err != nil {
		t.Fatalf("release: %v", err)
	}
	if got := st.occupancy("r1").Users; got != 0 {
		t.Fatalf("counter went negative: %d", got)
	}
}

func TestCapacityGateReleaseOnlyTargetRole(t *testing.T) {
	gate, st := newTestGate(map[string]*store.Room{
		"r1": {ID: "r1", Capacity: store.Occupancy{Viewers: 3, Agents: 3}},
	})
	ctx := context.Background()

	for _, role := range []Role{RoleViewer, RoleViewer, RoleAgent} {
		if admitted, _, err := gate.TryAdmit(ctx, "r1", role); err != nil || !admitted {
			t.Fatalf("admit %s: admitted=%v err=%v", role, admitted, err)
		}
	}

	if err := gate.Release(ctx, "r1", RoleAgent); err != nil {
		t.Fatalf("release: %v", err)
	}

	in := st.occupancy("r1")
	if in.Agents != 0 || in.Viewers != 2 {
		t.Fatalf("expected agents=0 viewers=2, got %+v", in)
	}
}

func TestCapacityGateRoomsIndependent(t *testing.T) {
	gate, st := newTestGate(map[string]*store.Room{
		"r1": {ID: "r1", Capacity: store.Occupancy{Viewers: 1}},
		"r2": {ID: "r2", Capacity: store.Occupancy{Viewers: 1}},
	})
	ctx := context.Background()

	if admitted, _, _ := gate.TryAdmit(ctx, "r1", RoleViewer); !admitted {
		t.Fatal("r1 admit rejected")
	}
	if admitted, _, _ := gate.TryAdmit(ctx, "r2", RoleViewer); !admitted {
		t.Fatal("r2 admit rejected")
	}
	if st.occupancy("r1").Viewers != 1 || st.occupancy("r2").Viewers != 1 {
		t.Fatal("cross-room occupancy leaked")
	}
}
