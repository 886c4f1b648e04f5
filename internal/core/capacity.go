package core

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/roomhub/roomhub-server/internal/store"
)

// CapacityGate validates and atomically adjusts per-role occupancy on
// chatroom records. The persisted counter is the source of truth; the
// gate serializes admit/release per room so concurrent adjustments
// never lose updates. Operations on different rooms are independent.
type CapacityGate struct {
	store store.RoomStore

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewCapacityGate constructs a gate over the given room store.
func NewCapacityGate(st store.RoomStore) *CapacityGate {
	return &CapacityGate{
		store: st,
		locks: make(map[string]*sync.Mutex),
	}
}

func (g *CapacityGate) roomLock(roomID string) *sync.Mutex {
	g.mu.Lock()
	defer g.mu.Unlock()

	l := g.locks[roomID]
	if l == nil {
		l = &sync.Mutex{}
		g.locks[roomID] = l
	}
	return l
}

// TryAdmit admits one connection with the given role if the room has
// remaining capacity for it, incrementing the persisted counter. A
// rejection leaves the room untouched. The room document reflecting the
// post-admit state is returned alongside so callers avoid a second
// fetch; ErrRoomNotFound is returned for unknown rooms.
func (g *CapacityGate) TryAdmit(ctx context.Context, roomID string, role Role) (bool, *store.Room, error) {
	l := g.roomLock(roomID)
	l.Lock()
	defer l.Unlock()

	room, err := g.store.GetRoom(ctx, roomID)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil, ErrRoomNotFound
	}
	if err != nil {
		return false, nil, fmt.Errorf("load room: %w", err)
	}

	if room.InSession.Get(string(role)) >= room.Capacity.Get(string(role)) {
		return false, room, nil
	}

	room.InSession.Add(string(role), 1)
	if err := g.store.SaveInSession(ctx, roomID, room.InSession); err != nil {
		return false, nil, fmt.Errorf("save occupancy: %w", err)
	}
	return true, room, nil
}

// Release decrements the room's counter for the role, floored at zero.
// Releasing against an unknown room returns ErrRoomNotFound without
// mutating anything.
func (g *CapacityGate) Release(ctx context.Context, roomID string, role Role) error {
	l := g.roomLock(roomID)
	l.Lock()
	defer l.Unlock()

	room, err := g.store.GetRoom(ctx, roomID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrRoomNotFound
	}
	if err != nil {
		return fmt.Errorf("load room: %w", err)
	}

	room.InSession.Add(string(role), -1)
	if err := g.store.SaveInSession(ctx, roomID, room.InSession); err != nil {
		return fmt.Errorf("save occupancy: %w", err)
	}
	return nil
}
