package core

import "sync"

type roomSession struct {
	order   []string
	members map[string]Participant
}

// SessionRegistry maps live connections to participant identities, per
// room. Room sessions are created lazily on first registration and left
// empty rather than torn down; an empty room is a no-op steady state.
type SessionRegistry struct {
	mu    sync.RWMutex
	rooms map[string]*roomSession
	index map[string]string // connection id -> room id
}

// NewSessionRegistry constructs an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		rooms: make(map[string]*roomSession),
		index: make(map[string]string),
	}
}

// Register inserts the connection -> participant mapping for a room.
func (r *SessionRegistry) Register(roomID, connID string, p Participant) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess := r.rooms[roomID]
	if sess == nil {
		sess = &roomSession{members: make(map[string]Participant)}
		r.rooms[roomID] = sess
	}
	if _, exists := sess.members[connID]; !exists {
		sess.order = append(sess.order, connID)
	}
	sess.members[connID] = p
	r.index[connID] = roomID
}

// Unregister removes a connection from a room and returns the departing
// identity. Returns ErrNotRegistered when the connection is unknown,
// which callers treat as an idempotent no-op.
func (r *SessionRegistry) Unregister(roomID, connID string) (Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess := r.rooms[roomID]
	if sess == nil {
		return Participant{}, ErrNotRegistered
	}
	p, ok := sess.members[connID]
	if !ok {
		return Participant{}, ErrNotRegistered
	}

	delete(sess.members, connID)
	delete(r.index, connID)
	for i, id := range sess.order {
		if id == connID {
			sess.order = append(sess.order[:i], sess.order[i+1:]...)
			break
		}
	}
	return p, nil
}

// Participants lists a room's identities in insertion order.
func (r *SessionRegistry) Participants(roomID string) []Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sess := r.rooms[roomID]
	if sess == nil {
		return nil
	}
	out := make([]Participant, 0, len(sess.order))
	for _, connID := range sess.order {
		out = append(out, sess.members[connID])
	}
	return out
}

// RoomFor resolves the room a connection is registered in, so callers
// need not track membership themselves.
func (r *SessionRegistry) RoomFor(connID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roomID, ok := r.index[connID]
	return roomID, ok
}
