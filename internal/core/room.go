package core

import "context"

// Room owns the live connections of one chatroom and the serialized
// task queue all room-scoped state changes run on. Running every
// mutation as a queued task keeps admit/depart/history updates atomic
// with respect to each other without read-then-write races across I/O
// suspension points.
type Room struct {
	ID      string
	clients map[*Client]struct{}
	tasks   chan func()
	closed  chan struct{}
}

// NewRoom constructs a room with no clients.
func NewRoom(id string) *Room {
	return &Room{
		ID:      id,
		clients: make(map[*Client]struct{}),
		tasks:   make(chan func(), 32),
		closed:  make(chan struct{}),
	}
}

// run executes queued tasks in FIFO order until ctx is cancelled.
func (r *Room) run(ctx context.Context) {
	defer close(r.closed)
	for {
		select {
		case task := <-r.tasks:
			task()
		case <-ctx.Done():
			return
		}
	}
}

// do submits a task to the room's queue and waits for it to finish.
// Tasks submitted after shutdown are dropped.
func (r *Room) do(task func()) {
	done := make(chan struct{})
	select {
	case r.tasks <- func() {
		task()
		close(done)
	}:
	case <-r.closed:
		return
	}
	select {
	case <-done:
	case <-r.closed:
	}
}

// AddClient inserts a client into the room. Returns true if newly added.
func (r *Room) AddClient(c *Client) bool {
	if _, exists := r.clients[c]; exists {
		return false
	}
	r.clients[c] = struct{}{}
	return true
}

// RemoveClient deletes a client from the room. Returns true if removed.
func (r *Room) RemoveClient(c *Client) bool {
	if _, exists := r.clients[c]; !exists {
		return false
	}
	delete(r.clients, c)
	return true
}

// Broadcast fans an event out to the room's clients, skipping except
// when non-nil.
func (r *Room) Broadcast(event *Event, except *Client) {
	for client := range r.clients {
		if client == except {
			continue
		}
		select {
		case client.Events <- event:
		default:
			// Drop if slow consumer.
		}
	}
}

// Empty returns true if no clients are in the room.
func (r *Room) Empty() bool {
	return len(r.clients) == 0
}
