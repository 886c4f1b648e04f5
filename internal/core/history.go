package core

import "sync"

// DefaultHistoryLimit bounds per-room history when no limit is configured.
const DefaultHistoryLimit = 20

// HistoryBuffer is a bounded per-room FIFO cache of recent messages.
// It is a cache, not the source of truth: the persisted store remains
// authoritative for anything older than the window.
type HistoryBuffer struct {
	mu    sync.RWMutex
	limit int
	rooms map[string][]Message
}

// NewHistoryBuffer constructs a buffer holding at most limit messages
// per room.
func NewHistoryBuffer(limit int) *HistoryBuffer {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &HistoryBuffer{
		limit: limit,
		rooms: make(map[string][]Message),
	}
}

// Append pushes a message to the room's tail, evicting the oldest entry
// once the limit is exceeded.
func (h *HistoryBuffer) Append(roomID string, msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	entries := append(h.rooms[roomID], msg)
	if len(entries) > h.limit {
		entries = entries[1:]
	}
	h.rooms[roomID] = entries
}

// Replace swaps the cached entry with the given msg_id. Messages that
// have already been evicted are silently skipped.
func (h *HistoryBuffer) Replace(roomID, msgID string, msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	entries := h.rooms[roomID]
	for i := range entries {
		if entries[i].MsgID == msgID {
			entries[i] = msg
			return
		}
	}
}

// Snapshot returns the room's entries oldest first. Unknown rooms yield
// an empty slice, never an error.
func (h *HistoryBuffer) Snapshot(roomID string) []Message {
	h.mu.RLock()
	defer h.mu.RUnlock()

	entries := h.rooms[roomID]
	out := make([]Message, len(entries))
	copy(out, entries)
	return out
}
