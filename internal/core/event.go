package core

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventWhoami echoes the admitted identity back to the connection.
	EventWhoami EventKind = iota
	// EventHistory replays the recent-message cache to a new joiner.
	EventHistory
	// EventTopics delivers the room's suggested chatbot topics.
	EventTopics
	// EventRoster delivers the room's current participant list.
	EventRoster
	// EventRoomInfo delivers room metadata to a new joiner.
	EventRoomInfo
	// EventUserJoined notifies a room about a new participant.
	EventUserJoined
	// EventMessage carries a chat message or an updated reaction set.
	EventMessage
	// EventUserLeft notifies a room about a departed participant.
	EventUserLeft
	// EventError notifies a client about a domain error.
	EventError
)

// RoomInfo is the metadata sent to a connection after it joins.
type RoomInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ChatbotID string `json:"chatbot_id"`
}

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind         EventKind
	Room         string
	User         Participant   // EventWhoami, EventUserJoined, EventUserLeft
	Message      *Message      // EventMessage
	Messages     []Message     // EventHistory
	Participants []Participant // EventRoster
	Topics       []string      // EventTopics
	Info         *RoomInfo     // EventRoomInfo
	Error        *CoreError    // EventError
}
