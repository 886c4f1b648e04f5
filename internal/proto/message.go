package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeJoin     = "join"
	InboundTypeChat     = "chat"
	InboundTypeReaction = "reaction"

	OutboundTypeWhoami     = "whoami"
	OutboundTypeHistory    = "show_latest_chat"
	OutboundTypeTopics     = "show_topics"
	OutboundTypeRoster     = "show_connected_users"
	OutboundTypeRoomInfo   = "room_info"
	OutboundTypeUserJoined = "user_joined"
	OutboundTypeMessage    = "message"
	OutboundTypeUserLeft   = "user_left"
	OutboundTypeError      = "error"
)

// JoinData carries the signed join credential.
type JoinData struct {
	Token string `json:"token"`
}

// ChatData is a chat message from the client. Msg is opaque structured
// content passed through untouched.
type ChatData struct {
	MsgID string          `json:"msg_id"`
	Msg   json.RawMessage `json:"msg"`
}

// ReactionData toggles or switches an emoji reaction on a stored message.
type ReactionData struct {
	MsgID string `json:"msg_id"`
	Emoji string `json:"emoji"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// WireUser is a participant identity on the wire.
type WireUser struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Photo  string `json:"photo,omitempty"`
}

// WireReaction is one reaction entry on the wire.
type WireReaction struct {
	Emoji string   `json:"emoji"`
	User  WireUser `json:"user"`
}

// WireMessage is a chat message on the wire, also used to carry updated
// reaction sets.
type WireMessage struct {
	MsgID     string          `json:"msg_id"`
	Sender    WireUser        `json:"sender"`
	Msg       json.RawMessage `json:"msg,omitempty"`
	Reactions []WireReaction  `json:"reactions"`
	Posted    int64           `json:"posted"`
}

// RoomInfoData is the room metadata sent after a successful join.
type RoomInfoData struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ChatbotID string `json:"chatbot_id"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
