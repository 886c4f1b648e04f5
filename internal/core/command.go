package core

import "encoding/json"

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandJoin attaches the connection to a room using a signed credential.
	CommandJoin CommandKind = iota
	// CommandSendChat posts a chat message to the client's room.
	CommandSendChat
	// CommandSendReaction toggles or switches a reaction on a stored message.
	CommandSendReaction
)

// Command represents an action requested by a client.
type Command struct {
	Kind    CommandKind
	Token   string          // CommandJoin
	MsgID   string          // CommandSendChat, CommandSendReaction
	Payload json.RawMessage // CommandSendChat
	Emoji   string          // CommandSendReaction
}
