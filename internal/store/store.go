package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("not found")

// Occupancy holds per-role connection counts for a room.
type Occupancy struct {
	Viewers int `bson:"viewers" json:"viewers"`
	Users   int `bson:"users" json:"users"`
	Agents  int `bson:"agents" json:"agents"`
	Bots    int `bson:"bots" json:"bots"`
}

// Get returns the count for a role name. Unknown roles map to viewers.
func (o Occupancy) Get(role string) int {
	switch role {
	case "user":
		return o.Users
	case "agent":
		return o.Agents
	case "bot":
		return o.Bots
	default:
		return o.Viewers
	}
}

// Add adjusts the count for a role name by delta, floored at zero.
func (o *Occupancy) Add(role string, delta int) {
	bump := func(n int) int {
		if n += delta; n > 0 {
			return n
		}
		return 0
	}
	switch role {
	case "user":
		o.Users = bump(o.Users)
	case "agent":
		o.Agents = bump(o.Agents)
	case "bot":
		o.Bots = bump(o.Bots)
	default:
		o.Viewers = bump(o.Viewers)
	}
}

// Room is the persisted chatroom document.
type Room struct {
	ID        string    `bson:"_id" json:"id"`
	Name      string    `bson:"chatroom_name" json:"name"`
	ChatbotID string    `bson:"chatbot_id" json:"chatbot_id"`
	Capacity  Occupancy `bson:"capacity" json:"capacity"`
	InSession Occupancy `bson:"in_session" json:"in_session"`
}

// BotPrefs describes the automated participant configured for a chatbot.
type BotPrefs struct {
	Name      string `bson:"name" json:"name"`
	Avatar    string `bson:"avatar" json:"avatar"`
	Processor string `bson:"processor" json:"processor"`
}

// ChatbotPrefs is the preferences block of a chatbot document.
type ChatbotPrefs struct {
	Bot BotPrefs `bson:"bot" json:"bot"`
}

// Chatbot is the persisted chatbot configuration document.
type Chatbot struct {
	ID          string       `bson:"_id" json:"id"`
	Name        string       `bson:"chatbot_name" json:"name"`
	Topics      []string     `bson:"topics" json:"topics"`
	Preferences ChatbotPrefs `bson:"preferences" json:"preferences"`
}

// ProcessorName returns the name published in bot-dispatch notifications.
// The explicit processor wins over the display name when configured.
func (c *Chatbot) ProcessorName() string {
	if c.Preferences.Bot.Processor != "" {
		return c.Preferences.Bot.Processor
	}
	return c.Preferences.Bot.Name
}

// Token is a join-token record issued by the external auth service.
type Token struct {
	TokenID string `bson:"token_id" json:"token_id"`
}

// Sender mirrors the participant identity embedded in message documents.
type Sender struct {
	UserID string `bson:"user_id" json:"user_id"`
	Name   string `bson:"name" json:"name"`
	Role   string `bson:"role" json:"role"`
	Photo  string `bson:"photo,omitempty" json:"photo,omitempty"`
}

// Reaction is a single emoji reaction on a persisted message.
type Reaction struct {
	Emoji string `bson:"emoji" json:"emoji"`
	User  Sender `bson:"user" json:"user"`
}

// Message is the persisted chat message document.
type Message struct {
	MsgID     string          `bson:"msg_id" json:"msg_id"`
	AccountID string          `bson:"account_id,omitempty" json:"account_id,omitempty"`
	ChatbotID string          `bson:"chatbot_id,omitempty" json:"chatbot_id,omitempty"`
	RoomID    string          `bson:"chatroom_id" json:"chatroom_id"`
	Sender    Sender          `bson:"sender" json:"sender"`
	Payload   json.RawMessage `bson:"msg" json:"msg"`
	Reactions []Reaction      `bson:"reactions" json:"reactions"`
	Posted    time.Time       `bson:"posted" json:"posted"`
}

// RoomStore handles chatroom persistence.
type RoomStore interface {
	// GetRoom retrieves a chatroom document by ID.
	GetRoom(ctx context.Context, id string) (*Room, error)

	// SaveInSession writes back a room's occupancy counters.
	SaveInSession(ctx context.Context, id string, in Occupancy) error
}

// ChatbotStore handles chatbot configuration reads.
type ChatbotStore interface {
	// GetChatbot retrieves a chatbot document by ID.
	GetChatbot(ctx context.Context, id string) (*Chatbot, error)
}

// TokenStore handles join-token lookups.
type TokenStore interface {
	// FindToken retrieves a join-token record by its token_id claim.
	FindToken(ctx context.Context, tokenID string) (*Token, error)
}

// MessageStore handles message persistence.
type MessageStore interface {
	// SaveMessage persists a message document.
	SaveMessage(ctx context.Context, msg *Message) error

	// GetMessage retrieves a message by its external msg_id.
	GetMessage(ctx context.Context, msgID string) (*Message, error)

	// UpdateReactions overwrites the reaction set of a message.
	UpdateReactions(ctx context.Context, msgID string, reactions []Reaction) error
}

// Store aggregates all storage interfaces.
type Store interface {
	RoomStore
	ChatbotStore
	TokenStore
	MessageStore

	// Close releases the underlying database connection.
	Close(ctx context.Context) error
}
