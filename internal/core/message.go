package core

import (
	"encoding/json"
	"time"

	"github.com/roomhub/roomhub-server/internal/store"
)

// Reaction is one emoji held by one participant on a message. A
// participant holds at most one reaction per message.
type Reaction struct {
	Emoji string      `json:"emoji"`
	User  Participant `json:"user"`
}

// Message is the domain model for a chat message. MsgID is supplied by
// the sender and unique within a room. Payload is opaque structured
// content the hub never interprets.
type Message struct {
	MsgID     string          `json:"msg_id"`
	Sender    Participant     `json:"sender"`
	Payload   json.RawMessage `json:"msg"`
	Posted    time.Time       `json:"posted"`
	Reactions []Reaction      `json:"reactions"`
}

// toRecord projects a message into its persisted document form.
func (m *Message) toRecord(roomID, accountID, chatbotID string) *store.Message {
	return &store.Message{
		MsgID:     m.MsgID,
		AccountID: accountID,
		ChatbotID: chatbotID,
		RoomID:    roomID,
		Sender:    senderFromParticipant(m.Sender),
		Payload:   m.Payload,
		Reactions: reactionsToRecords(m.Reactions),
		Posted:    m.Posted,
	}
}

func messageFromRecord(rec *store.Message) Message {
	return Message{
		MsgID:     rec.MsgID,
		Sender:    participantFromSender(rec.Sender),
		Payload:   rec.Payload,
		Posted:    rec.Posted,
		Reactions: reactionsFromRecords(rec.Reactions),
	}
}

func senderFromParticipant(p Participant) store.Sender {
	return store.Sender{
		UserID: p.ID,
		Name:   p.Name,
		Role:   string(p.Role),
		Photo:  p.Avatar,
	}
}

func participantFromSender(s store.Sender) Participant {
	return Participant{
		ID:     s.UserID,
		Name:   s.Name,
		Role:   ParseRole(s.Role),
		Avatar: s.Photo,
	}
}

func reactionsToRecords(reactions []Reaction) []store.Reaction {
	out := make([]store.Reaction, 0, len(reactions))
	for _, r := range reactions {
		out = append(out, store.Reaction{
			Emoji: r.Emoji,
			User:  senderFromParticipant(r.User),
		})
	}
	return out
}

func reactionsFromRecords(records []store.Reaction) []Reaction {
	out := make([]Reaction, 0, len(records))
	for _, r := range records {
		out = append(out, Reaction{
			Emoji: r.Emoji,
			User:  participantFromSender(r.User),
		})
	}
	return out
}
