package core

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/roomhub/roomhub-server/internal/broker"
	"github.com/roomhub/roomhub-server/internal/store"
)

// JoinClaims is the decoded credential a connection presents when
// joining. Issuance and signing live in the external auth service; the
// hub only consumes the claim set.
type JoinClaims struct {
	RoomID      string
	TokenID     string
	AccountNum  string
	ChatbotNum  string
	Participant Participant
}

// CredentialValidator decodes and verifies a signed join credential.
type CredentialValidator interface {
	Validate(token string) (*JoinClaims, error)
}

// Hub orchestrates connection lifecycle, capacity gating, history and
// reaction reconciliation for all rooms in this shard. It is the only
// stateful controller; every room-scoped mutation runs on that room's
// serialized task queue.
type Hub struct {
	store     store.Store
	validator CredentialValidator
	gate      *CapacityGate
	registry  *SessionRegistry
	history   *HistoryBuffer
	trigger   *BotDispatchTrigger
	log       *zerolog.Logger

	runCtx context.Context

	mu    sync.Mutex
	rooms map[string]*Room
}

// NewHub constructs a hub over the given collaborators. Room task loops
// started by the hub stop when ctx is cancelled. historyLimit bounds
// the per-room message cache.
func NewHub(ctx context.Context, st store.Store, validator CredentialValidator, publisher broker.Publisher, historyLimit int, logger *zerolog.Logger) *Hub {
	return &Hub{
		store:     st,
		validator: validator,
		gate:      NewCapacityGate(st),
		registry:  NewSessionRegistry(),
		history:   NewHistoryBuffer(historyLimit),
		trigger:   NewBotDispatchTrigger(publisher, logger),
		log:       logger,
		runCtx:    ctx,
		rooms:     make(map[string]*Room),
	}
}

// roomFor returns the room's task loop, starting it lazily on first use.
func (h *Hub) roomFor(roomID string) *Room {
	h.mu.Lock()
	defer h.mu.Unlock()

	room := h.rooms[roomID]
	if room == nil {
		room = NewRoom(roomID)
		go room.run(h.runCtx)
		h.rooms[roomID] = room
	}
	return room
}

func (h *Hub) ctx() context.Context {
	return h.runCtx
}

// RegisterClient starts consuming the client's commands. Per-connection
// commands are handled in arrival order; commands for different rooms
// interleave freely.
func (h *Hub) RegisterClient(c *Client) {
	go func() {
		defer close(c.pumpDone)
		for cmd := range c.Commands {
			h.handle(c, cmd)
		}
	}()
}

// UnregisterClient finalizes a departed connection: occupancy is
// released, the room is notified, and the client's event channel is
// closed. The caller must close the client's command channel first.
// Unregistering a connection that never joined, or one already removed,
// is a no-op.
func (h *Hub) UnregisterClient(c *Client) {
	<-c.pumpDone

	if roomID, ok := h.registry.RoomFor(c.ID); ok {
		room := h.roomFor(roomID)
		room.do(func() {
			h.handleDepart(room, c)
		})
	}
	close(c.Events)
}

func (h *Hub) handle(c *Client, cmd *Command) {
	if c.state == stateDeparted {
		// Terminal; late events for this connection are dropped.
		return
	}

	switch cmd.Kind {
	case CommandJoin:
		h.handleJoin(c, cmd.Token)
	case CommandSendChat:
		h.handleChat(c, cmd.MsgID, cmd.Payload)
	case CommandSendReaction:
		h.handleReaction(c, cmd.MsgID, cmd.Emoji)
	default:
		h.send(c, errorEvent(coreError(ErrCodeBadRequest, "unknown command")))
	}
}

func (h *Hub) handleJoin(c *Client, token string) {
	if c.state == stateActive {
		h.send(c, errorEvent(coreError(ErrCodeBadRequest, "already joined")))
		return
	}

	claims, err := h.validator.Validate(token)
	if err != nil {
		h.log.Debug().Err(err).Str("conn_id", c.ID).Msg("credential rejected")
		c.state = stateDeparted
		h.send(c, errorEvent(coreError(ErrCodeAuthFailed, "invalid or expired token")))
		return
	}

	ctx := h.ctx()
	if _, err := h.store.FindToken(ctx, claims.TokenID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.log.Debug().Str("conn_id", c.ID).Str("token_id", claims.TokenID).Msg("join token not on record")
			c.state = stateDeparted
			h.send(c, errorEvent(coreError(ErrCodeAuthFailed, "invalid or expired token")))
			return
		}
		// A storage outage is not an auth verdict; the connection may
		// retry once the store recovers.
		h.log.Error().Err(err).Str("conn_id", c.ID).Msg("token lookup failed")
		h.send(c, errorEvent(coreError(ErrCodePersistenceFailure, "join unavailable")))
		return
	}

	room := h.roomFor(claims.RoomID)
	room.do(func() {
		h.admit(ctx, room, c, claims)
	})
}

// admit runs on the room's task queue.
func (h *Hub) admit(ctx context.Context, room *Room, c *Client, claims *JoinClaims) {
	p := claims.Participant

	admitted, record, err := h.gate.TryAdmit(ctx, room.ID, p.Role)
	if errors.Is(err, ErrRoomNotFound) {
		c.state = stateDeparted
		h.send(c, errorEvent(coreError(ErrCodeRoomNotFound, "chatroom not found")))
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("room_id", room.ID).Msg("admit failed")
		h.send(c, errorEvent(coreError(ErrCodePersistenceFailure, "chatroom unavailable")))
		return
	}
	if !admitted {
		c.state = stateDeparted
		h.send(c, errorEvent(coreError(ErrCodeRoomFull, "chatroom is full")))
		return
	}

	var topics []string
	processor := ""
	if record.ChatbotID != "" {
		if chatbot, err := h.store.GetChatbot(ctx, record.ChatbotID); err == nil {
			topics = chatbot.Topics
			processor = chatbot.ProcessorName()
		} else {
			h.log.Warn().Err(err).Str("chatbot_id", record.ChatbotID).Msg("chatbot lookup failed")
		}
	}

	h.trigger.OnAdmit(ctx, room.ID, p.Role, record.InSession.Get(string(p.Role)), record.Capacity.Bots, processor)

	h.registry.Register(room.ID, c.ID, p)
	room.AddClient(c)
	c.state = stateActive
	c.room = room.ID
	c.participant = p
	c.accountNum = claims.AccountNum
	c.chatbotNum = claims.ChatbotNum

	h.send(c, &Event{Kind: EventWhoami, Room: room.ID, User: p})
	h.send(c, &Event{Kind: EventHistory, Room: room.ID, Messages: h.history.Snapshot(room.ID)})
	h.send(c, &Event{Kind: EventTopics, Room: room.ID, Topics: topics})
	h.send(c, &Event{Kind: EventRoster, Room: room.ID, Participants: h.registry.Participants(room.ID)})
	h.send(c, &Event{Kind: EventRoomInfo, Room: room.ID, Info: &RoomInfo{
		ID:        room.ID,
		Name:      record.Name,
		ChatbotID: record.ChatbotID,
	}})

	room.Broadcast(&Event{Kind: EventUserJoined, Room: room.ID, User: p}, c)

	h.log.Info().
		Str("room_id", room.ID).
		Str("user_id", p.ID).
		Str("role", string(p.Role)).
		Msg("participant joined")
}

func (h *Hub) handleChat(c *Client, msgID string, payload json.RawMessage) {
	if c.state != stateActive {
		h.send(c, errorEvent(coreError(ErrCodeBadRequest, "not joined to a room")))
		return
	}

	msg := Message{
		MsgID:   msgID,
		Sender:  c.participant,
		Payload: payload,
		Posted:  time.Now().UTC(),
	}

	ctx := h.ctx()
	room := h.roomFor(c.room)
	room.do(func() {
		if err := h.store.SaveMessage(ctx, msg.toRecord(room.ID, c.accountNum, c.chatbotNum)); err != nil {
			h.log.Error().Err(err).Str("room_id", room.ID).Str("msg_id", msgID).Msg("persist message failed")
			h.send(c, errorEvent(coreError(ErrCodePersistenceFailure, "message sending failed")))
			return
		}

		h.history.Append(room.ID, msg)
		room.Broadcast(&Event{Kind: EventMessage, Room: room.ID, Message: &msg}, c)
	})
}

func (h *Hub) handleReaction(c *Client, msgID, emoji string) {
	if c.state != stateActive {
		h.send(c, errorEvent(coreError(ErrCodeBadRequest, "not joined to a room")))
		return
	}

	ctx := h.ctx()
	room := h.roomFor(c.room)
	room.do(func() {
		record, err := h.store.GetMessage(ctx, msgID)
		if errors.Is(err, store.ErrNotFound) {
			h.send(c, errorEvent(coreError(ErrCodeMessageNotFound, "message not found")))
			return
		}
		if err != nil {
			h.log.Error().Err(err).Str("msg_id", msgID).Msg("load message failed")
			h.send(c, errorEvent(coreError(ErrCodePersistenceFailure, "reaction failed")))
			return
		}

		msg := messageFromRecord(record)
		ApplyReaction(&msg, emoji, c.participant)

		if err := h.store.UpdateReactions(ctx, msgID, reactionsToRecords(msg.Reactions)); err != nil {
			h.log.Error().Err(err).Str("msg_id", msgID).Msg("persist reactions failed")
			h.send(c, errorEvent(coreError(ErrCodePersistenceFailure, "reaction failed")))
			return
		}

		h.history.Replace(room.ID, msgID, msg)
		// Reaction results must reach the sender's own view too.
		room.Broadcast(&Event{Kind: EventMessage, Room: room.ID, Message: &msg}, nil)
	})
}

// handleDepart runs on the room's task queue.
func (h *Hub) handleDepart(room *Room, c *Client) {
	p, err := h.registry.Unregister(room.ID, c.ID)
	if errors.Is(err, ErrNotRegistered) {
		room.RemoveClient(c)
		return
	}

	room.RemoveClient(c)
	c.state = stateDeparted

	if err := h.gate.Release(h.ctx(), room.ID, p.Role); err != nil {
		h.log.Warn().Err(err).Str("room_id", room.ID).Str("role", string(p.Role)).Msg("release occupancy failed")
	}

	room.Broadcast(&Event{Kind: EventUserLeft, Room: room.ID, User: p}, nil)

	h.log.Info().
		Str("room_id", room.ID).
		Str("user_id", p.ID).
		Msg("participant left")
}

// HandleBrokerMessage feeds an externally originated room message
// through the same persist-and-broadcast path as a local chat message.
func (h *Hub) HandleBrokerMessage(payload []byte) {
	var record store.Message
	if err := json.Unmarshal(payload, &record); err != nil {
		h.log.Warn().Err(err).Msg("malformed broker message")
		return
	}
	if record.RoomID == "" {
		h.log.Warn().Msg("broker message without chatroom_id")
		return
	}
	if record.Posted.IsZero() {
		record.Posted = time.Now().UTC()
	}

	ctx := h.ctx()
	room := h.roomFor(record.RoomID)
	room.do(func() {
		if err := h.store.SaveMessage(ctx, &record); err != nil {
			h.log.Error().Err(err).Str("room_id", record.RoomID).Str("msg_id", record.MsgID).Msg("persist broker message failed")
			return
		}

		msg := messageFromRecord(&record)
		h.history.Append(room.ID, msg)
		room.Broadcast(&Event{Kind: EventMessage, Room: room.ID, Message: &msg}, nil)
	})
}

// send delivers an event to one client, dropping it if the client is a
// slow consumer.
func (h *Hub) send(c *Client, ev *Event) {
	select {
	case c.Events <- ev:
	default:
	}
}

func errorEvent(err *CoreError) *Event {
	return &Event{Kind: EventError, Error: err}
}
