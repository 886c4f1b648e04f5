package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/roomhub/roomhub-server/internal/store"
)

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

func mustNoEvent(t *testing.T, ch <-chan *Event, kind EventKind) {
	t.Helper()

	deadline := time.Now().Add(150 * time.Millisecond)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev != nil && ev.Kind == kind {
				t.Fatalf("unexpected event kind %v: %+v", kind, ev)
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
}

func waitPersisted(t *testing.T, st *fakeStore, msgID string) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := st.GetMessage(context.Background(), msgID); err == nil {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("message %q never persisted", msgID)
}

// fakeStore is an in-memory store.Store for hub and gate tests.
type fakeStore struct {
	mu       sync.Mutex
	rooms    map[string]*store.Room
	chatbots map[string]*store.Chatbot
	tokens   map[string]bool
	messages map[string]*store.Message

	failSaves        bool
	failTokenLookups bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		rooms:    make(map[string]*store.Room),
		chatbots: make(map[string]*store.Chatbot),
		tokens:   make(map[string]bool),
		messages: make(map[string]*store.Message),
	}
}

func (s *fakeStore) GetRoom(_ context.Context, id string) (*store.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	clone := *room
	return &clone, nil
}

func (s *fakeStore) SaveInSession(_ context.Context, id string, in store.Occupancy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[id]
	if !ok {
		return store.ErrNotFound
	}
	room.InSession = in
	return nil
}

func (s *fakeStore) GetChatbot(_ context.Context, id string) (*store.Chatbot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bot, ok := s.chatbots[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return bot, nil
}

func (s *fakeStore) FindToken(_ context.Context, tokenID string) (*store.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failTokenLookups {
		return nil, errors.New("storage unavailable")
	}
	if !s.tokens[tokenID] {
		return nil, store.ErrNotFound
	}
	return &store.Token{TokenID: tokenID}, nil
}

func (s *fakeStore) SaveMessage(_ context.Context, msg *store.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSaves {
		return errors.New("storage unavailable")
	}
	clone := *msg
	s.messages[msg.MsgID] = &clone
	return nil
}

func (s *fakeStore) GetMessage(_ context.Context, msgID string) (*store.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg, ok := s.messages[msgID]
	if !ok {
		return nil, store.ErrNotFound
	}
	clone := *msg
	return &clone, nil
}

func (s *fakeStore) UpdateReactions(_ context.Context, msgID string, reactions []store.Reaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSaves {
		return errors.New("storage unavailable")
	}
	msg, ok := s.messages[msgID]
	if !ok {
		return store.ErrNotFound
	}
	msg.Reactions = reactions
	return nil
}

func (s *fakeStore) Close(context.Context) error { return nil }

func (s *fakeStore) occupancy(roomID string) store.Occupancy {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rooms[roomID].InSession
}

// fakePublisher records published payloads per topic.
type fakePublisher struct {
	mu        sync.Mutex
	published map[string][][]byte
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{published: make(map[string][][]byte)}
}

func (p *fakePublisher) Publish(_ context.Context, topic string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published[topic] = append(p.published[topic], payload)
	return nil
}

func (p *fakePublisher) count(topic string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.published[topic])
}

// fakeValidator resolves tokens minted by mintToken.
type fakeValidator struct {
	mu     sync.Mutex
	claims map[string]*JoinClaims
}

func newFakeValidator() *fakeValidator {
	return &fakeValidator{claims: make(map[string]*JoinClaims)}
}

func (v *fakeValidator) Validate(token string) (*JoinClaims, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	claims, ok := v.claims[token]
	if !ok {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

type testHub struct {
	hub       *Hub
	store     *fakeStore
	publisher *fakePublisher
	validator *fakeValidator
	shutdown  context.CancelFunc

	tokenSeq int
}

func newTestHub(t *testing.T) *testHub {
	t.Helper()

	st := newFakeStore()
	pub := newFakePublisher()
	val := newFakeValidator()

	logger := zerolog.Nop()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := NewHub(ctx, st, val, pub, 5, &logger)

	return &testHub{hub: hub, store: st, publisher: pub, validator: val, shutdown: cancel}
}

func (th *testHub) addRoom(roomID string, capacity store.Occupancy) {
	th.store.rooms[roomID] = &store.Room{
		ID:       roomID,
		Name:     "room " + roomID,
		Capacity: capacity,
	}
}

// mintToken registers a token with the validator and the token store
// and returns it.
func (th *testHub) mintToken(roomID string, p Participant) string {
	th.tokenSeq++
	token := fmt.Sprintf("token-%d", th.tokenSeq)
	tokenID := fmt.Sprintf("token-id-%d", th.tokenSeq)

	th.validator.mu.Lock()
	th.validator.claims[token] = &JoinClaims{
		RoomID:      roomID,
		TokenID:     tokenID,
		Participant: p,
	}
	th.validator.mu.Unlock()

	th.store.mu.Lock()
	th.store.tokens[tokenID] = true
	th.store.mu.Unlock()

	return token
}

// connect registers a client and joins it to the room, asserting the
// join succeeded.
func (th *testHub) connect(t *testing.T, connID, roomID string, p Participant) *Client {
	t.Helper()

	c := NewClient(connID)
	th.hub.RegisterClient(c)
	c.Commands <- &Command{Kind: CommandJoin, Token: th.mintToken(roomID, p)}

	ev := mustEvent(t, c.Events, EventWhoami)
	if ev.User.ID != p.ID {
		t.Fatalf("whoami identity mismatch: got %q want %q", ev.User.ID, p.ID)
	}
	return c
}

// disconnect simulates the transport tearing a connection down.
func (th *testHub) disconnect(c *Client) {
	close(c.Commands)
	th.hub.UnregisterClient(c)
}
