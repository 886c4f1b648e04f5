package core

// connState tracks the per-connection lifecycle.
type connState int

const (
	stateUnauthenticated connState = iota
	stateActive
	stateDeparted
)

// Client is a live connection as seen by the core layer. Commands flow
// in from the transport, Events flow out to it. Identity and room are
// filled in by the hub once a join is admitted.
type Client struct {
	ID       string
	Commands chan *Command
	Events   chan *Event

	// Owned by the hub; never touched by the transport.
	state       connState
	room        string
	participant Participant
	accountNum  string
	chatbotNum  string

	pumpDone chan struct{}
}

// NewClient constructs a client with initialized channels.
func NewClient(id string) *Client {
	return &Client{
		ID:       id,
		Commands: make(chan *Command, 8),
		Events:   make(chan *Event, 32),
		pumpDone: make(chan struct{}),
	}
}
