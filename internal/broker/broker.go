package broker

import "context"

// Topics exchanged with the rest of the platform.
const (
	// TopicBotJoin carries one-shot bot-dispatch notifications.
	TopicBotJoin = "bot_join"
	// TopicRoomMessages carries externally originated room messages.
	TopicRoomMessages = "chatroom_messages"
)

// Publisher sends fire-and-forget payloads to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}

// Subscriber delivers inbound payloads for a topic to a handler.
// Handlers run on the subscriber's own goroutine; a handler must not block
// indefinitely or delivery for that topic stalls.
type Subscriber interface {
	Subscribe(topic string, handler func(payload []byte)) error
}

// Broker aggregates both directions of the message-broker contract.
type Broker interface {
	Publisher
	Subscriber

	// Close tears down the broker connection.
	Close() error
}
