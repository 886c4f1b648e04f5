package core

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/roomhub/roomhub-server/internal/broker"
)

// BotDispatchNotice is the payload published when a room needs its bot.
type BotDispatchNotice struct {
	RoomID    string `json:"room_id"`
	Processor string `json:"processor_name"`
}

// BotDispatchTrigger emits a one-shot broker notification on the
// 0 -> non-zero transition of a room's bot occupancy. It is an edge
// trigger, not a level trigger: while bots remain present it stays
// silent, and it re-arms once the count returns to zero.
type BotDispatchTrigger struct {
	publisher broker.Publisher
	log       *zerolog.Logger
}

// NewBotDispatchTrigger constructs a trigger publishing through the
// given broker.
func NewBotDispatchTrigger(p broker.Publisher, logger *zerolog.Logger) *BotDispatchTrigger {
	return &BotDispatchTrigger{publisher: p, log: logger}
}

// OnAdmit observes a successful admit. newCount is the post-admit count
// for the admitted role; botCapacity is the room's configured bot seat
// count. Publishing is fire-and-forget: a broker failure is logged and
// never propagated to the join path.
func (t *BotDispatchTrigger) OnAdmit(ctx context.Context, roomID string, role Role, newCount, botCapacity int, processor string) {
	if role != RoleBot || newCount != 1 || botCapacity <= 0 {
		return
	}

	payload, err := json.Marshal(BotDispatchNotice{RoomID: roomID, Processor: processor})
	if err != nil {
		t.log.Error().Err(err).Str("room_id", roomID).Msg("marshal bot dispatch notice")
		return
	}

	if err := t.publisher.Publish(ctx, broker.TopicBotJoin, payload); err != nil {
		t.log.Warn().Err(err).Str("room_id", roomID).Msg("publish bot dispatch notice")
		return
	}
	t.log.Info().Str("room_id", roomID).Str("processor", processor).Msg("bot dispatch published")
}
