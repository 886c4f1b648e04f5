package http

import (
	"encoding/json"

	"github.com/roomhub/roomhub-server/internal/core"
	"github.com/roomhub/roomhub-server/internal/proto"
)

func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error, error) {
	switch inbound.Type {
	case proto.InboundTypeJoin:
		var join proto.JoinData
		if err := json.Unmarshal(inbound.Data, &join); err != nil {
			return nil, nil, err
		}
		if join.Token == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "token is required"}, nil
		}
		return &core.Command{
			Kind:  core.CommandJoin,
			Token: join.Token,
		}, nil, nil
	case proto.InboundTypeChat:
		var chat proto.ChatData
		if err := json.Unmarshal(inbound.Data, &chat); err != nil {
			return nil, nil, err
		}
		if chat.MsgID == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "msg_id is required"}, nil
		}
		return &core.Command{
			Kind:    core.CommandSendChat,
			MsgID:   chat.MsgID,
			Payload: chat.Msg,
		}, nil, nil
	case proto.InboundTypeReaction:
		var reaction proto.ReactionData
		if err := json.Unmarshal(inbound.Data, &reaction); err != nil {
			return nil, nil, err
		}
		if reaction.MsgID == "" || reaction.Emoji == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "msg_id and emoji are required"}, nil
		}
		return &core.Command{
			Kind:  core.CommandSendReaction,
			MsgID: reaction.MsgID,
			Emoji: reaction.Emoji,
		}, nil, nil
	default:
		return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "unknown message type"}, nil
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventWhoami:
		return proto.Outbound{
			Type: proto.OutboundTypeWhoami,
			Data: wireUser(event.User),
		}
	case core.EventHistory:
		messages := make([]proto.WireMessage, 0, len(event.Messages))
		for i := range event.Messages {
			messages = append(messages, wireMessage(&event.Messages[i]))
		}
		return proto.Outbound{
			Type: proto.OutboundTypeHistory,
			Data: messages,
		}
	case core.EventTopics:
		topics := event.Topics
		if topics == nil {
			topics = []string{}
		}
		return proto.Outbound{
			Type: proto.OutboundTypeTopics,
			Data: topics,
		}
	case core.EventRoster:
		users := make([]proto.WireUser, 0, len(event.Participants))
		for _, p := range event.Participants {
			users = append(users, wireUser(p))
		}
		return proto.Outbound{
			Type: proto.OutboundTypeRoster,
			Data: users,
		}
	case core.EventRoomInfo:
		return proto.Outbound{
			Type: proto.OutboundTypeRoomInfo,
			Data: proto.RoomInfoData{
				ID:        event.Info.ID,
				Name:      event.Info.Name,
				ChatbotID: event.Info.ChatbotID,
			},
		}
	case core.EventUserJoined:
		return proto.Outbound{
			Type: proto.OutboundTypeUserJoined,
			Data: wireUser(event.User),
		}
	case core.EventMessage:
		return proto.Outbound{
			Type: proto.OutboundTypeMessage,
			Data: wireMessage(event.Message),
		}
	case core.EventUserLeft:
		return proto.Outbound{
			Type: proto.OutboundTypeUserLeft,
			Data: wireUser(event.User),
		}
	case core.EventError:
		return proto.Outbound{
			Type: proto.OutboundTypeError,
			Error: &proto.Error{
				Code: event.Error.Code,
				Msg:  event.Error.Message,
			},
		}
	default:
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: core.ErrCodeBadRequest, Msg: "unmapped event"},
		}
	}
}

func wireUser(p core.Participant) proto.WireUser {
	return proto.WireUser{
		UserID: p.ID,
		Name:   p.Name,
		Role:   string(p.Role),
		Photo:  p.Avatar,
	}
}

func wireMessage(m *core.Message) proto.WireMessage {
	reactions := make([]proto.WireReaction, 0, len(m.Reactions))
	for _, r := range m.Reactions {
		reactions = append(reactions, proto.WireReaction{
			Emoji: r.Emoji,
			User:  wireUser(r.User),
		})
	}
	return proto.WireMessage{
		MsgID:     m.MsgID,
		Sender:    wireUser(m.Sender),
		Msg:       m.Payload,
		Reactions: reactions,
		Posted:    m.Posted.UnixMilli(),
	}
}
