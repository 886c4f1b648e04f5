package core

// ApplyReaction reconciles one reaction event against a message's
// reaction set. Matching is by the reacting participant's identity, not
// by emoji:
//   - no prior reaction from user: append {emoji, user}
//   - prior reaction with the same emoji: remove it (toggle off)
//   - prior reaction with a different emoji: switch it to emoji
//
// The result keeps at most one reaction per participant per message.
// The message is mutated in place.
func ApplyReaction(msg *Message, emoji string, user Participant) {
	for i, r := range msg.Reactions {
		if r.User.ID != user.ID {
			continue
		}
		if r.Emoji == emoji {
			msg.Reactions = append(msg.Reactions[:i], msg.Reactions[i+1:]...)
		} else {
			msg.Reactions[i].Emoji = emoji
		}
		return
	}
	msg.Reactions = append(msg.Reactions, Reaction{Emoji: emoji, User: user})
}
