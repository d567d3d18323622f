package rollcall

import (
	"context"
	"errors"
)

// ReactionEvent is one reaction-added delivery from the events API.
type ReactionEvent struct {
	ChannelID  string // channel holding the reacted-to message
	Timestamp  string // timestamp of the reacted-to message
	ItemUserID string // author of the reacted-to message
	ReactorID  string // member who added the reaction
}

var (
	// ErrMalformedEvent reports a reaction event missing required fields.
	ErrMalformedEvent = errors.New("rollcall: reaction event is missing required fields")
	// ErrNotOurs reports a reaction on a message this bot did not post.
	// Callers treat it as an ignorable condition, not a failure.
	ErrNotOurs = errors.New("rollcall: reacted-to message was not posted by this bot")
)

// ProcessReaction handles one acknowledgement. Any reaction on a tracking
// message counts, regardless of emoji: the reactor is removed from the
// pending set encoded in the message and the message is rewritten in place.
// Removal is idempotent, so a redelivered or repeated reaction is a no-op.
//
// The fetch-modify-write cycle holds a per-message lock: Slack's chat.update
// has no compare-and-swap, so two unserialized cycles on the same message
// could each read the same pending set and the later write would resurrect
// the earlier reactor. The lock closes that window within this process;
// across processes the hazard remains and the last writer wins.
func (s *Service) ProcessReaction(ctx context.Context, ev ReactionEvent) error {
	if ev.ChannelID == "" || ev.Timestamp == "" || ev.ItemUserID == "" || ev.ReactorID == "" {
		return ErrMalformedEvent
	}
	if ev.ItemUserID != s.selfID {
		return ErrNotOurs
	}

	unlock := s.locks.lock(ev.ChannelID, ev.Timestamp)
	defer unlock()
	return s.applyAcknowledgement(ctx, ev)
}

// applyAcknowledgement is the raw read-modify-write cycle. Callers must
// hold the message lock.
func (s *Service) applyAcknowledgement(ctx context.Context, ev ReactionEvent) error {
	msg, err := s.api.GetMessage(ctx, ev.ChannelID, ev.Timestamp)
	if err != nil {
		return err
	}

	pending := DecodeMentions(FirstSectionText(msg))
	remaining := make([]string, 0, len(pending))
	for _, id := range pending {
		if id != ev.ReactorID {
			remaining = append(remaining, id)
		}
	}

	return s.api.UpdateMessage(ctx, ev.ChannelID, ev.Timestamp, NoticeBlocks(remaining))
}
