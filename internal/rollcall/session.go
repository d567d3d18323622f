package rollcall

import (
	"context"
	"errors"

	slackapi "github.com/slack-go/slack"
)

// ErrNotInChannel reports that the bot is not a member of the target
// channel. It is an informational condition, not a failure: callers turn
// it into a user-visible notice.
var ErrNotInChannel = errors.New("rollcall: bot is not in the channel")

// Identifiers of the member-selection modal. The submission callback
// carries them back, so the handler can locate the selected users without
// any server-side session state.
const (
	ModalCallbackID = "MEMBER_SELECTION_MODAL"
	SelectBlockID   = "multi_users_select_block"
	SelectActionID  = "multi_users_select_action"
)

// Initiate handles a roll-call slash command: verify the bot is in the
// channel, resolve the human roster, and open the member-selection modal
// pre-populated with that roster. The channel ID rides along in the
// modal's private metadata; nothing is kept in process across the UI
// round-trip.
func (s *Service) Initiate(ctx context.Context, triggerID, channelID string) error {
	in, err := s.InChannel(ctx, channelID)
	if err != nil {
		return err
	}
	if !in {
		return ErrNotInChannel
	}

	roster, err := s.HumanMembers(ctx, channelID)
	if err != nil {
		return err
	}
	return s.api.OpenView(ctx, triggerID, memberSelectionModal(channelID, roster))
}

// Publish posts the initial tracking message for the selected members.
// An empty selection is a valid, immediately resolved roll call: the
// message is the all-present notice.
func (s *Service) Publish(ctx context.Context, channelID string, selected []string) error {
	_, err := s.api.PostMessage(ctx, channelID, NoticeBlocks(selected))
	return err
}

// RunScheduled performs one unattended roll call: every human member of the
// channel is tracked. There is no trigger to hang a modal off, so the
// member-selection step is skipped.
func (s *Service) RunScheduled(ctx context.Context, channelID string) error {
	in, err := s.InChannel(ctx, channelID)
	if err != nil {
		return err
	}
	if !in {
		return ErrNotInChannel
	}

	roster, err := s.HumanMembers(ctx, channelID)
	if err != nil {
		return err
	}
	return s.Publish(ctx, channelID, roster)
}

func memberSelectionModal(channelID string, members []string) slackapi.ModalViewRequest {
	selector := slackapi.NewOptionsMultiSelectBlockElement(
		slackapi.MultiOptTypeUser, nil, SelectActionID)
	selector.InitialUsers = members

	label := slackapi.NewTextBlockObject(slackapi.PlainTextType, "参加者(メンションが飛びます)", false, false)
	input := slackapi.NewInputBlock(SelectBlockID, label, nil, selector)

	return slackapi.ModalViewRequest{
		Type:            slackapi.VTModal,
		CallbackID:      ModalCallbackID,
		PrivateMetadata: channelID,
		Title:           slackapi.NewTextBlockObject(slackapi.PlainTextType, "点呼とるやつ", false, false),
		Submit:          slackapi.NewTextBlockObject(slackapi.PlainTextType, "Submit", false, false),
		Close:           slackapi.NewTextBlockObject(slackapi.PlainTextType, "Cancel", false, false),
		Blocks:          slackapi.Blocks{BlockSet: []slackapi.Block{input}},
	}
}
