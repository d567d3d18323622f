// Package slack is a thin wrapper over the Slack Web API exposing only the
// calls the roll-call flow needs, behind an interface that tests can mock.
package slack

import (
	"context"
	"fmt"

	slackapi "github.com/slack-go/slack"
)

// Member is one workspace directory entry.
type Member struct {
	ID    string
	IsBot bool
}

// Message is a fetched channel message: its plain text and Block Kit body.
type Message struct {
	Text   string
	Blocks []slackapi.Block
}

// API abstracts the Slack Web API methods used by the roll-call flow.
type API interface {
	// UsersList returns the workspace member directory. Scope: users:read.
	UsersList(ctx context.Context) ([]Member, error)
	// ConversationMembers returns the user IDs present in a channel.
	// Scope: channels:read.
	ConversationMembers(ctx context.Context, channelID string) ([]string, error)
	// PostMessage posts blocks to a channel and returns the timestamp of the
	// new message. Scope: chat:write.
	PostMessage(ctx context.Context, channelID string, blocks []slackapi.Block) (string, error)
	// UpdateMessage rewrites the message at (channelID, timestamp) in place.
	// Scope: chat:write.
	UpdateMessage(ctx context.Context, channelID, timestamp string, blocks []slackapi.Block) error
	// OpenView opens a modal for the interaction identified by triggerID.
	OpenView(ctx context.Context, triggerID string, view slackapi.ModalViewRequest) error
	// OwnID returns the bot's own user ID via auth.test.
	OwnID(ctx context.Context) (string, error)
	// GetMessage fetches the single message at (channelID, timestamp).
	// Scope: channels:history.
	GetMessage(ctx context.Context, channelID, timestamp string) (*Message, error)
}

// Client implements API against the real Slack Web API.
type Client struct {
	api *slackapi.Client
}

// New creates a Client authenticated with the given bot token (xoxb-...).
func New(botToken string) *Client {
	return &Client{api: slackapi.New(botToken)}
}

// NewFromAPI wraps an existing slack-go client. Tests use this to point the
// wrapper at a local HTTP server.
func NewFromAPI(api *slackapi.Client) *Client {
	return &Client{api: api}
}

func (c *Client) UsersList(ctx context.Context) ([]Member, error) {
	users, err := c.api.GetUsersContext(ctx)
	if err != nil {
		return nil, &APIError{Method: "users.list", Err: err}
	}
	members := make([]Member, len(users))
	for i, u := range users {
		members[i] = Member{ID: u.ID, IsBot: u.IsBot}
	}
	return members, nil
}

func (c *Client) ConversationMembers(ctx context.Context, channelID string) ([]string, error) {
	var all []string
	params := &slackapi.GetUsersInConversationParameters{
		ChannelID: channelID,
		Limit:     200,
	}
	for {
		members, cursor, err := c.api.GetUsersInConversationContext(ctx, params)
		if err != nil {
			return nil, &APIError{
				Method: "conversations.members",
				Params: map[string]string{"channel": channelID},
				Err:    err,
			}
		}
		all = append(all, members...)
		if cursor == "" {
			return all, nil
		}
		params.Cursor = cursor
	}
}

func (c *Client) PostMessage(ctx context.Context, channelID string, blocks []slackapi.Block) (string, error) {
	_, timestamp, err := c.api.PostMessageContext(ctx, channelID, slackapi.MsgOptionBlocks(blocks...))
	if err != nil {
		return "", &APIError{
			Method: "chat.postMessage",
			Params: map[string]string{"channel": channelID},
			Err:    err,
		}
	}
	return timestamp, nil
}

func (c *Client) UpdateMessage(ctx context.Context, channelID, timestamp string, blocks []slackapi.Block) error {
	_, _, _, err := c.api.UpdateMessageContext(ctx, channelID, timestamp, slackapi.MsgOptionBlocks(blocks...))
	if err != nil {
		return &APIError{
			Method: "chat.update",
			Params: map[string]string{"channel": channelID, "ts": timestamp},
			Err:    err,
		}
	}
	return nil
}

func (c *Client) OpenView(ctx context.Context, triggerID string, view slackapi.ModalViewRequest) error {
	if _, err := c.api.OpenViewContext(ctx, triggerID, view); err != nil {
		return &APIError{Method: "views.open", Err: err}
	}
	return nil
}

func (c *Client) OwnID(ctx context.Context) (string, error) {
	resp, err := c.api.AuthTestContext(ctx)
	if err != nil {
		return "", &APIError{Method: "auth.test", Err: err}
	}
	return resp.UserID, nil
}

func (c *Client) GetMessage(ctx context.Context, channelID, timestamp string) (*Message, error) {
	params := &slackapi.GetConversationHistoryParameters{
		ChannelID: channelID,
		Latest:    timestamp,
		Limit:     1,
		Inclusive: true,
	}
	resp, err := c.api.GetConversationHistoryContext(ctx, params)
	if err != nil {
		return nil, &APIError{
			Method: "conversations.history",
			Params: map[string]string{"channel": channelID, "ts": timestamp},
			Err:    err,
		}
	}
	if len(resp.Messages) == 0 {
		return nil, &APIError{
			Method: "conversations.history",
			Params: map[string]string{"channel": channelID, "ts": timestamp},
			Err:    fmt.Errorf("message not found"),
		}
	}
	m := resp.Messages[0]
	return &Message{Text: m.Text, Blocks: m.Blocks.BlockSet}, nil
}
