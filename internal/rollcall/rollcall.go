package rollcall

import (
	"context"
	"fmt"

	"github.com/zulandar/tenco/internal/slack"
)

// Service coordinates roll calls against one Slack workspace. It holds no
// roll-call state: every request re-derives what it needs from the
// workspace and the tracking message.
type Service struct {
	api    slack.API
	selfID string
	locks  *messageLocks
}

// NewService resolves the bot's own identity once and returns a Service
// bound to it. The identity is used to recognize tracking messages the bot
// itself posted.
func NewService(ctx context.Context, api slack.API) (*Service, error) {
	selfID, err := api.OwnID(ctx)
	if err != nil {
		return nil, fmt.Errorf("rollcall: resolve own identity: %w", err)
	}
	return &Service{api: api, selfID: selfID, locks: newMessageLocks()}, nil
}

// SelfID returns the bot user ID the service resolved at construction.
func (s *Service) SelfID() string { return s.selfID }
