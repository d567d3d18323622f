package rollcall

import "context"

// HumanMembers resolves the channel's current roster: members of the
// channel that appear as non-bot entries in the workspace directory.
// Channel order is preserved and the result is deduplicated defensively,
// even though the upstream lists should already be duplicate-free.
func (s *Service) HumanMembers(ctx context.Context, channelID string) ([]string, error) {
	members, err := s.api.ConversationMembers(ctx, channelID)
	if err != nil {
		return nil, err
	}
	users, err := s.api.UsersList(ctx)
	if err != nil {
		return nil, err
	}

	humans := make(map[string]bool, len(users))
	for _, u := range users {
		if !u.IsBot {
			humans[u.ID] = true
		}
	}

	seen := make(map[string]bool, len(members))
	roster := make([]string, 0, len(members))
	for _, id := range members {
		if humans[id] && !seen[id] {
			seen[id] = true
			roster = append(roster, id)
		}
	}
	return roster, nil
}

// InChannel reports whether the bot itself is a member of the channel.
func (s *Service) InChannel(ctx context.Context, channelID string) (bool, error) {
	members, err := s.api.ConversationMembers(ctx, channelID)
	if err != nil {
		return false, err
	}
	for _, id := range members {
		if id == s.selfID {
			return true, nil
		}
	}
	return false, nil
}
