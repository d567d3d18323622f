package rollcall

import (
	"context"
	"fmt"
	"sync"

	slackapi "github.com/slack-go/slack"

	"github.com/zulandar/tenco/internal/slack"
)

// mockAPI implements slack.API for tests. Posted messages, updates, and
// opened views are recorded. Updates are applied back to the stored message
// so sequential reads observe them, unless staleReads is set — that mode
// models a second delivery reading before the first write landed.
type mockAPI struct {
	mu sync.Mutex

	selfID  string
	selfErr error

	users    []slack.Member
	usersErr error

	channelMembers map[string][]string
	membersErr     error

	messages   map[string]*slack.Message
	getErr     error
	getCalls   int
	staleReads bool

	posted  []postedMessage
	postErr error

	updates   []updatedMessage
	updateErr error

	views   []openedView
	openErr error
}

type postedMessage struct {
	channelID string
	blocks    []slackapi.Block
}

type updatedMessage struct {
	channelID string
	timestamp string
	blocks    []slackapi.Block
}

type openedView struct {
	triggerID string
	view      slackapi.ModalViewRequest
}

func newMockAPI() *mockAPI {
	return &mockAPI{
		selfID:         "UBOT",
		channelMembers: make(map[string][]string),
		messages:       make(map[string]*slack.Message),
	}
}

func msgKey(channelID, timestamp string) string { return channelID + "/" + timestamp }

func (m *mockAPI) setMessage(channelID, timestamp string, ids ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages[msgKey(channelID, timestamp)] = &slack.Message{Blocks: NoticeBlocks(ids)}
}

func (m *mockAPI) OwnID(ctx context.Context) (string, error) {
	return m.selfID, m.selfErr
}

func (m *mockAPI) UsersList(ctx context.Context) ([]slack.Member, error) {
	if m.usersErr != nil {
		return nil, m.usersErr
	}
	return m.users, nil
}

func (m *mockAPI) ConversationMembers(ctx context.Context, channelID string) ([]string, error) {
	if m.membersErr != nil {
		return nil, m.membersErr
	}
	return m.channelMembers[channelID], nil
}

func (m *mockAPI) PostMessage(ctx context.Context, channelID string, blocks []slackapi.Block) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.postErr != nil {
		return "", m.postErr
	}
	m.posted = append(m.posted, postedMessage{channelID: channelID, blocks: blocks})
	return fmt.Sprintf("1700000000.%06d", len(m.posted)), nil
}

func (m *mockAPI) UpdateMessage(ctx context.Context, channelID, timestamp string, blocks []slackapi.Block) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updates = append(m.updates, updatedMessage{channelID: channelID, timestamp: timestamp, blocks: blocks})
	if !m.staleReads {
		m.messages[msgKey(channelID, timestamp)] = &slack.Message{Blocks: blocks}
	}
	return nil
}

func (m *mockAPI) OpenView(ctx context.Context, triggerID string, view slackapi.ModalViewRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.openErr != nil {
		return m.openErr
	}
	m.views = append(m.views, openedView{triggerID: triggerID, view: view})
	return nil
}

func (m *mockAPI) GetMessage(ctx context.Context, channelID, timestamp string) (*slack.Message, error) {
	m.mu.Lock()
	m.getCalls++
	err := m.getErr
	var msg *slack.Message
	if stored, ok := m.messages[msgKey(channelID, timestamp)]; ok {
		clone := *stored
		msg = &clone
	}
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, &slack.APIError{Method: "conversations.history", Err: fmt.Errorf("message not found")}
	}
	return msg, nil
}

func (m *mockAPI) getCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getCalls
}

func (m *mockAPI) updateCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.updates)
}

func (m *mockAPI) lastUpdate() updatedMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updates[len(m.updates)-1]
}

// decodeBlocks returns the pending set encoded in a recorded message body.
func decodeBlocks(blocks []slackapi.Block) []string {
	return DecodeMentions(FirstSectionText(&slack.Message{Blocks: blocks}))
}

func newTestService(m *mockAPI) *Service {
	svc, err := NewService(context.Background(), m)
	if err != nil {
		panic(err)
	}
	return svc
}
