package history

import (
	"context"
	"sync"

	"hensgen-helper/internal/llm"
	"hensgen-helper/internal/storage"
)

const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Entry is one transcript turn. Roles are not required to alternate.
type Entry struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Manager owns the persisted chat transcript.
type Manager struct {
	mu    sync.Mutex
	value *storage.Value[[]Entry]
}

func NewManager(store storage.Store) *Manager {
	return &Manager{value: storage.NewValue(store, storage.KeyChatHistory, func() []Entry { return []Entry{} })}
}

// Get returns a copy of the transcript.
func (m *Manager) Get(ctx context.Context) []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	es := m.value.Load(ctx)
	out := make([]Entry, len(es))
	copy(out, es)
	return out
}

// AppendPair appends a user turn and the reply it produced, in that order.
func (m *Manager) AppendPair(ctx context.Context, userText, modelText string) error {
	return m.append(ctx, Entry{Role: RoleUser, Text: userText}, Entry{Role: RoleModel, Text: modelText})
}

func (m *Manager) append(ctx context.Context, entries ...Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, err := m.value.Update(ctx, func(cur []Entry) []Entry { return append(cur, entries...) })
	return err
}

func (m *Manager) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value.Save(ctx, []Entry{})
}

// ToLLM maps transcript roles onto chat-completion roles.
func ToLLM(entries []Entry) []llm.Message {
	out := make([]llm.Message, 0, len(entries))
	for _, e := range entries {
		role := llm.RoleUser
		if e.Role == RoleModel {
			role = llm.RoleAssistant
		}
		out = append(out, llm.Message{Role: role, Content: e.Text})
	}
	return out
}
