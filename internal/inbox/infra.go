package inbox

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type repo struct {
	mu       sync.RWMutex
	messages []*Message
	byChat   map[string][]*Message
	last     time.Time
	now      func() time.Time
}

// NewRepo returns an empty in-memory store. Nothing survives a restart.
func NewRepo() Repo {
	return newRepo(time.Now)
}

func newRepo(now func() time.Time) *repo {
	return &repo{
		byChat: make(map[string][]*Message),
		now:    now,
	}
}

func (r *repo) Append(msg Message) Message {
	r.mu.Lock()
	defer r.mu.Unlock()

	// CreatedAt never goes backwards in insertion order, even if the wall clock does.
	ts := r.now()
	if ts.Before(r.last) {
		ts = r.last
	}
	r.last = ts

	m := msg
	m.ID = uuid.NewString()
	m.CreatedAt = ts
	if msg.SentAt != nil {
		t := *msg.SentAt
		m.SentAt = &t
	}

	r.messages = append(r.messages, &m)
	r.byChat[m.ChatID] = append(r.byChat[m.ChatID], &m)

	return clone(&m)
}

func (r *repo) Get(id string) (Message, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m := r.find(id)
	if m == nil {
		return Message{}, false
	}
	return clone(m), true
}

func (r *repo) MessagesFor(chatID string) []Message {
	r.mu.RLock()
	defer r.mu.RUnlock()

	msgs := r.byChat[chatID]
	out := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, clone(m))
	}
	return out
}

func (r *repo) AllConversations() []Conversation {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Conversation, 0, len(r.byChat))
	for chatID, msgs := range r.byChat {
		if len(msgs) == 0 {
			continue
		}

		sorted := make([]*Message, len(msgs))
		copy(sorted, msgs)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		})
		first, last := sorted[0], clone(sorted[len(sorted)-1])

		out = append(out, Conversation{
			ChatID:       chatID,
			UserID:       first.TelegramUserID,
			Username:     first.TelegramUsername,
			LastMessage:  &last,
			MessageCount: len(msgs),
			LastActivity: last.CreatedAt,
		})
	}

	// most recent first; equal timestamps fall back to chat id so the order is stable
	sort.Slice(out, func(i, j int) bool {
		if !out[i].LastActivity.Equal(out[j].LastActivity) {
			return out[i].LastActivity.After(out[j].LastActivity)
		}
		return out[i].ChatID < out[j].ChatID
	})
	return out
}

func (r *repo) UpdateStatus(id string, status Status, sentAt *time.Time) (Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m := r.find(id)
	if m == nil {
		return Message{}, false
	}
	m.Status = status
	if sentAt != nil {
		t := *sentAt
		m.SentAt = &t
	}
	return clone(m), true
}

func (r *repo) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.messages = nil
	r.byChat = make(map[string][]*Message)
}

// find scans newest first; status updates almost always target a fresh record.
func (r *repo) find(id string) *Message {
	for i := len(r.messages) - 1; i >= 0; i-- {
		if r.messages[i].ID == id {
			return r.messages[i]
		}
	}
	return nil
}

// clone detaches a stored record from the caller so later status updates
// are not visible through previously returned values.
func clone(m *Message) Message {
	c := *m
	if m.SentAt != nil {
		t := *m.SentAt
		c.SentAt = &t
	}
	return c
}
