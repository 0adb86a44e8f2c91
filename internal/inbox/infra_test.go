package inbox

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Vovarama1992/tg-translate-bridge/internal/ai"
)

// fakeClock hands out timestamps that advance by step on every call.
type fakeClock struct {
	mu   sync.Mutex
	t    time.Time
	step time.Duration
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.t
	c.t = c.t.Add(c.step)
	return t
}

func newClockedRepo() *repo {
	clk := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC), step: time.Second}
	return newRepo(clk.Now)
}

func inbound(chatID, text string) Message {
	return Message{
		ChatID:         chatID,
		TelegramUserID: 7,
		Direction:      DirectionInbound,
		OriginalText:   text,
		Language:       ai.LangKorean,
		Status:         StatusSent,
	}
}

func TestAppend_AssignsIDAndCreatedAt(t *testing.T) {
	r := newClockedRepo()

	a := r.Append(inbound("1", "a"))
	b := r.Append(inbound("1", "b"))

	require.NotEmpty(t, a.ID)
	require.NotEqual(t, a.ID, b.ID)
	require.False(t, a.CreatedAt.IsZero())
	require.True(t, b.CreatedAt.After(a.CreatedAt))
}

func TestAppend_CreatedAtNeverGoesBackwards(t *testing.T) {
	times := []time.Time{
		time.Date(2026, 1, 1, 12, 0, 10, 0, time.UTC),
		time.Date(2026, 1, 1, 12, 0, 5, 0, time.UTC), // clock stepped back
	}
	i := 0
	r := newRepo(func() time.Time { t := times[i]; i++; return t })

	a := r.Append(inbound("1", "a"))
	b := r.Append(inbound("1", "b"))
	require.False(t, b.CreatedAt.Before(a.CreatedAt))
}

func TestMessagesFor_FiltersByChatInArrivalOrder(t *testing.T) {
	r := newClockedRepo()
	r.Append(inbound("1", "a"))
	r.Append(inbound("2", "x"))
	r.Append(inbound("1", "b"))
	r.Append(inbound("2", "y"))
	r.Append(inbound("1", "c"))

	var got []string
	for _, m := range r.MessagesFor("1") {
		require.Equal(t, "1", m.ChatID)
		got = append(got, m.OriginalText)
	}
	require.Equal(t, []string{"a", "b", "c"}, got)
}

func TestMessagesFor_UnknownChatIsEmpty(t *testing.T) {
	r := newClockedRepo()
	msgs := r.MessagesFor("nope")
	require.NotNil(t, msgs)
	require.Empty(t, msgs)
}

func TestAllConversations_Projection(t *testing.T) {
	r := newClockedRepo()
	first := inbound("1", "a")
	first.TelegramUsername = "minsu"
	r.Append(first)
	r.Append(inbound("2", "x"))

	second := inbound("1", "b")
	second.TelegramUsername = "someone-else"
	second.TelegramUserID = 99
	last := r.Append(second)

	convs := r.AllConversations()
	require.Len(t, convs, 2)

	// chat 1 has the newest message so it comes first
	c := convs[0]
	require.Equal(t, "1", c.ChatID)
	require.Equal(t, int64(7), c.UserID)
	require.Equal(t, "minsu", c.Username)
	require.Equal(t, 2, c.MessageCount)
	require.NotNil(t, c.LastMessage)
	require.Equal(t, last.ID, c.LastMessage.ID)
	require.Equal(t, last.CreatedAt, c.LastActivity)

	require.Equal(t, "2", convs[1].ChatID)
	require.Equal(t, 1, convs[1].MessageCount)
}

func TestAllConversations_TiesOrderedByChatID(t *testing.T) {
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r := newRepo(func() time.Time { return fixed })
	r.Append(inbound("b", "1"))
	r.Append(inbound("a", "1"))
	r.Append(inbound("c", "1"))

	convs := r.AllConversations()
	require.Len(t, convs, 3)
	require.Equal(t, []string{"a", "b", "c"}, []string{convs[0].ChatID, convs[1].ChatID, convs[2].ChatID})
}

func TestAllConversations_CountsDistinctKeysAndReset(t *testing.T) {
	r := newClockedRepo()
	for i := 0; i < 10; i++ {
		r.Append(inbound(fmt.Sprint(i%4), "m"))
	}
	require.Len(t, r.AllConversations(), 4)

	r.Reset()
	require.Empty(t, r.AllConversations())
	require.Empty(t, r.MessagesFor("0"))
}

func TestReads_AreIdempotent(t *testing.T) {
	r := newClockedRepo()
	r.Append(inbound("1", "a"))
	r.Append(inbound("2", "b"))

	require.Equal(t, r.AllConversations(), r.AllConversations())
	require.Equal(t, r.MessagesFor("1"), r.MessagesFor("1"))
}

func TestUpdateStatus(t *testing.T) {
	r := newClockedRepo()
	m := r.Append(Message{ChatID: "1", Direction: DirectionOutbound, Status: StatusPending})

	sentAt := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
	updated, ok := r.UpdateStatus(m.ID, StatusSent, &sentAt)
	require.True(t, ok)
	require.Equal(t, StatusSent, updated.Status)
	require.NotNil(t, updated.SentAt)
	require.True(t, sentAt.Equal(*updated.SentAt))

	got, ok := r.Get(m.ID)
	require.True(t, ok)
	require.Equal(t, StatusSent, got.Status)

	// earlier snapshots are detached from the stored record
	require.Equal(t, StatusPending, m.Status)
	require.Nil(t, m.SentAt)
}

func TestUpdateStatus_UnknownID(t *testing.T) {
	r := newClockedRepo()
	r.Append(inbound("1", "a"))

	_, ok := r.UpdateStatus("missing", StatusFailed, nil)
	require.False(t, ok)
	require.Equal(t, StatusSent, r.MessagesFor("1")[0].Status)

	_, ok = r.Get("missing")
	require.False(t, ok)
}

func TestRepo_ConcurrentAppends(t *testing.T) {
	r := NewRepo()

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				m := r.Append(inbound(fmt.Sprint(w%2), "m"))
				r.UpdateStatus(m.ID, StatusSent, nil)
				_ = r.AllConversations()
			}
		}(w)
	}
	wg.Wait()

	require.Len(t, r.MessagesFor("0"), 200)
	require.Len(t, r.MessagesFor("1"), 200)

	msgs := r.MessagesFor("0")
	for i := 1; i < len(msgs); i++ {
		require.False(t, msgs[i].CreatedAt.Before(msgs[i-1].CreatedAt))
	}
}
