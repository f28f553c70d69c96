package conversation

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHistoryAppendKeepsInsertionOrder(t *testing.T) {
	h := NewHistory()
	h.Append(NewUserTurn("hi"), NewAssistantTurn("hello"))
	h.Append(NewUserTurn("hi"))

	turns := h.Turns()
	require.Len(t, turns, 3)
	require.Equal(t, RoleUser, turns[0].Role)
	require.Equal(t, RoleAssistant, turns[1].Role)
	require.Equal(t, "hi", turns[2].Text)
	// duplicates are kept
	require.Equal(t, turns[0].Text, turns[2].Text)
}

func TestHistoryTurnsReturnsCopy(t *testing.T) {
	h := NewHistory()
	h.Append(NewUserTurn("original"))

	turns := h.Turns()
	turns[0].Text = "changed"

	require.Equal(t, "original", h.Turns()[0].Text)
}

func TestHistoryClear(t *testing.T) {
	h := &History{}
	h.Clear()
	require.Equal(t, 0, h.Len())

	h.Append(NewUserTurn("a"), NewAssistantTurn("b"))
	require.Equal(t, 2, h.Len())

	h.Clear()
	require.Equal(t, 0, h.Len())
	require.Empty(t, h.Turns())

	_, ok := h.Last()
	require.False(t, ok)
}

func TestHistoryLast(t *testing.T) {
	h := NewHistory()
	h.Append(NewUserTurn("q"), NewAssistantTurn("a"))

	last, ok := h.Last()
	require.True(t, ok)
	require.Equal(t, RoleAssistant, last.Role)
	require.Equal(t, "a", last.Text)
}

func TestHistoryConcurrentAppend(t *testing.T) {
	h := NewHistory()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.Append(NewUserTurn("x"))
		}()
	}
	wg.Wait()
	require.Equal(t, 50, h.Len())
}

func TestTurnView(t *testing.T) {
	require.Equal(t, "[user]: hi", NewUserTurn("hi\n").View())
	require.Equal(t, "[assistant]: \n```go\nx\n```", NewAssistantTurn("```go\nx\n```").View())
}

func TestRoleTitle(t *testing.T) {
	require.Equal(t, "User", RoleUser.Title())
	require.Equal(t, "Assistant", RoleAssistant.Title())
	require.Equal(t, "", Role("").Title())
}

func TestGetSinglePrompt(t *testing.T) {
	require.Equal(t, "", Conversation{}.GetSinglePrompt())
	require.Equal(t, "only", Conversation{NewUserTurn("only")}.GetSinglePrompt())
	require.Equal(t,
		"[user]: a\n[assistant]: b\n",
		Conversation{NewUserTurn("a"), NewAssistantTurn("b")}.GetSinglePrompt(),
	)
}
