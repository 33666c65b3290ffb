package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddTurnsPreservesOrder(t *testing.T) {
	l := NewLog()

	l.AddUserTurn("hi")
	l.AddAssistantTurn("hello")

	turns := l.Turns()
	require.Len(t, turns, 2)

	assert.Equal(t, RoleUser, turns[0].Role)
	assert.Equal(t, "hi", turns[0].Content)
	assert.Equal(t, RoleAssistant, turns[1].Role)
	assert.Equal(t, "hello", turns[1].Content)

	assert.NotEmpty(t, turns[0].ID)
	assert.NotEmpty(t, turns[1].ID)
	assert.NotEqual(t, turns[0].ID, turns[1].ID)
	assert.False(t, turns[0].CreatedAt.IsZero())
}

func TestClear(t *testing.T) {
	l := NewLog()
	for i := 0; i < 5; i++ {
		l.AddUserTurn("msg")
	}
	require.Equal(t, 5, l.Len())

	l.Clear()
	assert.Equal(t, 0, l.Len())
	assert.Empty(t, l.Turns())

	// Clearing an already-empty log is fine
	l.Clear()
	assert.Equal(t, 0, l.Len())
}

func TestTurnsReturnsCopy(t *testing.T) {
	l := NewLog()
	l.AddUserTurn("original")

	turns := l.Turns()
	turns[0].Content = "mutated"

	assert.Equal(t, "original", l.Turns()[0].Content)
}

func TestComposingFlag(t *testing.T) {
	l := NewLog()
	assert.False(t, l.Composing())

	l.StartComposing()
	assert.True(t, l.Composing())

	l.StopComposing()
	assert.False(t, l.Composing())
}

func TestOnChange(t *testing.T) {
	l := NewLog()
	calls := 0
	l.OnChange(func() { calls++ })

	l.AddUserTurn("a")
	l.StartComposing()
	l.AddAssistantTurn("b")
	l.StopComposing()
	l.Clear()

	assert.Equal(t, 5, calls)
}

func TestTranscriptRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	l := NewLog()
	l.AddUserTurn("what is this page about?")
	l.AddAssistantTurn("It's an example domain.")
	require.NoError(t, l.SaveTranscript())

	restored := NewLog()
	require.NoError(t, restored.LoadTranscript())

	want := l.Turns()
	got := restored.Turns()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].Role, got[i].Role)
		assert.Equal(t, want[i].Content, got[i].Content)
		// JSON strips the monotonic clock reading, so compare instants
		assert.True(t, want[i].CreatedAt.Equal(got[i].CreatedAt))
	}
}

func TestLoadTranscriptMissingFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	l := NewLog()
	require.NoError(t, l.LoadTranscript())
	assert.Equal(t, 0, l.Len())
}

func TestClearTranscript(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	l := NewLog()
	l.AddUserTurn("hello")
	require.NoError(t, l.SaveTranscript())
	require.NoError(t, ClearTranscript())

	restored := NewLog()
	require.NoError(t, restored.LoadTranscript())
	assert.Equal(t, 0, restored.Len())

	// Clearing twice is fine
	require.NoError(t, ClearTranscript())
}
