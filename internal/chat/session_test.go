package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionWindow(t *testing.T) {
	s := NewSession()
	for _, msg := range []string{"one", "two", "three", "four", "five"} {
		s.Append(Turn{User: msg})
	}

	window := s.Window(3)
	require.Len(t, window, 3)
	assert.Equal(t, "three", window[0].User)
	assert.Equal(t, "five", window[2].User)

	short := NewSession()
	short.Append(Turn{User: "only"})
	assert.Len(t, short.Window(3), 1)
	assert.Empty(t, NewSession().Window(3))
}

func TestSessionApplyStateReplace(t *testing.T) {
	s := NewSession()
	s.ApplyState(map[string]any{"format": "7v7", "name": "Spring"}, false)

	// A later state that omits a collected field drops it. This is the
	// literal generator contract.
	s.ApplyState(map[string]any{"logo": "🏆"}, false)
	assert.Equal(t, map[string]any{"logo": "🏆"}, s.State)

	// nil state leaves the collected fields alone.
	s.ApplyState(nil, false)
	assert.Equal(t, map[string]any{"logo": "🏆"}, s.State)
}

func TestSessionApplyStateMerge(t *testing.T) {
	s := NewSession()
	s.ApplyState(map[string]any{"format": "7v7", "name": "Spring"}, true)
	s.ApplyState(map[string]any{"logo": "🏆", "name": "Spring Championship"}, true)

	assert.Equal(t, map[string]any{
		"format": "7v7",
		"name":   "Spring Championship",
		"logo":   "🏆",
	}, s.State)
}

func TestSessionResetKeepsTranscript(t *testing.T) {
	s := NewSession()
	s.ApplyState(map[string]any{"format": "5v5"}, false)
	s.Append(Turn{User: "hello"})

	s.Reset()
	assert.Empty(t, s.State)
	assert.Len(t, s.Transcript, 1)

	s.Clear()
	assert.Empty(t, s.State)
	assert.Empty(t, s.Transcript)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	s := r.Create()
	got, ok := r.Get(s.ID)
	require.True(t, ok)
	assert.Same(t, s, got)

	r.Remove(s.ID)
	_, ok = r.Get(s.ID)
	assert.False(t, ok)
}
