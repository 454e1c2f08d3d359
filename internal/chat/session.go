package chat

import (
	"sync"

	"github.com/google/uuid"
)

// Turn is one user utterance and the reply it produced.
type Turn struct {
	User  string `json:"user"`
	Reply *Reply `json:"assistant,omitempty"`
}

// Session holds the state of one conversational creation: the collected
// field values and the transcript. Exactly one creation (league or game) is
// in progress at a time; the embedded mutex serializes turns so a session
// never has overlapping in-flight generation calls.
type Session struct {
	sync.Mutex

	ID         uuid.UUID
	State      map[string]any
	Transcript []Turn
}

func NewSession() *Session {
	return &Session{
		ID:    uuid.New(),
		State: map[string]any{},
	}
}

// ApplyState installs the conversation_state carried by a reply. The default
// is a wholesale replace, matching the generator contract; merge keeps
// previously collected fields the new state omits.
func (s *Session) ApplyState(state map[string]any, merge bool) {
	if state == nil {
		return
	}
	if !merge {
		s.State = state
		return
	}
	if s.State == nil {
		s.State = map[string]any{}
	}
	for k, v := range state {
		s.State[k] = v
	}
}

func (s *Session) Append(t Turn) {
	s.Transcript = append(s.Transcript, t)
}

// Window returns the last n turns for the outbound prompt. Full history is
// never replayed.
func (s *Session) Window(n int) []Turn {
	if len(s.Transcript) <= n {
		return s.Transcript
	}
	return s.Transcript[len(s.Transcript)-n:]
}

// Reset discards the in-progress creation, keeping the transcript.
func (s *Session) Reset() {
	s.State = map[string]any{}
}

// Clear wipes the session back to a fresh conversation.
func (s *Session) Clear() {
	s.State = map[string]any{}
	s.Transcript = nil
}

// Registry holds live sessions for the presentation layer, which passes a
// session handle in with every turn.
type Registry struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: map[uuid.UUID]*Session{}}
}

func (r *Registry) Create() *Session {
	s := NewSession()
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s
}

func (r *Registry) Get(id uuid.UUID) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

func (r *Registry) Remove(id uuid.UUID) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}
