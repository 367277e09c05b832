package genie

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

// ──────────────────────────────────────────────
// Session State — the only mutable cross-turn data
// ──────────────────────────────────────────────

// Hint is the direction the next guess should move.
type Hint string

const (
	HintHigher Hint = "higher"
	HintLower  Hint = "lower"
	HintNone   Hint = "none"
)

// Dialog contexts. They mirror the conversational platform's notion of an
// active context and gate which yes/no events make sense next.
const (
	ContextGame      = "game"
	ContextYesNo     = "yes_no"
	ContextDoneYesNo = "done_yes_no"
)

// NoGuess marks "no directional guess on record". It is the only sentinel:
// a guess of 0 is a real guess and must never be treated as unset.
const NoGuess = -1

// SessionState is the per-conversation game state. It is owned by exactly
// one session, serialized as JSON between turns, and never shared across
// sessions. All mutation happens synchronously inside a single turn.
type SessionState struct {
	// Target is the hidden number the user is trying to guess.
	Target int `json:"target"`
	// GuessCount counts guesses since the last win or game start.
	GuessCount int `json:"guess_count"`
	// FallbackCount counts consecutive unrecognized inputs.
	FallbackCount int `json:"fallback_count"`
	// SteamSoundCount is the countdown gating the steam audio cue.
	SteamSoundCount int `json:"steam_sound_count"`
	// PreviousGuess is the last accepted guess, or NoGuess.
	PreviousGuess int `json:"previous_guess"`
	// DuplicateCount counts consecutive guesses equal to PreviousGuess.
	DuplicateCount int `json:"duplicate_count"`
	// Hint is the current directional hint.
	Hint Hint `json:"hint"`
	// Context is the active dialog context.
	Context string `json:"context"`
	// LastVariants holds the serialized identities of the variants chosen
	// on the previous turn, used to avoid immediate repetition.
	LastVariants []string `json:"last_variants,omitempty"`
	// LastResponse caches the previous turn's full compilation so that an
	// explicit "repeat" request can replay it verbatim.
	LastResponse *CompiledResponse `json:"last_response,omitempty"`
}

// NewSessionState returns a fresh state with the NoGuess sentinel set.
// Always create states through this constructor: the zero value would
// report a previous guess of 0, which is a legal guess.
func NewSessionState() *SessionState {
	return &SessionState{
		PreviousGuess: NoGuess,
		Hint:          HintNone,
		Context:       ContextGame,
	}
}

// HasPreviousGuess reports whether a real directional guess is on record.
func (s *SessionState) HasPreviousGuess() bool {
	return s.PreviousGuess != NoGuess
}

// Clone returns a deep copy of the state.
func (s *SessionState) Clone() *SessionState {
	data, err := json.Marshal(s)
	if err != nil {
		// SessionState contains only JSON-encodable fields.
		panic("genie: session state not serializable: " + err.Error())
	}
	out := &SessionState{}
	if err := json.Unmarshal(data, out); err != nil {
		panic("genie: session state not deserializable: " + err.Error())
	}
	return out
}

// ──────────────────────────────────────────────
// Session Store — pluggable persistence backend
// ──────────────────────────────────────────────

// ErrSessionNotFound is returned by Load when no state exists for the id.
var ErrSessionNotFound = errors.New("genie: session not found")

// SessionStore is the pluggable persistence backend for session state,
// keyed by the opaque session id supplied by the transport layer.
//
// Implementations must be safe for concurrent use across sessions; the
// platform is assumed to deliver turns for one session serially.
type SessionStore interface {
	Load(ctx context.Context, sessionID string) (*SessionState, error)
	Save(ctx context.Context, sessionID string, state *SessionState) error
	Delete(ctx context.Context, sessionID string) error
}

// InMemorySessionStore is a thread-safe in-memory SessionStore for
// development and tests. Data is lost on restart.
type InMemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]string
}

// NewInMemorySessionStore creates an empty in-memory store.
func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{sessions: make(map[string]string)}
}

func (s *InMemorySessionStore) Load(ctx context.Context, sessionID string) (*SessionState, error) {
	s.mu.RLock()
	raw, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	state := &SessionState{}
	if err := json.Unmarshal([]byte(raw), state); err != nil {
		return nil, err
	}
	return state, nil
}

func (s *InMemorySessionStore) Save(ctx context.Context, sessionID string, state *SessionState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.sessions[sessionID] = string(data)
	s.mu.Unlock()
	return nil
}

func (s *InMemorySessionStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	return nil
}
