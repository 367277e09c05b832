package genie

// Event identifies the inbound turn type, as reported by the
// conversational platform's intent layer.
type Event string

const (
	EventStartGame       Event = "start_game"
	EventProvideGuess    Event = "provide_guess"
	EventQuitGame        Event = "quit_game"
	EventPlayAgainYes    Event = "play_again_yes"
	EventPlayAgainNo     Event = "play_again_no"
	EventDefaultFallback Event = "default_fallback"
	EventUnknownDeeplink Event = "unknown_deeplink"
	EventNumberDeeplink  Event = "number_deeplink"
	EventDoneYes         Event = "done_yes"
	EventDoneNo          Event = "done_no"
	EventRepeat          Event = "repeat"
	EventNoInput         Event = "no_input"
)

// TurnRequest is one inbound turn.
type TurnRequest struct {
	// SessionID is the opaque conversation id supplied by the platform.
	SessionID string
	// Event is the recognized intent.
	Event Event
	// Guess carries the number for EventProvideGuess.
	Guess int
	// Number carries the number for EventNumberDeeplink.
	Number int
	// RawText carries the free-form query for EventUnknownDeeplink.
	RawText string
	// RepromptCount is the platform's no-input counter (0-based).
	RepromptCount int
	// Screen reports whether the user's surface can display visuals.
	Screen bool
}

// TurnResult is the outcome of one processed turn.
type TurnResult struct {
	// State is the updated session state, already persisted.
	State *SessionState
	// Response is the surface-specific rendering to send.
	Response *RenderedResponse
	// Compiled is the full compilation, kept for repeat support.
	Compiled *CompiledResponse
	// Prompt is the name of the prompt that was compiled, empty when a
	// stored response was replayed.
	Prompt string
	// End reports that the conversation should close instead of
	// prompting for further input.
	End bool
}

// Outcome is the evaluator's decision for a turn: which named prompt to
// compile with which arguments, whether the conversation ends, and whether
// the previous response should be replayed instead of compiling anew.
type Outcome struct {
	Prompt string
	Args   []interface{}
	End    bool
	Replay bool
}
