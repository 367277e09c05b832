package genie

import (
	"math/rand"
	"strings"
	"unicode/utf8"
)

// ──────────────────────────────────────────────
// Guess Evaluator — the game's decision function
// ──────────────────────────────────────────────

// Evaluator decides, for one inbound event, how the session state changes
// and which prompt describes the result. It holds no per-session state of
// its own: all mutation happens on the SessionState it is handed.
type Evaluator struct {
	cfg      GameConfig
	rng      *rand.Rand
	handlers map[Event]func(*SessionState, TurnRequest) Outcome
}

// NewEvaluator creates an evaluator. An optional random source may be
// supplied for deterministic number draws in tests.
func NewEvaluator(cfg GameConfig, rng ...*rand.Rand) *Evaluator {
	e := &Evaluator{cfg: cfg}
	if len(rng) > 0 {
		e.rng = rng[0]
	}
	e.handlers = map[Event]func(*SessionState, TurnRequest) Outcome{
		EventStartGame:       e.handleStart,
		EventProvideGuess:    e.handleGuess,
		EventQuitGame:        e.handleQuit,
		EventPlayAgainYes:    e.handlePlayAgainYes,
		EventPlayAgainNo:     e.handleGoodbye,
		EventDefaultFallback: e.handleFallback,
		EventUnknownDeeplink: e.handleUnknownDeeplink,
		EventNumberDeeplink:  e.handleNumberDeeplink,
		EventDoneYes:         e.handleGoodbye,
		EventDoneNo:          e.handleDoneNo,
		EventRepeat:          e.handleRepeat,
		EventNoInput:         e.handleNoInput,
	}
	return e
}

// Evaluate dispatches the event to its handler. Unknown events take the
// fallback path: the user must always get a conversational answer.
func (e *Evaluator) Evaluate(state *SessionState, req TurnRequest) Outcome {
	handler, ok := e.handlers[req.Event]
	if !ok {
		handler = e.handleFallback
	}
	return handler(state, req)
}

// startRound draws a fresh target and clears every per-round counter.
func (e *Evaluator) startRound(s *SessionState) {
	s.Target = randomInt(e.rng, e.cfg.Min, e.cfg.Max)
	s.GuessCount = 0
	s.FallbackCount = 0
	s.SteamSoundCount = 0
	s.DuplicateCount = 0
	s.PreviousGuess = NoGuess
	s.Hint = HintNone
	s.Context = ContextGame
}

func (e *Evaluator) handleStart(s *SessionState, _ TurnRequest) Outcome {
	e.startRound(s)
	return Outcome{Prompt: PromptWelcome, Args: []interface{}{e.cfg.Min, e.cfg.Max}}
}

func (e *Evaluator) handlePlayAgainYes(s *SessionState, _ TurnRequest) Outcome {
	e.startRound(s)
	return Outcome{Prompt: PromptRe, Args: []interface{}{e.cfg.Min, e.cfg.Max}}
}

// handleGuess classifies a guess. The branches are ordered by precedence
// and later bands assume earlier ones did not match, so the order is part
// of the contract: duplicates, hint violations, boundaries, distance
// bands, directional hints, win.
func (e *Evaluator) handleGuess(s *SessionState, req TurnRequest) Outcome {
	guess := req.Guess
	diff := abs(guess - s.Target)
	s.GuessCount++
	s.FallbackCount = 0

	// Duplicate guesses: nudge once, give up on the second repeat.
	if s.HasPreviousGuess() && guess == s.PreviousGuess {
		s.DuplicateCount++
		if s.DuplicateCount == 1 {
			if s.Hint == "" || s.Hint == HintNone {
				return Outcome{Prompt: PromptSameGuessNoHint, Args: []interface{}{guess}}
			}
			return Outcome{Prompt: PromptSameGuess, Args: []interface{}{guess, s.Hint}}
		}
		return Outcome{Prompt: PromptSameGuessQuit, Args: []interface{}{guess}, End: true}
	}
	s.DuplicateCount = 0

	// Guesses against the stated direction leave hint and previous guess
	// untouched: the standing hint is still the right one.
	if s.HasPreviousGuess() {
		if s.Hint == HintHigher && guess <= s.PreviousGuess {
			return Outcome{Prompt: PromptWrongHigher, Args: []interface{}{s.PreviousGuess}}
		}
		if s.Hint == HintLower && guess >= s.PreviousGuess {
			return Outcome{Prompt: PromptWrongLower, Args: []interface{}{s.PreviousGuess}}
		}
	}

	// Boundary guesses get their own response.
	if guess != s.Target {
		if guess == e.cfg.Min {
			s.Hint = HintHigher
			s.PreviousGuess = guess
			return Outcome{Prompt: PromptMin, Args: []interface{}{e.cfg.Min}}
		}
		if guess == e.cfg.Max {
			s.Hint = HintLower
			s.PreviousGuess = guess
			return Outcome{Prompt: PromptMax, Args: []interface{}{e.cfg.Max}}
		}
	}

	// Far away from the number.
	if diff > e.cfg.FarThreshold {
		s.PreviousGuess = guess
		if s.Target > guess {
			s.Hint = HintHigher
			return Outcome{Prompt: PromptReallyColdHigh, Args: []interface{}{guess}}
		}
		s.Hint = HintLower
		return Outcome{Prompt: PromptReallyColdLow, Args: []interface{}{guess}}
	}

	// Exactly NearBandLower away: close enough that the hint is withheld.
	if diff == e.cfg.NearBandLower {
		s.Hint = HintNone
		s.PreviousGuess = guess
		if s.Target > guess {
			return Outcome{Prompt: PromptHighClose}
		}
		return Outcome{Prompt: PromptLowClose}
	}

	// One step closer: hottest band, steam cue gated by the countdown.
	if diff == e.cfg.NearBandLower-1 {
		s.PreviousGuess = guess
		if s.Target > guess {
			s.Hint = HintHigher
			if e.steamFires(s) {
				return Outcome{Prompt: PromptHighestSteam}
			}
			return Outcome{Prompt: PromptHighest}
		}
		s.Hint = HintLower
		if e.steamFires(s) {
			return Outcome{Prompt: PromptLowestSteam}
		}
		return Outcome{Prompt: PromptLowest}
	}

	// Warm band.
	if diff <= e.cfg.NearBandUpper && diff > e.cfg.NearBandLower {
		s.PreviousGuess = guess
		if s.Target > guess {
			s.Hint = HintHigher
			return Outcome{Prompt: PromptHigher, Args: []interface{}{guess}}
		}
		s.Hint = HintLower
		return Outcome{Prompt: PromptLower, Args: []interface{}{guess}}
	}

	// Directional hints for everything else.
	if s.Target > guess {
		previousHint := s.Hint
		s.Hint = HintHigher
		s.PreviousGuess = guess
		if previousHint == HintHigher && diff <= 2 {
			if e.steamFires(s) {
				return Outcome{Prompt: PromptReallyHotHigh2Steam}
			}
			if diff <= 1 {
				return Outcome{Prompt: PromptReallyHotHigh}
			}
			return Outcome{Prompt: PromptReallyHotHigh2}
		}
		return Outcome{Prompt: PromptHigh, Args: []interface{}{guess}}
	}
	if s.Target < guess {
		previousHint := s.Hint
		s.Hint = HintLower
		s.PreviousGuess = guess
		if previousHint == HintLower && diff <= 2 {
			if e.steamFires(s) {
				return Outcome{Prompt: PromptReallyHotLow2Steam}
			}
			if diff <= 1 {
				return Outcome{Prompt: PromptReallyHotLow}
			}
			return Outcome{Prompt: PromptReallyHotLow2}
		}
		return Outcome{Prompt: PromptLow, Args: []interface{}{guess}}
	}

	// Guess equals the number: win.
	guessCount := s.GuessCount
	s.Hint = HintNone
	s.PreviousGuess = NoGuess
	s.Context = ContextYesNo
	s.GuessCount = 0
	if guessCount >= e.cfg.ManyTriesThreshold {
		return Outcome{Prompt: PromptWinManyTries, Args: []interface{}{s.Target}}
	}
	return Outcome{Prompt: PromptWin, Args: []interface{}{s.Target}}
}

// steamFires reports whether the steam cue should play this near-hit and
// advances the countdown: fire when it has run out, then wait out the gap.
func (e *Evaluator) steamFires(s *SessionState) bool {
	if s.SteamSoundCount <= 0 {
		s.SteamSoundCount = e.cfg.SteamSoundGap
		return true
	}
	s.SteamSoundCount--
	return false
}

func (e *Evaluator) handleQuit(s *SessionState, _ TurnRequest) Outcome {
	return Outcome{Prompt: PromptReveal, Args: []interface{}{s.Target}, End: true}
}

// handleGoodbye covers play_again_no and done_yes: same farewell.
func (e *Evaluator) handleGoodbye(s *SessionState, _ TurnRequest) Outcome {
	s.Context = ContextGame
	return Outcome{Prompt: PromptQuit, End: true}
}

func (e *Evaluator) handleDoneNo(s *SessionState, _ TurnRequest) Outcome {
	s.FallbackCount = 0
	return Outcome{Prompt: PromptReAnother}
}

// handleFallback implements the two-strike policy for unrecognized input:
// first ask whether the user is done, then close.
func (e *Evaluator) handleFallback(s *SessionState, _ TurnRequest) Outcome {
	s.FallbackCount++
	if s.FallbackCount == 1 {
		s.Context = ContextDoneYesNo
		return Outcome{Prompt: PromptFallback}
	}
	return Outcome{Prompt: PromptFallback2, End: true}
}

// handleUnknownDeeplink turns "play number genie about frogs" into a game:
// the letter count of the query becomes the first guess.
func (e *Evaluator) handleUnknownDeeplink(s *SessionState, req TurnRequest) Outcome {
	e.startRound(s)
	text := strings.TrimSpace(req.RawText)
	if text == "" {
		return e.handleFallback(s, req)
	}
	letters := utf8.RuneCountInString(text)
	upper := strings.ToUpper(text)
	if letters < s.Target {
		return Outcome{Prompt: PromptDeeplink, Args: []interface{}{upper, letters, letters}}
	}
	if letters > s.Target {
		return Outcome{Prompt: PromptDeeplink2, Args: []interface{}{upper, letters, letters}}
	}
	// The letter count matched: instant win.
	s.Hint = HintNone
	s.PreviousGuess = NoGuess
	s.Context = ContextYesNo
	return Outcome{Prompt: PromptDeeplink3, Args: []interface{}{upper, letters, s.Target}}
}

// handleNumberDeeplink pins the target for demos ("about 55"). The number
// is used verbatim when in bounds; otherwise a random target is drawn and
// the response apologizes.
func (e *Evaluator) handleNumberDeeplink(s *SessionState, req TurnRequest) Outcome {
	e.startRound(s)
	if req.Number >= e.cfg.Min && req.Number <= e.cfg.Max {
		s.Target = req.Number
		return Outcome{Prompt: PromptWelcome, Args: []interface{}{e.cfg.Min, e.cfg.Max}}
	}
	return Outcome{Prompt: PromptOutOfBounds, Args: []interface{}{e.cfg.Min, e.cfg.Max}}
}

func (e *Evaluator) handleRepeat(_ *SessionState, _ TurnRequest) Outcome {
	return Outcome{Replay: true}
}

// handleNoInput walks the re-prompt ladder; the third silence closes.
func (e *Evaluator) handleNoInput(_ *SessionState, req TurnRequest) Outcome {
	switch {
	case req.RepromptCount <= 0:
		return Outcome{Prompt: PromptNoInput1}
	case req.RepromptCount == 1:
		return Outcome{Prompt: PromptNoInput2}
	default:
		return Outcome{Prompt: PromptNoInput3, End: true}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
