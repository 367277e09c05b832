package genie

import (
	"math/rand"
	"testing"
)

func newTestEvaluator() *Evaluator {
	return NewEvaluator(DefaultGameConfig(), rand.New(rand.NewSource(11)))
}

func stateWithTarget(target int) *SessionState {
	s := NewSessionState()
	s.Target = target
	return s
}

func guessReq(n int) TurnRequest {
	return TurnRequest{Event: EventProvideGuess, Guess: n}
}

// Every (target, guess) pair must map to a prompt the book actually has.
func TestGuess_EveryPairYieldsKnownPrompt(t *testing.T) {
	cfg := DefaultGameConfig()
	book, err := BuildPromptBook(cfg)
	if err != nil {
		t.Fatal(err)
	}
	e := newTestEvaluator()

	for target := cfg.Min; target <= cfg.Max; target++ {
		for guess := cfg.Min; guess <= cfg.Max; guess++ {
			s := stateWithTarget(target)
			out := e.Evaluate(s, guessReq(guess))
			if out.Prompt == "" {
				t.Fatalf("target=%d guess=%d produced no prompt", target, guess)
			}
			if _, err := book.Get(out.Prompt); err != nil {
				t.Fatalf("target=%d guess=%d produced unknown prompt %q", target, guess, out.Prompt)
			}
		}
	}
}

func TestGuess_BoundaryMinIsRealGuess(t *testing.T) {
	e := newTestEvaluator()
	s := stateWithTarget(50)

	out := e.Evaluate(s, guessReq(0))
	if out.Prompt != PromptMin {
		t.Fatalf("guess 0 must hit the min prompt, got %q", out.Prompt)
	}
	if s.Hint != HintHigher || s.PreviousGuess != 0 {
		t.Fatalf("guess 0 must be recorded with a higher hint: hint=%q prev=%d", s.Hint, s.PreviousGuess)
	}
	if !s.HasPreviousGuess() {
		t.Fatal("a recorded guess of 0 must count as a previous guess")
	}
}

func TestGuess_BoundaryMax(t *testing.T) {
	e := newTestEvaluator()
	s := stateWithTarget(50)

	out := e.Evaluate(s, guessReq(100))
	if out.Prompt != PromptMax {
		t.Fatalf("guess 100 must hit the max prompt, got %q", out.Prompt)
	}
	if s.Hint != HintLower || s.PreviousGuess != 100 {
		t.Fatalf("hint=%q prev=%d", s.Hint, s.PreviousGuess)
	}
}

func TestGuess_DistanceBands(t *testing.T) {
	cases := []struct {
		name   string
		target int
		guess  int
		prompt string
		hint   Hint
	}{
		{"really cold below", 90, 5, PromptReallyColdHigh, HintHigher},
		{"really cold above", 5, 90, PromptReallyColdLow, HintLower},
		{"warm below", 50, 42, PromptHigher, HintHigher},
		{"warm above", 50, 58, PromptLower, HintLower},
		{"close below withholds hint", 50, 46, PromptHighClose, HintNone},
		{"close above withholds hint", 50, 54, PromptLowClose, HintNone},
		{"far directional below", 50, 30, PromptHigh, HintHigher},
		{"far directional above", 50, 70, PromptLow, HintLower},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEvaluator()
			s := stateWithTarget(tc.target)
			out := e.Evaluate(s, guessReq(tc.guess))
			if out.Prompt != tc.prompt {
				t.Fatalf("got prompt %q, want %q", out.Prompt, tc.prompt)
			}
			if s.Hint != tc.hint {
				t.Fatalf("got hint %q, want %q", s.Hint, tc.hint)
			}
			if s.PreviousGuess != tc.guess {
				t.Fatalf("previous guess not recorded: %d", s.PreviousGuess)
			}
		})
	}
}

// Alternating near-hits three away from the target keep landing in the
// hottest band; the steam cue fires on the first and again on the seventh.
func TestGuess_SteamCueCadence(t *testing.T) {
	e := newTestEvaluator()
	s := stateWithTarget(50)

	steamed := make([]bool, 0, 8)
	for i := 0; i < 8; i++ {
		guess := 47
		if i%2 == 1 {
			guess = 53
		}
		out := e.Evaluate(s, guessReq(guess))
		switch out.Prompt {
		case PromptHighestSteam, PromptLowestSteam:
			steamed = append(steamed, true)
		case PromptHighest, PromptLowest:
			steamed = append(steamed, false)
		default:
			t.Fatalf("near-hit %d left the hottest band: %q", i, out.Prompt)
		}
	}
	want := []bool{true, false, false, false, false, false, true, false}
	for i := range want {
		if steamed[i] != want[i] {
			t.Fatalf("steam cadence mismatch at near-hit %d: got %v, want %v", i, steamed, want)
		}
	}
}

func TestGuess_ReallyHotNeedsMatchingHint(t *testing.T) {
	e := newTestEvaluator()
	s := stateWithTarget(50)

	// First close approach from below carries no standing hint yet.
	if out := e.Evaluate(s, guessReq(48)); out.Prompt != PromptHigh {
		t.Fatalf("first approach should be plain high, got %q", out.Prompt)
	}
	// Now the hint is higher; one step off with a primed steam countdown.
	s.SteamSoundCount = 5
	if out := e.Evaluate(s, guessReq(49)); out.Prompt != PromptReallyHotHigh {
		t.Fatalf("expected really hot, got %q", out.Prompt)
	}
}

func TestGuess_ReallyHotTwoAway(t *testing.T) {
	e := newTestEvaluator()
	s := stateWithTarget(50)
	s.Hint = HintLower
	s.PreviousGuess = 60
	s.SteamSoundCount = 5

	out := e.Evaluate(s, guessReq(52))
	if out.Prompt != PromptReallyHotLow2 {
		t.Fatalf("two away with matching hint, got %q", out.Prompt)
	}
}

func TestGuess_DuplicateTwoStrikes(t *testing.T) {
	e := newTestEvaluator()
	s := stateWithTarget(50)

	e.Evaluate(s, guessReq(30))
	out := e.Evaluate(s, guessReq(30))
	if out.Prompt != PromptSameGuess || out.End {
		t.Fatalf("first repeat must nudge, got %q end=%v", out.Prompt, out.End)
	}
	out = e.Evaluate(s, guessReq(30))
	if out.Prompt != PromptSameGuessQuit || !out.End {
		t.Fatalf("second repeat must end the conversation, got %q end=%v", out.Prompt, out.End)
	}
}

func TestGuess_DuplicateWithoutHint(t *testing.T) {
	e := newTestEvaluator()
	s := stateWithTarget(50)

	e.Evaluate(s, guessReq(46)) // close band clears the hint
	out := e.Evaluate(s, guessReq(46))
	if out.Prompt != PromptSameGuessNoHint {
		t.Fatalf("repeat with no standing hint, got %q", out.Prompt)
	}
}

func TestGuess_HintViolationLeavesStateAlone(t *testing.T) {
	e := newTestEvaluator()
	s := stateWithTarget(50)

	e.Evaluate(s, guessReq(30))
	out := e.Evaluate(s, guessReq(20))
	if out.Prompt != PromptWrongHigher {
		t.Fatalf("going lower against a higher hint, got %q", out.Prompt)
	}
	if s.Hint != HintHigher || s.PreviousGuess != 30 {
		t.Fatalf("a wrong-direction guess must not update the hint: hint=%q prev=%d", s.Hint, s.PreviousGuess)
	}

	s2 := stateWithTarget(50)
	e.Evaluate(s2, guessReq(70))
	if out := e.Evaluate(s2, guessReq(80)); out.Prompt != PromptWrongLower {
		t.Fatalf("going higher against a lower hint, got %q", out.Prompt)
	}
}

func TestGuess_Win(t *testing.T) {
	e := newTestEvaluator()
	s := stateWithTarget(50)

	out := e.Evaluate(s, guessReq(50))
	if out.Prompt != PromptWin {
		t.Fatalf("got %q", out.Prompt)
	}
	if s.Context != ContextYesNo {
		t.Fatalf("win must arm the play-again question, context=%q", s.Context)
	}
	if s.GuessCount != 0 || s.HasPreviousGuess() {
		t.Fatalf("win must reset the round: count=%d prev=%d", s.GuessCount, s.PreviousGuess)
	}
}

func TestGuess_WinAfterManyTries(t *testing.T) {
	e := newTestEvaluator()
	s := stateWithTarget(50)
	s.GuessCount = 9

	out := e.Evaluate(s, guessReq(50))
	if out.Prompt != PromptWinManyTries {
		t.Fatalf("the tenth guess winning must use the many-tries prompt, got %q", out.Prompt)
	}
}

func TestStartGame_ResetsRound(t *testing.T) {
	e := newTestEvaluator()
	s := stateWithTarget(50)
	s.GuessCount = 4
	s.Hint = HintLower
	s.PreviousGuess = 60
	s.SteamSoundCount = 3

	out := e.Evaluate(s, TurnRequest{Event: EventStartGame})
	if out.Prompt != PromptWelcome {
		t.Fatalf("got %q", out.Prompt)
	}
	cfg := DefaultGameConfig()
	if s.Target < cfg.Min || s.Target > cfg.Max {
		t.Fatalf("target %d out of range", s.Target)
	}
	if s.GuessCount != 0 || s.Hint != HintNone || s.HasPreviousGuess() || s.SteamSoundCount != 0 {
		t.Fatalf("round not reset: %+v", s)
	}
}

func TestQuit_RevealsTarget(t *testing.T) {
	e := newTestEvaluator()
	s := stateWithTarget(73)

	out := e.Evaluate(s, TurnRequest{Event: EventQuitGame})
	if out.Prompt != PromptReveal || !out.End {
		t.Fatalf("got %q end=%v", out.Prompt, out.End)
	}
	if len(out.Args) != 1 || out.Args[0] != 73 {
		t.Fatalf("quit must reveal the target, args=%v", out.Args)
	}
}

func TestPlayAgain(t *testing.T) {
	e := newTestEvaluator()
	s := stateWithTarget(73)
	s.Context = ContextYesNo
	s.GuessCount = 6

	out := e.Evaluate(s, TurnRequest{Event: EventPlayAgainYes})
	if out.Prompt != PromptRe || out.End {
		t.Fatalf("got %q end=%v", out.Prompt, out.End)
	}
	if s.GuessCount != 0 || s.Context != ContextGame {
		t.Fatalf("play again must start a fresh round: %+v", s)
	}

	out = e.Evaluate(s, TurnRequest{Event: EventPlayAgainNo})
	if out.Prompt != PromptQuit || !out.End {
		t.Fatalf("got %q end=%v", out.Prompt, out.End)
	}
}

func TestFallback_TwoStrikes(t *testing.T) {
	e := newTestEvaluator()
	s := stateWithTarget(50)

	out := e.Evaluate(s, TurnRequest{Event: EventDefaultFallback})
	if out.Prompt != PromptFallback || out.End {
		t.Fatalf("got %q end=%v", out.Prompt, out.End)
	}
	if s.Context != ContextDoneYesNo {
		t.Fatalf("first fallback must ask if the user is done, context=%q", s.Context)
	}
	out = e.Evaluate(s, TurnRequest{Event: EventDefaultFallback})
	if out.Prompt != PromptFallback2 || !out.End {
		t.Fatalf("got %q end=%v", out.Prompt, out.End)
	}
}

func TestFallback_CounterResetByGuess(t *testing.T) {
	e := newTestEvaluator()
	s := stateWithTarget(50)

	e.Evaluate(s, TurnRequest{Event: EventDefaultFallback})
	e.Evaluate(s, guessReq(30))
	if s.FallbackCount != 0 {
		t.Fatalf("a recognized guess must clear the fallback strikes, got %d", s.FallbackCount)
	}
}

func TestDoneNo_OffersAnotherRound(t *testing.T) {
	e := newTestEvaluator()
	s := stateWithTarget(50)
	s.FallbackCount = 1
	s.Context = ContextDoneYesNo

	out := e.Evaluate(s, TurnRequest{Event: EventDoneNo})
	if out.Prompt != PromptReAnother || out.End {
		t.Fatalf("got %q end=%v", out.Prompt, out.End)
	}
	if s.FallbackCount != 0 {
		t.Fatal("declining to be done must clear the fallback strikes")
	}
}

func TestDoneYes_SaysGoodbye(t *testing.T) {
	e := newTestEvaluator()
	s := stateWithTarget(50)

	out := e.Evaluate(s, TurnRequest{Event: EventDoneYes})
	if out.Prompt != PromptQuit || !out.End {
		t.Fatalf("got %q end=%v", out.Prompt, out.End)
	}
}

func TestNumberDeeplink_PinsTarget(t *testing.T) {
	e := newTestEvaluator()
	s := NewSessionState()

	out := e.Evaluate(s, TurnRequest{Event: EventNumberDeeplink, Number: 55})
	if out.Prompt != PromptWelcome {
		t.Fatalf("got %q", out.Prompt)
	}
	if s.Target != 55 {
		t.Fatalf("target must be pinned to 55, got %d", s.Target)
	}
}

func TestNumberDeeplink_OutOfBounds(t *testing.T) {
	e := newTestEvaluator()
	s := NewSessionState()

	out := e.Evaluate(s, TurnRequest{Event: EventNumberDeeplink, Number: 250})
	if out.Prompt != PromptOutOfBounds {
		t.Fatalf("got %q", out.Prompt)
	}
	cfg := DefaultGameConfig()
	if s.Target < cfg.Min || s.Target > cfg.Max {
		t.Fatalf("fallback target %d out of range", s.Target)
	}
}

func TestUnknownDeeplink_LetterCountBecomesGuess(t *testing.T) {
	e := newTestEvaluator()
	s := NewSessionState()

	out := e.Evaluate(s, TurnRequest{Event: EventUnknownDeeplink, RawText: "frogs"})
	switch {
	case 5 < s.Target:
		if out.Prompt != PromptDeeplink {
			t.Fatalf("letters below target, got %q", out.Prompt)
		}
	case 5 > s.Target:
		if out.Prompt != PromptDeeplink2 {
			t.Fatalf("letters above target, got %q", out.Prompt)
		}
	default:
		if out.Prompt != PromptDeeplink3 {
			t.Fatalf("letters equal target, got %q", out.Prompt)
		}
		if s.Context != ContextYesNo {
			t.Fatalf("instant win must arm play-again, context=%q", s.Context)
		}
	}
	if len(out.Args) == 0 || out.Args[0] != "FROGS" {
		t.Fatalf("query must be echoed uppercased, args=%v", out.Args)
	}
}

func TestUnknownDeeplink_EmptyQueryFallsBack(t *testing.T) {
	e := newTestEvaluator()
	s := NewSessionState()

	out := e.Evaluate(s, TurnRequest{Event: EventUnknownDeeplink, RawText: "   "})
	if out.Prompt != PromptFallback {
		t.Fatalf("got %q", out.Prompt)
	}
}

func TestNoInput_Ladder(t *testing.T) {
	e := newTestEvaluator()
	s := NewSessionState()

	steps := []struct {
		count  int
		prompt string
		end    bool
	}{
		{0, PromptNoInput1, false},
		{1, PromptNoInput2, false},
		{2, PromptNoInput3, true},
		{5, PromptNoInput3, true},
	}
	for _, step := range steps {
		out := e.Evaluate(s, TurnRequest{Event: EventNoInput, RepromptCount: step.count})
		if out.Prompt != step.prompt || out.End != step.end {
			t.Fatalf("reprompt %d: got %q end=%v", step.count, out.Prompt, out.End)
		}
	}
}

func TestEvaluate_UnknownEventFallsBack(t *testing.T) {
	e := newTestEvaluator()
	s := stateWithTarget(50)

	out := e.Evaluate(s, TurnRequest{Event: Event("made_up")})
	if out.Prompt != PromptFallback {
		t.Fatalf("got %q", out.Prompt)
	}
}
