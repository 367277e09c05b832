package genie

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"

	"go.uber.org/atomic"
)

// ──────────────────────────────────────────────
// Engine — one inbound turn in, one rendered turn out
// ──────────────────────────────────────────────

// Engine ties the guess evaluator, the prompt compiler and the session
// store together. It is safe for concurrent use across sessions; the
// platform is assumed to deliver turns for one session serially.
//
// Usage:
//
//	cfg := genie.DefaultGameConfig()
//	engine, _ := genie.NewEngine(cfg, genie.NewInMemorySessionStore())
//
//	result, _ := engine.HandleTurn(ctx, genie.TurnRequest{
//	    SessionID: "abc",
//	    Event:     genie.EventStartGame,
//	    Screen:    true,
//	})
type Engine struct {
	cfg      GameConfig
	store    SessionStore
	book     *PromptBook
	compiler *Compiler
	eval     *Evaluator
	pipeline *TurnPipeline
	stats    engineCounters
}

// engineCounters tracks process-wide totals for host metrics.
type engineCounters struct {
	turns        atomic.Int64
	gamesStarted atomic.Int64
	gamesWon     atomic.Int64
}

// EngineStats is a point-in-time snapshot of the engine counters.
type EngineStats struct {
	Turns        int64 `json:"turns"`
	GamesStarted int64 `json:"games_started"`
	GamesWon     int64 `json:"games_won"`
}

// NewEngine builds the prompt registry for cfg and creates an engine.
// Registry validation failures are configuration errors and abort
// construction. An optional random source pins all randomness for tests.
func NewEngine(cfg GameConfig, store SessionStore, rng ...*rand.Rand) (*Engine, error) {
	book, err := BuildPromptBook(cfg)
	if err != nil {
		return nil, fmt.Errorf("build prompt book: %w", err)
	}
	var r *rand.Rand
	if len(rng) > 0 {
		r = rng[0]
	}
	return &Engine{
		cfg:      cfg,
		store:    store,
		book:     book,
		compiler: NewCompiler(cfg, r),
		eval:     NewEvaluator(cfg, r),
		pipeline: NewTurnPipeline(),
	}, nil
}

// Use appends a turn middleware. Not safe to call concurrently with
// HandleTurn; install middleware during setup.
func (e *Engine) Use(mw TurnMiddleware) {
	e.pipeline.Use(mw)
}

// Stats returns a snapshot of the engine counters.
func (e *Engine) Stats() EngineStats {
	return EngineStats{
		Turns:        e.stats.turns.Load(),
		GamesStarted: e.stats.gamesStarted.Load(),
		GamesWon:     e.stats.gamesWon.Load(),
	}
}

// HandleTurn processes one inbound turn: load state, evaluate, compile,
// render, persist. Errors returned here are internal failures; they carry
// no user-facing text and the transport layer must not surface them.
func (e *Engine) HandleTurn(ctx context.Context, req TurnRequest) (*TurnResult, error) {
	e.stats.turns.Inc()

	state, err := e.store.Load(ctx, req.SessionID)
	if errors.Is(err, ErrSessionNotFound) {
		state = NewSessionState()
		// Events that read a running game cannot be honored without one.
		// A missing session answers as a game start instead of crashing.
		switch req.Event {
		case EventProvideGuess, EventQuitGame:
			req.Event = EventStartGame
		}
	} else if err != nil {
		return nil, fmt.Errorf("load session %q: %w", req.SessionID, err)
	}

	tc := &TurnContext{
		Request: req,
		State:   state,
		Extra:   make(map[string]interface{}),
	}
	e.pipeline.Execute(tc, func() {
		tc.Result, tc.Err = e.processTurn(ctx, state, req)
	})
	if tc.Err != nil {
		return nil, tc.Err
	}
	return tc.Result, nil
}

func (e *Engine) processTurn(ctx context.Context, state *SessionState, req TurnRequest) (*TurnResult, error) {
	switch req.Event {
	case EventStartGame, EventPlayAgainYes, EventNumberDeeplink, EventUnknownDeeplink:
		e.stats.gamesStarted.Inc()
	}

	outcome := e.eval.Evaluate(state, req)

	if outcome.Replay {
		if state.LastResponse != nil {
			// Pure projection of the stored compilation: no new
			// randomness, no dedup-state mutation, nothing to persist.
			if e.cfg.Debug {
				log.Printf("[Engine] session=%s replaying last response", req.SessionID)
			}
			return &TurnResult{
				State:    state,
				Response: Render(state.LastResponse, req.Screen),
				Compiled: state.LastResponse,
			}, nil
		}
		outcome = Outcome{Prompt: PromptAnother}
	}

	switch outcome.Prompt {
	case PromptWin, PromptWinManyTries, PromptDeeplink3:
		e.stats.gamesWon.Inc()
	}

	prompt, err := e.book.Get(outcome.Prompt)
	if err != nil {
		return nil, err
	}
	compiled, chosen, err := e.compiler.Compile(prompt, outcome.Args, state.LastVariants, state)
	if err != nil {
		return nil, err
	}
	state.LastVariants = chosen
	state.LastResponse = compiled

	if err := e.store.Save(ctx, req.SessionID, state); err != nil {
		return nil, fmt.Errorf("save session %q: %w", req.SessionID, err)
	}

	if e.cfg.Debug {
		log.Printf("[Engine] session=%s event=%s prompt=%s end=%v target=%d",
			req.SessionID, req.Event, outcome.Prompt, outcome.End, state.Target)
	}

	return &TurnResult{
		State:    state,
		Response: Render(compiled, req.Screen),
		Compiled: compiled,
		Prompt:   outcome.Prompt,
		End:      outcome.End,
	}, nil
}
