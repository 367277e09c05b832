package genie

// ──────────────────────────────────────────────
// Middleware — Onion-model turn pipeline
// ──────────────────────────────────────────────
//
// Each middleware wraps the next layer. Call next() to proceed;
// skip it to intercept the turn.
//
// Usage:
//
//	engine.Use(func(ctx *TurnContext, next NextFunc) {
//	    log.Printf("turn start: %s", ctx.Request.Event)
//	    next()
//	    log.Printf("turn done: end=%v", ctx.Result != nil && ctx.Result.End)
//	})

// NextFunc proceeds to the next middleware or the core turn handler.
type NextFunc func()

// TurnMiddleware is the signature for all turn middleware.
type TurnMiddleware func(ctx *TurnContext, next NextFunc)

// TurnContext is the shared context flowing through the pipeline.
type TurnContext struct {
	// Request is the inbound turn.
	Request TurnRequest
	// State is the session state being processed. Middleware running
	// before next() sees the pre-turn state, after next() the updated one.
	State *SessionState
	// Result is set once the core handler has run.
	Result *TurnResult
	// Err is set if the core handler failed.
	Err error
	// Extra is an arbitrary map for middleware to attach/read data.
	Extra map[string]interface{}
}

// TurnPipeline builds and executes an onion-model call chain.
type TurnPipeline struct {
	middlewares []TurnMiddleware
}

// NewTurnPipeline creates an empty pipeline.
func NewTurnPipeline() *TurnPipeline {
	return &TurnPipeline{}
}

// Use appends a middleware to the pipeline.
func (p *TurnPipeline) Use(mw TurnMiddleware) {
	p.middlewares = append(p.middlewares, mw)
}

// Len returns the number of registered middlewares.
func (p *TurnPipeline) Len() int {
	return len(p.middlewares)
}

// Execute runs the full pipeline ending with coreHandler.
//
// The pipeline builds an onion chain:
//
//	mw[0].before → mw[1].before → core → mw[1].after → mw[0].after
func (p *TurnPipeline) Execute(ctx *TurnContext, coreHandler func()) {
	if len(p.middlewares) == 0 {
		coreHandler()
		return
	}

	chain := coreHandler
	for i := len(p.middlewares) - 1; i >= 0; i-- {
		mw := p.middlewares[i]
		next := chain
		chain = func() {
			mw(ctx, next)
		}
	}

	chain()
}
