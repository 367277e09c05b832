// Package webhook adapts the game engine to the Dialogflow v2
// fulfillment protocol as spoken by Actions on Google.
package webhook

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	genie "github.com/genielab/number-genie-go"
)

// intentEvents maps Dialogflow intent display names to game events. The
// names match the deployed agent's intents verbatim.
var intentEvents = map[string]genie.Event{
	"start_game":              genie.EventStartGame,
	"provide_guess":           genie.EventProvideGuess,
	"quit_game":               genie.EventQuitGame,
	"play-again-yes":          genie.EventPlayAgainYes,
	"play_again_no":           genie.EventPlayAgainNo,
	"Default Fallback Intent": genie.EventDefaultFallback,
	"Unknown-deeplink":        genie.EventUnknownDeeplink,
	"deep_link_number":        genie.EventNumberDeeplink,
	"done_yes":                genie.EventDoneYes,
	"done_no":                 genie.EventDoneNo,
	"repeat":                  genie.EventRepeat,
	"no_input":                genie.EventNoInput,
}

const maxBodyBytes = 1 << 20

// Handler serves Dialogflow fulfillment requests against one Engine.
type Handler struct {
	engine *genie.Engine
	cfg    *Config
}

// NewHandler creates a fulfillment handler.
func NewHandler(engine *genie.Engine, cfg *Config) *Handler {
	return &Handler{engine: engine, cfg: cfg}
}

// ServeHTTP decodes the webhook request, runs the turn, and writes the
// Actions on Google response. Internal failures answer 500 with a generic
// body; the detail stays in the server log.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.cfg.SecretToken != "" && r.Header.Get("X-Genie-Secret") != h.cfg.SecretToken {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	var req Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	turn := h.toTurnRequest(&req)
	if h.cfg.Debug {
		log.Printf("[Webhook] session=%s intent=%q event=%s", turn.SessionID, req.QueryResult.Intent.DisplayName, turn.Event)
	}

	result, err := h.engine.HandleTurn(r.Context(), turn)
	if err != nil {
		log.Printf("[Webhook] session=%s turn failed: %v", turn.SessionID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := buildResponse(&req, result)
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("[Webhook] session=%s encode failed: %v", turn.SessionID, err)
	}
}

// toTurnRequest translates the wire request into an engine turn.
func (h *Handler) toTurnRequest(req *Request) genie.TurnRequest {
	event, ok := intentEvents[req.QueryResult.Intent.DisplayName]
	if !ok {
		event = genie.EventDefaultFallback
	}
	return genie.TurnRequest{
		SessionID:     req.Session,
		Event:         event,
		Guess:         intParameter(req.QueryResult.Parameters, "guess"),
		Number:        intParameter(req.QueryResult.Parameters, "number"),
		RawText:       req.QueryResult.QueryText,
		RepromptCount: repromptCount(req),
		Screen:        hasScreen(req),
	}
}

// intParameter reads a numeric Dialogflow parameter. @sys.number values
// arrive as JSON numbers, entity overrides as strings.
func intParameter(params map[string]interface{}, name string) int {
	switch v := params[name].(type) {
	case float64:
		return int(v)
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

func hasScreen(req *Request) bool {
	odi := req.OriginalDetectIntentRequest
	if odi == nil || odi.Payload == nil || odi.Payload.Surface == nil {
		return false
	}
	for _, c := range odi.Payload.Surface.Capabilities {
		if c.Name == CapabilityScreenOutput {
			return true
		}
	}
	return false
}

func repromptCount(req *Request) int {
	odi := req.OriginalDetectIntentRequest
	if odi == nil || odi.Payload == nil {
		return 0
	}
	for _, in := range odi.Payload.Inputs {
		for _, arg := range in.Arguments {
			if arg.Name == "REPROMPT_COUNT" {
				n, err := strconv.Atoi(arg.IntValue)
				if err != nil {
					return 0
				}
				return n
			}
		}
	}
	return 0
}

// buildResponse projects the rendered turn onto the Actions on Google
// rich response format.
func buildResponse(req *Request, result *genie.TurnResult) *Response {
	rich := RichResponse{Items: make([]Item, 0, len(result.Response.Messages))}
	fulfillment := ""
	for _, m := range result.Response.Messages {
		if m.Card != nil {
			rich.Items = append(rich.Items, Item{BasicCard: &BasicCard{
				FormattedText: m.Card.CardText,
				Image:         &CardImage{URL: m.Card.URL, AccessibilityText: m.Card.Alt},
			}})
			continue
		}
		sr := &SimpleResponse{TextToSpeech: m.Speech}
		if m.DisplayText != nil {
			sr.DisplayText = *m.DisplayText
		}
		rich.Items = append(rich.Items, Item{SimpleResponse: sr})
		if fulfillment == "" {
			fulfillment = m.Speech
		}
	}
	// Chips only make sense when the microphone stays open.
	if !result.End {
		for _, s := range result.Response.Suggestions {
			rich.Suggestions = append(rich.Suggestions, Suggestion{Title: s})
		}
	}

	resp := &Response{
		FulfillmentText: fulfillment,
		Payload: ResponsePayload{Google: GoogleResponse{
			ExpectUserResponse: !result.End,
			RichResponse:       rich,
		}},
	}
	if result.State != nil && result.State.Context != "" {
		resp.OutputContexts = []Context{{
			Name:          req.Session + "/contexts/" + result.State.Context,
			LifespanCount: 5,
		}}
	}
	return resp
}
