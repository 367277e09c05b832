package webhook

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	genie "github.com/genielab/number-genie-go"
)

func newTestHandler(t *testing.T, cfg ...*Config) *Handler {
	t.Helper()
	engine, err := genie.NewEngine(genie.DefaultGameConfig(), genie.NewInMemorySessionStore(), rand.New(rand.NewSource(31)))
	if err != nil {
		t.Fatal(err)
	}
	c := &Config{}
	if len(cfg) > 0 {
		c = cfg[0]
	}
	return NewHandler(engine, c)
}

func fulfillmentRequest(intent string, params map[string]interface{}) *Request {
	return &Request{
		Session: "projects/test/agent/sessions/abc123",
		QueryResult: QueryResult{
			QueryText:  "test query",
			Parameters: params,
			Intent:     Intent{DisplayName: intent},
		},
		OriginalDetectIntentRequest: &OriginalIntentRequest{
			Payload: &AssistantPayload{
				Surface: &Surface{Capabilities: []Capability{{Name: CapabilityScreenOutput}}},
			},
		},
	}
}

func postTurn(t *testing.T, h *Handler, req *Request) (*httptest.ResponseRecorder, *Response) {
	t.Helper()
	body, err := json.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/fulfillment", bytes.NewReader(body)))
	if rec.Code != http.StatusOK {
		return rec, nil
	}
	resp := &Response{}
	if err := json.Unmarshal(rec.Body.Bytes(), resp); err != nil {
		t.Fatal(err)
	}
	return rec, resp
}

func TestHandler_StartGame(t *testing.T) {
	h := newTestHandler(t)

	rec, resp := postTurn(t, h, fulfillmentRequest("start_game", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if !resp.Payload.Google.ExpectUserResponse {
		t.Fatal("starting a game must keep the microphone open")
	}
	items := resp.Payload.Google.RichResponse.Items
	if len(items) == 0 || items[0].SimpleResponse == nil {
		t.Fatalf("expected a spoken item first, got %+v", items)
	}
	if !strings.HasPrefix(items[0].SimpleResponse.TextToSpeech, "<speak>") {
		t.Fatalf("speech must be SSML: %q", items[0].SimpleResponse.TextToSpeech)
	}
	var hasCard bool
	for _, it := range items {
		if it.BasicCard != nil {
			hasCard = true
		}
	}
	if !hasCard {
		t.Fatal("a screen surface must get the intro card")
	}
	if len(resp.Payload.Google.RichResponse.Suggestions) == 0 {
		t.Fatal("expected suggestion chips")
	}
}

func TestHandler_WinFlow(t *testing.T) {
	h := newTestHandler(t)

	// Pin the target, then guess it.
	if rec, _ := postTurn(t, h, fulfillmentRequest("deep_link_number", map[string]interface{}{"number": float64(50)})); rec.Code != http.StatusOK {
		t.Fatalf("deeplink status %d", rec.Code)
	}
	_, resp := postTurn(t, h, fulfillmentRequest("provide_guess", map[string]interface{}{"guess": float64(50)}))
	if resp == nil || !resp.Payload.Google.ExpectUserResponse {
		t.Fatal("a win must ask about playing again")
	}
	var found bool
	for _, c := range resp.OutputContexts {
		if strings.HasSuffix(c.Name, "/contexts/yes_no") {
			found = true
		}
	}
	if !found {
		t.Fatalf("win must set the yes_no context, got %+v", resp.OutputContexts)
	}

	_, resp = postTurn(t, h, fulfillmentRequest("play_again_no", nil))
	if resp.Payload.Google.ExpectUserResponse {
		t.Fatal("declining another round must close the conversation")
	}
	if len(resp.Payload.Google.RichResponse.Suggestions) != 0 {
		t.Fatal("a closing response must not offer chips")
	}
}

func TestHandler_GuessParameterAsString(t *testing.T) {
	h := newTestHandler(t)

	postTurn(t, h, fulfillmentRequest("deep_link_number", map[string]interface{}{"number": "50"}))
	_, resp := postTurn(t, h, fulfillmentRequest("provide_guess", map[string]interface{}{"guess": "30"}))
	if resp == nil {
		t.Fatal("string parameters must parse")
	}
	if !resp.Payload.Google.ExpectUserResponse {
		t.Fatal("a wrong guess must keep the conversation open")
	}
}

func TestHandler_UnknownIntentFallsBack(t *testing.T) {
	h := newTestHandler(t)

	rec, resp := postTurn(t, h, fulfillmentRequest("some_new_intent", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if len(resp.Payload.Google.RichResponse.Items) == 0 {
		t.Fatal("unknown intents must still answer")
	}
}

func TestHandler_RejectsBadJSON(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/fulfillment", strings.NewReader("{not json")))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestHandler_RejectsWrongMethod(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fulfillment", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestHandler_SecretToken(t *testing.T) {
	h := newTestHandler(t, &Config{SecretToken: "s3cret"})

	body, _ := json.Marshal(fulfillmentRequest("start_game", nil))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/fulfillment", bytes.NewReader(body)))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("missing secret must be rejected, status %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/fulfillment", bytes.NewReader(body))
	req.Header.Set("X-Genie-Secret", "s3cret")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("valid secret must pass, status %d", rec.Code)
	}
}

func TestHandler_NoInputLadder(t *testing.T) {
	h := newTestHandler(t)

	req := fulfillmentRequest("no_input", nil)
	req.OriginalDetectIntentRequest.Payload.Inputs = []AssistantInput{{
		Arguments: []AssistantArgument{{Name: "REPROMPT_COUNT", IntValue: "2"}},
	}}
	_, resp := postTurn(t, h, req)
	if resp.Payload.Google.ExpectUserResponse {
		t.Fatal("the third silence must close the conversation")
	}
}
