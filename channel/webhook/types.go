package webhook

// Dialogflow v2 fulfillment wire format, reduced to the fields the game
// reads and writes.

// Request is the body Dialogflow POSTs to the fulfillment endpoint.
type Request struct {
	ResponseID                  string                 `json:"responseId,omitempty"`
	Session                     string                 `json:"session"`
	QueryResult                 QueryResult            `json:"queryResult"`
	OriginalDetectIntentRequest *OriginalIntentRequest `json:"originalDetectIntentRequest,omitempty"`
}

// QueryResult carries the matched intent and its extracted parameters.
type QueryResult struct {
	QueryText      string                 `json:"queryText,omitempty"`
	Parameters     map[string]interface{} `json:"parameters,omitempty"`
	Intent         Intent                 `json:"intent"`
	OutputContexts []Context              `json:"outputContexts,omitempty"`
}

// Intent identifies the matched Dialogflow intent.
type Intent struct {
	Name        string `json:"name,omitempty"`
	DisplayName string `json:"displayName"`
}

// Context is a Dialogflow conversation context.
type Context struct {
	Name          string                 `json:"name"`
	LifespanCount int                    `json:"lifespanCount,omitempty"`
	Parameters    map[string]interface{} `json:"parameters,omitempty"`
}

// OriginalIntentRequest wraps the assistant-platform payload. Surface
// capabilities and re-prompt arguments live here.
type OriginalIntentRequest struct {
	Source  string            `json:"source,omitempty"`
	Payload *AssistantPayload `json:"payload,omitempty"`
}

// AssistantPayload is the Actions on Google request payload.
type AssistantPayload struct {
	Surface *Surface         `json:"surface,omitempty"`
	Inputs  []AssistantInput `json:"inputs,omitempty"`
}

// Surface lists the capabilities of the device the user is on.
type Surface struct {
	Capabilities []Capability `json:"capabilities,omitempty"`
}

// Capability names a single device capability.
type Capability struct {
	Name string `json:"name"`
}

// CapabilityScreenOutput marks devices that can render cards and chips.
const CapabilityScreenOutput = "actions.capability.SCREEN_OUTPUT"

// AssistantInput carries per-turn platform arguments.
type AssistantInput struct {
	Arguments []AssistantArgument `json:"arguments,omitempty"`
}

// AssistantArgument is a named platform argument such as REPROMPT_COUNT.
type AssistantArgument struct {
	Name      string `json:"name"`
	IntValue  string `json:"intValue,omitempty"`
	TextValue string `json:"textValue,omitempty"`
}

// Response is the fulfillment body returned to Dialogflow.
type Response struct {
	FulfillmentText string          `json:"fulfillmentText,omitempty"`
	Payload         ResponsePayload `json:"payload"`
	OutputContexts  []Context       `json:"outputContexts,omitempty"`
}

// ResponsePayload nests the Actions on Google response.
type ResponsePayload struct {
	Google GoogleResponse `json:"google"`
}

// GoogleResponse is the Actions on Google rich response envelope.
type GoogleResponse struct {
	ExpectUserResponse bool         `json:"expectUserResponse"`
	RichResponse       RichResponse `json:"richResponse"`
}

// RichResponse holds the ordered response items and suggestion chips.
type RichResponse struct {
	Items       []Item       `json:"items"`
	Suggestions []Suggestion `json:"suggestions,omitempty"`
}

// Item is one rich response element: a simple response or a basic card.
type Item struct {
	SimpleResponse *SimpleResponse `json:"simpleResponse,omitempty"`
	BasicCard      *BasicCard      `json:"basicCard,omitempty"`
}

// SimpleResponse is the spoken and displayed form of one utterance.
type SimpleResponse struct {
	TextToSpeech string `json:"textToSpeech"`
	DisplayText  string `json:"displayText,omitempty"`
}

// BasicCard is an image card with optional text.
type BasicCard struct {
	FormattedText string     `json:"formattedText,omitempty"`
	Image         *CardImage `json:"image,omitempty"`
}

// CardImage is the card's image with its accessibility text.
type CardImage struct {
	URL               string `json:"url"`
	AccessibilityText string `json:"accessibilityText"`
}

// Suggestion is one tappable chip.
type Suggestion struct {
	Title string `json:"title"`
}
