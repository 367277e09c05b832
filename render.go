package genie

import "strings"

// ──────────────────────────────────────────────
// Rendering — project a compiled response onto a surface
// ──────────────────────────────────────────────

// Message is one outbound platform message: either a spoken/displayed
// utterance (Speech set, SSML-wrapped) or a card (Card set).
type Message struct {
	Speech      string        `json:"speech,omitempty"`
	DisplayText *string       `json:"display_text,omitempty"`
	Card        *CompiledCard `json:"card,omitempty"`
}

// RenderedResponse is the final turn output handed to the transport layer.
type RenderedResponse struct {
	Messages    []Message `json:"messages"`
	Suggestions []string  `json:"suggestions,omitempty"`
}

// Render projects a compiled response onto one surface. It is pure: no
// randomness, no state mutation, byte-identical output for the same input,
// which is exactly what the "repeat last response" feature relies on.
//
// screen selects the visual surface; without a screen the audio surface is
// used when present, falling back to visual.
func Render(compiled *CompiledResponse, screen bool) *RenderedResponse {
	raw := compiled.Visual
	if !screen && compiled.Audio != nil {
		raw = *compiled.Audio
	}

	out := &RenderedResponse{}
	carry := ""
	for _, el := range raw.Elements {
		if el.Card != nil {
			// A caption set by a preceding speech line carries forward
			// onto this card and wins over the card's own static text.
			text := carry
			if text == "" {
				text = el.Card.CardText
			}
			carry = ""
			out.Messages = append(out.Messages, Message{
				Card: &CompiledCard{URL: el.Card.URL, Alt: el.Card.Alt, CardText: text},
			})
			continue
		}
		if len(el.Parts) == 0 {
			continue
		}

		speeches := make([]string, 0, len(el.Parts))
		for _, p := range el.Parts {
			speeches = append(speeches, p.Speech)
		}
		speech := strings.Join(speeches, " ")
		if strings.TrimSpace(speech) != "" {
			msg := Message{Speech: "<speak>" + speech + "</speak>"}
			if el.Parts[0].DisplayText != nil {
				displays := make([]string, 0, len(el.Parts))
				for _, p := range el.Parts {
					if p.DisplayText != nil {
						displays = append(displays, *p.DisplayText)
					}
				}
				display := strings.TrimSpace(strings.Join(displays, " "))
				msg.DisplayText = &display
			}
			out.Messages = append(out.Messages, msg)
		}
		if last := el.Parts[len(el.Parts)-1]; last.CardText != "" {
			carry = last.CardText
		}
	}
	out.Suggestions = raw.Suggestions
	return out
}
