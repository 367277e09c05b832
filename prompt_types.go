package genie

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"regexp"
)

// ──────────────────────────────────────────────
// Prompt data model — declarative, multi-variant, multi-surface
// ──────────────────────────────────────────────
//
// A Prompt is a named, ordered list of elements per surface. Elements come
// in three kinds:
//
//   - *VariantGroup: one phrase slot with several candidate phrasings
//   - Line: several variant groups co-rendered as one spoken line
//     (e.g. an optional sound-effect prefix plus a phrase body)
//   - *Image: a card with url/alt text and a static or variant caption
//
// Variant groups are shared by pointer. The compiler keys its per-compile
// cache on that pointer, so a group appearing in both the visual and audio
// surfaces of one prompt resolves to the same chosen phrasing.

// Variant is one candidate phrasing. DisplayText is tri-state: nil means
// "no display form", empty string means "deliberately blank" (audio tags).
type Variant struct {
	Speech      string  `json:"speech"`
	DisplayText *string `json:"display_text,omitempty"`
	CardText    string  `json:"card_text,omitempty"`
}

var audioTagRe = regexp.MustCompile(`^<audio src=".+?"/>$`)

// newVariant builds a Variant from a bare string. Plain text doubles as
// display text; a pure audio tag renders nothing on screen.
func newVariant(speech string) Variant {
	display := speech
	if audioTagRe.MatchString(speech) {
		display = ""
	}
	return Variant{Speech: speech, DisplayText: &display}
}

// id returns the serialized identity of the pre-substitution variant,
// used for the no-immediate-repeat bookkeeping.
func (v Variant) id() string {
	data, _ := json.Marshal(v)
	return string(data)
}

// Element is one entry in a surface prompt.
type Element interface {
	element()
}

// VariantGroup is a non-empty ordered list of candidate phrasings.
type VariantGroup struct {
	Variants []Variant
}

func (*VariantGroup) element() {}

// NewVariantGroup builds a group from bare phrasings.
func NewVariantGroup(phrasings ...string) *VariantGroup {
	g := &VariantGroup{Variants: make([]Variant, 0, len(phrasings))}
	for _, p := range phrasings {
		g.Variants = append(g.Variants, newVariant(p))
	}
	return g
}

// NewRichVariantGroup builds a group from structured variants.
func NewRichVariantGroup(variants ...Variant) *VariantGroup {
	return &VariantGroup{Variants: variants}
}

// Line is an ordered list of variant groups concatenated into one spoken
// line, each group resolved independently.
type Line []*VariantGroup

func (Line) element() {}

// Image is a card element. If CardVariants is set, the caption is chosen
// from it like any other variant group; otherwise CardText is used as-is.
type Image struct {
	URL          string
	Alt          string
	CardText     string
	CardVariants *VariantGroup
}

func (*Image) element() {}

// SuggestFn computes dynamic suggestion chips from session state. The
// random source is supplied by the compiler so tests can pin it.
type SuggestFn func(cfg GameConfig, state *SessionState, rng *rand.Rand) []string

// SurfacePrompt is the ordered element list for one surface plus its
// suggestion chips (static list or dynamic function, not both).
type SurfacePrompt struct {
	Elements    []Element
	Suggestions []string
	SuggestFn   SuggestFn
}

// Prompt is a named multi-surface response template. Visual is required;
// Audio is optional and falls back to Visual at render time.
type Prompt struct {
	Name   string
	Visual *SurfacePrompt
	Audio  *SurfacePrompt
}

// ErrEmptyVariantGroup reports a malformed template. This is an authoring
// error: it fails fast at registry build time and never at turn time.
var ErrEmptyVariantGroup = errors.New("genie: empty variant group")

// Validate checks the prompt for authoring errors.
func (p *Prompt) Validate() error {
	if p.Visual == nil {
		return fmt.Errorf("prompt %q: missing visual surface", p.Name)
	}
	for _, sp := range []*SurfacePrompt{p.Visual, p.Audio} {
		if sp == nil {
			continue
		}
		if len(sp.Elements) == 0 {
			return fmt.Errorf("prompt %q: no elements", p.Name)
		}
		for i, el := range sp.Elements {
			switch e := el.(type) {
			case *VariantGroup:
				if len(e.Variants) == 0 {
					return fmt.Errorf("prompt %q element %d: %w", p.Name, i, ErrEmptyVariantGroup)
				}
			case Line:
				if len(e) == 0 {
					return fmt.Errorf("prompt %q element %d: empty line", p.Name, i)
				}
				for _, g := range e {
					if g == nil || len(g.Variants) == 0 {
						return fmt.Errorf("prompt %q element %d: %w", p.Name, i, ErrEmptyVariantGroup)
					}
				}
			case *Image:
				if e.URL == "" {
					return fmt.Errorf("prompt %q element %d: image without url", p.Name, i)
				}
				if e.CardVariants != nil && len(e.CardVariants.Variants) == 0 {
					return fmt.Errorf("prompt %q element %d: %w", p.Name, i, ErrEmptyVariantGroup)
				}
			default:
				return fmt.Errorf("prompt %q element %d: unknown element type %T", p.Name, i, el)
			}
		}
	}
	return nil
}

// ──────────────────────────────────────────────
// Compiled output — the replayable unit
// ──────────────────────────────────────────────

// CompiledCard is a rendered card element.
type CompiledCard struct {
	URL      string `json:"url"`
	Alt      string `json:"alt"`
	CardText string `json:"card_text,omitempty"`
}

// CompiledElement is either a speech line (Parts set) or a card (Card set).
type CompiledElement struct {
	Parts []Variant     `json:"parts,omitempty"`
	Card  *CompiledCard `json:"card,omitempty"`
}

// CompiledPrompt is one surface's compiled rendering. Suggestions are fully
// resolved at compile time so replay involves no new randomness.
type CompiledPrompt struct {
	Elements    []CompiledElement `json:"elements"`
	Suggestions []string          `json:"suggestions,omitempty"`
}

// CompiledResponse holds the compiled prompts for every surface. It is
// produced fresh each turn and cached in the session state for "repeat".
type CompiledResponse struct {
	Visual CompiledPrompt  `json:"visual"`
	Audio  *CompiledPrompt `json:"audio,omitempty"`
}
