package genie

import (
	"fmt"
	"math/rand"
)

// ──────────────────────────────────────────────
// Prompt Compiler — deterministic, non-repeating response compilation
// ──────────────────────────────────────────────

// Compiler turns declarative prompts into concrete, argument-substituted,
// surface-specific renderings. It enforces the no-immediate-repeat policy:
// a variant chosen last turn is excluded this turn unless its group would
// otherwise run dry.
type Compiler struct {
	cfg GameConfig
	rng *rand.Rand
}

// NewCompiler creates a compiler. An optional random source may be supplied
// for deterministic selection in tests; otherwise the process-wide source
// is used.
func NewCompiler(cfg GameConfig, rng ...*rand.Rand) *Compiler {
	c := &Compiler{cfg: cfg}
	if len(rng) > 0 {
		c.rng = rng[0]
	}
	return c
}

// Compile selects one variant per element, substitutes args, and returns
// the compiled response together with the identities of every variant it
// chose. Callers persist that identity list and feed it back on the next
// turn as prior, which is how "never the same phrase twice in a row" works.
//
// A variant group shared between the visual and audio surfaces resolves
// exactly once per call, so both surfaces speak the same chosen phrase.
func (c *Compiler) Compile(prompt *Prompt, args []interface{}, prior []string, state *SessionState) (*CompiledResponse, []string, error) {
	priorSet := make(map[string]bool, len(prior))
	for _, id := range prior {
		priorSet[id] = true
	}
	sess := &compileSession{
		compiler:  c,
		args:      args,
		prior:     priorSet,
		collapsed: make(map[*VariantGroup]Variant),
		state:     state,
	}

	visual, err := sess.compileSurface(prompt.Visual)
	if err != nil {
		return nil, nil, fmt.Errorf("prompt %q: %w", prompt.Name, err)
	}
	out := &CompiledResponse{Visual: *visual}
	if prompt.Audio != nil {
		audio, err := sess.compileSurface(prompt.Audio)
		if err != nil {
			return nil, nil, fmt.Errorf("prompt %q (audio): %w", prompt.Name, err)
		}
		out.Audio = audio
	}
	return out, sess.chosen, nil
}

// compileSession carries the per-call caches: the collapsed map guarantees
// one resolution per variant group, chosen accumulates the new dedup set.
type compileSession struct {
	compiler  *Compiler
	args      []interface{}
	prior     map[string]bool
	collapsed map[*VariantGroup]Variant
	state     *SessionState
	chosen    []string
}

func (s *compileSession) compileSurface(sp *SurfacePrompt) (*CompiledPrompt, error) {
	out := &CompiledPrompt{}
	for _, el := range sp.Elements {
		switch e := el.(type) {
		case *VariantGroup:
			part, err := s.resolveGroup(e)
			if err != nil {
				return nil, err
			}
			out.Elements = append(out.Elements, CompiledElement{Parts: []Variant{part}})
		case Line:
			parts := make([]Variant, 0, len(e))
			for _, g := range e {
				part, err := s.resolveGroup(g)
				if err != nil {
					return nil, err
				}
				parts = append(parts, part)
			}
			out.Elements = append(out.Elements, CompiledElement{Parts: parts})
		case *Image:
			card := &CompiledCard{URL: e.URL, Alt: e.Alt}
			if e.CardVariants != nil {
				// The caption is itself a variant group: resolve it as a
				// speech-empty fragment preceding the card, so the render
				// step's caption-carry rule picks it up.
				part, err := s.resolveCardGroup(e.CardVariants)
				if err != nil {
					return nil, err
				}
				out.Elements = append(out.Elements, CompiledElement{Parts: []Variant{part}})
			} else {
				card.CardText = formatArgs(e.CardText, s.args)
			}
			out.Elements = append(out.Elements, CompiledElement{Card: card})
		default:
			return nil, fmt.Errorf("unknown element type %T", el)
		}
	}
	if sp.SuggestFn != nil {
		out.Suggestions = sp.SuggestFn(s.compiler.cfg, s.state, s.compiler.rng)
	} else if len(sp.Suggestions) > 0 {
		out.Suggestions = append([]string(nil), sp.Suggestions...)
	}
	return out, nil
}

// resolveGroup picks a variant for the group, reusing a resolution made
// earlier in this same compile call if the group was already seen.
func (s *compileSession) resolveGroup(g *VariantGroup) (Variant, error) {
	if part, ok := s.collapsed[g]; ok {
		return part, nil
	}
	pick, err := s.pick(g)
	if err != nil {
		return Variant{}, err
	}
	part := Variant{Speech: formatArgs(pick.Speech, s.args)}
	if pick.DisplayText != nil {
		display := formatArgs(*pick.DisplayText, s.args)
		part.DisplayText = &display
	}
	if pick.CardText != "" {
		part.CardText = formatArgs(pick.CardText, s.args)
	}
	s.collapsed[g] = part
	return part, nil
}

// resolveCardGroup picks a variant whose text becomes a card caption:
// the resulting fragment has empty speech and only card text.
func (s *compileSession) resolveCardGroup(g *VariantGroup) (Variant, error) {
	if part, ok := s.collapsed[g]; ok {
		return part, nil
	}
	pick, err := s.pick(g)
	if err != nil {
		return Variant{}, err
	}
	text := pick.CardText
	if text == "" {
		text = pick.Speech
	}
	part := Variant{Speech: "", CardText: formatArgs(text, s.args)}
	s.collapsed[g] = part
	return part, nil
}

// pick applies the filter/fallback/random rule and records the chosen
// pre-substitution identity in the new dedup set.
func (s *compileSession) pick(g *VariantGroup) (Variant, error) {
	if len(g.Variants) == 0 {
		return Variant{}, ErrEmptyVariantGroup
	}
	available := g.Variants
	if len(s.prior) > 0 {
		filtered := make([]Variant, 0, len(g.Variants))
		for _, v := range g.Variants {
			if !s.prior[v.id()] {
				filtered = append(filtered, v)
			}
		}
		// All candidates were used last turn: selection must still
		// produce a result, so fall back to the full list.
		if len(filtered) > 0 {
			available = filtered
		}
	}
	pick := available[randomInt(s.compiler.rng, 0, len(available)-1)]
	s.chosen = append(s.chosen, pick.id())
	return pick, nil
}
