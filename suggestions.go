package genie

import (
	"math/rand"
	"strconv"
)

// DoneSuggestion is the constant chip offered alongside numeric guesses.
const DoneSuggestion = "I'm done"

// OnlyNumberSuggestions returns up to cfg.SuggestionCount random numbers
// from the range still consistent with the current hint:
//
//	no hint      → [Min, Max]
//	hint higher  → [PreviousGuess+1, Max]
//	hint lower   → [Min, PreviousGuess-1]
//
// An empty or inverted range yields an empty list. The candidates are
// shuffled with a Durstenfeld shuffle so the chips differ turn to turn.
func OnlyNumberSuggestions(cfg GameConfig, state *SessionState, rng *rand.Rand) []string {
	none := state == nil || state.Hint == "" || state.Hint == HintNone
	min := cfg.Min
	max := cfg.Max
	if !none && state.Hint == HintHigher {
		min = state.PreviousGuess + 1
	}
	if !none && state.Hint == HintLower {
		max = state.PreviousGuess - 1
	}
	if max < min {
		return []string{}
	}

	all := make([]int, max-min+1)
	for i := range all {
		all[i] = min + i
	}
	for i := len(all) - 1; i > 0; i-- {
		j := randomInt(rng, 0, i)
		all[i], all[j] = all[j], all[i]
	}

	n := cfg.SuggestionCount
	if n > len(all) {
		n = len(all)
	}
	out := make([]string, 0, n)
	for _, v := range all[:n] {
		out = append(out, strconv.Itoa(v))
	}
	return out
}

// NumberSuggestions is OnlyNumberSuggestions plus the "I'm done" chip.
func NumberSuggestions(cfg GameConfig, state *SessionState, rng *rand.Rand) []string {
	return append(OnlyNumberSuggestions(cfg, state, rng), DoneSuggestion)
}
