package genie

import "fmt"

// ──────────────────────────────────────────────
// Prompt tables — every canned response the game can give
// ──────────────────────────────────────────────

// Prompt names, one per semantic response the guess evaluator can select.
const (
	PromptWelcome             = "welcome"
	PromptSameGuess           = "same_guess"
	PromptSameGuessNoHint     = "same_guess_no_hint"
	PromptSameGuessQuit       = "same_guess_quit"
	PromptWrongHigher         = "wrong_higher"
	PromptWrongLower          = "wrong_lower"
	PromptMin                 = "min"
	PromptMax                 = "max"
	PromptReallyColdHigh      = "really_cold_high"
	PromptReallyColdLow       = "really_cold_low"
	PromptHighClose           = "high_close"
	PromptLowClose            = "low_close"
	PromptHighest             = "highest"
	PromptHighestSteam        = "highest_steam"
	PromptLowest              = "lowest"
	PromptLowestSteam         = "lowest_steam"
	PromptHigher              = "higher"
	PromptLower               = "lower"
	PromptReallyHotHigh       = "really_hot_high"
	PromptReallyHotHigh2      = "really_hot_high2"
	PromptReallyHotHigh2Steam = "really_hot_high2_steam"
	PromptReallyHotLow        = "really_hot_low"
	PromptReallyHotLow2       = "really_hot_low2"
	PromptReallyHotLow2Steam  = "really_hot_low2_steam"
	PromptHigh                = "high"
	PromptLow                 = "low"
	PromptWin                 = "win"
	PromptWinManyTries        = "win_many_tries"
	PromptReveal              = "reveal"
	PromptRe                  = "re"
	PromptReAnother           = "re_another"
	PromptQuit                = "quit"
	PromptFallback            = "fallback"
	PromptFallback2           = "fallback2"
	PromptDeeplink            = "deeplink"
	PromptDeeplink2           = "deeplink2"
	PromptDeeplink3           = "deeplink3"
	PromptOutOfBounds         = "out_of_bounds_deeplink"
	PromptAnother             = "another"
	PromptNoInput1            = "no_input1"
	PromptNoInput2            = "no_input2"
	PromptNoInput3            = "no_input3"
)

// ErrUnknownPrompt reports a reference to a prompt the book does not hold.
var ErrUnknownPrompt = fmt.Errorf("genie: unknown prompt")

// ImageURL resolves a hosted image file name against the asset base URL.
func ImageURL(base, name string) string {
	return base + "/images/" + name
}

// SoundTag builds the SSML audio tag for a hosted sound file.
func SoundTag(base, name string) string {
	return fmt.Sprintf("<audio src=%q/>", base+"/audio/"+name)
}

// PromptBook is the immutable, process-wide registry of prompt templates
// for one configuration. Build it once and share it across all sessions.
type PromptBook struct {
	prompts map[string]*Prompt
}

// Get returns the named prompt or ErrUnknownPrompt.
func (b *PromptBook) Get(name string) (*Prompt, error) {
	p, ok := b.prompts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPrompt, name)
	}
	return p, nil
}

// Names returns every registered prompt name.
func (b *PromptBook) Names() []string {
	names := make([]string, 0, len(b.prompts))
	for n := range b.prompts {
		names = append(names, n)
	}
	return names
}

// BuildPromptBook assembles and validates the full prompt registry.
// A validation failure is an authoring error and aborts construction.
func BuildPromptBook(cfg GameConfig) (*PromptBook, error) {
	base := cfg.AssetBaseURL

	// Sound effect groups. Single-variant groups: the cue either plays
	// or the prompt without the cue is used instead.
	soundColdWind := NewVariantGroup(SoundTag(base, "NumberGenieEarcon_ColdWind.wav"))
	soundSteam := NewVariantGroup(SoundTag(base, "NumberGenieEarcons_Steam.wav"))
	soundSteamOnly := NewVariantGroup(SoundTag(base, "NumberGenieEarcon_SteamOnly.wav"))
	soundWin := NewVariantGroup(SoundTag(base, "NumberGenieEarcons_YouWin.wav"))

	imgIntro := &Image{URL: ImageURL(base, "intro.gif"), Alt: "Number Genie"}
	imgCool := &Image{URL: ImageURL(base, "cool.gif"), Alt: "Cool genie"}
	imgCold := &Image{URL: ImageURL(base, "cold.gif"), Alt: "Freezing genie"}
	imgHot := &Image{URL: ImageURL(base, "hot.gif"), Alt: "Hot genie"}
	imgWin := &Image{URL: ImageURL(base, "win.gif"), Alt: "Celebrating genie"}

	// Shared phrase groups. Declared once and referenced from every prompt
	// that uses them, so the dedup and collapse rules see one identity.
	greeting := NewVariantGroup(
		"Hi!",
		"Hey there!",
		"Welcome!",
	)
	invocation := NewVariantGroup(
		"I'm thinking of a number from %s to %s.",
		"I've picked a number between %s and %s.",
	)
	invocationGuess := NewVariantGroup(
		"What's your first guess?",
		"Take your first guess.",
	)
	another := NewVariantGroup(
		"Guess again.",
		"What's your next guess?",
		"Have another guess.",
	)
	again := NewVariantGroup(
		"Want to play again?",
		"Up for another round?",
	)
	reOpen := NewVariantGroup(
		"Great!",
		"Okay, here we go again.",
		"Let's do it!",
	)
	reInvocation := NewVariantGroup(
		"I'm thinking of a new number from %s to %s.",
		"This time it's a number between %s and %s.",
	)
	reInvocationAnother := NewVariantGroup(
		"What's your guess?",
		"Start guessing.",
	)

	higherPhrase := NewVariantGroup(
		"It's higher than %s, and you're getting warm.",
		"Go higher than %s. You're warm now.",
	)
	lowerPhrase := NewVariantGroup(
		"It's lower than %s, and you're getting warm.",
		"Go lower than %s. You're warm now.",
	)
	highestPhrase := NewVariantGroup(
		"You're piping hot!",
		"You're burning up!",
	)
	lowestPhrase := NewVariantGroup(
		"You're piping hot!",
		"You're scorching!",
	)
	reallyHotHigh2 := NewVariantGroup(
		"Keep going higher. You're hot!",
		"A bit higher still. So hot!",
	)
	reallyHotLow2 := NewVariantGroup(
		"Keep going lower. You're hot!",
		"A bit lower still. So hot!",
	)
	correct := NewVariantGroup(
		"Well done! It was %s.",
		"You got it! The number was %s.",
		"That's it! %s was my number.",
	)
	manyTries := NewVariantGroup(
		"Phew! It was %s. You finally got it!",
		"At last! Yes, %s was my number.",
	)

	confirm := []string{"Yes", "No"}

	withDone := SuggestFn(NumberSuggestions)

	book := &PromptBook{prompts: map[string]*Prompt{
		PromptWelcome: {
			Name: PromptWelcome,
			Visual: &SurfacePrompt{
				Elements: []Element{
					Line{greeting, invocation},
					invocationGuess,
					imgIntro,
				},
				SuggestFn: OnlyNumberSuggestions,
			},
			Audio: &SurfacePrompt{
				Elements: []Element{
					Line{greeting, invocation},
					invocationGuess,
				},
			},
		},
		PromptSameGuessNoHint: {
			Name: PromptSameGuessNoHint,
			Visual: &SurfacePrompt{
				Elements: []Element{
					NewVariantGroup(
						"It's still not %s. Try a different number.",
						"You already said %s. Pick another one.",
					),
				},
				SuggestFn: withDone,
			},
		},
		PromptSameGuess: {
			Name: PromptSameGuess,
			Visual: &SurfacePrompt{
				Elements: []Element{
					NewVariantGroup(
						"You said %s already. Try guessing %s.",
						"Still %s? Remember to guess %s this time.",
					),
				},
				SuggestFn: withDone,
			},
		},
		PromptSameGuessQuit: {
			Name: PromptSameGuessQuit,
			Visual: &SurfacePrompt{
				Elements: []Element{
					NewVariantGroup(
						"That's %s three times in a row. Maybe next time. Bye!",
						"Okay, %s it is. Maybe we'll get there next time. Goodbye!",
					),
				},
			},
		},
		PromptWrongHigher: {
			Name: PromptWrongHigher,
			Visual: &SurfacePrompt{
				Elements: []Element{
					NewVariantGroup(
						"Clever, but no. Guess higher than %s.",
						"Nice try, but it's still higher than %s.",
					),
					imgCool,
				},
				SuggestFn: withDone,
			},
		},
		PromptWrongLower: {
			Name: PromptWrongLower,
			Visual: &SurfacePrompt{
				Elements: []Element{
					NewVariantGroup(
						"Clever, but no. Guess lower than %s.",
						"Nice try, but it's still lower than %s.",
					),
					imgCool,
				},
				SuggestFn: withDone,
			},
		},
		PromptMin: {
			Name: PromptMin,
			Visual: &SurfacePrompt{
				Elements: []Element{
					NewVariantGroup(
						"I see what you did there. But no, it's higher than %s.",
						"Well, you've got a floor now. It's higher than %s.",
					),
					another,
				},
				SuggestFn: withDone,
			},
		},
		PromptMax: {
			Name: PromptMax,
			Visual: &SurfacePrompt{
				Elements: []Element{
					NewVariantGroup(
						"I see what you did there. But no, it's lower than %s.",
						"Well, you've got a ceiling now. It's lower than %s.",
					),
					another,
				},
				SuggestFn: withDone,
			},
		},
		PromptReallyColdHigh: {
			Name: PromptReallyColdHigh,
			Visual: &SurfacePrompt{
				Elements: []Element{
					Line{soundColdWind, NewVariantGroup(
						"Brr! You're ice cold. It's way higher than %s.",
						"So cold in here! Go much higher than %s.",
					)},
					imgCold,
				},
				SuggestFn: withDone,
			},
		},
		PromptReallyColdLow: {
			Name: PromptReallyColdLow,
			Visual: &SurfacePrompt{
				Elements: []Element{
					Line{soundColdWind, NewVariantGroup(
						"Brr! You're ice cold. It's way lower than %s.",
						"So cold in here! Go much lower than %s.",
					)},
					imgCold,
				},
				SuggestFn: withDone,
			},
		},
		PromptHighClose: {
			Name: PromptHighClose,
			Visual: &SurfacePrompt{
				Elements: []Element{
					NewVariantGroup(
						"You're so close. No more hints from me!",
						"Almost there, but my lips are sealed now.",
					),
					imgHot,
				},
				SuggestFn: withDone,
			},
		},
		PromptLowClose: {
			Name: PromptLowClose,
			Visual: &SurfacePrompt{
				Elements: []Element{
					NewVariantGroup(
						"You're so close. No more hints from me!",
						"Nearly there, but my lips are sealed now.",
					),
					imgHot,
				},
				SuggestFn: withDone,
			},
		},
		PromptHighestSteam: {
			Name: PromptHighestSteam,
			Visual: &SurfacePrompt{
				Elements: []Element{
					Line{soundSteamOnly, highestPhrase},
					imgHot,
				},
				SuggestFn: withDone,
			},
			Audio: &SurfacePrompt{
				Elements: []Element{
					Line{soundSteamOnly, highestPhrase},
				},
			},
		},
		PromptHighest: {
			Name: PromptHighest,
			Visual: &SurfacePrompt{
				Elements: []Element{
					highestPhrase,
					imgHot,
				},
				SuggestFn: withDone,
			},
		},
		PromptLowestSteam: {
			Name: PromptLowestSteam,
			Visual: &SurfacePrompt{
				Elements: []Element{
					Line{soundSteamOnly, lowestPhrase},
					imgHot,
				},
				SuggestFn: withDone,
			},
			Audio: &SurfacePrompt{
				Elements: []Element{
					Line{soundSteamOnly, lowestPhrase},
				},
			},
		},
		PromptLowest: {
			Name: PromptLowest,
			Visual: &SurfacePrompt{
				Elements: []Element{
					lowestPhrase,
					imgHot,
				},
				SuggestFn: withDone,
			},
		},
		PromptHigher: {
			Name: PromptHigher,
			Visual: &SurfacePrompt{
				Elements: []Element{
					higherPhrase,
					imgHot,
					another,
				},
				SuggestFn: withDone,
			},
		},
		PromptLower: {
			Name: PromptLower,
			Visual: &SurfacePrompt{
				Elements: []Element{
					lowerPhrase,
					imgHot,
					another,
				},
				SuggestFn: withDone,
			},
		},
		PromptReallyHotHigh2Steam: {
			Name: PromptReallyHotHigh2Steam,
			Visual: &SurfacePrompt{
				Elements: []Element{
					Line{soundSteam, reallyHotHigh2},
					imgHot,
				},
				SuggestFn: withDone,
			},
			Audio: &SurfacePrompt{
				Elements: []Element{
					Line{soundSteam, reallyHotHigh2},
				},
			},
		},
		PromptReallyHotHigh: {
			Name: PromptReallyHotHigh,
			Visual: &SurfacePrompt{
				Elements: []Element{
					NewVariantGroup(
						"You're so close! Just a little higher.",
						"Almost there! Nudge it up.",
					),
					imgHot,
				},
				SuggestFn: withDone,
			},
		},
		PromptReallyHotHigh2: {
			Name: PromptReallyHotHigh2,
			Visual: &SurfacePrompt{
				Elements: []Element{
					reallyHotHigh2,
					imgHot,
				},
				SuggestFn: withDone,
			},
		},
		PromptReallyHotLow2Steam: {
			Name: PromptReallyHotLow2Steam,
			Visual: &SurfacePrompt{
				Elements: []Element{
					Line{soundSteam, reallyHotLow2},
					imgHot,
				},
				SuggestFn: withDone,
			},
			Audio: &SurfacePrompt{
				Elements: []Element{
					Line{soundSteam, reallyHotLow2},
				},
			},
		},
		PromptReallyHotLow: {
			Name: PromptReallyHotLow,
			Visual: &SurfacePrompt{
				Elements: []Element{
					NewVariantGroup(
						"You're so close! Just a little lower.",
						"Almost there! Nudge it down.",
					),
					imgHot,
				},
				SuggestFn: withDone,
			},
		},
		PromptReallyHotLow2: {
			Name: PromptReallyHotLow2,
			Visual: &SurfacePrompt{
				Elements: []Element{
					reallyHotLow2,
					imgHot,
				},
				SuggestFn: withDone,
			},
		},
		PromptHigh: {
			Name: PromptHigh,
			Visual: &SurfacePrompt{
				Elements: []Element{
					NewVariantGroup(
						"It's higher than %s.",
						"Higher than %s.",
					),
					another,
				},
				SuggestFn: withDone,
			},
		},
		PromptLow: {
			Name: PromptLow,
			Visual: &SurfacePrompt{
				Elements: []Element{
					NewVariantGroup(
						"It's lower than %s.",
						"Lower than %s.",
					),
					another,
				},
				SuggestFn: withDone,
			},
		},
		PromptWin: {
			Name: PromptWin,
			Visual: &SurfacePrompt{
				Elements: []Element{
					Line{soundWin, correct},
					imgWin,
					again,
				},
				Suggestions: confirm,
			},
			Audio: &SurfacePrompt{
				Elements: []Element{
					Line{soundWin, correct},
					again,
				},
			},
		},
		PromptWinManyTries: {
			Name: PromptWinManyTries,
			Visual: &SurfacePrompt{
				Elements: []Element{
					Line{soundWin, manyTries},
					imgWin,
					again,
				},
				Suggestions: confirm,
			},
			Audio: &SurfacePrompt{
				Elements: []Element{
					Line{soundWin, manyTries},
					again,
				},
			},
		},
		PromptReveal: {
			Name: PromptReveal,
			Visual: &SurfacePrompt{
				Elements: []Element{
					NewVariantGroup(
						"Sure, I'll tell you. The number was %s.",
						"Okay. My number was %s.",
					),
					NewVariantGroup(
						"See you later.",
						"Come back soon.",
					),
				},
			},
		},
		PromptRe: {
			Name: PromptRe,
			Visual: &SurfacePrompt{
				Elements: []Element{
					Line{reOpen, reInvocation},
					reInvocationAnother,
				},
				SuggestFn: withDone,
			},
		},
		PromptReAnother: {
			Name: PromptReAnother,
			Visual: &SurfacePrompt{
				Elements: []Element{
					reOpen,
					another,
				},
				SuggestFn: withDone,
			},
		},
		PromptQuit: {
			Name: PromptQuit,
			Visual: &SurfacePrompt{
				Elements: []Element{
					NewVariantGroup(
						"Okay, I'm already thinking of a number for next time. Bye!",
						"Alright, see you next time. I'll have a new number ready!",
					),
				},
			},
		},
		PromptFallback: {
			Name: PromptFallback,
			Visual: &SurfacePrompt{
				Elements: []Element{
					NewVariantGroup(
						"Sorry, I didn't catch that. Are you done playing?",
						"I didn't get that. Do you want to stop playing?",
					),
				},
				Suggestions: confirm,
			},
		},
		PromptFallback2: {
			Name: PromptFallback2,
			Visual: &SurfacePrompt{
				Elements: []Element{
					NewVariantGroup(
						"Since I'm still having trouble, I'll stop here. Come back soon!",
						"We seem to be stuck, so let's stop for now. Play again soon!",
					),
				},
			},
		},
		PromptDeeplink: {
			Name: PromptDeeplink,
			Visual: &SurfacePrompt{
				Elements: []Element{
					greeting,
					NewVariantGroup(
						"Let's use %s as your guess. It has %s letters, and my number is higher than %s.",
						"%s? Fun! That's %s letters, and the number I'm thinking of is higher than %s.",
					),
				},
				SuggestFn: withDone,
			},
		},
		PromptDeeplink2: {
			Name: PromptDeeplink2,
			Visual: &SurfacePrompt{
				Elements: []Element{
					greeting,
					NewVariantGroup(
						"Let's use %s as your guess. It has %s letters, and my number is lower than %s.",
						"%s? Fun! That's %s letters, and the number I'm thinking of is lower than %s.",
					),
				},
				SuggestFn: withDone,
			},
		},
		PromptDeeplink3: {
			Name: PromptDeeplink3,
			Visual: &SurfacePrompt{
				Elements: []Element{
					Line{soundWin, NewVariantGroup(
						"Wow! %s has %s letters, and my number was exactly %s. You win!",
						"Unbelievable! %s is %s letters, and %s was my number. You win!",
					)},
					imgWin,
					again,
				},
				Suggestions: confirm,
			},
		},
		PromptOutOfBounds: {
			Name: PromptOutOfBounds,
			Visual: &SurfacePrompt{
				Elements: []Element{
					Line{NewVariantGroup(
						"That number is out of bounds, so I picked my own.",
						"I can't use that one, so I chose a different number.",
					), invocation},
					invocationGuess,
					imgIntro,
				},
				SuggestFn: withDone,
			},
		},
		PromptAnother: {
			Name: PromptAnother,
			Visual: &SurfacePrompt{
				Elements: []Element{
					another,
				},
				SuggestFn: withDone,
			},
		},
		PromptNoInput1: {
			Name: PromptNoInput1,
			Visual: &SurfacePrompt{
				Elements: []Element{
					NewVariantGroup("I didn't hear a number."),
				},
				SuggestFn: withDone,
			},
		},
		PromptNoInput2: {
			Name: PromptNoInput2,
			Visual: &SurfacePrompt{
				Elements: []Element{
					NewVariantGroup("If you're still there, what's your guess?"),
				},
				SuggestFn: withDone,
			},
		},
		PromptNoInput3: {
			Name: PromptNoInput3,
			Visual: &SurfacePrompt{
				Elements: []Element{
					NewVariantGroup("We can stop here. Let's play again soon!"),
				},
			},
		},
	}}

	for name, p := range book.prompts {
		if p.Name == "" {
			p.Name = name
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
	}
	return book, nil
}
