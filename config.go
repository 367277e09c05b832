package genie

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// GameConfig holds all tunable game constants.
// Use DefaultGameConfig() for the standard 0-100 game, or
// NewGameConfigFromEnv() to load overrides from environment variables.
type GameConfig struct {
	// Min is the lowest number that can be drawn or guessed.
	Min int
	// Max is the highest number that can be drawn or guessed.
	Max int
	// SuggestionCount is how many numeric suggestion chips to offer.
	SuggestionCount int
	// SteamSoundGap is how many near-hit turns to wait between steam cues.
	SteamSoundGap int
	// ManyTriesThreshold is the guess count at which the win response
	// switches to the "took many tries" variant.
	ManyTriesThreshold int
	// FarThreshold is the distance beyond which a guess is "really cold".
	FarThreshold int
	// NearBandUpper and NearBandLower bound the "warm" band:
	// NearBandLower < diff <= NearBandUpper.
	NearBandUpper int
	NearBandLower int
	// AssetBaseURL is the root URL for hosted images and audio files.
	AssetBaseURL string
	// Debug enables verbose turn logging.
	Debug bool
}

// DefaultGameConfig returns the standard configuration.
func DefaultGameConfig() GameConfig {
	return GameConfig{
		Min:                0,
		Max:                100,
		SuggestionCount:    4,
		SteamSoundGap:      5,
		ManyTriesThreshold: 10,
		FarThreshold:       75,
		NearBandUpper:      10,
		NearBandLower:      4,
		AssetBaseURL:       "https://number-genie.firebaseapp.com",
	}
}

// NewGameConfigFromEnv loads configuration from environment variables,
// falling back to DefaultGameConfig() values. A .env file in the working
// directory is read first (existing env vars win).
//
// Recognized variables: GENIE_MIN, GENIE_MAX, GENIE_SUGGESTIONS,
// GENIE_STEAM_GAP, GENIE_ASSET_BASE_URL, GENIE_DEBUG.
func NewGameConfigFromEnv() (GameConfig, error) {
	loadDotEnv()

	cfg := DefaultGameConfig()
	var err error
	if cfg.Min, err = getEnvInt("GENIE_MIN", cfg.Min); err != nil {
		return cfg, err
	}
	if cfg.Max, err = getEnvInt("GENIE_MAX", cfg.Max); err != nil {
		return cfg, err
	}
	if cfg.SuggestionCount, err = getEnvInt("GENIE_SUGGESTIONS", cfg.SuggestionCount); err != nil {
		return cfg, err
	}
	if cfg.SteamSoundGap, err = getEnvInt("GENIE_STEAM_GAP", cfg.SteamSoundGap); err != nil {
		return cfg, err
	}
	if base := getEnv("GENIE_ASSET_BASE_URL", ""); base != "" {
		cfg.AssetBaseURL = strings.TrimRight(base, "/")
	}
	cfg.Debug = getEnv("GENIE_DEBUG", "") == "true"

	if cfg.Min >= cfg.Max {
		return cfg, fmt.Errorf("invalid range: min %d must be below max %d", cfg.Min, cfg.Max)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return strings.TrimSpace(val)
}

func getEnvInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return n, nil
}

// loadDotEnv reads a .env file if present. Existing env vars are not
// overridden.
func loadDotEnv() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])
		if os.Getenv(key) == "" {
			os.Setenv(key, val)
		}
	}
}
