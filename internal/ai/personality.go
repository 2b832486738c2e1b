// Package ai implements the opponent decision model: a biased,
// randomized heuristic driven by a personality profile and an optional
// preflop range table. It is deliberately not a solver; there is no
// lookahead and no opponent modeling beyond the static range.
package ai

import "fmt"

// Personality holds the four tunable traits of an opponent, each in
// [0,1], plus an optional preflop range table.
type Personality struct {
	Name           string
	Aggressiveness float64 // tendency to bet/raise with strong hands
	BluffFrequency float64 // chance of betting weak hands
	FoldThreshold  float64 // hand-strength bar below which weak hands fold
	RaiseBias      float64 // raise sizing multiplier
	Range          *RangeTable
}

// Validate checks all traits are in [0,1].
func (p Personality) Validate() error {
	for _, trait := range []struct {
		name  string
		value float64
	}{
		{"aggressiveness", p.Aggressiveness},
		{"bluff_frequency", p.BluffFrequency},
		{"fold_threshold", p.FoldThreshold},
		{"raise_bias", p.RaiseBias},
	} {
		if trait.value < 0 || trait.value > 1 {
			return fmt.Errorf("personality %q: %s must be in [0,1], got %g", p.Name, trait.name, trait.value)
		}
	}
	return nil
}

// rangeFrequencyScale adjusts a range frequency for the personality:
// tight players (high fold threshold) play fewer of their hands, loose
// players more.
func (p Personality) rangeFrequencyScale(freq float64) float64 {
	switch {
	case p.FoldThreshold > 0.6:
		freq *= 0.7
	case p.FoldThreshold < 0.4:
		freq *= 1.3
	}
	if freq > 1.0 {
		freq = 1.0
	}
	return freq
}

// Builtin personalities for the trainer's stock opponents.
var builtinPersonalities = map[string]Personality{
	"rock": {
		Name:           "rock",
		Aggressiveness: 0.25,
		BluffFrequency: 0.05,
		FoldThreshold:  0.75,
		RaiseBias:      0.3,
	},
	"tag": {
		Name:           "tag",
		Aggressiveness: 0.7,
		BluffFrequency: 0.2,
		FoldThreshold:  0.6,
		RaiseBias:      0.6,
	},
	"maniac": {
		Name:           "maniac",
		Aggressiveness: 0.9,
		BluffFrequency: 0.45,
		FoldThreshold:  0.15,
		RaiseBias:      0.9,
	},
	"station": {
		Name:           "station",
		Aggressiveness: 0.15,
		BluffFrequency: 0.05,
		FoldThreshold:  0.2,
		RaiseBias:      0.2,
	},
}

// BuiltinPersonality returns a stock personality by name, with its
// matching builtin range attached.
func BuiltinPersonality(name string) (Personality, bool) {
	p, ok := builtinPersonalities[name]
	if !ok {
		return Personality{}, false
	}
	switch name {
	case "rock":
		p.Range, _ = BuiltinRange("tight")
	case "maniac", "station":
		p.Range, _ = BuiltinRange("loose")
	default:
		p.Range, _ = BuiltinRange("balanced")
	}
	return p, true
}

// BuiltinPersonalityNames lists the stock personalities.
func BuiltinPersonalityNames() []string {
	return []string{"rock", "tag", "maniac", "station"}
}
