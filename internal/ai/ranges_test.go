package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-trainer/internal/game"
)

func TestBuiltinRanges(t *testing.T) {
	tight, ok := BuiltinRange("tight")
	require.True(t, ok)
	loose, ok := BuiltinRange("loose")
	require.True(t, ok)
	balanced, ok := BuiltinRange("balanced")
	require.True(t, ok)

	assert.Less(t, tight.Size(), balanced.Size())
	assert.Less(t, balanced.Size(), loose.Size())

	// Aces raise in every stock range, the worst hand plays in none.
	for _, table := range []*RangeTable{tight, loose, balanced} {
		entry, found := table.Lookup("AA")
		require.True(t, found, "range %s should play AA", table.Name)
		assert.Equal(t, game.Raise, entry.Action)

		_, found = table.Lookup("72o")
		assert.False(t, found, "range %s should not play 72o", table.Name)
	}
}

func TestBuiltinRangeUnknownName(t *testing.T) {
	_, ok := BuiltinRange("gto")
	assert.False(t, ok)
}

func TestNewRangeTableDropsMalformedEntries(t *testing.T) {
	cases := map[string]map[string]RangeEntry{
		"bad notation":       {"XYs": {Frequency: 0.5, Action: game.Call}},
		"pair with suffix":   {"AAs": {Frequency: 0.5, Action: game.Call}},
		"low rank first":     {"KAs": {Frequency: 0.5, Action: game.Call}},
		"frequency above 1":  {"AKs": {Frequency: 1.5, Action: game.Call}},
		"negative frequency": {"AKs": {Frequency: -0.1, Action: game.Call}},
		"fold action":        {"AKs": {Frequency: 0.5, Action: game.Fold}},
	}
	for name, entries := range cases {
		t.Run(name, func(t *testing.T) {
			table, dropped := NewRangeTable("test", entries)
			assert.Len(t, dropped, 1)
			assert.Zero(t, table.Size())
		})
	}
}

func TestMalformedEntryDoesNotPoisonTable(t *testing.T) {
	table, dropped := NewRangeTable("test", map[string]RangeEntry{
		"AA":  {Frequency: 1.0, Action: game.Raise},
		"XYs": {Frequency: 0.5, Action: game.Call},
		"KQs": {Frequency: 0.8, Action: game.Call},
	})
	assert.Equal(t, []string{"XYs"}, dropped)
	assert.Equal(t, 2, table.Size())

	_, found := table.Lookup("AA")
	assert.True(t, found)
	_, found = table.Lookup("XYs")
	assert.False(t, found, "dropped hands must miss so the tier fallback plays them")
}

func TestRangeTableHandsSortedByStrength(t *testing.T) {
	table, dropped := NewRangeTable("test", map[string]RangeEntry{
		"72o": {Frequency: 0.1, Action: game.Call},
		"AA":  {Frequency: 1.0, Action: game.Raise},
		"JTs": {Frequency: 0.8, Action: game.Call},
	})
	require.Empty(t, dropped)
	assert.Equal(t, []string{"AA", "JTs", "72o"}, table.Hands())
}

func TestNilRangeLookup(t *testing.T) {
	var table *RangeTable
	_, found := table.Lookup("AA")
	assert.False(t, found)
	assert.Zero(t, table.Size())
}

func TestHandPercentileBounds(t *testing.T) {
	assert.Equal(t, 1.0, HandPercentile("AA"))
	assert.Equal(t, 0.0, HandPercentile("72o"))
	assert.Equal(t, 0.0, HandPercentile("nonsense"))
}

func TestBuiltinPersonalities(t *testing.T) {
	for _, name := range BuiltinPersonalityNames() {
		p, ok := BuiltinPersonality(name)
		require.True(t, ok, name)
		require.NoError(t, p.Validate())
		assert.NotNil(t, p.Range, name)
	}

	_, ok := BuiltinPersonality("hero")
	assert.False(t, ok)
}

func TestPersonalityValidateRejectsOutOfRangeTraits(t *testing.T) {
	p := Personality{Name: "broken", Aggressiveness: 1.2}
	assert.Error(t, p.Validate())

	p = Personality{Name: "broken", FoldThreshold: -0.1}
	assert.Error(t, p.Validate())
}
