package statistics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmptyStatistics(t *testing.T) {
	var s Statistics
	assert.Zero(t, s.Mean())
	assert.Zero(t, s.StdDev())
	assert.Zero(t, s.Median())
	assert.Zero(t, s.WinRate())
}

func TestMeanAndVariance(t *testing.T) {
	var s Statistics
	for _, net := range []float64{2, -1, 3, -2, 3} {
		s.Add(HandOutcome{NetBB: net})
	}

	assert.Equal(t, 5, s.Hands)
	assert.InDelta(t, 1.0, s.Mean(), 1e-9)
	assert.InDelta(t, 5.5, s.Variance(), 1e-9)
	assert.InDelta(t, 2.0, s.Median(), 1e-9)
}

func TestConfidenceIntervalBracketsMean(t *testing.T) {
	var s Statistics
	for i := 0; i < 100; i++ {
		net := 1.0
		if i%2 == 0 {
			net = -1.0
		}
		s.Add(HandOutcome{NetBB: net})
	}
	lo, hi := s.ConfidenceInterval95()
	assert.Less(t, lo, s.Mean())
	assert.Greater(t, hi, s.Mean())
}

func TestShowdownBuckets(t *testing.T) {
	var s Statistics
	s.Add(HandOutcome{NetBB: 4, Showdown: true, PotBB: 8})
	s.Add(HandOutcome{NetBB: 1.5, Showdown: false, PotBB: 3})
	s.Add(HandOutcome{NetBB: -2, Showdown: true, PotBB: 6})

	assert.Equal(t, 1, s.ShowdownWins)
	assert.Equal(t, 1, s.NonShowdownWins)
	assert.InDelta(t, 2.0, s.ShowdownBB, 1e-9)
	assert.InDelta(t, 1.5, s.NonShowdownBB, 1e-9)
	assert.InDelta(t, 8.0, s.MaxPotBB, 1e-9)
	assert.InDelta(t, 2.0/3.0, s.WinRate(), 1e-9)
}
