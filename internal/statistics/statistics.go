// Package statistics aggregates per-hand results into session metrics,
// normalized to big blinds so results compare across blind levels.
package statistics

import (
	"math"
	"sort"
)

// HandOutcome is one hand's result for a tracked seat.
type HandOutcome struct {
	NetBB    float64 // net big blinds won or lost
	Showdown bool
	PotBB    float64 // final pot in big blinds
}

// Statistics accumulates hand outcomes for one seat over a session.
type Statistics struct {
	Hands  int
	SumBB  float64
	SumBB2 float64
	Values []float64

	ShowdownWins    int
	NonShowdownWins int
	ShowdownBB      float64
	NonShowdownBB   float64

	MaxPotBB float64
}

// Add incorporates a hand outcome.
func (s *Statistics) Add(outcome HandOutcome) {
	net := outcome.NetBB
	s.Hands++
	s.SumBB += net
	s.SumBB2 += net * net
	s.Values = append(s.Values, net)

	if outcome.Showdown {
		s.ShowdownBB += net
		if net > 0 {
			s.ShowdownWins++
		}
	} else {
		s.NonShowdownBB += net
		if net > 0 {
			s.NonShowdownWins++
		}
	}

	if outcome.PotBB > s.MaxPotBB {
		s.MaxPotBB = outcome.PotBB
	}
}

// Mean returns big blinds won per hand.
func (s *Statistics) Mean() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.SumBB / float64(s.Hands)
}

// Variance returns the sample variance of per-hand results.
func (s *Statistics) Variance() float64 {
	if s.Hands < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumBB2 - float64(s.Hands)*mean*mean) / float64(s.Hands-1)
}

// StdDev returns the sample standard deviation.
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean.
func (s *Statistics) StdError() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Hands))
}

// ConfidenceInterval95 returns the 95% confidence interval for the
// mean win rate.
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Median returns the median per-hand result.
func (s *Statistics) Median() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// WinRate returns the fraction of hands won.
func (s *Statistics) WinRate() float64 {
	if s.Hands == 0 {
		return 0
	}
	return float64(s.ShowdownWins+s.NonShowdownWins) / float64(s.Hands)
}
