package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/holdem-trainer/internal/history"
)

// ReviewCmd prints a recorded session file hand by hand.
type ReviewCmd struct {
	Path string `arg:"" help:"Path to a session JSON file"`
	Hand int    `help:"Show only this hand number"`
}

func (c *ReviewCmd) Run(cli *CLI) error {
	sess, err := history.Load(c.Path)
	if err != nil {
		return err
	}

	header := lipgloss.NewStyle().Bold(true)
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	fmt.Fprintf(os.Stdout, "session %s  %d hands  started %s\n",
		sess.SessionID, len(sess.Hands), sess.StartedAt.Format("2006-01-02 15:04"))

	for _, hand := range sess.Hands {
		if c.Hand != 0 && hand.HandNum != c.Hand {
			continue
		}
		fmt.Fprintln(os.Stdout, header.Render(fmt.Sprintf(
			"\nhand %d  blinds %d/%d  board: %s", hand.HandNum, hand.SmallBlind, hand.BigBlind, orDash(hand.Board))))
		for _, action := range hand.Actions {
			line := fmt.Sprintf("  [%s] %s %s", action.Street, action.Name, action.Action)
			if action.Amount > 0 {
				line += fmt.Sprintf(" %d", action.Amount)
			}
			fmt.Fprintln(os.Stdout, dim.Render(line))
		}
		for _, seat := range hand.Seats {
			if seat.Won == 0 {
				continue
			}
			line := fmt.Sprintf("  %s wins %d", seat.Name, seat.Won)
			if seat.HandRank != "" {
				line += fmt.Sprintf(" with %s (%s)", seat.HandRank, seat.HoleCards)
			}
			fmt.Fprintln(os.Stdout, line)
		}
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "--"
	}
	return s
}
