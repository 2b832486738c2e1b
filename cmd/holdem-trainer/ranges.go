package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/holdem-trainer/internal/ai"
)

// RangesCmd prints the built-in ranges and personalities.
type RangesCmd struct {
	Range string `arg:"" optional:"" help:"Show the full hand list for one range"`
}

func (c *RangesCmd) Run(cli *CLI) error {
	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	if c.Range != "" {
		table, ok := ai.BuiltinRange(c.Range)
		if !ok {
			return fmt.Errorf("unknown range %q (have: %s)", c.Range, strings.Join(ai.BuiltinRangeNames(), ", "))
		}
		fmt.Fprintln(os.Stdout, header.Render(fmt.Sprintf("%s (%d hands)", table.Name, table.Size())))
		for _, hand := range table.Hands() {
			entry, _ := table.Lookup(hand)
			fmt.Fprintf(os.Stdout, "  %-4s %s %.0f%%\n", hand, entry.Action, entry.Frequency*100)
		}
		return nil
	}

	fmt.Fprintln(os.Stdout, header.Render("ranges"))
	for _, name := range ai.BuiltinRangeNames() {
		table, _ := ai.BuiltinRange(name)
		fmt.Fprintf(os.Stdout, "  %-10s %d hands\n", name, table.Size())
	}

	fmt.Fprintln(os.Stdout, header.Render("personalities"))
	for _, name := range ai.BuiltinPersonalityNames() {
		p, _ := ai.BuiltinPersonality(name)
		fmt.Fprintf(os.Stdout, "  %-10s %s\n", name, dim.Render(fmt.Sprintf(
			"aggression %.2f, bluff %.2f, fold threshold %.2f, raise bias %.2f, range %s",
			p.Aggressiveness, p.BluffFrequency, p.FoldThreshold, p.RaiseBias, p.Range.Name)))
	}
	return nil
}
