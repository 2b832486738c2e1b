package main

import (
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/holdem-trainer/internal/config"
)

// setupLogger builds the CLI logger with styled levels.
func setupLogger(cfg *config.Config, debug bool) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})

	styles := log.DefaultStyles()
	styles.Levels[log.InfoLevel] = lipgloss.NewStyle().
		SetString("INFO").
		Padding(0, 1, 0, 1).
		Foreground(lipgloss.Color("86")).Bold(true)
	styles.Levels[log.WarnLevel] = lipgloss.NewStyle().
		SetString("WARN").
		Padding(0, 1, 0, 1).
		Foreground(lipgloss.Color("214")).Bold(true)
	styles.Levels[log.ErrorLevel] = lipgloss.NewStyle().
		SetString("ERROR").
		Padding(0, 1, 0, 1).
		Foreground(lipgloss.Color("204")).Bold(true)
	logger.SetStyles(styles)

	level := cfg.Game.LogLevel
	if debug {
		level = "debug"
	}
	if parsed, err := log.ParseLevel(level); err == nil {
		logger.SetLevel(parsed)
	}
	return logger
}

// warnDroppedRangeEntries reports range entries the config discarded.
// The affected hands play through the AI's preflop tiers instead.
func warnDroppedRangeEntries(logger *log.Logger, cfg *config.Config) {
	if _, dropped := cfg.BuildRanges(); len(dropped) > 0 {
		logger.Warn("ignoring invalid range entries", "entries", strings.Join(dropped, ", "))
	}
}
