// Package config loads trainer configuration from HCL files.
package config

import (
	"fmt"
	"os"
	"sort"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/holdem-trainer/internal/ai"
	"github.com/lox/holdem-trainer/internal/game"
)

// Config represents the complete trainer configuration.
type Config struct {
	Game          GameSettings        `hcl:"game,block"`
	Server        *ServerSettings     `hcl:"server,block"`
	BlindLevels   []BlindLevelConfig  `hcl:"blind_level,block"`
	Opponents     []OpponentConfig    `hcl:"opponent,block"`
	Personalities []PersonalityConfig `hcl:"personality,block"`
	Ranges        []RangeConfig       `hcl:"range,block"`
}

// GameSettings contains table-level configuration.
type GameSettings struct {
	GameType      string `hcl:"game_type,optional"`
	StartingStack int    `hcl:"starting_stack,optional"`
	SmallBlind    int    `hcl:"small_blind,optional"`
	BigBlind      int    `hcl:"big_blind,optional"`
	Ante          int    `hcl:"ante,optional"`
	HistoryDir    string `hcl:"history_dir,optional"`
	LogLevel      string `hcl:"log_level,optional"`
}

// ServerSettings configures the websocket table server.
type ServerSettings struct {
	Address string `hcl:"address,optional"`
	Port    int    `hcl:"port,optional"`
}

// BlindLevelConfig is one step of a tournament blind schedule.
type BlindLevelConfig struct {
	Name       string `hcl:"name,label"`
	SmallBlind int    `hcl:"small_blind"`
	BigBlind   int    `hcl:"big_blind"`
	Ante       int    `hcl:"ante,optional"`
	Hands      int    `hcl:"hands"`
}

// OpponentConfig seats one computer opponent.
type OpponentConfig struct {
	Name        string `hcl:"name,label"`
	Personality string `hcl:"personality,optional"`
}

// PersonalityConfig defines a custom opponent personality.
type PersonalityConfig struct {
	Name           string  `hcl:"name,label"`
	Aggressiveness float64 `hcl:"aggressiveness"`
	BluffFrequency float64 `hcl:"bluff_frequency"`
	FoldThreshold  float64 `hcl:"fold_threshold"`
	RaiseBias      float64 `hcl:"raise_bias"`
	Range          string  `hcl:"range,optional"`
}

// RangeConfig defines a custom preflop range.
type RangeConfig struct {
	Name  string            `hcl:"name,label"`
	Hands []RangeHandConfig `hcl:"hand,block"`
}

// RangeHandConfig is one starting hand within a range.
type RangeHandConfig struct {
	Notation  string  `hcl:"notation,label"`
	Frequency float64 `hcl:"frequency"`
	Action    string  `hcl:"action"`
}

// Default returns the stock configuration: a 6-max cash table against
// the builtin personalities.
func Default() *Config {
	return &Config{
		Game: GameSettings{
			GameType:      "cash",
			StartingStack: 1000,
			SmallBlind:    5,
			BigBlind:      10,
			LogLevel:      "info",
		},
		Opponents: []OpponentConfig{
			{Name: "rocky", Personality: "rock"},
			{Name: "tina", Personality: "tag"},
			{Name: "max", Personality: "maniac"},
			{Name: "sal", Personality: "station"},
			{Name: "terry", Personality: "tag"},
		},
	}
}

// Load reads configuration from an HCL file. A missing file yields the
// defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Game.GameType == "" {
		c.Game.GameType = "cash"
	}
	if c.Game.StartingStack == 0 {
		c.Game.StartingStack = 1000
	}
	if c.Game.SmallBlind == 0 {
		c.Game.SmallBlind = 5
	}
	if c.Game.BigBlind == 0 {
		c.Game.BigBlind = c.Game.SmallBlind * 2
	}
	if c.Game.LogLevel == "" {
		c.Game.LogLevel = "info"
	}
	if c.Server != nil {
		if c.Server.Address == "" {
			c.Server.Address = "localhost"
		}
		if c.Server.Port == 0 {
			c.Server.Port = 8080
		}
	}
	for i := range c.Opponents {
		if c.Opponents[i].Personality == "" {
			c.Opponents[i].Personality = "tag"
		}
	}
	if len(c.Opponents) == 0 {
		c.Opponents = Default().Opponents
	}
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	switch c.Game.GameType {
	case "cash", "tournament":
	default:
		return fmt.Errorf("invalid game_type %q", c.Game.GameType)
	}
	if c.Game.SmallBlind <= 0 {
		return fmt.Errorf("small blind must be positive")
	}
	if c.Game.BigBlind <= c.Game.SmallBlind {
		return fmt.Errorf("big blind must be greater than small blind")
	}
	if c.Game.StartingStack < c.Game.BigBlind*10 {
		return fmt.Errorf("starting stack %d is under 10 big blinds", c.Game.StartingStack)
	}
	if n := len(c.Opponents); n < 1 || n > 9 {
		return fmt.Errorf("opponent count must be between 1 and 9, got %d", n)
	}
	if c.Game.GameType == "tournament" && len(c.BlindLevels) == 0 {
		return fmt.Errorf("tournament requires at least one blind_level block")
	}
	if c.Server != nil {
		if c.Server.Port < 1 || c.Server.Port > 65535 {
			return fmt.Errorf("invalid port: %d", c.Server.Port)
		}
	}

	for _, level := range c.BlindLevels {
		if level.SmallBlind <= 0 || level.BigBlind <= level.SmallBlind {
			return fmt.Errorf("blind level %s: invalid blinds %d/%d", level.Name, level.SmallBlind, level.BigBlind)
		}
		if level.Hands <= 0 {
			return fmt.Errorf("blind level %s: hands must be positive", level.Name)
		}
	}

	ranges, _ := c.BuildRanges()

	for _, p := range c.Personalities {
		built := ai.Personality{
			Name:           p.Name,
			Aggressiveness: p.Aggressiveness,
			BluffFrequency: p.BluffFrequency,
			FoldThreshold:  p.FoldThreshold,
			RaiseBias:      p.RaiseBias,
		}
		if err := built.Validate(); err != nil {
			return err
		}
		if p.Range != "" {
			if _, ok := c.lookupRange(p.Range, ranges); !ok {
				return fmt.Errorf("personality %q: unknown range %q", p.Name, p.Range)
			}
		}
	}

	for _, o := range c.Opponents {
		if _, err := c.Personality(o.Personality); err != nil {
			return fmt.Errorf("opponent %q: %w", o.Name, err)
		}
	}
	return nil
}

// Settings converts the game block into table settings.
func (c *Config) Settings() game.Settings {
	settings := game.Settings{
		GameType:      game.CashGame,
		StartingStack: c.Game.StartingStack,
		SmallBlind:    c.Game.SmallBlind,
		BigBlind:      c.Game.BigBlind,
		Ante:          c.Game.Ante,
	}
	if c.Game.GameType == "tournament" {
		settings.GameType = game.Tournament
		for _, level := range c.BlindLevels {
			settings.BlindLevels = append(settings.BlindLevels, game.BlindLevel{
				SmallBlind: level.SmallBlind,
				BigBlind:   level.BigBlind,
				Ante:       level.Ante,
				Hands:      level.Hands,
			})
		}
	}
	return settings
}

// BuildRanges constructs all custom range tables. Malformed entries
// are dropped rather than fatal so a bad hand degrades to the AI's
// tier fallback instead of making the personality unusable; the
// returned list names the dropped entries so callers can warn.
func (c *Config) BuildRanges() (map[string]*ai.RangeTable, []string) {
	ranges := make(map[string]*ai.RangeTable, len(c.Ranges))
	var dropped []string
	for _, rc := range c.Ranges {
		entries := make(map[string]ai.RangeEntry, len(rc.Hands))
		for _, h := range rc.Hands {
			var action game.Action
			switch h.Action {
			case "call":
				action = game.Call
			case "raise":
				action = game.Raise
			default:
				dropped = append(dropped, rc.Name+"/"+h.Notation)
				continue
			}
			entries[h.Notation] = ai.RangeEntry{Frequency: h.Frequency, Action: action}
		}
		table, bad := ai.NewRangeTable(rc.Name, entries)
		for _, hand := range bad {
			dropped = append(dropped, rc.Name+"/"+hand)
		}
		ranges[rc.Name] = table
	}
	sort.Strings(dropped)
	return ranges, dropped
}

// Personality resolves a personality by name, custom definitions first,
// then the builtins.
func (c *Config) Personality(name string) (ai.Personality, error) {
	for _, p := range c.Personalities {
		if p.Name != name {
			continue
		}
		built := ai.Personality{
			Name:           p.Name,
			Aggressiveness: p.Aggressiveness,
			BluffFrequency: p.BluffFrequency,
			FoldThreshold:  p.FoldThreshold,
			RaiseBias:      p.RaiseBias,
		}
		if p.Range != "" {
			ranges, _ := c.BuildRanges()
			table, ok := c.lookupRange(p.Range, ranges)
			if !ok {
				return ai.Personality{}, fmt.Errorf("personality %q: unknown range %q", p.Name, p.Range)
			}
			built.Range = table
		}
		return built, nil
	}

	if p, ok := ai.BuiltinPersonality(name); ok {
		return p, nil
	}
	return ai.Personality{}, fmt.Errorf("unknown personality %q", name)
}

// lookupRange resolves a range name against custom ranges, then the
// builtins.
func (c *Config) lookupRange(name string, ranges map[string]*ai.RangeTable) (*ai.RangeTable, bool) {
	if table, ok := ranges[name]; ok {
		return table, true
	}
	return ai.BuiltinRange(name)
}

// ServerAddress returns the listen address for the table server.
func (c *Config) ServerAddress() string {
	if c.Server == nil {
		return "localhost:8080"
	}
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
