package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/holdem-trainer/internal/ai"
	"github.com/lox/holdem-trainer/internal/config"
	"github.com/lox/holdem-trainer/internal/deck"
	"github.com/lox/holdem-trainer/internal/game"
	"github.com/lox/holdem-trainer/internal/history"
	"github.com/lox/holdem-trainer/internal/session"
)

// PlayCmd plays an interactive session on the terminal.
type PlayCmd struct {
	Name       string        `default:"hero" help:"Your player name"`
	Hands      int           `default:"0" help:"Hands to play (0 plays until you quit or the game ends)"`
	Seed       int64         `default:"0" help:"RNG seed (0 for random)"`
	ThinkTime  time.Duration `default:"600ms" help:"Pause before computer decisions"`
	HistoryDir string        `help:"Directory for session history files (overrides config)"`
}

// errQuit signals a voluntary exit from the table.
var errQuit = errors.New("player quit")

func (c *PlayCmd) Run(cli *CLI) error {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := setupLogger(cfg, cli.Debug)
	warnDroppedRangeEntries(logger, cfg)

	historyDir := cfg.Game.HistoryDir
	if c.HistoryDir != "" {
		historyDir = c.HistoryDir
	}
	rec := history.NewRecorder(historyDir, nil)

	opponents, err := configuredOpponents(cfg)
	if err != nil {
		return err
	}

	console := newConsole(os.Stdin, os.Stdout)
	sess, err := session.New(session.Config{
		Settings:  cfg.Settings(),
		HeroName:  c.Name,
		HeroAgent: console,
		Opponents: opponents,
		Hands:     c.Hands,
		Seed:      c.Seed,
		ThinkTime: c.ThinkTime,
		Logger:    logger,
		Recorder:  rec,
		Observer:  console,
	})
	if err != nil {
		return err
	}

	logger.Info("session starting",
		"session", rec.SessionID(),
		"seed", sess.Seed(),
		"opponents", len(opponents))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = sess.Run(ctx)
	if err != nil && !errors.Is(err, errQuit) && !errors.Is(err, context.Canceled) {
		return err
	}

	console.printSummary(sess)
	if path := rec.Path(); path != "" {
		logger.Info("session recorded", "path", path)
	}
	return nil
}

// configuredOpponents resolves the config's opponent list.
func configuredOpponents(cfg *config.Config) ([]session.Opponent, error) {
	opponents := make([]session.Opponent, 0, len(cfg.Opponents))
	for _, o := range cfg.Opponents {
		p, err := cfg.Personality(o.Personality)
		if err != nil {
			return nil, err
		}
		opponents = append(opponents, session.Opponent{Name: o.Name, Personality: p})
	}
	return opponents, nil
}

// console renders the table and prompts for actions on a terminal.
type console struct {
	in  *bufio.Scanner
	out io.Writer

	cardStyle   lipgloss.Style
	redStyle    lipgloss.Style
	potStyle    lipgloss.Style
	actionStyle lipgloss.Style
	winStyle    lipgloss.Style
}

func newConsole(in io.Reader, out io.Writer) *console {
	return &console{
		in:          bufio.NewScanner(in),
		out:         out,
		cardStyle:   lipgloss.NewStyle().Bold(true),
		redStyle:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("204")),
		potStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		actionStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		winStyle:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
	}
}

// Act implements session.Agent.
func (c *console) Act(ctx context.Context, g *game.GameState, seat int) (ai.Decision, error) {
	legal := g.LegalActions(seat)
	p := g.Players[seat]
	toCall := g.Betting.CurrentBet - p.Bet

	fmt.Fprintf(c.out, "\n%s  board: %s  %s\n",
		strings.ToUpper(g.Street.String()),
		c.renderCards(g.Board),
		c.potStyle.Render(fmt.Sprintf("pot %d", tablePot(g))))
	fmt.Fprintf(c.out, "your hand: %s  stack: %d", c.renderCards(p.HoleCards), p.Chips)
	if toCall > 0 {
		fmt.Fprintf(c.out, "  to call: %d", min(toCall, p.Chips))
	}
	fmt.Fprintln(c.out)

	for {
		fmt.Fprintf(c.out, "[%s] > ", legalActionHelp(g, legal))
		if !c.in.Scan() {
			return ai.Decision{}, errQuit
		}
		d, err := parseCommand(strings.TrimSpace(c.in.Text()), legal)
		if err != nil {
			if errors.Is(err, errQuit) {
				return ai.Decision{}, err
			}
			fmt.Fprintf(c.out, "%v\n", err)
			continue
		}
		return d, nil
	}
}

// HandStarted implements session.Observer.
func (c *console) HandStarted(g *game.GameState) {
	fmt.Fprintf(c.out, "\n=== hand %d  blinds %d/%d", g.HandNum, g.SmallBlind, g.BigBlind)
	if g.Ante > 0 {
		fmt.Fprintf(c.out, " ante %d", g.Ante)
	}
	fmt.Fprintf(c.out, "  dealer: %s ===\n", g.Players[g.DealerSeat].Name)
}

// ActionApplied implements session.Observer.
func (c *console) ActionApplied(g *game.GameState, seat int, d ai.Decision) {
	fmt.Fprintln(c.out, c.actionStyle.Render(fmt.Sprintf("  %s: %s", g.Players[seat].Name, d)))
}

// HandFinished implements session.Observer.
func (c *console) HandFinished(g *game.GameState, result *game.HandResult) {
	if len(result.Board) > 0 {
		fmt.Fprintf(c.out, "board: %s\n", c.renderCards(result.Board))
	}
	for _, seat := range result.Winners {
		p := g.Players[seat]
		line := fmt.Sprintf("%s wins %d", p.Name, result.Payouts[seat])
		if ev, ok := result.Evaluations[seat]; ok {
			line += fmt.Sprintf(" with %s (%s)", ev.Rank, c.renderCards(p.HoleCards))
		}
		fmt.Fprintln(c.out, c.winStyle.Render(line))
	}
}

func (c *console) printSummary(sess *session.Session) {
	stats := sess.Stats()
	if stats.Hands == 0 {
		return
	}
	lo, hi := stats.ConfidenceInterval95()
	fmt.Fprintf(c.out, "\nsession over: %d hands, %.2f bb/hand (95%% CI [%.2f, %.2f]), win rate %.0f%%\n",
		stats.Hands, stats.Mean(), lo, hi, stats.WinRate()*100)
}

func (c *console) renderCards(cards []deck.Card) string {
	if len(cards) == 0 {
		return "--"
	}
	parts := make([]string, len(cards))
	for i, card := range cards {
		style := c.cardStyle
		if card.Suit.IsRed() {
			style = c.redStyle
		}
		parts[i] = style.Render(card.String())
	}
	return strings.Join(parts, " ")
}

// parseCommand turns terminal input into a decision, restricted to the
// legal action set.
func parseCommand(line string, legal []game.Action) (ai.Decision, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return ai.Decision{}, fmt.Errorf("enter an action")
	}
	if fields[0] == "quit" || fields[0] == "q" {
		return ai.Decision{}, errQuit
	}

	var action game.Action
	switch fields[0] {
	case "fold", "f":
		action = game.Fold
	case "check", "k":
		action = game.Check
	case "call", "c":
		action = game.Call
	case "bet", "b":
		action = game.Bet
	case "raise", "r":
		action = game.Raise
	case "allin", "a", "shove":
		action = game.AllIn
	default:
		return ai.Decision{}, fmt.Errorf("unknown action %q", fields[0])
	}

	found := false
	for _, a := range legal {
		if a == action {
			found = true
			break
		}
	}
	if !found {
		return ai.Decision{}, fmt.Errorf("%s is not legal now", action)
	}

	d := ai.Decision{Action: action}
	if action == game.Bet || action == game.Raise {
		if len(fields) < 2 {
			return ai.Decision{}, fmt.Errorf("%s needs an amount, e.g. %q", action, action.String()+" 150")
		}
		amount, err := strconv.Atoi(fields[1])
		if err != nil || amount <= 0 {
			return ai.Decision{}, fmt.Errorf("bad amount %q", fields[1])
		}
		d.Amount = amount
	}
	return d, nil
}

// legalActionHelp renders the prompt hint, with sizing bounds for
// bets and raises.
func legalActionHelp(g *game.GameState, legal []game.Action) string {
	parts := make([]string, 0, len(legal))
	for _, a := range legal {
		switch a {
		case game.Bet:
			parts = append(parts, fmt.Sprintf("bet>=%d", g.Betting.MinRaise))
		case game.Raise:
			parts = append(parts, fmt.Sprintf("raise>=%d", g.Betting.CurrentBet+g.Betting.MinRaise))
		default:
			parts = append(parts, a.String())
		}
	}
	return strings.Join(parts, " ")
}

func tablePot(g *game.GameState) int {
	total := g.Pot
	for _, p := range g.Players {
		total += p.Bet
	}
	return total
}
