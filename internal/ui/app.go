// Package ui runs the interactive cellar console: a line-based loop that
// feeds player input through the intent parser into the simulation.
package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/appengine-ltd/vintner/internal/game"
	"github.com/appengine-ltd/vintner/internal/parser"
	"github.com/appengine-ltd/vintner/internal/store"
)

type AppConfig struct {
	Version    string
	Commit     string
	BuildDate  string
	ConfigPath string
	SavePath   string
	Seed       int64
}

type App struct {
	cfg    AppConfig
	in     io.Reader
	out    io.Writer
	parser *parser.Parser

	state      *game.CellarState
	saves      *store.Store
	lastEntity string
}

func NewApp(cfg AppConfig) *App {
	return &App{
		cfg:    cfg,
		in:     os.Stdin,
		out:    os.Stdout,
		parser: parser.New(),
	}
}

func (a *App) Run() error {
	runCfg, err := LoadRunConfig(a.cfg)
	if err != nil {
		return err
	}
	state, err := game.NewCellarState(runCfg)
	if err != nil {
		return err
	}
	a.state = &state

	if a.cfg.SavePath != "" {
		saves, err := store.Open(a.cfg.SavePath)
		if err != nil {
			return fmt.Errorf("open save store: %w", err)
		}
		defer saves.Close()
		a.saves = saves
	}

	fmt.Fprintf(a.out, "%s — v%s (%s) %s\n", runCfg.WineryName, a.cfg.Version, a.cfg.Commit, a.cfg.BuildDate)
	fmt.Fprintln(a.out, "Type help for commands.")
	return a.loop()
}

func (a *App) loop() error {
	scanner := bufio.NewScanner(a.in)
	for {
		fmt.Fprintf(a.out, "\nweek %d> ", a.state.Week)
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		quit, output := a.Handle(line)
		if output != "" {
			fmt.Fprintln(a.out, output)
		}
		if quit {
			return nil
		}
	}
}

// Handle processes one line of player input and returns whether the loop
// should exit, plus the text to show.
func (a *App) Handle(line string) (quit bool, output string) {
	if out, done, handled := a.handleAppCommand(line); handled {
		return done, out
	}

	result := a.state.ExecuteCellarCommand(line)
	if result.Handled {
		a.rememberEntity(line)
		return false, result.Message
	}

	intent := a.parser.Parse(a.parseContext(), line)
	if intent.Clarify != nil {
		return false, formatClarify(intent.Clarify)
	}

	command := parser.IntentToCommandString(intent)
	if command == "" {
		return false, "I didn't catch that. Type help for commands."
	}
	if out, done, handled := a.handleAppCommand(command); handled {
		return done, out
	}
	if len(intent.Args) > 0 {
		a.lastEntity = intent.Args[0]
	}
	result = a.state.ExecuteCellarCommand(command)
	if !result.Handled {
		return false, "I didn't catch that. Type help for commands."
	}
	return false, result.Message
}

// handleAppCommand covers the commands that live above the simulation:
// quitting and the save slots.
func (a *App) handleAppCommand(line string) (output string, quit bool, handled bool) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(line)))
	if len(fields) == 0 {
		return "", false, false
	}
	switch fields[0] {
	case "quit", "exit":
		return "Closing the cellar door.", true, true
	case "save":
		slot := "autosave"
		if len(fields) > 1 {
			slot = fields[1]
		}
		if a.saves == nil {
			return "Saving is disabled (no save path).", false, true
		}
		if err := a.saves.SaveCellar(context.Background(), slot, a.state); err != nil {
			return fmt.Sprintf("Save failed: %v", err), false, true
		}
		return fmt.Sprintf("Saved to slot %q.", slot), false, true
	case "load":
		slot := "autosave"
		if len(fields) > 1 {
			slot = fields[1]
		}
		if a.saves == nil {
			return "Loading is disabled (no save path).", false, true
		}
		loaded, err := a.saves.LoadCellar(context.Background(), slot)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Sprintf("No save in slot %q.", slot), false, true
			}
			return fmt.Sprintf("Load failed: %v", err), false, true
		}
		a.state = loaded
		return fmt.Sprintf("Loaded slot %q, week %d.", slot, a.state.Week), false, true
	case "saves":
		if a.saves == nil {
			return "Saving is disabled (no save path).", false, true
		}
		infos, err := a.saves.ListSaves(context.Background())
		if err != nil {
			return fmt.Sprintf("List failed: %v", err), false, true
		}
		if len(infos) == 0 {
			return "No saves yet.", false, true
		}
		var sb strings.Builder
		sb.WriteString("Saves:")
		for _, info := range infos {
			fmt.Fprintf(&sb, "\n  %-12s %s, week %d (%s)", info.Slot, info.WineryName, info.Week, info.SavedAt.Format("2006-01-02 15:04"))
		}
		return sb.String(), false, true
	default:
		return "", false, false
	}
}

func (a *App) parseContext() parser.ParseContext {
	ctx := parser.ParseContext{LastEntity: a.lastEntity}
	for _, v := range a.state.Vineyards {
		ctx.Vineyards = append(ctx.Vineyards, v.Name)
	}
	for _, b := range a.state.Batches {
		ctx.Batches = append(ctx.Batches, b.VineyardName+" "+b.Variety)
	}
	return ctx
}

// rememberEntity keeps the last referenced target so "bottle it" works on the
// raw command path too.
func (a *App) rememberEntity(line string) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) < 2 {
		return
	}
	switch fields[0] {
	case "inspect", "harvest", "crush", "ferment", "rack", "bottle", "price", "sell":
		a.lastEntity = fields[1]
	}
}

func formatClarify(clarify *parser.ClarifyQuestion) string {
	var sb strings.Builder
	sb.WriteString(clarify.Prompt)
	for i, option := range clarify.Options {
		fmt.Fprintf(&sb, "\n  %d. %s", i+1, parser.IntentToCommandString(option))
	}
	return sb.String()
}
