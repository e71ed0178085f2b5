package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/chzyer/readline"

	"github.com/turbekoff/scicalc/pkg/calc"
	"github.com/turbekoff/scicalc/pkg/solver"
)

const (
	calcPrompt = "calc> "
	aiPrompt   = "ai> "
)

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	valueStyle  = lipgloss.NewStyle().Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	answerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
)

const replHelp = `Type keys separated by spaces, e.g. "12.5 + 3 =" or "90 sin".
Keys: 0-9 . + - * x / ^ = Enter Backspace Escape % neg pi e angle
      sin cos tan sqrt sqr log ln fact
Commands: :ai (assistant mode), :calc (keypad mode), :history, :help, :quit`

// console binds typed lines to calculator intents. While in assistant mode
// the keys are not interpreted and every line is sent as a problem.
type console struct {
	out     io.Writer
	session calc.Session
	desk    *solver.Desk
	aiMode  bool
}

func newConsole(out io.Writer, angle calc.AngleUnit, s solver.Solver) *console {
	return &console{
		out:     out,
		session: calc.NewSession(angle),
		desk:    solver.NewDesk(s),
	}
}

func (c *console) prompt() string {
	if c.aiMode {
		return aiPrompt
	}
	return calcPrompt
}

// handleLine processes one input line and reports whether the user asked
// to quit.
func (c *console) handleLine(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	if strings.HasPrefix(line, ":") {
		return c.command(line)
	}

	if c.aiMode {
		c.ask(ctx, line)
		return false
	}

	for _, token := range strings.Fields(line) {
		intents, ok := tokenIntents(token)
		if !ok {
			fmt.Fprintln(c.out, errorStyle.Render("unknown key "+token))
			continue
		}
		for _, in := range intents {
			c.session = c.session.Dispatch(in)
		}
	}
	c.render()
	return false
}

func (c *console) command(line string) bool {
	switch line {
	case ":quit", ":q":
		return true
	case ":ai":
		c.aiMode = true
		fmt.Fprintln(c.out, statusStyle.Render("assistant mode, :calc to return"))
	case ":calc":
		c.aiMode = false
		c.render()
	case ":history":
		fmt.Fprintln(c.out, renderHistory(c.session.State.History))
	case ":help":
		fmt.Fprintln(c.out, replHelp)
	default:
		fmt.Fprintln(c.out, errorStyle.Render("unknown command "+line))
	}
	return false
}

func (c *console) ask(ctx context.Context, problem string) {
	fmt.Fprintln(c.out, statusStyle.Render("Thinking..."))

	exchange, err := c.desk.Ask(ctx, problem)
	if err != nil {
		fmt.Fprintln(c.out, errorStyle.Render(err.Error()))
		return
	}
	fmt.Fprintln(c.out, answerStyle.Render(exchange.Response))
}

func (c *console) render() {
	status, value := displayLines(c.session)
	style := valueStyle
	if calc.IsSentinel(c.session.State.Current) {
		style = errorStyle
	}
	fmt.Fprintln(c.out, statusStyle.Render(status))
	fmt.Fprintln(c.out, style.Render(value))
}

// tokenIntents resolves a key name, or a run of digits such as "12.5"
// typed as one token.
func tokenIntents(token string) ([]calc.Intent, bool) {
	if in, ok := calc.LookupKey(token); ok {
		return []calc.Intent{in}, true
	}

	intents := make([]calc.Intent, 0, len(token))
	for _, r := range token {
		if !('0' <= r && r <= '9' || r == '.') {
			return nil, false
		}
		intents = append(intents, calc.Digit(r))
	}
	return intents, true
}

func runREPL(ctx context.Context, config *Config, logger *log.Logger) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          calcPrompt,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer func() { _ = rl.Close() }()

	client := solver.NewClient(config.SolverConfig(), logger)
	c := newConsole(rl.Stdout(), config.AngleUnit, client)
	c.render()

	for {
		rl.SetPrompt(c.prompt())
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if c.handleLine(ctx, line) {
			return nil
		}
	}
}
