package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/turbekoff/scicalc/pkg/calc"
)

type echoSolver struct {
	problems []string
}

func (s *echoSolver) Solve(ctx context.Context, problem string) string {
	s.problems = append(s.problems, problem)
	return "solved: " + problem
}

func TestConsoleKeys(t *testing.T) {
	var out bytes.Buffer
	c := newConsole(&out, calc.Degrees, &echoSolver{})

	if c.handleLine(context.Background(), "1234.5 * 1000 =") {
		t.Fatal("handleLine asked to quit")
	}
	if got := c.session.State.Current; got != "1234500" {
		t.Fatalf("Current = %q, want %q", got, "1234500")
	}
	if !strings.Contains(out.String(), "1,234,500") {
		t.Fatalf("output does not show the formatted value:\n%s", out.String())
	}

	out.Reset()
	c.handleLine(context.Background(), "2 bogus")
	if !strings.Contains(out.String(), "unknown key bogus") {
		t.Fatalf("unknown key not reported:\n%s", out.String())
	}
	if got := c.session.State.Current; got != "2" {
		t.Fatalf("Current = %q, want %q", got, "2")
	}
}

func TestConsoleAssistantMode(t *testing.T) {
	var out bytes.Buffer
	s := &echoSolver{}
	c := newConsole(&out, calc.Degrees, s)

	c.handleLine(context.Background(), "7")
	c.handleLine(context.Background(), ":ai")
	if c.prompt() != aiPrompt {
		t.Fatalf("prompt = %q after :ai", c.prompt())
	}

	// Keys are not interpreted in assistant mode.
	c.handleLine(context.Background(), "square root of 144")
	if got := c.session.State.Current; got != "7" {
		t.Fatalf("assistant input changed the calculator: %q", got)
	}
	if len(s.problems) != 1 || s.problems[0] != "square root of 144" {
		t.Fatalf("solver received %v", s.problems)
	}
	if !strings.Contains(out.String(), "solved: square root of 144") {
		t.Fatalf("answer not shown:\n%s", out.String())
	}

	c.handleLine(context.Background(), ":calc")
	if c.prompt() != calcPrompt {
		t.Fatalf("prompt = %q after :calc", c.prompt())
	}
}

func TestConsoleCommands(t *testing.T) {
	var out bytes.Buffer
	c := newConsole(&out, calc.Degrees, &echoSolver{})

	c.handleLine(context.Background(), ":history")
	if !strings.Contains(out.String(), emptyHistory) {
		t.Fatalf("empty history not reported:\n%s", out.String())
	}

	out.Reset()
	c.handleLine(context.Background(), "2 + 2 = 5 fact")
	c.handleLine(context.Background(), ":history")
	if !strings.Contains(out.String(), "(5)! = 120\n2 + 2 = 4") {
		t.Fatalf("history not listed newest first:\n%s", out.String())
	}

	if !c.handleLine(context.Background(), ":quit") {
		t.Fatal(":quit did not quit")
	}
}

func TestTokenIntents(t *testing.T) {
	intents, ok := tokenIntents("12.5")
	if !ok || len(intents) != 4 || intents[2] != calc.Digit('.') {
		t.Fatalf("tokenIntents(12.5) = %v, %v", intents, ok)
	}

	if _, ok := tokenIntents("1a"); ok {
		t.Fatal("tokenIntents accepted 1a")
	}
	if intents, ok := tokenIntents("sqrt"); !ok || intents[0] != calc.Func(calc.FuncSqrt) {
		t.Fatalf("tokenIntents(sqrt) = %v, %v", intents, ok)
	}
}
