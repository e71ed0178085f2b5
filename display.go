package main

import (
	"strings"

	"github.com/turbekoff/scicalc/pkg/calc"
)

const emptyHistory = "No calculations yet."

// displayLines returns the status line (angle unit, pending operand and
// operator) and the formatted current value.
func displayLines(s calc.Session) (string, string) {
	status := s.Angle.String()
	if s.State.Pending != calc.OpNone {
		status += "  " + calc.Format(s.State.Previous) + " " + s.State.Pending.String()
	}
	return status, calc.Format(s.State.Current)
}

func renderDisplay(s calc.Session) string {
	status, value := displayLines(s)
	return status + "\n" + value
}

func renderHistory(h calc.History) string {
	if len(h) == 0 {
		return emptyHistory
	}
	return strings.Join(h.Newest(), "\n")
}
