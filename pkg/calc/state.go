// Package calc is the calculator core: keypad state transitions, binary
// arithmetic and scientific functions over float64 with sentinel results.
package calc

import (
	"fmt"
	"strings"
)

// State is the accumulator of a calculator session. Transitions take the
// state by value and return the next one; a State is never changed in place.
type State struct {
	Current     string
	Previous    string
	Pending     Operator
	Overwriting bool
	History     History
}

func NewState() State {
	return State{Current: "0"}
}

// PressDigit handles 0-9 and the decimal point. Other runes are ignored.
func (s State) PressDigit(d rune) State {
	isDigit := '0' <= d && d <= '9'
	if !isDigit && d != '.' {
		return s
	}

	if s.Overwriting || IsSentinel(s.Current) {
		s.Current = string(d)
		if d == '.' {
			s.Current = "0."
		}
		s.Overwriting = false
		return s
	}

	switch {
	case s.Current == "0" && d != '.':
		s.Current = string(d)
	case d == '.' && strings.ContainsRune(s.Current, '.'):
		return s
	default:
		s.Current += string(d)
	}
	return s
}

// PressOperator queues op. When an operator is already pending and a second
// operand has been typed, the pending operation is evaluated first.
func (s State) PressOperator(op Operator) State {
	if op == OpNone {
		return s
	}

	if s.Pending != OpNone && !s.Overwriting {
		result := Evaluate(s.Previous, s.Current, s.Pending)
		s.History = s.History.With(binaryEntry(s.Previous, s.Pending, s.Current, result))
		s.Previous = result
		s.Current = result
	} else {
		s.Previous = s.Current
	}

	s.Pending = op
	s.Overwriting = true
	return s
}

func (s State) PressEqual() State {
	if s.Pending == OpNone {
		return s
	}

	result := Evaluate(s.Previous, s.Current, s.Pending)
	s.History = s.History.With(binaryEntry(s.Previous, s.Pending, s.Current, result))
	s.Current = result
	s.Previous = ""
	s.Pending = OpNone
	s.Overwriting = true
	return s
}

func (s State) Clear() State {
	return NewState()
}

func (s State) Backspace() State {
	if s.Overwriting {
		return s
	}

	if len(s.Current) == 1 || IsSentinel(s.Current) {
		s.Current = "0"
		return s
	}

	current := strings.TrimRight(s.Current[:len(s.Current)-1], "eE+-")
	if current == "" || current == "-" {
		current = "0"
	}
	s.Current = current
	return s
}

// Percent divides the current value by 100 without logging it.
func (s State) Percent() State {
	// Error divides like NaN and shows as NaN.
	s.Current = Number(ParseValue(s.Current).Float() / 100).String()
	s.Overwriting = true
	return s
}

// ApplyFunc replaces the current value with fn(current) and logs it.
func (s State) ApplyFunc(fn Function, unit AngleUnit) State {
	result := Scientific(s.Current, fn, unit)

	var label string
	switch fn {
	case FuncSqr:
		label = fmt.Sprintf("(%s)²", s.Current)
	case FuncFact:
		label = fmt.Sprintf("(%s)!", s.Current)
	default:
		label = fmt.Sprintf("%s(%s)", fn, s.Current)
	}

	s.History = s.History.With(label + " = " + result)
	s.Current = result
	s.Overwriting = true
	return s
}

func (s State) InsertConstant(f float64) State {
	s.Current = Number(f).String()
	s.Overwriting = true
	return s
}

// Negate flips the sign of the current value. Zero and sentinels are left
// alone; the overwrite flag is kept so typing continues the same entry.
func (s State) Negate() State {
	if s.Current == "0" || IsSentinel(s.Current) {
		return s
	}

	if strings.HasPrefix(s.Current, "-") {
		s.Current = s.Current[1:]
	} else {
		s.Current = "-" + s.Current
	}
	return s
}

func binaryEntry(lhs string, op Operator, rhs, result string) string {
	return fmt.Sprintf("%s %s %s = %s", lhs, op, rhs, result)
}
