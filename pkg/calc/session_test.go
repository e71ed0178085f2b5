package calc

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func press(s Session, keys string) Session {
	for _, key := range strings.Fields(keys) {
		in, ok := LookupKey(key)
		if !ok {
			panic("unknown key " + key)
		}
		s = s.Dispatch(in)
	}
	return s
}

func TestDispatchKeys(t *testing.T) {
	tests := []struct {
		name    string
		keys    string
		current string
		history []string
	}{
		{"sum", "1 2 + 3 Enter", "15", []string{"12 + 3 = 15"}},
		{"chain", "5 + 3 - 2 =", "6", []string{"5 + 3 = 8", "8 - 2 = 6"}},
		{"power", "2 ^ 8 =", "256", []string{"2 ^ 8 = 256"}},
		{"multiply alias", "4 x 2 =", "8", []string{"4 × 2 = 8"}},
		{"divide", "9 / 3 =", "3", []string{"9 ÷ 3 = 3"}},
		{"backspace", "1 2 3 Backspace", "12", nil},
		{"escape clears", "1 + 2 = Escape", "0", nil},
		{"percent", "2 5 %", "0.25", nil},
		{"negate", "7 neg", "-7", nil},
		{"function", "1 0 0 log", "2", []string{"log(100) = 2"}},
		{"factorial token", "4 x!", "24", []string{"(4)! = 24"}},
		{"constant", "pi", "3.141592653589793", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := press(NewSession(Degrees), tt.keys)
			if s.State.Current != tt.current {
				t.Fatalf("Current = %q, want %q", s.State.Current, tt.current)
			}
			if diff := cmp.Diff(tt.history, []string(s.State.History)); diff != "" {
				t.Fatalf("history mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDispatchToggleAngle(t *testing.T) {
	s := press(NewSession(Degrees), "9 0")
	before := s.State

	s = s.Dispatch(Action(IntentToggleAngle))
	if s.Angle != Radians {
		t.Fatalf("Angle = %s, want RAD", s.Angle)
	}
	if diff := cmp.Diff(before, s.State); diff != "" {
		t.Fatalf("toggle changed arithmetic state (-before +after):\n%s", diff)
	}

	s = press(s, "Escape 0 cos")
	if s.State.Current != "1" {
		t.Fatalf("cos(0 rad) = %q, want 1", s.State.Current)
	}

	s = press(s.Dispatch(Action(IntentToggleAngle)), "Escape 9 0 sin")
	if s.State.Current != "1" {
		t.Fatalf("sin(90 deg) = %q, want 1", s.State.Current)
	}
}

func TestDispatchUnknownIntent(t *testing.T) {
	s := press(NewSession(Radians), "4 2")
	if diff := cmp.Diff(s, s.Dispatch(Intent{})); diff != "" {
		t.Fatalf("empty intent changed session:\n%s", diff)
	}
}

func TestLookupKey(t *testing.T) {
	tests := []struct {
		key  string
		want Intent
	}{
		{"0", Digit('0')},
		{"9", Digit('9')},
		{".", Digit('.')},
		{"*", Op(OpMultiply)},
		{"X", Op(OpMultiply)},
		{"^", Op(OpPower)},
		{"Enter", Action(IntentEqual)},
		{"=", Action(IntentEqual)},
		{"Backspace", Action(IntentBackspace)},
		{"Escape", Action(IntentClear)},
		{"sqrt", Func(FuncSqrt)},
	}

	for _, tt := range tests {
		got, ok := LookupKey(tt.key)
		if !ok {
			t.Errorf("LookupKey(%q) not found", tt.key)
			continue
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("LookupKey(%q) mismatch (-want +got):\n%s", tt.key, diff)
		}
	}

	for _, key := range []string{"", "10", "Tab", "?"} {
		if _, ok := LookupKey(key); ok {
			t.Errorf("LookupKey(%q) found, want unknown", key)
		}
	}
}
