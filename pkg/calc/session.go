package calc

type IntentKind uint8

const (
	IntentDigit IntentKind = iota + 1
	IntentOperator
	IntentEqual
	IntentClear
	IntentBackspace
	IntentPercent
	IntentNegate
	IntentFunc
	IntentConstant
	IntentToggleAngle
)

// Intent is one discrete user action, independent of the device that
// produced it.
type Intent struct {
	Kind     IntentKind
	Digit    rune
	Op       Operator
	Func     Function
	Constant float64
}

func Digit(d rune) Intent { return Intent{Kind: IntentDigit, Digit: d} }
func Op(op Operator) Intent { return Intent{Kind: IntentOperator, Op: op} }
func Func(fn Function) Intent { return Intent{Kind: IntentFunc, Func: fn} }
func Constant(f float64) Intent { return Intent{Kind: IntentConstant, Constant: f} }
func Action(kind IntentKind) Intent { return Intent{Kind: kind} }

// Session pairs the accumulator with the angle unit used by trig functions.
type Session struct {
	State State
	Angle AngleUnit
}

func NewSession(angle AngleUnit) Session {
	return Session{State: NewState(), Angle: angle}
}

// Dispatch applies in and returns the next session. Unknown intents leave
// the session unchanged.
func (s Session) Dispatch(in Intent) Session {
	switch in.Kind {
	case IntentDigit:
		s.State = s.State.PressDigit(in.Digit)
	case IntentOperator:
		s.State = s.State.PressOperator(in.Op)
	case IntentEqual:
		s.State = s.State.PressEqual()
	case IntentClear:
		s.State = s.State.Clear()
	case IntentBackspace:
		s.State = s.State.Backspace()
	case IntentPercent:
		s.State = s.State.Percent()
	case IntentNegate:
		s.State = s.State.Negate()
	case IntentFunc:
		s.State = s.State.ApplyFunc(in.Func, s.Angle)
	case IntentConstant:
		s.State = s.State.InsertConstant(in.Constant)
	case IntentToggleAngle:
		s.Angle = s.Angle.Toggle()
	}
	return s
}
