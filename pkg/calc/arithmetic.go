package calc

import "math"

type Operator uint8

const (
	OpNone Operator = iota
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpPower
)

func (op Operator) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSubtract:
		return "-"
	case OpMultiply:
		return "×"
	case OpDivide:
		return "÷"
	case OpPower:
		return "^"
	default:
		return ""
	}
}

// Apply evaluates a op b. Errors never escape as Go errors, they come back
// as the Error sentinel.
func Apply(a, b Value, op Operator) Value {
	if op == OpNone {
		return b
	}

	if !operand(a) || !operand(b) {
		return Invalid()
	}

	x, y := a.Float(), b.Float()
	switch op {
	case OpAdd:
		return settle(x + y)
	case OpSubtract:
		return settle(x - y)
	case OpMultiply:
		return settle(x * y)
	case OpDivide:
		if y == 0 {
			return Invalid()
		}
		return settle(x / y)
	case OpPower:
		return settle(math.Pow(x, y))
	default:
		return b
	}
}

// Evaluate is Apply over numeric-strings.
func Evaluate(a, b string, op Operator) string {
	if op == OpNone {
		return b
	}
	return Apply(ParseValue(a), ParseValue(b), op).String()
}

// operand reports whether v can take part in arithmetic. Infinity can,
// Error and NaN cannot.
func operand(v Value) bool {
	return v.Kind() == KindNumber || v.Kind() == KindInfinity
}
