package calc

import "math"

var keyIntents = map[string]Intent{
	".": Digit('.'),

	"+": Op(OpAdd), "Add": Op(OpAdd),
	"-": Op(OpSubtract), "Subtract": Op(OpSubtract),
	"*": Op(OpMultiply), "x": Op(OpMultiply), "X": Op(OpMultiply), "×": Op(OpMultiply), "Multiply": Op(OpMultiply),
	"/": Op(OpDivide), "÷": Op(OpDivide), "Divide": Op(OpDivide),
	"^": Op(OpPower),

	"=": Action(IntentEqual), "Enter": Action(IntentEqual),
	"Backspace": Action(IntentBackspace), "BS": Action(IntentBackspace),
	"Escape": Action(IntentClear), "AC": Action(IntentClear),
	"%": Action(IntentPercent),
	"neg": Action(IntentNegate), "±": Action(IntentNegate),
	"angle": Action(IntentToggleAngle),

	"pi": Constant(math.Pi), "π": Constant(math.Pi),
	"e": Constant(math.E),

	"sin": Func(FuncSin), "cos": Func(FuncCos), "tan": Func(FuncTan),
	"sqrt": Func(FuncSqrt), "√": Func(FuncSqrt),
	"sqr": Func(FuncSqr), "x²": Func(FuncSqr),
	"log": Func(FuncLog), "ln": Func(FuncLn),
	"fact": Func(FuncFact), "x!": Func(FuncFact), "!": Func(FuncFact),
}

// LookupKey maps a key name or keypad token to its intent.
func LookupKey(key string) (Intent, bool) {
	if len(key) == 1 && '0' <= key[0] && key[0] <= '9' {
		return Digit(rune(key[0])), true
	}
	in, ok := keyIntents[key]
	return in, ok
}
