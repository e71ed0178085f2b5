package calc

import (
	"fmt"
	"math"
	"strings"
)

type Function string

const (
	FuncSin  Function = "sin"
	FuncCos  Function = "cos"
	FuncTan  Function = "tan"
	FuncSqrt Function = "sqrt"
	FuncSqr  Function = "sqr"
	FuncLog  Function = "log"
	FuncLn   Function = "ln"
	FuncFact Function = "fact"
)

// Largest factorial operand representable as a float64.
const maxFactorial = 170

type AngleUnit uint8

const (
	Degrees AngleUnit = iota
	Radians
)

func (u AngleUnit) String() string {
	if u == Radians {
		return "RAD"
	}
	return "DEG"
}

func (u AngleUnit) Toggle() AngleUnit {
	if u == Radians {
		return Degrees
	}
	return Radians
}

func (u *AngleUnit) UnmarshalText(text []byte) error {
	switch strings.ToUpper(string(text)) {
	case "", "DEG":
		*u = Degrees
	case "RAD":
		*u = Radians
	default:
		return fmt.Errorf("unknown angle unit %q", text)
	}
	return nil
}

// ApplyFunc evaluates fn(v). Unknown functions leave v untouched.
func ApplyFunc(v Value, fn Function, unit AngleUnit) Value {
	if !known(fn) {
		return v
	}
	if !operand(v) {
		return Invalid()
	}

	x := v.Float()
	switch fn {
	case FuncSin:
		return settle(math.Sin(toRadians(x, unit)))
	case FuncCos:
		return settle(math.Cos(toRadians(x, unit)))
	case FuncTan:
		return settle(math.Tan(toRadians(x, unit)))
	case FuncSqrt:
		if x < 0 {
			return Invalid()
		}
		return settle(math.Sqrt(x))
	case FuncSqr:
		return settle(x * x)
	case FuncLog:
		if x <= 0 {
			return Invalid()
		}
		return settle(math.Log10(x))
	case FuncLn:
		if x <= 0 {
			return Invalid()
		}
		return settle(math.Log(x))
	default:
		return factorial(x)
	}
}

// Scientific is ApplyFunc over numeric-strings.
func Scientific(value string, fn Function, unit AngleUnit) string {
	if !known(fn) {
		return value
	}
	return ApplyFunc(ParseValue(value), fn, unit).String()
}

func factorial(x float64) Value {
	if x < 0 || x != math.Trunc(x) || math.IsInf(x, 0) {
		return Invalid()
	}
	if x > maxFactorial {
		return Number(math.Inf(1))
	}

	result := 1.0
	for i := 2; i <= int(x); i++ {
		result *= float64(i)
	}
	return settle(result)
}

func toRadians(x float64, unit AngleUnit) float64 {
	if unit == Degrees {
		return x * math.Pi / 180
	}
	return x
}

func known(fn Function) bool {
	switch fn {
	case FuncSin, FuncCos, FuncTan, FuncSqrt, FuncSqr, FuncLog, FuncLn, FuncFact:
		return true
	}
	return false
}
