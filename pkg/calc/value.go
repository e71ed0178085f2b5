package calc

import (
	"math"
	"strconv"
	"strings"
)

// Sentinel display strings.
const (
	SentinelError    = "Error"
	SentinelNaN      = "NaN"
	SentinelInfinity = "Infinity"
)

type Kind uint8

const (
	KindNumber Kind = iota
	KindError
	KindInfinity
	KindNaN
)

// Value is either a finite number or a sentinel standing in for a result
// that cannot be shown as one.
type Value struct {
	kind Kind
	num  float64
}

func Number(f float64) Value {
	switch {
	case math.IsNaN(f):
		return Value{kind: KindNaN, num: f}
	case math.IsInf(f, 0):
		return Value{kind: KindInfinity, num: f}
	}
	return Value{kind: KindNumber, num: f}
}

func Invalid() Value {
	return Value{kind: KindError, num: math.NaN()}
}

func (v Value) Kind() Kind { return v.kind }

// Float returns the underlying number; NaN for Error.
func (v Value) Float() float64 { return v.num }

func (v Value) IsSentinel() bool { return v.kind != KindNumber }

// ParseValue reads a canonical numeric-string or one of the sentinel names.
// Go-only spellings such as hex literals, underscores or "inf" are rejected.
func ParseValue(s string) Value {
	switch s {
	case SentinelError:
		return Invalid()
	case SentinelNaN:
		return Number(math.NaN())
	case SentinelInfinity:
		return Number(math.Inf(1))
	case "-" + SentinelInfinity:
		return Number(math.Inf(-1))
	}

	if s == "" || strings.IndexFunc(s, notNumeric) >= 0 {
		return Invalid()
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Invalid()
	}
	return Number(f)
}

func notNumeric(r rune) bool {
	return !('0' <= r && r <= '9' || strings.ContainsRune(".+-eE", r))
}

func IsSentinel(s string) bool {
	switch s {
	case SentinelError, SentinelNaN, SentinelInfinity, "-" + SentinelInfinity:
		return true
	}
	return false
}

func (v Value) String() string {
	switch v.kind {
	case KindError:
		return SentinelError
	case KindNaN:
		return SentinelNaN
	case KindInfinity:
		if v.num < 0 {
			return "-" + SentinelInfinity
		}
		return SentinelInfinity
	}

	if v.num == 0 {
		return "0"
	}

	abs := math.Abs(v.num)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	}

	// Exponent without zero padding: 1e+21, 1.5e-7.
	s := strconv.FormatFloat(v.num, 'e', -1, 64)
	mantissa, exp, _ := strings.Cut(s, "e")
	sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
	return mantissa + "e" + sign + digits
}

const (
	precision = 1e10
	// Doubles at or above 2^52 carry no fractional digits.
	exactIntegers = 1 << 52
)

// round trims binary floating point noise to ten decimal places,
// rounding halves toward positive infinity.
func round(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) >= exactIntegers {
		return f
	}

	scaled := f * precision
	r := math.Floor(scaled)
	if scaled-r >= 0.5 {
		r++
	}
	return r / precision
}

// settle rounds a computed float and maps it into the sentinel space:
// NaN is a domain error and any infinite result becomes Infinity.
func settle(f float64) Value {
	if math.IsNaN(f) {
		return Invalid()
	}
	return Number(round(f))
}
