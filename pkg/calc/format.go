package calc

import "strings"

// Format groups the integer part of a numeric-string with thousands
// separators for display. It must never be fed back into arithmetic.
func Format(s string) string {
	if s == "" {
		return "0"
	}
	if IsSentinel(s) || strings.HasSuffix(s, ".") || strings.ContainsAny(s, "eE") {
		return s
	}

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	integer, fraction, hasFraction := strings.Cut(s, ".")
	out := sign + group(integer, ",", 3)
	if hasFraction {
		out += "." + fraction
	}
	return out
}

func group(digits, sep string, n int) string {
	if len(digits) <= n {
		return digits
	}

	var b strings.Builder
	head := len(digits) % n
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += n {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+n])
	}
	return b.String()
}
