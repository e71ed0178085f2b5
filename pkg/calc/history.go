package calc

// History is the chronological log of completed calculations.
type History []string

// With returns a new log with entry appended. The receiver is never
// modified, so older states keep their own view of the log.
func (h History) With(entry string) History {
	next := make(History, len(h), len(h)+1)
	copy(next, h)
	return append(next, entry)
}

// Newest returns the entries latest first.
func (h History) Newest() []string {
	out := make([]string, len(h))
	for i, entry := range h {
		out[len(h)-1-i] = entry
	}
	return out
}
