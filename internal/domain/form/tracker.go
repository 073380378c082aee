package form

import "sync"

// Ticket identifies one lookup issued for a link field
type Ticket struct {
	Key   string
	Value string
	Seq   uint64
}

// Tracker hands out monotonically increasing tickets per link key so that
// a lookup result can be matched against the latest request for that key.
type Tracker struct {
	mu  sync.Mutex
	seq map[string]uint64
}

// NewTracker creates an empty tracker
func NewTracker() *Tracker {
	return &Tracker{seq: make(map[string]uint64)}
}

// Issue starts a new lookup for key and supersedes every earlier ticket
func (t *Tracker) Issue(key, value string) Ticket {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.seq[key]++
	return Ticket{Key: key, Value: value, Seq: t.seq[key]}
}

// Invalidate supersedes all outstanding tickets for key without issuing one
func (t *Tracker) Invalidate(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.seq[key]++
}

// Current reports whether tk is still the latest ticket for its key
func (t *Tracker) Current(tk Ticket) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.seq[tk.Key] == tk.Seq
}
