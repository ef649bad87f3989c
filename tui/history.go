package tui

// History keeps recent commands for up/down recall at the input line.
// Entries live in a fixed ring; navigation tracks how many steps behind
// the newest entry the player stands, so Prev walks older and Next walks
// back toward fresh input.
type History struct {
	ring  []string
	head  int // next write position
	count int
	back  int // 0 = not navigating, 1..count = steps behind the newest
}

// NewHistory returns a history holding at most max commands.
func NewHistory(max int) *History {
	if max < 1 {
		max = 1
	}
	return &History{ring: make([]string, max)}
}

// at returns the entry back steps behind the newest; back must be in
// [1, count].
func (h *History) at(back int) string {
	n := len(h.ring)
	return h.ring[((h.head-back)%n+n)%n]
}

// Push records a command, skipping a repeat of the newest entry. The
// oldest entry falls off once the ring is full.
func (h *History) Push(cmd string) {
	if h.count > 0 && h.at(1) == cmd {
		return
	}
	h.ring[h.head] = cmd
	h.head = (h.head + 1) % len(h.ring)
	if h.count < len(h.ring) {
		h.count++
	}
}

// Prev steps to the next older entry, holding at the oldest.
func (h *History) Prev() (string, bool) {
	if h.count == 0 {
		return "", false
	}
	if h.back < h.count {
		h.back++
	}
	return h.at(h.back), true
}

// Next steps toward newer entries; past the newest it reports false and
// the input line goes back to whatever the player was typing.
func (h *History) Next() (string, bool) {
	if h.back <= 1 {
		h.back = 0
		return "", false
	}
	h.back--
	return h.at(h.back), true
}

// ResetCursor leaves navigation mode.
func (h *History) ResetCursor() {
	h.back = 0
}
