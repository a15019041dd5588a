package guard

import (
	"fmt"
	"io"
	"sync"
)

// Navigator moves the client to a route. Replace overwrites the current
// history entry instead of pushing a new one.
type Navigator interface {
	Navigate(path string, replace bool)
}

// History is the client's navigation stack
type History struct {
	mu      sync.Mutex
	entries []string
	out     io.Writer
}

// NewHistory creates a history starting at the landing route. Redirect
// notices are written to out when it is non-nil.
func NewHistory(out io.Writer) *History {
	return &History{entries: []string{RouteLanding}, out: out}
}

// Navigate implements Navigator
func (h *History) Navigate(path string, replace bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if replace && len(h.entries) > 0 {
		h.entries[len(h.entries)-1] = path
	} else {
		h.entries = append(h.entries, path)
	}

	if h.out == nil {
		return
	}
	switch {
	case path == RouteLogin && replace:
		fmt.Fprintln(h.out, "Your session has ended. Run 'nutribattle login' to sign in again.")
	case path == RouteDashboard && replace:
		fmt.Fprintln(h.out, "Admin access required. Showing your dashboard instead.")
	}
}

// Current returns the path at the top of the stack
func (h *History) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.entries) == 0 {
		return ""
	}
	return h.entries[len(h.entries)-1]
}

// Entries returns a copy of the stack, oldest first
func (h *History) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

// Back pops the current entry and returns the new current path
func (h *History) Back() string {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.entries) > 1 {
		h.entries = h.entries[:len(h.entries)-1]
	}
	return h.entries[len(h.entries)-1]
}
