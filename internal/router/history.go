package router

import "sync"

// History is an in-memory navigator with a back stack. It implements
// session.Navigator.
type History struct {
	mu        sync.Mutex
	current   string
	back      []string
	listeners []func(string)
}

// NewHistory starts at path.
func NewHistory(path string) *History {
	return &History{current: path}
}

// Current returns the current path.
func (h *History) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

// Navigate pushes path. Navigating to the current path is a no-op.
func (h *History) Navigate(path string) {
	h.mu.Lock()
	if path == h.current {
		h.mu.Unlock()
		return
	}
	h.back = append(h.back, h.current)
	h.current = path
	h.mu.Unlock()
	h.notify(path)
}

// Replace swaps the current path without growing the back stack.
func (h *History) Replace(path string) {
	h.mu.Lock()
	if path == h.current {
		h.mu.Unlock()
		return
	}
	h.current = path
	h.mu.Unlock()
	h.notify(path)
}

// Back pops the back stack. It reports false when there is nothing to go
// back to.
func (h *History) Back() bool {
	h.mu.Lock()
	if len(h.back) == 0 {
		h.mu.Unlock()
		return false
	}
	h.current = h.back[len(h.back)-1]
	h.back = h.back[:len(h.back)-1]
	path := h.current
	h.mu.Unlock()
	h.notify(path)
	return true
}

// Depth returns the size of the back stack.
func (h *History) Depth() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.back)
}

// OnChange registers fn to run after every path change.
func (h *History) OnChange(fn func(path string)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners = append(h.listeners, fn)
}

func (h *History) notify(path string) {
	h.mu.Lock()
	listeners := append([]func(string){}, h.listeners...)
	h.mu.Unlock()
	for _, fn := range listeners {
		fn(path)
	}
}
