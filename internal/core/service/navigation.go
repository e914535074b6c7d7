package service

import "sync"

// NavigationRecorder is a Navigator that remembers where the last view asked
// to go. The web portal turns the target into a redirect; the CLI prints it.
type NavigationRecorder struct {
	mu    sync.Mutex
	last  string
	count int
}

func (r *NavigationRecorder) Navigate(route string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = route
	r.count++
}

// Target returns the most recent navigation target, if any.
func (r *NavigationRecorder) Target() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last, r.count > 0
}

// Count returns how many navigations were requested.
func (r *NavigationRecorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}
