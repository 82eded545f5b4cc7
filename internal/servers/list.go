package servers

import "sync"

// Snapshot keeps the last directory document that was fetched successfully.
type Snapshot struct {
	mu   sync.Mutex
	resp *Response
}

// Set replaces the stored document.
func (s *Snapshot) Set(resp *Response) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resp = resp
}

// Get returns the stored document, or nil before the first good fetch.
func (s *Snapshot) Get() *Response {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.resp
}
