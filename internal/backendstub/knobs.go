// ABOUTME: Test and development controls for the fake backend
// ABOUTME: Config, reply, delay, failure injection, and recorded state

package backendstub

import (
	"time"

	"github.com/2389/chatwidget/internal/gateway"
)

// SetConfig replaces the widget config. nil makes the endpoint return null.
func (s *Server) SetConfig(wc *gateway.WidgetConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = wc
}

// UpdateConfig edits the current config in place.
func (s *Server) UpdateConfig(fn func(wc *gateway.WidgetConfig)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.config == nil {
		s.config = &gateway.WidgetConfig{}
	}
	fn(s.config)
}

// SetReply fixes the chat reply. nil restores the echo reply.
func (s *Server) SetReply(reply *gateway.ChatReply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reply = reply
}

// SetDelay makes chat replies wait d, or until the client gives up.
func (s *Server) SetDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

// Fail makes endpoint answer status with body until ClearFailures.
func (s *Server) Fail(endpoint string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[endpoint] = failure{status: status, body: body}
}

// ClearFailures removes all injected failures.
func (s *Server) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = make(map[string]failure)
}

// SetLead stores a lead for clientID, as if saved in an earlier session.
func (s *Server) SetLead(clientID string, lead gateway.Lead) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leads[clientID] = lead
}

// Lead returns the lead saved for clientID.
func (s *Server) Lead(clientID string) (gateway.Lead, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lead, ok := s.leads[clientID]
	return lead, ok
}

// SetHistory seeds the stored conversation for clientID.
func (s *Server) SetHistory(clientID string, msgs []gateway.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history[clientID] = append([]gateway.Message(nil), msgs...)
}

// Submissions returns every form/submit body received.
func (s *Server) Submissions() []map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]map[string]string(nil), s.submissions...)
}

// Requests returns every request received, oldest first.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// CountRequests returns how many requests hit path.
func (s *Server) CountRequests(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.requests {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}
