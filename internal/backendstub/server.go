// ABOUTME: In-memory chatbot backend served with a chi router
// ABOUTME: Implements messages, chat, widget-config, lead, and form/submit

package backendstub

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/2389/chatwidget/internal/assets"
	"github.com/2389/chatwidget/internal/gateway"
)

// Mount selects where the API routes are served.
type Mount int

const (
	MountBoth Mount = iota
	MountAPIOnly
	MountRootOnly
)

// Endpoint names accepted by Fail.
const (
	EndpointMessages     = "messages"
	EndpointChat         = "chat"
	EndpointWidgetConfig = "widget-config"
	EndpointLead         = "lead"
	EndpointFormSubmit   = "form/submit"
)

// Request is one request the server received.
type Request struct {
	Method   string
	Path     string
	ClientID string
}

type failure struct {
	status int
	body   string
}

// Server is the fake backend.
type Server struct {
	mu          sync.Mutex
	config      *gateway.WidgetConfig
	reply       *gateway.ChatReply
	delay       time.Duration
	failures    map[string]failure
	leads       map[string]gateway.Lead
	submissions []map[string]string
	history     map[string][]gateway.Message
	requests    []Request

	router chi.Router
	logger *slog.Logger
}

// New creates a server with an empty, form-disabled config.
func New(mount Mount, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		config:   &gateway.WidgetConfig{},
		failures: make(map[string]failure),
		leads:    make(map[string]gateway.Lead),
		history:  make(map[string][]gateway.Message),
		logger:   logger.With("component", "backendstub"),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", gateway.HeaderClientID},
	}))
	r.Use(s.record)

	if mount != MountAPIOnly {
		s.routes(r)
	}
	if mount != MountRootOnly {
		r.Route("/api", s.routes)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", assets.FileServer()))

	s.router = r
	return s
}

func (s *Server) routes(r chi.Router) {
	r.Get("/messages", s.failable(EndpointMessages, s.handleMessages))
	r.Post("/chat", s.failable(EndpointChat, s.handleChat))
	r.Get("/widget-config", s.failable(EndpointWidgetConfig, s.handleWidgetConfig))
	r.Get("/lead", s.failable(EndpointLead, s.handleGetLead))
	r.Post("/lead", s.failable(EndpointLead, s.handleSaveLead))
	r.Post("/form/submit", s.failable(EndpointFormSubmit, s.handleFormSubmit))
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodOptions {
			s.mu.Lock()
			s.requests = append(s.requests, Request{
				Method:   r.Method,
				Path:     r.URL.Path,
				ClientID: r.Header.Get(gateway.HeaderClientID),
			})
			s.mu.Unlock()
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) failable(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		f, ok := s.failures[endpoint]
		s.mu.Unlock()
		if ok {
			w.WriteHeader(f.status)
			w.Write([]byte(f.body))
			return
		}
		next(w, r)
	}
}

func clientID(r *http.Request) string {
	return r.Header.Get(gateway.HeaderClientID)
}

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	msgs := append([]gateway.Message{}, s.history[clientID(r)]...)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, gateway.HistoryResponse{Messages: msgs})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req gateway.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		sendJSONError(w, http.StatusBadRequest, "message is required")
		return
	}

	s.mu.Lock()
	delay := s.delay
	canned := s.reply
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			s.logger.Debug("chat request cancelled by client")
			return
		}
	}

	reply := gateway.ChatReply{Reply: "You said: " + req.Message}
	if canned != nil {
		reply = *canned
	}

	id := clientID(r)
	s.mu.Lock()
	s.history[id] = append(s.history[id],
		gateway.Message{Role: "user", Content: req.Message},
		gateway.Message{Role: "assistant", Content: reply.Reply},
	)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, reply)
}

func (s *Server) handleWidgetConfig(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	cfg := s.config
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleGetLead(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	lead, ok := s.leads[clientID(r)]
	s.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusOK, struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (s *Server) handleSaveLead(w http.ResponseWriter, r *http.Request) {
	var req gateway.LeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		sendJSONError(w, http.StatusUnprocessableEntity, "email is required")
		return
	}

	id := req.ClientID
	if id == "" {
		id = clientID(r)
	}
	s.mu.Lock()
	s.leads[id] = gateway.Lead{Name: req.Name, Email: req.Email}
	s.mu.Unlock()

	s.logger.Info("lead saved", "client_id", id)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleFormSubmit(w http.ResponseWriter, r *http.Request) {
	var fields map[string]string
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.mu.Lock()
	s.submissions = append(s.submissions, fields)
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// sendJSONError writes a JSON error response.
func sendJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
