// Package remotetest provides an in-memory contacts API server for tests and
// integration scripts. It answers like the real API: FastAPI-style
// {"detail": ...} errors, skip/limit paging, and HS256 bearer tokens.
package remotetest

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"

	"github.com/jmgilman/minicrm/internal/contact"
	"github.com/jmgilman/minicrm/internal/contact/contacttest"
	"github.com/jmgilman/minicrm/internal/validate"
)

// TokenTTL is the lifetime of issued access tokens.
const TokenTTL = 24 * time.Hour

// Request is a request the server received.
type Request struct {
	Method        string
	Path          string
	Query         string
	RequestID     string
	UserAgent     string
	Authorization string
	Body          []byte
}

// Option configures a Server.
type Option func(*Server)

// WithContacts seeds the store.
func WithContacts(contacts ...contact.Contact) Option {
	return func(s *Server) {
		s.Store = contacttest.NewMemoryStore(contacts...)
	}
}

// WithUser registers a login.
func WithUser(email, password string) Option {
	return func(s *Server) {
		s.users[email] = password
	}
}

// WithAuth makes every contacts endpoint require a valid bearer token.
func WithAuth() Option {
	return func(s *Server) {
		s.requireAuth = true
	}
}

// WithSigningKey sets the HMAC key used for tokens.
func WithSigningKey(key string) Option {
	return func(s *Server) {
		s.signingKey = []byte(key)
	}
}

type failure struct {
	status int
	detail string
}

// Server is a fake contacts API.
type Server struct {
	Store *contacttest.MemoryStore

	signingKey  []byte
	requireAuth bool
	router      chi.Router

	mu       sync.Mutex
	users    map[string]string
	requests []Request
	failures []failure
	delay    time.Duration
}

// NewServer creates a Server. Mount it with httptest.NewServer(s).
func NewServer(opts ...Option) *Server {
	s := &Server{
		Store:      contacttest.NewMemoryStore(),
		signingKey: []byte("minicrm-test-key"),
		users:      map[string]string{},
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.record)

	r.Post("/api/auth/login", s.handleLogin)
	r.Group(func(r chi.Router) {
		r.Use(s.auth)
		r.Get("/api/contacts", s.handleList)
		r.Post("/api/contacts", s.handleCreate)
		r.Put("/api/contacts/{id}", s.handleUpdate)
		r.Delete("/api/contacts/{id}", s.handleRemove)
	})
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// FailNext makes the next request fail with status and detail.
// Calls queue up: each request consumes one failure.
func (s *Server) FailNext(status int, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, failure{status: status, detail: detail})
}

// SetDelay holds every response for d.
func (s *Server) SetDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

// Requests returns the requests received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// IssueToken returns a signed token for email that expires after ttl.
func (s *Server) IssueToken(email string, ttl time.Duration) (string, error) {
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	return tok.SignedString(s.signingKey)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			Query:         r.URL.RawQuery,
			RequestID:     r.Header.Get("X-Request-ID"),
			UserAgent:     r.UserAgent(),
			Authorization: r.Header.Get("Authorization"),
			Body:          body,
		})
		delay := s.delay
		var fail *failure
		if len(s.failures) > 0 {
			f := s.failures[0]
			s.failures = s.failures[1:]
			fail = &f
		}
		s.mu.Unlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}
		if fail != nil {
			writeDetail(w, fail.status, fail.detail)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.requireAuth {
			next.ServeHTTP(w, r)
			return
		}

		const prefix = "Bearer "
		header := r.Header.Get("Authorization")
		if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
			writeDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		_, err := jwt.ParseWithClaims(header[len(prefix):], &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenUnverifiable
			}
			return s.signingKey, nil
		})
		if errors.Is(err, jwt.ErrTokenExpired) {
			writeDetail(w, http.StatusUnauthorized, "Token has expired")
			return
		}
		if err != nil {
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}

	s.mu.Lock()
	password, ok := s.users[req.Email]
	s.mu.Unlock()
	if !ok || password != req.Password {
		writeDetail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := s.IssueToken(req.Email, TokenTTL)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"access_token": token, "token_type": "bearer"})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	skip, err := intParam(r, "skip", 0)
	if err != nil {
		writeProblems(w, problem{Loc: []string{"query", "skip"}, Msg: err.Error()})
		return
	}
	limit, err := intParam(r, "limit", 50)
	if err != nil {
		writeProblems(w, problem{Loc: []string{"query", "limit"}, Msg: err.Error()})
		return
	}

	all, _ := s.Store.List(r.Context(), r.URL.Query().Get("q"))
	if skip > len(all) {
		skip = len(all)
	}
	end := min(skip+limit, len(all))
	writeJSON(w, http.StatusOK, all[skip:end])
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var in contact.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}

	var problems []problem
	if in.Name == "" || len(in.Name) > 100 {
		problems = append(problems, problem{Loc: []string{"body", "name"}, Msg: "String should have 1 to 100 characters"})
	}
	if !validate.Email(in.Email) {
		problems = append(problems, problem{Loc: []string{"body", "email"}, Msg: "value is not a valid email address"})
	}
	problems = append(problems, phoneProblems(in.Phone)...)
	if len(problems) > 0 {
		writeProblems(w, problems...)
		return
	}

	c, err := s.Store.Create(r.Context(), in)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var in contact.UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}
	if problems := phoneProblems(in.Phone); len(problems) > 0 {
		writeProblems(w, problems...)
		return
	}

	c, err := s.Store.Update(r.Context(), id, in)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.Store.Remove(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type problem struct {
	Loc []string `json:"loc"`
	Msg string   `json:"msg"`
}

func phoneProblems(phone *string) []problem {
	if phone == nil || validate.Phone(*phone) {
		return nil
	}
	return []problem{{Loc: []string{"body", "phone"}, Msg: "String should match pattern"}}
}

func pathID(w http.ResponseWriter, r *http.Request) (contact.ID, bool) {
	id, err := contact.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		writeProblems(w, problem{Loc: []string{"path", "id"}, Msg: "Input should be a valid integer"})
		return 0, false
	}
	return id, true
}

func intParam(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, errors.New("Input should be a non-negative integer")
	}
	return n, nil
}

func writeStoreError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, contact.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, contact.ErrEmailTaken):
		status = http.StatusBadRequest
	}
	writeDetail(w, status, err.Error())
}

func writeProblems(w http.ResponseWriter, problems ...problem) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": problems})
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
