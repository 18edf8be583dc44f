package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/chapelstack/chapelhub/internal/apiclient"
	"github.com/chapelstack/chapelhub/internal/domain/models"
	"go.uber.org/zap"
)

// APIStub is a fake congregation API for handler tests. Configure its
// collections and failure modes, then point an apiclient.Client at it.
type APIStub struct {
	Server *httptest.Server

	mu          sync.Mutex
	fetchCounts map[string]int
	lastBody    map[string]json.RawMessage

	// Login behavior
	LoginIdentity models.Identity
	LoginToken    string
	LoginError    string // when set, login fails with 401 and this message

	// Collections served to fetches
	Attendance []models.AttendanceRecord
	Payments   []models.Payment
	Accounts   []models.AccountDetail
	Projects   []models.Project
	Users      []models.User

	// Failure injection
	FetchStatus  int    // when non-zero, collection fetches fail with this status
	SubmitStatus int    // when non-zero, create POSTs fail with this status
	SubmitError  string // error message for failed POSTs
}

// NewAPIStub starts a stub API server. It is shut down automatically
// when the test ends.
func NewAPIStub(t *testing.T) *APIStub {
	t.Helper()

	s := &APIStub{
		fetchCounts: make(map[string]int),
		lastBody:    make(map[string]json.RawMessage),
		LoginToken:  "stub-token",
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("GET /api/attendance", s.collection("attendance", "attendances", func() any { return s.Attendance }))
	mux.HandleFunc("GET /api/payments", s.collection("payments", "payments", func() any { return s.Payments }))
	mux.HandleFunc("GET /api/account-details", s.collection("accounts", "accounts", func() any { return s.Accounts }))
	mux.HandleFunc("GET /api/projects", s.collection("projects", "projects", func() any { return s.Projects }))
	mux.HandleFunc("GET /api/users", s.collection("users", "users", func() any { return s.Users }))
	mux.HandleFunc("POST /api/attendance/submit", s.create("attendance/submit"))
	mux.HandleFunc("POST /api/payments", s.create("payments"))
	mux.HandleFunc("POST /api/users", s.create("users"))
	mux.HandleFunc("POST /api/projects", s.create("projects"))
	mux.HandleFunc("GET /api/attendance/pdf", s.pdf)
	mux.HandleFunc("GET /api/payments/pdf", s.pdf)
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Server.Close)
	return s
}

// Client returns an apiclient.Client pointed at the stub.
func (s *APIStub) Client(t *testing.T) *apiclient.Client {
	t.Helper()
	c, err := apiclient.New(s.Server.URL, 5*time.Second, zap.NewNop())
	if err != nil {
		t.Fatalf("apiclient.New failed: %v", err)
	}
	return c
}

// FetchCount reports how many times the named collection was fetched.
func (s *APIStub) FetchCount(resource string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetchCounts[resource]
}

// TotalFetches reports the total number of collection fetches served.
func (s *APIStub) TotalFetches() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.fetchCounts {
		total += n
	}
	return total
}

// LastBodyRecorded returns the raw captured POST body for the given
// path and whether one was recorded at all.
func (s *APIStub) LastBodyRecorded(path string) (json.RawMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.lastBody[path]
	return raw, ok
}

// LastSubmission decodes the most recent POST body for the given path
// (e.g. "attendance/submit") into out.
func (s *APIStub) LastSubmission(t *testing.T, path string, out any) {
	t.Helper()
	s.mu.Lock()
	raw, ok := s.lastBody[path]
	s.mu.Unlock()
	if !ok {
		t.Fatalf("no submission recorded for %q", path)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("decode submission for %q: %v", path, err)
	}
}

func (s *APIStub) handleLogin(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if s.LoginError != "" {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": s.LoginError})
		return
	}
	json.NewEncoder(w).Encode(map[string]any{
		"message": "Login successful",
		"token":   s.LoginToken,
		"user":    s.LoginIdentity,
	})
}

func (s *APIStub) collection(name, key string, data func() any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.fetchCounts[name]++
		s.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if s.FetchStatus != 0 {
			w.WriteHeader(s.FetchStatus)
			json.NewEncoder(w).Encode(map[string]string{"error": "fetch failed"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{key: data()})
	}
}

func (s *APIStub) create(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var raw json.RawMessage
		json.NewDecoder(r.Body).Decode(&raw)
		s.mu.Lock()
		s.lastBody[path] = raw
		s.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if s.SubmitStatus != 0 {
			w.WriteHeader(s.SubmitStatus)
			json.NewEncoder(w).Encode(map[string]string{"error": s.SubmitError})
			return
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"message": "created"})
	}
}

func (s *APIStub) pdf(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Write([]byte("%PDF-1.4 stub"))
}
