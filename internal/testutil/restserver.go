package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"

	"todo/internal/service"
)

// Request is one request observed by RESTServer.
type Request struct {
	Method    string
	Path      string
	Body      string
	RequestID string
	Status    int
}

// RESTServer is an httptest backend implementing the /api/todos contract on
// top of a FakeService.
type RESTServer struct {
	*httptest.Server
	Backend *FakeService

	mu         sync.Mutex
	failStatus int
	requests   []Request
}

// NewRESTServer starts a server backed by backend. It is closed on test cleanup.
func NewRESTServer(t *testing.T, backend *FakeService) *RESTServer {
	t.Helper()

	s := &RESTServer{Backend: backend}

	r := mux.NewRouter()
	r.Use(s.capture)
	r.Methods(http.MethodGet).Path("/api/todos").HandlerFunc(s.list)
	r.Methods(http.MethodPost).Path("/api/todos").HandlerFunc(s.create)
	r.Methods(http.MethodPut).Path("/api/todos/{id:[0-9]+}").HandlerFunc(s.update)
	r.Methods(http.MethodDelete).Path("/api/todos/{id:[0-9]+}").HandlerFunc(s.delete)

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// Fail makes every following request answer with status.
// Zero restores normal handling.
func (s *RESTServer) Fail(status int) {
	s.mu.Lock()
	s.failStatus = status
	s.mu.Unlock()
}

// Requests returns the requests seen so far.
func (s *RESTServer) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

func (s *RESTServer) capture(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		s.mu.Lock()
		failStatus := s.failStatus
		s.mu.Unlock()

		var handler http.Handler = next
		if failStatus != 0 {
			handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "injected failure", failStatus)
			})
		}

		m := httpsnoop.CaptureMetrics(handler, w, r)

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:    r.Method,
			Path:      r.URL.Path,
			Body:      string(body),
			RequestID: r.Header.Get("X-Request-ID"),
			Status:    m.Code,
		})
		s.mu.Unlock()
	})
}

func (s *RESTServer) list(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.Backend.ListTasks(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *RESTServer) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	task, err := s.Backend.CreateTask(r.Context(), req.Title)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (s *RESTServer) update(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	var task service.Task
	if err := json.NewDecoder(r.Body).Decode(&task); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.Backend.UpdateTask(r.Context(), id, task); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *RESTServer) delete(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err := s.Backend.DeleteTask(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// NewRawServer starts a server with an arbitrary handler, for responses the
// REST contract never produces. It is closed on test cleanup.
func NewRawServer(t *testing.T, h http.Handler) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}
