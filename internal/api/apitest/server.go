// Package apitest runs an in-memory stand-in for the habit and task backend
// so client code can be exercised end to end without a real server.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
)

var secret = []byte("apitest-secret")

type account struct {
	user     models.User
	password string
}

type failure struct {
	status int
	body   string
}

// Server is a fake backend. All state is guarded by mu.
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	accounts    map[string]*account // by email
	habits      map[string]*models.Habit
	completions map[string][]models.HabitCompletion // by habit ID
	tasks       map[string]*models.Task
	failures    map[string]failure // "METHOD /route/pattern"
	requests    map[string]int
	now         func() time.Time
}

// New starts a fake backend that is shut down when the test ends
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		accounts:    map[string]*account{},
		habits:      map[string]*models.Habit{},
		completions: map[string][]models.HabitCompletion{},
		tasks:       map[string]*models.Task{},
		failures:    map[string]failure{},
		requests:    map[string]int{},
		now:         time.Now,
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(s.injectFailures)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", s.register)
		r.Post("/login", s.login)
		r.Post("/logout", s.logout)
		r.With(s.authenticate).Get("/me", s.me)
	})

	r.Route("/api/{uid}", func(r chi.Router) {
		r.Use(s.authenticate, s.ownsPath)

		r.Get("/habits", s.listHabits)
		r.Post("/habits", s.createHabit)
		r.Get("/habits/{id}", s.getHabit)
		r.Patch("/habits/{id}", s.updateHabit)
		r.Delete("/habits/{id}", s.deleteHabit)
		r.Post("/habits/{id}/archive", s.setHabitStatus(models.HabitStatusArchived))
		r.Post("/habits/{id}/restore", s.setHabitStatus(models.HabitStatusActive))
		r.Post("/habits/{id}/complete", s.completeHabit)
		r.Get("/habits/{id}/streak", s.streak)
		r.Get("/habits/{id}/completions", s.listCompletions)
		r.Delete("/habits/{id}/completions/{cid}", s.undoCompletion)

		r.Get("/tasks", s.listTasks)
		r.Post("/tasks", s.createTask)
		r.Get("/tasks/tags", s.tags)
		r.Get("/tasks/{id}", s.getTask)
		r.Patch("/tasks/{id}", s.updateTask)
		r.Patch("/tasks/{id}/complete", s.completeTask)
		r.Delete("/tasks/{id}", s.deleteTask)
	})
	return r
}

// Fail makes every request matching method and route pattern (for example
// "POST", "/api/{uid}/habits/{id}/complete") answer with status and a
// {"detail": body} payload until Recover is called.
func (s *Server) Fail(method, pattern string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+pattern] = failure{status: status, body: body}
}

// Recover clears every injected failure
func (s *Server) Recover() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = map[string]failure{}
}

// Requests returns how many requests matched method and route pattern
func (s *Server) Requests(method, pattern string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[method+" "+pattern]
}

// SetNow pins the server clock
func (s *Server) SetNow(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pattern := r.URL.Path
		if mux, ok := chi.RouteContext(r.Context()).Routes.(*chi.Mux); ok {
			rctx := chi.NewRouteContext()
			if mux.Match(rctx, r.Method, r.URL.Path) {
				pattern = rctx.RoutePattern()
			}
		}
		key := r.Method + " " + pattern

		s.mu.Lock()
		s.requests[key]++
		f, failing := s.failures[key]
		s.mu.Unlock()

		if failing {
			writeJSON(w, f.status, map[string]string{"detail": f.body})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// IssueToken signs a session token for userID that expires at exp
func IssueToken(userID string, exp time.Time) string {
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(exp),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		panic(err)
	}
	return token
}

type ctxKey struct{}

func userFrom(r *http.Request) string {
	id, _ := r.Context().Value(ctxKey{}).(string)
	return id
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ck, err := r.Cookie(constants.SessionCookieName)
		if err != nil {
			writeDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(ck.Value, claims, func(*jwt.Token) (any, error) { return secret, nil })
		if err != nil || !token.Valid {
			writeDetail(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		next.ServeHTTP(w, r.WithContext(withUser(r, claims.Subject)))
	})
}

func (s *Server) ownsPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "uid") != userFrom(r) {
			writeDetail(w, http.StatusForbidden, "Forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, fmt.Sprintf("invalid body: %v", err))
		return false
	}
	return true
}

func pageParams(r *http.Request, defLimit int) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defLimit
	}
	return page, limit
}

func paginate[T any](items []T, page, limit int) []T {
	start := (page - 1) * limit
	if start >= len(items) {
		return []T{}
	}
	end := min(start+limit, len(items))
	return items[start:end]
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func splitTags(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func newID() string {
	return uuid.NewString()
}
