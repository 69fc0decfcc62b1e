// Package backendtwin is an in-memory stand-in for the roadtrip backend. It speaks the
// same wire contract, drift included: raw-token auth, several checklist envelopes,
// null collections, empty-bodied 204s and plain-text 404s.
package backendtwin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/crypto/bcrypt"

	"roadtrip/internal/logging"
)

// CreateResponse selects what POST endpoints answer with.
type CreateResponse string

const (
	CreateEntity CreateResponse = "entity" // 201 with the stored object
	CreateID     CreateResponse = "id"     // 201 with a bare JSON number
	CreateEmpty  CreateResponse = "empty"  // 204, no body
)

// Behavior controls the response shapes the twin produces.
type Behavior struct {
	// ChecklistEnvelope is one of "checklistElements", "elements", "items" or "array".
	ChecklistEnvelope string
	// ChecklistIDField names the identifier key of listed checklist elements.
	ChecklistIDField string
	// NullWhenEmpty renders an empty checklistElements/routes collection as null.
	NullWhenEmpty bool
	// RouteEnvelope is "routes", "items" or "array".
	RouteEnvelope string
	Create        CreateResponse
}

// DefaultBehavior mirrors the production backend.
func DefaultBehavior() Behavior {
	return Behavior{
		ChecklistEnvelope: "checklistElements",
		ChecklistIDField:  "checklistElementId",
		NullWhenEmpty:     true,
		RouteEnvelope:     "routes",
		Create:            CreateEntity,
	}
}

// Options configures a Handler.
type Options struct {
	Behavior   Behavior
	Secret     []byte
	TokenTTL   time.Duration
	BcryptCost int
}

// Handler holds all twin state.
type Handler struct {
	store  *memoryStore
	tokens *tokenIssuer
	cost   int

	mu       sync.RWMutex
	behavior Behavior
}

// NewHandler creates a twin with empty state.
func NewHandler(opts Options) (*Handler, error) {
	tokens, err := newTokenIssuer(opts.Secret, opts.TokenTTL)
	if err != nil {
		return nil, err
	}
	cost := opts.BcryptCost
	if cost == 0 {
		cost = bcrypt.MinCost
	}
	b := opts.Behavior
	if b == (Behavior{}) {
		b = DefaultBehavior()
	}
	return &Handler{store: newMemoryStore(), tokens: tokens, cost: cost, behavior: b}, nil
}

// SetBehavior swaps the response shapes at runtime.
func (h *Handler) SetBehavior(b Behavior) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.behavior = b
}

func (h *Handler) currentBehavior() Behavior {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.behavior
}

// Routes mounts the backend API.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)

	r.Route("/roadtrips/{roadtripID}", func(r chi.Router) {
		r.Use(h.authMiddleware)

		r.Get("/checklist", h.ListChecklist)
		r.Post("/checklist", h.CreateChecklistElement)
		r.Put("/checklist/{elementID}", h.UpdateChecklistElement)
		r.Delete("/checklist/{elementID}", h.DeleteChecklistElement)

		r.Get("/routes", h.ListRoutes)
		r.Post("/routes", h.CreateRoute)
		r.Delete("/routes", h.ClearRoutes)
		r.Delete("/routes/{routeID}", h.DeleteRoute)
	})
}

// Router returns a ready-to-serve router with the API mounted.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) { notFound(w) })
	h.Routes(r)
	return r
}

// authMiddleware accepts only the raw token in Authorization; the Bearer scheme is
// rejected the way the production backend rejects it.
func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("Authorization")
		if raw == "" {
			detail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		if strings.HasPrefix(raw, "Bearer ") {
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"message": "Authorization header must carry the raw token",
			})
			return
		}
		if _, err := h.tokens.verify(raw); err != nil {
			detail(w, http.StatusUnauthorized, "Invalid or expired token")
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

func detail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"detail": msg})
}

// fieldErrors writes a 422 whose detail is a list, not a string.
func fieldErrors(w http.ResponseWriter, field, msg string) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"detail": []map[string]any{{"loc": []string{"body", field}, "msg": msg}},
	})
}

func notFound(w http.ResponseWriter) {
	http.Error(w, "Not Found", http.StatusNotFound)
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

// Server is a running twin bound to a local port.
type Server struct {
	*Handler
	URL string

	srv *http.Server
}

// Start serves a new twin on addr ("127.0.0.1:0" picks a free port).
func Start(addr string, opts Options) (*Server, error) {
	h, err := NewHandler(opts)
	if err != nil {
		return nil, err
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	s := &Server{
		Handler: h,
		URL:     "http://" + ln.Addr().String(),
		srv:     &http.Server{Handler: h.Router(), ReadHeaderTimeout: 5 * time.Second},
	}
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Get(logging.CategoryBoot).Error("backendtwin serve: %v", err)
		}
	}()
	return s, nil
}

// Close shuts the server down and waits for in-flight requests.
func (s *Server) Close(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
