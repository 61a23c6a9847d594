// Package health provides the operational HTTP surface served next to
// /metrics:
//
//   - /healthz — liveness probe; always returns 200 OK.
//   - /readyz  — readiness probe; returns 200 only when all registered
//     [Checker] functions pass (vocabulary loaded, providers reachable).
//   - /reload/vocabulary — POST forces a fresh load of the reference
//     tables and reports the new per-category counts.
//
// Responses are JSON objects with a top-level "status" field ("ok" or
// "fail").
package health

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/daehyun-cc/callticket/internal/vocab"
)

// checkTimeout is the maximum time a single readiness check may take
// before the context is cancelled.
const checkTimeout = 5 * time.Second

// Checker is a named health check function. Check returns nil when the
// dependency is healthy.
type Checker struct {
	// Name appears as a key in the JSON response (e.g. "vocabulary").
	Name string

	// Check probes the dependency. It must respect context cancellation.
	Check func(ctx context.Context) error
}

// ReloadFunc rebuilds the vocabulary and returns its new stats. Wired to
// the pipeline's reload operation.
type ReloadFunc func(ctx context.Context) (vocab.Stats, error)

type result struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
	Error  string            `json:"error,omitempty"`

	// Vocabulary carries the post-reload counts on /reload/vocabulary.
	Vocabulary *vocab.Stats `json:"vocabulary,omitempty"`
}

// Handler serves the operational endpoints. Safe for concurrent use; the
// checker list is fixed at construction time.
type Handler struct {
	checkers []Checker
	reload   ReloadFunc
}

// New creates a [Handler]. reload may be nil, in which case the reload
// endpoint responds 404. Checkers are evaluated sequentially in the order
// provided.
func New(reload ReloadFunc, checkers ...Checker) *Handler {
	c := make([]Checker, len(checkers))
	copy(c, checkers)
	return &Handler{checkers: c, reload: reload}
}

// VocabularyChecker reports healthy while store has a published snapshot
// with a non-empty equipment list.
func VocabularyChecker(store *vocab.Store) Checker {
	return Checker{
		Name: "vocabulary",
		Check: func(context.Context) error {
			if len(store.Snapshot().Allowed(vocab.CategoryEquipment)) == 0 {
				return errEmptyVocabulary
			}
			return nil
		},
	}
}

var errEmptyVocabulary = errors.New("vocabulary has no equipment entries")

// Healthz is a liveness probe that always returns 200 OK.
func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, result{Status: "ok"})
}

// Readyz returns 200 only when every registered [Checker] passes.
func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string, len(h.checkers))
	allOK := true

	for _, c := range h.checkers {
		ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
		err := c.Check(ctx)
		cancel()

		if err != nil {
			checks[c.Name] = "fail: " + err.Error()
			allOK = false
		} else {
			checks[c.Name] = "ok"
		}
	}

	res := result{Status: "ok", Checks: checks}
	status := http.StatusOK
	if !allOK {
		res.Status = "fail"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, res)
}

// ReloadVocabulary forces a fresh vocabulary load. On failure the previous
// snapshot stays active and the response is 502 with the load error.
func (h *Handler) ReloadVocabulary(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reload(r.Context())
	if err != nil {
		slog.Warn("vocabulary reload via http failed", "err", err)
		writeJSON(w, http.StatusBadGateway, result{Status: "fail", Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, result{Status: "ok", Vocabulary: &stats})
}

// Register adds the operational routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.Healthz)
	mux.HandleFunc("GET /readyz", h.Readyz)
	if h.reload != nil {
		mux.HandleFunc("POST /reload/vocabulary", h.ReloadVocabulary)
	}
}

// writeJSON encodes v as JSON with the given status code. On encoding
// failure it falls back to a plain-text 500 response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"status":"error"}`, http.StatusInternalServerError)
	}
}
