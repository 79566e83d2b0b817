// internal/httpserver/server.go
//
// HTTP wiring for the Wordly backend.
// Responsibilities:
//   - Router + middleware (request IDs, real IP, panic recovery,
//     timeouts, JSON content type, credentials-friendly CORS).
//   - Public endpoints: "/", "/health", "/debug/words".
//   - Game API under /api: config, guess, state, scores, submit.
//   - Admin API under /api/admin: verify, reset.
//   - Translation of engine errors into structured JSON responses.
//
// Handlers stay thin: input sanitation here, rules in internal/game,
// persistence in internal/store, active-game checks in
// internal/lifecycle.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"wordly/internal/dict"
	"wordly/internal/game"
	"wordly/internal/lifecycle"
	"wordly/internal/store"
)

// Server bundles the router with the engine collaborators.
type Server struct {
	r      *chi.Mux
	store  store.Store
	games  *lifecycle.Manager
	oracle dict.Oracle
	admin  *AdminAuth
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, games *lifecycle.Manager, oracle dict.Oracle, admin *AdminAuth, clientOrigin string) *Server {
	s := &Server{r: chi.NewRouter(), store: st, games: games, oracle: oracle, admin: admin}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(corsFor(clientOrigin))

	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service": "wordly",
			"endpoints": []string{
				"/health", "GET /api/config", "POST /api/guess",
				"GET /api/scores", "POST /api/submit",
				"GET /api/state", "POST /api/state",
				"POST /api/admin/verify", "POST /api/admin/reset",
			},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]int{"candidates": s.games.PoolSize()})
	})

	s.r.Route("/api", func(r chi.Router) {
		r.Get("/config", s.handleConfig)
		r.Post("/guess", s.handleGuess)
		r.Get("/scores", s.handleScores)
		r.Post("/submit", s.handleSubmit)
		r.Get("/state", s.handleGetState)
		r.Post("/state", s.handlePostState)
		r.Post("/admin/verify", s.handleAdminVerify)
		r.Post("/admin/reset", s.handleAdminReset)
	})

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFor enables credentialed CORS for a single origin.
func corsFor(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ------------------------------ responses ----------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

func writeErrorMsg(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// mismatchPayload is the 409 body that lets a stale client resync
// without guessing why its session vanished.
func mismatchPayload(g *store.Game) map[string]any {
	return map[string]any{
		"error":       "Game has reset. Please start a new game.",
		"nextGameUid": g.UID,
		"wordLength":  g.WordLength,
		"maxGuesses":  g.MaxGuesses,
	}
}

// writeDomainError maps engine errors onto HTTP responses. Everything
// in the domain taxonomy is recoverable at the request boundary;
// anything unrecognized is a 500 with no internals leaked.
func writeDomainError(w http.ResponseWriter, err error) {
	var mismatch *lifecycle.MismatchError
	if errors.As(err, &mismatch) {
		writeJSON(w, http.StatusConflict, mismatchPayload(mismatch.Active))
		return
	}
	var seq *game.SequenceError
	if errors.As(err, &seq) {
		writeErrorMsg(w, http.StatusConflict, seq.Reason)
		return
	}
	var invalid *game.ValidationError
	if errors.As(err, &invalid) {
		writeErrorMsg(w, http.StatusBadRequest, invalid.Error())
		return
	}
	if errors.Is(err, store.ErrNameTaken) {
		// Handlers with the name in scope produce the friendlier
		// message; this is the fallback.
		writeErrorMsg(w, http.StatusConflict, "That name is already in use. Please choose another")
		return
	}
	if errors.Is(err, store.ErrScoreExists) {
		writeErrorMsg(w, http.StatusConflict, "Score already submitted for this device.")
		return
	}
	log.Error().Err(err).Msg("request failed")
	writeErrorMsg(w, http.StatusInternalServerError, "internal error")
}

// logRequestWarn records a non-fatal handler failure with the request
// ID for correlation.
func logRequestWarn(r *http.Request, err error, msg string) {
	log.Warn().Err(err).Str("requestId", chimw.GetReqID(r.Context())).Msg(msg)
}

// ------------------------------ sanitation ---------------------------------

// requireText trims value and fails with a ValidationError when the
// result is empty.
func requireText(value, field string) (string, error) {
	text := strings.TrimSpace(value)
	if text == "" {
		return "", &game.ValidationError{Field: field, Reason: "is required"}
	}
	return text, nil
}

// decodeBody decodes a JSON request body into dst.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &game.ValidationError{Field: "body", Reason: "must be valid JSON"}
	}
	return nil
}
