// internal/httpserver/routes_scores.go
//
// Leaderboard handlers: ranked score listing and the client-declared
// score submission path.

package httpserver

import (
	"net/http"
	"time"

	"wordly/internal/game"
	"wordly/internal/store"
)

// handleScores lists the active game's scores, best first.
func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	g, err := s.games.GetActive(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	scores, err := s.store.Scores(r.Context(), g.UID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	ranked := store.SortScores(scores)
	writeJSON(w, http.StatusOK, ranked)
}

type submitReq struct {
	GameUID  string  `json:"gameUid"`
	UID      string  `json:"uid"`
	Name     string  `json:"name"`
	Tries    int     `json:"tries"`
	Duration float64 `json:"duration"`
}

// handleSubmit records a finished run reported by the client. The
// authoritative flow records winners on its own; this endpoint serves
// the client-declared mode, so the figures are taken at face value
// after basic sanity checks. One score per device per game, enforced
// by the store.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitReq
	if err := decodeBody(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	uid, err := requireText(req.UID, "uid")
	if err != nil {
		writeDomainError(w, err)
		return
	}
	name, err := requireText(req.Name, "name")
	if err != nil {
		writeDomainError(w, err)
		return
	}
	gameUID, err := requireText(req.GameUID, "gameUid")
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if req.Tries <= 0 {
		writeDomainError(w, &game.ValidationError{Field: "tries", Reason: "must be positive"})
		return
	}
	if req.Duration <= 0 {
		writeDomainError(w, &game.ValidationError{Field: "duration", Reason: "must be positive"})
		return
	}

	g, err := s.games.RequireActive(r.Context(), gameUID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	entry := store.ScoreEntry{
		UID:       uid,
		Name:      name,
		Tries:     req.Tries,
		Duration:  req.Duration,
		Timestamp: time.Now().UnixMilli(),
	}
	if err := s.store.SaveScore(r.Context(), g.UID, entry); err != nil {
		writeDomainError(w, err)
		return
	}

	scores, err := s.store.Scores(r.Context(), g.UID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	// The run is over for this player, so the answer is no longer a
	// secret to them.
	writeJSON(w, http.StatusOK, map[string]any{
		"entry":      entry,
		"scores":     store.SortScores(scores),
		"word":       g.Word,
		"definition": g.Definition,
	})
}
