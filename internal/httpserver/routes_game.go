// internal/httpserver/routes_game.go
//
// Game-facing handlers: config discovery, authoritative guess
// submission, and player state read/upsert (the client-declared
// compatibility mode).

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"wordly/internal/game"
	"wordly/internal/store"
)

// handleConfig reports the public dimensions of the active game.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	g, err := s.games.GetActive(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"wordLength": g.WordLength,
		"maxGuesses": g.MaxGuesses,
		"gameUid":    g.UID,
	})
}

type guessReq struct {
	GameUID string `json:"gameUid"`
	UID     string `json:"uid"`
	Name    string `json:"name"`
	Guess   string `json:"guess"`
}

// handleGuess runs the server-authoritative guess flow: validate
// input, check the claimed game identity, consult the dictionary
// oracle (fail-open), then fold the evaluated guess into the player's
// session inside the store's atomic boundary. A winning terminal
// transition records the score automatically.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
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
	guess, err := requireText(req.Guess, "guess")
	if err != nil {
		writeDomainError(w, err)
		return
	}
	guess = strings.ToUpper(guess)

	g, err := s.games.RequireActive(r.Context(), gameUID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if len(guess) != g.WordLength {
		writeErrorMsg(w, http.StatusBadRequest, "Invalid guess length.")
		return
	}
	if !isAlphaUpper(guess) {
		writeDomainError(w, &game.ValidationError{Field: "guess", Reason: "must contain only letters"})
		return
	}
	if !s.oracle.IsValid(r.Context(), guess) {
		writeErrorMsg(w, http.StatusBadRequest, "That is not a word.")
		return
	}

	var rec game.GuessRecord
	sess, err := s.store.MutatePlayer(r.Context(), g.UID, uid, name, func(sess *game.Session) error {
		var applyErr error
		rec, applyErr = sess.ApplyGuess(guess, g.Word, g.MaxGuesses, time.Now())
		return applyErr
	})
	if err != nil {
		if errors.Is(err, store.ErrNameTaken) {
			writeErrorMsg(w, http.StatusConflict, nameTakenMsg(name))
			return
		}
		writeDomainError(w, err)
		return
	}

	if sess.IsWinner && sess.FinishedAt != nil {
		s.recordWin(r, g, uid, sess)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"state":     sess.View(g.MaxGuesses, g.WordLength),
		"guess":     guess,
		"statuses":  rec.Statuses,
		"isCorrect": guess == g.Word,
	})
}

// recordWin writes the winner's score entry. Duplicates are fine: the
// at-most-once invariant lives in the store, and the winning request
// may race a client /api/submit.
func (s *Server) recordWin(r *http.Request, g *store.Game, uid string, sess *game.Session) {
	entry := store.ScoreEntry{
		UID:       uid,
		Name:      sess.Name,
		Tries:     len(sess.Guesses),
		Duration:  sess.FinishedAt.Sub(sess.StartedAt).Seconds(),
		Timestamp: time.Now().UnixMilli(),
	}
	err := s.store.SaveScore(r.Context(), g.UID, entry)
	if err != nil && !errors.Is(err, store.ErrScoreExists) {
		logRequestWarn(r, err, "record win")
	}
}

// handleGetState returns the caller's session view, or null when the
// player has not played this game.
func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	uid, err := requireText(r.URL.Query().Get("uid"), "uid")
	if err != nil {
		writeDomainError(w, err)
		return
	}
	g, err := s.games.GetActive(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	sess, err := s.store.PlayerSession(r.Context(), g.UID, uid)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusOK, map[string]any{"state": nil})
		return
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"state": sess.View(g.MaxGuesses, g.WordLength)})
}

type stateReq struct {
	GameUID string          `json:"gameUid"`
	UID     string          `json:"uid"`
	Name    string          `json:"name"`
	State   json.RawMessage `json:"state"`
}

// handlePostState stores client-declared progress verbatim. This mode
// trusts the client with its own win/loss flags; it exists for
// backward compatibility and shares only the name-uniqueness and
// active-game checks with the authoritative flow.
func (s *Server) handlePostState(w http.ResponseWriter, r *http.Request) {
	var req stateReq
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

	declared, err := game.ParseDeclaredState(req.State)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	g, err := s.games.RequireActive(r.Context(), gameUID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	sess, err := s.store.MutatePlayer(r.Context(), g.UID, uid, name, func(sess *game.Session) error {
		// Whole-object replace of the declared fields; the winner flag
		// is mirrored so listings stay meaningful.
		sess.Declared = declared
		if declared.IsWinner != nil {
			sess.IsWinner = *declared.IsWinner
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNameTaken) {
			writeErrorMsg(w, http.StatusConflict, nameTakenMsg(name))
			return
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"state": sess.View(g.MaxGuesses, g.WordLength)})
}

func nameTakenMsg(name string) string {
	return "The name " + name + " is already in use. Please choose another"
}

// isAlphaUpper reports whether s consists only of A–Z.
func isAlphaUpper(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}
