// internal/httpserver/routes_admin.go
//
// Admin handlers: code verification (which also mints a reset token)
// and the game reset itself.

package httpserver

import (
	"net/http"
	"time"
)

type adminReq struct {
	Code string `json:"code"`
}

// handleAdminVerify checks an admin code. On success the response
// carries a short-lived token the client can present instead of the
// raw code. Wrong codes are a 200 with valid:false, not an error: the
// endpoint exists to answer the question.
func (s *Server) handleAdminVerify(w http.ResponseWriter, r *http.Request) {
	var req adminReq
	if err := decodeBody(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	if !s.admin.Verify(req.Code) {
		writeJSON(w, http.StatusOK, map[string]any{"valid": false})
		return
	}
	token, err := s.admin.IssueToken(time.Now())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"valid": true, "token": token})
}

// handleAdminReset supersedes the active game. Accepts either a Bearer
// token from a prior verify or the raw admin code in the body.
func (s *Server) handleAdminReset(w http.ResponseWriter, r *http.Request) {
	authorized := s.admin.VerifyToken(bearerToken(r))
	if !authorized {
		var req adminReq
		if err := decodeBody(r, &req); err == nil {
			authorized = s.admin.Verify(req.Code)
		}
	}
	if !authorized {
		writeErrorMsg(w, http.StatusForbidden, "Invalid admin code.")
		return
	}

	g, err := s.games.Reset(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"gameUid":    g.UID,
		"word":       g.Word,
		"definition": g.Definition,
		"wordLength": g.WordLength,
		"maxGuesses": g.MaxGuesses,
	})
}
