// internal/game/types.go
//
// Core type definitions for the Wordly game engine.
// Defines:
//   - Status: per-letter result of a guess (correct/present/absent).
//   - GuessRecord: one evaluated guess within a session.
//   - Session: a player's accumulated progress within one game.
//   - View: the serialized session shape returned to clients.

package game

import (
	"time"
)

// Status is the evaluation result for a single letter in a guess.
// Possible values:
//   - "correct": letter is in the secret word at this position.
//   - "present": letter is in the secret word at a different position.
//   - "absent":  letter does not occur (or no occurrences remain).
type Status string

const (
	StatusCorrect Status = "correct"
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
)

// statusPriority orders hints from weakest to strongest. Keyboard hints
// only ever move up this ladder, never down.
var statusPriority = map[Status]int{
	StatusAbsent:  1,
	StatusPresent: 2,
	StatusCorrect: 3,
}

// Priority returns the merge rank of s. Unknown statuses rank below
// every real one.
func (s Status) Priority() int { return statusPriority[s] }

// Valid reports whether s is one of the three known statuses.
func (s Status) Valid() bool {
	return s == StatusCorrect || s == StatusPresent || s == StatusAbsent
}

// GuessRecord is one evaluated guess. Records are append-only and
// numbered 1..N without gaps.
type GuessRecord struct {
	Number   int      `json:"guessNumber"`
	Text     string   `json:"guess"`
	Statuses []Status `json:"statuses"`
}

// Session holds one player's progress within one specific game.
// A session with FinishedAt set is terminal and accepts no further
// guesses.
type Session struct {
	Name          string
	Guesses       []GuessRecord
	KeyboardHints map[string]Status
	StartedAt     time.Time
	FinishedAt    *time.Time
	IsWinner      bool

	// Declared is only set for sessions written through the
	// client-declared state endpoint. The server stores these fields
	// verbatim and does not referee them.
	Declared *DeclaredState
}

// Finished reports whether the session reached a terminal state.
func (s *Session) Finished() bool { return s.FinishedAt != nil }

// Clone returns a deep copy of the session. Stores hand out clones so
// callers never alias persisted state.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := &Session{
		Name:      s.Name,
		StartedAt: s.StartedAt,
		IsWinner:  s.IsWinner,
	}
	if s.FinishedAt != nil {
		t := *s.FinishedAt
		out.FinishedAt = &t
	}
	if s.Guesses != nil {
		out.Guesses = make([]GuessRecord, len(s.Guesses))
		for i, g := range s.Guesses {
			rec := g
			rec.Statuses = append([]Status(nil), g.Statuses...)
			out.Guesses[i] = rec
		}
	}
	if s.KeyboardHints != nil {
		out.KeyboardHints = make(map[string]Status, len(s.KeyboardHints))
		for k, v := range s.KeyboardHints {
			out.KeyboardHints[k] = v
		}
	}
	if s.Declared != nil {
		out.Declared = s.Declared.clone()
	}
	return out
}

// View is the client-facing serialization of a Session. Timestamps are
// epoch milliseconds.
type View struct {
	Name             string            `json:"name"`
	IsWinner         bool              `json:"isWinner"`
	StartTime        int64             `json:"startTime"`
	FinishTime       *int64            `json:"finishTime"`
	CurrentRow       int               `json:"currentRow"`
	CurrentCol       int               `json:"currentCol"`
	GameOver         bool              `json:"gameOver"`
	MaxGuesses       int               `json:"maxGuesses"`
	WordLength       int               `json:"wordLength"`
	Guesses          []GuessRecord     `json:"guesses"`
	KeyboardStatuses map[string]Status `json:"keyboardStatuses"`
	Grid             [][]GridCell      `json:"grid,omitempty"`
}

// View serializes the session for the given game dimensions. For
// client-declared sessions the declared fields take precedence over
// the derived ones.
func (s *Session) View(maxGuesses, wordLength int) *View {
	v := &View{
		Name:             s.Name,
		IsWinner:         s.IsWinner,
		StartTime:        s.StartedAt.UnixMilli(),
		CurrentRow:       len(s.Guesses),
		CurrentCol:       0,
		GameOver:         s.FinishedAt != nil,
		MaxGuesses:       maxGuesses,
		WordLength:       wordLength,
		Guesses:          append([]GuessRecord{}, s.Guesses...),
		KeyboardStatuses: map[string]Status{},
	}
	for k, st := range s.KeyboardHints {
		v.KeyboardStatuses[k] = st
	}
	if s.FinishedAt != nil {
		ms := s.FinishedAt.UnixMilli()
		v.FinishTime = &ms
	}

	if d := s.Declared; d != nil {
		if d.Grid != nil {
			v.Grid = d.Grid
		}
		if d.CurrentRow != nil {
			v.CurrentRow = *d.CurrentRow
		}
		if d.CurrentCol != nil {
			v.CurrentCol = *d.CurrentCol
		}
		if d.KeyboardStatuses != nil {
			v.KeyboardStatuses = d.KeyboardStatuses
		}
		if d.GameOver != nil {
			v.GameOver = *d.GameOver
		}
		if d.IsWinner != nil {
			v.IsWinner = *d.IsWinner
		}
		if d.StartTime != nil {
			v.StartTime = *d.StartTime
		}
		if d.MaxGuesses != nil {
			v.MaxGuesses = *d.MaxGuesses
		}
		if d.WordLength != nil {
			v.WordLength = *d.WordLength
		}
	}
	return v
}
