// internal/game/session.go
//
// Player session state machine.
// States: Active (FinishedAt == nil) → Won or Lost (FinishedAt set).
// Terminal states accept no further guesses. Guess records are
// append-only, numbered 1..N contiguously, N bounded by the game's
// guess limit.

package game

import (
	"strings"
	"time"
)

// ApplyGuess evaluates guess against secret and folds the result into
// the session: appends the guess record, merges keyboard hints, and
// performs the Won/Lost transition when the guess is terminal.
//
// Returns the appended record, or a *SequenceError when the session is
// already terminal, already at the guess limit, or holds a
// non-contiguous guess sequence. On error the session is unchanged.
func (s *Session) ApplyGuess(guess, secret string, maxGuesses int, now time.Time) (GuessRecord, error) {
	if err := s.checkSequence(maxGuesses); err != nil {
		return GuessRecord{}, err
	}
	if s.FinishedAt != nil {
		return GuessRecord{}, &SequenceError{Reason: "game already over for this player"}
	}
	if len(s.Guesses) >= maxGuesses {
		return GuessRecord{}, &SequenceError{Reason: "maximum guesses reached"}
	}

	rec := GuessRecord{
		Number:   len(s.Guesses) + 1,
		Text:     guess,
		Statuses: Evaluate(guess, secret),
	}
	s.Guesses = append(s.Guesses, rec)
	s.mergeKeyboardHints(rec.Text, rec.Statuses)

	switch {
	case guess == secret:
		s.IsWinner = true
		s.FinishedAt = &now
	case len(s.Guesses) >= maxGuesses:
		s.FinishedAt = &now
	}
	return rec, nil
}

// checkSequence verifies the stored guess numbers form the contiguous
// range 1..len(guesses) and do not exceed the limit. A violation means
// the persisted state is corrupt.
func (s *Session) checkSequence(maxGuesses int) error {
	if len(s.Guesses) > maxGuesses {
		return &SequenceError{Reason: "too many guesses for this game"}
	}
	for i, g := range s.Guesses {
		if g.Number != i+1 {
			return &SequenceError{Reason: "guesses must form a contiguous sequence starting at 1"}
		}
	}
	return nil
}

// mergeKeyboardHints folds the statuses of one guess into the
// per-letter hint map. The merge is monotonic: a letter's stored hint
// is replaced only by a strictly higher-priority one, so a correct
// hint can never regress to present or absent.
func (s *Session) mergeKeyboardHints(guess string, statuses []Status) {
	if s.KeyboardHints == nil {
		s.KeyboardHints = make(map[string]Status, len(statuses))
	}
	for i, st := range statuses {
		letter := strings.ToUpper(string(guess[i]))
		cur, ok := s.KeyboardHints[letter]
		if !ok || st.Priority() > cur.Priority() {
			s.KeyboardHints[letter] = st
		}
	}
}
