package game

import (
	"errors"
	"testing"
	"time"
)

func TestApplyGuessWin(t *testing.T) {
	s := &Session{Name: "ana", StartedAt: time.Now()}
	now := time.Now()

	rec, err := s.ApplyGuess("CRANE", "CRANE", 6, now)
	if err != nil {
		t.Fatalf("ApplyGuess: %v", err)
	}
	if rec.Number != 1 {
		t.Fatalf("expected guess number 1, got %d", rec.Number)
	}
	if !s.IsWinner {
		t.Fatal("expected winner after correct guess")
	}
	if s.FinishedAt == nil || !s.FinishedAt.Equal(now) {
		t.Fatalf("expected FinishedAt %v, got %v", now, s.FinishedAt)
	}
}

func TestApplyGuessLossAtLimit(t *testing.T) {
	s := &Session{Name: "bo", StartedAt: time.Now()}
	for i := 0; i < 6; i++ {
		if _, err := s.ApplyGuess("GHOST", "CRANE", 6, time.Now()); err != nil {
			t.Fatalf("guess %d: %v", i+1, err)
		}
	}
	if s.IsWinner {
		t.Fatal("expected loss")
	}
	if s.FinishedAt == nil {
		t.Fatal("expected terminal session after exhausting guesses")
	}
}

func TestApplyGuessRejectsTerminalSession(t *testing.T) {
	s := &Session{Name: "cal", StartedAt: time.Now()}
	if _, err := s.ApplyGuess("CRANE", "CRANE", 6, time.Now()); err != nil {
		t.Fatalf("winning guess: %v", err)
	}

	before := len(s.Guesses)
	_, err := s.ApplyGuess("GHOST", "CRANE", 6, time.Now())
	var seq *SequenceError
	if !errors.As(err, &seq) {
		t.Fatalf("expected SequenceError, got %v", err)
	}
	if len(s.Guesses) != before {
		t.Fatalf("terminal session was mutated: %d guesses, had %d", len(s.Guesses), before)
	}
}

func TestApplyGuessRejectsCorruptSequence(t *testing.T) {
	s := &Session{
		Name:      "dee",
		StartedAt: time.Now(),
		Guesses: []GuessRecord{
			{Number: 1, Text: "GHOST", Statuses: statuses("aaaaa")},
			{Number: 3, Text: "BRICK", Statuses: statuses("aaaaa")},
		},
	}
	_, err := s.ApplyGuess("CRANE", "CRANE", 6, time.Now())
	var seq *SequenceError
	if !errors.As(err, &seq) {
		t.Fatalf("expected SequenceError for gapped numbers, got %v", err)
	}
}

func TestKeyboardHintsNeverRegress(t *testing.T) {
	s := &Session{Name: "eva", StartedAt: time.Now()}

	// CARTS against CRANE puts C correct and A present.
	if _, err := s.ApplyGuess("CARTS", "CRANE", 6, time.Now()); err != nil {
		t.Fatalf("first guess: %v", err)
	}
	if got := s.KeyboardHints["C"]; got != StatusCorrect {
		t.Fatalf("expected C correct, got %q", got)
	}

	// A later guess where C scores absent must not demote the hint.
	if _, err := s.ApplyGuess("MIMIC", "CRANE", 6, time.Now()); err != nil {
		t.Fatalf("second guess: %v", err)
	}
	if got := s.KeyboardHints["C"]; got != StatusCorrect {
		t.Fatalf("hint for C regressed to %q", got)
	}

	// But absent → present upgrades are applied.
	if got := s.KeyboardHints["A"]; got != StatusPresent {
		t.Fatalf("expected A present, got %q", got)
	}
	if _, err := s.ApplyGuess("CRAMP", "CRANE", 6, time.Now()); err != nil {
		t.Fatalf("third guess: %v", err)
	}
	if got := s.KeyboardHints["A"]; got != StatusCorrect {
		t.Fatalf("expected A upgraded to correct, got %q", got)
	}
}

func TestCloneIsDeep(t *testing.T) {
	now := time.Now()
	s := &Session{
		Name:          "fin",
		StartedAt:     now,
		FinishedAt:    &now,
		IsWinner:      true,
		Guesses:       []GuessRecord{{Number: 1, Text: "CRANE", Statuses: statuses("ccccc")}},
		KeyboardHints: map[string]Status{"C": StatusCorrect},
	}
	c := s.Clone()
	c.Guesses[0].Statuses[0] = StatusAbsent
	c.KeyboardHints["C"] = StatusAbsent
	*c.FinishedAt = now.Add(time.Hour)

	if s.Guesses[0].Statuses[0] != StatusCorrect {
		t.Fatal("clone shares guess statuses")
	}
	if s.KeyboardHints["C"] != StatusCorrect {
		t.Fatal("clone shares keyboard hints")
	}
	if !s.FinishedAt.Equal(now) {
		t.Fatal("clone shares FinishedAt")
	}
}
