package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"wordly/internal/game"
)

func newTestGame(t *testing.T, st Store, uid string) *Game {
	t.Helper()
	g := &Game{
		UID:        uid,
		Word:       "CRANE",
		MaxGuesses: 6,
		WordLength: 5,
		CreatedAt:  time.Now(),
	}
	if err := st.CreateGame(context.Background(), g); err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	return g
}

func TestActiveGameIsNewest(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()

	if _, err := st.ActiveGame(ctx); !errors.Is(err, ErrNoGame) {
		t.Fatalf("expected ErrNoGame, got %v", err)
	}

	newTestGame(t, st, "g1")
	newTestGame(t, st, "g2")

	g, err := st.ActiveGame(ctx)
	if err != nil {
		t.Fatalf("ActiveGame: %v", err)
	}
	if g.UID != "g2" {
		t.Fatalf("active game = %q, want g2", g.UID)
	}
}

func TestMutatePlayerCreatesSession(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()
	newTestGame(t, st, "g1")

	sess, err := st.MutatePlayer(ctx, "g1", "dev-1", "ana", func(s *game.Session) error {
		_, err := s.ApplyGuess("GHOST", "CRANE", 6, time.Now())
		return err
	})
	if err != nil {
		t.Fatalf("MutatePlayer: %v", err)
	}
	if sess.Name != "ana" || len(sess.Guesses) != 1 {
		t.Fatalf("unexpected session: %+v", sess)
	}

	got, err := st.PlayerSession(ctx, "g1", "dev-1")
	if err != nil {
		t.Fatalf("PlayerSession: %v", err)
	}
	if len(got.Guesses) != 1 || got.Guesses[0].Text != "GHOST" {
		t.Fatalf("persisted session mismatch: %+v", got)
	}
}

func TestMutatePlayerNameConflict(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()
	newTestGame(t, st, "g1")

	noop := func(*game.Session) error { return nil }
	if _, err := st.MutatePlayer(ctx, "g1", "dev-1", "ana", noop); err != nil {
		t.Fatalf("first player: %v", err)
	}
	if _, err := st.MutatePlayer(ctx, "g1", "dev-2", "ana", noop); !errors.Is(err, ErrNameTaken) {
		t.Fatalf("expected ErrNameTaken, got %v", err)
	}
	// Same device keeps its own name without conflict.
	if _, err := st.MutatePlayer(ctx, "g1", "dev-1", "ana", noop); err != nil {
		t.Fatalf("same player, same name: %v", err)
	}
	// Conflicted player is never created.
	if _, err := st.PlayerSession(ctx, "g1", "dev-2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for rejected player, got %v", err)
	}
}

func TestNameFreedByNewGame(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()
	newTestGame(t, st, "g1")

	noop := func(*game.Session) error { return nil }
	if _, err := st.MutatePlayer(ctx, "g1", "dev-1", "ana", noop); err != nil {
		t.Fatalf("first game: %v", err)
	}

	// Sessions are scoped to a game: a fresh game frees every name.
	newTestGame(t, st, "g2")
	if _, err := st.MutatePlayer(ctx, "g2", "dev-2", "ana", noop); err != nil {
		t.Fatalf("name should be free in the new game: %v", err)
	}
}

func TestMutatePlayerFailedFnLeavesStateIntact(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()
	newTestGame(t, st, "g1")

	if _, err := st.MutatePlayer(ctx, "g1", "dev-1", "ana", func(s *game.Session) error {
		_, err := s.ApplyGuess("GHOST", "CRANE", 6, time.Now())
		return err
	}); err != nil {
		t.Fatalf("setup guess: %v", err)
	}

	boom := errors.New("boom")
	_, err := st.MutatePlayer(ctx, "g1", "dev-1", "ana", func(s *game.Session) error {
		if _, err := s.ApplyGuess("BRICK", "CRANE", 6, time.Now()); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	sess, err := st.PlayerSession(ctx, "g1", "dev-1")
	if err != nil {
		t.Fatalf("PlayerSession: %v", err)
	}
	if len(sess.Guesses) != 1 {
		t.Fatalf("failed mutation leaked: %d guesses", len(sess.Guesses))
	}
}

func TestSaveScoreAtMostOnce(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()
	newTestGame(t, st, "g1")

	entry := ScoreEntry{UID: "dev-1", Name: "ana", Tries: 3, Duration: 42.5, Timestamp: 1}
	if err := st.SaveScore(ctx, "g1", entry); err != nil {
		t.Fatalf("SaveScore: %v", err)
	}
	if err := st.SaveScore(ctx, "g1", entry); !errors.Is(err, ErrScoreExists) {
		t.Fatalf("expected ErrScoreExists, got %v", err)
	}
}

func TestSaveScoreConcurrentExactlyOneWins(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()
	newTestGame(t, st, "g1")

	const n = 16
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = st.SaveScore(ctx, "g1", ScoreEntry{UID: "dev-1", Name: "ana", Tries: 3, Duration: 40})
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrScoreExists):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 {
		t.Fatalf("expected exactly one successful save, got %d", ok)
	}
}

func TestSortScores(t *testing.T) {
	entries := []ScoreEntry{
		{UID: "a", Tries: 3, Duration: 50},
		{UID: "b", Tries: 2, Duration: 70},
		{UID: "c", Tries: 3, Duration: 40},
	}
	ranked := SortScores(entries)
	want := []string{"b", "c", "a"}
	for i, uid := range want {
		if ranked[i].UID != uid {
			t.Fatalf("rank %d = %q, want %q (full: %+v)", i, ranked[i].UID, uid, ranked)
		}
	}
	// Ties on tries and duration rank by earliest submission.
	tied := SortScores([]ScoreEntry{
		{UID: "late", Tries: 3, Duration: 40, Timestamp: 200},
		{UID: "early", Tries: 3, Duration: 40, Timestamp: 100},
	})
	if tied[0].UID != "early" {
		t.Fatalf("expected earliest submission first, got %q", tied[0].UID)
	}
	// Input order untouched.
	if entries[0].UID != "a" {
		t.Fatal("SortScores mutated its input")
	}
}

func TestPlayersListing(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()
	newTestGame(t, st, "g1")

	if _, err := st.MutatePlayer(ctx, "g1", "dev-1", "Zoe", func(s *game.Session) error {
		_, err := s.ApplyGuess("CRANE", "CRANE", 6, time.Now())
		return err
	}); err != nil {
		t.Fatalf("winner: %v", err)
	}
	if _, err := st.MutatePlayer(ctx, "g1", "dev-2", "abe", func(s *game.Session) error {
		_, err := s.ApplyGuess("GHOST", "CRANE", 6, time.Now())
		return err
	}); err != nil {
		t.Fatalf("loser: %v", err)
	}

	players, err := st.Players(ctx, "g1")
	if err != nil {
		t.Fatalf("Players: %v", err)
	}
	if len(players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(players))
	}
	// Case-insensitive name order.
	if players[0].Name != "abe" || players[1].Name != "Zoe" {
		t.Fatalf("unexpected order: %+v", players)
	}
	if players[1].Status != "Success" || players[1].Tries != 1 {
		t.Fatalf("winner summary wrong: %+v", players[1])
	}
	if players[0].Status != "Fail" {
		t.Fatalf("loser summary wrong: %+v", players[0])
	}
}
