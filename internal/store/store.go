// internal/store/store.go
//
// Persistence contract for the Wordly engine.
// Defines:
//   - Game: one secret-word round, identified by an opaque uid.
//   - ScoreEntry: one finishing result per (game, player).
//   - PlayerSummary: admin listing row.
//   - Store: the interface both the SQL and in-memory stores satisfy.
//
// Every mutating operation is atomic with respect to its (game,
// player) key: implementations use a transaction (SQL) or a lock
// (memory) so concurrent requests cannot both violate an invariant.

package store

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"wordly/internal/game"
)

var (
	// ErrNoGame means no game has ever been created.
	ErrNoGame = errors.New("no active game")
	// ErrNotFound means the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNameTaken means the display name is already used by another
	// player in the same game.
	ErrNameTaken = errors.New("name already in use")
	// ErrScoreExists means a score was already recorded for this
	// (game, player) pair.
	ErrScoreExists = errors.New("score already submitted")
)

// Game is one secret-word round. Exactly one game is active at a time:
// the most recently created. Games are immutable once created.
type Game struct {
	UID        string
	Word       string
	Definition string
	MaxGuesses int
	WordLength int
	CreatedAt  time.Time
}

// ScoreEntry is one player's finishing result. Timestamp is epoch
// milliseconds of the submission.
type ScoreEntry struct {
	UID       string  `json:"uid"`
	Name      string  `json:"name"`
	Tries     int     `json:"tries"`
	Duration  float64 `json:"duration"`
	Timestamp int64   `json:"timestamp"`
}

// PlayerSummary is a per-player row for the admin players listing.
type PlayerSummary struct {
	Name   string `json:"name"`
	Tries  int    `json:"tries"`
	Status string `json:"status"` // "Success" or "Fail"
}

// MutateFunc is applied to a player session inside the store's atomic
// boundary. Returning an error aborts the mutation.
type MutateFunc func(*game.Session) error

// Store is the persistence interface for games, player sessions, and
// scores. Implementations may be backed by SQL (sql.go) or memory
// (memory.go).
type Store interface {
	// CreateGame persists a new game, which becomes the active one.
	CreateGame(ctx context.Context, g *Game) error

	// ActiveGame returns the most recently created game, or ErrNoGame.
	ActiveGame(ctx context.Context) (*Game, error)

	// PlayerSession reads one player's session, or ErrNotFound.
	PlayerSession(ctx context.Context, gameUID, playerUID string) (*game.Session, error)

	// MutatePlayer finds or creates the player's session and applies fn
	// to it, all inside one atomic boundary. The name-uniqueness check
	// happens inside that same boundary; a collision with another
	// player returns ErrNameTaken and nothing is written.
	MutatePlayer(ctx context.Context, gameUID, playerUID, name string, fn MutateFunc) (*game.Session, error)

	// SaveScore records a finishing result at most once per
	// (game, player); a duplicate returns ErrScoreExists.
	SaveScore(ctx context.Context, gameUID string, entry ScoreEntry) error

	// Scores returns all recorded entries for a game, unranked.
	Scores(ctx context.Context, gameUID string) ([]ScoreEntry, error)

	// Players lists per-player summaries for a game, sorted by name.
	Players(ctx context.Context, gameUID string) ([]PlayerSummary, error)

	Close() error
}

// SortScores ranks entries by (tries asc, duration asc, timestamp
// asc): fewer tries wins, then faster duration, then earliest
// submission. The input is not modified.
func SortScores(entries []ScoreEntry) []ScoreEntry {
	out := append([]ScoreEntry{}, entries...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Tries != out[j].Tries {
			return out[i].Tries < out[j].Tries
		}
		if out[i].Duration != out[j].Duration {
			return out[i].Duration < out[j].Duration
		}
		return out[i].Timestamp < out[j].Timestamp
	})
	return out
}

// sortPlayers orders summaries case-insensitively by name.
func sortPlayers(players []PlayerSummary) {
	sort.Slice(players, func(i, j int) bool {
		return strings.ToLower(players[i].Name) < strings.ToLower(players[j].Name)
	})
}

// playerStatus maps the winner flag to the listing label.
func playerStatus(isWinner bool) string {
	if isWinner {
		return "Success"
	}
	return "Fail"
}
