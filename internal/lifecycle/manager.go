// internal/lifecycle/manager.go
//
// Ownership of "the current active game". Exactly one game accepts
// guesses at a time: the most recently created one. The manager
// bootstraps the first game on demand, validates the game identity
// claimed by requests, and performs the admin reset that atomically
// supersedes the active game.
//
// The active-game pointer is never a bare global: every operation that
// needs the active game goes through this manager and receives an
// explicit *store.Game handle.

package lifecycle

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"wordly/internal/store"
	"wordly/internal/words"
)

// MismatchError reports a request that referenced a superseded game.
// It carries the fresh game so the caller can hand the client
// everything it needs to resynchronize.
type MismatchError struct {
	Active *store.Game
}

func (e *MismatchError) Error() string {
	return "game has reset, please start a new game"
}

// Manager owns active-game lifecycle over a store and a word selector.
type Manager struct {
	mu         sync.Mutex // serializes bootstrap and reset
	store      store.Store
	selector   *words.Selector
	maxGuesses int
}

// New constructs a Manager. maxGuesses applies to every game it
// creates.
func New(st store.Store, selector *words.Selector, maxGuesses int) *Manager {
	return &Manager{store: st, selector: selector, maxGuesses: maxGuesses}
}

// PoolSize exposes the candidate pool size for diagnostics.
func (m *Manager) PoolSize() int { return m.selector.PoolSize() }

// GetActive returns the active game, creating the first one if none
// exists yet. Bootstrap is idempotent: concurrent callers get the same
// game.
func (m *Manager) GetActive(ctx context.Context) (*store.Game, error) {
	g, err := m.store.ActiveGame(ctx)
	if err == nil {
		return g, nil
	}
	if !errors.Is(err, store.ErrNoGame) {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// Another caller may have bootstrapped while we waited.
	if g, err := m.store.ActiveGame(ctx); err == nil {
		return g, nil
	} else if !errors.Is(err, store.ErrNoGame) {
		return nil, err
	}
	return m.createGame(ctx)
}

// RequireActive validates a caller-claimed game identity against the
// active game. A stale identity yields a *MismatchError carrying the
// fresh game.
func (m *Manager) RequireActive(ctx context.Context, claimedUID string) (*store.Game, error) {
	g, err := m.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	if claimedUID != g.UID {
		return nil, &MismatchError{Active: g}
	}
	return g, nil
}

// Reset creates a brand-new game which becomes active the instant its
// creation commits. Prior games and their sessions become historical;
// they are never mutated.
func (m *Manager) Reset(ctx context.Context) (*store.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createGame(ctx)
}

func (m *Manager) createGame(ctx context.Context) (*store.Game, error) {
	entry := m.selector.Choose()
	g := &store.Game{
		UID:        newGameUID(),
		Word:       entry.Word,
		Definition: entry.Definition,
		MaxGuesses: m.maxGuesses,
		WordLength: len(entry.Word),
		CreatedAt:  time.Now(),
	}
	if err := m.store.CreateGame(ctx, g); err != nil {
		return nil, err
	}
	log.Info().
		Str("gameUid", g.UID).
		Int("wordLength", g.WordLength).
		Int("maxGuesses", g.MaxGuesses).
		Msg("created game")
	log.Debug().Str("word", g.Word).Msg("secret word selected")
	return g, nil
}

// newGameUID returns a 32-hex-char identity token.
func newGameUID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
