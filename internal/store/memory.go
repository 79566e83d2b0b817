// internal/store/memory.go
//
// In-memory implementation of the Store interface. Used in tests and
// for durability-free deployments; state is lost on restart.
//
// Concurrency: a single RWMutex guards all maps. Reads take the read
// lock and return deep copies; every mutation runs entirely under the
// write lock, which is the atomic read-modify-write boundary the
// engine requires.

package store

import (
	"context"
	"sync"
	"time"

	"wordly/internal/game"
)

type memory struct {
	mu      sync.RWMutex
	games   []*Game                             // append order == creation order
	players map[string]map[string]*game.Session // gameUID → playerUID → session
	scores  map[string]map[string]ScoreEntry    // gameUID → playerUID → entry
}

// NewMemory constructs an empty in-memory Store.
func NewMemory() Store {
	return &memory{
		players: make(map[string]map[string]*game.Session),
		scores:  make(map[string]map[string]ScoreEntry),
	}
}

func (m *memory) CreateGame(ctx context.Context, g *Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *g
	m.games = append(m.games, &cp)
	return nil
}

func (m *memory) ActiveGame(ctx context.Context) (*Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.games) == 0 {
		return nil, ErrNoGame
	}
	cp := *m.games[len(m.games)-1]
	return &cp, nil
}

func (m *memory) PlayerSession(ctx context.Context, gameUID, playerUID string) (*game.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.players[gameUID][playerUID]
	if !ok {
		return nil, ErrNotFound
	}
	return sess.Clone(), nil
}

func (m *memory) MutatePlayer(ctx context.Context, gameUID, playerUID, name string, fn MutateFunc) (*game.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	byPlayer, ok := m.players[gameUID]
	if !ok {
		byPlayer = make(map[string]*game.Session)
		m.players[gameUID] = byPlayer
	}

	sess, ok := byPlayer[playerUID]
	if !ok {
		if m.nameTakenLocked(gameUID, playerUID, name) {
			return nil, ErrNameTaken
		}
		sess = &game.Session{Name: name, StartedAt: time.Now()}
	} else if sess.Name != name {
		if m.nameTakenLocked(gameUID, playerUID, name) {
			return nil, ErrNameTaken
		}
	}

	// Work on a copy so a failing fn leaves the stored session intact.
	next := sess.Clone()
	next.Name = name
	if err := fn(next); err != nil {
		return nil, err
	}
	byPlayer[playerUID] = next
	return next.Clone(), nil
}

func (m *memory) nameTakenLocked(gameUID, playerUID, name string) bool {
	for uid, other := range m.players[gameUID] {
		if uid != playerUID && other.Name == name {
			return true
		}
	}
	return false
}

func (m *memory) SaveScore(ctx context.Context, gameUID string, entry ScoreEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	byPlayer, ok := m.scores[gameUID]
	if !ok {
		byPlayer = make(map[string]ScoreEntry)
		m.scores[gameUID] = byPlayer
	}
	if _, exists := byPlayer[entry.UID]; exists {
		return ErrScoreExists
	}
	byPlayer[entry.UID] = entry
	return nil
}

func (m *memory) Scores(ctx context.Context, gameUID string) ([]ScoreEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]ScoreEntry, 0, len(m.scores[gameUID]))
	for _, entry := range m.scores[gameUID] {
		out = append(out, entry)
	}
	return out, nil
}

func (m *memory) Players(ctx context.Context, gameUID string) ([]PlayerSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]PlayerSummary, 0, len(m.players[gameUID]))
	for _, sess := range m.players[gameUID] {
		out = append(out, PlayerSummary{
			Name:   sess.Name,
			Tries:  len(sess.Guesses),
			Status: playerStatus(sess.IsWinner),
		})
	}
	sortPlayers(out)
	return out, nil
}

func (m *memory) Close() error { return nil }
