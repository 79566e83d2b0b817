// internal/store/sql.go
//
// SQL implementation of the Store interface.
// Responsibilities:
//   - Open a connection for the configured dialect (SQLite default,
//     PostgreSQL or MySQL via WORDLY_DB_URL).
//   - Apply migrations from sql/<dialect>/*.sql (idempotent, recorded
//     in _migrations).
//   - CRUD for games, player sessions (+ guesses, keyboard hints), and
//     scores, with every mutation inside one transaction.
//
// Unique constraints back up the in-transaction checks: (game, name)
// and (game, uid) on player_states, (player, guess_number) on guesses,
// (game, uid) on scores. A constraint trip under concurrency maps to
// the same domain error as the in-transaction check.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"wordly/internal/config"
	"wordly/internal/game"
)

// SQL is the database-backed Store.
type SQL struct {
	db            *sql.DB
	dialect       Dialect
	migrationsDir string
}

// Open connects to the configured database, applies migrations, and
// returns a ready Store.
func Open(cfg *config.Config) (*SQL, error) {
	var dialect Dialect
	var dcfg DialectConfig

	switch cfg.DatabaseType {
	case "postgres":
		dialect = NewPostgresDialect()
		dcfg = DialectConfig{URL: cfg.DatabaseURL}
	case "mysql":
		dialect = NewMySQLDialect()
		dcfg = DialectConfig{URL: cfg.DatabaseURL}
	case "sqlite", "":
		dialect = NewSQLiteDialect()
		if dir := filepath.Dir(cfg.DatabasePath); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("mkdir %s: %w", dir, err)
			}
		}
		dcfg = DialectConfig{Path: cfg.DatabasePath}
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.DatabaseType)
	}

	db, err := sql.Open(dialect.DriverName(), dialect.DSN(dcfg))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := dialect.ConfigureConnection(db); err != nil {
		return nil, fmt.Errorf("configure connection: %w", err)
	}

	s := &SQL{db: db, dialect: dialect, migrationsDir: cfg.MigrationsDir}
	if err := s.Migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQL) Close() error { return s.db.Close() }

// rw rewrites ? placeholders for the active dialect.
func (s *SQL) rw(q string) string { return s.dialect.RewriteQuery(q) }

// Migrate applies sql/<dialect>/*.sql in lexical order, skipping files
// already recorded in _migrations. Each migration runs in its own
// transaction.
func (s *SQL) Migrate() error {
	if _, err := s.db.Exec(s.dialect.CreateMigrationsTableQuery()); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	dir := filepath.Join(s.migrationsDir, s.dialect.MigrationsSubdir())
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return fmt.Errorf("glob migrations: %w", err)
	}
	sort.Strings(files)

	for _, f := range files {
		name := filepath.Base(f)
		var done int
		err := s.db.QueryRow(s.rw(`SELECT 1 FROM _migrations WHERE name=?`), name).Scan(&done)
		if err == nil {
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("query _migrations: %w", err)
		}

		raw, err := os.ReadFile(f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		// MySQL cannot run multiple statements per Exec by default.
		for _, stmt := range splitStatements(string(raw)) {
			if _, err := tx.Exec(stmt); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("apply %s: %w", name, err)
			}
		}
		if _, err := tx.Exec(s.rw(`INSERT INTO _migrations(name) VALUES (?)`), name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", name, err)
		}
		log.Info().Str("migration", name).Msg("applied")
	}
	return nil
}

// splitStatements breaks a migration file into single statements on
// trailing semicolons. Good enough for the schema files shipped here.
func splitStatements(text string) []string {
	var out []string
	for _, stmt := range strings.Split(text, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		out = append(out, stmt)
	}
	return out
}

// Rebuild drops every table and reapplies migrations. Destructive;
// only reachable from the db utility subcommand.
func (s *SQL) Rebuild() error {
	drops := []string{
		`DROP TABLE IF EXISTS player_guesses`,
		`DROP TABLE IF EXISTS keyboard_hints`,
		`DROP TABLE IF EXISTS player_states`,
		`DROP TABLE IF EXISTS scores`,
		`DROP TABLE IF EXISTS games`,
		`DROP TABLE IF EXISTS _migrations`,
	}
	for _, q := range drops {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("rebuild: %w", err)
		}
	}
	return s.Migrate()
}

// ------------------------------- games -------------------------------

func (s *SQL) CreateGame(ctx context.Context, g *Game) error {
	_, err := s.db.ExecContext(ctx, s.rw(`
		INSERT INTO games (uid, word, definition, max_guesses, word_length, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`),
		g.UID, g.Word, g.Definition, g.MaxGuesses, g.WordLength, g.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert game: %w", err)
	}
	return nil
}

func (s *SQL) ActiveGame(ctx context.Context) (*Game, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT uid, word, definition, max_guesses, word_length, created_at
		FROM games ORDER BY created_at DESC, id DESC LIMIT 1`)
	return scanGame(row)
}

func scanGame(row *sql.Row) (*Game, error) {
	var g Game
	var createdMs int64
	err := row.Scan(&g.UID, &g.Word, &g.Definition, &g.MaxGuesses, &g.WordLength, &createdMs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoGame
	}
	if err != nil {
		return nil, err
	}
	g.CreatedAt = time.UnixMilli(createdMs)
	return &g, nil
}

// gameID resolves a game uid to its row id within q.
func gameID(ctx context.Context, q queryer, rw func(string) string, gameUID string) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx, rw(`SELECT id FROM games WHERE uid=?`), gameUID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNoGame
	}
	return id, err
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// --------------------------- player sessions ---------------------------

func (s *SQL) PlayerSession(ctx context.Context, gameUID, playerUID string) (*game.Session, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	gid, err := gameID(ctx, tx, s.rw, gameUID)
	if err != nil {
		return nil, err
	}
	sess, _, err := s.loadSession(ctx, tx, gid, playerUID)
	if err != nil {
		return nil, err
	}
	return sess, tx.Commit()
}

// loadSession reads the player row plus guesses and keyboard hints.
// Returns ErrNotFound when the player has no session in this game.
func (s *SQL) loadSession(ctx context.Context, tx queryer, gid int64, playerUID string) (*game.Session, int64, error) {
	var (
		stateID    int64
		sess       game.Session
		startMs    int64
		finishMs   sql.NullInt64
		declared   sql.NullString
	)
	err := tx.QueryRowContext(ctx, s.rw(`
		SELECT id, name, is_winner, start_time, finish_time, declared_state
		FROM player_states WHERE game_id=? AND uid=?`), gid, playerUID,
	).Scan(&stateID, &sess.Name, &sess.IsWinner, &startMs, &finishMs, &declared)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, ErrNotFound
	}
	if err != nil {
		return nil, 0, err
	}
	sess.StartedAt = time.UnixMilli(startMs)
	if finishMs.Valid {
		t := time.UnixMilli(finishMs.Int64)
		sess.FinishedAt = &t
	}
	if declared.Valid && declared.String != "" {
		var d game.DeclaredState
		if err := json.Unmarshal([]byte(declared.String), &d); err != nil {
			return nil, 0, fmt.Errorf("decode declared state: %w", err)
		}
		sess.Declared = &d
	}

	rows, err := tx.QueryContext(ctx, s.rw(`
		SELECT guess_number, guess_text, statuses
		FROM player_guesses WHERE player_state_id=? ORDER BY guess_number`), stateID)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	for rows.Next() {
		var rec game.GuessRecord
		var statusesJSON string
		if err := rows.Scan(&rec.Number, &rec.Text, &statusesJSON); err != nil {
			return nil, 0, err
		}
		if err := json.Unmarshal([]byte(statusesJSON), &rec.Statuses); err != nil {
			return nil, 0, fmt.Errorf("decode statuses: %w", err)
		}
		sess.Guesses = append(sess.Guesses, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	hintRows, err := tx.QueryContext(ctx, s.rw(`
		SELECT letter, status FROM keyboard_hints WHERE player_state_id=?`), stateID)
	if err != nil {
		return nil, 0, err
	}
	defer hintRows.Close()
	for hintRows.Next() {
		var letter string
		var status game.Status
		if err := hintRows.Scan(&letter, &status); err != nil {
			return nil, 0, err
		}
		if sess.KeyboardHints == nil {
			sess.KeyboardHints = make(map[string]game.Status)
		}
		sess.KeyboardHints[letter] = status
	}
	return &sess, stateID, hintRows.Err()
}

func (s *SQL) MutatePlayer(ctx context.Context, gameUID, playerUID, name string, fn MutateFunc) (*game.Session, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	gid, err := gameID(ctx, tx, s.rw, gameUID)
	if err != nil {
		return nil, err
	}

	sess, stateID, err := s.loadSession(ctx, tx, gid, playerUID)
	switch {
	case errors.Is(err, ErrNotFound):
		if err := s.checkNameFree(ctx, tx, gid, playerUID, name); err != nil {
			return nil, err
		}
		sess = &game.Session{Name: name, StartedAt: time.Now()}
		_, err = tx.ExecContext(ctx, s.rw(`
			INSERT INTO player_states (game_id, uid, name, is_winner, start_time, finish_time, declared_state)
			VALUES (?, ?, ?, ?, ?, NULL, NULL)`),
			gid, playerUID, name, false, sess.StartedAt.UnixMilli(),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, ErrNameTaken
			}
			return nil, fmt.Errorf("insert player state: %w", err)
		}
		if err := tx.QueryRowContext(ctx, s.rw(`
			SELECT id FROM player_states WHERE game_id=? AND uid=?`), gid, playerUID,
		).Scan(&stateID); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		if sess.Name != name {
			if err := s.checkNameFree(ctx, tx, gid, playerUID, name); err != nil {
				return nil, err
			}
		}
	}

	baseGuesses := len(sess.Guesses)
	sess.Name = name
	if err := fn(sess); err != nil {
		return nil, err
	}

	var finishMs *int64
	if sess.FinishedAt != nil {
		ms := sess.FinishedAt.UnixMilli()
		finishMs = &ms
	}
	var declaredJSON *string
	if sess.Declared != nil {
		raw, err := json.Marshal(sess.Declared)
		if err != nil {
			return nil, fmt.Errorf("encode declared state: %w", err)
		}
		enc := string(raw)
		declaredJSON = &enc
	}
	_, err = tx.ExecContext(ctx, s.rw(`
		UPDATE player_states SET name=?, is_winner=?, finish_time=?, declared_state=?
		WHERE id=?`),
		sess.Name, sess.IsWinner, finishMs, declaredJSON, stateID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrNameTaken
		}
		return nil, fmt.Errorf("update player state: %w", err)
	}

	for _, rec := range sess.Guesses[baseGuesses:] {
		statusesJSON, err := json.Marshal(rec.Statuses)
		if err != nil {
			return nil, fmt.Errorf("encode statuses: %w", err)
		}
		_, err = tx.ExecContext(ctx, s.rw(`
			INSERT INTO player_guesses (player_state_id, guess_number, guess_text, statuses)
			VALUES (?, ?, ?, ?)`),
			stateID, rec.Number, rec.Text, string(statusesJSON),
		)
		if err != nil {
			if isUniqueViolation(err) {
				// A concurrent request appended the same guess number.
				return nil, &game.SequenceError{Reason: "guess sequence conflict"}
			}
			return nil, fmt.Errorf("insert guess: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, s.rw(`
		DELETE FROM keyboard_hints WHERE player_state_id=?`), stateID); err != nil {
		return nil, err
	}
	for letter, status := range sess.KeyboardHints {
		if _, err := tx.ExecContext(ctx, s.rw(`
			INSERT INTO keyboard_hints (player_state_id, letter, status)
			VALUES (?, ?, ?)`), stateID, letter, string(status)); err != nil {
			return nil, fmt.Errorf("insert hint: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return sess, nil
}

// checkNameFree fails with ErrNameTaken when another player in the
// same game already uses name.
func (s *SQL) checkNameFree(ctx context.Context, tx queryer, gid int64, playerUID, name string) error {
	var one int
	err := tx.QueryRowContext(ctx, s.rw(`
		SELECT 1 FROM player_states WHERE game_id=? AND name=? AND uid<>?`),
		gid, name, playerUID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	return ErrNameTaken
}

// ------------------------------- scores -------------------------------

func (s *SQL) SaveScore(ctx context.Context, gameUID string, entry ScoreEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	gid, err := gameID(ctx, tx, s.rw, gameUID)
	if err != nil {
		return err
	}

	var one int
	err = tx.QueryRowContext(ctx, s.rw(`
		SELECT 1 FROM scores WHERE game_id=? AND uid=?`), gid, entry.UID).Scan(&one)
	if err == nil {
		return ErrScoreExists
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	_, err = tx.ExecContext(ctx, s.rw(`
		INSERT INTO scores (game_id, uid, name, tries, duration, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?)`),
		gid, entry.UID, entry.Name, entry.Tries, entry.Duration, entry.Timestamp,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrScoreExists
		}
		return fmt.Errorf("insert score: %w", err)
	}
	return tx.Commit()
}

func (s *SQL) Scores(ctx context.Context, gameUID string) ([]ScoreEntry, error) {
	rows, err := s.db.QueryContext(ctx, s.rw(`
		SELECT sc.uid, sc.name, sc.tries, sc.duration, sc.recorded_at
		FROM scores sc JOIN games g ON sc.game_id = g.id
		WHERE g.uid=?`), gameUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ScoreEntry{}
	for rows.Next() {
		var e ScoreEntry
		if err := rows.Scan(&e.UID, &e.Name, &e.Tries, &e.Duration, &e.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQL) Players(ctx context.Context, gameUID string) ([]PlayerSummary, error) {
	rows, err := s.db.QueryContext(ctx, s.rw(`
		SELECT ps.name, ps.is_winner,
		       (SELECT COUNT(1) FROM player_guesses pg WHERE pg.player_state_id = ps.id)
		FROM player_states ps JOIN games g ON ps.game_id = g.id
		WHERE g.uid=?`), gameUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []PlayerSummary{}
	for rows.Next() {
		var p PlayerSummary
		var isWinner bool
		if err := rows.Scan(&p.Name, &isWinner, &p.Tries); err != nil {
			return nil, err
		}
		p.Status = playerStatus(isWinner)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sortPlayers(out)
	return out, nil
}
