// internal/words/words.go
//
// Candidate word pool for the Wordly engine.
// Responsibilities:
//   - Parse "WORD definition" lines into candidate entries.
//   - Normalize words to uppercase alphabetic characters.
//   - Load a pool from a configured file, falling back to a small
//     embedded default list when the file is missing or empty.
//   - Choose a secret word uniformly at random (crypto/rand).
//
// A pool with no valid candidates still yields a playable game: Choose
// falls back to a fixed default word with an empty definition.

package words

import (
	"crypto/rand"
	_ "embed"
	"errors"
	"math/big"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// FallbackWord is used when the pool has no valid candidates.
const FallbackWord = "CRATE"

//go:embed candidate_words.txt
var embeddedPool string

// Entry is one candidate secret word with its definition.
type Entry struct {
	Word       string
	Definition string
}

// Sanitize normalizes a raw word to uppercase alphabetic characters,
// stripping everything else. A word with no letters is invalid.
func Sanitize(raw string) (string, error) {
	var b strings.Builder
	for _, r := range strings.ToUpper(strings.TrimSpace(raw)) {
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "", errors.New("word must contain alphabetic characters")
	}
	return b.String(), nil
}

// ParseLine splits a "WORD definition" pool line. The definition is
// optional; the word part must sanitize to at least one letter.
func ParseLine(line string) (Entry, error) {
	parts := strings.SplitN(strings.TrimSpace(line), " ", 2)
	if len(parts) == 0 || parts[0] == "" {
		return Entry{}, errors.New("invalid candidate word")
	}
	word, err := Sanitize(parts[0])
	if err != nil {
		return Entry{}, err
	}
	e := Entry{Word: word}
	if len(parts) > 1 {
		e.Definition = strings.TrimSpace(parts[1])
	}
	return e, nil
}

// parsePool converts raw pool text into entries, dropping blank and
// invalid lines.
func parsePool(text string) []Entry {
	return lo.FilterMap(strings.Split(text, "\n"), func(line string, _ int) (Entry, bool) {
		if strings.TrimSpace(line) == "" {
			return Entry{}, false
		}
		e, err := ParseLine(line)
		if err != nil {
			return Entry{}, false
		}
		return e, true
	})
}

// LoadPool reads candidate entries from path. A missing or unreadable
// file is not fatal: the embedded default pool is used instead.
func LoadPool(path string) []Entry {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("word pool unavailable, using embedded defaults")
		return parsePool(embeddedPool)
	}
	entries := parsePool(string(data))
	if len(entries) == 0 {
		log.Warn().Str("path", path).Msg("word pool has no valid candidates, using embedded defaults")
		return parsePool(embeddedPool)
	}
	log.Info().Int("candidates", len(entries)).Str("path", path).Msg("loaded word pool")
	return entries
}

// Selector picks secret words from a fixed pool.
type Selector struct {
	entries []Entry
}

// NewSelector wraps a candidate pool.
func NewSelector(entries []Entry) *Selector {
	return &Selector{entries: entries}
}

// PoolSize returns the number of candidates.
func (s *Selector) PoolSize() int { return len(s.entries) }

// Choose returns a uniformly random candidate. An empty pool (or a
// random source failure) yields the fallback word.
func (s *Selector) Choose() Entry {
	if len(s.entries) == 0 {
		return Entry{Word: FallbackWord}
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(s.entries))))
	if err != nil {
		log.Warn().Err(err).Msg("random source failed, using first candidate")
		return s.entries[0]
	}
	return s.entries[n.Int64()]
}
