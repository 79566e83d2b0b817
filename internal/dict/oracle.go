// internal/dict/oracle.go
//
// External word-validity lookup. The engine never talks to the network
// directly; it receives an Oracle and treats it as a boolean check.
//
// Failure policy: fail open. Only a definitive "not found" answer
// rejects a word; timeouts, transport errors, and unexpected status
// codes all accept it so that play is never blocked by a flaky
// dictionary service.

package dict

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const defaultBaseURL = "https://api.dictionaryapi.dev/api/v2/entries/en"

// Oracle answers whether a guess is an accepted word.
type Oracle interface {
	IsValid(ctx context.Context, word string) bool
}

// Client is an Oracle backed by a dictionary HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a dictionary client. baseURL may be empty for the
// default service; timeout bounds every lookup.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// IsValid looks the word up. 200 means valid, 404 means invalid,
// anything else fails open.
func (c *Client) IsValid(ctx context.Context, word string) bool {
	lookupURL := c.baseURL + "/" + url.PathEscape(strings.ToLower(word))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		log.Warn().Err(err).Str("word", word).Msg("dictionary request build failed, accepting word")
		return true
	}
	req.Header.Set("User-Agent", "wordly/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("word", word).Msg("dictionary lookup failed, accepting word")
		return true
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return true
	case resp.StatusCode == http.StatusNotFound:
		return false
	default:
		log.Warn().Int("status", resp.StatusCode).Str("word", word).Msg("unexpected dictionary response, accepting word")
		return true
	}
}

// Static is a deterministic Oracle for tests: listed words use the
// given validity, unlisted words are valid (mirroring fail-open).
type Static map[string]bool

func (s Static) IsValid(_ context.Context, word string) bool {
	valid, ok := s[word]
	if !ok {
		return true
	}
	return valid
}
