// internal/httpserver/admin.go
//
// Admin credential handling. The credential lives in a file next to
// the binary: either the plaintext code or a bcrypt hash of it (any
// "$2..."-prefixed content is treated as a hash). A successful verify
// issues a short-lived HS256 token signed with the file's content, so
// the client does not have to hold the code in memory between the
// verify step and the reset.

package httpserver

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AdminAuth verifies admin codes and mints reset tokens.
type AdminAuth struct {
	secret   string
	isHash   bool
	tokenTTL time.Duration
}

// LoadAdminAuth reads the admin credential file. A missing or empty
// file is an error: the caller is expected to treat that as fatal
// rather than run with admin endpoints silently open or dead.
func LoadAdminAuth(path string, tokenTTL time.Duration) (*AdminAuth, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read admin code file %s: %w", path, err)
	}
	secret := strings.TrimSpace(string(data))
	if secret == "" {
		return nil, fmt.Errorf("admin code file %s is empty", path)
	}
	return NewAdminAuth(secret, tokenTTL), nil
}

// NewAdminAuth builds an AdminAuth from an in-memory credential.
func NewAdminAuth(secret string, tokenTTL time.Duration) *AdminAuth {
	return &AdminAuth{
		secret:   secret,
		isHash:   strings.HasPrefix(secret, "$2"),
		tokenTTL: tokenTTL,
	}
}

// Verify reports whether code matches the stored credential.
func (a *AdminAuth) Verify(code string) bool {
	if code == "" {
		return false
	}
	if a.isHash {
		return bcrypt.CompareHashAndPassword([]byte(a.secret), []byte(code)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(a.secret), []byte(code)) == 1
}

// IssueToken mints a short-lived admin token.
func (a *AdminAuth) IssueToken(now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"role": "admin",
		"iat":  now.Unix(),
		"exp":  now.Add(a.tokenTTL).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(a.secret))
	if err != nil {
		return "", fmt.Errorf("sign admin token: %w", err)
	}
	return signed, nil
}

// VerifyToken reports whether tokenString is a live admin token.
func (a *AdminAuth) VerifyToken(tokenString string) bool {
	if tokenString == "" {
		return false
	}
	claims := jwt.MapClaims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(a.secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !tok.Valid {
		return false
	}
	role, _ := claims["role"].(string)
	return role == "admin"
}

// bearerToken extracts a Bearer credential from the Authorization
// header, or "" when there is none.
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(h, prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}
