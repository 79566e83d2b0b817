package httpserver

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func TestLoadAdminAuth(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "admin_code.txt")
	if err := os.WriteFile(path, []byte("s3cret\n"), 0o600); err != nil {
		t.Fatalf("write code file: %v", err)
	}

	a, err := LoadAdminAuth(path, time.Minute)
	if err != nil {
		t.Fatalf("LoadAdminAuth: %v", err)
	}
	if !a.Verify("s3cret") {
		t.Fatal("trimmed plaintext code rejected")
	}
	if a.Verify("wrong") {
		t.Fatal("wrong code accepted")
	}
	if a.Verify("") {
		t.Fatal("empty code accepted")
	}
}

func TestLoadAdminAuthMissingFileFails(t *testing.T) {
	if _, err := LoadAdminAuth(filepath.Join(t.TempDir(), "nope.txt"), time.Minute); err == nil {
		t.Fatal("expected error for missing credential file")
	}
}

func TestLoadAdminAuthEmptyFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "admin_code.txt")
	if err := os.WriteFile(path, []byte("  \n"), 0o600); err != nil {
		t.Fatalf("write code file: %v", err)
	}
	if _, err := LoadAdminAuth(path, time.Minute); err == nil {
		t.Fatal("expected error for empty credential file")
	}
}

func TestVerifyBcryptHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	a := NewAdminAuth(string(hash), time.Minute)
	if !a.Verify("s3cret") {
		t.Fatal("hashed code rejected")
	}
	if a.Verify("wrong") {
		t.Fatal("wrong code accepted against hash")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	a := NewAdminAuth("s3cret", time.Minute)
	token, err := a.IssueToken(time.Now())
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if !a.VerifyToken(token) {
		t.Fatal("freshly issued token rejected")
	}
	if a.VerifyToken("not-a-token") {
		t.Fatal("garbage token accepted")
	}
	if a.VerifyToken("") {
		t.Fatal("empty token accepted")
	}

	// A token signed under a different credential must not verify.
	other := NewAdminAuth("different", time.Minute)
	if other.VerifyToken(token) {
		t.Fatal("token verified across credentials")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	a := NewAdminAuth("s3cret", time.Minute)
	token, err := a.IssueToken(time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if a.VerifyToken(token) {
		t.Fatal("expired token accepted")
	}
}
