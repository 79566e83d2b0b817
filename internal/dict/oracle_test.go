package dict

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func oracleAgainst(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 2*time.Second)
}

func TestIsValidKnownWord(t *testing.T) {
	c := oracleAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/crane" {
			t.Errorf("unexpected lookup path %q", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	})
	if !c.IsValid(context.Background(), "CRANE") {
		t.Fatal("expected 200 to mean valid")
	}
}

func TestIsValidUnknownWord(t *testing.T) {
	c := oracleAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	if c.IsValid(context.Background(), "ZZZZZ") {
		t.Fatal("expected 404 to mean invalid")
	}
}

func TestIsValidFailsOpenOnServerError(t *testing.T) {
	c := oracleAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	if !c.IsValid(context.Background(), "CRANE") {
		t.Fatal("expected non-404 failure to accept the word")
	}
}

func TestIsValidFailsOpenOnTimeout(t *testing.T) {
	c := oracleAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})
	c.http.Timeout = 20 * time.Millisecond
	if !c.IsValid(context.Background(), "CRANE") {
		t.Fatal("expected timeout to accept the word")
	}
}

func TestIsValidFailsOpenOnUnreachableService(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", 100*time.Millisecond)
	if !c.IsValid(context.Background(), "CRANE") {
		t.Fatal("expected transport error to accept the word")
	}
}

func TestStaticOracle(t *testing.T) {
	s := Static{"CRANE": true, "XXXXX": false}
	ctx := context.Background()
	if !s.IsValid(ctx, "CRANE") {
		t.Fatal("listed valid word rejected")
	}
	if s.IsValid(ctx, "XXXXX") {
		t.Fatal("listed invalid word accepted")
	}
	if !s.IsValid(ctx, "OTHER") {
		t.Fatal("unlisted word should be valid (fail open)")
	}
}
