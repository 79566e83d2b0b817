package game

import (
	"reflect"
	"testing"
)

func statuses(short string) []Status {
	out := make([]Status, len(short))
	for i, c := range short {
		switch c {
		case 'c':
			out[i] = StatusCorrect
		case 'p':
			out[i] = StatusPresent
		case 'a':
			out[i] = StatusAbsent
		}
	}
	return out
}

func TestEvaluate(t *testing.T) {
	cases := []struct {
		name   string
		guess  string
		secret string
		want   []Status
	}{
		{"all correct", "CRANE", "CRANE", statuses("ccccc")},
		{"all absent", "GHOST", "CRANE", statuses("aaaaa")},
		{"mixed", "CARTS", "CRANE", statuses("cppaa")},
		// ERASE vs SPEED: both E's of the guess consume an E of the
		// secret (SPEED has two), S and final E land in-word, R and A
		// do not occur.
		{"duplicate consumption", "ERASE", "SPEED", statuses("paapp")},
		// EERIE vs CRANE: the secret's only E is claimed by the exact
		// match in position five, so both leading E's come back absent.
		{"single occurrence exhausted", "EERIE", "CRANE", statuses("aapac")},
		// Correct positions claim their letter before any present
		// marking happens.
		{"correct beats present", "ALLOW", "LLAMA", statuses("pcpaa")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Evaluate(tc.guess, tc.secret)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Evaluate(%q, %q) = %v, want %v", tc.guess, tc.secret, got, tc.want)
			}
		})
	}
}

func TestEvaluateDoesNotOvercountPresent(t *testing.T) {
	// Secret has one O; only the first unmatched O of the guess may be
	// marked present.
	// O present, U present, T absent, D present, final O absent.
	got := Evaluate("OUTDO", "ROUND")
	want := statuses("ppapa")
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Evaluate(OUTDO, ROUND) = %v, want %v", got, want)
	}
}
