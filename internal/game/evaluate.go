// internal/game/evaluate.go
//
// Guess evaluation for the Wordly engine: the standard two-pass
// scoring algorithm. Pure function, no I/O.

package game

// Evaluate scores guess against secret and returns one Status per
// letter. The caller guarantees len(guess) == len(secret) and that
// both are uppercase ASCII letters.
//
// Pass 1: mark exact matches as correct and count the remaining
// (non-matching) secret letters.
//
// Pass 2, left to right: for each position not already correct, mark
// present if that letter still has remaining count (and consume one),
// otherwise absent.
//
// The remaining-count bookkeeping is what makes repeated letters come
// out right: a letter occurring once in the secret but twice in the
// guess is marked present exactly once.
func Evaluate(guess, secret string) []Status {
	n := len(secret)
	statuses := make([]Status, n)

	var remaining [26]int
	for i := 0; i < n; i++ {
		if guess[i] == secret[i] {
			statuses[i] = StatusCorrect
		} else if j := letterIndex(secret[i]); j >= 0 {
			remaining[j]++
		}
	}

	for i := 0; i < n; i++ {
		if statuses[i] == StatusCorrect {
			continue
		}
		j := letterIndex(guess[i])
		if j >= 0 && remaining[j] > 0 {
			statuses[i] = StatusPresent
			remaining[j]--
		} else {
			statuses[i] = StatusAbsent
		}
	}
	return statuses
}

// letterIndex maps an uppercase ASCII letter to 0..25, or -1.
func letterIndex(b byte) int {
	if b < 'A' || b > 'Z' {
		return -1
	}
	return int(b - 'A')
}
