package game

// SequenceError reports a guess submitted out of turn: past game-over,
// beyond the guess limit, or against a corrupted guess sequence. It
// indicates client/state desync rather than a transient failure.
type SequenceError struct {
	Reason string
}

func (e *SequenceError) Error() string { return e.Reason }

// ValidationError reports malformed or missing input. Field names the
// offending input; the message never leaks internals.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string { return e.Field + " " + e.Reason }
