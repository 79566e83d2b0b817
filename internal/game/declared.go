// internal/game/declared.go
//
// Client-declared progress state. In this mode the server is a
// pass-through store: clients assert their own grid, row/col cursor,
// and win/loss flags, and the server persists them without re-checking
// the game rules. This is an explicit lower-trust compatibility path;
// the guess-driven state machine in session.go is the authoritative
// mode.
//
// The payload is a fixed enumerated set of optional typed fields.
// Unknown fields and wrong types are rejected.

package game

import (
	"encoding/json"
	"strings"
)

// GridCell is one tile of a client-declared grid.
type GridCell struct {
	Letter string `json:"letter"`
	Status Status `json:"status,omitempty"`
}

// DeclaredState carries the optional client-declared fields. Nil
// pointers mean "not declared".
type DeclaredState struct {
	Grid             [][]GridCell      `json:"grid,omitempty"`
	CurrentRow       *int              `json:"currentRow,omitempty"`
	CurrentCol       *int              `json:"currentCol,omitempty"`
	KeyboardStatuses map[string]Status `json:"keyboardStatuses,omitempty"`
	GameOver         *bool             `json:"gameOver,omitempty"`
	IsWinner         *bool             `json:"isWinner,omitempty"`
	StartTime        *int64            `json:"startTime,omitempty"`
	MaxGuesses       *int              `json:"maxGuesses,omitempty"`
	WordLength       *int              `json:"wordLength,omitempty"`
}

func (d *DeclaredState) clone() *DeclaredState {
	if d == nil {
		return nil
	}
	out := &DeclaredState{}
	if d.Grid != nil {
		out.Grid = make([][]GridCell, len(d.Grid))
		for i, row := range d.Grid {
			out.Grid[i] = append([]GridCell(nil), row...)
		}
	}
	out.CurrentRow = cloneIntPtr(d.CurrentRow)
	out.CurrentCol = cloneIntPtr(d.CurrentCol)
	if d.KeyboardStatuses != nil {
		out.KeyboardStatuses = make(map[string]Status, len(d.KeyboardStatuses))
		for k, v := range d.KeyboardStatuses {
			out.KeyboardStatuses[k] = v
		}
	}
	out.GameOver = cloneBoolPtr(d.GameOver)
	out.IsWinner = cloneBoolPtr(d.IsWinner)
	if d.StartTime != nil {
		v := *d.StartTime
		out.StartTime = &v
	}
	out.MaxGuesses = cloneIntPtr(d.MaxGuesses)
	out.WordLength = cloneIntPtr(d.WordLength)
	return out
}

func cloneIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneBoolPtr(p *bool) *bool {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// ParseDeclaredState validates a raw client state payload. Each known
// field is decoded with its expected type; any unrecognized field
// fails the whole payload.
func ParseDeclaredState(raw json.RawMessage) (*DeclaredState, error) {
	if len(raw) == 0 {
		return &DeclaredState{}, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, &ValidationError{Field: "state", Reason: "must be an object"}
	}

	out := &DeclaredState{}
	for key, val := range fields {
		switch key {
		case "grid":
			var grid [][]GridCell
			if err := json.Unmarshal(val, &grid); err != nil {
				return nil, &ValidationError{Field: "grid", Reason: "must be a list of cell rows"}
			}
			for _, row := range grid {
				for _, cell := range row {
					if err := validateCell(cell); err != nil {
						return nil, err
					}
				}
			}
			out.Grid = grid
		case "currentRow":
			out.CurrentRow = new(int)
			if err := json.Unmarshal(val, out.CurrentRow); err != nil {
				return nil, &ValidationError{Field: "currentRow", Reason: "must be an integer"}
			}
		case "currentCol":
			out.CurrentCol = new(int)
			if err := json.Unmarshal(val, out.CurrentCol); err != nil {
				return nil, &ValidationError{Field: "currentCol", Reason: "must be an integer"}
			}
		case "keyboardStatuses":
			var ks map[string]Status
			if err := json.Unmarshal(val, &ks); err != nil {
				return nil, &ValidationError{Field: "keyboardStatuses", Reason: "must be an object"}
			}
			for letter, st := range ks {
				if len(letter) != 1 || !isUpperLetter(letter[0]) {
					return nil, &ValidationError{Field: "keyboardStatuses", Reason: "keys must be single uppercase letters"}
				}
				if !st.Valid() {
					return nil, &ValidationError{Field: "keyboardStatuses", Reason: "unknown status " + string(st)}
				}
			}
			out.KeyboardStatuses = ks
		case "gameOver":
			out.GameOver = new(bool)
			if err := json.Unmarshal(val, out.GameOver); err != nil {
				return nil, &ValidationError{Field: "gameOver", Reason: "must be a boolean"}
			}
		case "isWinner":
			out.IsWinner = new(bool)
			if err := json.Unmarshal(val, out.IsWinner); err != nil {
				return nil, &ValidationError{Field: "isWinner", Reason: "must be a boolean"}
			}
		case "startTime":
			out.StartTime = new(int64)
			if err := json.Unmarshal(val, out.StartTime); err != nil {
				return nil, &ValidationError{Field: "startTime", Reason: "must be an integer"}
			}
		case "maxGuesses":
			out.MaxGuesses = new(int)
			if err := json.Unmarshal(val, out.MaxGuesses); err != nil {
				return nil, &ValidationError{Field: "maxGuesses", Reason: "must be an integer"}
			}
		case "wordLength":
			out.WordLength = new(int)
			if err := json.Unmarshal(val, out.WordLength); err != nil {
				return nil, &ValidationError{Field: "wordLength", Reason: "must be an integer"}
			}
		default:
			return nil, &ValidationError{Field: key, Reason: "is not a recognized state field"}
		}
	}
	return out, nil
}

func validateCell(c GridCell) error {
	if c.Letter != "" {
		up := strings.ToUpper(c.Letter)
		if len(up) != 1 || !isUpperLetter(up[0]) {
			return &ValidationError{Field: "grid", Reason: "cell letters must be single letters"}
		}
	}
	if c.Status != "" && !c.Status.Valid() {
		return &ValidationError{Field: "grid", Reason: "unknown cell status " + string(c.Status)}
	}
	return nil
}

func isUpperLetter(b byte) bool { return b >= 'A' && b <= 'Z' }
