package resultstypes

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoResultsRecorded is returned when no group match has both teams and a
// score filled in.
var ErrNoResultsRecorded = errors.New("no match results have been recorded, nothing to process")

// MalformedScoreError is returned when a recorded or predicted score is not
// in "number-number" form. Player is empty for the authoritative results.
type MalformedScoreError struct {
	Player string
	Match  string
	Raw    string
	Err    error
}

func (e *MalformedScoreError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "score %q", e.Raw)
	if e.Match != "" {
		fmt.Fprintf(&b, " for %s", e.Match)
	}
	if e.Player != "" {
		fmt.Fprintf(&b, " by player %s", e.Player)
	}
	b.WriteString(" is in an unknown format (expecting number-number, as in 2-1)")
	return b.String()
}

func (e *MalformedScoreError) Unwrap() error {
	return e.Err
}

// WithMatch returns a copy of the error annotated with the match key.
func (e *MalformedScoreError) WithMatch(m Match) *MalformedScoreError {
	out := *e
	out.Match = m.Key()
	return &out
}

// WithPlayer returns a copy of the error annotated with the player name.
func (e *MalformedScoreError) WithPlayer(player string) *MalformedScoreError {
	out := *e
	out.Player = player
	return &out
}
