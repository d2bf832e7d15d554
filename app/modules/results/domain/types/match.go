package resultstypes

import (
	"strconv"
	"strings"
)

// Match is an ordered fixture between two teams. "A-B" and "B-A" are
// different matches.
type Match struct {
	TeamA string
	TeamB string
}

// NewMatch trims both team names.
func NewMatch(teamA, teamB string) Match {
	return Match{TeamA: strings.TrimSpace(teamA), TeamB: strings.TrimSpace(teamB)}
}

// Key returns the workbook-facing identifier "TeamA-TeamB".
func (m Match) Key() string {
	return m.TeamA + "-" + m.TeamB
}

func (m Match) String() string {
	return m.Key()
}

// Valid reports whether both team identifiers are present.
func (m Match) Valid() bool {
	return m.TeamA != "" && m.TeamB != ""
}

// Score is a scoreline, positionally matching the teams of a Match.
type Score struct {
	A int
	B int
}

// ParseScore parses "integer-integer". Exactly one separator is allowed and
// both halves must be non-negative integers once trimmed.
func ParseScore(raw string) (Score, error) {
	parts := strings.Split(strings.TrimSpace(raw), "-")
	if len(parts) != 2 {
		return Score{}, &MalformedScoreError{Raw: raw}
	}

	a, err := parseGoals(parts[0])
	if err != nil {
		return Score{}, &MalformedScoreError{Raw: raw, Err: err}
	}
	b, err := parseGoals(parts[1])
	if err != nil {
		return Score{}, &MalformedScoreError{Raw: raw, Err: err}
	}

	return Score{A: a, B: b}, nil
}

func parseGoals(s string) (int, error) {
	s = strings.TrimSpace(s)
	// Atoi accepts a leading sign; goals never carry one.
	if s == "" || s[0] == '+' {
		return 0, strconv.ErrSyntax
	}
	return strconv.Atoi(s)
}

// GoalDifference is A minus B.
func (s Score) GoalDifference() int {
	return s.A - s.B
}

// Outcome is -1 when B won, 0 for a draw and 1 when A won.
func (s Score) Outcome() int {
	switch d := s.GoalDifference(); {
	case d > 0:
		return 1
	case d < 0:
		return -1
	default:
		return 0
	}
}

// Swap returns the scoreline seen from the other team.
func (s Score) Swap() Score {
	return Score{A: s.B, B: s.A}
}

func (s Score) String() string {
	return strconv.Itoa(s.A) + "-" + strconv.Itoa(s.B)
}
