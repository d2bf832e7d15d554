package resultstypes

import "errors"

// Entry is one recorded (or predicted) result as it appears in the workbook.
// Raw is the trimmed score text; it is only parsed where it is scored so a
// bad value can be reported with its context.
type Entry struct {
	Match Match
	Raw   string
}

// ResultSet maps matches to their raw scores in insertion order. It is never
// mutated after construction; Merge builds a new set.
type ResultSet struct {
	order  []Match
	scores map[Match]string
}

// NewResultSet builds a set from entries. A later entry for the same match
// overwrites the score but keeps the position of the first one.
func NewResultSet(entries ...Entry) ResultSet {
	rs := ResultSet{
		order:  make([]Match, 0, len(entries)),
		scores: make(map[Match]string, len(entries)),
	}
	for _, e := range entries {
		rs.put(e.Match, e.Raw)
	}
	return rs
}

func (rs *ResultSet) put(m Match, raw string) {
	if _, ok := rs.scores[m]; !ok {
		rs.order = append(rs.order, m)
	}
	rs.scores[m] = raw
}

// Merge returns rs overlaid with other. On conflict other wins.
func (rs ResultSet) Merge(other ResultSet) ResultSet {
	out := ResultSet{
		order:  make([]Match, 0, len(rs.order)+len(other.order)),
		scores: make(map[Match]string, len(rs.order)+len(other.order)),
	}
	for _, m := range rs.order {
		out.put(m, rs.scores[m])
	}
	for _, m := range other.order {
		out.put(m, other.scores[m])
	}
	return out
}

// Get returns the raw score recorded for m.
func (rs ResultSet) Get(m Match) (string, bool) {
	raw, ok := rs.scores[m]
	return raw, ok
}

// Len is the number of distinct matches.
func (rs ResultSet) Len() int {
	return len(rs.order)
}

// Entries returns a copy of the entries in insertion order.
func (rs ResultSet) Entries() []Entry {
	out := make([]Entry, len(rs.order))
	for i, m := range rs.order {
		out[i] = Entry{Match: m, Raw: rs.scores[m]}
	}
	return out
}

// Keys returns the "TeamA-TeamB" keys in insertion order.
func (rs ResultSet) Keys() []string {
	out := make([]string, len(rs.order))
	for i, m := range rs.order {
		out[i] = m.Key()
	}
	return out
}

// Validate parses every score in insertion order and returns the first
// *MalformedScoreError, annotated with its match.
func (rs ResultSet) Validate() error {
	for _, m := range rs.order {
		if _, err := ParseScore(rs.scores[m]); err != nil {
			var malformed *MalformedScoreError
			if errors.As(err, &malformed) {
				return malformed.WithMatch(m)
			}
			return err
		}
	}
	return nil
}
