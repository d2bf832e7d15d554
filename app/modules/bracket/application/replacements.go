package bracketservice

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidReplacements is returned for a replacement list that does not
// pair every placeholder with a non-empty replacement.
var ErrInvalidReplacements = errors.New("invalid replacement list")

// ParseReplacements parses "placeholder, replacement, placeholder, ..." into
// a lookup. A placeholder listed twice keeps its last replacement.
func ParseReplacements(list string) (map[string]string, error) {
	parts := strings.Split(list, ",")
	if len(parts)%2 != 0 {
		return nil, fmt.Errorf("%w: %d names is not a list of pairs", ErrInvalidReplacements, len(parts))
	}

	out := make(map[string]string, len(parts)/2)
	for i := 0; i < len(parts); i += 2 {
		from := strings.TrimSpace(parts[i])
		to := strings.TrimSpace(parts[i+1])
		if from == "" || to == "" {
			return nil, fmt.Errorf("%w: empty name in pair %d", ErrInvalidReplacements, i/2+1)
		}
		out[from] = to
	}
	return out, nil
}

// SingleReplacement builds the lookup for one placeholder.
func SingleReplacement(from, to string) (map[string]string, error) {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from == "" || to == "" {
		return nil, fmt.Errorf("%w: both a placeholder and a replacement are required", ErrInvalidReplacements)
	}
	return map[string]string{from: to}, nil
}
