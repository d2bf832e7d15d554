package extractor

import (
	"fmt"
	"log/slog"
	"strings"

	resultstypes "github.com/Black-And-White-Club/wallchart/app/modules/results/domain/types"
	"github.com/Black-And-White-Club/wallchart/config"
)

// CellReader is the read side of a sheet.
type CellReader interface {
	Cell(row, col int) (string, error)
}

// Extractor reads recorded (or predicted) scores out of a sheet laid out
// like the Matches template.
type Extractor struct {
	layout config.Layout
	logger *slog.Logger
}

// New creates an Extractor for the given layout.
func New(layout config.Layout, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{layout: layout, logger: logger}
}

func readTrimmed(grid CellReader, row, col int) (string, error) {
	v, err := grid.Cell(row, col)
	if err != nil {
		return "", fmt.Errorf("failed to read row %d column %d: %w", row, col, err)
	}
	return strings.TrimSpace(v), nil
}

// GroupResults returns every group fixture that has both teams and a score.
// Incomplete fixtures are skipped: they have not been played (or predicted)
// yet.
func (e *Extractor) GroupResults(grid CellReader) (resultstypes.ResultSet, error) {
	gs := e.layout.GroupStage
	var entries []resultstypes.Entry

	for row := gs.FirstRow; row <= gs.LastRow; row++ {
		for _, cols := range gs.Columns {
			teamA, err := readTrimmed(grid, row, cols.TeamA())
			if err != nil {
				return resultstypes.ResultSet{}, err
			}
			teamB, err := readTrimmed(grid, row, cols.TeamB())
			if err != nil {
				return resultstypes.ResultSet{}, err
			}
			score, err := readTrimmed(grid, row, cols.Score())
			if err != nil {
				return resultstypes.ResultSet{}, err
			}

			if teamA == "" || teamB == "" || score == "" {
				continue
			}
			entries = append(entries, resultstypes.Entry{
				Match: resultstypes.NewMatch(teamA, teamB),
				Raw:   score,
			})
		}
	}

	return resultstypes.NewResultSet(entries...), nil
}

// KnockoutRoundResults reads one bracket round. Only the score cell on the
// first row of a fixture is checked; the template records the score next to
// team A.
func (e *Extractor) KnockoutRoundResults(grid CellReader, round config.KnockoutRound) (resultstypes.ResultSet, error) {
	var entries []resultstypes.Entry

	for i := 0; i < round.Count; i++ {
		row := round.FixtureRow(i)

		score, err := readTrimmed(grid, row, round.ScoreCol)
		if err != nil {
			return resultstypes.ResultSet{}, err
		}
		if score == "" {
			continue
		}

		teamA, err := readTrimmed(grid, row, round.TeamCol)
		if err != nil {
			return resultstypes.ResultSet{}, err
		}
		teamB, err := readTrimmed(grid, row+1, round.TeamCol)
		if err != nil {
			return resultstypes.ResultSet{}, err
		}

		m := resultstypes.NewMatch(teamA, teamB)
		if !m.Valid() {
			e.logger.Debug("Skipping knock-out score without both teams",
				slog.String("round", round.Name),
				slog.Int("row", row),
				slog.String("score", score),
			)
			continue
		}
		entries = append(entries, resultstypes.Entry{Match: m, Raw: score})
	}

	return resultstypes.NewResultSet(entries...), nil
}

// KnockoutResults merges every configured round in order. Later rounds win
// on a key clash, though the bracket never produces one.
func (e *Extractor) KnockoutResults(grid CellReader) (resultstypes.ResultSet, error) {
	var all resultstypes.ResultSet
	for _, round := range e.layout.Knockout {
		rs, err := e.KnockoutRoundResults(grid, round)
		if err != nil {
			return resultstypes.ResultSet{}, fmt.Errorf("round %s: %w", round.Name, err)
		}
		all = all.Merge(rs)
	}
	return all, nil
}

// AllResults is group results overlaid with knock-out results, which is what
// a player sheet contributes as predictions.
func (e *Extractor) AllResults(grid CellReader) (resultstypes.ResultSet, error) {
	group, err := e.GroupResults(grid)
	if err != nil {
		return resultstypes.ResultSet{}, err
	}
	knockout, err := e.KnockoutResults(grid)
	if err != nil {
		return resultstypes.ResultSet{}, err
	}
	return group.Merge(knockout), nil
}
