package standingsservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	resultstypes "github.com/Black-And-White-Club/wallchart/app/modules/results/domain/types"
	"github.com/Black-And-White-Club/wallchart/config"
	"github.com/Black-And-White-Club/wallchart/internal/observability"
	"github.com/Black-And-White-Club/wallchart/internal/workbook"
	"go.opentelemetry.io/otel/attribute"
)

var (
	// ErrUnknownGroup is returned when a group table header names a group
	// that is not declared on the Matches sheet.
	ErrUnknownGroup = errors.New("unknown group")
	// ErrInvalidGroup is returned for a group without a name or declared twice.
	ErrInvalidGroup = errors.New("invalid group declaration")
)

// StandingsService computes group tables and writes them to the workbook.
type StandingsService struct {
	layout config.Layout
	tel    observability.Telemetry
}

// NewStandingsService creates a new StandingsService.
func NewStandingsService(layout config.Layout, tel observability.Telemetry) *StandingsService {
	return &StandingsService{layout: layout, tel: tel.Normalize()}
}

// ReadGroups reads group names and members from the group tables of the
// Matches sheet, in column-then-block order. Empty team cells are skipped.
func (s *StandingsService) ReadGroups(grid workbook.Grid) ([]resultstypes.Group, error) {
	table := s.layout.Groups.Matches
	seen := make(map[string]bool)
	var groups []resultstypes.Group

	for _, col := range table.Columns {
		for _, block := range table.Blocks {
			name, err := grid.Cell(block[0]-1, col)
			if err != nil {
				return nil, fmt.Errorf("failed to read group name: %w", err)
			}
			name = strings.TrimSpace(name)
			if name == "" {
				return nil, fmt.Errorf("%w: no name above row %d column %d", ErrInvalidGroup, block[0], col)
			}
			if seen[name] {
				return nil, fmt.Errorf("%w: %q declared twice", ErrInvalidGroup, name)
			}
			seen[name] = true

			g := resultstypes.Group{Name: name}
			for _, row := range block {
				team, err := grid.Cell(row, col)
				if err != nil {
					return nil, fmt.Errorf("failed to read team in group %s: %w", name, err)
				}
				if team = strings.TrimSpace(team); team != "" {
					g.Teams = append(g.Teams, team)
				}
			}
			groups = append(groups, g)
		}
	}

	return groups, nil
}

// UpdateGroupStandings ranks the groups from the group-stage results and
// writes the tables to the Matches sheet and then the Leaderboard sheet,
// saving after each. Knock-out results must not be passed in.
func (s *StandingsService) UpdateGroupStandings(
	ctx context.Context,
	doc workbook.Document,
	groupResults resultstypes.ResultSet,
) ([]resultstypes.GroupStanding, error) {
	attrs := []attribute.KeyValue{attribute.Int("group_results", groupResults.Len())}

	return observability.WithTelemetry(ctx, s.tel, "UpdateGroupStandings", attrs,
		func(ctx context.Context) ([]resultstypes.GroupStanding, error) {
			points, err := CalculatePoints(groupResults)
			if err != nil {
				return nil, err
			}
			for _, e := range groupResults.Entries() {
				s.tel.Logger.DebugContext(ctx, "Group result counted",
					slog.String("match", e.Match.Key()),
					slog.String("score", e.Raw),
				)
			}

			matches, err := doc.Sheet(s.layout.MatchesSheet)
			if err != nil {
				return nil, err
			}
			groups, err := s.ReadGroups(matches)
			if err != nil {
				return nil, err
			}

			ranked := RankGroups(groups, points)
			for _, g := range ranked {
				s.tel.Logger.DebugContext(ctx, "Group ranked",
					slog.String("group", g.Group),
					slog.Any("standings", g.Standings),
				)
			}

			s.tel.Logger.InfoContext(ctx, "Updating Matches with team standings")
			if err := s.writeTables(matches, s.layout.Groups.Matches, ranked); err != nil {
				return nil, err
			}
			if err := doc.Save(); err != nil {
				return nil, err
			}

			leaderboard, err := doc.Sheet(s.layout.LeaderboardSheet)
			if err != nil {
				return nil, err
			}
			s.tel.Logger.InfoContext(ctx, "Updating Leaderboard with team standings")
			if err := s.writeTables(leaderboard, s.layout.Groups.Leaderboard, ranked); err != nil {
				return nil, err
			}
			if err := doc.Save(); err != nil {
				return nil, err
			}

			return ranked, nil
		})
}

// writeTables fills every group table of a sheet. The group shown in a table
// is whichever group name its header cell holds.
func (s *StandingsService) writeTables(grid workbook.Grid, table config.GroupTable, ranked []resultstypes.GroupStanding) error {
	byName := make(map[string]resultstypes.GroupStanding, len(ranked))
	for _, g := range ranked {
		byName[g.Group] = g
	}

	for _, col := range table.Columns {
		for _, block := range table.Blocks {
			name, err := grid.Cell(block[0]-1, col)
			if err != nil {
				return fmt.Errorf("failed to read group header on %s: %w", grid.Name(), err)
			}
			name = strings.TrimSpace(name)
			g, ok := byName[name]
			if !ok {
				return fmt.Errorf("%w %q in %s row %d column %d", ErrUnknownGroup, name, grid.Name(), block[0]-1, col)
			}

			for i, row := range block {
				if i >= len(g.Standings) {
					if err := grid.ClearCell(row, col); err != nil {
						return err
					}
					if err := grid.ClearCell(row, col+1); err != nil {
						return err
					}
					continue
				}
				if err := grid.SetCell(row, col, g.Standings[i].Team); err != nil {
					return err
				}
				if err := grid.SetCell(row, col+1, g.Standings[i].Points); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
