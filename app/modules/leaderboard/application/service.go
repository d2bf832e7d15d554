package leaderboardservice

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	resultstypes "github.com/Black-And-White-Club/wallchart/app/modules/results/domain/types"
	"github.com/Black-And-White-Club/wallchart/app/modules/results/infrastructure/extractor"
	"github.com/Black-And-White-Club/wallchart/config"
	"github.com/Black-And-White-Club/wallchart/internal/observability"
	"github.com/Black-And-White-Club/wallchart/internal/workbook"
	"go.opentelemetry.io/otel/attribute"
)

// PredictionReader reads every prediction a player sheet holds.
type PredictionReader interface {
	AllResults(grid extractor.CellReader) (resultstypes.ResultSet, error)
}

// LeaderboardService scores player sheets and writes the leaderboard.
type LeaderboardService struct {
	layout config.Layout
	reader PredictionReader
	tel    observability.Telemetry
}

// NewLeaderboardService creates a new LeaderboardService.
func NewLeaderboardService(layout config.Layout, reader PredictionReader, tel observability.Telemetry) *LeaderboardService {
	return &LeaderboardService{layout: layout, reader: reader, tel: tel.Normalize()}
}

// ReadPredictions reads one PlayerPrediction per player sheet, in workbook
// order. The sheet name is the player name.
func (s *LeaderboardService) ReadPredictions(doc workbook.Document) ([]resultstypes.PlayerPrediction, error) {
	var players []resultstypes.PlayerPrediction

	for _, name := range doc.SheetNames() {
		if !s.layout.IsPlayerSheet(name) {
			continue
		}
		grid, err := doc.Sheet(name)
		if err != nil {
			return nil, err
		}
		predictions, err := s.reader.AllResults(grid)
		if err != nil {
			return nil, fmt.Errorf("failed to read predictions of %s: %w", name, err)
		}
		players = append(players, resultstypes.PlayerPrediction{Player: name, Predictions: predictions})
	}

	return players, nil
}

// UpdateLeaderboard scores every player sheet against the actual results and
// writes the ranked players to the Leaderboard sheet, then saves.
func (s *LeaderboardService) UpdateLeaderboard(
	ctx context.Context,
	doc workbook.Document,
	actual resultstypes.ResultSet,
) ([]resultstypes.Standing, error) {
	attrs := []attribute.KeyValue{attribute.Int("results", actual.Len())}

	return observability.WithTelemetry(ctx, s.tel, "UpdateLeaderboard", attrs,
		func(ctx context.Context) ([]resultstypes.Standing, error) {
			players, err := s.ReadPredictions(doc)
			if err != nil {
				return nil, err
			}
			s.tel.Logger.InfoContext(ctx, "Scoring player predictions", slog.Int("players", len(players)))

			standings, err := AggregateLeaderboard(ctx, actual, players, WithBreakdown(func(ps PlayerScore) {
				for _, mp := range ps.Breakdown {
					s.tel.Logger.DebugContext(ctx, "Prediction scored",
						slog.String("player", ps.Player),
						slog.String("match", mp.Match.Key()),
						slog.String("predicted", mp.Predicted),
						slog.String("actual", mp.Actual),
						slog.Int("points", mp.Points),
					)
				}
			}))
			if err != nil {
				return nil, err
			}

			leaderboard, err := doc.Sheet(s.layout.LeaderboardSheet)
			if err != nil {
				return nil, err
			}
			s.tel.Logger.InfoContext(ctx, "Updating Leaderboard with player standings")
			if err := s.writeStandings(leaderboard, standings); err != nil {
				return nil, err
			}
			if err := doc.Save(); err != nil {
				return nil, err
			}

			for _, st := range standings {
				s.tel.Metrics.RecordPlayerPoints(ctx, st.Player, st.Points)
			}
			return standings, nil
		})
}

// writeStandings writes one (player, points) row per standing and clears
// leftover rows from an earlier, longer leaderboard.
func (s *LeaderboardService) writeStandings(grid workbook.Grid, standings []resultstypes.Standing) error {
	rows := s.layout.Players

	for i, st := range standings {
		row := rows.FirstRow + i
		if err := grid.SetCell(row, rows.NameCol, st.Player); err != nil {
			return err
		}
		if err := grid.SetCell(row, rows.PointsCol, st.Points); err != nil {
			return err
		}
	}

	for row := rows.FirstRow + len(standings); ; row++ {
		name, err := grid.Cell(row, rows.NameCol)
		if err != nil {
			return err
		}
		points, err := grid.Cell(row, rows.PointsCol)
		if err != nil {
			return err
		}
		if strings.TrimSpace(name) == "" && strings.TrimSpace(points) == "" {
			return nil
		}
		if err := grid.ClearCell(row, rows.NameCol); err != nil {
			return err
		}
		if err := grid.ClearCell(row, rows.PointsCol); err != nil {
			return err
		}
	}
}
