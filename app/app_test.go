package app

import (
	"bytes"
	"context"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	bracketservice "github.com/Black-And-White-Club/wallchart/app/modules/bracket/application"
	resultstypes "github.com/Black-And-White-Club/wallchart/app/modules/results/domain/types"
	"github.com/Black-And-White-Club/wallchart/config"
	"github.com/Black-And-White-Club/wallchart/internal/observability"
	"github.com/Black-And-White-Club/wallchart/internal/testutils"
	"github.com/Black-And-White-Club/wallchart/internal/workbook"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	if cfg == nil {
		cfg = config.Default()
	}
	a, err := NewApp(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), observability.NewPrometheusMetrics())
	require.NoError(t, err)
	return a
}

// tournament returns a workbook with two group games and one knock-out game
// played, and three players.
func tournament(t *testing.T) string {
	t.Helper()

	matches := testutils.NewMatchesFixture()
	matches.Set(21, 3, "Turkey").Set(21, 4, "Italy").Set(21, 5, "0-3")
	matches.Set(22, 3, "Wales").Set(22, 4, "Switzerland").Set(22, 5, "1-1")
	matches.Set(23, 3, "Denmark").Set(23, 4, "Finland") // not played yet
	matches.Set(43, 3, "Italy").Set(43, 4, "2-1").Set(44, 3, "Austria")

	alice := testutils.NewMemoryGrid("Alice")
	alice.Set(21, 3, "Turkey").Set(21, 4, "Italy").Set(21, 5, "0-3")
	alice.Set(22, 3, "Wales").Set(22, 4, "Switzerland").Set(22, 5, "2-1")
	alice.Set(43, 3, "Italy").Set(43, 4, "1-0").Set(44, 3, "Austria")

	bob := testutils.NewMemoryGrid("Bob")
	bob.Set(21, 3, "Turkey").Set(21, 4, "Italy").Set(21, 5, "1-1")

	carol := testutils.NewMemoryGrid("Carol")

	return testutils.WriteXLSX(t, matches, testutils.NewLeaderboardFixture(), alice, bob, carol)
}

func readCell(t *testing.T, path, sheet string, row, col int) string {
	t.Helper()
	wb, err := workbook.Open(path)
	require.NoError(t, err)
	defer wb.Close()

	g, err := wb.Sheet(sheet)
	require.NoError(t, err)
	v, err := g.Cell(row, col)
	require.NoError(t, err)
	return v
}

func TestApp_ProcessResults(t *testing.T) {
	path := tournament(t)

	report, err := newTestApp(t, nil).ProcessResults(context.Background(), path, ProcessOptions{})
	require.NoError(t, err)

	_, err = uuid.Parse(report.RunID)
	assert.NoError(t, err)
	assert.Equal(t, 2, report.GroupResults)
	assert.Equal(t, 1, report.KnockoutResults)

	assert.Equal(t, []resultstypes.TeamStanding{
		{Team: "Italy", Points: 3},
		{Team: "Wales", Points: 1},
		{Team: "Switzerland", Points: 1},
		{Team: "Turkey", Points: 0},
	}, report.Groups[0].Standings)

	assert.Equal(t, []resultstypes.Standing{
		{Player: "Alice", Points: 3},
		{Player: "Bob", Points: 0},
		{Player: "Carol", Points: 0},
	}, report.Leaderboard)

	// Matches group table, Group A.
	assert.Equal(t, "Italy", readCell(t, path, "Matches", 5, 3))
	assert.Equal(t, "3", readCell(t, path, "Matches", 5, 4))
	assert.Equal(t, "Turkey", readCell(t, path, "Matches", 8, 3))

	// Leaderboard group table, Group A.
	assert.Equal(t, "Italy", readCell(t, path, "Leaderboard", 3, 5))
	assert.Equal(t, "3", readCell(t, path, "Leaderboard", 3, 6))

	// Player rows.
	assert.Equal(t, "Alice", readCell(t, path, "Leaderboard", 3, 2))
	assert.Equal(t, "3", readCell(t, path, "Leaderboard", 3, 3))
	assert.Equal(t, "Bob", readCell(t, path, "Leaderboard", 4, 2))
	assert.Equal(t, "Carol", readCell(t, path, "Leaderboard", 5, 2))
	assert.Empty(t, readCell(t, path, "Leaderboard", 6, 2))
}

func TestApp_ProcessResults_KnockoutDoesNotCountForGroups(t *testing.T) {
	path := tournament(t)

	report, err := newTestApp(t, nil).ProcessResults(context.Background(), path, ProcessOptions{})
	require.NoError(t, err)

	for _, g := range report.Groups {
		for _, s := range g.Standings {
			if s.Team == "Austria" {
				assert.Equal(t, 0, s.Points, "knock-out loss must not reach the group table")
			}
			if s.Team == "Italy" {
				assert.Equal(t, 3, s.Points, "knock-out win must not reach the group table")
			}
		}
	}
}

func TestApp_ProcessResults_DryRun(t *testing.T) {
	path := tournament(t)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	report, err := newTestApp(t, nil).ProcessResults(context.Background(), path, ProcessOptions{DryRun: true})
	require.NoError(t, err)
	assert.Len(t, report.Leaderboard, 3)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestApp_ProcessResults_NoResults(t *testing.T) {
	path := testutils.WriteXLSX(t, testutils.NewMatchesFixture(), testutils.NewLeaderboardFixture(), testutils.NewMemoryGrid("Alice"))
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = newTestApp(t, nil).ProcessResults(context.Background(), path, ProcessOptions{})
	assert.ErrorIs(t, err, resultstypes.ErrNoResultsRecorded)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after, "nothing is written when no results are recorded")
}

func TestApp_ProcessResults_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.xlsx")

	_, err := newTestApp(t, nil).ProcessResults(context.Background(), path, ProcessOptions{})

	var notFound *workbook.DocumentNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "No such file or directory: '"+path+"'", err.Error())
}

func TestApp_ProcessResults_MalformedPrediction(t *testing.T) {
	matches := testutils.NewMatchesFixture()
	matches.Set(21, 3, "Turkey").Set(21, 4, "Italy").Set(21, 5, "0-3")
	dave := testutils.NewMemoryGrid("Dave")
	dave.Set(21, 3, "Turkey").Set(21, 4, "Italy").Set(21, 5, "0 3")
	path := testutils.WriteXLSX(t, matches, testutils.NewLeaderboardFixture(), dave)

	_, err := newTestApp(t, nil).ProcessResults(context.Background(), path, ProcessOptions{})

	var malformed *resultstypes.MalformedScoreError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "Dave", malformed.Player)
	assert.Equal(t, "Turkey-Italy", malformed.Match)
	assert.Equal(t, "0 3", malformed.Raw)

	// Group tables were already saved before players were scored.
	assert.Equal(t, "Italy", readCell(t, path, "Matches", 5, 3))
	assert.Empty(t, readCell(t, path, "Leaderboard", 3, 2))
}

func TestApp_ProcessResults_MalformedKnockoutResult(t *testing.T) {
	matches := testutils.NewMatchesFixture()
	matches.Set(21, 3, "Turkey").Set(21, 4, "Italy").Set(21, 5, "0-3")
	matches.Set(43, 3, "Italy").Set(43, 4, "2:1").Set(44, 3, "Austria")
	// Nobody predicted the knock-out game.
	alice := testutils.NewMemoryGrid("Alice")
	alice.Set(21, 3, "Turkey").Set(21, 4, "Italy").Set(21, 5, "0-3")
	path := testutils.WriteXLSX(t, matches, testutils.NewLeaderboardFixture(), alice)

	_, err := newTestApp(t, nil).ProcessResults(context.Background(), path, ProcessOptions{})

	var malformed *resultstypes.MalformedScoreError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "Italy-Austria", malformed.Match)
	assert.Equal(t, "2:1", malformed.Raw)
	assert.Empty(t, malformed.Player)
	assert.Empty(t, readCell(t, path, "Leaderboard", 3, 2), "leaderboard is not written")
}

func TestApp_ProcessResults_FailureStillWritesMetrics(t *testing.T) {
	matches := testutils.NewMatchesFixture()
	matches.Set(21, 3, "Turkey").Set(21, 4, "Italy").Set(21, 5, "0-3")
	dave := testutils.NewMemoryGrid("Dave")
	dave.Set(21, 3, "Turkey").Set(21, 4, "Italy").Set(21, 5, "0 3")
	path := testutils.WriteXLSX(t, matches, testutils.NewLeaderboardFixture(), dave)

	cfg := config.Default()
	cfg.Observability.MetricsTextfile = filepath.Join(t.TempDir(), "wallchart.prom")

	report, err := newTestApp(t, cfg).ProcessResults(context.Background(), path, ProcessOptions{})
	require.Error(t, err)
	assert.Nil(t, report)

	prom, err := os.ReadFile(cfg.Observability.MetricsTextfile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `wallchart_operation_failures_total{operation="UpdateLeaderboard"} 1`)
	assert.Contains(t, string(prom), `wallchart_operation_failures_total{operation="ProcessResults"} 1`)
	assert.Contains(t, string(prom), `wallchart_operation_successes_total{operation="UpdateGroupStandings"} 1`)
}

func TestApp_ProcessResults_Outputs(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Observability.MetricsTextfile = filepath.Join(dir, "wallchart.prom")
	chartPath := filepath.Join(dir, "leaderboard.png")

	_, err := newTestApp(t, cfg).ProcessResults(context.Background(), tournament(t), ProcessOptions{ChartPath: chartPath})
	require.NoError(t, err)

	data, err := os.ReadFile(chartPath)
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(data))
	assert.NoError(t, err)

	prom, err := os.ReadFile(cfg.Observability.MetricsTextfile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `wallchart_player_points{player="Alice"} 3`)
	assert.Contains(t, string(prom), `wallchart_results_extracted{stage="knockout"} 1`)
}

func TestApp_UpdateBracket(t *testing.T) {
	matches := testutils.NewMemoryGrid("Matches").Set(43, 3, "1A").Set(46, 3, "2B")
	leaderboard := testutils.NewMemoryGrid("Leaderboard").Set(43, 3, "1A")
	alice := testutils.NewMemoryGrid("Alice").Set(43, 3, "1A")
	path := testutils.WriteXLSX(t, matches, leaderboard, alice)

	counts, err := newTestApp(t, nil).UpdateBracket(context.Background(), path, map[string]string{"1A": "Italy"})
	require.NoError(t, err)

	assert.Equal(t, []bracketservice.SheetReplacements{
		{Sheet: "Matches", Count: 1},
		{Sheet: "Alice", Count: 1},
	}, counts)
	assert.Equal(t, "Italy", readCell(t, path, "Matches", 43, 3))
	assert.Equal(t, "2B", readCell(t, path, "Matches", 46, 3))
	assert.Equal(t, "Italy", readCell(t, path, "Alice", 43, 3))
	assert.Equal(t, "1A", readCell(t, path, "Leaderboard", 43, 3))
}

func TestApp_UpdateBracket_MissingFile(t *testing.T) {
	_, err := newTestApp(t, nil).UpdateBracket(context.Background(), filepath.Join(t.TempDir(), "nope.xlsx"), map[string]string{"1A": "Italy"})

	var notFound *workbook.DocumentNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestApp_UpdateBracket_MissingFileStillWritesMetrics(t *testing.T) {
	cfg := config.Default()
	cfg.Observability.MetricsTextfile = filepath.Join(t.TempDir(), "wallchart.prom")

	_, err := newTestApp(t, cfg).UpdateBracket(context.Background(), filepath.Join(t.TempDir(), "nope.xlsx"), map[string]string{"1A": "Italy"})
	require.Error(t, err)

	_, err = os.Stat(cfg.Observability.MetricsTextfile)
	assert.NoError(t, err)
}

func TestNewApp_InvalidLayout(t *testing.T) {
	cfg := config.Default()
	cfg.Layout.MatchesSheet = ""

	_, err := NewApp(cfg, nil, nil)
	assert.ErrorIs(t, err, config.ErrInvalidLayout)
}
