package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	bracketservice "github.com/Black-And-White-Club/wallchart/app/modules/bracket/application"
	leaderboardservice "github.com/Black-And-White-Club/wallchart/app/modules/leaderboard/application"
	resultstypes "github.com/Black-And-White-Club/wallchart/app/modules/results/domain/types"
	"github.com/Black-And-White-Club/wallchart/app/modules/results/infrastructure/extractor"
	standingsservice "github.com/Black-And-White-Club/wallchart/app/modules/standings/application"
	"github.com/Black-And-White-Club/wallchart/config"
	"github.com/Black-And-White-Club/wallchart/internal/observability"
	"github.com/Black-And-White-Club/wallchart/internal/workbook"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// App runs the workbook jobs with a shared configuration and telemetry.
type App struct {
	Cfg     *config.Config
	Logger  *slog.Logger
	Metrics observability.Metrics
	Tracer  trace.Tracer
}

// NewApp creates an App. A nil logger or metrics falls back to the defaults.
func NewApp(cfg *config.Config, logger *slog.Logger, metrics observability.Metrics) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := cfg.Layout.Validate(); err != nil {
		return nil, err
	}

	tel := observability.Telemetry{Logger: logger, Metrics: metrics}.Normalize()
	return &App{
		Cfg:     cfg,
		Logger:  tel.Logger,
		Metrics: tel.Metrics,
		Tracer:  tel.Tracer,
	}, nil
}

// ProcessOptions tunes a ProcessResults run.
type ProcessOptions struct {
	// DryRun computes and logs everything but never saves the workbook.
	DryRun bool
	// ChartPath overrides the configured leaderboard chart output.
	ChartPath string
}

// ProcessReport is what a ProcessResults run computed.
type ProcessReport struct {
	RunID           string
	GroupResults    int
	KnockoutResults int
	Groups          []resultstypes.GroupStanding
	Leaderboard     []resultstypes.Standing
}

// telemetry returns the run-scoped telemetry, tagged with a fresh run id.
func (app *App) telemetry() (observability.Telemetry, string) {
	runID := uuid.NewString()
	return observability.Telemetry{
		Logger:  app.Logger.With(slog.String("run_id", runID)),
		Metrics: app.Metrics,
		Tracer:  app.Tracer,
	}, runID
}

// ProcessResults recomputes the group tables and the player leaderboard of
// the workbook at path.
//
// Group tables are written and saved before knock-out results are read, so
// they only ever reflect group-stage games. The workbook is saved three
// times: after the Matches tables, after the Leaderboard tables and after
// the player rows.
//
// The metrics textfile, when configured, is written whether or not the run
// succeeds.
func (app *App) ProcessResults(ctx context.Context, path string, opts ProcessOptions) (report *ProcessReport, err error) {
	tel, runID := app.telemetry()
	defer func() {
		if ferr := app.flushMetrics(); ferr != nil {
			report, err = nil, errors.Join(err, ferr)
		}
	}()

	attrs := []attribute.KeyValue{attribute.String("file", path), attribute.Bool("dry_run", opts.DryRun)}
	return observability.WithTelemetry(ctx, tel, "ProcessResults", attrs,
		func(ctx context.Context) (*ProcessReport, error) {
			return app.processResults(ctx, tel, runID, path, opts)
		})
}

func (app *App) processResults(ctx context.Context, tel observability.Telemetry, runID, path string, opts ProcessOptions) (*ProcessReport, error) {
	logger := tel.Logger
	layout := app.Cfg.Layout

	logger.InfoContext(ctx, "Starting the processing", slog.String("file", path), slog.Bool("dry_run", opts.DryRun))

	wb, err := workbook.Open(path)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	var doc workbook.Document = wb
	if opts.DryRun {
		doc = dryRunDocument{Document: wb, logger: logger}
	}

	matches, err := doc.Sheet(layout.MatchesSheet)
	if err != nil {
		return nil, err
	}

	ext := extractor.New(layout, logger)
	groupResults, err := ext.GroupResults(matches)
	if err != nil {
		return nil, fmt.Errorf("failed to extract group results: %w", err)
	}
	tel.Metrics.RecordResultsExtracted(ctx, "group", groupResults.Len())
	if groupResults.Len() == 0 {
		return nil, resultstypes.ErrNoResultsRecorded
	}
	logger.InfoContext(ctx, "Group results extracted", slog.Int("count", groupResults.Len()))

	standings := standingsservice.NewStandingsService(layout, tel)
	groups, err := standings.UpdateGroupStandings(ctx, doc, groupResults)
	if err != nil {
		return nil, err
	}

	knockout, err := ext.KnockoutResults(matches)
	if err != nil {
		return nil, fmt.Errorf("failed to extract knock-out results: %w", err)
	}
	tel.Metrics.RecordResultsExtracted(ctx, "knockout", knockout.Len())
	if err := knockout.Validate(); err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "Knock-out results extracted", slog.Int("count", knockout.Len()))
	actual := groupResults.Merge(knockout)

	leaderboard := leaderboardservice.NewLeaderboardService(layout, ext, tel)
	players, err := leaderboard.UpdateLeaderboard(ctx, doc, actual)
	if err != nil {
		return nil, err
	}
	for i, p := range players {
		logger.InfoContext(ctx, "Leaderboard", slog.Int("position", i+1), slog.String("player", p.Player), slog.Int("points", p.Points))
	}

	chartPath := opts.ChartPath
	if chartPath == "" {
		chartPath = app.Cfg.Observability.ChartPath
	}
	if chartPath != "" {
		if err := writeChart(chartPath, players); err != nil {
			return nil, err
		}
		logger.InfoContext(ctx, "Leaderboard chart written", slog.String("path", chartPath))
	}

	logger.InfoContext(ctx, "Processing completed")
	return &ProcessReport{
		RunID:           runID,
		GroupResults:    groupResults.Len(),
		KnockoutResults: knockout.Len(),
		Groups:          groups,
		Leaderboard:     players,
	}, nil
}

// UpdateBracket replaces placeholder names in the knock-out bracket of every
// sheet outside the configured skip list and saves once.
func (app *App) UpdateBracket(ctx context.Context, path string, replacements map[string]string) (counts []bracketservice.SheetReplacements, err error) {
	tel, _ := app.telemetry()
	defer func() {
		if ferr := app.flushMetrics(); ferr != nil {
			counts, err = nil, errors.Join(err, ferr)
		}
	}()

	tel.Logger.InfoContext(ctx, "Starting the update", slog.String("file", path))

	wb, err := workbook.Open(path)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	return bracketservice.NewBracketService(app.Cfg.Layout, tel).ApplyReplacements(ctx, wb, replacements)
}

func writeChart(path string, players []resultstypes.Standing) error {
	png, err := leaderboardservice.RenderLeaderboardChart(players, leaderboardservice.DefaultPalette)
	if err != nil {
		return fmt.Errorf("failed to render leaderboard chart: %w", err)
	}
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return fmt.Errorf("failed to write leaderboard chart: %w", err)
	}
	return nil
}

type textfileWriter interface {
	WriteTextfile(path string) error
}

// flushMetrics writes the run metrics to the configured node-exporter
// textfile, if any.
func (app *App) flushMetrics() error {
	path := app.Cfg.Observability.MetricsTextfile
	if path == "" {
		return nil
	}
	w, ok := app.Metrics.(textfileWriter)
	if !ok {
		app.Logger.Warn("Metrics textfile configured but metrics are not exportable", slog.String("path", path))
		return nil
	}
	return w.WriteTextfile(path)
}

// dryRunDocument drops saves.
type dryRunDocument struct {
	workbook.Document
	logger *slog.Logger
}

func (d dryRunDocument) Save() error {
	d.logger.Info("Dry run, not saving")
	return nil
}
