package leaderboardservice

import (
	"io"
	"log/slog"

	resultstypes "github.com/Black-And-White-Club/wallchart/app/modules/results/domain/types"
	"github.com/Black-And-White-Club/wallchart/app/modules/results/infrastructure/extractor"
	"github.com/Black-And-White-Club/wallchart/config"
	"github.com/Black-And-White-Club/wallchart/internal/observability"
	"go.opentelemetry.io/otel/trace/noop"
)

// ------------------------
// Fake Prediction Reader
// ------------------------

type FakePredictionReader struct {
	trace []string

	AllResultsFunc func(grid extractor.CellReader) (resultstypes.ResultSet, error)
}

func NewFakePredictionReader() *FakePredictionReader {
	return &FakePredictionReader{trace: []string{}}
}

func (f *FakePredictionReader) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakePredictionReader) Trace() []string {
	return f.trace
}

func (f *FakePredictionReader) AllResults(grid extractor.CellReader) (resultstypes.ResultSet, error) {
	f.record("AllResults")
	if f.AllResultsFunc != nil {
		return f.AllResultsFunc(grid)
	}
	return resultstypes.ResultSet{}, nil
}

var _ PredictionReader = (*FakePredictionReader)(nil)

func testTelemetry() observability.Telemetry {
	return observability.Telemetry{
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Metrics: observability.NoOpMetrics{},
		Tracer:  noop.NewTracerProvider().Tracer("test"),
	}
}

func newTestService(reader PredictionReader) *LeaderboardService {
	return NewLeaderboardService(config.DefaultLayout(), reader, testTelemetry())
}

func result(a, b, raw string) resultstypes.Entry {
	return resultstypes.Entry{Match: resultstypes.NewMatch(a, b), Raw: raw}
}
