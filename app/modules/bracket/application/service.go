package bracketservice

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/Black-And-White-Club/wallchart/config"
	"github.com/Black-And-White-Club/wallchart/internal/observability"
	"github.com/Black-And-White-Club/wallchart/internal/workbook"
	"go.opentelemetry.io/otel/attribute"
)

// SheetReplacements is how many bracket cells were renamed on one sheet.
type SheetReplacements struct {
	Sheet string
	Count int
}

// BracketService writes qualified team names into the knock-out bracket of
// every sheet.
type BracketService struct {
	window config.BracketWindow
	tel    observability.Telemetry
}

// NewBracketService creates a new BracketService.
func NewBracketService(layout config.Layout, tel observability.Telemetry) *BracketService {
	return &BracketService{window: layout.Bracket, tel: tel.Normalize()}
}

// ApplyReplacements renames every placeholder found inside the bracket window
// of each sheet outside the skip list, then saves once. Counts come back in
// sheet order, including sheets where nothing matched.
func (s *BracketService) ApplyReplacements(
	ctx context.Context,
	doc workbook.Document,
	replacements map[string]string,
) ([]SheetReplacements, error) {
	attrs := []attribute.KeyValue{attribute.Int("replacements", len(replacements))}

	return observability.WithTelemetry(ctx, s.tel, "ApplyReplacements", attrs,
		func(ctx context.Context) ([]SheetReplacements, error) {
			var counts []SheetReplacements

			for _, name := range doc.SheetNames() {
				if slices.Contains(s.window.SkipSheets, name) {
					s.tel.Logger.DebugContext(ctx, "Not a knock-out stage sheet, skipping", slog.String("sheet", name))
					continue
				}

				grid, err := doc.Sheet(name)
				if err != nil {
					return nil, err
				}
				s.tel.Logger.InfoContext(ctx, "Updating bracket", slog.String("sheet", name))

				n, err := s.replaceInSheet(ctx, grid, replacements)
				if err != nil {
					return nil, err
				}
				counts = append(counts, SheetReplacements{Sheet: name, Count: n})
				s.tel.Metrics.RecordBracketReplacements(ctx, name, n)
			}

			if err := doc.Save(); err != nil {
				return nil, err
			}
			return counts, nil
		})
}

func (s *BracketService) replaceInSheet(ctx context.Context, grid workbook.Grid, replacements map[string]string) (int, error) {
	w := s.window
	n := 0

	for col := w.FirstCol; col <= w.LastCol; col++ {
		for row := w.FirstRow; row <= w.LastRow; row++ {
			v, err := grid.Cell(row, col)
			if err != nil {
				return n, err
			}
			to, ok := replacements[strings.TrimSpace(v)]
			if !ok {
				continue
			}
			if err := grid.SetCell(row, col, to); err != nil {
				return n, err
			}
			n++
			s.tel.Logger.InfoContext(ctx, "Replacing placeholder",
				slog.String("sheet", grid.Name()),
				slog.String("from", strings.TrimSpace(v)),
				slog.String("to", to),
			)
		}
	}
	return n, nil
}
