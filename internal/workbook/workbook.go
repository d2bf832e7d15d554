package workbook

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/xuri/excelize/v2"
)

// DocumentNotFoundError is returned when the workbook path does not exist.
type DocumentNotFoundError struct {
	Path string
}

func (e *DocumentNotFoundError) Error() string {
	return fmt.Sprintf("No such file or directory: '%s'", e.Path)
}

// ErrSheetNotFound is returned when a named sheet is missing.
var ErrSheetNotFound = errors.New("sheet not found")

// Workbook is an open spreadsheet document addressed by sheet name and
// 1-based row/column coordinates.
type Workbook struct {
	mu   sync.Mutex
	file *excelize.File
	path string
}

// Open loads the workbook at path.
func Open(path string) (*Workbook, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &DocumentNotFoundError{Path: path}
		}
		return nil, fmt.Errorf("failed to stat workbook: %w", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}

	return &Workbook{file: f, path: path}, nil
}

// New wraps an already-open excelize file. Save writes to path.
func New(f *excelize.File, path string) *Workbook {
	return &Workbook{file: f, path: path}
}

// Path is where Save writes.
func (w *Workbook) Path() string {
	return w.path
}

// SheetNames lists the sheets in workbook order.
func (w *Workbook) SheetNames() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.GetSheetList()
}

// Sheet returns a cell view over the named sheet.
func (w *Workbook) Sheet(name string) (Grid, error) {
	w.mu.Lock()
	idx, err := w.file.GetSheetIndex(name)
	w.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("invalid sheet name %q: %w", name, err)
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, name)
	}
	return &Sheet{wb: w, name: name}, nil
}

var _ Document = (*Workbook)(nil)

// Save writes the workbook back to its path.
func (w *Workbook) Save() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.file.SaveAs(w.path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", w.path, err)
	}
	return nil
}

// Close releases the underlying file. It does not save.
func (w *Workbook) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}

// Sheet is a single worksheet of a Workbook.
type Sheet struct {
	wb   *Workbook
	name string
}

// Name is the sheet name.
func (s *Sheet) Name() string {
	return s.name
}

// Cell returns the formatted value at (row, col). Empty cells return "".
func (s *Sheet) Cell(row, col int) (string, error) {
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", err
	}
	s.wb.mu.Lock()
	defer s.wb.mu.Unlock()
	v, err := s.wb.file.GetCellValue(s.name, axis)
	if err != nil {
		return "", fmt.Errorf("failed to read %s!%s: %w", s.name, axis, err)
	}
	return v, nil
}

// SetCell writes value at (row, col). Ints are stored as numbers.
func (s *Sheet) SetCell(row, col int, value any) error {
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	s.wb.mu.Lock()
	defer s.wb.mu.Unlock()
	if err := s.wb.file.SetCellValue(s.name, axis, value); err != nil {
		return fmt.Errorf("failed to write %s!%s: %w", s.name, axis, err)
	}
	return nil
}

// ClearCell empties the cell at (row, col).
func (s *Sheet) ClearCell(row, col int) error {
	return s.SetCell(row, col, nil)
}
