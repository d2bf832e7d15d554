package workbook

// Grid is a single cell-addressable sheet. Rows and columns are 1-based.
type Grid interface {
	Name() string
	Cell(row, col int) (string, error)
	SetCell(row, col int, value any) error
	ClearCell(row, col int) error
}

// Document is a set of named sheets that can be saved as one unit.
type Document interface {
	SheetNames() []string
	Sheet(name string) (Grid, error)
	Save() error
}

var _ Grid = (*Sheet)(nil)
