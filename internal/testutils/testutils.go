package testutils

import (
	"fmt"
	"path/filepath"
	"sort"
	"testing"

	"github.com/Black-And-White-Club/wallchart/internal/workbook"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// Cell addresses a value in a MemoryGrid.
type Cell struct {
	Row int
	Col int
}

// MemoryGrid is an in-memory workbook.Grid. Values are stored as strings the
// way excelize formats them when read back.
type MemoryGrid struct {
	SheetName string
	Cells     map[Cell]string

	// ReadErr, when set, is returned by every Cell call.
	ReadErr error
	// WriteErr, when set, is returned by every SetCell call.
	WriteErr error

	writes []Cell
}

// NewMemoryGrid creates an empty sheet.
func NewMemoryGrid(name string) *MemoryGrid {
	return &MemoryGrid{SheetName: name, Cells: map[Cell]string{}}
}

func (g *MemoryGrid) Name() string { return g.SheetName }

func (g *MemoryGrid) Cell(row, col int) (string, error) {
	if g.ReadErr != nil {
		return "", g.ReadErr
	}
	return g.Cells[Cell{Row: row, Col: col}], nil
}

func (g *MemoryGrid) SetCell(row, col int, value any) error {
	if g.WriteErr != nil {
		return g.WriteErr
	}
	g.writes = append(g.writes, Cell{Row: row, Col: col})
	if value == nil {
		delete(g.Cells, Cell{Row: row, Col: col})
		return nil
	}
	g.Cells[Cell{Row: row, Col: col}] = fmt.Sprint(value)
	return nil
}

func (g *MemoryGrid) ClearCell(row, col int) error {
	return g.SetCell(row, col, nil)
}

// Set is a fluent helper for building fixtures.
func (g *MemoryGrid) Set(row, col int, value string) *MemoryGrid {
	g.Cells[Cell{Row: row, Col: col}] = value
	return g
}

// Get returns the value at (row, col) without error handling.
func (g *MemoryGrid) Get(row, col int) string {
	return g.Cells[Cell{Row: row, Col: col}]
}

// Writes returns every cell written so far, in call order.
func (g *MemoryGrid) Writes() []Cell {
	out := make([]Cell, len(g.writes))
	copy(out, g.writes)
	return out
}

var _ workbook.Grid = (*MemoryGrid)(nil)

// MemoryDocument is an in-memory workbook.Document.
type MemoryDocument struct {
	Order  []string
	Sheets map[string]*MemoryGrid

	// SaveErr, when set, is returned by Save.
	SaveErr error
	saves   int
}

// NewMemoryDocument creates a document with the given sheets, in order.
func NewMemoryDocument(sheets ...*MemoryGrid) *MemoryDocument {
	d := &MemoryDocument{Sheets: map[string]*MemoryGrid{}}
	for _, s := range sheets {
		d.Order = append(d.Order, s.SheetName)
		d.Sheets[s.SheetName] = s
	}
	return d
}

func (d *MemoryDocument) SheetNames() []string {
	out := make([]string, len(d.Order))
	copy(out, d.Order)
	return out
}

func (d *MemoryDocument) Sheet(name string) (workbook.Grid, error) {
	s, ok := d.Sheets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", workbook.ErrSheetNotFound, name)
	}
	return s, nil
}

func (d *MemoryDocument) Save() error {
	if d.SaveErr != nil {
		return d.SaveErr
	}
	d.saves++
	return nil
}

// Saves is the number of successful Save calls.
func (d *MemoryDocument) Saves() int {
	return d.saves
}

var _ workbook.Document = (*MemoryDocument)(nil)

// WriteXLSX turns in-memory sheets into a real workbook under t.TempDir()
// and returns its path. The first sheet replaces excelize's default sheet.
func WriteXLSX(t *testing.T, sheets ...*MemoryGrid) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName(f.GetSheetName(0), s.SheetName))
		} else {
			_, err := f.NewSheet(s.SheetName)
			require.NoError(t, err)
		}

		cells := make([]Cell, 0, len(s.Cells))
		for c := range s.Cells {
			cells = append(cells, c)
		}
		sort.Slice(cells, func(i, j int) bool {
			if cells[i].Row != cells[j].Row {
				return cells[i].Row < cells[j].Row
			}
			return cells[i].Col < cells[j].Col
		})
		for _, c := range cells {
			axis, err := excelize.CoordinatesToCellName(c.Col, c.Row)
			require.NoError(t, err)
			require.NoError(t, f.SetCellStr(s.SheetName, axis, s.Cells[c]))
		}
	}

	path := filepath.Join(t.TempDir(), "wallchart.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

// FixtureGroups are the Euro 2020 groups in the order the default layout
// lays out its group tables (column by column, top block first).
var FixtureGroups = []struct {
	Name  string
	Teams []string
}{
	{"Group A", []string{"Turkey", "Italy", "Wales", "Switzerland"}},
	{"Group B", []string{"Denmark", "Finland", "Belgium", "Russia"}},
	{"Group C", []string{"Netherlands", "Ukraine", "Austria", "North Macedonia"}},
	{"Group D", []string{"England", "Croatia", "Scotland", "Czech Republic"}},
	{"Group E", []string{"Spain", "Sweden", "Poland", "Slovakia"}},
	{"Group F", []string{"Hungary", "Portugal", "France", "Germany"}},
}

// NewMatchesFixture returns a Matches sheet with the group tables of the
// default layout filled in and no results.
func NewMatchesFixture() *MemoryGrid {
	g := NewMemoryGrid("Matches")
	fillGroupTables(g, []int{3, 7, 11}, [][]int{{5, 6, 7, 8}, {11, 12, 13, 14}}, true)
	return g
}

// NewLeaderboardFixture returns a Leaderboard sheet with only the group
// table headers of the default layout.
func NewLeaderboardFixture() *MemoryGrid {
	g := NewMemoryGrid("Leaderboard")
	fillGroupTables(g, []int{5, 8, 11}, [][]int{{3, 4, 5, 6}, {9, 10, 11, 12}}, false)
	return g
}

func fillGroupTables(g *MemoryGrid, cols []int, blocks [][]int, withTeams bool) {
	i := 0
	for _, col := range cols {
		for _, block := range blocks {
			group := FixtureGroups[i]
			g.Set(block[0]-1, col, group.Name)
			if withTeams {
				for j, row := range block {
					g.Set(row, col, group.Teams[j])
				}
			}
			i++
		}
	}
}
