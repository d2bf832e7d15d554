package config

import (
	"errors"
	"fmt"
)

// ErrInvalidLayout is wrapped by every layout validation failure.
var ErrInvalidLayout = errors.New("invalid workbook layout")

// Layout holds the fixed cell coordinates of the workbook template. All rows
// and columns are 1-based.
type Layout struct {
	MatchesSheet     string          `yaml:"matches_sheet"`
	LeaderboardSheet string          `yaml:"leaderboard_sheet"`
	NonPlayerSheets  []string        `yaml:"non_player_sheets"`
	GroupStage       GroupStageRange `yaml:"group_stage"`
	Groups           GroupBlocks     `yaml:"groups"`
	Knockout         []KnockoutRound `yaml:"knockout"`
	Players          PlayerRows      `yaml:"players"`
	Bracket          BracketWindow   `yaml:"bracket"`
}

// GroupStageRange is the block of group fixtures. Each row holds one fixture
// per column triple.
type GroupStageRange struct {
	FirstRow int           `yaml:"first_row"`
	LastRow  int           `yaml:"last_row"`
	Columns  []ResultTriple `yaml:"columns"`
}

// ResultTriple is the (team A, team B, score) column triple of a fixture.
// It is written in YAML as a three-element list.
type ResultTriple [3]int

func (t ResultTriple) TeamA() int { return t[0] }
func (t ResultTriple) TeamB() int { return t[1] }
func (t ResultTriple) Score() int { return t[2] }

// GroupBlocks locates the group tables on the Matches and Leaderboard sheets.
type GroupBlocks struct {
	Matches     GroupTable `yaml:"matches"`
	Leaderboard GroupTable `yaml:"leaderboard"`
}

// GroupTable is a grid of group tables. Every column holds one table per
// block; the group name sits in the row above the first row of a block and
// points go in the column to the right of the team name.
type GroupTable struct {
	Columns []int   `yaml:"columns"`
	Blocks  [][]int `yaml:"blocks"`
}

// KnockoutRound describes one round of the bracket. Fixture i starts at
// StartRow + i*Interval: that row holds team A and the score, the next row
// holds team B.
type KnockoutRound struct {
	Name     string `yaml:"name"`
	StartRow int    `yaml:"start_row"`
	Interval int    `yaml:"interval"`
	Count    int    `yaml:"count"`
	TeamCol  int    `yaml:"team_col"`
	ScoreCol int    `yaml:"score_col"`
}

// FixtureRow returns the first row of fixture i.
func (r KnockoutRound) FixtureRow(i int) int {
	return r.StartRow + i*r.Interval
}

// PlayerRows is where the player leaderboard is written.
type PlayerRows struct {
	FirstRow  int `yaml:"first_row"`
	NameCol   int `yaml:"name_col"`
	PointsCol int `yaml:"points_col"`
}

// BracketWindow is the cell range searched for placeholder team names.
type BracketWindow struct {
	FirstRow   int      `yaml:"first_row"`
	LastRow    int      `yaml:"last_row"`
	FirstCol   int      `yaml:"first_col"`
	LastCol    int      `yaml:"last_col"`
	SkipSheets []string `yaml:"skip_sheets"`
}

// DefaultLayout is the Euro 2020 template.
func DefaultLayout() Layout {
	return Layout{
		MatchesSheet:     "Matches",
		LeaderboardSheet: "Leaderboard",
		NonPlayerSheets:  []string{"Matches", "Leaderboard"},
		GroupStage: GroupStageRange{
			FirstRow: 21,
			LastRow:  36,
			Columns:  []ResultTriple{{3, 4, 5}, {7, 8, 9}, {11, 12, 13}},
		},
		Groups: GroupBlocks{
			Matches: GroupTable{
				Columns: []int{3, 7, 11},
				Blocks:  [][]int{{5, 6, 7, 8}, {11, 12, 13, 14}},
			},
			Leaderboard: GroupTable{
				Columns: []int{5, 8, 11},
				Blocks:  [][]int{{3, 4, 5, 6}, {9, 10, 11, 12}},
			},
		},
		Knockout: []KnockoutRound{
			{Name: "round_of_16", StartRow: 43, Interval: 3, Count: 8, TeamCol: 3, ScoreCol: 4},
			{Name: "quarter_final", StartRow: 44, Interval: 6, Count: 4, TeamCol: 7, ScoreCol: 8},
			{Name: "semi_final", StartRow: 47, Interval: 12, Count: 2, TeamCol: 11, ScoreCol: 12},
			{Name: "final", StartRow: 52, Interval: 0, Count: 1, TeamCol: 15, ScoreCol: 16},
		},
		Players: PlayerRows{FirstRow: 3, NameCol: 2, PointsCol: 3},
		Bracket: BracketWindow{
			FirstRow:   43,
			LastRow:    65,
			FirstCol:   3,
			LastCol:    15,
			SkipSheets: []string{"Leaderboard"},
		},
	}
}

// IsPlayerSheet reports whether a sheet holds a player's predictions.
func (l Layout) IsPlayerSheet(name string) bool {
	for _, s := range l.NonPlayerSheets {
		if s == name {
			return false
		}
	}
	return true
}

// Validate checks the layout once at startup so that coordinate mistakes
// surface before any cell is read.
func (l Layout) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidLayout}, args...)...))
	}

	if l.MatchesSheet == "" {
		fail("matches_sheet is required")
	}
	if l.LeaderboardSheet == "" {
		fail("leaderboard_sheet is required")
	}

	gs := l.GroupStage
	if gs.FirstRow < 1 || gs.LastRow < gs.FirstRow {
		fail("group_stage rows %d..%d", gs.FirstRow, gs.LastRow)
	}
	if len(gs.Columns) == 0 {
		fail("group_stage needs at least one column triple")
	}
	for i, c := range gs.Columns {
		if c[0] < 1 || c[1] < 1 || c[2] < 1 {
			fail("group_stage column triple %d has a non-positive column", i)
		}
		if c[0] == c[1] || c[0] == c[2] || c[1] == c[2] {
			fail("group_stage column triple %d repeats a column", i)
		}
	}

	tables := []struct {
		name  string
		table GroupTable
	}{{"matches", l.Groups.Matches}, {"leaderboard", l.Groups.Leaderboard}}
	for _, gt := range tables {
		name, table := gt.name, gt.table
		if len(table.Columns) == 0 || len(table.Blocks) == 0 {
			fail("groups.%s needs columns and blocks", name)
		}
		for _, c := range table.Columns {
			if c < 1 {
				fail("groups.%s column %d", name, c)
			}
		}
		for i, b := range table.Blocks {
			if len(b) == 0 {
				fail("groups.%s block %d is empty", name, i)
				continue
			}
			if b[0] < 2 {
				fail("groups.%s block %d leaves no room for the group name", name, i)
			}
		}
	}

	seen := make(map[string]bool, len(l.Knockout))
	for _, r := range l.Knockout {
		if r.Name == "" || seen[r.Name] {
			fail("knockout round name %q is empty or repeated", r.Name)
		}
		seen[r.Name] = true
		if r.StartRow < 1 || r.TeamCol < 1 || r.ScoreCol < 1 || r.Count < 1 {
			fail("knockout round %q has a non-positive coordinate or count", r.Name)
		}
		if r.Count > 1 && r.Interval < 2 {
			fail("knockout round %q fixtures overlap (interval %d)", r.Name, r.Interval)
		}
		if r.TeamCol == r.ScoreCol {
			fail("knockout round %q uses the same column for team and score", r.Name)
		}
	}

	p := l.Players
	if p.FirstRow < 1 || p.NameCol < 1 || p.PointsCol < 1 || p.NameCol == p.PointsCol {
		fail("players rows/columns %+v", p)
	}

	b := l.Bracket
	if b.FirstRow < 1 || b.FirstCol < 1 || b.LastRow < b.FirstRow || b.LastCol < b.FirstCol {
		fail("bracket window %+v", b)
	}

	return errors.Join(errs...)
}
