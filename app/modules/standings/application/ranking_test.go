package standingsservice

import (
	"testing"

	resultstypes "github.com/Black-And-White-Club/wallchart/app/modules/results/domain/types"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestRankGroups(t *testing.T) {
	tests := []struct {
		name   string
		groups []resultstypes.Group
		points map[string]int
		want   []resultstypes.GroupStanding
	}{
		{
			name:   "ties keep declared order",
			groups: []resultstypes.Group{{Name: "A", Teams: []string{"A", "B", "C", "D"}}},
			points: map[string]int{"A": 3, "B": 3, "C": 6, "D": 0},
			want: []resultstypes.GroupStanding{{
				Group: "A",
				Standings: []resultstypes.TeamStanding{
					{Team: "C", Points: 6},
					{Team: "A", Points: 3},
					{Team: "B", Points: 3},
					{Team: "D", Points: 0},
				},
			}},
		},
		{
			name: "missing teams default to zero and groups keep their order",
			groups: []resultstypes.Group{
				{Name: "F", Teams: []string{"Hungary", "Portugal", "France", "Germany"}},
				{Name: "E", Teams: []string{"Spain", "Sweden"}},
			},
			points: map[string]int{"Portugal": 3, "Sweden": 1},
			want: []resultstypes.GroupStanding{
				{Group: "F", Standings: []resultstypes.TeamStanding{
					{Team: "Portugal", Points: 3},
					{Team: "Hungary", Points: 0},
					{Team: "France", Points: 0},
					{Team: "Germany", Points: 0},
				}},
				{Group: "E", Standings: []resultstypes.TeamStanding{
					{Team: "Sweden", Points: 1},
					{Team: "Spain", Points: 0},
				}},
			},
		},
		{
			name:   "no groups",
			groups: nil,
			points: map[string]int{"A": 3},
			want:   []resultstypes.GroupStanding{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RankGroups(tt.groups, tt.points)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("RankGroups mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRankGroups_SortedAndStable(t *testing.T) {
	faker := gofakeit.New(16)

	for i := 0; i < 100; i++ {
		teams := []string{"T1", "T2", "T3", "T4"}
		points := map[string]int{}
		for _, team := range teams {
			points[team] = faker.IntRange(0, 3) * 3
		}
		declared := map[string]int{"T1": 0, "T2": 1, "T3": 2, "T4": 3}

		got := RankGroups([]resultstypes.Group{{Name: "G", Teams: teams}}, points)[0].Standings

		for j := 1; j < len(got); j++ {
			prev, cur := got[j-1], got[j]
			assert.GreaterOrEqual(t, prev.Points, cur.Points)
			if prev.Points == cur.Points {
				assert.Less(t, declared[prev.Team], declared[cur.Team])
			}
		}
	}
}
