package standingsservice

import (
	"sort"

	resultstypes "github.com/Black-And-White-Club/wallchart/app/modules/results/domain/types"
)

// RankGroups orders every group by points, highest first. Teams level on
// points keep the order they are declared in; teams without a result have 0.
func RankGroups(groups []resultstypes.Group, points map[string]int) []resultstypes.GroupStanding {
	out := make([]resultstypes.GroupStanding, 0, len(groups))

	for _, g := range groups {
		standings := make([]resultstypes.TeamStanding, len(g.Teams))
		for i, team := range g.Teams {
			standings[i] = resultstypes.TeamStanding{Team: team, Points: points[team]}
		}

		sort.SliceStable(standings, func(i, j int) bool {
			return standings[i].Points > standings[j].Points
		})

		out = append(out, resultstypes.GroupStanding{Group: g.Name, Standings: standings})
	}

	return out
}
