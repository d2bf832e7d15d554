package standingsservice

import (
	"errors"

	resultstypes "github.com/Black-And-White-Club/wallchart/app/modules/results/domain/types"
)

const (
	pointsWin  = 3
	pointsDraw = 1
	pointsLoss = 0
)

// CalculatePoints turns group-stage results into cumulative points per team.
// Every team that appears in a result is present in the output, losers with
// 0. The input is not modified.
func CalculatePoints(results resultstypes.ResultSet) (map[string]int, error) {
	points := make(map[string]int)

	for _, e := range results.Entries() {
		score, err := resultstypes.ParseScore(e.Raw)
		if err != nil {
			var malformed *resultstypes.MalformedScoreError
			if errors.As(err, &malformed) {
				return nil, malformed.WithMatch(e.Match)
			}
			return nil, err
		}

		a, b := matchPoints(score)
		points[e.Match.TeamA] += a
		points[e.Match.TeamB] += b
	}

	return points, nil
}

func matchPoints(s resultstypes.Score) (int, int) {
	switch s.Outcome() {
	case 1:
		return pointsWin, pointsLoss
	case -1:
		return pointsLoss, pointsWin
	default:
		return pointsDraw, pointsDraw
	}
}
