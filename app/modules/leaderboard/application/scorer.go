package leaderboardservice

import (
	resultstypes "github.com/Black-And-White-Club/wallchart/app/modules/results/domain/types"
)

// Points for a single prediction.
const (
	PointsExactScore     = 2
	PointsCorrectOutcome = 1
	PointsWrong          = 0
)

// CompareScores scores a predicted scoreline against the actual one: 2 for
// the exact score, 1 for the right winner (or a draw), 0 otherwise.
func CompareScores(predicted, actual resultstypes.Score) int {
	if predicted == actual {
		return PointsExactScore
	}
	if predicted.Outcome() == actual.Outcome() {
		return PointsCorrectOutcome
	}
	return PointsWrong
}

// ScorePrediction parses both raw scores and compares them.
func ScorePrediction(predicted, actual string) (int, error) {
	p, err := resultstypes.ParseScore(predicted)
	if err != nil {
		return 0, err
	}
	a, err := resultstypes.ParseScore(actual)
	if err != nil {
		return 0, err
	}
	return CompareScores(p, a), nil
}
