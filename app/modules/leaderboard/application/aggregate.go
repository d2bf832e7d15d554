package leaderboardservice

import (
	"context"
	"errors"
	"runtime"
	"sort"

	resultstypes "github.com/Black-And-White-Club/wallchart/app/modules/results/domain/types"
	"golang.org/x/sync/errgroup"
)

// MatchPoints is what one prediction earned.
type MatchPoints struct {
	Match     resultstypes.Match
	Predicted string
	Actual    string
	Points    int
}

// PlayerScore is a player's total with the per-match breakdown. Matches the
// player did not predict are absent from the breakdown and earn nothing.
type PlayerScore struct {
	Player    string
	Points    int
	Breakdown []MatchPoints
}

// ScorePlayer totals one player's predictions over every recorded result.
func ScorePlayer(p resultstypes.PlayerPrediction, actual resultstypes.ResultSet) (PlayerScore, error) {
	out := PlayerScore{Player: p.Player}

	for _, e := range actual.Entries() {
		predicted, ok := p.Predictions.Get(e.Match)
		if !ok {
			continue
		}

		a, err := resultstypes.ParseScore(e.Raw)
		if err != nil {
			return PlayerScore{}, annotate(err, e.Match, "")
		}
		pr, err := resultstypes.ParseScore(predicted)
		if err != nil {
			return PlayerScore{}, annotate(err, e.Match, p.Player)
		}

		pts := CompareScores(pr, a)
		out.Points += pts
		out.Breakdown = append(out.Breakdown, MatchPoints{
			Match:     e.Match,
			Predicted: predicted,
			Actual:    e.Raw,
			Points:    pts,
		})
	}

	return out, nil
}

func annotate(err error, m resultstypes.Match, player string) error {
	var malformed *resultstypes.MalformedScoreError
	if !errors.As(err, &malformed) {
		return err
	}
	malformed = malformed.WithMatch(m)
	if player != "" {
		malformed = malformed.WithPlayer(player)
	}
	return malformed
}

// ScorePlayers scores every player concurrently. Results come back in input
// order. If any player fails, the error of the first failing player (in
// input order) is returned.
func ScorePlayers(ctx context.Context, actual resultstypes.ResultSet, players []resultstypes.PlayerPrediction) ([]PlayerScore, error) {
	scores := make([]PlayerScore, len(players))
	errs := make([]error, len(players))

	// No cancellation on failure: every player is scored and the reported
	// error is the first in input order.
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, p := range players {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			scores[i], errs[i] = ScorePlayer(p, actual)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return scores, nil
}

// AggregateOption tunes AggregateLeaderboard.
type AggregateOption func(*aggregateOptions)

type aggregateOptions struct {
	onScored func(PlayerScore)
}

// WithBreakdown calls fn with every player's per-match breakdown, in input
// order, once all players have been scored.
func WithBreakdown(fn func(PlayerScore)) AggregateOption {
	return func(o *aggregateOptions) { o.onScored = fn }
}

// AggregateLeaderboard returns every player's total, highest first. Players
// level on points keep their input order.
func AggregateLeaderboard(
	ctx context.Context,
	actual resultstypes.ResultSet,
	players []resultstypes.PlayerPrediction,
	opts ...AggregateOption,
) ([]resultstypes.Standing, error) {
	var o aggregateOptions
	for _, opt := range opts {
		opt(&o)
	}

	scores, err := ScorePlayers(ctx, actual, players)
	if err != nil {
		return nil, err
	}
	if o.onScored != nil {
		for _, ps := range scores {
			o.onScored(ps)
		}
	}
	return RankPlayers(scores), nil
}

// RankPlayers sorts player totals descending, stable on ties.
func RankPlayers(scores []PlayerScore) []resultstypes.Standing {
	standings := make([]resultstypes.Standing, len(scores))
	for i, s := range scores {
		standings[i] = resultstypes.Standing{Player: s.Player, Points: s.Points}
	}
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Points > standings[j].Points
	})
	return standings
}
