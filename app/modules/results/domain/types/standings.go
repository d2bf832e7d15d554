package resultstypes

// Group is a named set of teams in the order they are declared in the
// workbook.
type Group struct {
	Name  string
	Teams []string
}

// TeamStanding is a team and its group-stage points.
type TeamStanding struct {
	Team   string
	Points int
}

// GroupStanding is a group ranked by points.
type GroupStanding struct {
	Group     string
	Standings []TeamStanding
}

// PlayerPrediction is every score a player has predicted.
type PlayerPrediction struct {
	Player      string
	Predictions ResultSet
}

// Standing is a player's total on the leaderboard.
type Standing struct {
	Player string
	Points int
}
