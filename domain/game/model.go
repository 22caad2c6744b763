package game

import "time"

// Game is a single matchup between two teams. Scores are nil until the game
// has been played; the API never returns one score without the other, but a
// row that does arrive that way is treated as unplayed.
type Game struct {
	ID         int64
	Date       time.Time
	HomeTeamID int64
	AwayTeamID int64
	HomeScore  *int
	AwayScore  *int
}

// HasResult reports whether both scores are present. Aggregations are
// all-or-nothing per game: a row failing this check contributes nothing.
func (g Game) HasResult() bool {
	return g.HomeScore != nil && g.AwayScore != nil
}

// Eligible reports whether the game can be counted in scoring statistics:
// both team references and both scores must be present.
func (g Game) Eligible() bool {
	return g.HomeTeamID > 0 && g.AwayTeamID > 0 && g.HasResult()
}
