package usecase

import (
	"sort"

	"github.com/gridironhq/cfbdash/domain/conference"
	"github.com/gridironhq/cfbdash/domain/game"
)

// TeamScoring accumulates a team's points and games across eligible games.
type TeamScoring struct {
	PointsFor   int
	GamesPlayed int
}

// AvgPointsFor is nil when the team has no eligible games; an average of an
// empty set is unknown, not zero.
func (t TeamScoring) AvgPointsFor() *float64 {
	if t.GamesPlayed == 0 {
		return nil
	}
	avg := float64(t.PointsFor) / float64(t.GamesPlayed)
	return &avg
}

// MarginTally accumulates a conference's point margin in non-conference games
// from its own perspective.
type MarginTally struct {
	Margin int
	Games  int
}

func (m MarginTally) Avg() *float64 {
	if m.Games == 0 {
		return nil
	}
	avg := float64(m.Margin) / float64(m.Games)
	return &avg
}

// TeamGameStats rolls up points scored and games played per team. A game
// missing either team id or either score contributes nothing to either team.
func TeamGameStats(games []game.Game) map[int64]TeamScoring {
	out := make(map[int64]TeamScoring)
	for _, g := range games {
		if !g.Eligible() {
			continue
		}

		home := out[g.HomeTeamID]
		home.PointsFor += *g.HomeScore
		home.GamesPlayed++
		out[g.HomeTeamID] = home

		away := out[g.AwayTeamID]
		away.PointsFor += *g.AwayScore
		away.GamesPlayed++
		out[g.AwayTeamID] = away
	}
	return out
}

// ConferenceMargins credits each conference with its margin in games against
// other conferences. Games inside one conference, and games where either
// team's conference is unknown, are excluded entirely.
func ConferenceMargins(games []game.Game, ix Index) map[string]MarginTally {
	out := make(map[string]MarginTally)
	for _, g := range games {
		if !g.Eligible() {
			continue
		}

		homeConf, homeKnown := ix.TeamConference(g.HomeTeamID)
		awayConf, awayKnown := ix.TeamConference(g.AwayTeamID)
		if !homeKnown || !awayKnown || homeConf == awayConf {
			continue
		}

		home := out[homeConf]
		home.Margin += *g.HomeScore - *g.AwayScore
		home.Games++
		out[homeConf] = home

		away := out[awayConf]
		away.Margin += *g.AwayScore - *g.HomeScore
		away.Games++
		out[awayConf] = away
	}
	return out
}

// ConferenceSummaries groups teams by conference and combines the scoring and
// margin roll-ups with ranking data. Average points-for is total points over
// total games across the group, a weighted average rather than a mean of
// per-team averages: the two differ whenever members have played different
// numbers of games.
func ConferenceSummaries(snap Snapshot, ix Index) []conference.Summary {
	scoring := TeamGameStats(snap.Games)
	margins := ConferenceMargins(snap.Games, ix)

	type tally struct {
		teams      int
		rankSum    int
		ranked     int
		pointsFor  int
		gamesTotal int
	}
	byConf := make(map[string]*tally)

	for _, t := range snap.Teams {
		key := conference.Normalize(t.Conference)
		row := byConf[key]
		if row == nil {
			row = &tally{}
			byConf[key] = row
		}
		row.teams++

		if lookup := ix.RankingFor(t.ID, t.Name); lookup.Rank != nil {
			row.rankSum += *lookup.Rank
			row.ranked++
		}

		stats := scoring[t.ID]
		row.pointsFor += stats.PointsFor
		row.gamesTotal += stats.GamesPlayed
	}

	out := make([]conference.Summary, 0, len(byConf))
	for name, row := range byConf {
		summary := conference.Summary{
			Name:             name,
			TeamCount:        row.teams,
			AvgNonConfMargin: margins[name].Avg(),
		}
		if row.ranked > 0 {
			avg := float64(row.rankSum) / float64(row.ranked)
			summary.AvgRank = &avg
		}
		if row.gamesTotal > 0 {
			avg := float64(row.pointsFor) / float64(row.gamesTotal)
			summary.AvgPointsFor = &avg
		}
		out = append(out, summary)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
