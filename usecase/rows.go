package usecase

import (
	"github.com/gridironhq/cfbdash/domain/conference"
	"github.com/gridironhq/cfbdash/domain/game"
	"github.com/gridironhq/cfbdash/domain/ranking"
	"github.com/gridironhq/cfbdash/domain/team"
	"github.com/gridironhq/cfbdash/query"
)

// GameRow is a game with its opponent references resolved to display fields.
// Resolution never fails: a team id missing from the team collection gets a
// synthetic label and an unknown (empty) conference.
type GameRow struct {
	Game           game.Game
	HomeTeam       string
	AwayTeam       string
	HomeConference string
	AwayConference string
}

// TeamRow is a team joined with its rank and scoring average.
type TeamRow struct {
	Team         team.Team
	Conference   string
	Rank         *int
	AvgPointsFor *float64
}

// RankingRow is a ranking entry with its team reference resolved.
type RankingRow struct {
	Entry    ranking.Entry
	TeamName string
}

// ConferenceRow is the derived per-conference summary.
type ConferenceRow = conference.Summary

func buildGameRows(snap Snapshot, ix Index) []GameRow {
	out := make([]GameRow, 0, len(snap.Games))
	for _, g := range snap.Games {
		row := GameRow{
			Game:     g,
			HomeTeam: ix.TeamLabel(g.HomeTeamID),
			AwayTeam: ix.TeamLabel(g.AwayTeamID),
		}
		if conf, ok := ix.TeamConference(g.HomeTeamID); ok {
			row.HomeConference = conf
		}
		if conf, ok := ix.TeamConference(g.AwayTeamID); ok {
			row.AwayConference = conf
		}
		out = append(out, row)
	}
	return out
}

func buildTeamRows(snap Snapshot, ix Index) []TeamRow {
	scoring := TeamGameStats(snap.Games)
	out := make([]TeamRow, 0, len(snap.Teams))
	for _, t := range snap.Teams {
		lookup := ix.RankingFor(t.ID, t.Name)
		out = append(out, TeamRow{
			Team:         t,
			Conference:   conference.Normalize(t.Conference),
			Rank:         lookup.Rank,
			AvgPointsFor: scoring[t.ID].AvgPointsFor(),
		})
	}
	return out
}

func buildRankingRows(snap Snapshot, ix Index) []RankingRow {
	out := make([]RankingRow, 0, len(snap.Rankings.Entries))
	for _, e := range snap.Rankings.Entries {
		name := e.TeamName
		if name == "" {
			name = ix.TeamLabel(e.TeamID)
		}
		out = append(out, RankingRow{Entry: e, TeamName: name})
	}
	return out
}

// Sort-key registries per view. Numeric is an explicit allow-list; every
// other key compares as a case-insensitive string. DefaultDesc is the
// per-field direction applied when the field is first selected.
var (
	GameFields = query.Fields[GameRow]{
		"date":       {DefaultDesc: true, Value: func(r GameRow) any { return r.Game.Date }},
		"home_team":  {Value: func(r GameRow) any { return r.HomeTeam }},
		"away_team":  {Value: func(r GameRow) any { return r.AwayTeam }},
		"home_score": {Numeric: true, DefaultDesc: true, Value: func(r GameRow) any { return r.Game.HomeScore }},
		"away_score": {Numeric: true, DefaultDesc: true, Value: func(r GameRow) any { return r.Game.AwayScore }},
	}

	TeamFields = query.Fields[TeamRow]{
		"name":           {Value: func(r TeamRow) any { return r.Team.Name }},
		"conference":     {Value: func(r TeamRow) any { return r.Conference }},
		"rank":           {Numeric: true, Value: func(r TeamRow) any { return r.Rank }},
		"avg_points_for": {Numeric: true, DefaultDesc: true, Value: func(r TeamRow) any { return r.AvgPointsFor }},
	}

	RankingFields = query.Fields[RankingRow]{
		"team":          {Value: func(r RankingRow) any { return r.TeamName }},
		"conference":    {Value: func(r RankingRow) any { return r.Entry.Conference }},
		"rank":          {Numeric: true, Value: func(r RankingRow) any { return r.Entry.Rank }},
		"rating":        {Numeric: true, DefaultDesc: true, Value: func(r RankingRow) any { return r.Entry.Rating }},
		"base_rating":   {Numeric: true, DefaultDesc: true, Value: func(r RankingRow) any { return r.Entry.BaseRating }},
		"sos_score":     {Numeric: true, DefaultDesc: true, Value: func(r RankingRow) any { return r.Entry.SOSScore }},
		"wins":          {Numeric: true, DefaultDesc: true, Value: func(r RankingRow) any { return float64(r.Entry.Wins) }},
		"losses":        {Numeric: true, Value: func(r RankingRow) any { return float64(r.Entry.Losses) }},
		"win_pct":       {Numeric: true, DefaultDesc: true, Value: func(r RankingRow) any { return r.Entry.WinPct }},
		"home_win_prob": {Numeric: true, DefaultDesc: true, Value: func(r RankingRow) any { return r.Entry.HomeWinProb }},
	}

	ConferenceFields = query.Fields[ConferenceRow]{
		"name":           {Value: func(r ConferenceRow) any { return r.Name }},
		"team_count":     {Numeric: true, DefaultDesc: true, Value: func(r ConferenceRow) any { return float64(r.TeamCount) }},
		"avg_rank":       {Numeric: true, Value: func(r ConferenceRow) any { return r.AvgRank }},
		"avg_margin":     {Numeric: true, DefaultDesc: true, Value: func(r ConferenceRow) any { return r.AvgNonConfMargin }},
		"avg_points_for": {Numeric: true, DefaultDesc: true, Value: func(r ConferenceRow) any { return r.AvgPointsFor }},
	}
)
