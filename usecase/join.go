package usecase

import (
	"fmt"
	"strings"

	"github.com/gridironhq/cfbdash/domain/conference"
	"github.com/gridironhq/cfbdash/domain/ranking"
	"github.com/gridironhq/cfbdash/domain/team"
)

// Index holds the lookup tables joining the three fetched collections. It is
// a pure function of a snapshot and is rebuilt whenever the snapshot is
// replaced.
type Index struct {
	TeamByID      map[int64]team.Team
	rankingByID   map[int64]ranking.Entry
	rankingByName map[string]ranking.Entry
}

// BuildIndex constructs lookup tables from a snapshot. Duplicate team ids are
// not expected but not rejected either: last write wins.
func BuildIndex(snap Snapshot) Index {
	ix := Index{
		TeamByID:      make(map[int64]team.Team, len(snap.Teams)),
		rankingByID:   make(map[int64]ranking.Entry, len(snap.Rankings.Entries)),
		rankingByName: make(map[string]ranking.Entry, len(snap.Rankings.Entries)),
	}

	for _, t := range snap.Teams {
		ix.TeamByID[t.ID] = t
	}
	for _, e := range snap.Rankings.Entries {
		if e.TeamID > 0 {
			ix.rankingByID[e.TeamID] = e
		}
		if name := strings.ToLower(strings.TrimSpace(e.TeamName)); name != "" {
			ix.rankingByName[name] = e
		}
	}

	return ix
}

// RankingFor resolves a team against the ranking set: id lookup first, then a
// case-insensitive name fallback. When both miss, the returned Lookup has all
// fields nil; callers treat nil as unknown, never as zero.
func (ix Index) RankingFor(teamID int64, name string) ranking.Lookup {
	if teamID > 0 {
		if e, ok := ix.rankingByID[teamID]; ok {
			return ranking.FromEntry(e)
		}
	}
	if key := strings.ToLower(strings.TrimSpace(name)); key != "" {
		if e, ok := ix.rankingByName[key]; ok {
			return ranking.FromEntry(e)
		}
	}
	return ranking.Lookup{}
}

// TeamLabel resolves a team id to its display name, falling back to a
// synthetic label when the id is missing from the team collection.
func (ix Index) TeamLabel(teamID int64) string {
	if t, ok := ix.TeamByID[teamID]; ok && t.Name != "" {
		return t.Name
	}
	return fmt.Sprintf("Team %d", teamID)
}

// TeamConference returns the normalized conference for a team id. The bool is
// false when the team is absent from the collection entirely; a present team
// with no conference is a known Independent.
func (ix Index) TeamConference(teamID int64) (string, bool) {
	t, ok := ix.TeamByID[teamID]
	if !ok {
		return "", false
	}
	return conference.Normalize(t.Conference), true
}
