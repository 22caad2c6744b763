package ranking

import "time"

// Entry is one team's row in the model-derived ranking. Rank is nil for
// unranked teams; nil always means "unknown", never zero.
type Entry struct {
	TeamID            int64
	TeamName          string
	Conference        string
	Rank              *int
	Rating            float64
	BaseRating        float64
	SOSScore          float64
	SOSToughOpponents int
	Wins              int
	Losses            int
	WinPct            float64
	HomeWinProb       float64
}

// Set is the full ranker payload: the entries plus the global scalars the
// wrapping object carries.
type Set struct {
	Entries        []Entry
	LatestGameDate time.Time
	HomeFieldAdv   float64
}

// Lookup is the join-layer resolution of a team against the ranking set.
// Every field is nil when the team could not be resolved; callers must treat
// nil as unknown rather than defaulting to zero.
type Lookup struct {
	Rank              *int
	Rating            *float64
	SOSScore          *float64
	SOSToughOpponents *int
	Wins              *int
	Losses            *int
	WinPct            *float64
}

// FromEntry builds a fully populated Lookup for a resolved entry.
func FromEntry(e Entry) Lookup {
	return Lookup{
		Rank:              e.Rank,
		Rating:            ptr(e.Rating),
		SOSScore:          ptr(e.SOSScore),
		SOSToughOpponents: ptr(e.SOSToughOpponents),
		Wins:              ptr(e.Wins),
		Losses:            ptr(e.Losses),
		WinPct:            ptr(e.WinPct),
	}
}

func ptr[T any](v T) *T {
	return &v
}
