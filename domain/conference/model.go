package conference

// Independent is the synthetic bucket for teams with no conference. The label
// must match exactly across every view that displays it.
const Independent = "Independent"

// Normalize maps an absent conference name to the Independent bucket.
func Normalize(name string) string {
	if name == "" {
		return Independent
	}
	return name
}

// Summary is the derived per-conference roll-up. It is recomputed from the
// current snapshot and never persisted. Nil averages mean the underlying data
// was unavailable (no ranked members, no eligible games), not zero.
type Summary struct {
	Name             string
	TeamCount        int
	AvgRank          *float64
	AvgNonConfMargin *float64
	AvgPointsFor     *float64
}
