package cfbdata

import (
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/gridironhq/cfbdash/domain/game"
	"github.com/gridironhq/cfbdash/domain/ranking"
	"github.com/gridironhq/cfbdash/domain/team"
)

// Field aliases the API uses interchangeably. Resolved once here so the rest
// of the system sees a single canonical shape.
var (
	idAliases        = []string{"team_id", "id"}
	gameIDAliases    = []string{"game_id", "id"}
	nameAliases      = []string{"team_name", "name"}
	dateAliases      = []string{"game_date", "date", "gameDate"}
	homeScoreAliases = []string{"home_score", "home_points"}
	awayScoreAliases = []string{"away_score", "away_points"}
	rankAliases      = []string{"rank", "ranking"}
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTeams(rows []map[string]any) []team.Team {
	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		item := team.Team{
			ID:         getInt64(row, idAliases...),
			Name:       getString(row, nameAliases...),
			Mascot:     getString(row, "mascot"),
			Conference: getString(row, "conference"),
		}
		if item.Validate() != nil {
			continue
		}
		out = append(out, item)
	}
	return out
}

func parseGames(rows []map[string]any) []game.Game {
	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		item := game.Game{
			ID:         getInt64(row, gameIDAliases...),
			Date:       getDate(row, dateAliases...),
			HomeTeamID: getInt64(row, "home_team_id"),
			AwayTeamID: getInt64(row, "away_team_id"),
			HomeScore:  getOptionalInt(row, homeScoreAliases...),
			AwayScore:  getOptionalInt(row, awayScoreAliases...),
		}
		if item.HomeTeamID <= 0 && item.AwayTeamID <= 0 {
			continue
		}
		out = append(out, item)
	}
	return out
}

func parseRankingSet(raw []byte) ranking.Set {
	var value any
	if err := sonic.Unmarshal(raw, &value); err != nil {
		return ranking.Set{}
	}

	switch typed := value.(type) {
	case []any:
		return ranking.Set{Entries: parseRankingEntries(coerceRecords(typed))}
	case map[string]any:
		set := ranking.Set{
			Entries:      parseRankingEntries(coerceRecords(typed["raw_ranking"])),
			HomeFieldAdv: getFloat(typed, "home_field_adv"),
		}
		set.LatestGameDate = getDate(typed, "latest_game_date")
		return set
	default:
		return ranking.Set{}
	}
}

func parseRankingEntries(rows []map[string]any) []ranking.Entry {
	out := make([]ranking.Entry, 0, len(rows))
	for _, row := range rows {
		item := ranking.Entry{
			TeamID:            getInt64(row, idAliases...),
			TeamName:          getString(row, nameAliases...),
			Conference:        getString(row, "conference"),
			Rank:              parseRank(row),
			Rating:            getFloat(row, "rating"),
			BaseRating:        getFloat(row, "base_rating"),
			SOSScore:          getFloat(row, "sos_score"),
			SOSToughOpponents: int(getInt64(row, "sos_tough_opponents")),
			Wins:              int(getInt64(row, "wins")),
			Losses:            int(getInt64(row, "losses")),
			WinPct:            getFloat(row, "win_pct"),
			HomeWinProb:       getFloat(row, "home_field_equal_team_win_prob"),
		}
		if item.TeamID <= 0 && item.TeamName == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}

// parseRank treats ranks below 1 as unranked; rank is a 1-indexed ordinal.
func parseRank(row map[string]any) *int {
	v := getOptionalInt(row, rankAliases...)
	if v == nil || *v < 1 {
		return nil
	}
	return v
}

func getString(src map[string]any, keys ...string) string {
	for _, key := range keys {
		raw, ok := src[key]
		if !ok || raw == nil {
			continue
		}
		if value, ok := raw.(string); ok {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func getInt64(src map[string]any, keys ...string) int64 {
	for _, key := range keys {
		if value, ok := numericValue(src[key]); ok {
			return int64(value)
		}
	}
	return 0
}

func getFloat(src map[string]any, keys ...string) float64 {
	for _, key := range keys {
		if value, ok := numericValue(src[key]); ok {
			return value
		}
	}
	return 0
}

// getOptionalInt distinguishes "absent" from zero: nil when no alias carries
// a numeric value.
func getOptionalInt(src map[string]any, keys ...string) *int {
	for _, key := range keys {
		if value, ok := numericValue(src[key]); ok {
			v := int(value)
			return &v
		}
	}
	return nil
}

func getDate(src map[string]any, keys ...string) time.Time {
	for _, key := range keys {
		raw, ok := src[key].(string)
		if !ok {
			continue
		}
		if parsed, ok := parseDate(raw); ok {
			return parsed
		}
	}
	return time.Time{}
}

func parseDate(raw string) (time.Time, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}

func numericValue(raw any) (float64, bool) {
	switch typed := raw.(type) {
	case float64:
		return typed, true
	case float32:
		return float64(typed), true
	case int:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case string:
		v, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		if err != nil {
			return 0, false
		}
		return v, true
	default:
		return 0, false
	}
}
