package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridironhq/cfbdash/domain/game"
	"github.com/gridironhq/cfbdash/domain/team"
	"github.com/gridironhq/cfbdash/platform/cache"
	"github.com/gridironhq/cfbdash/platform/logging"
	"github.com/gridironhq/cfbdash/query"
)

func newTestViewService(t *testing.T, source *stubSource) *ViewService {
	t.Helper()
	snapshots := NewSnapshotService(source, logging.NewNop())
	return NewViewService(snapshots, cache.NewStore(time.Minute), logging.NewNop())
}

func seasonSource() *stubSource {
	return &stubSource{
		teams: []team.Team{
			{ID: 1, Name: "Alpha", Mascot: "Aardvarks", Conference: "Coastal"},
			{ID: 2, Name: "Beta", Mascot: "Bears", Conference: "Mountain"},
			{ID: 3, Name: "Gamma", Mascot: "Gators", Conference: "Coastal"},
		},
		games: []game.Game{
			{ID: 10, Date: kickoff(1), HomeTeamID: 1, AwayTeamID: 2, HomeScore: ip(24), AwayScore: ip(17)},
			{ID: 11, Date: kickoff(8), HomeTeamID: 2, AwayTeamID: 3, HomeScore: ip(10), AwayScore: ip(31)},
			{ID: 12, Date: kickoff(15), HomeTeamID: 3, AwayTeamID: 1},
		},
	}
}

func TestViewService_GamesConferenceMatchesEitherSide(t *testing.T) {
	t.Parallel()

	svc := newTestViewService(t, seasonSource())
	st := query.NewState("date", true)

	res, err := svc.Games(context.Background(), GamesFilter{Conference: "Mountain"}, st)
	require.NoError(t, err)

	// Beta appears in games 10 and 11, once on each side.
	require.Equal(t, 2, res.Total)
	for _, row := range res.Items {
		assert.True(t, row.HomeConference == "Mountain" || row.AwayConference == "Mountain",
			"game %d matched without a Mountain side", row.Game.ID)
	}
	// date descends by default.
	assert.Equal(t, int64(11), res.Items[0].Game.ID)
}

func TestViewService_GamesDayFilter(t *testing.T) {
	t.Parallel()

	svc := newTestViewService(t, seasonSource())
	st := query.NewState("date", true)

	res, err := svc.Games(context.Background(), GamesFilter{Day: "2025-11-08"}, st)
	require.NoError(t, err)
	require.Equal(t, 1, res.Total)
	assert.Equal(t, int64(11), res.Items[0].Game.ID)
}

func TestViewService_TeamsSearchSpansNameAndMascot(t *testing.T) {
	t.Parallel()

	svc := newTestViewService(t, seasonSource())
	st := query.NewState("name", false)

	res, err := svc.Teams(context.Background(), TeamsFilter{Search: "gator"}, st)
	require.NoError(t, err)
	require.Equal(t, 1, res.Total)
	assert.Equal(t, "Gamma", res.Items[0].Team.Name)
}

func TestViewService_TeamGamesValidatesID(t *testing.T) {
	t.Parallel()

	svc := newTestViewService(t, seasonSource())
	st := query.NewState("date", true)

	_, err := svc.TeamGames(context.Background(), 0, st)
	require.ErrorIs(t, err, ErrInvalidInput)

	res, err := svc.TeamGames(context.Background(), 1, st)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
}

func TestViewService_TeamHeaderLookup(t *testing.T) {
	t.Parallel()

	svc := newTestViewService(t, seasonSource())

	row, err := svc.Team(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Alpha", row.Team.Name)
	assert.Equal(t, "Coastal", row.Conference)
	// One eligible game, 24 points.
	require.NotNil(t, row.AvgPointsFor)
	assert.Equal(t, 24.0, *row.AvgPointsFor)

	_, err = svc.Team(context.Background(), 999)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Team(context.Background(), -1)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestViewService_RejectsInvalidState(t *testing.T) {
	t.Parallel()

	svc := newTestViewService(t, seasonSource())

	_, err := svc.Games(context.Background(), GamesFilter{}, query.State{Page: 0, PageSize: 25})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestViewService_SourceErrorsAnnotated(t *testing.T) {
	t.Parallel()

	source := seasonSource()
	source.rankingsErr = errors.New("ranker: 502")
	svc := newTestViewService(t, source)

	res, err := svc.Teams(context.Background(), TeamsFilter{}, query.NewState("name", false))
	require.NoError(t, err)
	require.Contains(t, res.SourceErrors, SourceRankings)
	assert.Contains(t, res.SourceErrors[SourceRankings], "502")

	// Teams without ranking data still render, rank unknown.
	require.Equal(t, 3, res.Total)
	for _, row := range res.Items {
		assert.Nil(t, row.Rank)
	}
}

func TestViewService_WorksWithoutStore(t *testing.T) {
	t.Parallel()

	snapshots := NewSnapshotService(seasonSource(), logging.NewNop())
	svc := NewViewService(snapshots, nil, logging.NewNop())

	res, err := svc.Conferences(context.Background(), ConferencesFilter{}, query.NewState("name", false))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
}
