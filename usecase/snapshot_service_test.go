package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/gridironhq/cfbdash/domain/game"
	"github.com/gridironhq/cfbdash/domain/ranking"
	"github.com/gridironhq/cfbdash/domain/team"
	"github.com/gridironhq/cfbdash/platform/logging"
)

type stubSource struct {
	mu         sync.Mutex
	fetchCalls int

	teams    []team.Team
	games    []game.Game
	rankings ranking.Set

	teamsErr    error
	gamesErr    error
	rankingsErr error
}

func (s *stubSource) FetchTeams(context.Context) ([]team.Team, error) {
	s.mu.Lock()
	s.fetchCalls++
	s.mu.Unlock()
	return s.teams, s.teamsErr
}

func (s *stubSource) FetchGames(context.Context) ([]game.Game, error) {
	return s.games, s.gamesErr
}

func (s *stubSource) FetchRankings(context.Context) (ranking.Set, error) {
	return s.rankings, s.rankingsErr
}

func (s *stubSource) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetchCalls
}

func TestSnapshotService_RefreshReplacesSnapshot(t *testing.T) {
	t.Parallel()

	source := &stubSource{
		teams: []team.Team{{ID: 1, Name: "Alpha"}},
		games: []game.Game{{ID: 10, HomeTeamID: 1, AwayTeamID: 2, HomeScore: ip(7), AwayScore: ip(3)}},
		rankings: ranking.Set{Entries: []ranking.Entry{
			{TeamID: 1, TeamName: "Alpha", Rank: ip(1)},
		}},
	}
	svc := NewSnapshotService(source, logging.NewNop())

	first, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if first.Version != 1 || len(first.Teams) != 1 || len(first.Errors) != 0 {
		t.Fatalf("unexpected snapshot: version=%d teams=%d errors=%d",
			first.Version, len(first.Teams), len(first.Errors))
	}

	second, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if second.Version != 2 {
		t.Fatalf("version must increase per refresh, got=%d", second.Version)
	}
}

func TestSnapshotService_PartialFailureKeepsCycle(t *testing.T) {
	t.Parallel()

	source := &stubSource{
		teams:       []team.Team{{ID: 1, Name: "Alpha"}},
		games:       []game.Game{{ID: 10, HomeTeamID: 1, AwayTeamID: 2}},
		rankingsErr: errors.New("ranker: 503"),
	}
	svc := NewSnapshotService(source, logging.NewNop())

	snap, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("partial failure must not fail the cycle: %v", err)
	}
	if len(snap.Rankings.Entries) != 0 {
		t.Fatalf("failed source must leave its collection empty")
	}
	if _, ok := snap.Errors[SourceRankings]; !ok {
		t.Fatalf("failed source must be recorded, got=%v", snap.Errors)
	}
	if len(snap.Teams) != 1 || len(snap.Games) != 1 {
		t.Fatalf("healthy sources must still land: teams=%d games=%d", len(snap.Teams), len(snap.Games))
	}
}

func TestSnapshotService_AllSourcesFailedKeepsPrevious(t *testing.T) {
	t.Parallel()

	source := &stubSource{teams: []team.Team{{ID: 1, Name: "Alpha"}}}
	svc := NewSnapshotService(source, logging.NewNop())

	if _, err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("initial refresh failed: %v", err)
	}

	source.teamsErr = errors.New("teams down")
	source.gamesErr = errors.New("games down")
	source.rankingsErr = errors.New("ranker down")

	_, err := svc.Refresh(context.Background())
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got: %v", err)
	}

	current, ok := svc.Current()
	if !ok || current.Version != 1 {
		t.Fatalf("previous snapshot must survive a failed cycle: ok=%v version=%d", ok, current.Version)
	}
}

func TestSnapshotService_LoadSkipsFetchWhenPresent(t *testing.T) {
	t.Parallel()

	source := &stubSource{teams: []team.Team{{ID: 1, Name: "Alpha"}}}
	svc := NewSnapshotService(source, logging.NewNop())

	if _, err := svc.Load(context.Background()); err != nil {
		t.Fatalf("first load failed: %v", err)
	}
	if _, err := svc.Load(context.Background()); err != nil {
		t.Fatalf("second load failed: %v", err)
	}

	if got := source.calls(); got != 1 {
		t.Fatalf("load must fetch only once, got %d fetches", got)
	}
}
