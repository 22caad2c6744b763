package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/gridironhq/cfbdash/domain/game"
	"github.com/gridironhq/cfbdash/domain/ranking"
	"github.com/gridironhq/cfbdash/domain/team"
	"github.com/gridironhq/cfbdash/platform/logging"
)

// Source names one of the three remote collections.
type Source string

const (
	SourceTeams    Source = "teams"
	SourceGames    Source = "games"
	SourceRankings Source = "rankings"
)

// Snapshot is one fetch cycle's worth of data. Snapshots are immutable and
// replaced wholesale on refresh; there is no incremental merge. Errors maps
// each failed source to its fetch error so views can annotate which derived
// metrics are unreliable.
type Snapshot struct {
	Version   int64
	Teams     []team.Team
	Games     []game.Game
	Rankings  ranking.Set
	FetchedAt time.Time
	Errors    map[Source]error
}

// DataSource is the remote stats API as seen by the snapshot lifecycle.
type DataSource interface {
	FetchTeams(ctx context.Context) ([]team.Team, error)
	FetchGames(ctx context.Context) ([]game.Game, error)
	FetchRankings(ctx context.Context) (ranking.Set, error)
}

// SnapshotService owns one view's snapshot of the fetched collections. Views
// never share snapshots; each dashboard view gets its own service instance.
type SnapshotService struct {
	source  DataSource
	logger  *logging.Logger
	version atomic.Int64

	mu      sync.RWMutex
	current *Snapshot
}

func NewSnapshotService(source DataSource, logger *logging.Logger) *SnapshotService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SnapshotService{
		source: source,
		logger: logger,
	}
}

// Current returns the held snapshot without fetching.
func (s *SnapshotService) Current() (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return Snapshot{}, false
	}
	return *s.current, true
}

// Load returns the held snapshot, fetching only when none is present yet.
// This is the "skip fetch if data already present" guard a view relies on at
// mount time.
func (s *SnapshotService) Load(ctx context.Context) (Snapshot, error) {
	if snap, ok := s.Current(); ok {
		return snap, nil
	}
	return s.Refresh(ctx)
}

// Refresh fetches the three endpoints concurrently and replaces the snapshot.
// Each source fails independently: a failed source leaves its collection
// empty and is recorded in Snapshot.Errors. Only when every source fails is
// the cycle itself an error, leaving the previous snapshot in place.
func (s *SnapshotService) Refresh(ctx context.Context) (Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SnapshotService.Refresh")
	defer span.End()

	var (
		teams       []team.Team
		games       []game.Game
		rankings    ranking.Set
		teamsErr    error
		gamesErr    error
		rankingsErr error
	)

	var wg conc.WaitGroup
	wg.Go(func() { teams, teamsErr = s.source.FetchTeams(ctx) })
	wg.Go(func() { games, gamesErr = s.source.FetchGames(ctx) })
	wg.Go(func() { rankings, rankingsErr = s.source.FetchRankings(ctx) })
	wg.Wait()

	snap := Snapshot{
		Version:   s.version.Add(1),
		Teams:     teams,
		Games:     games,
		Rankings:  rankings,
		FetchedAt: time.Now().UTC(),
		Errors:    make(map[Source]error),
	}
	for source, err := range map[Source]error{
		SourceTeams:    teamsErr,
		SourceGames:    gamesErr,
		SourceRankings: rankingsErr,
	} {
		if err != nil {
			snap.Errors[source] = err
			s.logger.WarnContext(ctx, "source fetch failed", "source", string(source), "error", err)
		}
	}

	if len(snap.Errors) == 3 {
		return Snapshot{}, fmt.Errorf("%w: all sources failed: teams=%v games=%v rankings=%v",
			ErrSourceUnavailable, teamsErr, gamesErr, rankingsErr)
	}

	s.mu.Lock()
	s.current = &snap
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "snapshot refreshed",
		"version", snap.Version,
		"teams", len(snap.Teams),
		"games", len(snap.Games),
		"rankings", len(snap.Rankings.Entries),
		"failed_sources", len(snap.Errors),
	)

	return snap, nil
}
