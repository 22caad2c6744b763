package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gridironhq/cfbdash/domain/conference"
	"github.com/gridironhq/cfbdash/platform/cache"
	"github.com/gridironhq/cfbdash/platform/logging"
	"github.com/gridironhq/cfbdash/query"
)

// ViewResult is one page of a view plus an annotation of which sources failed
// in the underlying fetch cycle, so the presentation layer can flag the
// derived metrics that are unreliable.
type ViewResult[T any] struct {
	query.Result[T]
	SourceErrors map[Source]string
}

// GamesFilter carries the games view's UI filter inputs. Zero values disable
// each predicate: empty day, ALL (or empty) conference, team id 0.
type GamesFilter struct {
	Day        string
	Conference string
	TeamID     int64
	Search     string
}

type TeamsFilter struct {
	Conference string
	Search     string
}

type RankingsFilter struct {
	Conference string
	Search     string
}

type ConferencesFilter struct {
	Search string
}

// ViewService derives and queries one dashboard view's tables from its own
// snapshot. Derived rows are memoized per snapshot version; the pipeline
// itself is recomputed on every call since it is cheap at dashboard sizes.
type ViewService struct {
	snapshots *SnapshotService
	store     *cache.Store
	logger    *logging.Logger
}

func NewViewService(snapshots *SnapshotService, store *cache.Store, logger *logging.Logger) *ViewService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ViewService{
		snapshots: snapshots,
		store:     store,
		logger:    logger,
	}
}

// Refresh discards the view's snapshot-derived tables and fetches fresh data.
func (s *ViewService) Refresh(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ViewService.Refresh")
	defer span.End()

	if _, err := s.snapshots.Refresh(ctx); err != nil {
		return err
	}
	if s.store != nil {
		// Memo keys embed the snapshot version, so stale entries would age
		// out anyway; dropping them now just frees the memory sooner.
		s.store.DeletePrefix(ctx, "rows:")
	}
	return nil
}

func (s *ViewService) Games(ctx context.Context, f GamesFilter, st query.State) (ViewResult[GameRow], error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ViewService.Games")
	defer span.End()

	snap, err := s.load(ctx, st)
	if err != nil {
		return ViewResult[GameRow]{}, err
	}

	rows := memoRows(ctx, s.store, rowsKey(snap, "games"), func() []GameRow {
		return buildGameRows(snap, BuildIndex(snap))
	})

	preds := []query.Predicate[GameRow]{
		query.DateEquals(f.Day, func(r GameRow) time.Time { return r.Game.Date }),
		query.TeamIDEquals(f.TeamID, func(r GameRow) []int64 {
			return []int64{r.Game.HomeTeamID, r.Game.AwayTeamID}
		}),
		query.TextContains(f.Search,
			func(r GameRow) string { return r.HomeTeam },
			func(r GameRow) string { return r.AwayTeam },
		),
	}
	// The conference filter matches a game when either side belongs to the
	// selected conference.
	if conf := strings.TrimSpace(f.Conference); conf != "" && conf != query.AllConferences {
		preds = append(preds, func(r GameRow) bool {
			return r.HomeConference == conf || r.AwayConference == conf
		})
	}
	return viewResult(snap, query.Apply(rows, preds, GameFields, st)), nil
}

func (s *ViewService) Teams(ctx context.Context, f TeamsFilter, st query.State) (ViewResult[TeamRow], error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ViewService.Teams")
	defer span.End()

	snap, err := s.load(ctx, st)
	if err != nil {
		return ViewResult[TeamRow]{}, err
	}

	rows := memoRows(ctx, s.store, rowsKey(snap, "teams"), func() []TeamRow {
		return buildTeamRows(snap, BuildIndex(snap))
	})

	preds := []query.Predicate[TeamRow]{
		query.ConferenceEquals(f.Conference, func(r TeamRow) string { return r.Conference }),
		query.TextContains(f.Search,
			func(r TeamRow) string { return r.Team.Name },
			func(r TeamRow) string { return r.Team.Mascot },
		),
	}
	return viewResult(snap, query.Apply(rows, preds, TeamFields, st)), nil
}

func (s *ViewService) Conferences(ctx context.Context, f ConferencesFilter, st query.State) (ViewResult[ConferenceRow], error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ViewService.Conferences")
	defer span.End()

	snap, err := s.load(ctx, st)
	if err != nil {
		return ViewResult[ConferenceRow]{}, err
	}

	rows := memoRows(ctx, s.store, rowsKey(snap, "conferences"), func() []ConferenceRow {
		return ConferenceSummaries(snap, BuildIndex(snap))
	})

	preds := []query.Predicate[ConferenceRow]{
		query.TextContains(f.Search, func(r ConferenceRow) string { return r.Name }),
	}
	return viewResult(snap, query.Apply(rows, preds, ConferenceFields, st)), nil
}

func (s *ViewService) Rankings(ctx context.Context, f RankingsFilter, st query.State) (ViewResult[RankingRow], error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ViewService.Rankings")
	defer span.End()

	snap, err := s.load(ctx, st)
	if err != nil {
		return ViewResult[RankingRow]{}, err
	}

	rows := memoRows(ctx, s.store, rowsKey(snap, "rankings"), func() []RankingRow {
		return buildRankingRows(snap, BuildIndex(snap))
	})

	preds := []query.Predicate[RankingRow]{
		query.ConferenceEquals(f.Conference, func(r RankingRow) string { return r.Entry.Conference }),
		query.TextContains(f.Search, func(r RankingRow) string { return r.TeamName }),
	}
	return viewResult(snap, query.Apply(rows, preds, RankingFields, st)), nil
}

// Team resolves the team-detail header: the team joined with its rank and
// scoring average. Unlike game-row labels this is a direct navigation target,
// so an id missing from the collection is ErrNotFound rather than a synthetic
// placeholder.
func (s *ViewService) Team(ctx context.Context, teamID int64) (TeamRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ViewService.Team")
	defer span.End()

	if teamID <= 0 {
		return TeamRow{}, fmt.Errorf("%w: team id must be greater than zero", ErrInvalidInput)
	}

	snap, err := s.snapshots.Load(ctx)
	if err != nil {
		return TeamRow{}, err
	}

	ix := BuildIndex(snap)
	t, ok := ix.TeamByID[teamID]
	if !ok {
		return TeamRow{}, fmt.Errorf("%w: team %d", ErrNotFound, teamID)
	}

	lookup := ix.RankingFor(t.ID, t.Name)
	return TeamRow{
		Team:         t,
		Conference:   conference.Normalize(t.Conference),
		Rank:         lookup.Rank,
		AvgPointsFor: TeamGameStats(snap.Games)[t.ID].AvgPointsFor(),
	}, nil
}

// TeamGames is the team-detail view: the games collection narrowed to one
// team.
func (s *ViewService) TeamGames(ctx context.Context, teamID int64, st query.State) (ViewResult[GameRow], error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ViewService.TeamGames")
	defer span.End()

	if teamID <= 0 {
		return ViewResult[GameRow]{}, fmt.Errorf("%w: team id must be greater than zero", ErrInvalidInput)
	}

	snap, err := s.load(ctx, st)
	if err != nil {
		return ViewResult[GameRow]{}, err
	}

	rows := memoRows(ctx, s.store, rowsKey(snap, "games"), func() []GameRow {
		return buildGameRows(snap, BuildIndex(snap))
	})

	preds := []query.Predicate[GameRow]{
		query.TeamIDEquals(teamID, func(r GameRow) []int64 {
			return []int64{r.Game.HomeTeamID, r.Game.AwayTeamID}
		}),
	}
	return viewResult(snap, query.Apply(rows, preds, GameFields, st)), nil
}

func (s *ViewService) load(ctx context.Context, st query.State) (Snapshot, error) {
	if err := st.Validate(); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return s.snapshots.Load(ctx)
}

func rowsKey(snap Snapshot, view string) string {
	return fmt.Sprintf("rows:%s:v%d", view, snap.Version)
}

func viewResult[T any](snap Snapshot, res query.Result[T]) ViewResult[T] {
	out := ViewResult[T]{Result: res}
	if len(snap.Errors) > 0 {
		out.SourceErrors = make(map[Source]string, len(snap.Errors))
		for source, err := range snap.Errors {
			out.SourceErrors[source] = err.Error()
		}
	}
	return out
}

// memoRows caches derived rows per snapshot version. Derivation is
// deterministic, so a stale-typed or missing entry simply rebuilds.
func memoRows[T any](ctx context.Context, store *cache.Store, key string, build func() []T) []T {
	if store == nil {
		return build()
	}

	value, err := store.GetOrLoad(ctx, key, func(context.Context) (any, error) {
		return build(), nil
	})
	if err != nil {
		return build()
	}
	rows, ok := value.([]T)
	if !ok {
		return build()
	}
	return rows
}
