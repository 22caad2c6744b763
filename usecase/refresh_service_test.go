package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/gridironhq/cfbdash/domain/team"
	"github.com/gridironhq/cfbdash/platform/logging"
)

func newRefreshFixture() (map[string]*SnapshotService, map[string]*stubSource) {
	sources := map[string]*stubSource{
		"games": {teams: []team.Team{{ID: 1, Name: "Alpha"}}},
		"teams": {teams: []team.Team{{ID: 1, Name: "Alpha"}, {ID: 2, Name: "Beta"}}},
	}
	snapshots := make(map[string]*SnapshotService, len(sources))
	for view, source := range sources {
		snapshots[view] = NewSnapshotService(source, logging.NewNop())
	}
	return snapshots, sources
}

func TestRefreshAll_AllViews(t *testing.T) {
	t.Parallel()

	snapshots, _ := newRefreshFixture()
	svc := NewRefreshService(snapshots, logging.NewNop())

	result, err := svc.RefreshAll(context.Background(), RefreshInput{})
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if result.TaskCount != 2 || result.SuccessCount != 2 || result.FailedCount != 0 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	if len(result.Tasks) != 2 || result.Tasks[0].View != "games" || result.Tasks[1].View != "teams" {
		t.Fatalf("tasks must be sorted by view: %+v", result.Tasks)
	}
	if result.Tasks[1].Teams != 2 {
		t.Fatalf("unexpected team count for teams view: %d", result.Tasks[1].Teams)
	}
}

func TestRefreshAll_OnlyStaleSkipsLoadedViews(t *testing.T) {
	t.Parallel()

	snapshots, _ := newRefreshFixture()
	if _, err := snapshots["games"].Refresh(context.Background()); err != nil {
		t.Fatalf("preload failed: %v", err)
	}

	svc := NewRefreshService(snapshots, logging.NewNop())
	result, err := svc.RefreshAll(context.Background(), RefreshInput{OnlyStale: true})
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if result.SkippedCount != 1 || result.SuccessCount != 1 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	if result.Tasks[0].Status != refreshStatusSkipped {
		t.Fatalf("games view should be skipped, got status=%s", result.Tasks[0].Status)
	}
}

func TestRefreshAll_FailedViewReported(t *testing.T) {
	t.Parallel()

	snapshots, sources := newRefreshFixture()
	broken := sources["games"]
	broken.teamsErr = errors.New("teams down")
	broken.gamesErr = errors.New("games down")
	broken.rankingsErr = errors.New("ranker down")

	svc := NewRefreshService(snapshots, logging.NewNop())
	result, err := svc.RefreshAll(context.Background(), RefreshInput{})
	if err != nil {
		t.Fatalf("cycle level error not expected: %v", err)
	}
	if result.FailedCount != 1 || result.SuccessCount != 1 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	if result.Tasks[0].Status != refreshStatusFailed || result.Tasks[0].Message == "" {
		t.Fatalf("failed task must carry a message: %+v", result.Tasks[0])
	}
}

func TestRefreshAll_UnknownViewRejected(t *testing.T) {
	t.Parallel()

	snapshots, _ := newRefreshFixture()
	svc := NewRefreshService(snapshots, logging.NewNop())

	_, err := svc.RefreshAll(context.Background(), RefreshInput{Views: []string{"standings"}})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got: %v", err)
	}
}

func TestRefreshAll_NarrowedToRequestedViews(t *testing.T) {
	t.Parallel()

	snapshots, sources := newRefreshFixture()
	svc := NewRefreshService(snapshots, logging.NewNop())

	result, err := svc.RefreshAll(context.Background(), RefreshInput{Views: []string{"teams", "teams"}})
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if result.TaskCount != 1 || result.Tasks[0].View != "teams" {
		t.Fatalf("unexpected tasks: %+v", result.Tasks)
	}
	if got := sources["games"].calls(); got != 0 {
		t.Fatalf("games view must not be touched, got %d fetches", got)
	}
}
