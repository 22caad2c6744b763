package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/gridironhq/cfbdash/platform/logging"
)

const (
	refreshStatusSuccess = "success"
	refreshStatusFailed  = "failed"
	refreshStatusSkipped = "skipped"

	defaultRefreshWorkers = 3
)

type RefreshInput struct {
	// Views narrows the refresh to the named views; empty means all.
	Views []string
	// OnlyStale skips views that already hold a snapshot.
	OnlyStale  bool
	MaxWorkers int
}

type RefreshResult struct {
	TaskCount    int                 `json:"task_count"`
	SuccessCount int                 `json:"success_count"`
	FailedCount  int                 `json:"failed_count"`
	SkippedCount int                 `json:"skipped_count"`
	WorkerCount  int                 `json:"worker_count"`
	Tasks        []RefreshTaskResult `json:"tasks"`
}

type RefreshTaskResult struct {
	View       string `json:"view"`
	Status     string `json:"status"`
	Teams      int    `json:"teams"`
	Games      int    `json:"games"`
	Rankings   int    `json:"rankings"`
	DurationMs int64  `json:"duration_ms"`
	Message    string `json:"message,omitempty"`
}

// RefreshService fans a refresh out over every registered view. Views hold
// independent snapshots, so their refreshes are independent tasks that run on
// a shared worker pool.
type RefreshService struct {
	snapshots map[string]*SnapshotService
	logger    *logging.Logger
}

func NewRefreshService(snapshots map[string]*SnapshotService, logger *logging.Logger) *RefreshService {
	if logger == nil {
		logger = logging.Default()
	}
	return &RefreshService{
		snapshots: snapshots,
		logger:    logger,
	}
}

func (s *RefreshService) RefreshAll(ctx context.Context, input RefreshInput) (RefreshResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RefreshService.RefreshAll")
	defer span.End()

	views, err := s.resolveViews(input.Views)
	if err != nil {
		return RefreshResult{}, err
	}

	workerCount := input.MaxWorkers
	if workerCount <= 0 {
		workerCount = defaultRefreshWorkers
	}
	if workerCount > len(views) {
		workerCount = len(views)
	}

	result := RefreshResult{
		TaskCount:   len(views),
		WorkerCount: workerCount,
		Tasks:       make([]RefreshTaskResult, 0, len(views)),
	}
	if len(views) == 0 {
		return result, nil
	}

	results := make(chan RefreshTaskResult, len(views))

	var successCount atomic.Int32
	var failedCount atomic.Int32
	var skippedCount atomic.Int32

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, view := range views {
		view := view
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := RefreshTaskResult{View: view}

			svc := s.snapshots[view]
			if _, ok := svc.Current(); ok && input.OnlyStale {
				row.Status = refreshStatusSkipped
				row.Message = "snapshot already present"
				skippedCount.Add(1)
				row.DurationMs = time.Since(start).Milliseconds()
				results <- row
				return
			}

			snap, refreshErr := svc.Refresh(ctx)
			row.DurationMs = time.Since(start).Milliseconds()
			if refreshErr != nil {
				row.Status = refreshStatusFailed
				row.Message = refreshErr.Error()
				failedCount.Add(1)
				results <- row
				return
			}

			row.Status = refreshStatusSuccess
			row.Teams = len(snap.Teams)
			row.Games = len(snap.Games)
			row.Rankings = len(snap.Rankings.Entries)
			successCount.Add(1)
			results <- row
		}); err != nil {
			workers.Done()
			return RefreshResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	for row := range results {
		result.Tasks = append(result.Tasks, row)
	}
	sort.SliceStable(result.Tasks, func(i, j int) bool {
		return result.Tasks[i].View < result.Tasks[j].View
	})

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())
	result.SkippedCount = int(skippedCount.Load())

	s.logger.InfoContext(ctx, "refresh cycle finished",
		"tasks", result.TaskCount,
		"success", result.SuccessCount,
		"failed", result.FailedCount,
		"skipped", result.SkippedCount,
	)
	return result, nil
}

func (s *RefreshService) resolveViews(requested []string) ([]string, error) {
	if len(requested) == 0 {
		out := make([]string, 0, len(s.snapshots))
		for view := range s.snapshots {
			out = append(out, view)
		}
		sort.Strings(out)
		return out, nil
	}

	out := make([]string, 0, len(requested))
	seen := make(map[string]struct{}, len(requested))
	for _, view := range requested {
		view = strings.TrimSpace(view)
		if view == "" {
			continue
		}
		if _, ok := s.snapshots[view]; !ok {
			return nil, fmt.Errorf("%w: unknown view %q", ErrInvalidInput, view)
		}
		if _, dup := seen[view]; dup {
			continue
		}
		seen[view] = struct{}{}
		out = append(out, view)
	}
	sort.Strings(out)
	return out, nil
}
