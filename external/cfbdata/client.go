// Package cfbdata fetches the college football stats API and normalizes its
// loosely-typed JSON payloads into the dashboard's domain entities. All field
// alias resolution happens here; nothing downstream inspects record shape.
package cfbdata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/gridironhq/cfbdash/domain/game"
	"github.com/gridironhq/cfbdash/domain/ranking"
	"github.com/gridironhq/cfbdash/domain/team"
	"github.com/gridironhq/cfbdash/platform/logging"
	"github.com/gridironhq/cfbdash/platform/resilience"
)

const (
	defaultBaseURL = "https://api.cfbstats.dev"
	defaultTimeout = 20 * time.Second

	teamsPath    = "/v1/teams"
	gamesPath    = "/v1/games"
	rankingsPath = "/v1/ranker"

	maxBodyBytes = 6 << 20
)

// StatusError is a non-2xx response, carrying the HTTP status and reason text
// the presentation layer surfaces verbatim.
type StatusError struct {
	Status int
	Reason string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("cfb api status=%d reason=%s", e.Status, e.Reason)
}

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	Timeout    time.Duration
	Logger     *logging.Logger
}

// Client is a read-only HTTP client for the three stats endpoints. There are
// no retries: a failed fetch is surfaced and re-run only by an explicit
// refresh. A per-path single flight keeps overlapping requests for the same
// resource from stacking up.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *logging.Logger
	flight     resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		logger:     logger,
	}
}

// FetchTeams returns the team collection. A payload that is not an array
// degrades to an empty collection, never an error.
func (c *Client) FetchTeams(ctx context.Context) ([]team.Team, error) {
	raw, err := c.get(ctx, teamsPath)
	if err != nil {
		return nil, err
	}
	return parseTeams(decodeRecords(raw)), nil
}

// FetchGames returns the game collection.
func (c *Client) FetchGames(ctx context.Context) ([]game.Game, error) {
	raw, err := c.get(ctx, gamesPath)
	if err != nil {
		return nil, err
	}
	return parseGames(decodeRecords(raw)), nil
}

// FetchRankings returns the ranker payload: either a bare array of entries or
// an object wrapping one under raw_ranking, plus the global scalars.
func (c *Client) FetchRankings(ctx context.Context) (ranking.Set, error) {
	raw, err := c.get(ctx, rankingsPath)
	if err != nil {
		return ranking.Set{}, err
	}
	return parseRankingSet(raw), nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	out, err, _ := c.flight.Do(path, func() (any, error) {
		return c.executeRequest(ctx, c.baseURL+path)
	})
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, crerr.Newf("unexpected response payload type %T", out)
	}
	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, crerr.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "cfb api request failed", "url", fullURL, "error", err)
		return nil, crerr.Wrap(err, "send request")
	}
	defer func() { _ = resp.Body.Close() }()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if _, err := buf.ReadFrom(io.LimitReader(resp.Body, maxBodyBytes)); err != nil {
		return nil, crerr.Wrap(err, "read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, fmt.Sprintf("%d", resp.StatusCode)))
		if reason == "" {
			reason = http.StatusText(resp.StatusCode)
		}
		statusErr := &StatusError{Status: resp.StatusCode, Reason: reason}
		c.logger.WarnContext(ctx, "cfb api returned non-2xx", "url", fullURL, "status", resp.StatusCode)
		return nil, statusErr
	}

	raw := make([]byte, len(buf.B))
	copy(raw, buf.B)
	return raw, nil
}

// decodeRecords decodes a payload expected to be a JSON array of objects.
// Any other shape yields an empty slice.
func decodeRecords(raw []byte) []map[string]any {
	var value any
	if err := sonic.Unmarshal(raw, &value); err != nil {
		return nil
	}
	return coerceRecords(value)
}

func coerceRecords(value any) []map[string]any {
	items, ok := value.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		row, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, row)
	}
	return out
}
