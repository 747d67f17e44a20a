package balldontlie

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/courtdata/nba-analytics/internal/platform/logging"
	"github.com/courtdata/nba-analytics/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL     = "https://api.balldontlie.io/v1"
	defaultPerPage     = 100
	defaultMinInterval = 100 * time.Millisecond
	maxResponseBytes   = 6 << 20
)

var errTransient = crerr.New("balldontlie transient failure")

type ClientConfig struct {
	HTTPClient  *http.Client
	BaseURL     string
	APIKey      string
	Timeout     time.Duration
	MaxRetries  int
	PerPage     int
	MinInterval time.Duration
	Logger      *logging.Logger
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	maxRetries int
	perPage    int
	limiter    *rate.Limiter
	logger     *logging.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	perPage := cfg.PerPage
	if perPage <= 0 || perPage > defaultPerPage {
		perPage = defaultPerPage
	}

	interval := cfg.MinInterval
	if interval <= 0 {
		interval = defaultMinInterval
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		maxRetries: maxInt(cfg.MaxRetries, 0),
		perPage:    perPage,
		limiter:    rate.NewLimiter(rate.Every(interval), 1),
		logger:     logger,
	}
}

func (c *Client) FetchTeams(ctx context.Context) ([]usecase.ExternalTeam, error) {
	var envelope teamEnvelope
	if err := c.doJSON(ctx, "/teams", map[string]string{"per_page": strconv.Itoa(c.perPage)}, &envelope); err != nil {
		return nil, fmt.Errorf("fetch teams: %w", err)
	}

	out := make([]usecase.ExternalTeam, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		if item.ID <= 0 {
			continue
		}
		out = append(out, mapTeam(item))
	}
	return out, nil
}

func (c *Client) FetchActivePlayers(ctx context.Context) ([]usecase.ExternalPlayer, error) {
	out := make([]usecase.ExternalPlayer, 0, 512)

	var cursor *int64
	for {
		query := map[string]string{"per_page": strconv.Itoa(c.perPage)}
		if cursor != nil {
			query["cursor"] = strconv.FormatInt(*cursor, 10)
		}

		var envelope playerEnvelope
		if err := c.doJSON(ctx, "/players/active", query, &envelope); err != nil {
			return nil, fmt.Errorf("fetch active players: %w", err)
		}

		for _, item := range envelope.Data {
			if item.ID <= 0 {
				continue
			}
			out = append(out, mapPlayer(item))
		}

		next := nextCursor(envelope.Meta)
		if next == nil && len(envelope.Data) >= c.perPage {
			c.logger.WarnContext(ctx, "provider returned full page without cursor, stopping pagination", "endpoint", "/players/active", "rows", len(envelope.Data))
		}
		if next == nil || len(envelope.Data) < c.perPage {
			return out, nil
		}
		cursor = next
	}
}

func (c *Client) FetchStatsByDate(ctx context.Context, date time.Time) ([]usecase.ExternalStatLine, error) {
	if date.IsZero() {
		return nil, fmt.Errorf("%w: stats date must be set", usecase.ErrInvalidInput)
	}

	day := date.UTC().Format("2006-01-02")
	out := make([]usecase.ExternalStatLine, 0, 256)

	var cursor *int64
	for {
		query := map[string]string{
			"per_page": strconv.Itoa(c.perPage),
			"dates[]":  day,
		}
		if cursor != nil {
			query["cursor"] = strconv.FormatInt(*cursor, 10)
		}

		var envelope statEnvelope
		if err := c.doJSON(ctx, "/stats", query, &envelope); err != nil {
			return nil, fmt.Errorf("fetch stats date=%s: %w", day, err)
		}

		for _, item := range envelope.Data {
			line, ok := mapStatLine(item)
			if !ok {
				continue
			}
			out = append(out, line)
		}

		next := nextCursor(envelope.Meta)
		if next == nil || len(envelope.Data) < c.perPage {
			return out, nil
		}
		cursor = next
	}
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	raw, err := c.executeRequest(ctx, fullURL)
	if err != nil {
		return err
	}
	defer bytebufferpool.Put(raw)

	if err := sonic.Unmarshal(raw.B, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) (*bytebufferpool.ByteBuffer, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		if c.apiKey != "" {
			req.Header.Set("Authorization", c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errTransient, err)
		} else {
			buf := bytebufferpool.Get()
			_, readErr := buf.ReadFrom(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()

			switch {
			case readErr != nil:
				bytebufferpool.Put(buf)
				lastErr = fmt.Errorf("%w: read response body: %v", errTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return buf, nil
			default:
				statusErr := classifyStatus(resp.StatusCode, buf.B)
				bytebufferpool.Put(buf)
				lastErr = statusErr
				if !retryable(statusErr) {
					return nil, statusErr
				}
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	if crerr.Is(lastErr, errTransient) {
		lastErr = fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, lastErr)
	}
	c.logger.WarnContext(ctx, "balldontlie request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

// classifyStatus maps a non-2xx provider status to the error the sync
// orchestrator keys its abort/retry decisions on.
func classifyStatus(status int, body []byte) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: provider status=%d", usecase.ErrProviderAuth, status)
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: provider status=%d", usecase.ErrNotFound, status)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: provider status=%d", usecase.ErrProviderRateLimited, status)
	case status >= 500:
		return fmt.Errorf("%w: provider status=%d body=%s", errTransient, status, abbreviateBody(body))
	default:
		return fmt.Errorf("provider status=%d body=%s", status, abbreviateBody(body))
	}
}

func retryable(err error) bool {
	return crerr.Is(err, errTransient) || crerr.Is(err, usecase.ErrProviderRateLimited)
}

func nextCursor(meta *wireMeta) *int64 {
	if meta == nil || meta.NextCursor == nil || *meta.NextCursor <= 0 {
		return nil
	}
	return meta.NextCursor
}

func mapTeam(item wireTeam) usecase.ExternalTeam {
	return usecase.ExternalTeam{
		ID:           item.ID,
		Abbreviation: strings.TrimSpace(item.Abbreviation),
		City:         strings.TrimSpace(item.City),
		Conference:   strings.TrimSpace(item.Conference),
		Division:     strings.TrimSpace(item.Division),
		FullName:     strings.TrimSpace(item.FullName),
		Name:         strings.TrimSpace(item.Name),
	}
}

func mapPlayer(item wirePlayer) usecase.ExternalPlayer {
	out := usecase.ExternalPlayer{
		ID:        item.ID,
		FirstName: strings.TrimSpace(item.FirstName),
		LastName:  strings.TrimSpace(item.LastName),
		Position:  strings.TrimSpace(item.Position),
	}
	if item.Team != nil && item.Team.ID > 0 {
		out.TeamID = item.Team.ID
	}
	return out
}

func mapStatLine(item wireStat) (usecase.ExternalStatLine, bool) {
	if item.Player.ID <= 0 || item.Game.ID <= 0 || item.Team.ID <= 0 {
		return usecase.ExternalStatLine{}, false
	}

	game, ok := mapGame(item.Game)
	if !ok {
		return usecase.ExternalStatLine{}, false
	}

	return usecase.ExternalStatLine{
		Player:    mapPlayer(item.Player),
		Team:      mapTeam(item.Team),
		Game:      game,
		Minutes:   strings.TrimSpace(item.Min),
		FGM:       item.FGM,
		FGA:       item.FGA,
		FG3M:      item.FG3M,
		FG3A:      item.FG3A,
		FTM:       item.FTM,
		FTA:       item.FTA,
		OffReb:    item.OReb,
		DefReb:    item.DReb,
		Rebounds:  item.Reb,
		Assists:   item.Ast,
		Steals:    item.Stl,
		Blocks:    item.Blk,
		Turnovers: item.Turnover,
		Fouls:     item.PF,
		Points:    item.Pts,
	}, true
}

func mapGame(item wireGame) (usecase.ExternalGame, bool) {
	parsed, err := parseGameDate(item.Date)
	if err != nil {
		return usecase.ExternalGame{}, false
	}
	return usecase.ExternalGame{
		ID:            item.ID,
		Date:          parsed,
		Season:        item.Season,
		Status:        strings.TrimSpace(item.Status),
		HomeTeamID:    item.HomeTeamID,
		VisitorTeamID: item.VisitorTeamID,
		HomeScore:     item.HomeScore,
		VisitorScore:  item.VisitorScore,
	}, true
}

func parseGameDate(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable game date %q", raw)
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	value := strings.TrimSpace(string(raw))
	if len(value) > limit {
		return value[:limit] + "..."
	}
	return value
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
