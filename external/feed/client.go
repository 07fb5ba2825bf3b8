package feed

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"

	"github.com/avolkov/tourcal/internal/domain/league"
	"github.com/avolkov/tourcal/internal/domain/tour"
	"github.com/avolkov/tourcal/internal/platform/logging"
	"github.com/avolkov/tourcal/internal/platform/resilience"
	"github.com/avolkov/tourcal/internal/usecase"
)

const (
	defaultBaseURL = "https://feed.tourcal.dev/v1"
	defaultTimeout = 20 * time.Second

	// Feed dates come in two shapes: full timestamps for tour deadlines
	// and plain dates for fixtures.
	dateLayout = "2006-01-02"
)

var errFeedTransient = crerr.New("feed transient failure")

type ClientConfig struct {
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the football feed API. It implements both the pipeline's
// FeedClient and the tour source. Transient failures trip a circuit
// breaker; identical in-flight requests are collapsed.
type Client struct {
	httpClient     *fasthttp.Client
	baseURL        string
	token          string
	timeout        time.Duration
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient: &fasthttp.Client{
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.Token),
		timeout:        timeout,
		maxRetries:     cfg.MaxRetries,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.ProbeLimit),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (c *Client) FetchSchedule(ctx context.Context, lg league.League) ([]usecase.ExternalFixtureRow, error) {
	var envelope fixturesEnvelope
	if err := c.doJSON(ctx, c.leaguePath(lg, "fixtures"), &envelope); err != nil {
		return nil, fmt.Errorf("fetch schedule league=%s: %w", lg.ID, err)
	}

	out := make([]usecase.ExternalFixtureRow, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		date := parseFeedDate(item.Date)
		if date == nil {
			continue
		}
		out = append(out, usecase.ExternalFixtureRow{
			HomeTeam:  strings.TrimSpace(item.HomeTeam),
			AwayTeam:  strings.TrimSpace(item.AwayTeam),
			Date:      *date,
			HomeGoals: item.HomeGoals,
			AwayGoals: item.AwayGoals,
		})
	}
	return out, nil
}

func (c *Client) FetchTable(ctx context.Context, lg league.League) ([]usecase.ExternalTableRow, error) {
	var envelope tableEnvelope
	if err := c.doJSON(ctx, c.leaguePath(lg, "table"), &envelope); err != nil {
		return nil, fmt.Errorf("fetch table league=%s: %w", lg.ID, err)
	}

	out := make([]usecase.ExternalTableRow, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		out = append(out, usecase.ExternalTableRow{
			Team:      strings.TrimSpace(item.Team),
			Points:    item.Points,
			Position:  item.Position,
			Played:    item.Played,
			XGFor:     item.XGFor,
			XGAgainst: item.XGAgainst,
		})
	}
	return out, nil
}

func (c *Client) FetchOdds(ctx context.Context, lg league.League) ([]usecase.ExternalOddsRow, error) {
	var envelope oddsEnvelope
	if err := c.doJSON(ctx, c.leaguePath(lg, "odds"), &envelope); err != nil {
		return nil, fmt.Errorf("fetch odds league=%s: %w", lg.ID, err)
	}

	out := make([]usecase.ExternalOddsRow, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		out = append(out, usecase.ExternalOddsRow{
			HomeTeam:    strings.TrimSpace(item.HomeTeam),
			AwayTeam:    strings.TrimSpace(item.AwayTeam),
			Date:        parseFeedDate(item.Date),
			HomeWinOdds: item.HomeWinOdds,
			DrawOdds:    item.DrawOdds,
			AwayWinOdds: item.AwayWinOdds,
		})
	}
	return out, nil
}

// FetchTours implements the tour source against the same feed. Tours are
// addressed by league ID directly; a descriptor with an unparsable
// deadline is skipped rather than failing the whole list.
func (c *Client) FetchTours(ctx context.Context, leagueID string) ([]tour.Descriptor, error) {
	var envelope toursEnvelope
	if err := c.doJSON(ctx, "/leagues/"+leagueID+"/tours", &envelope); err != nil {
		return nil, fmt.Errorf("fetch tours league=%s: %w", leagueID, err)
	}

	out := make([]tour.Descriptor, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		deadline, err := time.Parse(time.RFC3339, item.Deadline)
		if err != nil {
			c.logger.WarnContext(ctx, "skip tour with unparsable deadline",
				"league_id", leagueID,
				"number", item.Number,
				"deadline", item.Deadline,
			)
			continue
		}
		out = append(out, tour.Descriptor{
			LeagueID: leagueID,
			Number:   item.Number,
			Deadline: deadline.UTC(),
			Status:   tour.NormalizeStatus(item.Status),
		})
	}
	return out, nil
}

func (c *Client) leaguePath(lg league.League, resource string) string {
	code := strings.TrimSpace(lg.FeedCode)
	if code == "" {
		code = lg.ID
	}
	return "/leagues/" + code + "/" + resource
}

func (c *Client) doJSON(ctx context.Context, path string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "feed circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: feed is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	fullURL := c.buildURL(path)
	out, err, _ := c.flight.Do(path, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isFeedCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode feed payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, err := c.doFastHTTP(fullURL)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if !stderrors.Is(err, errFeedTransient) {
			return nil, err
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
	return nil, lastErr
}

func (c *Client) doFastHTTP(fullURL string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	if err := c.httpClient.DoTimeout(req, resp, c.timeout); err != nil {
		return nil, fmt.Errorf("%w: send request: %v", errFeedTransient, err)
	}

	status := resp.StatusCode()
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		if isRetryableStatus(status) {
			return nil, fmt.Errorf("%w: feed status=%d body=%s", errFeedTransient, status, abbreviateBody(resp.Body()))
		}
		return nil, fmt.Errorf("feed status=%d body=%s", status, abbreviateBody(resp.Body()))
	}

	// The response buffer is recycled together with the fasthttp response;
	// copy the body out before releasing it.
	return append([]byte(nil), resp.Body()...), nil
}

func (c *Client) buildURL(path string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(c.baseURL)
	_, _ = buf.WriteString(path)
	return buf.String()
}

func isFeedCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errFeedTransient)
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}

func abbreviateBody(raw []byte) string {
	const maxLen = 256
	body := strings.TrimSpace(string(raw))
	if len(body) <= maxLen {
		return body
	}
	return body[:maxLen] + "...(truncated)"
}

func parseFeedDate(raw *string) *time.Time {
	if raw == nil {
		return nil
	}
	value := strings.TrimSpace(*raw)
	if value == "" {
		return nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		utc := parsed.UTC()
		return &utc
	}
	if parsed, err := time.Parse(dateLayout, value); err == nil {
		utc := parsed.UTC()
		return &utc
	}
	return nil
}
