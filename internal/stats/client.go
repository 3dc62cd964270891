package stats

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/gatherhub/server/internal/stats"

// TimeLayout is the wire format for timestamps exchanged with the stats
// service.
const TimeLayout = "2006-01-02 15:04:05"

// Hit records one view of a URI by a client address.
type Hit struct {
	App       string    `json:"app"`
	URI       string    `json:"uri"`
	IP        string    `json:"ip"`
	Timestamp time.Time `json:"-"`
}

// ViewStat is an aggregated view count for one app/URI pair.
type ViewStat struct {
	App  string `json:"app"`
	URI  string `json:"uri"`
	Hits int64  `json:"hits"`
}

// Client is the view-count collaborator. RecordHit is best effort: callers
// on read paths must not fail when it errors.
type Client interface {
	RecordHit(ctx context.Context, hit Hit) error
	ViewCounts(ctx context.Context, start, end time.Time, uris []string, unique bool) (map[string]int64, error)
}

type wireHit struct {
	App       string `json:"app"`
	URI       string `json:"uri"`
	IP        string `json:"ip"`
	Timestamp string `json:"timestamp"`
}

// HTTPClient talks to the stats service over its JSON API.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPClient(baseURL string, client *http.Client) *HTTPClient {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &HTTPClient{baseURL: baseURL, client: client}
}

func (c *HTTPClient) RecordHit(ctx context.Context, hit Hit) (err error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "stats.RecordHit",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("stats.uri", hit.URI)),
	)
	defer func() { endSpan(span, err) }()

	payload, err := json.Marshal(wireHit{
		App:       hit.App,
		URI:       hit.URI,
		IP:        hit.IP,
		Timestamp: hit.Timestamp.UTC().Format(TimeLayout),
	})
	if err != nil {
		return fmt.Errorf("encode hit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/hit", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build hit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("record hit: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("record hit: unexpected status %d", resp.StatusCode)
	}
	return nil
}

func (c *HTTPClient) ViewCounts(ctx context.Context, start, end time.Time, uris []string, unique bool) (_ map[string]int64, err error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "stats.ViewCounts",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.Int("stats.uri_count", len(uris))),
	)
	defer func() { endSpan(span, err) }()

	params := url.Values{}
	params.Set("start", start.UTC().Format(TimeLayout))
	params.Set("end", end.UTC().Format(TimeLayout))
	for _, uri := range uris {
		params.Add("uris", uri)
	}
	params.Set("unique", strconv.FormatBool(unique))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/stats?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build stats request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get stats: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get stats: unexpected status %d", resp.StatusCode)
	}

	var items []ViewStat
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode stats: %w", err)
	}

	counts := make(map[string]int64, len(uris))
	for _, uri := range uris {
		counts[uri] = 0
	}
	for _, item := range items {
		counts[item.URI] = item.Hits
	}
	return counts, nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// Noop discards hits and reports zero views. Used when no stats service is
// configured.
type Noop struct{}

func (Noop) RecordHit(context.Context, Hit) error { return nil }

func (Noop) ViewCounts(_ context.Context, _, _ time.Time, uris []string, _ bool) (map[string]int64, error) {
	counts := make(map[string]int64, len(uris))
	for _, uri := range uris {
		counts[uri] = 0
	}
	return counts, nil
}
