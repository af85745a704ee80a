package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"

	"github.com/naka-gawa/jobapp-metrics/internal/domain"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/publicsuffix"
)

// MetricsPath is appended to the configured base URL.
const MetricsPath = "/dashboard-metrics"

var (
	// ErrUnexpectedStatus is returned for any response status outside 2xx.
	ErrUnexpectedStatus = errors.New("unexpected response status")
	// ErrDecodePayload is returned when the body is not a JSON metrics object.
	ErrDecodePayload = errors.New("failed to decode metrics payload")
)

// MetricsFetcher defines the behavior of a gateway for fetching dashboard metrics.
type MetricsFetcher interface {
	FetchMetrics(ctx context.Context, baseURL string) (*domain.MetricsPayload, error)
}

// MetricsGateway fetches the metrics payload over HTTP. Its client carries a
// cookie jar so that session cookies travel with every request.
type MetricsGateway struct {
	httpClient    *http.Client
	sessionCookie []*http.Cookie
	strict        bool
	logger        logrus.FieldLogger
}

// MetricsOption configures a MetricsGateway.
type MetricsOption func(*MetricsGateway)

// WithHTTPClient replaces the default client. The client's jar, if any, is kept.
func WithHTTPClient(c *http.Client) MetricsOption {
	return func(g *MetricsGateway) { g.httpClient = c }
}

// WithSessionCookie seeds the jar with a "name=value" cookie for every base URL
// that is fetched.
func WithSessionCookie(cookie string) MetricsOption {
	return func(g *MetricsGateway) {
		if cookie == "" {
			return
		}
		cookies, err := http.ParseCookie(cookie)
		if err != nil {
			g.logger.WithError(err).Warn("Ignoring malformed session cookie")
			return
		}
		for _, c := range cookies {
			c.Path = "/"
		}
		g.sessionCookie = cookies
	}
}

// WithStrictValidation makes FetchMetrics reject payloads whose values are
// out of range.
func WithStrictValidation(strict bool) MetricsOption {
	return func(g *MetricsGateway) { g.strict = strict }
}

// NewMetricsGateway is a constructor that creates a new instance of MetricsGateway.
func NewMetricsGateway(logger logrus.FieldLogger, opts ...MetricsOption) (*MetricsGateway, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	g := &MetricsGateway{
		httpClient: &http.Client{Jar: jar},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.httpClient.Jar == nil {
		g.httpClient.Jar = jar
	}
	return g, nil
}

// FetchMetrics issues a single GET to {baseURL}/dashboard-metrics and decodes
// the body. It does not retry.
func (g *MetricsGateway) FetchMetrics(ctx context.Context, baseURL string) (*domain.MetricsPayload, error) {
	endpoint := baseURL + MetricsPath
	g.logger.WithField("url", endpoint).Debug("Fetching dashboard metrics...")

	if len(g.sessionCookie) > 0 {
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
		}
		g.httpClient.Jar.SetCookies(u, g.sessionCookie)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build metrics request: %w", err)
	}
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to request metrics: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read metrics response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}

	payload, err := decodePayload(body)
	if err != nil {
		return nil, err
	}
	if g.strict {
		if err := payload.Validate(); err != nil {
			return nil, err
		}
	}
	g.logger.Debug("Completed fetching dashboard metrics.")
	return payload, nil
}

func decodePayload(body []byte) (*domain.MetricsPayload, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: body is not a JSON object", ErrDecodePayload)
	}
	var payload domain.MetricsPayload
	if err := json.Unmarshal(trimmed, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodePayload, err)
	}
	return &payload, nil
}
