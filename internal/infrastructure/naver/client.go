package naver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/giftgenie/backend/internal/domain"
	"github.com/giftgenie/backend/internal/observability"
)

var tracer = otel.Tracer("github.com/giftgenie/backend/internal/infrastructure/naver")

const (
	// DefaultBaseURL is the public Naver Open API host
	DefaultBaseURL = "https://openapi.naver.com"
	searchPath     = "/v1/search/shop.json"

	defaultDisplay = 30
	maxDisplay     = 100
	maxErrorBody   = 512
)

// Config holds configuration for the shopping search client
type Config struct {
	ClientID            string
	ClientSecret        string
	BaseURL             string
	Display             int
	Timeout             time.Duration
	RatePerSecond       float64
	Burst               int
	LowerBoundInclusive bool
	MinTitleLength      int
}

// Client handles communication with the Naver shopping search API.
// Without credentials every call is answered by the simulator.
type Client struct {
	httpClient   *http.Client
	clientID     string
	clientSecret string
	baseURL      string
	display      int
	rateLimiter  *rate.Limiter
	filter       *Filter
	simulator    *Simulator
	logger       zerolog.Logger
}

// NewClient creates a new shopping search client
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	display := cfg.Display
	if display <= 0 {
		display = defaultDisplay
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	// The search API allows 10 calls per second per application
	perSecond := cfg.RatePerSecond
	if perSecond <= 0 {
		perSecond = 10
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 3
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		baseURL:      baseURL,
		display:      display,
		rateLimiter:  rate.NewLimiter(rate.Limit(perSecond), burst),
		filter:       NewFilter(cfg.LowerBoundInclusive, cfg.MinTitleLength),
		simulator:    NewSimulator(),
		logger:       logger,
	}
}

// Configured reports whether API credentials are present.
func (c *Client) Configured() bool {
	return c.clientID != "" && c.clientSecret != ""
}

// Search runs the query under every sort order and merges the filtered records.
// Transport failures are answered by the simulator and tagged as such; the only
// error returned is context cancellation.
func (c *Client) Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchResult, error) {
	display := req.Display
	if display <= 0 {
		display = c.display
	}
	perSort := min((display+len(domain.SortOrders)-1)/len(domain.SortOrders), maxDisplay)

	result := &domain.SearchResult{}
	for _, order := range domain.SortOrders {
		products, provenance, err := c.searchSort(ctx, req, order, perSort)
		if err != nil {
			return nil, err
		}
		result.Calls++
		result.Provenance = domain.CombineProvenance(result.Provenance, provenance)

		for _, p := range products {
			if ok, reason := c.filter.Check(p, req.Budget); !ok {
				observability.RecordsDroppedTotal.WithLabelValues(reason).Inc()
				result.Dropped++
				continue
			}
			result.Products = append(result.Products, p)
		}
	}

	c.logger.Debug().
		Str("query", req.Query).
		Int("products", len(result.Products)).
		Int("dropped", result.Dropped).
		Str("provenance", string(result.Provenance)).
		Msg("search finished")

	return result, nil
}

// searchSort issues one call and maps its records. Any transport failure falls back to the simulator.
func (c *Client) searchSort(
	ctx context.Context,
	req domain.SearchRequest,
	order domain.SortOrder,
	n int,
) ([]domain.CatalogProduct, domain.Provenance, error) {
	ctx, span := tracer.Start(ctx, "naver.search", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("query", req.Query),
		attribute.String("sort", string(order)),
		attribute.Int("display", n),
	)

	if !c.Configured() {
		observability.SearchCallsTotal.WithLabelValues(string(order), "simulated").Inc()
		return c.simulator.Products(req.Query, order, n, req.Budget), domain.ProvenanceSimulated, nil
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, "", fmt.Errorf("rate limiter: %w", err)
	}

	body, err := c.fetch(ctx, req.Query, order, n)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, "", ctxErr
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "search call failed")
		observability.SearchCallsTotal.WithLabelValues(string(order), "error").Inc()
		c.logger.Warn().Err(err).
			Str("query", req.Query).
			Str("sort", string(order)).
			Msg("search call failed, using simulated products")
		return c.simulator.Products(req.Query, order, n, req.Budget), domain.ProvenanceSimulated, nil
	}
	observability.SearchCallsTotal.WithLabelValues(string(order), "ok").Inc()

	products := make([]domain.CatalogProduct, 0, len(body.Items))
	for _, item := range body.Items {
		p, err := mapItem(item, order)
		if err != nil {
			observability.RecordsDroppedTotal.WithLabelValues(dropParse).Inc()
			c.logger.Debug().Err(err).Str("title", item.Title).Msg("dropping record")
			continue
		}
		products = append(products, p)
	}
	span.SetAttributes(attribute.Int("records", len(products)))

	return products, domain.ProvenanceReal, nil
}

// fetch executes one search call. Non-success statuses and undecodable bodies are transport errors.
func (c *Client) fetch(ctx context.Context, query string, order domain.SortOrder, n int) (*searchResponse, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("display", strconv.Itoa(n))
	params.Set("start", "1")
	params.Set("sort", string(order))
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, searchPath, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Naver-Client-Id", c.clientID)
	req.Header.Set("X-Naver-Client-Secret", c.clientSecret)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "GiftGenie/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("%w: status %d, body: %s", domain.ErrTransport, resp.StatusCode, string(snippet))
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", domain.ErrTransport, err)
	}
	return &body, nil
}
