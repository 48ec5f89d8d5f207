// Package infohub is the HTTP client for the InfoHub document search API.
package infohub

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/geotaxlab/infohub-agent/internal/domain"
	"github.com/geotaxlab/infohub-agent/internal/metrics"
	"github.com/geotaxlab/infohub-agent/internal/usecase/retrieval"
)

// portalBase is the public document portal; the API returns only uniqueKey,
// the browsable URL is assembled from it.
const portalBase = "https://infohub.rs.ge"

// Client searches the InfoHub API. Safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	language   string
	logger     *zap.Logger
}

// Config holds the InfoHub client settings.
type Config struct {
	BaseURL  string
	Language string
	Timeout  time.Duration
	Logger   *zap.Logger
}

// NewClient creates an InfoHub search client.
func NewClient(cfg *Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		language:   cfg.Language,
		logger:     cfg.Logger,
	}
}

var _ retrieval.Searcher = (*Client)(nil)

// searchResponse mirrors the relevant parts of the API's search payload.
type searchResponse struct {
	TotalCount int            `json:"totalCount"`
	Data       []searchRecord `json:"data"`
}

type searchRecord struct {
	Name                  string    `json:"name"`
	AdditionalDescription string    `json:"additionalDescription"`
	UniqueKey             string    `json:"uniqueKey"`
	ReceiptDate           string    `json:"receiptDate"`
	Type                  namedItem `json:"type"`
	BaseType              namedItem `json:"baseType"`
}

type namedItem struct {
	Name string `json:"name"`
}

// Search implements retrieval.Searcher. A non-2xx status or malformed body
// is returned as an error; the retrieval layer treats it as an empty variant.
func (c *Client) Search(ctx context.Context, query string, topK int) (retrieval.SearchPage, error) {
	req, err := c.buildRequest(ctx, query, topK)
	if err != nil {
		return retrieval.SearchPage{}, err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("error").Inc()
		return retrieval.SearchPage{}, fmt.Errorf("search request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.SearchRequestsTotal.WithLabelValues("error").Inc()
		return retrieval.SearchPage{}, fmt.Errorf("search request: unexpected status %d", resp.StatusCode)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("error").Inc()
		return retrieval.SearchPage{}, fmt.Errorf("decode search response: %w", err)
	}

	metrics.SearchRequestsTotal.WithLabelValues("success").Inc()
	metrics.SearchRequestDuration.Observe(duration.Seconds())

	docs := make([]domain.Document, 0, len(payload.Data))
	for _, rec := range payload.Data {
		docs = append(docs, c.toDocument(rec))
	}

	c.logger.Debug("search completed",
		zap.String("query", query),
		zap.Int("hits", len(docs)),
		zap.Int("total", payload.TotalCount),
		zap.Duration("duration", duration),
	)

	return retrieval.SearchPage{Documents: docs, Total: payload.TotalCount}, nil
}

func (c *Client) buildRequest(ctx context.Context, query string, topK int) (*http.Request, error) {
	params := url.Values{
		"q":                   {query},
		"AISearch":            {"false"},
		"searchInName":        {"true"},
		"searchInText":        {"true"},
		"searchType":          {"3"},
		"searchForm":          {"false"},
		"skip":                {"0"},
		"take":                {strconv.Itoa(topK)},
		"searchInAllSubTypes": {"false"},
	}

	endpoint := c.baseURL + "/documents/search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}

	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("languagecode", c.language)
	req.Header.Set("Referer", portalBase+"/")

	return req, nil
}

// toDocument sanitizes a raw API record: HTML is stripped from the
// description and missing fields become empty strings rather than errors.
func (c *Client) toDocument(rec searchRecord) domain.Document {
	docURL := ""
	if rec.UniqueKey != "" {
		docURL = fmt.Sprintf("%s/%s/workspace/document/%s", portalBase, c.language, rec.UniqueKey)
	}

	return domain.Document{
		UUID:        rec.UniqueKey,
		Name:        rec.Name,
		Description: stripHTML(rec.AdditionalDescription),
		Type:        rec.Type.Name,
		BaseType:    rec.BaseType.Name,
		URL:         docURL,
		Date:        rec.ReceiptDate,
	}
}
