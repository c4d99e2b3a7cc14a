package cms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"manahub/internal/cache"

	"golang.org/x/time/rate"
)

const (
	// Rate limiting: keep well under typical headless-CMS API quotas
	rateLimit = 10
	rateBurst = 20

	// Retry configuration
	maxRetries   = 3
	initialDelay = 1 * time.Second

	articleCacheTTL = 5 * time.Minute
)

// ErrNotFound is returned when the CMS has no article for a slug.
var ErrNotFound = errors.New("article not found")

// Article is the metadata subset this service needs from the CMS document store.
type Article struct {
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt"`
	PublishedAt time.Time `json:"published_at"`
}

// Client handles CMS API requests with rate limiting and retry logic
type Client struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	cache       *cache.Cache
}

// NewClient creates a new CMS document-store client
func NewClient(baseURL, apiKey string, c *cache.Cache) *Client {
	return &Client{
		baseURL:     baseURL,
		apiKey:      apiKey,
		rateLimiter: rate.NewLimiter(rate.Limit(rateLimit), rateBurst),
		cache:       c,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type listEnvelope struct {
	Data []Article `json:"data"`
}

// GetArticle fetches one article by slug, consulting the cache first
func (c *Client) GetArticle(ctx context.Context, slug string) (*Article, error) {
	cacheKey := "cms:article:" + slug

	var cached Article
	if hit, err := c.cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	params := url.Values{}
	params.Set("filter[slug][_eq]", slug)
	params.Set("limit", "1")

	var envelope listEnvelope
	if err := c.doRequest(ctx, "/items/articles", params, &envelope); err != nil {
		return nil, fmt.Errorf("failed to fetch article %q: %w", slug, err)
	}
	if len(envelope.Data) == 0 {
		return nil, ErrNotFound
	}

	article := envelope.Data[0]
	_ = c.cache.SetJSON(ctx, cacheKey, article, articleCacheTTL)
	return &article, nil
}

// ListArticles fetches a page of article metadata, newest first
func (c *Client) ListArticles(ctx context.Context, page, pageSize int) ([]Article, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(pageSize))
	params.Set("sort", "-published_at")

	var envelope listEnvelope
	if err := c.doRequest(ctx, "/items/articles", params, &envelope); err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	return envelope.Data, nil
}

// doRequest performs a rate-limited GET with retry on 429/5xx
func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values, out any) error {
	requestURL := c.baseURL + endpoint
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	delay := initialDelay
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
		} else {
			body, readErr := io.ReadAll(resp.Body)
			resp.Body.Close()

			switch {
			case readErr != nil:
				lastErr = readErr
			case resp.StatusCode == http.StatusOK:
				return json.Unmarshal(body, out)
			case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
				lastErr = fmt.Errorf("cms returned status %d", resp.StatusCode)
			default:
				return fmt.Errorf("cms returned status %d", resp.StatusCode)
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}

	return fmt.Errorf("cms request failed after %d attempts: %w", maxRetries, lastErr)
}
