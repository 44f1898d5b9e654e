// Package chronicler implements the Snapshot Fetcher (component A): it
// drives the chronicler's paginated cursor and yields ordered pages of raw
// game documents (SPEC_FULL.md §4.1).
package chronicler

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"ingestd/internal/config"
	"ingestd/internal/rawgame"
)

// pageResponse is the chronicler's JSON envelope for one page of the
// "entities" endpoint, shaped after the cursor-pagination envelopes seen
// across this lineage's platform adapters (e.g. a {items, cursor} pair).
type pageResponse struct {
	Items      []rawgame.Entity `json:"items"`
	NextPage   string           `json:"next_page"`
}

// Page is one fetched page: the cursor that produced it, the cursor to
// resume from, and its raw entities.
type Page struct {
	Token     string
	NextToken string // empty means this was the last page
	Items     []rawgame.Entity
}

// Client fetches pages from the chronicler over HTTP, with gzip transport
// handling and bounded retry, generalized from the teacher's
// httpclient.NewHTTPClient.
type Client struct {
	baseURL    string
	pageSize   int
	retryCount int
	httpClient *http.Client
	logger     *logrus.Logger
	cache      *Cache // nil when caching is disabled
}

// New builds a chronicler Client from configuration.
func New(cfg config.ChroniclerConfig, logger *logrus.Logger) (*Client, error) {
	transport := &http.Transport{
		MaxIdleConns:        100,
		IdleConnTimeout:     30 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	pageSize := cfg.PageSize
	if pageSize > 1000 {
		pageSize = 1000 // the chronicler's page size is capped at 1000
	}

	c := &Client{
		baseURL:    cfg.BaseURL,
		pageSize:   pageSize,
		retryCount: cfg.RetryCount,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: &compressedTransport{transport: transport, logger: logger},
		},
		logger: logger,
	}

	if cfg.CacheEnabled {
		cache, err := NewCache(cfg.CacheDir)
		if err != nil {
			return nil, fmt.Errorf("opening chronicler response cache: %w", err)
		}
		c.cache = cache
	}

	return c, nil
}

// FetchPage fetches one page of kind's entities starting at cursor,
// retrying transient failures with exponential backoff. After retries are
// exhausted it returns ErrFetchAborted, which the controller (E) surfaces
// as a fatal run abort (SPEC_FULL.md §4.1, §7).
func (c *Client) FetchPage(ctx context.Context, kind, cursor string) (Page, error) {
	url := fmt.Sprintf("%s/%s?page=%d&cursor=%s", c.baseURL, kind, c.pageSize, cursor)

	var lastErr error
	backoff := 250 * time.Millisecond
	for attempt := 0; attempt <= c.retryCount; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return Page{}, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		page, err := c.fetchOnce(ctx, url, cursor)
		if err == nil {
			return page, nil
		}
		lastErr = err
		c.logger.WithError(err).WithField("cursor", cursor).Warn("chronicler fetch attempt failed")
	}

	return Page{}, fmt.Errorf("%w: %v", ErrFetchAborted, lastErr)
}

// entityResponse is the chronicler's JSON envelope for a single-entity
// lookup by id.
type entityResponse struct {
	Item rawgame.Entity `json:"item"`
}

// FetchByID fetches one entity directly by id, bypassing pagination. The
// controller uses this for fetch_known_missing_games: a short, fixed list
// of previously-failed game ids is re-requested individually after normal
// page exhaustion (SPEC_FULL.md §4.5).
func (c *Client) FetchByID(ctx context.Context, kind, id string) (rawgame.Entity, error) {
	url := fmt.Sprintf("%s/%s/%s", c.baseURL, kind, id)

	var lastErr error
	backoff := 250 * time.Millisecond
	for attempt := 0; attempt <= c.retryCount; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return rawgame.Entity{}, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return rawgame.Entity{}, err
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			c.logger.WithError(err).WithField("id", id).Warn("chronicler by-id fetch attempt failed")
			continue
		}
		if resp.StatusCode >= 400 {
			resp.Body.Close()
			lastErr = fmt.Errorf("chronicler returned status %d", resp.StatusCode)
			continue
		}

		var er entityResponse
		err = json.NewDecoder(resp.Body).Decode(&er)
		resp.Body.Close()
		if err != nil {
			return rawgame.Entity{}, fmt.Errorf("decoding chronicler entity: %w", err)
		}
		return er.Item, nil
	}

	return rawgame.Entity{}, fmt.Errorf("%w: %v", ErrFetchAborted, lastErr)
}

func (c *Client) fetchOnce(ctx context.Context, url, cursor string) (Page, error) {
	var body io.ReadCloser
	if c.cache != nil {
		if cached, ok := c.cache.Get(url); ok {
			body = cached
		}
	}

	if body == nil {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return Page{}, err
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return Page{}, err
		}
		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return Page{}, fmt.Errorf("chronicler returned status %d", resp.StatusCode)
		}
		if c.cache != nil {
			body = c.cache.PutAndTee(url, resp.Body)
		} else {
			body = resp.Body
		}
	}
	defer body.Close()

	var pr pageResponse
	if err := json.NewDecoder(body).Decode(&pr); err != nil {
		return Page{}, fmt.Errorf("decoding chronicler page: %w", err)
	}

	return Page{Token: cursor, NextToken: pr.NextPage, Items: pr.Items}, nil
}

// compressedTransport adds gzip negotiation and transparent decompression,
// carried over verbatim from the teacher's httpclient idiom.
type compressedTransport struct {
	transport http.RoundTripper
	logger    *logrus.Logger
}

func (t *compressedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Add("Accept-Encoding", "gzip")
	resp, err := t.transport.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			t.logger.WithError(err).Warn("gzip decode failed, returning raw response")
			return resp, nil
		}
		resp.Body = &gzipReadCloser{Reader: gz, closer: resp.Body}
		resp.Header.Del("Content-Encoding")
	}

	return resp, nil
}

type gzipReadCloser struct {
	*gzip.Reader
	closer io.ReadCloser
}

func (g *gzipReadCloser) Close() error {
	if err := g.Reader.Close(); err != nil {
		return err
	}
	return g.closer.Close()
}
