package goodreads

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/bookblend/bookblend/internal/blend"
)

// ShelfAll requests every shelf; any other value is passed through to the
// feed as-is (read, to-read, currently-reading, or a custom shelf name).
const ShelfAll = "all"

// maxPages caps feed pagination so a malformed feed cannot loop forever.
const maxPages = 50

type Client interface {
	// FetchShelf returns the raw book records on one of a reader's shelves,
	// following feed pagination until a short page.
	FetchShelf(ctx context.Context, userID, shelf string) ([]blend.RawBook, error)
}

type HTTPClient struct {
	baseURL    string
	userAgent  string
	pageSize   int
	httpClient *http.Client
}

func NewHTTPClient(baseURL, userAgent string, pageSize int) *HTTPClient {
	if pageSize <= 0 {
		pageSize = 100
	}
	return &HTTPClient{
		baseURL:    baseURL,
		userAgent:  userAgent,
		pageSize:   pageSize,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *HTTPClient) FetchShelf(ctx context.Context, userID, shelf string) ([]blend.RawBook, error) {
	if shelf == "" {
		shelf = ShelfAll
	}

	var all []blend.RawBook
	for page := 1; page <= maxPages; page++ {
		data, err := c.fetchPage(ctx, userID, shelf, page)
		if err != nil {
			return nil, err
		}
		records, err := parseShelfFeed(data)
		if err != nil {
			return nil, err
		}
		all = append(all, records...)
		// a short page is the last page
		if len(records) < c.pageSize {
			break
		}
	}
	return all, nil
}

func (c *HTTPClient) fetchPage(ctx context.Context, userID, shelf string, page int) ([]byte, error) {
	u := fmt.Sprintf("%s/review/list_rss/%s?page=%d&shelf=%s",
		c.baseURL, url.PathEscape(userID), page, url.QueryEscape(shelf))

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("goodreads fetch page %d for %s: %w", page, userID, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("goodreads: reader %s not found", userID)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("goodreads: %d fetching %s page %s", resp.StatusCode, userID, strconv.Itoa(page))
	}
	return body, nil
}
