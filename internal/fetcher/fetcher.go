package fetcher

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sabarim/metaldata/internal/config"
	"golang.org/x/net/html/charset"
)

// FetchError reports a failed price table request.
// StatusCode is zero when the request never got a response.
type FetchError struct {
	Symbol     string
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d from %s", e.Symbol, e.StatusCode, e.URL)
	}
	return fmt.Sprintf("fetch %s: %v", e.Symbol, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Client fetches raw price table pages, one request per call
type Client struct {
	http        *resty.Client
	urlTemplate string
}

// New creates a fetcher from the source configuration
func New(cfg config.SourceConfig) *Client {
	client := resty.New()
	client.SetTimeout(time.Duration(cfg.Timeout) * time.Second)
	client.SetRetryCount(0)
	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}

	return &Client{
		http:        client,
		urlTemplate: cfg.URLTemplate,
	}
}

// URL renders the table address for a symbol
func (c *Client) URL(symbol string) string {
	return strings.ReplaceAll(c.urlTemplate, "{symbol}", url.QueryEscape(symbol))
}

// Fetch performs a single GET for the symbol and returns the response body
func (c *Client) Fetch(ctx context.Context, symbol string) (string, error) {
	target := c.URL(symbol)
	slog.DebugContext(ctx, "fetching price table", "symbol", symbol, "url", target)

	res, err := c.http.R().
		SetContext(ctx).
		Get(target)
	if err != nil {
		return "", &FetchError{Symbol: symbol, URL: target, Err: err}
	}
	if !res.IsSuccess() {
		return "", &FetchError{
			Symbol:     symbol,
			URL:        target,
			StatusCode: res.StatusCode(),
			Err:        fmt.Errorf("status %s", res.Status()),
		}
	}

	body, err := decodeBody(res.Body(), res.Header().Get("Content-Type"))
	if err != nil {
		return "", &FetchError{Symbol: symbol, URL: target, Err: err}
	}

	slog.DebugContext(ctx, "fetched price table", "symbol", symbol, "bytes", len(res.Body()))
	return body, nil
}

// decodeBody converts the page to UTF-8 using the declared or sniffed charset
func decodeBody(raw []byte, contentType string) (string, error) {
	r, err := charset.NewReader(bytes.NewReader(raw), contentType)
	if err != nil {
		return "", fmt.Errorf("failed to detect charset: %w", err)
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to decode body: %w", err)
	}
	return string(decoded), nil
}
