package dereference

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/c360studio/semrecipe/source/weburl"
)

// FetchResult contains the result of fetching a page.
type FetchResult struct {
	Body        []byte
	ContentType string
	// FinalURL is the URL of the last request after redirects.
	FinalURL     string
	ETag         string
	LastModified time.Time
	StatusCode   int
}

// Fetcher retrieves a document over the network.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// acceptHeader prefers formats that carry structured data directly.
const acceptHeader = "application/ld+json, application/n-quads;q=0.95, application/n-triples;q=0.95, text/html;q=0.9, application/xhtml+xml;q=0.9, */*;q=0.1"

// HTTPFetcher fetches web content with SSRF protection: HTTPS only, no
// private or loopback addresses, and resolved IPs are checked at dial time
// so DNS rebinding cannot reach them either.
type HTTPFetcher struct {
	client         *http.Client
	userAgent      string
	maxContentSize int64
	validate       func(string) error
}

// NewHTTPFetcher creates a web fetcher.
func NewHTTPFetcher(timeout time.Duration, userAgent string, maxContentSize int64, maxRedirects int) *HTTPFetcher {
	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	// Validate resolved IPs to prevent DNS rebinding attacks
	safeDialContext := func(ctx context.Context, network, addr string) (net.Conn, error) {
		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid address: %w", err)
		}

		ips, err := net.DefaultResolver.LookupIPAddr(ctx, host)
		if err != nil {
			return nil, fmt.Errorf("DNS lookup failed: %w", err)
		}

		for _, ipAddr := range ips {
			if weburl.IsPrivateIP(ipAddr.IP) {
				return nil, fmt.Errorf("connection to private IP %s is not allowed", ipAddr.IP)
			}
		}

		for _, ipAddr := range ips {
			connAddr := net.JoinHostPort(ipAddr.IP.String(), port)
			conn, err := dialer.DialContext(ctx, network, connAddr)
			if err == nil {
				return conn, nil
			}
		}

		return nil, fmt.Errorf("failed to connect to any resolved IP")
	}

	transport := &http.Transport{
		DialContext:           safeDialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: timeout,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
	}

	f := &HTTPFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		userAgent:      userAgent,
		maxContentSize: maxContentSize,
		validate:       weburl.ValidateURL,
	}
	f.client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return fmt.Errorf("too many redirects (max %d)", maxRedirects)
		}
		if err := f.validate(req.URL.String()); err != nil {
			return fmt.Errorf("redirect blocked: %w", err)
		}
		return nil
	}
	return f
}

// Fetch retrieves content from the given URL.
func (f *HTTPFetcher) Fetch(ctx context.Context, urlStr string) (*FetchResult, error) {
	return f.FetchWithETag(ctx, urlStr, "")
}

// FetchWithETag retrieves content with conditional fetch support.
// If etag is provided, returns 304 Not Modified if content hasn't changed.
func (f *HTTPFetcher) FetchWithETag(ctx context.Context, urlStr string, etag string) (*FetchResult, error) {
	if err := f.validate(urlStr); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	result := &FetchResult{
		ContentType: resp.Header.Get("Content-Type"),
		FinalURL:    resp.Request.URL.String(),
		ETag:        resp.Header.Get("ETag"),
		StatusCode:  resp.StatusCode,
	}

	if lm := resp.Header.Get("Last-Modified"); lm != "" {
		if t, err := http.ParseTime(lm); err == nil {
			result.LastModified = t
		}
	}

	if resp.StatusCode == http.StatusNotModified {
		return result, nil
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	limitReader := io.LimitReader(resp.Body, f.maxContentSize+1)
	body, err := io.ReadAll(limitReader)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if int64(len(body)) > f.maxContentSize {
		return nil, fmt.Errorf("content too large (exceeds %d bytes)", f.maxContentSize)
	}

	result.Body = body
	return result, nil
}
