package ilias

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/publicsuffix"
)

// bannerSelector matches the platform's error banner. Its presence inside a
// 200 response marks a service-reported failure.
const bannerSelector = "div.alert-danger"

// defaultTimeout bounds the wait for response headers per request. Body
// reads of large file streams are not subject to it.
const defaultTimeout = 11 * time.Second

// Client is the authenticated session against the platform.
// It is safe for concurrent use; all tasks share the one cookie jar.
type Client struct {
	// httpClient carries the session cookies.
	httpClient *http.Client

	// serviceURL is the service root, always with a trailing slash.
	serviceURL string

	// serviceHost is the bare host of serviceURL, for the addressing rule.
	serviceHost string

	// userAgent identifies the tool in requests.
	userAgent string

	// logger receives per-request debug lines.
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient replaces the underlying HTTP client. Intended for tests;
// the replacement must carry its own cookie jar if login is exercised.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a session client rooted at serviceURL.
// The client is not authenticated yet; call Login before fetching.
func NewClient(serviceURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(serviceURL)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, ErrInvalidServiceURL
	}
	if !strings.HasSuffix(serviceURL, "/") {
		serviceURL += "/"
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	c := &Client{
		httpClient: &http.Client{
			Jar: jar,
			// A whole-request timeout would abort long video streams
			// mid-transfer; bound only the wait for response headers.
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				ResponseHeaderTimeout: defaultTimeout,
			},
		},
		serviceURL:  serviceURL,
		serviceHost: u.Host,
		userAgent:   "iliasdl/1.0",
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// ServiceURL returns the service root with a trailing slash.
func (c *Client) ServiceURL() string {
	return c.serviceURL
}

// Resolve applies the addressing rule: absolute references and references
// starting with the service host pass through, everything else is relative
// to the service root.
func (c *Client) Resolve(ref string) string {
	if strings.HasPrefix(ref, "http") || strings.HasPrefix(ref, c.serviceHost) {
		return ref
	}
	return c.serviceURL + ref
}

// get performs an authenticated GET for the given reference.
func (c *Client) get(ctx context.Context, ref string) (*http.Response, error) {
	target := c.Resolve(ref)
	c.logger.Debug("downloading", "url", target)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", target, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", target, err)
	}
	return resp, nil
}

// document fetches a reference and parses it into a queryable document,
// failing on the service error banner.
func (c *Client) document(ctx context.Context, ref string) (*goquery.Document, error) {
	resp, err := c.get(ctx, ref)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", ref, err)
	}
	if doc.Find(bannerSelector).Length() > 0 {
		return nil, fmt.Errorf("fetch %s: %w", ref, ErrServiceBanner)
	}
	return doc, nil
}

// Page fetches a full page as a queryable document.
func (c *Client) Page(ctx context.Context, ref string) (*goquery.Document, error) {
	return c.document(ctx, ref)
}

// Fragment fetches an asynchronously rendered HTML fragment as a queryable
// document. The parser wraps fragments in a document skeleton, so the same
// banner check applies.
func (c *Client) Fragment(ctx context.Context, ref string) (*goquery.Document, error) {
	return c.document(ctx, ref)
}

// Text fetches a reference and returns the raw response body. Used where a
// regex runs over the unparsed markup.
func (c *Client) Text(ctx context.Context, ref string) (string, error) {
	resp, err := c.get(ctx, ref)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", ref, err)
	}
	return string(body), nil
}

// Stream opens a byte stream for a terminal download. The caller owns the
// returned reader and must close it.
func (c *Client) Stream(ctx context.Context, ref string) (io.ReadCloser, error) {
	resp, err := c.get(ctx, ref)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// SetContentTreeMode switches the repository frameset between tree and flat
// mode. Tree mode is required before content-tree fetches and slows every
// page load, so runs toggle it back off at the end. Failures are logged and
// ignored; the run falls back to flat listings either way.
func (c *Client) SetContentTreeMode(ctx context.Context, tree bool) {
	mode := "flat"
	if tree {
		mode = "tree"
	}
	ref := fmt.Sprintf("ilias.php?baseClass=ilRepositoryGUI&cmd=frameset&set_mode=%s&ref_id=1", mode)
	resp, err := c.get(ctx, ref)
	if err != nil {
		c.logger.Debug("content tree mode switch failed", "mode", mode, "error", err)
		return
	}
	_ = resp.Body.Close()
}
