package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/pbaille/exoplot/internal/textutil"
)

// DefaultURL is the NASA Exoplanet Archive synchronous TAP endpoint
const DefaultURL = "https://exoplanetarchive.ipac.caltech.edu/TAP/sync"

// ErrStatus is returned when the TAP service answers with a non-2xx status
var ErrStatus = errors.New("unexpected status")

// Client queries a TAP service
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// New creates a Client. A zero timeout means requests never time out.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme: %q", u.Scheme)
	}

	return &Client{
		BaseURL: u.String(),
		HTTP:    &http.Client{Timeout: timeout},
	}, nil
}

// QueryURL builds the request URL for an ADQL query
func (c *Client) QueryURL(adql, format string) string {
	if format == "" {
		format = "csv"
	}
	v := url.Values{}
	v.Set("query", adql)
	v.Set("format", format)

	sep := "?"
	if strings.Contains(c.BaseURL, "?") {
		sep = "&"
	}
	return c.BaseURL + sep + v.Encode()
}

// Query runs one synchronous ADQL query and returns the response body
func (c *Client) Query(ctx context.Context, adql, format string) ([]byte, error) {
	resp, err := c.do(ctx, adql, format)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// FetchToFile streams a CSV query result into path, replacing its contents.
// A failure part way through leaves a truncated file behind.
func (c *Client) FetchToFile(ctx context.Context, adql, path string) (int64, error) {
	resp, err := c.do(ctx, adql, "csv")
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create cache: %w", err)
	}

	n, err := io.Copy(f, resp.Body)
	if err != nil {
		f.Close()
		return n, fmt.Errorf("write cache: %w", err)
	}
	if err := f.Close(); err != nil {
		return n, fmt.Errorf("close cache: %w", err)
	}

	return n, nil
}

func (c *Client) do(ctx context.Context, adql, format string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.QueryURL(adql, format), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "exoplot/1.0")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		msg := extractText(string(body))
		if msg == "" {
			msg = resp.Status
		}
		return nil, fmt.Errorf("%w: HTTP %d: %s", ErrStatus, resp.StatusCode, msg)
	}

	return resp, nil
}

// extractText returns the readable text of an HTML or VOTable error document
func extractText(content string) string {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return ""
	}

	var sb strings.Builder
	var extract func(*html.Node)

	skipTags := map[string]bool{
		"script": true, "style": true, "head": true, "noscript": true,
	}

	extract = func(n *html.Node) {
		if n.Type == html.ElementNode && skipTags[n.Data] {
			return
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				sb.WriteString(text)
				sb.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}

	extract(doc)

	result := strings.Join(strings.Fields(sb.String()), " ")

	return textutil.Truncate(result, 512)
}
