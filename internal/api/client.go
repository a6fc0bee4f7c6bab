// Package api retrieves replays over HTTP.
package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/zhstats/genrep/internal/config"
	"github.com/zhstats/genrep/internal/util"
)

// ReplayExt is the extension of replay files.
const ReplayExt = ".rep"

// ErrTooLarge is returned when a response exceeds the configured size limit.
var ErrTooLarge = errors.New("response exceeds size limit")

// Client downloads replays and replay index pages.
type Client struct {
	userAgent  string
	maxBytes   int64
	httpClient *http.Client
}

// New creates a new API client.
func New(cfg config.APIConfig) *Client {
	return &Client{
		userAgent:  cfg.UserAgent,
		maxBytes:   cfg.MaxBytes,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// IsURL reports whether s looks like an http(s) URL rather than a file path.
func IsURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func (c *Client) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%s returned status %d", rawURL, resp.StatusCode)
	}
	return resp, nil
}

func (c *Client) readBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	if c.maxBytes <= 0 {
		return io.ReadAll(resp.Body)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > c.maxBytes {
		return nil, ErrTooLarge
	}
	return data, nil
}

// Healthcheck checks that rawURL answers with 200 OK.
func (c *Client) Healthcheck(ctx context.Context, rawURL string) error {
	resp, err := c.get(ctx, rawURL)
	if err != nil {
		return fmt.Errorf("healthcheck failed: %w", err)
	}
	resp.Body.Close()
	return nil
}

// Download returns the body of a single replay URL.
func (c *Client) Download(ctx context.Context, rawURL string) ([]byte, error) {
	resp, err := c.get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	data, err := c.readBody(resp)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rawURL, err)
	}
	return data, nil
}

// ReplayLinks returns the absolute URLs of every .rep link in an HTML page,
// in document order without duplicates.
func ReplayLinks(base *url.URL, page io.Reader) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(page)
	if err != nil {
		return nil, fmt.Errorf("parsing index page: %w", err)
	}
	seen := map[string]bool{}
	var links []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil || !strings.EqualFold(path.Ext(ref.Path), ReplayExt) {
			return
		}
		abs := base.ResolveReference(ref).String()
		if !seen[abs] {
			seen[abs] = true
			links = append(links, abs)
		}
	})
	return links, nil
}

// FileName derives a local file name from a replay URL.
func FileName(rawURL string) string {
	name := "replay" + ReplayExt
	if u, err := url.Parse(rawURL); err == nil {
		if base := path.Base(u.Path); base != "/" && base != "." {
			if unescaped, err := url.PathUnescape(base); err == nil {
				base = unescaped
			}
			name = base
		}
	}
	name = util.SanitizeFilename(name)
	if !strings.EqualFold(filepath.Ext(name), ReplayExt) {
		name += ReplayExt
	}
	return name
}

func isHTML(resp *http.Response) bool {
	mt, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	return err == nil && (mt == "text/html" || mt == "application/xhtml+xml")
}

// Fetch saves the replay at rawURL into dir. When rawURL serves an HTML
// page, every replay it links to is saved instead. It returns the written
// paths; failed links are reported in the joined error.
func (c *Client) Fetch(ctx context.Context, rawURL, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dir, err)
	}
	resp, err := c.get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	html := isHTML(resp)
	data, err := c.readBody(resp)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rawURL, err)
	}

	if !html {
		p, err := save(dir, FileName(rawURL), data)
		if err != nil {
			return nil, err
		}
		return []string{p}, nil
	}

	base := resp.Request.URL
	links, err := ReplayLinks(base, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	var written []string
	var errs []error
	for _, link := range links {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		body, err := c.Download(ctx, link)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		p, err := save(dir, FileName(link), body)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		written = append(written, p)
	}
	return written, errors.Join(errs...)
}

func save(dir, name string, data []byte) (string, error) {
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", p, err)
	}
	return p, nil
}
