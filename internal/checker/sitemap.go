package checker

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// sitemapPaths are probed in order; the first 200 wins.
var sitemapPaths = []string{"/sitemap.xml", "/sitemap_index.xml", "/sitemap"}

// SitemapResult is the output of the sitemap check.
type SitemapResult struct {
	Found     bool   `json:"found"`
	URL       string `json:"url,omitempty"`
	CountURLs int    `json:"count_urls"`
	Valid     bool   `json:"valid"`
	Error     string `json:"error,omitempty"`
}

// RunSitemapCheck looks for a sitemap at the common locations and counts
// its URL entries.
func RunSitemapCheck(ctx context.Context, domain string, cfg Config) SitemapResult {
	var result SitemapResult
	client := newHTTPClient(cfg, true)

	for _, path := range sitemapPaths {
		url := fmt.Sprintf("https://%s%s", domain, path)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			result.Error = fmt.Sprintf("create request: %v", err)
			return result
		}
		req.Header.Set("User-Agent", cfg.UserAgent)

		resp, err := client.Do(req)
		if err != nil {
			// Try the next location; only report an error if none answered.
			result.Error = fmt.Sprintf("connection error: %v", err)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
			resp.Body.Close()
			continue
		}

		body, readErr := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
		resp.Body.Close()
		if readErr != nil {
			result.Error = fmt.Sprintf("read body: %v", readErr)
			return result
		}

		content := string(body)
		result.Found = true
		result.URL = url
		result.CountURLs = strings.Count(content, "<loc>")
		result.Valid = strings.Contains(content, "<urlset") || strings.Contains(content, "<sitemapindex")
		result.Error = ""
		return result
	}

	return result
}
