package checker

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// RedirectResult is the output of the redirect-chain check.
type RedirectResult struct {
	Chain    []string `json:"chain"`
	Length   int      `json:"length"`
	FinalURL string   `json:"final_url,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// RunRedirectCheck manually follows the redirect chain from
// https://<domain> up to the configured hop limit, recording every URL
// visited.
func RunRedirectCheck(ctx context.Context, domain string, cfg Config) RedirectResult {
	result := RedirectResult{Chain: []string{}}

	maxHops := cfg.RedirectMaxHops
	if maxHops <= 0 {
		maxHops = 10
	}

	client := newHTTPClient(cfg, false)
	current := fmt.Sprintf("https://%s", domain)
	hops := 0

	for hops < maxHops {
		result.Chain = append(result.Chain, current)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, current, nil)
		if err != nil {
			result.Error = fmt.Sprintf("create request: %v", err)
			break
		}
		req.Header.Set("User-Agent", cfg.UserAgent)

		resp, err := client.Do(req)
		if err != nil {
			result.Error = fmt.Sprintf("connection error: %v", err)
			break
		}
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
		resp.Body.Close()

		if !isRedirect(resp.StatusCode) {
			result.FinalURL = current
			break
		}

		location := resp.Header.Get("Location")
		if location == "" {
			result.FinalURL = current
			break
		}

		next, err := resolveLocation(current, location)
		if err != nil {
			result.Error = fmt.Sprintf("bad redirect location %q: %v", location, err)
			break
		}
		current = next
		hops++
	}

	// Hop limit reached: the last URL tried is the best final answer.
	if result.FinalURL == "" && result.Error == "" {
		result.FinalURL = current
	}
	result.Length = hops
	return result
}

func isRedirect(code int) bool {
	switch code {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	}
	return false
}

// resolveLocation resolves a Location header value against the current
// URL, handling absolute, root-relative, and path-relative forms.
func resolveLocation(current, location string) (string, error) {
	base, err := url.Parse(current)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(location)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}
