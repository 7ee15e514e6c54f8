package checker

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// RobotsResult is the output of the robots.txt check.
type RobotsResult struct {
	Found    bool     `json:"found"`
	Allow    []string `json:"allow"`
	Disallow []string `json:"disallow"`
	Valid    bool     `json:"valid"`
	Error    string   `json:"error,omitempty"`
}

// RunRobotsCheck fetches and parses /robots.txt.
func RunRobotsCheck(ctx context.Context, domain string, cfg Config) RobotsResult {
	result := RobotsResult{
		Allow:    []string{},
		Disallow: []string{},
	}

	url := fmt.Sprintf("https://%s/robots.txt", domain)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		result.Error = fmt.Sprintf("create request: %v", err)
		return result
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := newHTTPClient(cfg, true).Do(req)
	if err != nil {
		result.Error = fmt.Sprintf("connection error: %v", err)
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return result
	}
	result.Found = true

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		result.Error = fmt.Sprintf("read body: %v", err)
		return result
	}

	allow, disallow := parseRobots(string(body))
	result.Allow = allow
	result.Disallow = disallow
	result.Valid = true
	return result
}

// parseRobots collects Allow and Disallow paths, ignoring user-agent
// sections; the registry cares about presence and rough shape, not
// per-agent semantics.
func parseRobots(content string) (allow, disallow []string) {
	allow = []string{}
	disallow = []string{}
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, "allow:"):
			if path := strings.TrimSpace(line[len("allow:"):]); path != "" {
				allow = append(allow, path)
			}
		case strings.HasPrefix(lower, "disallow:"):
			if path := strings.TrimSpace(line[len("disallow:"):]); path != "" {
				disallow = append(disallow, path)
			}
		}
	}
	return allow, disallow
}
