package checker

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"
)

// StatusResult is the output of the HTTP status check.
type StatusResult struct {
	Code       *int   `json:"code"`
	OK         bool   `json:"ok"`
	FinalURL   string `json:"final_url,omitempty"`
	DurationMS *int64 `json:"duration_ms,omitempty"`
	Error      string `json:"error,omitempty"`
}

func newHTTPClient(cfg Config, followRedirects bool) *http.Client {
	client := &http.Client{
		Timeout: cfg.RequestTimeout,
		Transport: &http.Transport{
			// Certificate problems are the TLS check's concern; the
			// connectivity probes must still reach misconfigured sites.
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}
	if !followRedirects {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}
	return client
}

// RunStatusCheck fetches https://<domain> following redirects and reports
// the final status code and URL.
func RunStatusCheck(ctx context.Context, domain string, cfg Config) StatusResult {
	var result StatusResult

	url := fmt.Sprintf("https://%s", domain)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		result.Error = fmt.Sprintf("create request: %v", err)
		return result
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	client := newHTTPClient(cfg, true)
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		result.Error = fmt.Sprintf("connection error: %v", err)
		return result
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))

	duration := time.Since(start).Milliseconds()
	code := resp.StatusCode

	result.Code = &code
	result.OK = code < 400
	result.FinalURL = resp.Request.URL.String()
	result.DurationMS = &duration
	return result
}
