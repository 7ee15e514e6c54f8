package checker

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/Debesyla/dago-domenai/internal/domainutil"
)

// ActiveResult is the output of the activity determination. CapturedDomains
// lists .lt domains discovered incidentally while following redirects.
type ActiveResult struct {
	Check           string   `json:"check"`
	Domain          string   `json:"domain"`
	Active          bool     `json:"active"`
	Reason          string   `json:"reason"`
	HasDNS          bool     `json:"has_dns"`
	Responds        bool     `json:"responds"`
	StatusCode      *int     `json:"status_code,omitempty"`
	FinalURL        string   `json:"final_url,omitempty"`
	RedirectChain   []string `json:"redirect_chain,omitempty"`
	CapturedDomains []string `json:"captured_domains"`
	Error           string   `json:"error,omitempty"`
}

// RunActiveCheck determines whether a domain hosts an active website:
// DNS resolvability, then HTTP/HTTPS reachability, then a status-code
// bucket, then same-family versus cross-domain redirect comparison.
// 2xx-4xx on the same domain family counts as active; 5xx, no DNS, no
// response, or a redirect off to another domain does not.
//
// The prior status/redirect results are advisory; the check functions
// without them.
func RunActiveCheck(ctx context.Context, domain string, cfg Config, status *StatusResult, redirect *RedirectResult) ActiveResult {
	result := ActiveResult{
		Check:           "active",
		Domain:          domain,
		CapturedDomains: []string{},
	}

	resolver := &net.Resolver{}
	if _, err := resolver.LookupHost(ctx, domain); err != nil {
		result.Reason = "No DNS resolution"
		return result
	}
	result.HasDNS = true

	probe := probeConnectivity(ctx, domain, cfg, status, redirect)
	if !probe.ok {
		result.Reason = probe.reason
		result.Error = probe.errMsg
		return result
	}

	result.Responds = true
	result.StatusCode = &probe.statusCode
	result.FinalURL = probe.finalURL
	result.RedirectChain = probe.chain
	result.CapturedDomains = domainutil.CaptureFromChain(probe.chain, domain)
	if result.CapturedDomains == nil {
		result.CapturedDomains = []string{}
	}

	switch {
	case probe.statusCode >= 500:
		result.Reason = fmt.Sprintf("Server error: HTTP %d", probe.statusCode)
	case probe.statusCode >= 200 && probe.statusCode < 500:
		finalDomain := domainutil.Hostname(probe.finalURL)
		if domainutil.SameFamily(domain, finalDomain) {
			result.Active = true
			result.Reason = fmt.Sprintf("Active site - HTTP %d", probe.statusCode)
		} else {
			result.Reason = fmt.Sprintf("Redirects to different domain: %s", domainutil.ExtractMainDomain(finalDomain))
		}
	default:
		result.Reason = fmt.Sprintf("Unknown status: HTTP %d", probe.statusCode)
	}
	return result
}

type connectivityProbe struct {
	ok         bool
	statusCode int
	finalURL   string
	chain      []string
	reason     string
	errMsg     string
}

// probeConnectivity reuses prior status/redirect output when available,
// else issues HEAD requests trying HTTPS first then HTTP.
func probeConnectivity(ctx context.Context, domain string, cfg Config, status *StatusResult, redirect *RedirectResult) connectivityProbe {
	if status != nil && status.Error == "" && status.Code != nil {
		probe := connectivityProbe{
			ok:         true,
			statusCode: *status.Code,
			finalURL:   status.FinalURL,
		}
		if redirect != nil && redirect.Error == "" {
			probe.chain = redirect.Chain
		} else if status.FinalURL != "" {
			probe.chain = []string{status.FinalURL}
		}
		return probe
	}

	client := newHTTPClient(cfg, true)
	for _, scheme := range []string{"https", "http"} {
		url := fmt.Sprintf("%s://%s", scheme, domain)

		req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
		if err != nil {
			continue
		}
		req.Header.Set("User-Agent", cfg.UserAgent)

		resp, err := client.Do(req)
		if err != nil {
			continue
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		chain := make([]string, 0, 2)
		if url != resp.Request.URL.String() {
			chain = append(chain, url)
		}
		chain = append(chain, resp.Request.URL.String())

		return connectivityProbe{
			ok:         true,
			statusCode: resp.StatusCode,
			finalURL:   resp.Request.URL.String(),
			chain:      chain,
		}
	}

	return connectivityProbe{
		reason: "Connection failed on both HTTP and HTTPS",
		errMsg: "connection failed on both HTTP and HTTPS",
	}
}
