package checker

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// DAS registration statuses as reported by the registry.
const (
	DASStatusAvailable  = "available"
	DASStatusRegistered = "registered"
	DASStatusError      = "error"
)

// QuickWhoisResult is the output of the fast registration check. Registered
// is nil when the query itself failed.
type QuickWhoisResult struct {
	Check      string `json:"check"`
	Domain     string `json:"domain"`
	Status     string `json:"status"`
	Registered *bool  `json:"registered"`
	Error      string `json:"error,omitempty"`
}

// DASClient queries the .lt registry Domain Availability Service, a small
// line protocol on port 4343 designed for bulk status checks (the WHOIS
// port enforces strict rate limits; DAS does not).
//
//	query:    get 1.0 example.lt\n
//	response: % .lt registry DAS service
//	          Domain: example.lt
//	          Status: available
type DASClient struct {
	Server  string
	Port    int
	Timeout time.Duration

	limiter *rate.Limiter
}

// NewDASClient builds a client from config. A positive RatePerSec installs
// a token-bucket throttle shared by all queries through this client.
func NewDASClient(cfg DASConfig) *DASClient {
	c := &DASClient{
		Server:  cfg.Server,
		Port:    cfg.Port,
		Timeout: cfg.Timeout,
	}
	if cfg.RatePerSec > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSec), int(cfg.RatePerSec)+1)
	}
	return c
}

// Check queries registration status for a domain.
func (c *DASClient) Check(ctx context.Context, domain string) QuickWhoisResult {
	result := QuickWhoisResult{
		Check:  "quick-whois",
		Domain: domain,
		Status: DASStatusError,
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			result.Error = fmt.Sprintf("rate limiter: %v", err)
			return result
		}
	}

	raw, err := c.query(ctx, domain)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	name, status := parseDASResponse(raw)
	if name != "" {
		result.Domain = name
	}
	if status == "" {
		result.Error = "malformed DAS response"
		return result
	}

	result.Status = status
	registered := status != DASStatusAvailable
	result.Registered = &registered
	if status != DASStatusAvailable && status != DASStatusRegistered {
		// blocked/reserved/quarantined all count as not available.
		result.Status = status
	}
	return result
}

func (c *DASClient) query(ctx context.Context, domain string) (string, error) {
	dialer := &net.Dialer{Timeout: c.Timeout}
	addr := fmt.Sprintf("%s:%d", c.Server, c.Port)

	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return "", fmt.Errorf("DAS dial %s: %w", addr, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(c.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetDeadline(deadline)

	if _, err := fmt.Fprintf(conn, "get 1.0 %s\n", domain); err != nil {
		return "", fmt.Errorf("DAS write: %w", err)
	}

	var buf strings.Builder
	chunk := make([]byte, 4096)
	for {
		n, err := conn.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
			// Responses are small; stop once the status line arrived.
			if strings.Contains(buf.String(), "Status:") && strings.Contains(buf.String(), "\n") {
				break
			}
		}
		if err != nil {
			break
		}
	}

	if buf.Len() == 0 {
		return "", fmt.Errorf("DAS read: empty response")
	}
	return buf.String(), nil
}

// parseDASResponse extracts the Domain and Status lines. Status comes back
// lowercased; both are empty when absent.
func parseDASResponse(raw string) (domain, status string) {
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "Domain:"):
			domain = strings.TrimSpace(strings.TrimPrefix(line, "Domain:"))
		case strings.HasPrefix(line, "Status:"):
			status = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(line, "Status:")))
		}
	}
	return domain, status
}

// RunQuickWhoisCheck performs the fast registration-status check.
func RunQuickWhoisCheck(ctx context.Context, domain string, cfg Config) QuickWhoisResult {
	return NewDASClient(cfg.DAS).Check(ctx, domain)
}
