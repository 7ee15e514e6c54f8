package checker

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strings"
	"time"
)

// WhoisResult is the output of the full registration check: DAS status
// plus the port-43 registration detail when the domain is registered.
// DetailUnavailable is set when the secondary lookup failed or was
// rate-limited and only the fast-variant fields are populated.
type WhoisResult struct {
	Check      string `json:"check"`
	Domain     string `json:"domain"`
	Status     string `json:"status"`
	Registered *bool  `json:"registered"`

	Registrar        string   `json:"registrar,omitempty"`
	RegistrarWebsite string   `json:"registrar_website,omitempty"`
	RegistrarEmail   string   `json:"registrar_email,omitempty"`
	RegisteredAt     string   `json:"registered_at,omitempty"`
	ExpiresAt        string   `json:"expires_at,omitempty"`
	AgeDays          *int     `json:"age_days,omitempty"`
	DaysUntilExpiry  *int     `json:"days_until_expiry,omitempty"`
	ContactOrg       string   `json:"contact_org,omitempty"`
	ContactEmail     string   `json:"contact_email,omitempty"`
	PrivacyProtected bool     `json:"privacy_protected,omitempty"`
	Nameservers      []string `json:"nameservers,omitempty"`

	DetailUnavailable bool   `json:"detail_unavailable,omitempty"`
	Error             string `json:"error,omitempty"`
}

// RunWhoisCheck performs the full registration check: DAS for status, then
// a WHOIS port-43 detail lookup only when the domain is registered. Detail
// failures degrade to the DAS fields rather than failing the check.
func RunWhoisCheck(ctx context.Context, domain string, cfg Config) WhoisResult {
	das := NewDASClient(cfg.DAS).Check(ctx, domain)

	result := WhoisResult{
		Check:      "whois",
		Domain:     das.Domain,
		Status:     das.Status,
		Registered: das.Registered,
		Error:      das.Error,
	}

	if das.Registered == nil || !*das.Registered {
		return result
	}

	raw, err := queryWhois(ctx, domain, cfg.Whois)
	if err != nil {
		result.DetailUnavailable = true
		return result
	}
	if isWhoisRateLimited(raw) {
		result.DetailUnavailable = true
		return result
	}

	parseWhoisDetail(raw, &result)
	return result
}

func queryWhois(ctx context.Context, domain string, cfg WhoisConfig) (string, error) {
	dialer := &net.Dialer{Timeout: cfg.Timeout}
	addr := fmt.Sprintf("%s:%d", cfg.Server, cfg.Port)

	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return "", fmt.Errorf("whois dial %s: %w", addr, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(cfg.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetDeadline(deadline)

	if _, err := fmt.Fprintf(conn, "%s\r\n", domain); err != nil {
		return "", fmt.Errorf("whois write: %w", err)
	}

	var sb strings.Builder
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		sb.WriteString(scanner.Text())
		sb.WriteByte('\n')
	}
	if sb.Len() == 0 {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("whois read: %w", err)
		}
		return "", fmt.Errorf("whois read: empty response")
	}
	return sb.String(), nil
}

func isWhoisRateLimited(raw string) bool {
	lower := strings.ToLower(raw)
	return strings.Contains(lower, "too many") ||
		strings.Contains(lower, "rate limit") ||
		strings.Contains(lower, "quota exceeded")
}

// parseWhoisDetail fills registration detail from a .lt WHOIS response.
// The registry answers with "Key:\tvalue" lines; unknown keys are ignored.
func parseWhoisDetail(raw string, result *WhoisResult) {
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}

		switch key {
		case "registrar":
			result.Registrar = value
		case "registrar website":
			result.RegistrarWebsite = value
		case "registrar email":
			result.RegistrarEmail = value
		case "registered":
			result.RegisteredAt = value
			if age := daysSince(value); age != nil {
				result.AgeDays = age
			}
		case "expires":
			result.ExpiresAt = value
			if left := daysUntil(value); left != nil {
				result.DaysUntilExpiry = left
			}
		case "contact organization":
			result.ContactOrg = value
		case "contact email":
			result.ContactEmail = value
		case "nameserver":
			ns := strings.Fields(value)
			if len(ns) > 0 {
				result.Nameservers = append(result.Nameservers, strings.ToLower(ns[0]))
			}
		}
	}

	// The registry redacts contact lines for privacy-protected holders.
	if strings.Contains(strings.ToLower(raw), "not disclosed") {
		result.PrivacyProtected = true
	}
}

func daysSince(date string) *int {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil
	}
	d := int(time.Since(t).Hours() / 24)
	return &d
}

func daysUntil(date string) *int {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil
	}
	d := int(time.Until(t).Hours() / 24)
	return &d
}
