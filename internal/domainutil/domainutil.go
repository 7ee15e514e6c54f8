// Package domainutil classifies and normalizes domain names for the
// redirect-capture rules: same-family comparison, .lt detection, and smart
// subdomain handling where government and education zones keep their full
// subdomain while ordinary domains are stripped to the registrable root.
package domainutil

import (
	"net/url"
	"sort"
	"strings"
)

// keepSubdomainSuffixes are zones where subdomains are distinct registrants
// (stat.gov.lt and lrv.gov.lt are different agencies), so the full
// hostname is preserved instead of stripping to the root.
var keepSubdomainSuffixes = []string{
	".gov.lt",
	".lrv.lt",
	".edu.lt",
	".mil.lt",
}

// ignoredDomains are common services whose appearance in a redirect chain
// carries no registry value.
var ignoredDomains = map[string]struct{}{
	"google.lt":      {},
	"maps.google.lt": {},
	"facebook.com":   {},
	"youtube.com":    {},
	"linkedin.com":   {},
	"twitter.com":    {},
	"instagram.com":  {},
	"google.com":     {},
	"googleapis.com": {},
	"gstatic.com":    {},
	"cloudflare.com": {},
	"cloudfront.net": {},
	"amazonaws.com":  {},
}

// Hostname extracts just the hostname from a URL or bare domain.
func Hostname(raw string) string {
	s := raw
	if !strings.Contains(s, "://") {
		s = "http://" + s
	}
	parsed, err := url.Parse(s)
	if err != nil || parsed.Hostname() == "" {
		host := strings.TrimPrefix(strings.TrimPrefix(raw, "http://"), "https://")
		host = strings.Split(host, "/")[0]
		return strings.Split(host, ":")[0]
	}
	return parsed.Hostname()
}

// ExtractMainDomain normalizes a URL or domain to its main domain:
// lowercase, no scheme/port/path, no www prefix, and subdomains stripped
// to the registrable root except for the keep-subdomain zones.
//
//	https://www.example.lt/path -> example.lt
//	blog.example.lt             -> example.lt
//	stat.gov.lt                 -> stat.gov.lt
func ExtractMainDomain(raw string) string {
	host := strings.ToLower(Hostname(raw))
	if host == "" {
		return strings.ToLower(raw)
	}
	host = strings.TrimPrefix(host, "www.")

	for _, suffix := range keepSubdomainSuffixes {
		if strings.HasSuffix(host, suffix) {
			return host
		}
	}

	parts := strings.Split(host, ".")
	if len(parts) >= 2 {
		return strings.Join(parts[len(parts)-2:], ".")
	}
	return host
}

// IsLithuanian reports whether a domain or URL belongs to the .lt TLD.
func IsLithuanian(raw string) bool {
	host := strings.ToLower(Hostname(strings.TrimSpace(raw)))
	return strings.HasSuffix(host, ".lt")
}

// SameFamily reports whether two domains are the same family: www and
// scheme differences never matter, ordinary subdomains fold into their
// root domain, and keep-zone subdomains (gov.lt etc.) stay significant.
//
//	example.lt vs www.example.lt     -> true
//	example.lt vs https://example.lt -> true
//	example.lt vs other.lt           -> false
//	stat.gov.lt vs lrv.gov.lt        -> false
func SameFamily(a, b string) bool {
	return ExtractMainDomain(a) == ExtractMainDomain(b)
}

// ShouldCapture decides whether a redirect target is worth recording as a
// new candidate domain: it must be .lt, a different family than the
// source, and not a common service.
func ShouldCapture(sourceDomain, targetDomain string) bool {
	source := ExtractMainDomain(sourceDomain)
	target := ExtractMainDomain(targetDomain)

	if source == target {
		return false
	}
	if !IsLithuanian(target) {
		return false
	}
	if _, ignored := ignoredDomains[target]; ignored {
		return false
	}
	return true
}

// CaptureFromChain extracts the unique capturable .lt domains from a
// redirect chain, sorted. The original domain and its family variants are
// excluded.
func CaptureFromChain(chain []string, originalDomain string) []string {
	captured := make(map[string]struct{})
	for _, u := range chain {
		d := ExtractMainDomain(u)
		if ShouldCapture(originalDomain, d) {
			captured[d] = struct{}{}
		}
	}
	if len(captured) == 0 {
		return nil
	}
	out := make([]string, 0, len(captured))
	for d := range captured {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}
