package checker

import (
	"net/url"
	"strings"
)

// TargetInfo contains a parsed probe target.
type TargetInfo struct {
	Original string
	Scheme   string
	Host     string
	Port     string
	FullURL  string
}

// ParseTarget parses a domain or URL into structured components. Domains
// arrive bare from the registry ("example.lt") but may also carry a
// scheme, port, or path when captured from redirect chains.
func ParseTarget(target string) *TargetInfo {
	info := &TargetInfo{Original: target}

	parsed, err := url.Parse(target)
	if err != nil || parsed.Scheme == "" || strings.Contains(parsed.Scheme, ".") {
		parsed, _ = url.Parse("https://" + target)
	}

	if parsed != nil {
		info.Scheme = parsed.Scheme
		info.Host = parsed.Hostname()
		info.Port = parsed.Port()
		info.FullURL = parsed.String()
	}

	if info.Host == "" {
		host := strings.TrimPrefix(strings.TrimPrefix(target, "http://"), "https://")
		host = strings.Split(host, "/")[0]
		parts := strings.Split(host, ":")
		info.Host = parts[0]
		if len(parts) > 1 {
			info.Port = parts[1]
		}
		if info.Scheme == "" {
			info.Scheme = "https"
		}
		info.FullURL = info.Scheme + "://" + host
	}

	return info
}

// ExtractHost extracts the bare hostname from a target, for DNS lookups
// and socket dials.
func ExtractHost(target string) string {
	return ParseTarget(target).Host
}
