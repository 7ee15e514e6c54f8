package profile

import "sort"

// Category classifies a profile by its purpose.
type Category string

const (
	// CategoryCore profiles perform an actual external query (DAS, WHOIS, DNS, HTTP, TLS).
	CategoryCore Category = "core"
	// CategoryAnalysis profiles derive findings from already-retrieved data.
	CategoryAnalysis Category = "analysis"
	// CategoryIntelligence profiles produce business-level insights.
	CategoryIntelligence Category = "intelligence"
	// CategoryMeta profiles are shorthand bundles of other profiles.
	CategoryMeta Category = "meta"
)

// Info holds the static metadata for a single profile.
type Info struct {
	Name         string
	Category     Category
	Description  string
	Dependencies []string
	DataSource   string
	Duration     string
}

// Core profile names.
const (
	QuickWhois = "quick-whois"
	Whois      = "whois"
	DNS        = "dns"
	HTTP       = "http"
	SSL        = "ssl"
)

// registry is the immutable profile table. It is defined once at init and
// never mutated; all lookups go through the accessor functions below.
var registry = map[string]Info{
	QuickWhois: {
		Name:        QuickWhois,
		Category:    CategoryCore,
		Description: "Fast registration status check (DAS protocol only)",
		DataSource:  "das.domreg.lt:4343 (DAS protocol)",
		Duration:    "0.02s",
	},
	Whois: {
		Name:        Whois,
		Category:    CategoryCore,
		Description: "Complete domain registration data (DAS + WHOIS port 43)",
		DataSource:  "das.domreg.lt:4343 + whois.domreg.lt:43",
		Duration:    "0.10s",
	},
	DNS: {
		Name:        DNS,
		Category:    CategoryCore,
		Description: "DNS resolution and all record types",
		DataSource:  "DNS servers",
		Duration:    "0.3-0.8s",
	},
	HTTP: {
		Name:        HTTP,
		Category:    CategoryCore,
		Description: "HTTP connectivity, redirects, and response behavior",
		DataSource:  "HTTP/HTTPS requests",
		Duration:    "1-3s",
	},
	SSL: {
		Name:        SSL,
		Category:    CategoryCore,
		Description: "SSL/TLS certificate analysis",
		DataSource:  "TLS handshake",
		Duration:    "0.5-1.5s",
	},

	"headers": {
		Name:         "headers",
		Category:     CategoryAnalysis,
		Description:  "HTTP header analysis for security and configuration",
		Dependencies: []string{HTTP},
		DataSource:   "HTTP response headers",
		Duration:     "<0.1s",
	},
	"content": {
		Name:         "content",
		Category:     CategoryAnalysis,
		Description:  "On-page content extraction and analysis",
		Dependencies: []string{HTTP},
		DataSource:   "HTML parsing",
		Duration:     "0.2-0.5s",
	},
	"infrastructure": {
		Name:         "infrastructure",
		Category:     CategoryAnalysis,
		Description:  "Hosting, CDN, and geolocation analysis",
		Dependencies: []string{DNS, HTTP},
		DataSource:   "DNS + HTTP data",
		Duration:     "0.1-0.3s",
	},
	"technology": {
		Name:         "technology",
		Category:     CategoryAnalysis,
		Description:  "Tech stack detection",
		Dependencies: []string{HTTP, "content"},
		DataSource:   "HTTP headers + HTML",
		Duration:     "0.1-0.3s",
	},
	"seo": {
		Name:         "seo",
		Category:     CategoryAnalysis,
		Description:  "SEO checks (robots.txt, sitemap.xml)",
		Dependencies: []string{HTTP, "content"},
		DataSource:   "HTTP + HTML",
		Duration:     "0.2-0.5s",
	},

	"security": {
		Name:         "security",
		Category:     CategoryIntelligence,
		Description:  "Vulnerability scans and security analysis",
		Dependencies: []string{HTTP, "headers", SSL},
		DataSource:   "HTTP + headers + SSL",
		Duration:     "0.3-1s",
	},
	"compliance": {
		Name:         "compliance",
		Category:     CategoryIntelligence,
		Description:  "GDPR and privacy checks",
		Dependencies: []string{HTTP, "content", "headers"},
		DataSource:   "HTTP + content + headers",
		Duration:     "0.2-0.5s",
	},
	"business": {
		Name:         "business",
		Category:     CategoryIntelligence,
		Description:  "Company information and contacts",
		Dependencies: []string{Whois, HTTP, "content"},
		DataSource:   "WHOIS + HTTP + content",
		Duration:     "0.2-0.5s",
	},
	"language": {
		Name:         "language",
		Category:     CategoryIntelligence,
		Description:  "Language detection and targeting",
		Dependencies: []string{HTTP, "content"},
		DataSource:   "HTTP + content",
		Duration:     "0.1-0.3s",
	},
	"fingerprinting": {
		Name:         "fingerprinting",
		Category:     CategoryIntelligence,
		Description:  "Screenshots and content hashes",
		Dependencies: []string{HTTP, "content"},
		DataSource:   "HTTP + content",
		Duration:     "2-5s",
	},
	"clustering": {
		Name:         "clustering",
		Category:     CategoryIntelligence,
		Description:  "Portfolio detection across domains",
		Dependencies: []string{DNS, Whois},
		DataSource:   "DNS + WHOIS",
		Duration:     "0.1-0.3s",
	},

	"quick-check": {
		Name:         "quick-check",
		Category:     CategoryMeta,
		Description:  "Ultra-fast domain validation (status + connectivity)",
		Dependencies: []string{QuickWhois, HTTP},
		Duration:     "0.10-0.50s",
	},
	"standard": {
		Name:         "standard",
		Category:     CategoryMeta,
		Description:  "General analysis (core profiles + seo)",
		Dependencies: []string{Whois, DNS, HTTP, SSL, "seo"},
		Duration:     "3-7s",
	},
	"technical-audit": {
		Name:         "technical-audit",
		Category:     CategoryMeta,
		Description:  "Security and infrastructure focus",
		Dependencies: []string{Whois, DNS, HTTP, SSL, "headers", "security", "infrastructure", "technology"},
		Duration:     "4-9s",
	},
	"business-research": {
		Name:         "business-research",
		Category:     CategoryMeta,
		Description:  "Market intelligence",
		Dependencies: []string{Whois, DNS, HTTP, SSL, "business", "language", "clustering"},
		Duration:     "4-8s",
	},
	"complete": {
		Name:        "complete",
		Category:    CategoryMeta,
		Description: "Comprehensive analysis (all checks)",
		Dependencies: []string{Whois, DNS, HTTP, SSL, "headers", "content", "infrastructure",
			"technology", "seo", "security", "compliance", "business", "language"},
		Duration: "6-15s",
	},
	"monitor": {
		Name:         "monitor",
		Category:     CategoryMeta,
		Description:  "Lightweight continuous monitoring (status + connectivity)",
		Dependencies: []string{QuickWhois, HTTP},
		Duration:     "0.10-0.50s",
	},
}

// Known reports whether a profile name exists in the registry.
func Known(name string) bool {
	_, ok := registry[name]
	return ok
}

// Dependencies returns the direct dependency list for a profile.
// Unknown names return nil.
func Dependencies(name string) []string {
	return registry[name].Dependencies
}

// Lookup returns the profile metadata and whether the name is known.
func Lookup(name string) (Info, bool) {
	info, ok := registry[name]
	return info, ok
}

// CategoryOf returns the category for a profile. The second return value
// is false for unknown names.
func CategoryOf(name string) (Category, bool) {
	info, ok := registry[name]
	return info.Category, ok
}

// IsCore reports whether a profile performs external data retrieval.
func IsCore(name string) bool {
	return registry[name].Category == CategoryCore
}

// IsMeta reports whether a profile is a bundle of other profiles.
func IsMeta(name string) bool {
	return registry[name].Category == CategoryMeta
}

// All returns the names of every registered profile, sorted.
func All() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ByCategory returns profile names grouped by category, each group sorted.
func ByCategory() map[Category][]string {
	groups := make(map[Category][]string)
	for name, info := range registry {
		groups[info.Category] = append(groups[info.Category], name)
	}
	for _, names := range groups {
		sort.Strings(names)
	}
	return groups
}

// EstimateDuration returns a coarse duration bucket for a profile set,
// keyed off the number of core profiles present. Advisory only.
func EstimateDuration(profiles []string) string {
	coreCount := 0
	for _, p := range profiles {
		if IsCore(p) {
			coreCount++
		}
	}
	switch {
	case coreCount <= 1:
		return "0.5-2s"
	case coreCount == 2:
		return "1.5-4s"
	case coreCount <= 4:
		return "3-7s"
	default:
		return "4-10s"
	}
}
