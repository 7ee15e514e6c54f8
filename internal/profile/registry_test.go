package profile

import "testing"

func TestRegistry_Invariants(t *testing.T) {
	for name, info := range registry {
		if info.Name != name {
			t.Errorf("profile %q has mismatched Name %q", name, info.Name)
		}
		for _, dep := range info.Dependencies {
			if !Known(dep) {
				t.Errorf("profile %q depends on unknown profile %q", name, dep)
			}
		}
		switch info.Category {
		case CategoryCore:
			if len(info.Dependencies) != 0 {
				t.Errorf("core profile %q must not have dependencies, has %v", name, info.Dependencies)
			}
		case CategoryMeta:
			if len(info.Dependencies) == 0 {
				t.Errorf("meta profile %q must have a non-empty dependency list", name)
			}
		case CategoryAnalysis, CategoryIntelligence:
		default:
			t.Errorf("profile %q has unknown category %q", name, info.Category)
		}
	}
}

func TestRegistry_NoCycles(t *testing.T) {
	// Every single profile must resolve; a registry edit introducing a
	// cycle fails here before it can reach production.
	for _, name := range All() {
		if _, err := Resolve([]string{name}); err != nil {
			t.Errorf("Resolve(%q) failed: %v", name, err)
		}
	}
}

func TestLookups_UnknownName(t *testing.T) {
	if Known("nope") {
		t.Error("Known(nope) = true")
	}
	if deps := Dependencies("nope"); deps != nil {
		t.Errorf("Dependencies(nope) = %v, want nil", deps)
	}
	if _, ok := CategoryOf("nope"); ok {
		t.Error("CategoryOf(nope) reported known")
	}
	if IsCore("nope") || IsMeta("nope") {
		t.Error("unknown name classified as core or meta")
	}
}

func TestEstimateDuration_Buckets(t *testing.T) {
	testCases := []struct {
		name     string
		profiles []string
		want     string
	}{
		{"no core", []string{"headers", "content"}, "0.5-2s"},
		{"one core", []string{HTTP}, "0.5-2s"},
		{"two core", []string{HTTP, SSL}, "1.5-4s"},
		{"four core", []string{Whois, DNS, HTTP, SSL}, "3-7s"},
		{"five core", []string{QuickWhois, Whois, DNS, HTTP, SSL}, "4-10s"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := EstimateDuration(tc.profiles); got != tc.want {
				t.Errorf("EstimateDuration(%v) = %q, want %q", tc.profiles, got, tc.want)
			}
		})
	}
}
