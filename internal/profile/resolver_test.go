package profile

import (
	"errors"
	"testing"
)

func indexOf(list []string, name string) int {
	for i, v := range list {
		if v == name {
			return i
		}
	}
	return -1
}

func TestExpandMeta_NoMetaSurvives(t *testing.T) {
	for _, meta := range []string{"quick-check", "standard", "technical-audit", "business-research", "complete", "monitor"} {
		t.Run(meta, func(t *testing.T) {
			expanded, err := ExpandMeta([]string{meta})
			if err != nil {
				t.Fatalf("ExpandMeta(%q) returned error: %v", meta, err)
			}
			if len(expanded) == 0 {
				t.Fatalf("ExpandMeta(%q) returned empty set", meta)
			}
			for _, p := range expanded {
				if IsMeta(p) {
					t.Errorf("meta profile %q survived expansion of %q", p, meta)
				}
			}
		})
	}
}

func TestExpandMeta_UnknownProfile(t *testing.T) {
	_, err := ExpandMeta([]string{"bogus"})
	if !errors.Is(err, ErrUnknownProfile) {
		t.Fatalf("expected ErrUnknownProfile, got %v", err)
	}
}

func TestResolve_DependenciesComeFirst(t *testing.T) {
	testCases := []struct {
		name      string
		requested []string
	}{
		{"single analysis", []string{"seo"}},
		{"intelligence", []string{"security"}},
		{"mixed", []string{"seo", "headers"}},
		{"meta standard", []string{"standard"}},
		{"meta complete", []string{"complete"}},
		{"everything", []string{"technical-audit", "business-research"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			order, err := Resolve(tc.requested)
			if err != nil {
				t.Fatalf("Resolve(%v) returned error: %v", tc.requested, err)
			}
			for _, p := range order {
				for _, dep := range Dependencies(p) {
					if indexOf(order, dep) >= indexOf(order, p) {
						t.Errorf("dependency %q does not precede %q in %v", dep, p, order)
					}
				}
			}
		})
	}
}

func TestResolve_OutputIsDependencyClosure(t *testing.T) {
	order, err := Resolve([]string{"security"})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	// security -> http, headers, ssl; headers -> http.
	want := []string{"headers", "http", "security", "ssl"}
	if len(order) != len(want) {
		t.Fatalf("expected %d profiles, got %v", len(want), order)
	}
	for _, p := range want {
		if indexOf(order, p) < 0 {
			t.Errorf("expected %q in resolved order %v", p, order)
		}
	}
	for _, p := range order {
		if IsMeta(p) {
			t.Errorf("meta profile %q in resolved order", p)
		}
	}
}

func TestResolve_QuickCheck(t *testing.T) {
	order, err := Resolve([]string{"quick-check"})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if len(order) != 2 {
		t.Fatalf("expected exactly 2 profiles, got %v", order)
	}
	if indexOf(order, QuickWhois) < 0 || indexOf(order, HTTP) < 0 {
		t.Fatalf("expected quick-whois and http, got %v", order)
	}
	if indexOf(order, Whois) >= 0 {
		t.Errorf("quick-check must not pull in the full whois profile: %v", order)
	}
}

func TestResolve_Standard(t *testing.T) {
	order, err := Resolve([]string{"standard"})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	for _, p := range []string{Whois, DNS, HTTP, SSL, "seo"} {
		if indexOf(order, p) < 0 {
			t.Errorf("expected %q in standard resolution %v", p, order)
		}
	}
	if indexOf(order, QuickWhois) >= 0 {
		t.Errorf("standard must not contain quick-whois: %v", order)
	}
}

func TestResolve_UnknownProfile(t *testing.T) {
	order, err := Resolve([]string{"whois", "bogus"})
	if !errors.Is(err, ErrUnknownProfile) {
		t.Fatalf("expected ErrUnknownProfile, got %v", err)
	}
	if order != nil {
		t.Errorf("expected no partial order on error, got %v", order)
	}
}

func TestResolve_DuplicatesDeduplicated(t *testing.T) {
	order, err := Resolve([]string{"whois", "whois", "dns"})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	count := 0
	for _, p := range order {
		if p == Whois {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected whois exactly once, got %d in %v", count, order)
	}
}

func TestValidateCombination(t *testing.T) {
	testCases := []struct {
		name      string
		requested []string
		wantValid bool
	}{
		{"empty", nil, false},
		{"unknown", []string{"bogus"}, false},
		{"valid single", []string{"dns"}, true},
		{"valid meta", []string{"standard"}, true},
		{"mixed valid", []string{"seo", "ssl"}, true},
		{"one unknown among valid", []string{"dns", "nope"}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			valid, msg := ValidateCombination(tc.requested)
			if valid != tc.wantValid {
				t.Errorf("ValidateCombination(%v) = %v (%q), want %v", tc.requested, valid, msg, tc.wantValid)
			}
			if !valid && msg == "" {
				t.Errorf("invalid combination must carry a message")
			}
		})
	}
}

func TestParseList(t *testing.T) {
	testCases := []struct {
		input string
		want  []string
	}{
		{"dns,ssl,http", []string{"dns", "ssl", "http"}},
		{"dns, ssl , http", []string{"dns", "ssl", "http"}},
		{"", nil},
		{"  ", nil},
		{"dns,,ssl", []string{"dns", "ssl"}},
	}

	for _, tc := range testCases {
		got := ParseList(tc.input)
		if len(got) != len(tc.want) {
			t.Errorf("ParseList(%q) = %v, want %v", tc.input, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("ParseList(%q) = %v, want %v", tc.input, got, tc.want)
				break
			}
		}
	}
}
