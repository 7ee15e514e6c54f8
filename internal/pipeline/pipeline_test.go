package pipeline

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/Debesyla/dago-domenai/internal/checker"
	"github.com/Debesyla/dago-domenai/internal/profile"
	"github.com/Debesyla/dago-domenai/internal/schema"
)

func boolPtr(v bool) *bool { return &v }
func intPtr(v int) *int    { return &v }

// healthyChecks returns stubs describing a fully healthy domain.
func healthyChecks() Checks {
	return Checks{
		QuickWhois: func(_ context.Context, domain string, _ checker.Config) checker.QuickWhoisResult {
			return checker.QuickWhoisResult{Check: "quick-whois", Domain: domain, Status: "registered", Registered: boolPtr(true)}
		},
		Whois: func(_ context.Context, domain string, _ checker.Config) checker.WhoisResult {
			return checker.WhoisResult{Check: "whois", Domain: domain, Status: "registered", Registered: boolPtr(true)}
		},
		Status: func(_ context.Context, domain string, _ checker.Config) checker.StatusResult {
			return checker.StatusResult{Code: intPtr(200), OK: true, FinalURL: "https://" + domain + "/"}
		},
		Redirect: func(_ context.Context, domain string, _ checker.Config) checker.RedirectResult {
			return checker.RedirectResult{Chain: []string{"https://" + domain + "/"}, Length: 0, FinalURL: "https://" + domain + "/"}
		},
		Active: func(_ context.Context, domain string, _ checker.Config, _ *checker.StatusResult, _ *checker.RedirectResult) checker.ActiveResult {
			return checker.ActiveResult{Check: "active", Domain: domain, Active: true, Reason: "Responds with status 200", HasDNS: true, Responds: true, CapturedDomains: []string{}}
		},
		DNS: func(_ context.Context, _ string, _ checker.Config) checker.DNSResult {
			return checker.DNSResult{Resolves: true, ARecords: []string{"192.0.2.1"}}
		},
		Robots: func(_ context.Context, _ string, _ checker.Config) checker.RobotsResult {
			return checker.RobotsResult{Found: true, Valid: true, Allow: []string{}, Disallow: []string{}}
		},
		Sitemap: func(_ context.Context, domain string, _ checker.Config) checker.SitemapResult {
			return checker.SitemapResult{Found: true, URL: "https://" + domain + "/sitemap.xml", CountURLs: 3, Valid: true}
		},
		SSL: func(_ context.Context, _ string, _ checker.Config) checker.SSLResult {
			return checker.SSLResult{Valid: true, Issuer: "Let's Encrypt", DaysUntilExpiry: intPtr(60)}
		},
	}
}

type flagUpdate struct {
	domain       string
	isRegistered *bool
	isActive     *bool
}

type fakeStore struct {
	saved      []string
	flags      []flagUpdate
	candidates map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{candidates: map[string]string{}}
}

func (s *fakeStore) SaveResult(_ context.Context, domain, _ string, _ *schema.Result) error {
	s.saved = append(s.saved, domain)
	return nil
}

func (s *fakeStore) UpdateFlags(_ context.Context, domain string, isRegistered, isActive *bool) error {
	s.flags = append(s.flags, flagUpdate{domain, isRegistered, isActive})
	return nil
}

func (s *fakeStore) InsertCandidate(_ context.Context, domain, source string) (bool, error) {
	if _, ok := s.candidates[domain]; ok {
		return false, nil
	}
	s.candidates[domain] = source
	return true, nil
}

func testOptions() Options {
	order, _ := profile.Resolve([]string{"standard"})
	return Options{
		Task:                    "test",
		Enabled:                 EnabledFromOrder(order),
		Checker:                 checker.DefaultConfig(),
		AssumeRegisteredOnError: true,
	}
}

func TestProcessUnregisteredSkipsEverything(t *testing.T) {
	checks := healthyChecks()
	checks.Whois = func(_ context.Context, domain string, _ checker.Config) checker.WhoisResult {
		return checker.WhoisResult{Check: "whois", Domain: domain, Status: "available", Registered: boolPtr(false)}
	}

	p := New(testOptions(), checks, nil, zap.NewNop().Sugar())
	result := p.Process(context.Background(), "laisvas.lt")

	if result.Meta.Status != schema.StatusSkipped {
		t.Fatalf("status = %q, want %q", result.Meta.Status, schema.StatusSkipped)
	}
	if result.Meta.SkipReason != schema.SkipUnregistered {
		t.Errorf("skip_reason = %q, want %q", result.Meta.SkipReason, schema.SkipUnregistered)
	}
	if _, ok := result.Checks["whois"]; !ok {
		t.Error("whois check missing from skipped result")
	}
	for _, name := range []string{"status", "redirects", "active", "robots", "sitemap", "ssl", "dns"} {
		if _, ok := result.Checks[name]; ok {
			t.Errorf("check %q recorded for unregistered domain", name)
		}
	}
}

func TestProcessInactiveIsPartial(t *testing.T) {
	checks := healthyChecks()
	checks.Status = func(_ context.Context, _ string, _ checker.Config) checker.StatusResult {
		return checker.StatusResult{Error: "connection refused"}
	}
	checks.Active = func(_ context.Context, domain string, _ checker.Config, _ *checker.StatusResult, _ *checker.RedirectResult) checker.ActiveResult {
		return checker.ActiveResult{Check: "active", Domain: domain, Active: false, Reason: "No HTTP/HTTPS response", HasDNS: true, CapturedDomains: []string{}}
	}

	p := New(testOptions(), checks, nil, zap.NewNop().Sugar())
	result := p.Process(context.Background(), "tuscia.lt")

	if result.Meta.Status != schema.StatusPartial {
		t.Fatalf("status = %q, want %q", result.Meta.Status, schema.StatusPartial)
	}
	if result.Meta.SkipReason != schema.SkipInactive {
		t.Errorf("skip_reason = %q, want %q", result.Meta.SkipReason, schema.SkipInactive)
	}
	for _, name := range []string{"whois", "status", "redirects", "active"} {
		if _, ok := result.Checks[name]; !ok {
			t.Errorf("check %q missing from partial result", name)
		}
	}
	for _, name := range []string{"robots", "sitemap", "ssl", "dns"} {
		if _, ok := result.Checks[name]; ok {
			t.Errorf("full-suite check %q ran for inactive domain", name)
		}
	}
}

func TestProcessHealthyDomain(t *testing.T) {
	store := newFakeStore()
	p := New(testOptions(), healthyChecks(), store, zap.NewNop().Sugar())
	result := p.Process(context.Background(), "sveikas.lt")

	if result.Meta.Status != schema.StatusSuccess {
		t.Fatalf("status = %q, want %q (errors: %v)", result.Meta.Status, schema.StatusSuccess, result.Meta.Errors)
	}
	if result.Summary.Grade != "A" {
		t.Errorf("grade = %q, want A", result.Summary.Grade)
	}
	if !result.Summary.Reachable || !result.Summary.HTTPS {
		t.Errorf("summary = %+v, want reachable over https", result.Summary)
	}
	for _, name := range []string{"whois", "status", "redirects", "active", "robots", "sitemap", "ssl", "dns"} {
		if _, ok := result.Checks[name]; !ok {
			t.Errorf("check %q missing from full result", name)
		}
	}

	// Registration and activity flags both reach the store.
	var sawRegistered, sawActive bool
	for _, f := range store.flags {
		if f.isRegistered != nil && *f.isRegistered {
			sawRegistered = true
		}
		if f.isActive != nil && *f.isActive {
			sawActive = true
		}
	}
	if !sawRegistered || !sawActive {
		t.Errorf("flag updates = %+v, want registered and active recorded", store.flags)
	}
}

func TestProcessRegistrationErrorPolicy(t *testing.T) {
	failing := func(_ context.Context, domain string, _ checker.Config) checker.WhoisResult {
		return checker.WhoisResult{Check: "whois", Domain: domain, Status: "error", Error: "timeout"}
	}

	t.Run("assume registered", func(t *testing.T) {
		checks := healthyChecks()
		checks.Whois = failing
		opts := testOptions()
		opts.AssumeRegisteredOnError = true

		result := New(opts, checks, nil, zap.NewNop().Sugar()).Process(context.Background(), "abejotinas.lt")
		if result.Meta.Status == schema.StatusSkipped {
			t.Error("domain skipped despite assume-registered policy")
		}
		if _, ok := result.Checks["active"]; !ok {
			t.Error("connectivity never ran under assume-registered policy")
		}
	})

	t.Run("skip on error", func(t *testing.T) {
		checks := healthyChecks()
		checks.Whois = failing
		opts := testOptions()
		opts.AssumeRegisteredOnError = false

		result := New(opts, checks, nil, zap.NewNop().Sugar()).Process(context.Background(), "abejotinas.lt")
		if result.Meta.Status != schema.StatusSkipped {
			t.Errorf("status = %q, want %q", result.Meta.Status, schema.StatusSkipped)
		}
	})
}

func TestProcessQuickVariantTakesPrecedence(t *testing.T) {
	checks := healthyChecks()
	whoisCalled := false
	checks.Whois = func(_ context.Context, domain string, _ checker.Config) checker.WhoisResult {
		whoisCalled = true
		return checker.WhoisResult{Check: "whois", Domain: domain, Registered: boolPtr(true)}
	}

	order, err := profile.Resolve([]string{"quick-check"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	opts := testOptions()
	opts.Enabled = EnabledFromOrder(order)

	result := New(opts, checks, nil, zap.NewNop().Sugar()).Process(context.Background(), "greitas.lt")
	if whoisCalled {
		t.Error("full whois ran despite quick-whois profile")
	}
	if _, ok := result.Checks["quick-whois"]; !ok {
		t.Error("quick-whois check missing")
	}
}

func TestProcessCapturedDomainsReachStore(t *testing.T) {
	checks := healthyChecks()
	checks.Active = func(_ context.Context, domain string, _ checker.Config, _ *checker.StatusResult, _ *checker.RedirectResult) checker.ActiveResult {
		return checker.ActiveResult{
			Check: "active", Domain: domain, Active: true, Reason: "Responds with status 200",
			HasDNS: true, Responds: true,
			CapturedDomains: []string{"naujas.lt", "kitas.lt"},
		}
	}

	store := newFakeStore()
	New(testOptions(), checks, store, zap.NewNop().Sugar()).Process(context.Background(), "saltinis.lt")

	for _, captured := range []string{"naujas.lt", "kitas.lt"} {
		if src, ok := store.candidates[captured]; !ok || src != "saltinis.lt" {
			t.Errorf("candidate %q = (%q, %v), want source saltinis.lt", captured, src, ok)
		}
	}
}

func TestEnabledFromOrder(t *testing.T) {
	tests := []struct {
		name     string
		profiles []string
		want     map[string]bool
	}{
		{
			name:     "quick-check",
			profiles: []string{"quick-check"},
			want:     map[string]bool{"quick-whois": true, "whois": false, "status": true, "redirect": true, "robots": false, "sitemap": false, "ssl": false, "dns": false},
		},
		{
			name:     "standard",
			profiles: []string{"standard"},
			want:     map[string]bool{"quick-whois": false, "whois": true, "status": true, "redirect": true, "robots": true, "sitemap": true, "ssl": true, "dns": true},
		},
		{
			name:     "seo only",
			profiles: []string{"seo"},
			want:     map[string]bool{"quick-whois": false, "whois": false, "status": true, "redirect": true, "robots": true, "sitemap": true, "ssl": false, "dns": false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, err := profile.Resolve(tt.profiles)
			if err != nil {
				t.Fatalf("Resolve(%v): %v", tt.profiles, err)
			}
			enabled := EnabledFromOrder(order)
			for name, want := range tt.want {
				if enabled[name] != want {
					t.Errorf("enabled[%q] = %v, want %v (order %v)", name, enabled[name], want, order)
				}
			}
		})
	}
}

func TestEnabledFromFlags(t *testing.T) {
	enabled := EnabledFromFlags(map[string]bool{"robots": false, "dns": true})
	if enabled["whois"] != true || enabled["status"] != true {
		t.Errorf("defaults not preserved: %v", enabled)
	}
	if enabled["robots"] {
		t.Error("robots still enabled after explicit disable")
	}
	if !enabled["dns"] {
		t.Error("dns not enabled after explicit enable")
	}
}

func TestRunnerAggregatesAndPersists(t *testing.T) {
	checks := healthyChecks()
	checks.Whois = func(_ context.Context, domain string, _ checker.Config) checker.WhoisResult {
		if domain == "laisvas.lt" {
			return checker.WhoisResult{Check: "whois", Domain: domain, Status: "available", Registered: boolPtr(false)}
		}
		return checker.WhoisResult{Check: "whois", Domain: domain, Status: "registered", Registered: boolPtr(true)}
	}

	store := newFakeStore()
	log := zap.NewNop().Sugar()
	runner := NewRunner(New(testOptions(), checks, store, log), store, log)

	results, summary := runner.Run(context.Background(), []string{"sveikas.lt", "laisvas.lt"})

	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if summary.Total != 2 || summary.Success != 1 || summary.Skipped != 1 {
		t.Errorf("summary = %+v, want total 2, success 1, skipped 1", summary)
	}
	if len(store.saved) != 2 {
		t.Errorf("persisted %d results, want 2", len(store.saved))
	}
}

func TestRunnerStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	log := zap.NewNop().Sugar()
	runner := NewRunner(New(testOptions(), healthyChecks(), nil, log), nil, log)
	results, summary := runner.Run(ctx, []string{"a.lt", "b.lt"})

	if len(results) != 0 {
		t.Errorf("len(results) = %d, want 0 after cancellation", len(results))
	}
	if summary.Total != 0 {
		t.Errorf("summary.Total = %d, want 0", summary.Total)
	}
}
