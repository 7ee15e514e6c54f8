// Package pipeline contains the per-domain orchestration state machine and
// the sequential batch driver. The pipeline sequences the network checks
// with early-bailout short-circuiting: a domain known to be unregistered
// or inactive never reaches the expensive full suite.
package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Debesyla/dago-domenai/internal/checker"
	"github.com/Debesyla/dago-domenai/internal/profile"
	"github.com/Debesyla/dago-domenai/internal/schema"
)

// Store is the persistence collaborator. The pipeline only writes; reads
// are the reporting commands' concern. A nil Store disables persistence.
type Store interface {
	SaveResult(ctx context.Context, domain, task string, result *schema.Result) error
	UpdateFlags(ctx context.Context, domain string, isRegistered, isActive *bool) error
	InsertCandidate(ctx context.Context, domain, sourceDomain string) (bool, error)
}

// Checks holds the external check collaborators as function values so
// tests can substitute them.
type Checks struct {
	QuickWhois func(ctx context.Context, domain string, cfg checker.Config) checker.QuickWhoisResult
	Whois      func(ctx context.Context, domain string, cfg checker.Config) checker.WhoisResult
	Status     func(ctx context.Context, domain string, cfg checker.Config) checker.StatusResult
	Redirect   func(ctx context.Context, domain string, cfg checker.Config) checker.RedirectResult
	Active     func(ctx context.Context, domain string, cfg checker.Config, status *checker.StatusResult, redirect *checker.RedirectResult) checker.ActiveResult
	DNS        func(ctx context.Context, domain string, cfg checker.Config) checker.DNSResult
	Robots     func(ctx context.Context, domain string, cfg checker.Config) checker.RobotsResult
	Sitemap    func(ctx context.Context, domain string, cfg checker.Config) checker.SitemapResult
	SSL        func(ctx context.Context, domain string, cfg checker.Config) checker.SSLResult
}

// DefaultChecks wires the real network probes.
func DefaultChecks() Checks {
	return Checks{
		QuickWhois: checker.RunQuickWhoisCheck,
		Whois:      checker.RunWhoisCheck,
		Status:     checker.RunStatusCheck,
		Redirect:   checker.RunRedirectCheck,
		Active:     checker.RunActiveCheck,
		DNS:        checker.RunDNSCheck,
		Robots:     checker.RunRobotsCheck,
		Sitemap:    checker.RunSitemapCheck,
		SSL:        checker.RunSSLCheck,
	}
}

// Enabled is the normalized set of checks to run for a batch. Both the
// profile path and the legacy boolean-flags path produce this one
// representation before the pipeline reads it.
type Enabled map[string]bool

// EnabledFromOrder derives the check set from a resolved profile
// execution order. Status and redirect ride on the http profile; robots
// and sitemap on seo. The fast registration variant takes precedence when
// both registration profiles are present.
func EnabledFromOrder(order []string) Enabled {
	has := func(name string) bool {
		for _, p := range order {
			if p == name {
				return true
			}
		}
		return false
	}
	return Enabled{
		"quick-whois": has(profile.QuickWhois),
		"whois":       has(profile.Whois),
		"dns":         has(profile.DNS),
		"status":      has(profile.HTTP),
		"redirect":    has(profile.HTTP),
		"robots":      has("seo"),
		"sitemap":     has("seo"),
		"ssl":         has(profile.SSL),
	}
}

// EnabledFromFlags derives the check set from the legacy per-check
// booleans; absent names default to enabled.
func EnabledFromFlags(flags map[string]bool) Enabled {
	enabled := Enabled{
		"quick-whois": false,
		"whois":       true,
		"dns":         false,
		"status":      true,
		"redirect":    true,
		"robots":      true,
		"sitemap":     true,
		"ssl":         true,
	}
	for name, v := range flags {
		enabled[name] = v
	}
	return enabled
}

// Options configures a pipeline for one batch.
type Options struct {
	Task     string
	Profiles []string
	Plan     *profile.ExecutionPlan
	Enabled  Enabled
	Checker  checker.Config

	// AssumeRegisteredOnError governs the registration-check error policy:
	// true (the conservative default) treats a failed registration lookup
	// as "registered" so a flaky registry never causes a false-negative
	// skip; false skips the domain instead.
	AssumeRegisteredOnError bool
}

// Pipeline runs the per-domain state machine.
type Pipeline struct {
	opts   Options
	checks Checks
	store  Store
	log    *zap.SugaredLogger
}

// New builds a pipeline. A nil store disables persistence; a nil logger
// panics early, so callers always pass one.
func New(opts Options, checks Checks, store Store, log *zap.SugaredLogger) *Pipeline {
	return &Pipeline{opts: opts, checks: checks, store: store, log: log}
}

// Process runs the full state machine for one domain and returns the
// finalized result record. Check failures are recorded in the result;
// Process itself never fails.
func (p *Pipeline) Process(ctx context.Context, domain string) *schema.Result {
	start := time.Now()
	result := schema.New(domain, p.opts.Task)
	if p.opts.Plan != nil {
		result.Meta.Profiles = &schema.ProfileMeta{
			Requested:      p.opts.Plan.Requested,
			ExecutionOrder: p.opts.Plan.Order,
			EstimatedTime:  p.opts.Plan.EstimatedTime,
		}
	}

	p.log.Infow("starting analysis", "domain", domain, "task", p.opts.Task)

	var errs []string

	// REGISTRATION_CHECK
	if !p.runRegistration(ctx, domain, result, &errs) {
		result.Meta.SkipReason = schema.SkipUnregistered
		result.Finalize(time.Since(start), schema.StatusSkipped, errs)
		p.log.Infow("domain not registered, skipping all checks", "domain", domain)
		return result
	}

	// CONNECTIVITY_CHECK
	active := p.runConnectivity(ctx, domain, result, &errs)
	if !active {
		result.Meta.SkipReason = schema.SkipInactive
		result.Finalize(time.Since(start), schema.StatusPartial, errs)
		p.log.Infow("domain not active, skipping remaining checks", "domain", domain)
		return result
	}

	// FULL_SUITE
	p.runFullSuite(ctx, domain, result, &errs)

	attempted, failed := 0, 0
	for _, data := range result.Checks {
		attempted++
		if data.Failed() {
			failed++
		}
	}
	result.Finalize(time.Since(start), schema.DeriveStatus(attempted, failed), errs)
	p.log.Infow("completed analysis", "domain", domain, "status", result.Meta.Status, "grade", result.Summary.Grade)
	return result
}

// runRegistration invokes the applicable registration-check variant and
// reports whether processing should proceed. It returns false only on a
// definitive "not registered" answer (or a lookup error under the skip
// policy).
func (p *Pipeline) runRegistration(ctx context.Context, domain string, result *schema.Result, errs *[]string) bool {
	registered := true

	switch {
	case p.opts.Enabled["quick-whois"]:
		res := p.checks.QuickWhois(ctx, domain, p.opts.Checker)
		result.AddCheck("quick-whois", res)
		if res.Registered != nil {
			registered = *res.Registered
		} else {
			if res.Error != "" {
				*errs = append(*errs, "quick-whois: "+res.Error)
			}
			registered = p.opts.AssumeRegisteredOnError
		}
	case p.opts.Enabled["whois"]:
		res := p.checks.Whois(ctx, domain, p.opts.Checker)
		result.AddCheck("whois", res)
		if res.Registered != nil {
			registered = *res.Registered
		} else {
			if res.Error != "" {
				*errs = append(*errs, "whois: "+res.Error)
			}
			registered = p.opts.AssumeRegisteredOnError
		}
	default:
		// No registration profile requested; nothing to bail out on.
		return true
	}

	p.updateFlags(ctx, domain, &registered, nil)
	return registered
}

// runConnectivity performs the status/redirect probes and the activity
// determination, returning whether the domain is active.
func (p *Pipeline) runConnectivity(ctx context.Context, domain string, result *schema.Result, errs *[]string) bool {
	var status *checker.StatusResult
	var redirect *checker.RedirectResult

	// Status and redirect are independent best-effort probes: a failure in
	// one neither blocks the other nor the activity determination.
	if p.opts.Enabled["status"] {
		res := p.checks.Status(ctx, domain, p.opts.Checker)
		result.AddCheck("status", res)
		if res.Error != "" {
			*errs = append(*errs, "status: "+res.Error)
		}
		status = &res
	}
	if p.opts.Enabled["redirect"] {
		res := p.checks.Redirect(ctx, domain, p.opts.Checker)
		result.AddCheck("redirects", res)
		if res.Error != "" {
			*errs = append(*errs, "redirects: "+res.Error)
		}
		redirect = &res
	}

	active := p.checks.Active(ctx, domain, p.opts.Checker, status, redirect)
	result.AddCheck("active", active)

	for _, captured := range active.CapturedDomains {
		p.insertCandidate(ctx, captured, domain)
	}

	isActive := active.Active
	p.updateFlags(ctx, domain, nil, &isActive)
	if !isActive {
		p.log.Infow("inactive domain", "domain", domain, "reason", active.Reason)
	}
	return isActive
}

// runFullSuite invokes every remaining enabled check. No failure halts
// the others.
func (p *Pipeline) runFullSuite(ctx context.Context, domain string, result *schema.Result, errs *[]string) {
	if p.opts.Enabled["dns"] {
		res := p.checks.DNS(ctx, domain, p.opts.Checker)
		result.AddCheck("dns", res)
		if res.Error != "" {
			*errs = append(*errs, "dns: "+res.Error)
		}
	}
	if p.opts.Enabled["robots"] {
		res := p.checks.Robots(ctx, domain, p.opts.Checker)
		result.AddCheck("robots", res)
		if res.Error != "" {
			*errs = append(*errs, "robots: "+res.Error)
		}
	}
	if p.opts.Enabled["sitemap"] {
		res := p.checks.Sitemap(ctx, domain, p.opts.Checker)
		result.AddCheck("sitemap", res)
		if res.Error != "" {
			*errs = append(*errs, "sitemap: "+res.Error)
		}
	}
	if p.opts.Enabled["ssl"] {
		res := p.checks.SSL(ctx, domain, p.opts.Checker)
		result.AddCheck("ssl", res)
		if res.Error != "" {
			*errs = append(*errs, "ssl: "+res.Error)
		}
	}
}

// updateFlags persists registration/activity flags best-effort; a
// persistence failure never aborts the pipeline.
func (p *Pipeline) updateFlags(ctx context.Context, domain string, isRegistered, isActive *bool) {
	if p.store == nil {
		return
	}
	if err := p.store.UpdateFlags(ctx, domain, isRegistered, isActive); err != nil {
		p.log.Warnw("failed to update domain flags", "domain", domain, "error", err)
	}
}

// insertCandidate records a captured domain for future scanning;
// duplicates are silently ignored by the store.
func (p *Pipeline) insertCandidate(ctx context.Context, domain, source string) {
	if p.store == nil {
		return
	}
	inserted, err := p.store.InsertCandidate(ctx, domain, source)
	if err != nil {
		p.log.Warnw("failed to insert captured domain", "domain", domain, "error", err)
		return
	}
	if inserted {
		p.log.Infow("captured new candidate domain", "domain", domain, "source", source)
	}
}
