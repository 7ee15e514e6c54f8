// Package checker implements the network probes the analysis pipeline
// invokes per domain: registration (DAS/WHOIS), HTTP status, redirect
// chain, robots.txt, sitemap.xml, TLS certificate, and the activity
// determination that drives early bailout.
//
// Every probe takes a context and a Config, returns a typed result whose
// JSON form feeds the result record, and reports network failures through
// the result's Error field rather than a Go error.
package checker

import "time"

// Config carries the network settings shared by all probes.
type Config struct {
	RequestTimeout  time.Duration
	UserAgent       string
	RedirectMaxHops int
	DAS             DASConfig
	Whois           WhoisConfig
}

// DASConfig configures the registry availability-check client.
type DASConfig struct {
	Server     string
	Port       int
	Timeout    time.Duration
	RatePerSec float64
}

// WhoisConfig configures the detailed registration lookup.
type WhoisConfig struct {
	Server  string
	Port    int
	Timeout time.Duration
}

// DefaultConfig returns the settings used when no configuration overrides
// them.
func DefaultConfig() Config {
	return Config{
		RequestTimeout:  10 * time.Second,
		UserAgent:       "dago-domenai/1.0",
		RedirectMaxHops: 10,
		DAS: DASConfig{
			Server:     "das.domreg.lt",
			Port:       4343,
			Timeout:    5 * time.Second,
			RatePerSec: 4,
		},
		Whois: WhoisConfig{
			Server:  "whois.domreg.lt",
			Port:    43,
			Timeout: 10 * time.Second,
		},
	}
}
