package checker

import (
	"context"
	"fmt"
	"net"
	"strings"
)

// DNSResult is the output of the DNS records check.
type DNSResult struct {
	Resolves bool     `json:"resolves"`
	ARecords []string `json:"a_records,omitempty"`
	AAAA     []string `json:"aaaa_records,omitempty"`
	CNAME    string   `json:"cname,omitempty"`
	MX       []string `json:"mx_records,omitempty"`
	NS       []string `json:"ns_records,omitempty"`
	TXT      []string `json:"txt_records,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// RunDNSCheck resolves all common record types for a domain. Only the A
// lookup is load-bearing; the other record types are best-effort extras.
func RunDNSCheck(ctx context.Context, domain string, cfg Config) DNSResult {
	var result DNSResult
	host := ExtractHost(domain)
	resolver := &net.Resolver{PreferGo: true}

	lookupCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
	defer cancel()

	aRecords, err := resolver.LookupHost(lookupCtx, host)
	if err != nil {
		result.Error = fmt.Sprintf("DNS lookup failed: %v", err)
		return result
	}
	if len(aRecords) == 0 {
		result.Error = "no A records found"
		return result
	}
	result.Resolves = true
	result.ARecords = aRecords

	if ips, err := resolver.LookupIP(ctx, "ip6", host); err == nil && len(ips) > 0 {
		for _, ip := range ips {
			result.AAAA = append(result.AAAA, ip.String())
		}
	}

	if cname, err := resolver.LookupCNAME(ctx, host); err == nil {
		cname = strings.TrimSuffix(cname, ".")
		if cname != host {
			result.CNAME = cname
		}
	}

	if mxs, err := resolver.LookupMX(ctx, host); err == nil {
		for _, mx := range mxs {
			result.MX = append(result.MX, strings.TrimSuffix(mx.Host, "."))
		}
	}

	if nss, err := resolver.LookupNS(ctx, host); err == nil {
		for _, ns := range nss {
			result.NS = append(result.NS, strings.TrimSuffix(ns.Host, "."))
		}
	}

	if txts, err := resolver.LookupTXT(ctx, host); err == nil {
		result.TXT = txts
	}

	return result
}
