package checker

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"time"
)

// tlsSoonExpiryWindow marks certificates close to expiry with a warning.
const tlsSoonExpiryWindow = 14 * 24 * time.Hour

// SSLResult is the output of the TLS certificate check.
type SSLResult struct {
	Valid           bool   `json:"valid"`
	Issuer          string `json:"issuer,omitempty"`
	DaysUntilExpiry *int   `json:"days_until_expiry,omitempty"`
	ExpiresAt       string `json:"expires_at,omitempty"`
	Warning         bool   `json:"warning,omitempty"`
	Error           string `json:"error,omitempty"`
}

// RunSSLCheck performs a TLS handshake on port 443 and inspects the leaf
// certificate.
func RunSSLCheck(ctx context.Context, domain string, cfg Config) SSLResult {
	var result SSLResult

	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: cfg.RequestTimeout},
		Config:    &tls.Config{ServerName: domain},
	}

	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(domain, "443"))
	if err != nil {
		result.Error = fmt.Sprintf("TLS handshake failed: %v", err)
		return result
	}
	defer conn.Close()

	state := conn.(*tls.Conn).ConnectionState()
	if len(state.PeerCertificates) == 0 {
		result.Error = "no peer certificates presented"
		return result
	}

	cert := state.PeerCertificates[0]
	result.Valid = true
	if len(cert.Issuer.Organization) > 0 {
		result.Issuer = cert.Issuer.Organization[0]
	} else {
		result.Issuer = cert.Issuer.CommonName
	}
	result.ExpiresAt = cert.NotAfter.UTC().Format(time.RFC3339)

	left := int(time.Until(cert.NotAfter).Hours() / 24)
	result.DaysUntilExpiry = &left
	if time.Until(cert.NotAfter) < tlsSoonExpiryWindow {
		result.Warning = true
	}
	return result
}
