package domainutil

import (
	"reflect"
	"testing"
)

func TestExtractMainDomain(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{"plain domain", "example.lt", "example.lt"},
		{"https url with path", "https://www.example.lt/path", "example.lt"},
		{"http subdomain", "http://blog.example.lt", "example.lt"},
		{"deep subdomain", "subdomain.deep.example.lt", "example.lt"},
		{"www stripped", "www.example.lt", "example.lt"},
		{"uppercase", "EXAMPLE.LT", "example.lt"},
		{"port removed", "example.lt:8080", "example.lt"},
		{"gov.lt subdomain kept", "https://stat.gov.lt", "stat.gov.lt"},
		{"www gov.lt kept", "http://www.lrv.gov.lt", "lrv.gov.lt"},
		{"lrv.lt subdomain kept", "ministerija.lrv.lt", "ministerija.lrv.lt"},
		{"edu.lt subdomain kept", "vu.edu.lt", "vu.edu.lt"},
		{"mil.lt subdomain kept", "kam.mil.lt", "kam.mil.lt"},
		{"bare label", "localhost", "localhost"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractMainDomain(tc.input); got != tc.want {
				t.Errorf("ExtractMainDomain(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestIsLithuanian(t *testing.T) {
	testCases := []struct {
		input string
		want  bool
	}{
		{"example.lt", true},
		{"https://example.lt", true},
		{"https://example.lt/path", true},
		{"example.com", false},
		{"example.lt.com", false},
		{"EXAMPLE.LT", true},
	}

	for _, tc := range testCases {
		if got := IsLithuanian(tc.input); got != tc.want {
			t.Errorf("IsLithuanian(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestSameFamily(t *testing.T) {
	testCases := []struct {
		name string
		a, b string
		want bool
	}{
		{"www variant", "example.lt", "www.example.lt", true},
		{"scheme variant", "example.lt", "https://example.lt", true},
		{"case insensitive", "example.lt", "EXAMPLE.LT", true},
		{"different domain", "example.lt", "other.lt", false},
		{"ordinary subdomain folds", "example.lt", "blog.example.lt", true},
		{"gov.lt subdomains distinct", "stat.gov.lt", "lrv.gov.lt", false},
		{"gov.lt www variant", "stat.gov.lt", "www.stat.gov.lt", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SameFamily(tc.a, tc.b); got != tc.want {
				t.Errorf("SameFamily(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestShouldCapture(t *testing.T) {
	testCases := []struct {
		name   string
		source string
		target string
		want   bool
	}{
		{"different lt domain", "example.lt", "partner.lt", true},
		{"same domain", "example.lt", "example.lt", false},
		{"www variant of source", "example.lt", "www.example.lt", false},
		{"ignored service", "example.lt", "google.lt", false},
		{"not lithuanian", "example.lt", "partner.com", false},
		{"gov.lt target", "example.lt", "stat.gov.lt", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ShouldCapture(tc.source, tc.target); got != tc.want {
				t.Errorf("ShouldCapture(%q, %q) = %v, want %v", tc.source, tc.target, got, tc.want)
			}
		})
	}
}

func TestCaptureFromChain(t *testing.T) {
	chain := []string{
		"https://example.lt",
		"https://www.example.lt/",
		"https://partner.lt/landing",
		"https://partner.lt/landing2",
		"https://google.com",
		"https://kitas.lt",
	}
	got := CaptureFromChain(chain, "example.lt")
	want := []string{"kitas.lt", "partner.lt"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CaptureFromChain = %v, want %v", got, want)
	}
}

func TestCaptureFromChain_Empty(t *testing.T) {
	if got := CaptureFromChain([]string{"https://example.lt"}, "example.lt"); got != nil {
		t.Errorf("expected nil for self-only chain, got %v", got)
	}
	if got := CaptureFromChain(nil, "example.lt"); got != nil {
		t.Errorf("expected nil for empty chain, got %v", got)
	}
}
