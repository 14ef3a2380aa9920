package features

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/user/phish-dataset/internal/entity"
)

func TestExtract_MixedCaseURL(t *testing.T) {
	f := Extract("HTTP://WWW.Example.com/a/b?x=1#frag")

	if f.IsHTTPS {
		t.Fatalf("expected is_https=false")
	}
	if !f.HasWWW {
		t.Fatalf("expected has_www=true")
	}
	if f.NumPaths != 2 {
		t.Fatalf("expected 2 paths, got %d", f.NumPaths)
	}
	if f.NumQueryParams != 1 {
		t.Fatalf("expected 1 query param, got %d", f.NumQueryParams)
	}
	if !f.HasFragment || f.NumFragments != 1 {
		t.Fatalf("expected fragment, got %+v", f)
	}
	if f.URLLength != len("http://www.example.com/a/b?x=1#frag") {
		t.Fatalf("unexpected url_length %d", f.URLLength)
	}
	if f.HostnameLength != 15 || f.SubdomainLength != 3 || f.DomainLength != 7 || f.TLDLength != 3 {
		t.Fatalf("unexpected host decomposition: %+v", f)
	}
	if f.NumSubdomains != 1 {
		t.Fatalf("expected 1 subdomain, got %d", f.NumSubdomains)
	}
	if f.PathLength != 4 || f.QueryLength != 3 || f.AvgPathLength != 1 {
		t.Fatalf("unexpected path/query lengths: %+v", f)
	}
}

func TestExtract_IPHostWithPort(t *testing.T) {
	f := Extract("https://192.168.1.1:8080/login")

	if !f.HasIP {
		t.Fatalf("expected has_ip=true")
	}
	if !f.HasPort {
		t.Fatalf("expected has_port=true")
	}
	if !f.IsHTTPS {
		t.Fatalf("expected is_https=true")
	}
	if f.HasCredentials || f.HasQueryString || f.HasWWW {
		t.Fatalf("unexpected flags: %+v", f)
	}
}

func TestExtract_Counts(t *testing.T) {
	raw := "http://user:pw@my-site.example.org/path-one/x%20y?a=1&b=2&c=3"
	f := Extract(raw)

	if !f.HasCredentials {
		t.Fatalf("expected has_credentials=true")
	}
	if !f.HasHexChars {
		t.Fatalf("expected has_hex_chars=true")
	}
	if f.NumQueryParams != 3 {
		t.Fatalf("expected 3 query params, got %d", f.NumQueryParams)
	}
	if f.NumHyphens != 2 {
		t.Fatalf("expected 2 hyphens, got %d", f.NumHyphens)
	}
	if f.NumSlashes != 4 {
		t.Fatalf("expected 4 slashes, got %d", f.NumSlashes)
	}

	digits, letters, special := 0, 0, 0
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r >= 'a' && r <= 'z':
			letters++
		default:
			special++
		}
	}
	if f.NumDigits != digits || f.NumLetters != letters || f.NumSpecialChars != special {
		t.Fatalf("counts = %d/%d/%d, want %d/%d/%d",
			f.NumDigits, f.NumLetters, f.NumSpecialChars, digits, letters, special)
	}
	if f.NumDigits+f.NumLetters+f.NumSpecialChars != f.URLLength {
		t.Fatalf("character classes do not cover the string: %+v", f)
	}

	total := float64(f.URLLength)
	if f.DigitRatio != float64(digits)/total || f.LetterRatio != float64(letters)/total ||
		f.SpecialCharRatio != float64(special)/total {
		t.Fatalf("unexpected ratios: %+v", f)
	}
}

func TestExtract_NoScheme(t *testing.T) {
	f := Extract("abc")

	if f.URLLength != 3 {
		t.Fatalf("expected url_length=3, got %d", f.URLLength)
	}
	if math.Abs(f.URLEntropy-1.585) > 1e-4 {
		t.Fatalf("expected entropy log2(3), got %v", f.URLEntropy)
	}
	if f.HostnameLength != 0 || f.TLDLength != 0 || f.DomainLength != 0 {
		t.Fatalf("expected empty host, got %+v", f)
	}
	if f.NumPaths != 1 || f.PathLength != 3 || f.AvgPathLength != 3 {
		t.Fatalf("expected single path segment, got %+v", f)
	}
}

func TestExtract_TrimsWhitespace(t *testing.T) {
	if a, b := Extract("  https://example.com/x \n"), Extract("https://example.com/x"); a != b {
		t.Fatalf("whitespace changed the record:\n%+v\n%+v", a, b)
	}
}

func TestExtract_EmptyInputFallsBack(t *testing.T) {
	for _, in := range []string{"", "   ", "\t\n"} {
		f, err := ExtractWithError(in)
		if !errors.Is(err, ErrParseFailure) {
			t.Fatalf("%q: expected ErrParseFailure, got %v", in, err)
		}
		if f != (entity.URLFeatures{}) {
			t.Fatalf("%q: expected zero record, got %+v", in, f)
		}
	}
}

func TestExtract_MalformedInputFallsBack(t *testing.T) {
	inputs := []string{
		"http://[::1/admin",
		"http://::1]/admin",
		"http://[1.2.3.4]/",
		"http://[not-an-ip]/",
	}
	for _, in := range inputs {
		f, err := ExtractWithError(in)
		if !errors.Is(err, ErrParseFailure) {
			t.Fatalf("%q: expected ErrParseFailure, got %v", in, err)
		}
		if f != (entity.URLFeatures{}) {
			t.Fatalf("%q: expected zero record, got %+v", in, f)
		}
		if got := Extract(in); got != (entity.URLFeatures{}) {
			t.Fatalf("%q: Extract did not fall back: %+v", in, got)
		}
	}
}

func TestExtract_RawComponentLengths(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		hostname int
		path     int
		paths    int
		avgPath  float64
	}{
		{"non-ascii path", "http://example.com/é/ü", 11, 4, 2, 1},
		{"space in path", "http://example.com/a b/c", 11, 6, 2, 2},
		{"space in host", "http://exa mple.com/login", 12, 6, 1, 5},
		{"escaped credentials", "http://us%65r:pw@example.com/", 21, 1, 0, 0},
		{"escaped host", "http://ex%41mple.com/", 13, 1, 0, 0},
		{"stray percent in path", "http://example.com/100%", 11, 5, 1, 4},
		{"invalid escape", "https://example.com/%zz", 11, 4, 1, 3},
		{"stray percent in fragment", "http://example.com/a#frag%", 11, 2, 1, 1},
		{"non-numeric port", "http://example.com:port/", 16, 1, 0, 0},
		{"bracketed ipv6 host", "http://[::1]:8080/x", 10, 2, 1, 1},
		{"params on last segment", "http://example.com/a;b/c;x=1", 11, 6, 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ExtractWithError(tt.url)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if f.HostnameLength != tt.hostname {
				t.Errorf("hostname_length = %d, want %d", f.HostnameLength, tt.hostname)
			}
			if f.PathLength != tt.path {
				t.Errorf("path_length = %d, want %d", f.PathLength, tt.path)
			}
			if f.NumPaths != tt.paths {
				t.Errorf("num_paths = %d, want %d", f.NumPaths, tt.paths)
			}
			if f.AvgPathLength != tt.avgPath {
				t.Errorf("avg_path_length = %v, want %v", f.AvgPathLength, tt.avgPath)
			}
		})
	}
}

func TestExtract_EscapesInNetloc(t *testing.T) {
	f := Extract("http://EX%41mple.com/")
	if !f.HasHexChars {
		t.Fatalf("expected has_hex_chars=true")
	}
	if f.DomainLength != len("ex%41mple") || f.TLDLength != 3 {
		t.Fatalf("unexpected host decomposition: %+v", f)
	}

	f = Extract("http://example.com:port/")
	if f.HasPort {
		t.Fatalf("non-numeric port must not set has_port")
	}

	f = Extract("http://example.com/a#frag%")
	if !f.HasFragment || f.NumFragments != 1 {
		t.Fatalf("expected fragment, got %+v", f)
	}
}

func TestExtract_CharacterClassesCoverNumerals(t *testing.T) {
	f := Extract("http://example.com/x²")
	if f.NumDigits != 1 {
		t.Fatalf("num_digits = %d, want 1", f.NumDigits)
	}
	if f.NumDigits+f.NumLetters+f.NumSpecialChars != f.URLLength {
		t.Fatalf("character classes do not cover the string: %+v", f)
	}
}

func TestExtract_SameKeySetOnSuccessAndFailure(t *testing.T) {
	keys := func(f entity.URLFeatures) map[string]bool {
		raw, err := json.Marshal(f)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var m map[string]any
		if err := json.Unmarshal(raw, &m); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		out := make(map[string]bool, len(m))
		for k := range m {
			out[k] = true
		}
		return out
	}

	ok := keys(Extract("https://login.example.com/verify?id=1"))
	bad := keys(Extract("http://[::1"))
	if len(ok) != len(entity.FeatureNames) || len(bad) != len(entity.FeatureNames) {
		t.Fatalf("key counts %d/%d, want %d", len(ok), len(bad), len(entity.FeatureNames))
	}
	for _, name := range entity.FeatureNames {
		if !ok[name] || !bad[name] {
			t.Fatalf("missing key %q", name)
		}
	}
}

func TestExtract_Idempotent(t *testing.T) {
	inputs := []string{"https://a.b.c.example.com/x/y/z?q=1", "abc", "", "http://[::1", "http://example.com/100%"}
	for _, in := range inputs {
		if Extract(in) != Extract(in) {
			t.Fatalf("%q: extraction is not deterministic", in)
		}
	}
}

func TestExtract_Subdomains(t *testing.T) {
	f := Extract("http://a.b.c.example.com")
	if f.NumSubdomains != 3 {
		t.Fatalf("expected 3 subdomains, got %d", f.NumSubdomains)
	}
	if f.SubdomainLength != len("a.b.c") {
		t.Fatalf("unexpected subdomain_length %d", f.SubdomainLength)
	}
	if f.NumPaths != 0 || f.AvgPathLength != 0 {
		t.Fatalf("expected no path segments, got %+v", f)
	}
}
