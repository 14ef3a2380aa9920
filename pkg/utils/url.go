package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// ErrNoRegisteredDomain is returned when a URL has no public-suffix-plus-one domain,
// e.g. bare IP addresses, single-label hosts or unparseable input.
var ErrNoRegisteredDomain = errors.New("no registered domain")

// HashURL creates a SHA256 hash of a URL string.
// This is useful for creating consistent, safe keys for Redis.
func HashURL(rawURL string) string {
	h := sha256.New()
	h.Write([]byte(rawURL))
	return hex.EncodeToString(h.Sum(nil))
}

// Hostname returns the lowercased host of rawURL. Scheme-less input such as
// "example.com/login" is treated as if it started with http://.
func Hostname(rawURL string) (string, error) {
	s := strings.TrimSpace(rawURL)
	if !strings.Contains(s, "://") {
		s = "http://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(strings.ToLower(u.Hostname()), "."), nil
}

// RegisteredDomain returns the eTLD+1 of rawURL ("login.example.co.uk" -> "example.co.uk").
func RegisteredDomain(rawURL string) (string, error) {
	host, err := Hostname(rawURL)
	if err != nil {
		return "", err
	}
	if host == "" || net.ParseIP(host) != nil {
		return "", ErrNoRegisteredDomain
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return "", ErrNoRegisteredDomain
	}
	return domain, nil
}
