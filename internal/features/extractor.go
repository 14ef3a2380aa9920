// Package features computes the lexical feature record of a URL string.
package features

import (
	"errors"
	"fmt"
	"net/netip"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/user/phish-dataset/internal/entity"
)

var (
	// ErrParseFailure marks input that could not be decomposed into URL parts.
	ErrParseFailure = errors.New("url parse failure")
	// ErrEmptyURL is the parse failure reported for blank input.
	ErrEmptyURL = fmt.Errorf("%w: empty url", ErrParseFailure)
)

var (
	ipv4Pattern = regexp.MustCompile(`\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}`)
	portPattern = regexp.MustCompile(`:\d+`)
	hexPattern  = regexp.MustCompile(`%[0-9a-fA-F]{2}`)
	ipvFuture   = regexp.MustCompile(`^v[0-9a-f]+\..+$`)
)

// Extract returns the feature record of rawURL. Input that cannot be parsed yields
// the zero record, which carries the same keys as a successful extraction.
func Extract(rawURL string) entity.URLFeatures {
	f, _ := ExtractWithError(rawURL)
	return f
}

// ExtractWithError is Extract that also reports why the fallback record was used.
// The returned record is always usable; err is nil or wraps ErrParseFailure.
func ExtractWithError(rawURL string) (entity.URLFeatures, error) {
	// The whole string is lowercased, path and query included. Datasets built
	// earlier depend on these counts, so case-sensitive content is folded too.
	s := strings.ToLower(strings.TrimSpace(rawURL))
	if s == "" {
		return entity.URLFeatures{}, ErrEmptyURL
	}

	p, err := split(s)
	if err != nil {
		return entity.URLFeatures{}, fmt.Errorf("%w: %v", ErrParseFailure, err)
	}

	var f entity.URLFeatures
	total := utf8.RuneCountInString(s)

	f.URLLength = total
	f.HostnameLength = utf8.RuneCountInString(p.netloc)

	hostParts := strings.Split(p.netloc, ".")
	if len(hostParts) > 2 {
		f.SubdomainLength = utf8.RuneCountInString(strings.Join(hostParts[:len(hostParts)-2], "."))
		f.NumSubdomains = len(hostParts) - 2
	}
	f.TLDLength = utf8.RuneCountInString(hostParts[len(hostParts)-1])
	if len(hostParts) > 1 {
		f.DomainLength = utf8.RuneCountInString(hostParts[len(hostParts)-2])
	}

	for _, r := range s {
		switch {
		case unicode.IsNumber(r):
			f.NumDigits++
		case unicode.IsLetter(r):
			f.NumLetters++
		default:
			f.NumSpecialChars++
		}
	}
	f.NumHyphens = strings.Count(s, "-")
	f.NumSlashes = strings.Count(s, "/")

	segments := pathSegments(p.path)
	f.NumPaths = len(segments)
	if p.query != "" {
		f.NumQueryParams = len(strings.Split(p.query, "&"))
	}
	if p.fragment != "" {
		f.NumFragments = 1
	}

	f.HasIP = ipv4Pattern.MatchString(p.netloc)
	f.IsHTTPS = p.scheme == "https"
	f.HasPort = portPattern.MatchString(p.netloc)
	f.HasCredentials = strings.Contains(p.netloc, "@")
	f.HasQueryString = p.query != ""
	f.HasFragment = p.fragment != ""
	f.HasHexChars = hexPattern.MatchString(s)
	f.HasWWW = strings.HasPrefix(p.netloc, "www.")

	f.DigitRatio = float64(f.NumDigits) / float64(total)
	f.LetterRatio = float64(f.NumLetters) / float64(total)
	f.SpecialCharRatio = float64(f.NumSpecialChars) / float64(total)
	f.URLEntropy = Entropy(s)

	f.PathLength = utf8.RuneCountInString(p.path)
	f.QueryLength = utf8.RuneCountInString(p.query)
	if len(segments) > 0 {
		sum := 0
		for _, seg := range segments {
			sum += utf8.RuneCountInString(seg)
		}
		f.AvgPathLength = float64(sum) / float64(len(segments))
	}

	return f, nil
}

type parts struct {
	scheme   string
	netloc   string
	path     string
	params   string
	query    string
	fragment string
}

// unsafeBytes are dropped anywhere in the input before splitting.
var unsafeBytes = strings.NewReplacer("\t", "", "\r", "", "\n", "")

// paramSchemes carry ";params" on the last path segment.
var paramSchemes = map[string]bool{
	"": true, "ftp": true, "hdl": true, "prospero": true, "http": true, "imap": true,
	"https": true, "shttp": true, "rtsp": true, "rtsps": true, "rtspu": true,
	"sip": true, "sips": true, "mms": true, "sftp": true, "tel": true,
}

// split decomposes s into raw substrings of the input: scheme, netloc (credentials
// and port included), path, params, query and fragment. Escapes are not validated.
// The only rejected input is a netloc with an unbalanced or invalid bracketed host.
func split(s string) (parts, error) {
	var p parts
	rest := unsafeBytes.Replace(s)

	if i := strings.IndexByte(rest, ':'); i > 0 && isSchemeStart(rest[0]) && isScheme(rest[:i]) {
		p.scheme, rest = rest[:i], rest[i+1:]
	}

	if strings.HasPrefix(rest, "//") {
		rest = rest[2:]
		end := strings.IndexAny(rest, "/?#")
		if end < 0 {
			end = len(rest)
		}
		p.netloc, rest = rest[:end], rest[end:]
		if err := checkBrackets(p.netloc); err != nil {
			return parts{}, err
		}
	}

	rest, p.fragment, _ = strings.Cut(rest, "#")
	rest, p.query, _ = strings.Cut(rest, "?")

	p.path = rest
	if paramSchemes[p.scheme] {
		p.path, p.params = splitParams(rest)
	}
	return p, nil
}

func isSchemeStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isScheme(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !isSchemeStart(c) && !(c >= '0' && c <= '9') && c != '+' && c != '-' && c != '.' {
			return false
		}
	}
	return true
}

func checkBrackets(netloc string) error {
	open, closed := strings.Contains(netloc, "["), strings.Contains(netloc, "]")
	if open != closed {
		return errors.New("invalid ipv6 url")
	}
	if !open {
		return nil
	}
	_, after, _ := strings.Cut(netloc, "[")
	host, _, _ := strings.Cut(after, "]")
	if ipvFuture.MatchString(host) {
		return nil
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return fmt.Errorf("invalid bracketed host %q: %w", host, err)
	}
	if !addr.Is6() {
		return fmt.Errorf("bracketed host %q is not ipv6", host)
	}
	return nil
}

// splitParams cuts ";params" from the last segment of path.
func splitParams(path string) (string, string) {
	from := 0
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		from = i
	}
	i := strings.IndexByte(path[from:], ';')
	if i < 0 {
		return path, ""
	}
	return path[:from+i], path[from+i+1:]
}

func pathSegments(path string) []string {
	var out []string
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			out = append(out, seg)
		}
	}
	return out
}
