package entity

import "strconv"

// URLFeatures is the lexical feature record of a single URL. Its zero value is the
// fallback record emitted when a URL cannot be parsed, so success and failure share
// one schema by construction.
type URLFeatures struct {
	URLLength        int     `json:"url_length"`
	HostnameLength   int     `json:"hostname_length"`
	SubdomainLength  int     `json:"subdomain_length"`
	TLDLength        int     `json:"tld_length"`
	DomainLength     int     `json:"domain_length"`
	NumDigits        int     `json:"num_digits"`
	NumLetters       int     `json:"num_letters"`
	NumSpecialChars  int     `json:"num_special_chars"`
	NumPaths         int     `json:"num_paths"`
	NumQueryParams   int     `json:"num_query_params"`
	NumFragments     int     `json:"num_fragments"`
	NumSubdomains    int     `json:"num_subdomains"`
	NumHyphens       int     `json:"num_hyphens"`
	NumSlashes       int     `json:"num_slashes"`
	HasIP            bool    `json:"has_ip"`
	IsHTTPS          bool    `json:"is_https"`
	HasPort          bool    `json:"has_port"`
	HasCredentials   bool    `json:"has_credentials"`
	HasQueryString   bool    `json:"has_query_string"`
	HasFragment      bool    `json:"has_fragment"`
	HasHexChars      bool    `json:"has_hex_chars"`
	HasWWW           bool    `json:"has_www"`
	DigitRatio       float64 `json:"digit_ratio"`
	LetterRatio      float64 `json:"letter_ratio"`
	SpecialCharRatio float64 `json:"special_char_ratio"`
	URLEntropy       float64 `json:"url_entropy"`
	PathLength       int     `json:"path_length"`
	QueryLength      int     `json:"query_length"`
	AvgPathLength    float64 `json:"avg_path_length"`
}

// FeatureNames lists the feature keys in column order.
var FeatureNames = []string{
	"url_length", "hostname_length", "subdomain_length", "tld_length", "domain_length",
	"num_digits", "num_letters", "num_special_chars", "num_paths", "num_query_params",
	"num_fragments", "num_subdomains", "num_hyphens", "num_slashes",
	"has_ip", "is_https", "has_port", "has_credentials", "has_query_string",
	"has_fragment", "has_hex_chars", "has_www",
	"digit_ratio", "letter_ratio", "special_char_ratio", "url_entropy",
	"path_length", "query_length", "avg_path_length",
}

// Fields returns the feature values in FeatureNames order.
func (f URLFeatures) Fields() []any {
	return []any{
		f.URLLength, f.HostnameLength, f.SubdomainLength, f.TLDLength, f.DomainLength,
		f.NumDigits, f.NumLetters, f.NumSpecialChars, f.NumPaths, f.NumQueryParams,
		f.NumFragments, f.NumSubdomains, f.NumHyphens, f.NumSlashes,
		f.HasIP, f.IsHTTPS, f.HasPort, f.HasCredentials, f.HasQueryString,
		f.HasFragment, f.HasHexChars, f.HasWWW,
		f.DigitRatio, f.LetterRatio, f.SpecialCharRatio, f.URLEntropy,
		f.PathLength, f.QueryLength, f.AvgPathLength,
	}
}

// Map returns the record keyed by feature name.
func (f URLFeatures) Map() map[string]any {
	fields := f.Fields()
	m := make(map[string]any, len(FeatureNames))
	for i, name := range FeatureNames {
		m[name] = fields[i]
	}
	return m
}

// Strings formats the record for a CSV row, in FeatureNames order.
func (f URLFeatures) Strings() []string {
	fields := f.Fields()
	out := make([]string, len(fields))
	for i, v := range fields {
		out[i] = FormatValue(v)
	}
	return out
}

// FormatValue renders a feature or row value the way CSV output expects it.
func FormatValue(v any) string {
	switch x := v.(type) {
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case string:
		return x
	case *int:
		if x == nil {
			return ""
		}
		return strconv.Itoa(*x)
	default:
		return ""
	}
}
