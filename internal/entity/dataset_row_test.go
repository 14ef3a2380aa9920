package entity

import (
	"testing"
	"time"
)

func TestDatasetRow_FlattenUsesFixedColumns(t *testing.T) {
	days := 365
	row := &DatasetRow{
		URL:         "https://example.com",
		Label:       "benign",
		ProcessedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Features:    URLFeatures{URLLength: 19, IsHTTPS: true},
		DNS: DNSRecords{
			A: RecordSet{IPs: []string{"93.184.216.34"}, Geolocations: []string{"US"}},
		},
		Whois: WhoisRecord{DomainName: "example.com", DaysExisted: &days},
	}

	flat := row.Flatten()
	if len(flat) != len(Columns()) {
		t.Fatalf("got %d keys, want %d", len(flat), len(Columns()))
	}
	checks := map[string]any{
		"url":               "https://example.com",
		"timestamp":         "2024-01-02 03:04:05",
		"url_length":        19,
		"is_https":          true,
		"ipa_1":             "93.184.216.34",
		"ipa_loc_1":         "US",
		"ipa_2":             "",
		"ipmx_1":            "",
		"whois_domain_name": "example.com",
	}
	for k, want := range checks {
		if flat[k] != want {
			t.Fatalf("%s = %v, want %v", k, flat[k], want)
		}
	}

	s := row.Strings()
	cols := Columns()
	for i, c := range cols {
		if c == "whois_days_existed" && s[i] != "365" {
			t.Fatalf("days_existed rendered as %q", s[i])
		}
	}
}
