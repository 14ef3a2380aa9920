package entity

import "strings"

// GeoUnknown is reported for IPs whose country could not be determined.
const GeoUnknown = "Unknown"

// RecordSet holds resolved IPs and their geolocations, index-aligned.
type RecordSet struct {
	IPs          []string `json:"IPs"`
	Geolocations []string `json:"Geolocations"`
}

// MXRecordSet is a RecordSet for the A records of a domain's mail exchangers.
type MXRecordSet struct {
	MailServers  []string `json:"MailServers"`
	IPs          []string `json:"IPs"`
	Geolocations []string `json:"Geolocations"`
}

// DNSRecords is the A and MX resolution of one URL's registered domain.
type DNSRecords struct {
	A  RecordSet   `json:"A"`
	MX MXRecordSet `json:"MX"`
}

// EmptyDNSRecords returns records whose slices are empty rather than nil,
// so they serialize as [] like a failed lookup should.
func EmptyDNSRecords() DNSRecords {
	return DNSRecords{
		A:  RecordSet{IPs: []string{}, Geolocations: []string{}},
		MX: MXRecordSet{MailServers: []string{}, IPs: []string{}, Geolocations: []string{}},
	}
}

// DNSResult is one line of the batch DNS output file.
type DNSResult struct {
	URL        string     `json:"url"`
	DNSRecords DNSRecords `json:"dns_records"`
	Error      string     `json:"error,omitempty"`
}

const missingValue = "NaN"

// DNSSummary is the tabular form of a DNSResult.
type DNSSummary struct {
	URL         string `json:"url"`
	HasIP       int    `json:"has_ip"`
	ARecord     string `json:"a_record"`
	MXRecord    string `json:"mx_record"`
	Geolocation string `json:"geolocation"`
}

// Summarize flattens a DNSResult. Empty lists become "NaN"; the geolocation column
// prefers A-record locations and falls back to MX locations.
func (r DNSResult) Summarize() DNSSummary {
	a := r.DNSRecords.A
	mx := r.DNSRecords.MX

	s := DNSSummary{
		URL:         r.URL,
		ARecord:     joinOrMissing(a.IPs),
		MXRecord:    joinOrMissing(mx.IPs),
		Geolocation: missingValue,
	}
	if len(a.IPs) > 0 || len(mx.IPs) > 0 {
		s.HasIP = 1
	}
	switch {
	case len(a.Geolocations) > 0:
		s.Geolocation = strings.Join(a.Geolocations, ", ")
	case len(mx.Geolocations) > 0:
		s.Geolocation = strings.Join(mx.Geolocations, ", ")
	}
	return s
}

// FirstGeolocation returns the first entry of the comma separated geolocation column.
func (s DNSSummary) FirstGeolocation() string {
	first, _, _ := strings.Cut(s.Geolocation, ",")
	return first
}

func joinOrMissing(values []string) string {
	if len(values) == 0 {
		return missingValue
	}
	return strings.Join(values, ", ")
}
