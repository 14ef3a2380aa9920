package entity

import "time"

// TimestampLayout is how dataset rows render their processing time.
const TimestampLayout = "2006-01-02 15:04:05"

// DNSColumns lists the flattened DNS columns of a dataset row: the first two A and
// MX addresses with their geolocations.
var DNSColumns = []string{
	"ipa_1", "ipa_loc_1", "ipa_2", "ipa_loc_2",
	"ipmx_1", "ipmx_loc_1", "ipmx_2", "ipmx_loc_2",
}

// DatasetRow is one fully enriched URL, the unit stored in `dataset_rows` and
// written to dataset files.
type DatasetRow struct {
	ID          int64
	URL         string
	Label       string
	ProcessedAt time.Time
	Features    URLFeatures
	DNS         DNSRecords
	Whois       WhoisRecord
}

// Columns returns the header of a flattened dataset file.
func Columns() []string {
	cols := []string{"url", "label", "timestamp"}
	cols = append(cols, FeatureNames...)
	cols = append(cols, DNSColumns...)
	cols = append(cols, WhoisColumns...)
	return cols
}

// Fields returns the row values in Columns order. Missing DNS entries are empty strings.
func (r *DatasetRow) Fields() []any {
	out := []any{r.URL, r.Label, r.ProcessedAt.Format(TimestampLayout)}
	out = append(out, r.Features.Fields()...)
	out = append(out, firstTwo(r.DNS.A.IPs, r.DNS.A.Geolocations)...)
	out = append(out, firstTwo(r.DNS.MX.IPs, r.DNS.MX.Geolocations)...)
	out = append(out, r.Whois.Fields()...)
	return out
}

// Flatten returns the row as a single-level map keyed by column name.
func (r *DatasetRow) Flatten() map[string]any {
	cols := Columns()
	fields := r.Fields()
	m := make(map[string]any, len(cols))
	for i, c := range cols {
		m[c] = fields[i]
	}
	return m
}

// Strings formats the row for CSV output.
func (r *DatasetRow) Strings() []string {
	fields := r.Fields()
	out := make([]string, len(fields))
	for i, v := range fields {
		out[i] = FormatValue(v)
	}
	return out
}

func firstTwo(ips, locs []string) []any {
	out := []any{"", "", "", ""}
	for i := 0; i < 2 && i < len(ips) && i < len(locs); i++ {
		out[2*i] = ips[i]
		out[2*i+1] = locs[i]
	}
	return out
}
