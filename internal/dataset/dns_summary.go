package dataset

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/user/phish-dataset/internal/entity"
)

var summaryHeader = []string{"url", "has_ip", "a_record", "mx_record", "geolocation"}

// WriteDNSResults writes batch DNS results as an indented JSON array.
func WriteDNSResults(w io.Writer, results []entity.DNSResult) error {
	if results == nil {
		results = []entity.DNSResult{}
	}
	return writeJSON(w, results)
}

// ReadDNSResults parses a JSON array written by WriteDNSResults.
func ReadDNSResults(r io.Reader) ([]entity.DNSResult, error) {
	var results []entity.DNSResult
	if err := json.NewDecoder(r).Decode(&results); err != nil {
		return nil, fmt.Errorf("decode dns results: %w", err)
	}
	return results, nil
}

// Summarize converts DNS results into their tabular summaries.
func Summarize(results []entity.DNSResult) []entity.DNSSummary {
	out := make([]entity.DNSSummary, len(results))
	for i, r := range results {
		out[i] = r.Summarize()
	}
	return out
}

// WriteSummariesCSV writes summaries with the url, has_ip, a_record, mx_record,
// geolocation header.
func WriteSummariesCSV(w io.Writer, summaries []entity.DNSSummary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(summaryHeader); err != nil {
		return err
	}
	for _, s := range summaries {
		rec := []string{s.URL, strconv.Itoa(s.HasIP), s.ARecord, s.MXRecord, s.Geolocation}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
