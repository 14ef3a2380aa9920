package dataset

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/user/phish-dataset/internal/entity"
)

// Merge inner-joins a feature CSV with a DNS summary CSV on their url columns and
// writes the result to w. Feature columns come first, in their original order,
// followed by the DNS columns other than url. The DNS has_ip column is renamed
// dns_has_ip and only the first geolocation is kept. It returns the number of
// joined rows written.
func Merge(features, dns io.Reader, w io.Writer) (int, error) {
	fHeader, fRecords, err := readAll(features)
	if err != nil {
		return 0, fmt.Errorf("features: %w", err)
	}
	dHeader, dRecords, err := readAll(dns)
	if err != nil {
		return 0, fmt.Errorf("dns: %w", err)
	}

	fURL, err := columnIndex(fHeader, "url")
	if err != nil {
		return 0, fmt.Errorf("features: %w", err)
	}
	dURL, err := columnIndex(dHeader, "url")
	if err != nil {
		return 0, fmt.Errorf("dns: %w", err)
	}
	geoIdx, _ := columnIndex(dHeader, "geolocation")

	header := append([]string{}, fHeader...)
	var dnsCols []int
	for i, h := range dHeader {
		if i == dURL {
			continue
		}
		if h == "has_ip" {
			h = "dns_has_ip"
		}
		header = append(header, h)
		dnsCols = append(dnsCols, i)
	}

	byURL := make(map[string][][]string, len(dRecords))
	for _, rec := range dRecords {
		if geoIdx >= 0 && geoIdx < len(rec) {
			rec[geoIdx] = entity.DNSSummary{Geolocation: rec[geoIdx]}.FirstGeolocation()
		}
		u := field(rec, dURL)
		byURL[u] = append(byURL[u], rec)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return 0, err
	}

	n := 0
	for _, frec := range fRecords {
		for _, drec := range byURL[field(frec, fURL)] {
			out := make([]string, 0, len(header))
			out = append(out, frec[:min(len(frec), len(fHeader))]...)
			for len(out) < len(fHeader) {
				out = append(out, "")
			}
			for _, i := range dnsCols {
				out = append(out, field(drec, i))
			}
			if err := cw.Write(out); err != nil {
				return n, err
			}
			n++
		}
	}
	cw.Flush()
	return n, cw.Error()
}
