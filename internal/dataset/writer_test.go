package dataset

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/user/phish-dataset/internal/entity"
	"github.com/user/phish-dataset/internal/features"
)

func TestWriteFeaturesJSON(t *testing.T) {
	rows := ExtractFeatures([]entity.EnrichTask{{URL: "http://example.com"}, {URL: "http://[::1"}})

	var out strings.Builder
	if err := WriteFeaturesJSON(&out, rows); err != nil {
		t.Fatalf("WriteFeaturesJSON: %v", err)
	}

	if !strings.HasPrefix(strings.TrimSpace(out.String()), "[\n  {\n    \"url\": \"http://example.com\"") {
		t.Errorf("url is not the first key:\n%s", out.String())
	}

	var decoded []map[string]any
	if err := json.Unmarshal([]byte(out.String()), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("got %d objects, want 2", len(decoded))
	}
	for _, obj := range decoded {
		if len(obj) != len(entity.FeatureNames)+1 {
			t.Errorf("object has %d keys, want %d", len(obj), len(entity.FeatureNames)+1)
		}
	}
	if decoded[1]["url_length"] != float64(0) {
		t.Errorf("fallback record url_length = %v, want 0", decoded[1]["url_length"])
	}
}

func TestWriteFeaturesCSV(t *testing.T) {
	rows := []FeatureRow{{URL: "http://example.com", Features: features.Extract("http://example.com")}}

	var out strings.Builder
	if err := WriteFeaturesCSV(&out, rows); err != nil {
		t.Fatalf("WriteFeaturesCSV: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(out.String())).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(records) != 2 || records[0][0] != "url" || records[1][0] != "http://example.com" {
		t.Fatalf("unexpected records %v", records)
	}
	if len(records[1]) != len(entity.FeatureNames)+1 {
		t.Errorf("row has %d fields", len(records[1]))
	}
}

func TestWriteRows(t *testing.T) {
	days := 10
	row := &entity.DatasetRow{
		URL:         "http://example.com",
		Label:       "benign",
		ProcessedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		Features:    features.Extract("http://example.com"),
		DNS: entity.DNSRecords{
			A: entity.RecordSet{IPs: []string{"1.2.3.4"}, Geolocations: []string{"US"}},
		},
		Whois: entity.WhoisRecord{DomainRegistered: "yes", DaysExisted: &days},
	}

	var js strings.Builder
	if err := WriteRowsJSON(&js, []*entity.DatasetRow{row}); err != nil {
		t.Fatalf("WriteRowsJSON: %v", err)
	}
	var decoded []map[string]any
	if err := json.Unmarshal([]byte(js.String()), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	obj := decoded[0]
	if obj["timestamp"] != "2024-05-01 10:00:00" || obj["ipa_1"] != "1.2.3.4" || obj["ipa_loc_1"] != "US" {
		t.Errorf("unexpected object %v", obj)
	}
	if obj["whois_days_existed"] != float64(10) || obj["ipmx_1"] != "" {
		t.Errorf("unexpected whois/mx columns %v", obj)
	}

	var cs strings.Builder
	if err := WriteRowsCSV(&cs, []*entity.DatasetRow{row}); err != nil {
		t.Fatalf("WriteRowsCSV: %v", err)
	}
	records, err := csv.NewReader(strings.NewReader(cs.String())).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(records[0]) != len(entity.Columns()) || len(records[1]) != len(records[0]) {
		t.Errorf("header/row width mismatch: %d vs %d", len(records[0]), len(records[1]))
	}
}

func TestWriteFileAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")

	err := WriteFileAtomic(path, func(w io.Writer) error {
		_, err := w.Write([]byte("[]"))
		return err
	})
	if err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "[]" {
		t.Fatalf("ReadFile = %q, %v", data, err)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("temporary file left behind: %v", entries)
	}
}
