package dataset

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/user/phish-dataset/internal/entity"
)

// FeatureRow pairs a URL with its extracted features.
type FeatureRow struct {
	URL      string
	Features entity.URLFeatures
}

// MarshalJSON writes the URL first, then the features in FeatureNames order.
func (r FeatureRow) MarshalJSON() ([]byte, error) {
	keys := append([]string{"url"}, entity.FeatureNames...)
	values := append([]any{r.URL}, r.Features.Fields()...)
	return orderedObject(keys, values)
}

// WriteFeaturesJSON writes rows as an indented JSON array.
func WriteFeaturesJSON(w io.Writer, rows []FeatureRow) error {
	return writeJSON(w, rows)
}

// WriteFeaturesCSV writes a url column followed by one column per feature.
func WriteFeaturesCSV(w io.Writer, rows []FeatureRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"url"}, entity.FeatureNames...)); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(append([]string{r.URL}, r.Features.Strings()...)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type flatRow struct{ *entity.DatasetRow }

func (r flatRow) MarshalJSON() ([]byte, error) {
	return orderedObject(entity.Columns(), r.Fields())
}

// WriteRowsJSON writes enriched rows as a JSON array of flat objects in column order.
func WriteRowsJSON(w io.Writer, rows []*entity.DatasetRow) error {
	flat := make([]flatRow, len(rows))
	for i, r := range rows {
		flat[i] = flatRow{r}
	}
	return writeJSON(w, flat)
}

// WriteRowsCSV writes enriched rows with the entity.Columns header.
func WriteRowsCSV(w io.Writer, rows []*entity.DatasetRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(entity.Columns()); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(r.Strings()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFileAtomic writes the output of fn to a temporary file next to path and
// renames it into place, so readers never see a half written file.
func WriteFileAtomic(path string, fn func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := fn(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func orderedObject(keys []string, values []any) ([]byte, error) {
	if len(keys) != len(values) {
		return nil, fmt.Errorf("ordered object: %d keys for %d values", len(keys), len(values))
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
