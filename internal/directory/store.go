// internal/directory/store.go
package directory

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/davenull7x/listforge/internal/schema"
)

// Store reads the tabular directory list: one row per target site with
// name, url, optional submit url, optional reveal-control snippet, and a
// status column used for filtering.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// knownColumns maps normalized header names to record fields.
var knownColumns = map[string]bool{
	"name":           true,
	"url":            true,
	"submit_url":     true,
	"reveal_control": true,
	"status":         true,
}

// Load parses every record of the directory list. Rows without a name or
// URL are skipped; records are otherwise returned in file order and treated
// as immutable from here on.
func (s *Store) Load() ([]schema.DirectoryRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open directory list: %w", err)
	}
	defer f.Close()
	return parse(f)
}

// LoadByStatus loads records and keeps only those whose status matches,
// case-insensitively. An empty status keeps everything.
func (s *Store) LoadByStatus(status string) ([]schema.DirectoryRecord, error) {
	records, err := s.Load()
	if err != nil {
		return nil, err
	}
	if status == "" {
		return records, nil
	}
	filtered := records[:0]
	for _, r := range records {
		if strings.EqualFold(r.Status, status) {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

func parse(r io.Reader) ([]schema.DirectoryRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	colIdx := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\uFEFF")
		}
		h = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), " ", "_")
		if knownColumns[h] {
			colIdx[h] = i
		}
	}
	if _, ok := colIdx["name"]; !ok {
		return nil, fmt.Errorf("directory list is missing a name column")
	}
	if _, ok := colIdx["url"]; !ok {
		return nil, fmt.Errorf("directory list is missing a url column")
	}

	field := func(rec []string, col string) string {
		i, ok := colIdx[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var records []schema.DirectoryRecord
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read directory row: %w", err)
		}

		r := schema.DirectoryRecord{
			Name:          field(rec, "name"),
			URL:           field(rec, "url"),
			SubmitURL:     field(rec, "submit_url"),
			RevealControl: field(rec, "reveal_control"),
			Status:        field(rec, "status"),
		}
		if r.Name == "" || r.URL == "" {
			continue
		}
		records = append(records, r)
	}
	return records, nil
}
