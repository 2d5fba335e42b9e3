// internal/store/store.go
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/davenull7x/listforge/internal/schema"
)

// codec sorts map keys so that identical input always serializes to
// byte-identical output; re-analyzing an unchanged site must not dirty the
// profile store.
var codec = jsoniter.Config{
	EscapeHTML:    true,
	SortMapKeys:   true,
	IndentionStep: 2,
}.Froze()

// Store persists the three run artifacts, one file per concern: site
// profiles keyed by directory name, the ordered submission result list, and
// the field statistics report.
type Store struct {
	profilePath string
	resultPath  string
	statsPath   string
	log         *zap.Logger
}

func New(profilePath, resultPath, statsPath string, logger *zap.Logger) *Store {
	return &Store{
		profilePath: profilePath,
		resultPath:  resultPath,
		statsPath:   statsPath,
		log:         logger.Named("store"),
	}
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (s *Store) save(path string, v any) error {
	data, err := codec.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	if err := writeFileAtomic(path, append(data, '\n')); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	s.log.Debug("Store updated", zap.String("path", path))
	return nil
}

func load(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := codec.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal %s: %w", path, err)
	}
	return nil
}

// SaveProfiles replaces the whole profile store. Configs are rebuilt whole
// on every analysis pass, never merged.
func (s *Store) SaveProfiles(profiles map[string]schema.SiteConfig) error {
	return s.save(s.profilePath, profiles)
}

// LoadProfiles returns the persisted profile map. A missing file is an
// empty store, not an error.
func (s *Store) LoadProfiles() (map[string]schema.SiteConfig, error) {
	profiles := make(map[string]schema.SiteConfig)
	if err := load(s.profilePath, &profiles); err != nil {
		if os.IsNotExist(err) {
			return profiles, nil
		}
		return nil, err
	}
	return profiles, nil
}

// AppendResult appends one submission record to the ordered result list.
func (s *Store) AppendResult(name, url string, result schema.SubmissionResult) error {
	records, err := s.LoadResults()
	if err != nil {
		return err
	}
	records = append(records, schema.SubmissionRecord{
		Name:      name,
		URL:       url,
		Result:    result,
		Timestamp: time.Now().UTC(),
	})
	return s.save(s.resultPath, records)
}

// LoadResults returns the persisted result list, empty when absent.
func (s *Store) LoadResults() ([]schema.SubmissionRecord, error) {
	var records []schema.SubmissionRecord
	if err := load(s.resultPath, &records); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return records, nil
}

// SaveStats writes the field statistics report, replacing any prior run.
func (s *Store) SaveStats(report schema.FieldStatsReport) error {
	return s.save(s.statsPath, report)
}

// LoadStats returns the persisted statistics report.
func (s *Store) LoadStats() (schema.FieldStatsReport, error) {
	var report schema.FieldStatsReport
	if err := load(s.statsPath, &report); err != nil {
		return schema.FieldStatsReport{}, err
	}
	return report, nil
}
