package sidecar

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"imgpath/config"
	"imgpath/utils/files"
	"imgpath/variant"
)

// Sink accumulates records during a run, last write for a key wins.
type Sink struct {
	mu      sync.Mutex
	records map[string]Record
}

func NewSink() *Sink {
	return &Sink{records: make(map[string]Record)}
}

// Record stores rec under key replacing whatever was there.
func (s *Sink) Record(key string, rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = rec
}

// Add records ranked set and returns its key, empty sets are ignored.
func (s *Sink) Add(r variant.Ranked) string {
	key, rec, ok := NewRecord(r)
	if !ok {
		return ""
	}
	s.Record(key, rec)
	return key
}

// Merge folds other sink into this one, records of other win.
func (s *Sink) Merge(other *Sink) {
	if other == nil || other == s {
		return
	}
	other.mu.Lock()
	defer other.mu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range other.records {
		s.records[k] = v
	}
}

func (s *Sink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Get returns record stored under key.
func (s *Sink) Get(key string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[key]
	return rec, ok
}

// Encode serializes all records. Keys are always sorted.
func (s *Sink) Encode(format config.SidecarFormat) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return encode(s.records, format)
}

func encode(records map[string]Record, format config.SidecarFormat) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case config.SidecarFormatYaml:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return nil, fmt.Errorf("unable to encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("unable to encode yaml: %w", err)
		}
	default:
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(records); err != nil {
			return nil, fmt.Errorf("unable to encode json: %w", err)
		}
	}
	return buf.Bytes(), nil
}

// Flush writes all records to path fully replacing previous artifact and
// empties the sink. Nothing is written (and false returned) when sink is
// empty.
func (s *Sink) Flush(path string, format config.SidecarFormat, log *zap.Logger) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.records) == 0 {
		log.Debug("Nothing to write to sidecar", zap.String("path", path))
		return false, nil
	}

	data, err := encode(s.records, format)
	if err != nil {
		return false, err
	}
	if err := files.WriteAtomic(path, data, 0644); err != nil {
		return false, fmt.Errorf("unable to write sidecar: %w", err)
	}

	log.Info("Sidecar written",
		zap.String("path", path),
		zap.Int("records", len(s.records)),
		zap.String("size", humanize.Bytes(uint64(len(data)))))

	clear(s.records)
	return true, nil
}
