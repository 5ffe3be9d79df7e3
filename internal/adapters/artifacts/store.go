// Package artifacts is the filesystem adapter: it locates raw wave inputs
// and persists the computed outputs under the processed tree.
//
// Layout, relative to the data root:
//
//	raw/<client>/<wave>/<input>.(xlsx|xls|csv)
//	processed/<client>/<wave>/pendulo/<base>__Resultado.csv
//	processed/<client>/<wave>/pendulo/<base>__MetricsExport.csv
//	processed/<client>/<wave>/{overview,radar,metrics}.json
//
// Every write lands in a temp file first and is renamed into place, so
// concurrent readers never observe a partial artifact.
package artifacts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pendulolabs/pendulo/internal/domain/model"
	"github.com/pendulolabs/pendulo/pkg/logger"
	"github.com/pendulolabs/pendulo/pkg/metrics"
)

// Raw input extensions, in discovery preference order.
var rawExtensions = []string{".xlsx", ".xls", ".csv"}

// Store reads and writes wave artifacts under a single data root.
type Store struct {
	root   string
	logger logger.Logger
}

// New creates a Store rooted at dir.
func New(root string, opts ...Option) *Store {
	s := &Store{
		root:   root,
		logger: logger.Get().Named("artifacts"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FindRawInput locates the wave's input file. When several candidates exist
// the preferred extension wins, then lexicographic order, so discovery is
// deterministic across runs.
func (s *Store) FindRawInput(client string, wave model.Wave) (string, error) {
	dir := s.RawDir(client, wave)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%s: %w", dir, ErrInputNotFound)
		}
		return "", fmt.Errorf("reading %s: %w", dir, err)
	}

	for _, ext := range rawExtensions {
		var names []string
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if strings.EqualFold(filepath.Ext(e.Name()), ext) {
				names = append(names, e.Name())
			}
		}
		if len(names) > 0 {
			sort.Strings(names)
			return filepath.Join(dir, names[0]), nil
		}
	}
	return "", fmt.Errorf("%s: %w", dir, ErrInputNotFound)
}

// HasArtifacts reports whether all three JSON artifacts of the wave exist.
// A partial set counts as a miss and triggers a rebuild.
func (s *Store) HasArtifacts(client string, wave model.Wave) bool {
	for _, p := range []string{
		s.OverviewPath(client, wave),
		s.RadarPath(client, wave),
		s.MetricsPath(client, wave),
	} {
		if _, err := os.Stat(p); err != nil {
			return false
		}
	}
	return true
}

// WriteJSON marshals v and renames it into place atomically.
func (s *Store) WriteJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", path, err)
	}
	if err := s.writeAtomic(path, data); err != nil {
		return err
	}
	metrics.RecordArtifactWrite("json")
	return nil
}

// ReadJSON unmarshals the artifact at path into v.
func (s *Store) ReadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshaling %s: %w", path, err)
	}
	return nil
}

// LoadPrevTotals returns the per-player totals from the previous wave's
// metrics artifact. A wave with no predecessor, or a predecessor never
// computed, yields nil without error.
func (s *Store) LoadPrevTotals(client string, wave model.Wave) (map[string][]model.MetricsRow, error) {
	prev, ok := wave.Prev()
	if !ok {
		return nil, nil
	}
	path := s.MetricsPath(client, prev)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var m model.Metrics
	if err := s.ReadJSON(path, &m); err != nil {
		return nil, err
	}
	return m.PlatformDataByPlayer, nil
}

// ListWaves returns the computed waves of a client, most recent first.
func (s *Store) ListWaves(client string) ([]string, error) {
	dir := filepath.Join(s.root, processedDirName, client)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var waves []model.Wave
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		w, err := model.ParseWave(e.Name())
		if err != nil {
			continue
		}
		waves = append(waves, w)
	}
	sort.Slice(waves, func(i, j int) bool { return waves[i].N > waves[j].N })

	out := make([]string, len(waves))
	for i, w := range waves {
		out[i] = w.String()
	}
	return out, nil
}

// writeAtomic creates parent directories, writes a sibling temp file, and
// renames it over the target.
func (s *Store) writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming into %s: %w", path, err)
	}
	return nil
}
