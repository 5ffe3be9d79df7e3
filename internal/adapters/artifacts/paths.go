package artifacts

import (
	"path/filepath"

	"github.com/pendulolabs/pendulo/internal/domain/model"
)

// Fixed names inside the data root.
const (
	rawDirName       = "raw"
	processedDirName = "processed"
	penduloDirName   = "pendulo"

	overviewFile = "overview.json"
	radarFile    = "radar.json"
	metricsFile  = "metrics.json"

	resultadoSuffix     = "__Resultado.csv"
	metricsExportSuffix = "__MetricsExport.csv"
)

// RawDir is where clients drop wave input files.
func (s *Store) RawDir(client string, wave model.Wave) string {
	return filepath.Join(s.root, rawDirName, client, wave.String())
}

// ProcessedDir holds the JSON artifacts of one wave.
func (s *Store) ProcessedDir(client string, wave model.Wave) string {
	return filepath.Join(s.root, processedDirName, client, wave.String())
}

// PenduloDir holds the intermediate CSV outputs of one wave.
func (s *Store) PenduloDir(client string, wave model.Wave) string {
	return filepath.Join(s.ProcessedDir(client, wave), penduloDirName)
}

// OverviewPath returns the overview artifact path for one wave.
func (s *Store) OverviewPath(client string, wave model.Wave) string {
	return filepath.Join(s.ProcessedDir(client, wave), overviewFile)
}

// RadarPath returns the radar artifact path for one wave.
func (s *Store) RadarPath(client string, wave model.Wave) string {
	return filepath.Join(s.ProcessedDir(client, wave), radarFile)
}

// MetricsPath returns the metrics artifact path for one wave.
func (s *Store) MetricsPath(client string, wave model.Wave) string {
	return filepath.Join(s.ProcessedDir(client, wave), metricsFile)
}
