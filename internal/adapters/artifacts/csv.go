package artifacts

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pendulolabs/pendulo/internal/domain/model"
	"github.com/pendulolabs/pendulo/internal/kernel"
	"github.com/pendulolabs/pendulo/pkg/metrics"
)

// Resultado CSV header. The column order is part of the on-disk contract;
// downstream tooling reads these files positionally.
var resultadoHeader = []string{
	"name",
	"presenca_100",
	"popularidade_100",
	"atividade_100",
	"engajamento_100",
	"difusao_100",
	"sir_final_0_100",
}

var metricsExportHeader = []string{
	"name", "platform", "metric", "period_start", "period_end", "value",
}

// WriteResultado persists the scored rows as <base>__Resultado.csv with one
// decimal place per score.
func (s *Store) WriteResultado(client string, wave model.Wave, base string, rows []model.ScoreRow) error {
	records := make([][]string, 0, len(rows)+1)
	records = append(records, resultadoHeader)
	for _, r := range rows {
		records = append(records, []string{
			r.Name,
			format1(r.Presenca),
			format1(r.Popularidade),
			format1(r.Atividade),
			format1(r.Engajamento),
			format1(r.Difusao),
			format1(r.SirFinal),
		})
	}

	path := filepath.Join(s.PenduloDir(client, wave), base+resultadoSuffix)
	if err := s.writeCSV(path, records); err != nil {
		return err
	}
	metrics.RecordArtifactWrite("resultado")
	return nil
}

// ReadResultado loads a previously computed Resultado CSV, if one exists.
// The second return reports whether a file was found at all.
func (s *Store) ReadResultado(client string, wave model.Wave) ([]model.ScoreRow, bool, error) {
	dir := s.PenduloDir(client, wave)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), resultadoSuffix) {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, false, nil
	}
	sort.Strings(names)
	path := filepath.Join(dir, names[0])

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, true, fmt.Errorf("reading %s: %w", path, err)
	}
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		return nil, true, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(records) < 1 || len(records[0]) != len(resultadoHeader) {
		return nil, true, fmt.Errorf("parsing %s: unexpected header", path)
	}

	rows := make([]model.ScoreRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) != len(resultadoHeader) {
			return nil, true, fmt.Errorf("parsing %s: ragged row", path)
		}
		vals := make([]float64, len(rec)-1)
		for i, raw := range rec[1:] {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, true, fmt.Errorf("parsing %s: %w", path, err)
			}
			vals[i] = v
		}
		rows = append(rows, model.ScoreRow{
			Name:         rec[0],
			Presenca:     vals[0],
			Popularidade: vals[1],
			Atividade:    vals[2],
			Engajamento:  vals[3],
			Difusao:      vals[4],
			SirFinal:     vals[5],
		})
	}
	return rows, true, nil
}

// WriteMetricsExport persists the long-format raw observations as
// <base>__MetricsExport.csv.
func (s *Store) WriteMetricsExport(client string, wave model.Wave, base string, rows []kernel.ExportRow) error {
	records := make([][]string, 0, len(rows)+1)
	records = append(records, metricsExportHeader)
	for _, r := range rows {
		records = append(records, []string{
			r.Name,
			r.Platform,
			r.Metric,
			r.PeriodStart,
			r.PeriodEnd,
			strconv.FormatFloat(r.Value, 'f', -1, 64),
		})
	}

	path := filepath.Join(s.PenduloDir(client, wave), base+metricsExportSuffix)
	if err := s.writeCSV(path, records); err != nil {
		return err
	}
	metrics.RecordArtifactWrite("metrics_export")
	return nil
}

func (s *Store) writeCSV(path string, records [][]string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return s.writeAtomic(path, buf.Bytes())
}

func format1(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
