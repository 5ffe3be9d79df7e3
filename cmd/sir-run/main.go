// Command sir-run computes scores for a single input file without the HTTP
// service, writing the Resultado and MetricsExport CSVs next to the caller's
// chosen output directory. It exists for batch backfills and for checking an
// input before uploading it.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/pendulolabs/pendulo/internal/domain/model"
	"github.com/pendulolabs/pendulo/internal/domain/normalize"
	"github.com/pendulolabs/pendulo/internal/domain/scoring"
	"github.com/pendulolabs/pendulo/internal/kernel"
	"github.com/pendulolabs/pendulo/pkg/logger"
)

func main() {
	var (
		input  = flag.String("input", "", "path to the raw input file (xlsx, xls or csv)")
		sheet  = flag.String("sheet", "", "worksheet name or index for spreadsheet inputs")
		outDir = flag.String("out-dir", ".", "directory for the output CSVs")

		piso      = flag.Float64("piso-positivo", 1.0, "score floor for players with any signal")
		capMin    = flag.Float64("cap-min", 98.0, "score ceiling")
		dominance = flag.Float64("dominance-factor", 10.0, "ratio of top to runner-up that triggers log compression")

		wPresenca = flag.Float64("w-presenca", 12, "presence weight")
		wPop      = flag.Float64("w-pop", 24, "popularity weight")
		wAtiv     = flag.Float64("w-ativ", 16, "activity weight")
		wEng      = flag.Float64("w-eng", 28, "engagement weight")
		wDif      = flag.Float64("w-dif", 20, "diffusion weight")
	)
	flag.Parse()

	if *input == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()
	log := logger.Get().Named("sir-run")
	ctx := context.Background()

	k := kernel.New(
		kernel.WithNormalizer(normalize.New(
			normalize.WithBounds(*piso, *capMin),
			normalize.WithDominanceFactor(*dominance),
		)),
		kernel.WithScorer(scoring.New(scoring.WithWeights(scoring.Weights{
			Presenca:     *wPresenca,
			Popularidade: *wPop,
			Atividade:    *wAtiv,
			Engajamento:  *wEng,
			Difusao:      *wDif,
		}))),
		kernel.WithLogger(log),
	)

	res, err := k.Run(ctx, kernel.Job{
		ID:        uuid.New(),
		InputPath: *input,
		Sheet:     *sheet,
	})
	if err != nil {
		log.Error(ctx, "computation failed", logger.Error(err))
		os.Exit(1)
	}

	base := strings.TrimSuffix(filepath.Base(*input), filepath.Ext(*input))
	if err := writeResultado(filepath.Join(*outDir, base+"__Resultado.csv"), res.Scores); err != nil {
		log.Error(ctx, "writing results", logger.Error(err))
		os.Exit(1)
	}
	if err := writeExport(filepath.Join(*outDir, base+"__MetricsExport.csv"), res.Export); err != nil {
		log.Error(ctx, "writing metrics export", logger.Error(err))
		os.Exit(1)
	}

	log.Info(ctx, "done",
		logger.Int("players", len(res.Scores)),
		logger.Bool("low_confidence", res.LowConfidence),
	)
}

func writeResultado(path string, rows []model.ScoreRow) error {
	records := [][]string{{
		"name", "presenca_100", "popularidade_100", "atividade_100",
		"engajamento_100", "difusao_100", "sir_final_0_100",
	}}
	for _, r := range rows {
		records = append(records, []string{
			r.Name,
			f1(r.Presenca), f1(r.Popularidade), f1(r.Atividade),
			f1(r.Engajamento), f1(r.Difusao), f1(r.SirFinal),
		})
	}
	return writeCSV(path, records)
}

func writeExport(path string, rows []kernel.ExportRow) error {
	records := [][]string{{"name", "platform", "metric", "period_start", "period_end", "value"}}
	for _, r := range rows {
		records = append(records, []string{
			r.Name, r.Platform, r.Metric, r.PeriodStart, r.PeriodEnd,
			strconv.FormatFloat(r.Value, 'f', -1, 64),
		})
	}
	return writeCSV(path, records)
}

func writeCSV(path string, records [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func f1(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
