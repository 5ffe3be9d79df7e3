package ingest

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pendulolabs/pendulo/internal/domain/model"
)

// thousandsThenComma matches pt-BR formatted numbers like "1.234,5" where
// dots separate thousands and an optional comma carries decimals.
var thousandsThenComma = regexp.MustCompile(`^\d{1,3}(\.\d{3})+(,\d+)?$`)

// cleanNumber parses one raw cell: strips percent signs and non-breaking
// spaces, removes thousands dots, and converts decimal commas to dots.
// ok is false for empty cells and placeholder dashes.
func cleanNumber(raw string) (val float64, hadPct, ok bool) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "\u00A0", "")
	if strings.Contains(s, "%") {
		hadPct = true
		s = strings.ReplaceAll(s, "%", "")
		s = strings.TrimSpace(s)
	}
	if s == "" || s == "-" {
		return 0, hadPct, false
	}
	if thousandsThenComma.MatchString(s) {
		s = strings.ReplaceAll(s, ".", "")
	}
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, hadPct, false
	}
	return v, hadPct, true
}

// normalizePercentColumn brings a percent-like column onto the 0-1 fraction
// scale. If any cell carried an explicit '%', the whole column is divided by
// 100; otherwise a heuristic treats columns ranging in (1, 100] as percents.
func normalizePercentColumn(values []float64, present []bool, anyPct bool) {
	divide := anyPct
	if !divide {
		minV, maxV, any := 0.0, 0.0, false
		for i, v := range values {
			if !present[i] {
				continue
			}
			if !any || v < minV {
				minV = v
			}
			if !any || v > maxV {
				maxV = v
			}
			any = true
		}
		divide = any && minV >= 0 && maxV <= 100 && maxV > 1
	}
	if !divide {
		return
	}
	for i := range values {
		if present[i] {
			values[i] /= 100
		}
	}
}

// roundColumn applies the one-decimal ingest precision.
func roundColumn(values []float64) {
	for i := range values {
		values[i] = model.Round1(values[i])
	}
}
