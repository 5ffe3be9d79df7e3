// Package normalize converts heterogeneous raw platform counters into five
// comparable 0-100 dimension scores per player.
//
// Scaling is competitive: a score reflects standing among the players
// ingested in the same wave, not an absolute benchmark. Scores land in
// [floor, cap] where floor is a small positive value (piso_positivo) and cap
// is the configured ceiling (cap_min). A dominance guard compresses the
// scale logarithmically when the top raw signal exceeds the runner-up by
// more than the dominance factor, so a single outlier cannot flatten every
// competitor onto the floor.
package normalize

import (
	"math"

	"github.com/pendulolabs/pendulo/internal/domain/ingest"
	"github.com/pendulolabs/pendulo/internal/domain/model"
)

// Default normalization bounds.
const (
	defaultFloor           = 1.0
	defaultCap             = 98.0
	defaultDominanceFactor = 10.0
)

// Blend constants for the popularity and engagement raw aggregates.
const (
	popFansShare      = 0.9
	popGrowthShare    = 0.1
	engReactionsShare = 0.1
)

// Row carries one player's five normalized dimension scores.
type Row struct {
	Name         string
	Presenca     float64
	Popularidade float64
	Atividade    float64
	Engajamento  float64
	Difusao      float64
}

// Result is the normalizer output for one wave.
type Result struct {
	Rows []Row

	// LowConfidence is set when at least one dimension had no positive raw
	// signal and every player was floored for it.
	LowConfidence bool

	// InsufficientDims lists the affected dimension labels.
	InsufficientDims []string
}

// Normalizer computes dimension scores from an ingested raw table.
type Normalizer struct {
	floor           float64
	cap             float64
	dominanceFactor float64
	platformWeights map[string]float64
}

// New creates a Normalizer with default bounds and platform weights.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		floor:           defaultFloor,
		cap:             defaultCap,
		dominanceFactor: defaultDominanceFactor,
		platformWeights: map[string]float64{
			"facebook":  0.5,
			"twitter":   0.1,
			"instagram": 1.0,
			"tiktok":    1.0,
		},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Dimensions computes the five dimension scores for every player in the
// table. When every dimension lacks signal the result is still usable (all
// floors) and the error wraps ErrInsufficientData so callers can degrade
// instead of failing the wave.
func (n *Normalizer) Dimensions(t *ingest.RawTable) (*Result, error) {
	agg := n.rawAggregates(t)

	presence, presenceOK := n.presenceScores(t)
	pop, popOK := n.scale(agg.popRaw)
	ativ, ativOK := n.scale(agg.ativRaw)
	eng, engOK := n.scale(agg.engRaw)
	dif, difOK := n.scale(agg.difRaw)

	res := &Result{Rows: make([]Row, len(t.Rows))}
	for i, row := range t.Rows {
		res.Rows[i] = Row{
			Name:         row.Name,
			Presenca:     model.Round2(presence[i]),
			Popularidade: model.Round2(pop[i]),
			Atividade:    model.Round2(ativ[i]),
			Engajamento:  model.Round2(eng[i]),
			Difusao:      model.Round2(dif[i]),
		}
	}

	for _, d := range []struct {
		label string
		ok    bool
	}{
		{"Presença", presenceOK},
		{"Popularidade", popOK},
		{"Atividade", ativOK},
		{"Engajamento", engOK},
		{"Difusão", difOK},
	} {
		if !d.ok {
			res.InsufficientDims = append(res.InsufficientDims, d.label)
		}
	}
	res.LowConfidence = len(res.InsufficientDims) > 0

	if len(res.InsufficientDims) == len(model.DimensionLabels) {
		return res, ErrInsufficientData
	}
	return res, nil
}

// aggregates holds the raw (pre-normalization) per-player signals.
type aggregates struct {
	popRaw  []float64
	ativRaw []float64
	engRaw  []float64
	difRaw  []float64
}

// rawAggregates blends weighted platform counters into one raw signal per
// dimension per player.
func (n *Normalizer) rawAggregates(t *ingest.RawTable) aggregates {
	count := len(t.Rows)
	fans := make([]float64, count)
	varFans := make([]float64, count)
	varReacts := make([]float64, count)
	varEng := make([]float64, count)
	ativ := make([]float64, count)
	engSum := make([]float64, count)
	reacts := make([]float64, count)
	dif := make([]float64, count)

	engCols := 0
	for _, plat := range ingest.Platforms {
		if t.HasColumn("engagement_" + plat) {
			engCols++
		}
	}

	for i := range t.Rows {
		row := &t.Rows[i]
		for _, plat := range ingest.Platforms {
			w := n.platformWeight(plat)
			fans[i] += w * row.Value("fans_"+plat)
			varFans[i] += w * row.Value("var_fans_"+plat)
			varReacts[i] += w * (row.Value("var_likes_"+plat) +
				row.Value("var_comments_"+plat) + row.Value("var_shares_"+plat))
			varEng[i] += w * row.Value("var_engagement_"+plat)
			ativ[i] += w * row.Value("posts_"+plat)
			engSum[i] += w * row.Value("engagement_"+plat)
			reacts[i] += w * (row.Value("likes_"+plat) +
				row.Value("comments_"+plat) + row.Value("shares_"+plat))
		}
		// Diffusion counts shareable-network shares only.
		for _, plat := range []string{"facebook", "twitter", "tiktok"} {
			dif[i] += n.platformWeight(plat) * row.Value("shares_"+plat)
		}
	}

	// Popularity blends audience size with a growth score built from the
	// period-over-period variation columns.
	vf := minMax01PreserveZero(varFans)
	vr := minMax01PreserveZero(varReacts)
	ve := minMax01PreserveZero(varEng)
	maxFans := 1.0
	for _, v := range fans {
		if v > maxFans {
			maxFans = v
		}
	}
	pop := make([]float64, count)
	for i := range pop {
		growth := (3*vf[i] + vr[i] + 2*ve[i]) / 8
		pop[i] = popFansShare*fans[i] + popGrowthShare*growth*maxFans
	}

	// Engagement blends the mean platform rate with a small reactions bonus.
	rn := minMax01PreserveZero(reacts)
	eng := make([]float64, count)
	div := float64(engCols)
	if div < 1 {
		div = 1
	}
	for i := range eng {
		eng[i] = engSum[i]/div + engReactionsShare*rn[i]
	}

	return aggregates{popRaw: pop, ativRaw: ativ, engRaw: eng, difRaw: dif}
}

func (n *Normalizer) platformWeight(plat string) float64 {
	if w, ok := n.platformWeights[plat]; ok && w > 0 {
		return w
	}
	return 1.0
}

// presenceScores maps the share of platforms a player is present on to the
// [floor, cap] band: absent everywhere scores the floor, present everywhere
// scores the cap.
func (n *Normalizer) presenceScores(t *ingest.RawTable) ([]float64, bool) {
	var cols []string
	for _, plat := range ingest.Platforms {
		col := "presence_" + plat
		if t.HasColumn(col) {
			cols = append(cols, col)
		}
	}

	out := make([]float64, len(t.Rows))
	for i := range out {
		out[i] = n.floor
	}
	if len(cols) == 0 {
		return out, false
	}

	anySignal := false
	for i := range t.Rows {
		present := 0
		for _, col := range cols {
			if t.Rows[i].Value(col) > 0 {
				present++
			}
		}
		if present > 0 {
			anySignal = true
		}
		frac := float64(present) / float64(len(cols))
		out[i] = n.floor + frac*(n.cap-n.floor)
	}
	return out, anySignal
}

// scale rescales raw per-player aggregates onto [floor, cap] competitively.
// The boolean reports whether the dimension had any positive signal.
func (n *Normalizer) scale(vals []float64) ([]float64, bool) {
	out := make([]float64, len(vals))
	for i := range out {
		out[i] = n.floor
	}

	// A wave with a single player has no competitive contrast: any positive
	// signal earns the ceiling outright.
	if len(vals) == 1 {
		if vals[0] > 0 {
			out[0] = n.cap
			return out, true
		}
		return out, false
	}

	var positives []float64
	for _, v := range vals {
		if v > 0 {
			positives = append(positives, v)
		}
	}
	if len(positives) == 0 {
		return out, false
	}

	minPos, maxPos := positives[0], positives[0]
	for _, v := range positives[1:] {
		if v < minPos {
			minPos = v
		}
		if v > maxPos {
			maxPos = v
		}
	}

	if nearlyEqual(maxPos, minPos) {
		mid := 0.5 * (n.floor + n.cap)
		for i, v := range vals {
			if v > 0 {
				out[i] = mid
			}
		}
		return out, true
	}

	second := secondLargest(positives)
	if second > 0 && maxPos/second > n.dominanceFactor {
		// Dominance compression: log curve anchored on the runner-up so the
		// outlier still tops out at the cap without flattening the rest.
		denom := math.Log1p(maxPos / second)
		for i, v := range vals {
			if v > 0 {
				out[i] = n.floor + (n.cap-n.floor)*math.Log1p(v/second)/denom
			}
		}
		return out, true
	}

	span := maxPos - minPos
	for i, v := range vals {
		if v > 0 {
			out[i] = n.floor + (v-minPos)/span*(n.cap-n.floor)
		}
	}
	return out, true
}

// minMax01PreserveZero rescales values onto [0, 1] while keeping true zeros
// at zero; a flat positive series maps to 0.5.
func minMax01PreserveZero(vals []float64) []float64 {
	out := make([]float64, len(vals))
	minV, maxV := math.Inf(1), math.Inf(-1)
	for _, v := range vals {
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}
	if len(vals) == 0 || nearlyEqual(maxV, minV) {
		for i, v := range vals {
			if v > 0 {
				out[i] = 0.5
			}
		}
		return out
	}
	for i, v := range vals {
		out[i] = (v - minV) / (maxV - minV)
	}
	return out
}

func nearlyEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func secondLargest(positives []float64) float64 {
	if len(positives) == 1 {
		return positives[0]
	}
	first, second := math.Inf(-1), math.Inf(-1)
	for _, v := range positives {
		switch {
		case v > first:
			second = first
			first = v
		case v > second:
			second = v
		}
	}
	return second
}
