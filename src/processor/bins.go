package processor

import (
	"fmt"
	"math"

	"TravelSurveyAnalytics/src/config"
	"TravelSurveyAnalytics/src/utils"
)

// UnknownCategory labels values a bin spec cannot claim: missing inputs
// and values outside the configured range.
const UnknownCategory = "Unknown"

// Cut maps each value to the label of the interval claiming it.
// Intervals are (edges[i], edges[i+1]], with the first interval closed
// at its lower edge so edge values like hour 0 or a 1-person household
// still land in a bin. With OpenEnded the final label additionally
// claims everything above the last edge.
func Cut(values []float64, spec config.BinSpec) ([]string, error) {
	want := len(spec.Edges) - 1
	if spec.OpenEnded {
		want = len(spec.Edges)
	}
	minEdges := 2
	if spec.OpenEnded {
		minEdges = 1
	}
	if len(spec.Edges) < minEdges || len(spec.Labels) != want {
		return nil, fmt.Errorf("bin spec needs %d labels for %d edges (open_ended=%v), got %d",
			want, len(spec.Edges), spec.OpenEnded, len(spec.Labels))
	}
	for i := 1; i < len(spec.Edges); i++ {
		if spec.Edges[i] <= spec.Edges[i-1] {
			return nil, fmt.Errorf("bin edges must be strictly increasing, got %v", spec.Edges)
		}
	}

	out := make([]string, len(values))
	for i, v := range values {
		out[i] = cutOne(v, spec)
	}
	return out, nil
}

func cutOne(v float64, spec config.BinSpec) string {
	if math.IsNaN(v) {
		return UnknownCategory
	}
	if v < spec.Edges[0] {
		return UnknownCategory
	}
	// first interval is closed at its lower edge
	if v == spec.Edges[0] {
		return spec.Labels[0]
	}
	for i := 1; i < len(spec.Edges); i++ {
		if v <= spec.Edges[i] {
			return spec.Labels[i-1]
		}
	}
	if spec.OpenEnded {
		return spec.Labels[len(spec.Labels)-1]
	}
	return UnknownCategory
}

// QCut bins by data-dependent breakpoints: the quantiles of the
// observed (non-missing) values. Recomputed from scratch on every run,
// never cached across datasets.
func QCut(values []float64, ps []float64, labels []string) ([]string, error) {
	if len(ps) != len(labels)+1 {
		return nil, fmt.Errorf("qcut needs %d quantiles for %d labels, got %d",
			len(labels)+1, len(labels), len(ps))
	}
	edges := utils.Quantiles(values, ps)
	if math.IsNaN(edges[0]) {
		return nil, fmt.Errorf("qcut: no observed values to derive quantiles from")
	}

	// duplicate quantiles collapse an interval; the earlier label wins
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = qcutOne(v, edges, labels)
	}
	return out, nil
}

func qcutOne(v float64, edges []float64, labels []string) string {
	if math.IsNaN(v) {
		return UnknownCategory
	}
	if v < edges[0] || v > edges[len(edges)-1] {
		return UnknownCategory
	}
	if v == edges[0] {
		return labels[0]
	}
	for i := 1; i < len(edges); i++ {
		if v <= edges[i] && edges[i] > edges[i-1] {
			return labels[i-1]
		}
	}
	return labels[len(labels)-1]
}
