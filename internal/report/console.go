// Package report renders censoring and survival summaries of a session
// dataset for terminal consumption.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"featnorm/internal/analysis"
	"featnorm/internal/session"
	"featnorm/internal/survival"
)

// Reporter writes dataset reports to a single destination writer.
type Reporter struct {
	w io.Writer
}

func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// Overview prints dataset-level censoring rates.
func (r *Reporter) Overview(col *session.Collection) {
	total := len(col.Episodes)
	censored := 0
	for _, ep := range col.Episodes {
		if ep.Censored() {
			censored++
		}
	}
	complete := total - censored

	color.New(color.FgGreen).Fprintln(r.w, "Censoring Analysis")
	fmt.Fprintf(r.w, "Observation window: %d turns\n", col.ObservationWindow)
	fmt.Fprintf(r.w, "Episodes: %d total, %d complete (%.1f%%), %d censored (%.1f%%)\n",
		total, complete, pct(complete, total), censored, pct(censored, total))
	fmt.Fprintf(r.w, "Boards captured: %d\n\n", col.TotalBoards())
}

// phase buckets a capture turn into quarters of the observation window.
// Late-phase captures are censored far more often, which is worth seeing
// before trusting a dataset.
func phase(turn, window int) string {
	switch {
	case turn < window/4:
		return "Early"
	case turn < window/2:
		return "Mid"
	case turn < 3*window/4:
		return "Late"
	default:
		return "Very Late"
	}
}

var phaseOrder = []string{"Early", "Mid", "Late", "Very Late"}

// PhaseBreakdown prints survival statistics grouped by capture phase.
func (r *Reporter) PhaseBreakdown(col *session.Collection) {
	byPhase := make(map[string][]survival.Observation)
	for _, ep := range col.Episodes {
		for _, b := range ep.Boards {
			p := phase(b.Turn, col.ObservationWindow)
			byPhase[p] = append(byPhase[p], survival.Observation{
				Time:     ep.SurvivedTurns - b.Turn,
				Censored: ep.Censored(),
			})
		}
	}

	color.New(color.FgGreen).Fprintln(r.w, "Censoring by Capture Phase")
	tw := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Phase\tN\tCensored\tMean\tKM Median")
	for _, p := range phaseOrder {
		obs := byPhase[p]
		if len(obs) == 0 {
			continue
		}
		writeStatsRow(tw, p, survival.NewGroupStats(obs))
	}
	tw.Flush()
	fmt.Fprintln(r.w)
}

// EvaluatorBreakdown prints per-evaluator episode survival statistics.
func (r *Reporter) EvaluatorBreakdown(col *session.Collection) {
	byEval := make(map[string][]survival.Observation)
	var order []string
	for _, ep := range col.Episodes {
		name := ep.PlacementEvaluator
		if name == "" {
			name = "unknown"
		}
		if _, ok := byEval[name]; !ok {
			order = append(order, name)
		}
		byEval[name] = append(byEval[name], survival.Observation{
			Time:     ep.SurvivedTurns,
			Censored: ep.Censored(),
		})
	}

	color.New(color.FgGreen).Fprintln(r.w, "Censoring by Evaluator")
	tw := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Evaluator\tN\tCensored\tMean\tKM Median")
	for _, name := range order {
		writeStatsRow(tw, name, survival.NewGroupStats(byEval[name]))
	}
	tw.Flush()
	fmt.Fprintln(r.w)
}

// FeatureTable prints per-value survival statistics for one feature.
func (r *Reporter) FeatureTable(featureID string, groups []analysis.ValueGroup) {
	color.New(color.FgGreen).Fprintf(r.w, "Feature: %s\n", featureID)
	tw := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Value\tN\tCensored\tMean\tKM Median")
	for _, g := range groups {
		writeStatsRow(tw, fmt.Sprintf("%d", g.Value), g.Stats)
	}
	tw.Flush()
	fmt.Fprintln(r.w)
}

func writeStatsRow(tw *tabwriter.Writer, label string, s survival.GroupStats) {
	median := fmt.Sprintf("%.1f", s.MedianSurvival)
	if s.MedianIsLowerBound {
		// The curve never crossed 0.5; the estimate is a lower bound.
		median = fmt.Sprintf(">=%.1f", s.MedianSurvival)
	}
	fmt.Fprintf(tw, "%s\t%d\t%.1f%%\t%.1f\t%s\n",
		label, s.SampleCount, 100*s.CensoredFraction(), s.MeanAll, median)
}

func pct(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(part) / float64(total)
}
