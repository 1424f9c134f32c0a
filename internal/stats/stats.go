// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/kanatype/internal/model"
)

const sparkChars = " .:-=+*#%@"

// SessionMetrics computes WPM, CPM, and accuracy for a session.
func SessionMetrics(correct, incorrect int, durationMs int64) (wpm, cpm, accuracy float64) {
	if durationMs <= 0 {
		return 0, 0, 0
	}
	minutes := float64(durationMs) / 60000.0
	wpm = (float64(correct) / 5.0) / minutes
	cpm = float64(correct) / minutes
	den := float64(correct + incorrect)
	if den > 0 {
		accuracy = float64(correct) / den
	}
	return wpm, cpm, accuracy
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		den := float64(i + 1)
		if i >= window {
			sum -= values[i-window]
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints a summary table for sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	var totalWPM, totalCPM, totalAcc float64
	bestWPM := 0.0
	for _, s := range sessions {
		wpm, cpm, acc := SessionMetrics(s.Correct, s.Incorrect, s.DurationMs)
		totalWPM += wpm
		totalCPM += cpm
		totalAcc += acc
		bestWPM = math.Max(bestWPM, wpm)
	}
	count := float64(len(sessions))
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", len(sessions)),
		fmt.Sprintf("Avg WPM: %.2f", totalWPM/count),
		fmt.Sprintf("Best WPM: %.2f", bestWPM),
		fmt.Sprintf("Avg CPM: %.2f", totalCPM/count),
		fmt.Sprintf("Avg Accuracy: %.2f%%", (totalAcc/count)*100),
		"",
	}
	return writeLines(w, lines)
}

// RenderCurves prints WPM and accuracy sparklines, keeping the most recent
// sessions when width is limited.
func RenderCurves(w io.Writer, sessions []model.SessionAggregate, window, width int) error {
	if len(sessions) == 0 {
		return nil
	}
	wpms := make([]float64, len(sessions))
	accs := make([]float64, len(sessions))
	for i, s := range sessions {
		wpm, _, acc := SessionMetrics(s.Correct, s.Incorrect, s.DurationMs)
		wpms[i] = wpm
		accs[i] = acc * 100
	}
	wpms = tail(MovingAverage(wpms, window), width)
	accs = tail(MovingAverage(accs, window), width)
	lines := []string{
		fmt.Sprintf("Learning Curves (window %d)", window),
		seriesLine("WPM", wpms),
		seriesLine("Accuracy", accs),
		"",
	}
	return writeLines(w, lines)
}

// RenderKanaTable prints per-kana aggregates, weakest first.
func RenderKanaTable(w io.Writer, aggs []model.KanaAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No kana stats found.")
		return err
	}
	type row struct {
		kana      string
		acc       float64
		latency   float64
		correct   int
		incorrect int
	}
	rows := make([]row, 0, len(aggs))
	for _, agg := range aggs {
		label := agg.Kana
		if strings.TrimSpace(label) == "" {
			label = "<space>"
		}
		lat := 0.0
		if agg.LatencyCount > 0 {
			lat = float64(agg.LatencySumMs) / float64(agg.LatencyCount)
		}
		rows = append(rows, row{
			kana:      label,
			acc:       kanaAccuracy(agg),
			latency:   lat,
			correct:   agg.Correct,
			incorrect: agg.Incorrect,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].acc == rows[j].acc {
			return rows[i].kana < rows[j].kana
		}
		return rows[i].acc < rows[j].acc
	})

	headers := []string{"Kana", "Accuracy", "Avg Latency (ms)", "Correct", "Incorrect"}
	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		tableRows = append(tableRows, []string{
			r.kana,
			fmt.Sprintf("%.2f%%", r.acc*100),
			fmt.Sprintf("%.1f", r.latency),
			fmt.Sprintf("%d", r.correct),
			fmt.Sprintf("%d", r.incorrect),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true}
	lines := append([]string{"Per-Kana (Windowed)"}, formatTable(headers, tableRows, rightAlign)...)
	return writeLines(w, append(lines, ""))
}

func seriesLine(name string, values []float64) string {
	if len(values) == 0 {
		return name
	}
	last := values[len(values)-1]
	return fmt.Sprintf("%-8s %s %.1f", name, Sparkline(values), last)
}

func tail(values []float64, n int) []float64 {
	if n <= 0 || len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderKanaCurves prints accuracy and latency sparklines for selected kana.
func RenderKanaCurves(w io.Writer, sessions []model.SessionAggregate, perSession map[int64]map[string]model.KanaAggregate, kana []string, window, width int) error {
	if len(kana) == 0 || len(sessions) == 0 {
		return nil
	}
	lines := []string{"Per-Kana Curves"}
	for _, k := range kana {
		accSeries := make([]float64, len(sessions))
		latSeries := make([]float64, len(sessions))
		for i, s := range sessions {
			agg, ok := perSession[s.SessionID][k]
			if !ok {
				continue
			}
			if agg.Correct+agg.Incorrect > 0 {
				accSeries[i] = kanaAccuracy(agg) * 100
			}
			if agg.LatencyCount > 0 {
				latSeries[i] = float64(agg.LatencySumMs) / float64(agg.LatencyCount)
			}
		}
		lines = append(lines,
			k,
			seriesLine("Accuracy", tail(MovingAverage(accSeries, window), width)),
			seriesLine("Latency", tail(MovingAverage(latSeries, window), width)),
		)
	}
	return writeLines(w, append(lines, ""))
}
