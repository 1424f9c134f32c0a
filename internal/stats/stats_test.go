package stats

import (
	"math"
	"testing"
)

func TestSessionMetrics(t *testing.T) {
	wpm, cpm, acc := SessionMetrics(50, 0, 60000)
	if wpm != 10 || cpm != 50 || acc != 1 {
		t.Fatalf("unexpected metrics: %v %v %v", wpm, cpm, acc)
	}
	_, _, acc = SessionMetrics(3, 1, 1000)
	if math.Abs(acc-0.75) > 1e-9 {
		t.Fatalf("expected 0.75 accuracy, got %v", acc)
	}
	if wpm, cpm, acc := SessionMetrics(10, 0, 0); wpm != 0 || cpm != 0 || acc != 0 {
		t.Fatalf("expected zero metrics for zero duration")
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("MovingAverage = %v, want %v", got, want)
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 9}); got != " @" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{3, 3, 3}); got != "+++" {
		t.Fatalf("unexpected flat sparkline %q", got)
	}
}
