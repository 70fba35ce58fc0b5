package metrics

import (
	"math"
	"testing"
)

func TestRateZeroDenominatorIsNull(t *testing.T) {
	if !Rate(5, 0).IsNull() {
		t.Error("rate with zero denominator should be null")
	}
	if v, _ := Rate(1, 4).AsNumber(); v != 25 {
		t.Errorf("Rate(1,4) = %v, want 25", v)
	}
	if v, _ := Rate(0, 4).AsNumber(); v != 0 {
		t.Errorf("Rate(0,4) = %v, want 0 (a real zero, not null)", v)
	}
}

func TestFillRate(t *testing.T) {
	if v, _ := FillRate(75, 100).AsNumber(); v != 75 {
		t.Errorf("FillRate(75,100) = %v, want 75", v)
	}
	if !FillRate(0, 0).IsNull() {
		t.Error("fill rate with nothing ordered should be null")
	}
}

func TestRetentionRate(t *testing.T) {
	periods := [][]string{
		{"c1", "c2", "c3", "c3"}, // c3 duplicated within the period
		{"c2", "c3", "c4"},
		{"c3", "c4", "c5"},
	}
	rate, retained, universe := RetentionRate(periods)

	if universe != 5 {
		t.Errorf("universe = %d, want 5", universe)
	}
	if retained != 1 {
		t.Errorf("retained = %d, want 1 (only c3 active in every period)", retained)
	}
	if v, _ := rate.AsNumber(); v != 20 {
		t.Errorf("retention = %v, want 20", v)
	}
}

func TestRetentionRateZeroPeriodsIsNull(t *testing.T) {
	rate, retained, universe := RetentionRate(nil)
	if !rate.IsNull() {
		t.Error("retention over zero periods should be null, not 0 or 100")
	}
	if retained != 0 || universe != 0 {
		t.Errorf("counts = (%d, %d), want (0, 0)", retained, universe)
	}
}

func TestTopKContribution(t *testing.T) {
	// 5 customers; top 20% = 1 of them, contributing 100 of 300
	values := []float64{100, 80, 60, 40, 20}
	got := TopKContribution(values, 0.20)
	want := 33.33
	if math.Abs(got-want) > 0.01 {
		t.Errorf("TopKContribution = %v, want %v", got, want)
	}
}

func TestTopKContributionSmallInputs(t *testing.T) {
	if got := TopKContribution(nil, 0.20); got != 0 {
		t.Errorf("empty input = %v, want 0", got)
	}
	// one customer: k clamps to 1, so they contribute everything
	if got := TopKContribution([]float64{42}, 0.20); got != 100 {
		t.Errorf("single value = %v, want 100", got)
	}
	if got := TopKContribution([]float64{0, 0}, 0.20); got != 0 {
		t.Errorf("zero total = %v, want 0", got)
	}
}
