package stats

import (
	"math"
	"math/rand"
	"testing"
)

func TestPercentileSingleElement(t *testing.T) {
	values := []float64{42}
	for _, p := range []float64{0, 0.25, 0.5, 0.99, 1.0} {
		if got := Percentile(values, p); got != 42 {
			t.Errorf("Percentile(values, %v) = %v, want 42", p, got)
		}
	}
}

func TestPercentileMonotonic(t *testing.T) {
	values := make([]float64, 1000)
	for i := range values {
		values[i] = rand.Float64() * 100
	}

	var prev float64 = -1
	for _, p := range []float64{0, 0.25, 0.5, 0.75, 0.95, 0.99, 0.999, 1.0} {
		got := Percentile(values, p)
		if got < prev {
			t.Fatalf("percentile %v = %v is less than previous %v", p, got, prev)
		}
		prev = got
	}
}

func TestPercentileEmpty(t *testing.T) {
	if got := Percentile(nil, 0.5); got != 0 {
		t.Errorf("Percentile(nil, 0.5) = %v, want 0", got)
	}
}

func TestStdDevSingleOrEmpty(t *testing.T) {
	if StdDev(nil) != 0 {
		t.Error("StdDev(nil) should be 0")
	}
	if StdDev([]float64{5}) != 0 {
		t.Error("StdDev of single element should be 0")
	}
}

func TestStdDevBesselCorrection(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	got := StdDev(values)
	want := 2.13809
	if math.Abs(got-want) > 1e-4 {
		t.Errorf("StdDev = %v, want ~%v", got, want)
	}
}

func TestCVZeroMean(t *testing.T) {
	if got := CV([]float64{0, 0, 0}); got != 0 {
		t.Errorf("CV of all-zero input = %v, want 0", got)
	}
}

func TestMADKnownInput(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	got := MAD(values)
	if got != 1 {
		t.Errorf("MAD = %v, want 1", got)
	}
}

func TestOutliersRateBounds(t *testing.T) {
	values := []float64{50, 51, 50, 52, 49, 50, 51, 1000}
	rate, indices := Outliers(values)
	if rate < 0 || rate > 1 {
		t.Fatalf("outlier rate %v out of [0,1]", rate)
	}
	if len(indices) == 0 {
		t.Fatal("expected at least one outlier index for the 1000 spike")
	}
	found := false
	for _, idx := range indices {
		if values[idx] == 1000 {
			found = true
		}
	}
	if !found {
		t.Error("expected the 1000 spike to be flagged as an outlier")
	}
}

func TestOutliersNoSpike(t *testing.T) {
	values := []float64{50, 51, 49, 50, 52, 48, 50, 51}
	rate, _ := Outliers(values)
	if rate != 0 {
		t.Errorf("expected no outliers in a tight cluster, got rate %v", rate)
	}
}

func TestResamplePreservesLength(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	rng := rand.New(rand.NewSource(1))
	out := Resample(values, rng)
	if len(out) != len(values) {
		t.Fatalf("Resample length = %d, want %d", len(out), len(values))
	}
	for _, v := range out {
		found := false
		for _, orig := range values {
			if v == orig {
				found = true
			}
		}
		if !found {
			t.Errorf("resampled value %v not present in original", v)
		}
	}
}
