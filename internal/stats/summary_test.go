package stats

import (
	"math"
	"testing"
	"time"

	"seastate/internal/models"
)

func at(hour int) time.Time {
	return time.Date(2021, 1, 1, hour, 0, 0, 0, time.UTC)
}

func TestSummarize(t *testing.T) {
	var observations []models.Observation
	for i := 1; i <= 100; i++ {
		observations = append(observations, models.Observation{Time: at(i % 24), Name: "MAX", Value: float64(i)})
	}
	observations = append(observations,
		models.Observation{Time: at(3), Name: "SIGNIFICANT", Value: 1.5},
		models.Observation{Time: at(1), Name: "SIGNIFICANT", Value: 0.5},
	)

	summaries := Summarize(observations)
	if len(summaries) != 2 {
		t.Fatalf("Expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].Metric != "MAX" || summaries[1].Metric != "SIGNIFICANT" {
		t.Errorf("Expected first-appearance order, got %s, %s", summaries[0].Metric, summaries[1].Metric)
	}

	max := summaries[0]
	if max.Count != 100 || max.Min != 1 || max.Max != 100 {
		t.Errorf("Unexpected count/min/max: %+v", max)
	}
	if max.Mean != 50.5 {
		t.Errorf("Expected mean 50.5, got %v", max.Mean)
	}
	if math.Abs(max.P50-50) > 50*2*RelativeAccuracy {
		t.Errorf("Expected p50 near 50, got %v", max.P50)
	}
	if math.Abs(max.P99-99) > 99*2*RelativeAccuracy {
		t.Errorf("Expected p99 near 99, got %v", max.P99)
	}

	sig, ok := Find(summaries, "SIGNIFICANT")
	if !ok {
		t.Fatal("Expected SIGNIFICANT summary")
	}
	if !sig.First.Equal(at(1)) || !sig.Last.Equal(at(3)) {
		t.Errorf("Unexpected time extent %v - %v", sig.First, sig.Last)
	}
	if sig.Latest != 1.5 {
		t.Errorf("Expected latest value 1.5, got %v", sig.Latest)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if got := Summarize(nil); len(got) != 0 {
		t.Errorf("Expected no summaries, got %v", got)
	}
	if _, ok := Find(nil, "MAX"); ok {
		t.Error("Expected Find to miss on empty input")
	}
}

func TestSummarizeSkipsNonFinite(t *testing.T) {
	summaries := Summarize([]models.Observation{
		{Time: at(0), Name: "X", Value: math.Inf(1)},
		{Time: at(1), Name: "X", Value: 2},
	})
	if summaries[0].Count != 1 || summaries[0].Max != 2 {
		t.Errorf("Expected infinite value to be skipped, got %+v", summaries[0])
	}
}

func TestSummarizeOnlyNonFinite(t *testing.T) {
	summaries := Summarize([]models.Observation{{Time: at(0), Name: "X", Value: math.NaN()}})
	if summaries[0].Count != 0 || summaries[0].Min != 0 || summaries[0].Max != 0 {
		t.Errorf("Expected empty summary, got %+v", summaries[0])
	}
}
