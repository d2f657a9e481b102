package metrics

import (
	"testing"

	"github.com/wardrobe-labs/stylematch/internal/models"
)

func matchList(names ...string) []models.Match {
	matches := make([]models.Match, 0, len(names))
	for i, name := range names {
		matches = append(matches, models.Match{Filename: name, Confidence: 1 - float64(i)*0.1})
	}
	return matches
}

func TestHitRank(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		matches  []models.Match
		want     int
	}{
		{name: "first", expected: "a.png", matches: matchList("a.png", "b.png"), want: 0},
		{name: "third", expected: "c.png", matches: matchList("a.png", "b.png", "c.png"), want: 2},
		{name: "miss", expected: "z.png", matches: matchList("a.png", "b.png"), want: -1},
		{name: "no matches", expected: "a.png", matches: nil, want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HitRank(tt.expected, tt.matches); got != tt.want {
				t.Errorf("HitRank() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	outcomes := []Outcome{
		{ID: "1", Expected: "a.png", Matches: matchList("a.png", "b.png", "c.png")}, // top-1 hit
		{ID: "2", Expected: "c.png", Matches: matchList("a.png", "b.png", "c.png")}, // top-3 hit
		{ID: "3", Expected: "z.png", Matches: matchList("a.png", "b.png", "c.png")}, // miss
		{ID: "4", Expected: "a.png", Error: "model unavailable"},                    // error
	}

	s := Summarize(outcomes)

	if s.Total != 4 {
		t.Errorf("Expected total 4, got %d", s.Total)
	}
	if s.Errors != 1 {
		t.Errorf("Expected 1 error, got %d", s.Errors)
	}
	if s.Top1Hits != 1 {
		t.Errorf("Expected 1 top-1 hit, got %d", s.Top1Hits)
	}
	if s.Top3Hits != 2 {
		t.Errorf("Expected 2 top-3 hits, got %d", s.Top3Hits)
	}
	if s.Top1Accuracy != 0.25 {
		t.Errorf("Expected top-1 accuracy 0.25, got %v", s.Top1Accuracy)
	}
	if s.Top3Accuracy != 0.5 {
		t.Errorf("Expected top-3 accuracy 0.5, got %v", s.Top3Accuracy)
	}
	if s.MeanTopConfidence != 1.0 {
		t.Errorf("Expected mean top confidence 1.0, got %v", s.MeanTopConfidence)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.Total != 0 || s.Top1Accuracy != 0 || s.MeanConfidence != 0 {
		t.Errorf("Expected zero summary, got %+v", s)
	}
}
