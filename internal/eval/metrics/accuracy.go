package metrics

import "github.com/wardrobe-labs/stylematch/internal/models"

// Outcome is the result of running one labeled case through the matcher.
type Outcome struct {
	ID       string         `json:"id"`
	Expected string         `json:"expected"`
	Matches  []models.Match `json:"matches,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// Summary aggregates outcomes into the accuracy figures the report prints.
type Summary struct {
	Total             int     `json:"total"`
	Errors            int     `json:"errors"`
	Top1Hits          int     `json:"top1_hits"`
	Top3Hits          int     `json:"top3_hits"`
	Top1Accuracy      float64 `json:"top1_accuracy"`
	Top3Accuracy      float64 `json:"top3_accuracy"`
	MeanConfidence    float64 `json:"mean_confidence"`
	MeanTopConfidence float64 `json:"mean_top_confidence"`
}

// HitRank returns the zero-based position of expected in the match list, or
// -1 when absent.
func HitRank(expected string, matches []models.Match) int {
	for i, m := range matches {
		if m.Filename == expected {
			return i
		}
	}
	return -1
}

// Summarize computes accuracy over all outcomes. Errored cases count
// against accuracy: a run that fails to answer did not match anything.
func Summarize(outcomes []Outcome) Summary {
	s := Summary{Total: len(outcomes)}

	var confSum float64
	var confCount int
	var topConfSum float64
	var topConfCount int

	for _, o := range outcomes {
		if o.Error != "" {
			s.Errors++
			continue
		}

		rank := HitRank(o.Expected, o.Matches)
		if rank == 0 {
			s.Top1Hits++
		}
		if rank >= 0 && rank < 3 {
			s.Top3Hits++
		}

		for _, m := range o.Matches {
			confSum += m.Confidence
			confCount++
		}
		if len(o.Matches) > 0 {
			topConfSum += o.Matches[0].Confidence
			topConfCount++
		}
	}

	if s.Total > 0 {
		s.Top1Accuracy = float64(s.Top1Hits) / float64(s.Total)
		s.Top3Accuracy = float64(s.Top3Hits) / float64(s.Total)
	}
	if confCount > 0 {
		s.MeanConfidence = confSum / float64(confCount)
	}
	if topConfCount > 0 {
		s.MeanTopConfidence = topConfSum / float64(topConfCount)
	}

	return s
}
