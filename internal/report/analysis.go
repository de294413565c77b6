package report

import (
	"sort"

	"mcqkit/internal/grade"
	"mcqkit/internal/manifest"
)

// Bucket counts how many results scored a given number of points.
type Bucket struct {
	Points float64
	Count  int
}

// QuestionAnalysis summarizes the responses to one manifest item.
type QuestionAnalysis struct {
	Index         int
	QID           string
	Slug          string
	Responses     int
	OptionCounts  []int
	CorrectOnehot []int
	MeanPoints    float64
	MaxPoints     float64
	Histogram     []Bucket
}

// Analyze computes, for each manifest item, how often each presented option
// was selected and how the awarded points are distributed.
func Analyze(m *manifest.Manifest, sets []grade.GradedSet) []QuestionAnalysis {
	items := m.Items()
	analyses := make([]QuestionAnalysis, len(items))
	histograms := make([]map[float64]int, len(items))
	for i, item := range items {
		analyses[i] = QuestionAnalysis{
			Index:         i,
			QID:           item.QID,
			Slug:          item.Slug,
			OptionCounts:  make([]int, item.NumChoices()),
			CorrectOnehot: item.CorrectOnehot,
			MaxPoints:     float64(item.PointValue),
		}
		histograms[i] = map[float64]int{}
	}
	for _, set := range sets {
		for _, q := range set.Questions {
			position, ok := m.Position(q.QID)
			if !ok {
				continue
			}
			analysis := &analyses[position]
			analysis.Responses++
			analysis.MeanPoints += q.PointValue
			for option, selected := range q.StudentOnehot {
				if option < len(analysis.OptionCounts) {
					analysis.OptionCounts[option] += selected
				}
			}
			histograms[position][q.PointValue]++
		}
	}
	for i := range analyses {
		if analyses[i].Responses > 0 {
			analyses[i].MeanPoints /= float64(analyses[i].Responses)
		}
		analyses[i].Histogram = buckets(histograms[i])
	}
	return analyses
}

// TotalsHistogram distributes the total points of each graded set.
func TotalsHistogram(sets []grade.GradedSet) []Bucket {
	counts := map[float64]int{}
	for _, set := range sets {
		counts[set.Points]++
	}
	return buckets(counts)
}

func buckets(counts map[float64]int) []Bucket {
	result := make([]Bucket, 0, len(counts))
	for points, count := range counts {
		result = append(result, Bucket{Points: points, Count: count})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Points < result[j].Points })
	return result
}
