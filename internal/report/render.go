package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// RenderAnalysis renders the per-question analysis as a terminal table.
// Correct options are marked with an asterisk.
func RenderAnalysis(analyses []QuestionAnalysis) string {
	width := 0
	for _, analysis := range analyses {
		width = max(width, len(analysis.OptionCounts))
	}
	headers := []string{"#", "Slug", "Responses", "Mean", "Max"}
	for option := 0; option < width; option++ {
		headers = append(headers, optionLabel(option))
	}
	rows := make([][]string, 0, len(analyses))
	for _, analysis := range analyses {
		row := []string{
			fmt.Sprintf("Q%d", analysis.Index+1),
			analysis.Slug,
			fmt.Sprintf("%d", analysis.Responses),
			fmt.Sprintf("%.2f", analysis.MeanPoints),
			formatPoints(analysis.MaxPoints),
		}
		for option := 0; option < width; option++ {
			cell := ""
			if option < len(analysis.OptionCounts) {
				cell = fmt.Sprintf("%d", analysis.OptionCounts[option])
				if analysis.CorrectOnehot[option] == 1 {
					cell += "*"
				}
			}
			row = append(row, cell)
		}
		rows = append(rows, row)
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		String()
}

// RenderHistogram renders point buckets as a bar chart.
func RenderHistogram(buckets []Bucket) string {
	var builder strings.Builder
	for _, bucket := range buckets {
		fmt.Fprintf(&builder, "%6s | %s %d\n", formatPoints(bucket.Points), strings.Repeat("#", bucket.Count), bucket.Count)
	}
	return builder.String()
}

func optionLabel(option int) string {
	if option < 26 {
		return string(rune('A' + option))
	}
	return fmt.Sprintf("O%d", option+1)
}
