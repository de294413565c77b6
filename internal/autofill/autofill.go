// Package autofill generates synthetic filled submissions from a manifest so
// the grading pipeline can be exercised without real respondents.
package autofill

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"

	"mcqkit/internal/form"
	"mcqkit/internal/manifest"
)

// DefaultCount is the number of forms generated when Options.Count is zero.
const DefaultCount = 10

var firstNames = []string{
	"Mikkel", "Sofie", "Frederik", "Emma", "William", "Ida", "Noah", "Anna",
	"Lucas", "Clara", "Oscar", "Laura", "Oliver", "Mathilde", "Alfred",
	"Katrine", "Emil",
}

var lastNames = []string{
	"Jensen", "Nielsen", "Hansen", "Pedersen", "Andersen", "Christensen",
	"Larsen", "Sørensen", "Rasmussen", "Jørgensen", "Madsen", "Kristensen",
	"Olsen", "Johansen", "Poulsen", "Thomsen",
}

// Options controls generation.
type Options struct {
	Count int
	Seed  uint64
	// CorrectOnly ticks every correct option of every question.
	CorrectOnly bool
}

// Form is one generated submission.
type Form struct {
	Index  int
	Fields form.Fields
}

// Generate builds filled forms for m. Unless CorrectOnly is set, each
// question gets exactly one ticked box: its first correct option with
// probability 1/point_value (0.5 for zero-point questions), otherwise one of
// the remaining options uniformly.
func Generate(m *manifest.Manifest, opts Options) ([]Form, error) {
	if m == nil {
		return nil, errors.New("autofill: manifest is nil")
	}
	count := opts.Count
	if count == 0 {
		count = DefaultCount
	}
	if count < 0 {
		return nil, fmt.Errorf("autofill: count must be positive, got %d", count)
	}
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	items := m.Items()
	forms := make([]Form, 0, count)
	for i := 0; i < count; i++ {
		name := firstNames[rng.IntN(len(firstNames))] + " " + lastNames[rng.IntN(len(lastNames))]
		id := fmt.Sprintf("TID%d", i)
		if opts.CorrectOnly {
			forms = append(forms, Form{Index: i, Fields: form.SolutionFields(m, name, id)})
			continue
		}
		fields := form.Fields{
			form.StudentNameField: name,
			form.StudentIDField:   id,
		}
		for index, item := range items {
			ticked := pickOption(rng, item)
			for option := range item.CorrectOnehot {
				value := form.Unchecked
				if option == ticked {
					value = form.Checked
				}
				fields[form.FieldName(form.Ref{Index: index, Option: option, Slug: item.Slug, QID: item.QID})] = value
			}
		}
		forms = append(forms, Form{Index: i, Fields: fields})
	}
	return forms, nil
}

func pickOption(rng *rand.Rand, item manifest.Item) int {
	n := len(item.CorrectOnehot)
	correct := 0
	for option, v := range item.CorrectOnehot {
		if v == 1 {
			correct = option
			break
		}
	}
	p := 0.5
	if item.PointValue > 0 {
		p = 1 / float64(item.PointValue)
	}
	if n < 2 || rng.Float64() < p {
		return correct
	}
	other := rng.IntN(n - 1)
	if other >= correct {
		other++
	}
	return other
}

// FileName is the submission file name for the i-th generated form.
func FileName(stem string, index int) string {
	return fmt.Sprintf("%s_autofill_%d.json", stem, index)
}

// Write stores forms as JSON submissions in dir and returns their paths.
func Write(dir, stem string, forms []Form) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create submission dir: %w", err)
	}
	paths := make([]string, 0, len(forms))
	for _, f := range forms {
		path := filepath.Join(dir, FileName(stem, f.Index))
		if err := form.WriteFields(path, f.Fields); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
