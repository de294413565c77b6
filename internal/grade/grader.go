package grade

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"mcqkit/internal/form"
	"mcqkit/internal/manifest"
)

// GradedQuestion is the outcome of one question.
type GradedQuestion struct {
	QID            string
	Slug           string
	StudentAnswers []int
	CorrectAnswers []int
	StudentOnehot  []int
	CorrectOnehot  []int
	PointValue     float64
	MaxPointValue  float64
}

// GradedSet is the outcome of one submission.
type GradedSet struct {
	StudentID   string
	StudentName string
	Questions   []GradedQuestion
	Points      float64
	MaxPoints   float64
	// Skipped lists qids present in the submission but absent from the manifest.
	Skipped []string
}

// Grader scores parsed submissions against a manifest. It is safe for
// concurrent use.
type Grader struct {
	manifest *manifest.Manifest
	rubric   Rubric
	logger   *slog.Logger
}

// Option configures a Grader.
type Option func(*Grader)

// WithRubric sets the rubric. The default is StrictRubric.
func WithRubric(rubric Rubric) Option {
	return func(g *Grader) {
		if rubric != nil {
			g.rubric = rubric
		}
	}
}

// WithLogger sets the logger used for grading warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Grader) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// New returns a Grader for m.
func New(m *manifest.Manifest, opts ...Option) (*Grader, error) {
	if m == nil {
		return nil, errors.New("grader requires a manifest")
	}
	g := &Grader{manifest: m, rubric: StrictRubric{}, logger: slog.Default()}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Manifest returns the answer key the grader scores against.
func (g *Grader) Manifest() *manifest.Manifest {
	return g.manifest
}

// GradeFields parses and grades raw form fields.
func (g *Grader) GradeFields(fields form.Fields) (GradedSet, error) {
	parsed, err := Parse(fields)
	if err != nil {
		return GradedSet{}, err
	}
	return g.Grade(parsed)
}

// Grade scores each parsed question against its manifest item. Questions not
// in the manifest are logged and listed in Skipped. Graded questions are
// ordered as in the manifest.
func (g *Grader) Grade(set ParsedSet) (GradedSet, error) {
	graded := GradedSet{StudentID: set.StudentID, StudentName: set.StudentName}
	positions := map[string]int{}
	for _, parsed := range set.Questions {
		if parsed.MixedIndex {
			g.logger.Debug("question fields carry different presentation indexes",
				"qid", parsed.QID, "slug", parsed.Slug, "index", parsed.Index, "student_id", set.StudentID)
		}
		item, err := g.manifest.ItemByQID(parsed.QID)
		if err != nil {
			if errors.Is(err, manifest.ErrNotFound) {
				g.logger.Warn("question not in manifest, skipping",
					"qid", parsed.QID, "slug", parsed.Slug, "student_id", set.StudentID)
				graded.Skipped = append(graded.Skipped, parsed.QID)
				continue
			}
			return GradedSet{}, err
		}
		student, err := fitOnehot(parsed.Onehot, item.NumChoices())
		if err != nil {
			return GradedSet{}, fmt.Errorf("question %s (%s): %w", item.Slug, item.QID, err)
		}
		maxPoints := float64(item.PointValue)
		points, err := g.rubric.Score(student, item.CorrectOnehot, maxPoints)
		if err != nil {
			return GradedSet{}, fmt.Errorf("question %s (%s): %w", item.Slug, item.QID, err)
		}
		position, _ := g.manifest.Position(item.QID)
		positions[item.QID] = position
		graded.Questions = append(graded.Questions, GradedQuestion{
			QID:            item.QID,
			Slug:           item.Slug,
			StudentAnswers: parsed.Answers,
			CorrectAnswers: item.PermutedCorrectAnswers,
			StudentOnehot:  student,
			CorrectOnehot:  item.CorrectOnehot,
			PointValue:     points,
			MaxPointValue:  maxPoints,
		})
		graded.Points += points
		graded.MaxPoints += maxPoints
	}
	sort.SliceStable(graded.Questions, func(i, j int) bool {
		return positions[graded.Questions[i].QID] < positions[graded.Questions[j].QID]
	})
	return graded, nil
}

// fitOnehot pads a short student vector with unselected options. Readers may
// omit trailing unchecked boxes; options beyond the key are an error.
func fitOnehot(student []int, width int) ([]int, error) {
	if len(student) > width {
		for option := width; option < len(student); option++ {
			if student[option] != 0 {
				return nil, fmt.Errorf("%w: option %d selected but the key has %d options", ErrOnehotLength, option, width)
			}
		}
		return append([]int(nil), student[:width]...), nil
	}
	fitted := make([]int, width)
	copy(fitted, student)
	return fitted, nil
}
