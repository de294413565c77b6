package question

// Type is the answer mode of a question.
type Type string

const (
	// TypeSingle questions have exactly one correct choice.
	TypeSingle Type = "single"
	// TypeMultiple questions have one or more correct choices.
	TypeMultiple Type = "multiple"
)

// DefaultPointValue is used when a record omits point_value.
const DefaultPointValue = 1

// MaxChoices bounds the number of choices of one question.
const MaxChoices = 256

// DateLayout is the layout of created_date values (DD/MM/YYYY).
const DateLayout = "02/01/2006"

// Record is the declarative source form of a question as read from YAML or JSON.
type Record struct {
	Slug             string   `json:"slug" yaml:"slug"`
	QID              string   `json:"qid,omitempty" yaml:"qid,omitempty"`
	Text             string   `json:"text" yaml:"text"`
	Choices          []string `json:"choices" yaml:"choices"`
	CorrectAnswers   []int    `json:"correct_answers" yaml:"correct_answers"`
	QuestionType     Type     `json:"question_type" yaml:"question_type"`
	Permutation      []int    `json:"permutation,omitempty" yaml:"permutation,omitempty"`
	FixedPermutation bool     `json:"fixed_permutation,omitempty" yaml:"fixed_permutation,omitempty"`
	PointValue       *int     `json:"point_value,omitempty" yaml:"point_value,omitempty"`
	Difficulty       string   `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
	Tags             []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	CreatedDate      string   `json:"created_date,omitempty" yaml:"created_date,omitempty"`
	Explanation      string   `json:"explanation,omitempty" yaml:"explanation,omitempty"`
	Image            any      `json:"image,omitempty" yaml:"image,omitempty"`
	Code             any      `json:"code,omitempty" yaml:"code,omitempty"`
	CodeLanguage     any      `json:"code_language,omitempty" yaml:"code_language,omitempty"`
}

// Question is a validated, immutable question. Build one with New.
type Question struct {
	slug             string
	qid              string
	text             string
	choices          []string
	correctAnswers   []int
	questionType     Type
	permutation      []int
	fixedPermutation bool
	pointValue       int
	difficulty       string
	tags             []string
	createdDate      string
	explanation      string
	image            any
	code             any
	codeLanguage     any
}

// Slug returns the human-chosen identifier.
func (q Question) Slug() string { return q.slug }

// QID returns the identifier derived from the slug.
func (q Question) QID() string { return q.qid }

// Text returns the question text.
func (q Question) Text() string { return q.text }

// Choices returns the choices in their original order.
func (q Question) Choices() []string { return cloneStrings(q.choices) }

// CorrectAnswers returns the original indices of the correct choices.
func (q Question) CorrectAnswers() []int { return cloneInts(q.correctAnswers) }

// Type returns the answer mode.
func (q Question) Type() Type { return q.questionType }

// Permutation maps each presentation position to an original choice index.
func (q Question) Permutation() []int { return cloneInts(q.permutation) }

// FixedPermutation reports whether the permutation must not be regenerated.
func (q Question) FixedPermutation() bool { return q.fixedPermutation }

// PointValue returns the points awarded for a fully correct answer.
func (q Question) PointValue() int { return q.pointValue }

// Difficulty returns the normalized difficulty label, or "".
func (q Question) Difficulty() string { return q.difficulty }

// Tags returns the normalized tags.
func (q Question) Tags() []string { return cloneStrings(q.tags) }

// CreatedDate returns the creation date as DD/MM/YYYY, or "".
func (q Question) CreatedDate() string { return q.createdDate }

// Explanation returns the optional explanation text.
func (q Question) Explanation() string { return q.explanation }

// NumChoices returns the number of choices.
func (q Question) NumChoices() int { return len(q.choices) }

// Record returns the declarative form of q, including its derived qid and permutation.
func (q Question) Record() Record {
	points := q.pointValue
	return Record{
		Slug:             q.slug,
		QID:              q.qid,
		Text:             q.text,
		Choices:          cloneStrings(q.choices),
		CorrectAnswers:   cloneInts(q.correctAnswers),
		QuestionType:     q.questionType,
		Permutation:      cloneInts(q.permutation),
		FixedPermutation: q.fixedPermutation,
		PointValue:       &points,
		Difficulty:       q.difficulty,
		Tags:             cloneStrings(q.tags),
		CreatedDate:      q.createdDate,
		Explanation:      q.explanation,
		Image:            q.image,
		Code:             q.code,
		CodeLanguage:     q.codeLanguage,
	}
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	return append([]string(nil), values...)
}

func cloneInts(values []int) []int {
	if values == nil {
		return nil
	}
	return append([]int(nil), values...)
}
