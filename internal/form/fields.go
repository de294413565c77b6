// Package form defines the field protocol shared by answer-sheet renderers,
// form readers and grading.
//
// A rendered answer sheet exposes one checkbox per presented option, named
//
//	Q{presentation_index}-opt={option_index}-slug={slug}-qid={qid}
//
// plus the singleton text fields "studentname" and "studentid". The qid is
// always the final token so it can be recovered even if the slug changes.
package form

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"mcqkit/internal/question"
)

const (
	// StudentNameField holds the respondent's name.
	StudentNameField = "studentname"
	// StudentIDField holds the respondent's identifier.
	StudentIDField = "studentid"
	// Checked is the value a reader reports for a ticked box.
	Checked = "/Yes"
	// Unchecked is the value autofill writes for an empty box.
	Unchecked = "/Off"
)

// ErrInvalidField indicates a field name that does not follow the protocol.
var ErrInvalidField = errors.New("invalid form field name")

// Fields maps raw field names to their values.
type Fields map[string]string

// Ref is the decoded content of one option field name.
type Ref struct {
	Index  int
	Option int
	Slug   string
	QID    string
}

// FieldName encodes ref as a field name.
func FieldName(ref Ref) string {
	return fmt.Sprintf("Q%d-opt=%d-slug=%s-qid=%s", ref.Index, ref.Option, ref.Slug, ref.QID)
}

// FieldNames returns the option field names of one presented question.
func FieldNames(index int, slug, qid string, options int) []string {
	names := make([]string, 0, options)
	for option := 0; option < options; option++ {
		names = append(names, FieldName(Ref{Index: index, Option: option, Slug: slug, QID: qid}))
	}
	return names
}

// QIDOf returns the qid token of an option field name.
func QIDOf(name string) (string, bool) {
	at := strings.LastIndex(name, "-qid=")
	if at < 0 {
		return "", false
	}
	qid := name[at+len("-qid="):]
	return qid, qid != ""
}

// ParseFieldName decodes an option field name. The option token must be an
// integer below question.MaxChoices; the presentation index is optional so that readers which mangle
// it can still be graded.
func ParseFieldName(name string) (Ref, error) {
	qid, ok := QIDOf(name)
	if !ok {
		return Ref{}, fmt.Errorf("%w: %q has no qid", ErrInvalidField, name)
	}
	rest := name[:strings.LastIndex(name, "-qid=")]

	var ref Ref
	ref.QID = qid
	ref.Index = -1
	if at := strings.Index(rest, "-slug="); at >= 0 {
		ref.Slug = rest[at+len("-slug="):]
		rest = rest[:at]
	}
	at := strings.Index(rest, "-opt=")
	if at < 0 {
		return Ref{}, fmt.Errorf("%w: %q has no option", ErrInvalidField, name)
	}
	token := rest[at+len("-opt="):]
	if dash := strings.Index(token, "-"); dash >= 0 {
		token = token[:dash]
	}
	option, err := strconv.Atoi(token)
	if err != nil || option < 0 || option >= question.MaxChoices {
		return Ref{}, fmt.Errorf("%w: %q has option %q", ErrInvalidField, name, token)
	}
	ref.Option = option
	if prefix := rest[:at]; strings.HasPrefix(prefix, "Q") {
		if index, err := strconv.Atoi(prefix[1:]); err == nil {
			ref.Index = index
		}
	}
	return ref, nil
}

// IsChecked reports whether value marks a ticked box.
func IsChecked(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "/yes", "yes", "on", "/on", "true", "1", "x":
		return true
	}
	return false
}
