package form

import "mcqkit/internal/manifest"

// SolutionFields returns the fields a respondent who ticks exactly the
// correct options would submit.
func SolutionFields(m *manifest.Manifest, studentName, studentID string) Fields {
	fields := Fields{
		StudentNameField: studentName,
		StudentIDField:   studentID,
	}
	for index, item := range m.Items() {
		for option, correct := range item.CorrectOnehot {
			value := Unchecked
			if correct == 1 {
				value = Checked
			}
			fields[FieldName(Ref{Index: index, Option: option, Slug: item.Slug, QID: item.QID})] = value
		}
	}
	return fields
}
