package question

import "strings"

// NormalizeDifficulty trims and lowercases a difficulty label.
func NormalizeDifficulty(value string) string {
	return strings.ToLower(strings.Join(strings.Fields(value), " "))
}

// NormalizeTag trims and lowercases a tag.
func NormalizeTag(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func normalizeRecord(record Record) Record {
	record.Slug = strings.TrimSpace(record.Slug)
	record.QID = strings.ToLower(strings.TrimSpace(record.QID))
	record.Text = strings.TrimSpace(record.Text)
	record.Choices = normalizeStringSlice(record.Choices)
	record.QuestionType = Type(strings.ToLower(strings.TrimSpace(string(record.QuestionType))))
	record.Difficulty = NormalizeDifficulty(record.Difficulty)
	record.CreatedDate = strings.TrimSpace(record.CreatedDate)
	record.Explanation = strings.TrimSpace(record.Explanation)
	record.Tags = normalizeTags(record.Tags)
	return record
}

func normalizeStringSlice(values []string) []string {
	if values == nil {
		return nil
	}
	normalized := make([]string, 0, len(values))
	for _, value := range values {
		normalized = append(normalized, strings.TrimSpace(value))
	}
	return normalized
}

func normalizeTags(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := map[string]struct{}{}
	normalized := make([]string, 0, len(values))
	for _, value := range values {
		tag := NormalizeTag(value)
		if tag == "" {
			continue
		}
		if _, exists := seen[tag]; exists {
			continue
		}
		seen[tag] = struct{}{}
		normalized = append(normalized, tag)
	}
	return normalized
}
