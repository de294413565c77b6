package form

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"mcqkit/internal/question"
)

// Renderer produces a fillable document for a finalized question sequence.
// Each question is rendered under its own permutation, and option boxes are
// named with FieldName. Implementations live outside this module.
type Renderer interface {
	Render(ctx context.Context, questions []question.Question, w io.Writer) error
}

// Reader exposes the raw field data of a filled document.
type Reader interface {
	ReadFields(ctx context.Context, r io.Reader) (Fields, error)
}

// JSONReader reads submissions stored as a flat JSON object of field names.
// Boolean values map to Checked/Unchecked and numbers are formatted as text.
type JSONReader struct{}

// ReadFields decodes a JSON submission.
func (JSONReader) ReadFields(ctx context.Context, r io.Reader) (Fields, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var raw map[string]any
	decoder := json.NewDecoder(r)
	decoder.UseNumber()
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode fields: %w", err)
	}
	fields := make(Fields, len(raw))
	for name, value := range raw {
		switch v := value.(type) {
		case nil:
		case string:
			fields[name] = v
		case bool:
			if v {
				fields[name] = Checked
			} else {
				fields[name] = Unchecked
			}
		case json.Number:
			fields[name] = v.String()
		default:
			return nil, fmt.Errorf("decode fields: %s has unsupported value %v", name, value)
		}
	}
	return fields, nil
}

// LoadFields reads a JSON submission file.
func LoadFields(ctx context.Context, path string) (Fields, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open submission: %w", err)
	}
	defer file.Close()
	fields, err := JSONReader{}.ReadFields(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return fields, nil
}

// WriteFields stores fields as an indented JSON object.
func WriteFields(path string, fields Fields) error {
	payload, err := json.MarshalIndent(fields, "", "  ")
	if err != nil {
		return fmt.Errorf("encode fields: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create submission directory: %w", err)
	}
	if err := os.WriteFile(path, append(payload, '\n'), 0o644); err != nil {
		return fmt.Errorf("write submission: %w", err)
	}
	return nil
}

// LayoutEntry describes one presented question for a renderer: the order in
// which its choices are shown and the field names of their boxes.
type LayoutEntry struct {
	Index int    `json:"index"`
	Slug  string `json:"slug"`
	QID   string `json:"qid"`
	// Permutation maps presentation position to original choice index.
	Permutation []int    `json:"permutation"`
	Choices     []string `json:"choices"`
	Fields      []string `json:"fields"`
}

// Layout returns the layout entry of every question, in presentation order.
func Layout(questions []question.Question) []LayoutEntry {
	layout := make([]LayoutEntry, 0, len(questions))
	for index, q := range questions {
		layout = append(layout, LayoutEntry{
			Index:       index,
			Slug:        q.Slug(),
			QID:         q.QID(),
			Permutation: q.Permutation(),
			Choices:     q.PresentedChoices(),
			Fields:      FieldNames(index, q.Slug(), q.QID(), q.NumChoices()),
		})
	}
	return layout
}

// SaveLayout writes layout as indented JSON.
func SaveLayout(path string, layout []LayoutEntry) error {
	data, err := json.MarshalIndent(layout, "", "  ")
	if err != nil {
		return fmt.Errorf("encode field layout: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write field layout: %w", err)
	}
	return nil
}

// LoadLayout reads a layout written by SaveLayout.
func LoadLayout(path string) ([]LayoutEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read field layout: %w", err)
	}
	var layout []LayoutEntry
	if err := json.Unmarshal(data, &layout); err != nil {
		return nil, fmt.Errorf("decode field layout %s: %w", path, err)
	}
	return layout, nil
}
