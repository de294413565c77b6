package question

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile reads, parses, and validates a question record file. Files ending
// in .json are decoded as JSON, everything else as YAML.
func LoadFile(path string) (Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Question{}, fmt.Errorf("read question: %w", err)
	}
	record, err := ParseRecord(data, path)
	if err != nil {
		return Question{}, fmt.Errorf("%s: %w", path, err)
	}
	q, err := New(record)
	if err != nil {
		return Question{}, fmt.Errorf("%s: %w", path, err)
	}
	return q, nil
}

// ParseRecord decodes a single question record, rejecting unknown fields.
func ParseRecord(data []byte, path string) (Record, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".json" {
		return parseJSONRecord(data)
	}
	return parseYAMLRecord(data)
}

func parseJSONRecord(data []byte) (Record, error) {
	var record Record
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&record); err != nil {
		return Record{}, fmt.Errorf("parse json: %w", err)
	}
	var extra json.RawMessage
	if err := decoder.Decode(&extra); err != io.EOF {
		if err == nil {
			return Record{}, fmt.Errorf("parse json: multiple documents are not supported")
		}
		return Record{}, fmt.Errorf("parse json: %w", err)
	}
	return record, nil
}

func parseYAMLRecord(data []byte) (Record, error) {
	var record Record
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&record); err != nil {
		if err == io.EOF {
			return Record{}, fmt.Errorf("parse yaml: empty document")
		}
		return Record{}, fmt.Errorf("parse yaml: %w", err)
	}
	var extra yaml.Node
	if err := decoder.Decode(&extra); err != io.EOF {
		if err == nil {
			return Record{}, fmt.Errorf("parse yaml: multiple documents are not supported")
		}
		return Record{}, fmt.Errorf("parse yaml: %w", err)
	}
	return record, nil
}

// MarshalYAML renders q as a question record document.
func MarshalYAML(q Question) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(q.Record()); err != nil {
		return nil, fmt.Errorf("encode question %q: %w", q.Slug(), err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("encode question %q: %w", q.Slug(), err)
	}
	return buf.Bytes(), nil
}
