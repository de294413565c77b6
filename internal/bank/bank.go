// Package bank loads question records from directories and indexes them by
// slug and qid.
package bank

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"mcqkit/internal/question"
)

// DefaultPatterns are matched when FromDirectories receives an empty pattern.
var DefaultPatterns = []string{"*.yaml", "*.yml"}

// ErrDuplicateSlug indicates two records with the same slug.
var ErrDuplicateSlug = errors.New("duplicate slug")

// ErrDuplicateQID indicates two records with the same qid.
var ErrDuplicateQID = errors.New("duplicate qid")

// ErrNotFound indicates a lookup for an unknown slug or qid.
var ErrNotFound = errors.New("question not found")

// DuplicateError names the key that collided and the sources that hold it.
type DuplicateError struct {
	Kind   string
	Key    string
	First  string
	Second string
}

// Error returns a message naming the duplicate key and both sources.
func (err *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate %s %q found in %s and %s", err.Kind, err.Key, err.First, err.Second)
}

// Unwrap maps the error to ErrDuplicateSlug or ErrDuplicateQID.
func (err *DuplicateError) Unwrap() error {
	if err.Kind == "qid" {
		return ErrDuplicateQID
	}
	return ErrDuplicateSlug
}

// NotFoundError names the key that was not found.
type NotFoundError struct {
	Kind string
	Key  string
}

// Error returns a message naming the missing key.
func (err *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", err.Kind, err.Key)
}

// Unwrap lets errors.Is match ErrNotFound.
func (err *NotFoundError) Unwrap() error {
	return ErrNotFound
}

type entry struct {
	question question.Question
	source   string
}

// Bank is an immutable, indexed collection of questions. It is safe for
// concurrent reads.
type Bank struct {
	entries []entry
	bySlug  map[string]int
	byQID   map[string]int
}

// New indexes questions held in memory. Sources are reported as "question[i]".
func New(questions []question.Question) (*Bank, error) {
	entries := make([]entry, 0, len(questions))
	for i, q := range questions {
		entries = append(entries, entry{question: q, source: fmt.Sprintf("question[%d]", i)})
	}
	return build(entries)
}

// FromDirectories loads every file matching pattern in each directory. Files
// are read in lexical order per directory so loads are reproducible. Any
// parse failure or duplicate slug/qid fails the whole load.
func FromDirectories(dirs []string, pattern string) (*Bank, error) {
	patterns := DefaultPatterns
	if pattern != "" {
		patterns = []string{pattern}
	}
	var entries []entry
	for _, dir := range dirs {
		info, err := os.Stat(dir)
		if err != nil {
			return nil, fmt.Errorf("question directory: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("question directory %s: not a directory", dir)
		}
		paths, err := matchFiles(dir, patterns)
		if err != nil {
			return nil, err
		}
		for _, path := range paths {
			q, err := question.LoadFile(path)
			if err != nil {
				return nil, err
			}
			entries = append(entries, entry{question: q, source: path})
		}
	}
	return build(entries)
}

func matchFiles(dir string, patterns []string) ([]string, error) {
	seen := map[string]struct{}{}
	var paths []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("match %s in %s: %w", pattern, dir, err)
		}
		for _, match := range matches {
			if _, exists := seen[match]; exists {
				continue
			}
			info, err := os.Stat(match)
			if err != nil {
				return nil, fmt.Errorf("stat %s: %w", match, err)
			}
			if info.IsDir() {
				continue
			}
			seen[match] = struct{}{}
			paths = append(paths, match)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func build(entries []entry) (*Bank, error) {
	b := &Bank{
		entries: entries,
		bySlug:  make(map[string]int, len(entries)),
		byQID:   make(map[string]int, len(entries)),
	}
	for i, e := range entries {
		slug := e.question.Slug()
		if prior, exists := b.bySlug[slug]; exists {
			return nil, &DuplicateError{Kind: "slug", Key: slug, First: entries[prior].source, Second: e.source}
		}
		qid := e.question.QID()
		if prior, exists := b.byQID[qid]; exists {
			return nil, &DuplicateError{Kind: "qid", Key: qid, First: entries[prior].source, Second: e.source}
		}
		b.bySlug[slug] = i
		b.byQID[qid] = i
	}
	return b, nil
}

// Len returns the number of questions.
func (b *Bank) Len() int {
	return len(b.entries)
}

// All returns the questions in discovery order.
func (b *Bank) All() []question.Question {
	questions := make([]question.Question, 0, len(b.entries))
	for _, e := range b.entries {
		questions = append(questions, e.question)
	}
	return questions
}

// BySlug returns the question with slug.
func (b *Bank) BySlug(slug string) (question.Question, error) {
	i, ok := b.bySlug[slug]
	if !ok {
		return question.Question{}, &NotFoundError{Kind: "slug", Key: slug}
	}
	return b.entries[i].question, nil
}

// ByQID returns the question with qid.
func (b *Bank) ByQID(qid string) (question.Question, error) {
	i, ok := b.byQID[qid]
	if !ok {
		return question.Question{}, &NotFoundError{Kind: "qid", Key: qid}
	}
	return b.entries[i].question, nil
}

// Path returns the file a question was loaded from.
func (b *Bank) Path(slug string) (string, bool) {
	i, ok := b.bySlug[slug]
	if !ok {
		return "", false
	}
	return b.entries[i].source, true
}
