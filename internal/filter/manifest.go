package filter

import (
	"fmt"

	"mcqkit/internal/manifest"
	"mcqkit/internal/question"
)

// ManifestOptions selects the manifest a ManifestFilter compares against.
// Exactly one of Manifest or Path must be set.
type ManifestOptions struct {
	Manifest *manifest.Manifest
	Path     string
	Exclude  bool
}

// ManifestFilter keeps questions whose qid is in a manifest, or with Exclude
// drops them. Excluding is how previously administered questions are avoided.
type ManifestFilter struct {
	qids    map[string]struct{}
	exclude bool
}

// Manifest builds a manifest membership filter.
func Manifest(opts ManifestOptions) (*ManifestFilter, error) {
	switch {
	case opts.Manifest != nil && opts.Path != "":
		return nil, fmt.Errorf("%w: manifest filter takes either a manifest or a manifest_path, not both", ErrInvalidConfig)
	case opts.Manifest == nil && opts.Path == "":
		return nil, fmt.Errorf("%w: manifest filter requires a manifest or a manifest_path", ErrInvalidConfig)
	}
	m := opts.Manifest
	if m == nil {
		loaded, err := manifest.Load(opts.Path)
		if err != nil {
			return nil, err
		}
		m = loaded
	}
	qids := make(map[string]struct{}, m.Len())
	for _, qid := range m.QIDs() {
		qids[qid] = struct{}{}
	}
	return &ManifestFilter{qids: qids, exclude: opts.Exclude}, nil
}

// Exclude reports whether manifest members are dropped.
func (f *ManifestFilter) Exclude() bool { return f.exclude }

// Apply keeps (or drops) manifest members.
func (f *ManifestFilter) Apply(questions []question.Question) []question.Question {
	return keep(questions, func(q question.Question) bool {
		_, member := f.qids[q.QID()]
		return member != f.exclude
	})
}
