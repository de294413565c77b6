package question

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Namespace is the UUIDv5 namespace for qid derivation. It is frozen: changing
// it changes every qid ever issued.
var Namespace = uuid.MustParse("9f1e0d8c-7f3a-4c02-be3b-3f8f5a2a8f2e")

// ErrMissingSlug indicates a record without a slug.
var ErrMissingSlug = errors.New("question slug is required")

// ErrQIDMismatch indicates a supplied qid that does not match its slug.
var ErrQIDMismatch = errors.New("qid does not match slug")

// IdentityError reports a supplied qid that disagrees with the derived one.
type IdentityError struct {
	Slug     string
	Expected string
	Provided string
}

// Error returns a message naming the slug and both qids.
func (err *IdentityError) Error() string {
	return fmt.Sprintf("qid mismatch for slug %q: expected %s, provided %s", err.Slug, err.Expected, err.Provided)
}

// Unwrap lets errors.Is match ErrQIDMismatch.
func (err *IdentityError) Unwrap() error {
	return ErrQIDMismatch
}

// DeriveQID returns the deterministic qid of slug.
func DeriveQID(slug string) string {
	return uuid.NewSHA1(Namespace, []byte(slug)).String()
}

func resolveQID(slug, provided string) (string, error) {
	if slug == "" {
		return "", ErrMissingSlug
	}
	expected := DeriveQID(slug)
	if provided == "" {
		return expected, nil
	}
	parsed, err := uuid.Parse(provided)
	if err != nil || parsed.String() != expected {
		return "", &IdentityError{Slug: slug, Expected: expected, Provided: provided}
	}
	return expected, nil
}
