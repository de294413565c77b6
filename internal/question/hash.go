package question

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"slices"
)

type hashedContent struct {
	Text           string   `json:"text"`
	Choices        []string `json:"choices"`
	CorrectAnswers []int    `json:"correct_answers"`
}

// ContentHash returns a SHA-256 digest of the text, choices and correct answers.
// It ignores the permutation and the order in which correct answers are listed.
func (q Question) ContentHash() string {
	correct := cloneInts(q.correctAnswers)
	slices.Sort(correct)
	payload, err := json.Marshal(hashedContent{Text: q.text, Choices: q.choices, CorrectAnswers: correct})
	if err != nil {
		// Strings and ints always marshal.
		panic(err)
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
