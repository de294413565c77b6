package manifest

import "mcqkit/internal/question"

// Lookup resolves questions by qid. *bank.Bank satisfies it.
type Lookup interface {
	ByQID(qid string) (question.Question, error)
}

// DriftKind classifies a difference between a manifest item and the bank.
type DriftKind string

const (
	DriftMissing    DriftKind = "missing"
	DriftContent    DriftKind = "content_changed"
	DriftPointValue DriftKind = "point_value_changed"
)

// Drift describes one manifest item that no longer matches its question.
type Drift struct {
	QID  string
	Slug string
	Kind DriftKind
}

// Verify compares every item with the current question of the same qid. A
// failed lookup counts as DriftMissing. An empty result means the manifest
// still describes the bank's content.
func (m *Manifest) Verify(lookup Lookup) []Drift {
	var drifts []Drift
	for _, item := range m.items {
		q, err := lookup.ByQID(item.QID)
		if err != nil {
			drifts = append(drifts, Drift{QID: item.QID, Slug: item.Slug, Kind: DriftMissing})
			continue
		}
		if q.ContentHash() != item.ContentHash {
			drifts = append(drifts, Drift{QID: item.QID, Slug: item.Slug, Kind: DriftContent})
			continue
		}
		if q.PointValue() != item.PointValue {
			drifts = append(drifts, Drift{QID: item.QID, Slug: item.Slug, Kind: DriftPointValue})
		}
	}
	return drifts
}
