package model

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ManifestVersion is the only manifest schema version currently written.
const ManifestVersion = 1

// ErrMalformedManifest indicates the exam's question manifest cannot be
// parsed or fails schema validation. This is a configuration-integrity
// error: the exam was set up inconsistently and must be fixed by an
// instructor, not retried.
var ErrMalformedManifest = errors.New("malformed question manifest")

// ManifestEntry binds one question to the points it is worth in an exam.
type ManifestEntry struct {
	QuestionID uuid.UUID `json:"question_id"`
	Points     float64   `json:"points"`
}

// QuestionManifest is the exam's authoritative ordered list of
// (question, points) pairs, stored as versioned jsonb.
type QuestionManifest struct {
	Version int             `json:"version"`
	Entries []ManifestEntry `json:"entries"`
}

// ParseManifest decodes and validates a raw manifest blob.
func ParseManifest(raw []byte) (*QuestionManifest, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty blob", ErrMalformedManifest)
	}
	var m QuestionManifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedManifest, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the manifest against the schema rules.
func (m *QuestionManifest) Validate() error {
	if m.Version != ManifestVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrMalformedManifest, m.Version)
	}
	if len(m.Entries) == 0 {
		return fmt.Errorf("%w: no entries", ErrMalformedManifest)
	}
	seen := make(map[uuid.UUID]struct{}, len(m.Entries))
	for i, e := range m.Entries {
		if e.QuestionID == uuid.Nil {
			return fmt.Errorf("%w: entry %d has no question id", ErrMalformedManifest, i)
		}
		if e.Points <= 0 {
			return fmt.Errorf("%w: entry %d has non-positive points", ErrMalformedManifest, i)
		}
		if _, dup := seen[e.QuestionID]; dup {
			return fmt.Errorf("%w: duplicate question %s", ErrMalformedManifest, e.QuestionID)
		}
		seen[e.QuestionID] = struct{}{}
	}
	return nil
}

// PointsFor returns the authoritative point weight for a question.
func (m *QuestionManifest) PointsFor(questionID uuid.UUID) (float64, bool) {
	for _, e := range m.Entries {
		if e.QuestionID == questionID {
			return e.Points, true
		}
	}
	return 0, false
}

// QuestionIDs returns the manifest's question ids in manifest order.
func (m *QuestionManifest) QuestionIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(m.Entries))
	for i, e := range m.Entries {
		ids[i] = e.QuestionID
	}
	return ids
}

// MaxScore returns the sum of all point weights.
func (m *QuestionManifest) MaxScore() float64 {
	var total float64
	for _, e := range m.Entries {
		total += e.Points
	}
	return total
}
