package ledger

import (
	"encoding/json"

	"velokassa-backend/internal/domain"
)

// ExportJSON serializes the full snapshot with stable field names
// identical to the in-memory model.
func (e *Engine) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(e.Snapshot(), "", "  ")
}

// DecodeSnapshot parses a snapshot document. The minimum accepted shape
// is `bikes` and `rentals` present as sequences; every other table
// defaults to empty. Anything less is a FormatError.
func DecodeSnapshot(data []byte) (*domain.Snapshot, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, &domain.FormatError{Reason: "invalid snapshot document: " + err.Error()}
	}
	for _, key := range []string{"bikes", "rentals"} {
		raw, ok := probe[key]
		if !ok {
			return nil, &domain.FormatError{Reason: "snapshot is missing required table " + key}
		}
		var seq []json.RawMessage
		if err := json.Unmarshal(raw, &seq); err != nil {
			return nil, &domain.FormatError{Reason: "snapshot table " + key + " is not a sequence"}
		}
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, &domain.FormatError{Reason: "malformed snapshot record: " + err.Error()}
	}
	snap.Normalize()
	return &snap, nil
}

// ImportJSON validates and installs a snapshot document. On any failure
// the current state is left untouched.
func (e *Engine) ImportJSON(data []byte) error {
	snap, err := DecodeSnapshot(data)
	if err != nil {
		return err
	}
	e.Restore(snap)
	return nil
}
