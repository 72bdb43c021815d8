package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Normalize parses a raw /v1/current_conditions document and folds its
// condition records into one flat Snapshot. The storm state is the only
// input that survives between cycles; it is read and updated in place
// whenever the document carries a precipitation-capable record.
//
// A malformed document (bad JSON, missing data.ts or data.conditions, or an
// undecodable record) returns an error and no snapshot — the caller retries
// next cycle. Unknown record types are skipped, not errors.
//
// Records later in the list overwrite earlier ones for overlapping fields;
// the device sends at most one record per type, so in practice this never
// fires.
func Normalize(raw []byte, storm *StormState) (Snapshot, error) {
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Snapshot{}, fmt.Errorf("parse current conditions: %w", err)
	}
	if doc.Data == nil || doc.Data.TS == nil {
		return Snapshot{}, fmt.Errorf("parse current conditions: missing data.ts")
	}
	if doc.Data.Conditions == nil {
		return Snapshot{}, fmt.Errorf("parse current conditions: missing data.conditions")
	}

	snap := Snapshot{
		ObservedAt:  time.Unix(*doc.Data.TS, 0).UTC(),
		CollectedAt: clock.Now(),
		Units:       UnitsUS,
		Fields:      make(map[string]float64),
	}

	for i, rec := range doc.Data.Conditions {
		if err := applyRecord(rec, &snap, storm); err != nil {
			return Snapshot{}, fmt.Errorf("parse condition record %d: %w", i, err)
		}
	}

	return snap, nil
}

// applyRecord decodes one condition record into its variant by discriminant
// and folds it into the snapshot.
func applyRecord(rec json.RawMessage, snap *Snapshot, storm *StormState) error {
	var header recordHeader
	if err := json.Unmarshal(rec, &header); err != nil {
		return err
	}
	if header.DataStructureType == nil {
		return fmt.Errorf("missing data_structure_type")
	}

	switch *header.DataStructureType {
	case recordTypeISS:
		var c issConditions
		if err := json.Unmarshal(rec, &c); err != nil {
			return err
		}
		c.apply(snap, storm)
	case recordTypeLeafSoil:
		var c leafSoilConditions
		if err := json.Unmarshal(rec, &c); err != nil {
			return err
		}
		c.apply(snap)
	case recordTypeBarometric:
		var c barConditions
		if err := json.Unmarshal(rec, &c); err != nil {
			return err
		}
		c.apply(snap)
	case recordTypeInside:
		var c insideConditions
		if err := json.Unmarshal(rec, &c); err != nil {
			return err
		}
		c.apply(snap)
	default:
		// Forward compatibility: unknown record kinds contribute nothing.
	}
	return nil
}

// Normalizer owns the cross-cycle storm state for a single device. It is
// not safe for concurrent use — cycles must be normalized in order.
type Normalizer struct {
	storm StormState
}

// NewNormalizer returns a Normalizer with no precipitation baseline yet.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize parses one polled document, threading the normalizer's own
// storm state through the pure Normalize function.
func (n *Normalizer) Normalize(raw []byte) (Snapshot, error) {
	return Normalize(raw, &n.storm)
}
