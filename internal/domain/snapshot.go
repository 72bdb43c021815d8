package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// UnitsUS tags a snapshot with the fixed output unit convention: °F, mph,
// inches. The device reports in these units natively, so no negotiation
// happens anywhere in the collector.
const UnitsUS = "us"

// Canonical snapshot field names, WeeWX packet convention.
const (
	FieldOutTemp         = "outTemp"
	FieldOutHumidity     = "outHumidity"
	FieldDewpoint        = "dewpoint"
	FieldHeatIndex       = "heatindex"
	FieldWindChill       = "windchill"
	FieldWindSpeed       = "windSpeed"
	FieldWindDir         = "windDir"
	FieldWindGust        = "windGust"
	FieldWindGustDir     = "windGustDir"
	FieldRadiation       = "radiation"
	FieldUV              = "UV"
	FieldTxBatteryStatus = "txBatteryStatus"
	FieldRainRate        = "rainRate"
	FieldRain            = "rain"

	FieldSoilTemp1  = "soilTemp1"
	FieldSoilTemp2  = "soilTemp2"
	FieldSoilTemp3  = "soilTemp3"
	FieldSoilTemp4  = "soilTemp4"
	FieldSoilMoist1 = "soilMoist1"
	FieldSoilMoist2 = "soilMoist2"
	FieldSoilMoist3 = "soilMoist3"
	FieldSoilMoist4 = "soilMoist4"
	FieldLeafWet1   = "leafWet1"
	FieldLeafWet2   = "leafWet2"

	FieldBarometer = "barometer"
	FieldPressure  = "pressure"

	FieldInTemp     = "inTemp"
	FieldInHumidity = "inHumidity"
	FieldInDewpoint = "inDewpoint"
)

// Snapshot is one cycle's normalized output: the device timestamp, the fixed
// unit tag, and only the fields the device actually reported this cycle.
// Absent fields mean "no update", not zero.
type Snapshot struct {
	// ObservedAt is the device clock reading (data.ts).
	ObservedAt time.Time
	// CollectedAt is when this process normalized the document.
	CollectedAt time.Time
	Units       string
	Fields      map[string]float64
}

// Has reports whether the snapshot carries a value for the named field.
func (s Snapshot) Has(name string) bool {
	_, ok := s.Fields[name]
	return ok
}

func (s *Snapshot) set(name string, v *float64) {
	if v == nil {
		return
	}
	s.Fields[name] = *v
}

// MarshalJSON serializes the snapshot as one flat object in WeeWX packet
// convention: dateTime (epoch seconds), units, then the observed fields.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(s.Fields)+2)
	for name, v := range s.Fields {
		flat[name] = v
	}
	flat["dateTime"] = s.ObservedAt.Unix()
	flat["units"] = s.Units
	return json.Marshal(flat)
}

// UnmarshalJSON reverses MarshalJSON. CollectedAt is transport metadata and
// does not round-trip through the flat body.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var flat map[string]any
	if err := json.Unmarshal(data, &flat); err != nil {
		return fmt.Errorf("unmarshal snapshot: %w", err)
	}
	s.Units, _ = flat["units"].(string)
	s.Fields = make(map[string]float64, len(flat))
	for name, v := range flat {
		switch name {
		case "units":
		case "dateTime":
			if ts, ok := v.(float64); ok {
				s.ObservedAt = time.Unix(int64(ts), 0).UTC()
			}
		default:
			if f, ok := v.(float64); ok {
				s.Fields[name] = f
			}
		}
	}
	return nil
}
