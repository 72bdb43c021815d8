package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_ISSRecord(t *testing.T) {
	raw := []byte(`{"data":{"ts":1690000000,"conditions":[{
		"data_structure_type":1,
		"temp":72.3,"hum":45.2,"dew_point":50.1,"heat_index":73.0,"wind_chill":72.3,
		"wind_speed_last":4.0,"wind_dir_last":220,
		"wind_speed_hi_last_10_min":9.0,"wind_dir_scalar_avg_last_10_min":215,
		"solar_rad":668,"uv_index":5.5,"trans_battery_flag":0
	}]}}`)

	var storm StormState
	snap, err := Normalize(raw, &storm)
	require.NoError(t, err)

	assert.Equal(t, time.Unix(1690000000, 0).UTC(), snap.ObservedAt)
	assert.Equal(t, UnitsUS, snap.Units)

	expected := map[string]float64{
		FieldOutTemp:         72.3,
		FieldOutHumidity:     45.2,
		FieldDewpoint:        50.1,
		FieldHeatIndex:       73.0,
		FieldWindChill:       72.3,
		FieldWindSpeed:       4.0,
		FieldWindDir:         220,
		FieldWindGust:        9.0,
		FieldWindGustDir:     215,
		FieldRadiation:       668,
		FieldUV:              5.5,
		FieldTxBatteryStatus: 0,
	}
	assert.Equal(t, expected, snap.Fields)

	_, _, seen := storm.Observed()
	assert.False(t, seen, "no rain fields, storm baseline untouched")
}

func TestNormalize_AbsentAndNullFields(t *testing.T) {
	raw := []byte(`{"data":{"ts":1000,"conditions":[{
		"data_structure_type":1,
		"temp":0,"hum":null
	}]}}`)

	var storm StormState
	snap, err := Normalize(raw, &storm)
	require.NoError(t, err)

	assert.True(t, snap.Has(FieldOutTemp), "zero is real data")
	assert.Equal(t, 0.0, snap.Fields[FieldOutTemp])
	assert.False(t, snap.Has(FieldOutHumidity), "null reads as absent")
	assert.False(t, snap.Has(FieldWindSpeed), "missing key reads as absent")
	assert.Len(t, snap.Fields, 1)
}

func TestNormalize_RainRatePerCollectorType(t *testing.T) {
	tests := []struct {
		collector int
		rate      float64
		expected  float64
	}{
		{1, 100, 1.0},
		{2, 100, 100 * 0.2 * 0.0393701},
		{3, 100, 10.0},
		{4, 100, 100 * 0.001 * 0.0393701},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("collector type %d", tt.collector), func(t *testing.T) {
			raw := fmt.Appendf(nil,
				`{"data":{"ts":1000,"conditions":[{"data_structure_type":1,"rain_size":%d,"rain_rate_last":%g}]}}`,
				tt.collector, tt.rate)

			var storm StormState
			snap, err := Normalize(raw, &storm)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, snap.Fields[FieldRainRate], 1e-12)
		})
	}
}

func TestNormalize_UnknownCollectorSkipsRain(t *testing.T) {
	raw := []byte(`{"data":{"ts":1000,"conditions":[{
		"data_structure_type":1,
		"rain_size":0,"rain_rate_last":50,"rain_storm":10,"rain_storm_start_at":500
	}]}}`)

	var storm StormState
	snap, err := Normalize(raw, &storm)
	require.NoError(t, err)

	assert.False(t, snap.Has(FieldRainRate))
	assert.False(t, snap.Has(FieldRain))
	_, _, seen := storm.Observed()
	assert.False(t, seen, "baseline must not move without a usable multiplier")
}

// TestNormalize_StormSequence walks the four storm-delta scenarios through
// one Normalizer the way consecutive poll cycles would.
func TestNormalize_StormSequence(t *testing.T) {
	doc := func(stormTotal float64, startAt int64) []byte {
		return fmt.Appendf(nil,
			`{"data":{"ts":1000,"conditions":[{"data_structure_type":1,"temp":72.3,"rain_size":1,"rain_storm":%g,"rain_storm_start_at":%d}]}}`,
			stormTotal, startAt)
	}

	n := NewNormalizer()

	// Cycle 1: no prior state — rain 0, baseline (10, 500).
	snap, err := n.Normalize(doc(10, 500))
	require.NoError(t, err)
	assert.Equal(t, 72.3, snap.Fields[FieldOutTemp])
	require.True(t, snap.Has(FieldRain), "rain is emitted as an explicit zero")
	assert.Equal(t, 0.0, snap.Fields[FieldRain])

	total, startAt, ok := n.storm.Observed()
	require.True(t, ok)
	assert.Equal(t, 10.0, total)
	assert.Equal(t, int64(500), startAt)

	// Cycle 2: same storm, counter 10 → 15.
	snap, err = n.Normalize(doc(15, 500))
	require.NoError(t, err)
	assert.InDelta(t, 0.05, snap.Fields[FieldRain], 1e-12)

	// Cycle 3: new storm (start 900), counter 3 — full total is new rain.
	snap, err = n.Normalize(doc(3, 900))
	require.NoError(t, err)
	assert.InDelta(t, 0.03, snap.Fields[FieldRain], 1e-12)

	// Cycle 4: same storm, counter regressed 3 → 1 — zero, baseline moves.
	snap, err = n.Normalize(doc(1, 900))
	require.NoError(t, err)
	assert.Equal(t, 0.0, snap.Fields[FieldRain])

	total, startAt, _ = n.storm.Observed()
	assert.Equal(t, 1.0, total)
	assert.Equal(t, int64(900), startAt)
}

func TestNormalize_LeafSoilRecord(t *testing.T) {
	raw := []byte(`{"data":{"ts":1000,"conditions":[{
		"data_structure_type":2,
		"temp_1":55.1,"temp_4":57.9,
		"moist_soil_1":10,"moist_soil_2":11,"moist_soil_3":12,"moist_soil_4":0,
		"wet_leaf_1":3.2,"wet_leaf_2":0
	}]}}`)

	var storm StormState
	snap, err := Normalize(raw, &storm)
	require.NoError(t, err)

	expected := map[string]float64{
		FieldSoilTemp1:  55.1,
		FieldSoilTemp4:  57.9,
		FieldSoilMoist1: 10,
		FieldSoilMoist2: 11,
		FieldSoilMoist3: 12,
		FieldSoilMoist4: 0,
		FieldLeafWet1:   3.2,
		FieldLeafWet2:   0,
	}
	assert.Equal(t, expected, snap.Fields)
	assert.NotEqual(t, snap.Fields[FieldSoilMoist2], snap.Fields[FieldSoilMoist3],
		"slots 2 and 3 are distinct outputs")
}

func TestNormalize_BarometricAndInsideRecords(t *testing.T) {
	raw := []byte(`{"data":{"ts":1000,"conditions":[
		{"data_structure_type":3,"bar_sea_level":30.008,"bar_absolute":29.11},
		{"data_structure_type":4,"temp_in":71.2,"hum_in":38.9,"dew_point_in":45.3}
	]}}`)

	var storm StormState
	snap, err := Normalize(raw, &storm)
	require.NoError(t, err)

	expected := map[string]float64{
		FieldBarometer:  30.008,
		FieldPressure:   29.11,
		FieldInTemp:     71.2,
		FieldInHumidity: 38.9,
		FieldInDewpoint: 45.3,
	}
	assert.Equal(t, expected, snap.Fields)
}

func TestNormalize_UnknownRecordTypeIgnored(t *testing.T) {
	raw := []byte(`{"data":{"ts":1000,"conditions":[
		{"data_structure_type":99,"mystery_field":42},
		{"data_structure_type":4,"temp_in":71.2}
	]}}`)

	var storm StormState
	snap, err := Normalize(raw, &storm)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{FieldInTemp: 71.2}, snap.Fields)
}

func TestNormalize_LaterRecordWins(t *testing.T) {
	raw := []byte(`{"data":{"ts":1000,"conditions":[
		{"data_structure_type":3,"bar_sea_level":30.0},
		{"data_structure_type":3,"bar_sea_level":30.5,"bar_absolute":29.1}
	]}}`)

	var storm StormState
	snap, err := Normalize(raw, &storm)
	require.NoError(t, err)
	assert.Equal(t, 30.5, snap.Fields[FieldBarometer])
	assert.Equal(t, 29.1, snap.Fields[FieldPressure])
}

func TestNormalize_MalformedDocuments(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"invalid JSON", `{invalid`},
		{"empty object", `{}`},
		{"missing ts", `{"data":{"conditions":[]}}`},
		{"null ts", `{"data":{"ts":null,"conditions":[]}}`},
		{"missing conditions", `{"data":{"ts":1000}}`},
		{"record without discriminant", `{"data":{"ts":1000,"conditions":[{"temp":72}]}}`},
		{"record with wrong value type", `{"data":{"ts":1000,"conditions":[{"data_structure_type":1,"temp":"hot"}]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var storm StormState
			_, err := Normalize([]byte(tt.raw), &storm)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "parse")
		})
	}
}

func TestNormalize_EmptyConditionsList(t *testing.T) {
	var storm StormState
	snap, err := Normalize([]byte(`{"data":{"ts":1000,"conditions":[]}}`), &storm)
	require.NoError(t, err)
	assert.Empty(t, snap.Fields)
	assert.Equal(t, time.Unix(1000, 0).UTC(), snap.ObservedAt)
}

func TestNormalize_CollectedAtUsesClock(t *testing.T) {
	fixed := time.Date(2026, time.August, 24, 12, 30, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixed))
	defer SetClock(nil)

	var storm StormState
	snap, err := Normalize([]byte(`{"data":{"ts":1000,"conditions":[]}}`), &storm)
	require.NoError(t, err)
	assert.Equal(t, fixed, snap.CollectedAt)
}

func TestNormalize_ParseErrorLeavesStateUntouched(t *testing.T) {
	n := NewNormalizer()
	_, err := n.Normalize([]byte(`{"data":{"ts":1000,"conditions":[{"data_structure_type":1,"rain_size":1,"rain_storm":10,"rain_storm_start_at":500}]}}`))
	require.NoError(t, err)

	_, err = n.Normalize([]byte(`{broken`))
	require.Error(t, err)

	total, startAt, ok := n.storm.Observed()
	assert.True(t, ok)
	assert.Equal(t, 10.0, total)
	assert.Equal(t, int64(500), startAt)
}
