package domain

import "encoding/json"

// Record type discriminants used by the device.
const (
	recordTypeISS        = 1
	recordTypeLeafSoil   = 2
	recordTypeBarometric = 3
	recordTypeInside     = 4
)

// document mirrors the top level of a /v1/current_conditions response.
// Conditions stay raw so each record can be decoded into its own variant
// after reading the discriminant.
type document struct {
	Data *struct {
		TS         *int64            `json:"ts"`
		Conditions []json.RawMessage `json:"conditions"`
	} `json:"data"`
}

// recordHeader reads just the discriminant of a condition record.
type recordHeader struct {
	DataStructureType *int `json:"data_structure_type"`
}

// All sensor fields are pointers: stations omit sensors they don't carry,
// and a JSON null decodes to nil the same as an absent key. A literal 0 is
// real data and survives the trip.

// issConditions is a data_structure_type 1 record: the integrated sensor
// suite's current outside conditions.
type issConditions struct {
	Temp             *float64 `json:"temp"`
	Hum              *float64 `json:"hum"`
	DewPoint         *float64 `json:"dew_point"`
	HeatIndex        *float64 `json:"heat_index"`
	WindChill        *float64 `json:"wind_chill"`
	WindSpeedLast    *float64 `json:"wind_speed_last"`
	WindDirLast      *float64 `json:"wind_dir_last"`
	WindSpeedHi10Min *float64 `json:"wind_speed_hi_last_10_min"`
	WindDirAvg10Min  *float64 `json:"wind_dir_scalar_avg_last_10_min"`
	SolarRad         *float64 `json:"solar_rad"`
	UVIndex          *float64 `json:"uv_index"`
	TransBatteryFlag *float64 `json:"trans_battery_flag"`

	RainSize         *int     `json:"rain_size"`
	RainRateLast     *float64 `json:"rain_rate_last"`
	RainStorm        *float64 `json:"rain_storm"`
	RainStormStartAt *int64   `json:"rain_storm_start_at"`
}

func (c issConditions) apply(snap *Snapshot, storm *StormState) {
	snap.set(FieldOutTemp, c.Temp)
	snap.set(FieldOutHumidity, c.Hum)
	snap.set(FieldDewpoint, c.DewPoint)
	snap.set(FieldHeatIndex, c.HeatIndex)
	snap.set(FieldWindChill, c.WindChill)
	snap.set(FieldWindSpeed, c.WindSpeedLast)
	snap.set(FieldWindDir, c.WindDirLast)
	snap.set(FieldWindGust, c.WindSpeedHi10Min)
	snap.set(FieldWindGustDir, c.WindDirAvg10Min)
	snap.set(FieldRadiation, c.SolarRad)
	snap.set(FieldUV, c.UVIndex)
	snap.set(FieldTxBatteryStatus, c.TransBatteryFlag)

	c.applyRain(snap, storm)
}

// applyRain converts raw tip counts to inches. Without a recognized
// collector type there is no valid multiplier, so rain fields are skipped
// entirely for the cycle (and the storm baseline is left untouched).
func (c issConditions) applyRain(snap *Snapshot, storm *StormState) {
	if c.RainSize == nil {
		return
	}
	size, ok := rainCountSize(*c.RainSize)
	if !ok {
		return
	}

	if c.RainRateLast != nil {
		snap.Fields[FieldRainRate] = *c.RainRateLast * size
	}

	if c.RainStorm != nil && c.RainStormStartAt != nil {
		delta := storm.Advance(*c.RainStorm, *c.RainStormStartAt)
		snap.Fields[FieldRain] = delta * size
	}
}

// leafSoilConditions is a data_structure_type 2 record from a leaf/soil
// moisture station.
type leafSoilConditions struct {
	Temp1      *float64 `json:"temp_1"`
	Temp2      *float64 `json:"temp_2"`
	Temp3      *float64 `json:"temp_3"`
	Temp4      *float64 `json:"temp_4"`
	MoistSoil1 *float64 `json:"moist_soil_1"`
	MoistSoil2 *float64 `json:"moist_soil_2"`
	MoistSoil3 *float64 `json:"moist_soil_3"`
	MoistSoil4 *float64 `json:"moist_soil_4"`
	WetLeaf1   *float64 `json:"wet_leaf_1"`
	WetLeaf2   *float64 `json:"wet_leaf_2"`
}

func (c leafSoilConditions) apply(snap *Snapshot) {
	snap.set(FieldSoilTemp1, c.Temp1)
	snap.set(FieldSoilTemp2, c.Temp2)
	snap.set(FieldSoilTemp3, c.Temp3)
	snap.set(FieldSoilTemp4, c.Temp4)
	snap.set(FieldSoilMoist1, c.MoistSoil1)
	snap.set(FieldSoilMoist2, c.MoistSoil2)
	snap.set(FieldSoilMoist3, c.MoistSoil3)
	snap.set(FieldSoilMoist4, c.MoistSoil4)
	snap.set(FieldLeafWet1, c.WetLeaf1)
	snap.set(FieldLeafWet2, c.WetLeaf2)
}

// barConditions is a data_structure_type 3 record from the gateway's own
// barometer.
type barConditions struct {
	BarSeaLevel *float64 `json:"bar_sea_level"`
	BarAbsolute *float64 `json:"bar_absolute"`
}

func (c barConditions) apply(snap *Snapshot) {
	snap.set(FieldBarometer, c.BarSeaLevel)
	snap.set(FieldPressure, c.BarAbsolute)
}

// insideConditions is a data_structure_type 4 record: the gateway's inside
// temperature/humidity sensors.
type insideConditions struct {
	TempIn     *float64 `json:"temp_in"`
	HumIn      *float64 `json:"hum_in"`
	DewPointIn *float64 `json:"dew_point_in"`
}

func (c insideConditions) apply(snap *Snapshot) {
	snap.set(FieldInTemp, c.TempIn)
	snap.set(FieldInHumidity, c.HumIn)
	snap.set(FieldInDewpoint, c.DewPointIn)
}
