// Package domain models WeatherLink Live (WLL) current-conditions telemetry.
//
// # Data Source
//
// A WeatherLink Live gateway exposes its most recent readings over a local
// HTTP interface at GET /v1/current_conditions (port 80, no auth). The
// response is a JSON document with a device timestamp and a list of
// condition records, one per sensor suite the gateway is tracking:
//
//	{ "data": { "ts": <epoch seconds>, "conditions": [ {...}, ... ] } }
//
// The interface supports continuous requests as often as every 10 seconds.
// See https://weatherlink.github.io/weatherlink-live-local-api/.
//
// # Condition Record Types
//
// Each record carries a data_structure_type discriminant:
//
//	1 — ISS current conditions (outside temp/humidity, wind, rain, solar, UV)
//	2 — leaf/soil moisture station (4 soil temp, 4 soil moisture, 2 leaf wetness slots)
//	3 — barometric record (sea-level adjusted and absolute pressure)
//	4 — inside conditions (temp, humidity, dew point)
//
// Unknown discriminants are skipped so newer firmware cannot break the
// collector. Every sensor field is optional: stations report only the
// sensors physically attached, and a present-but-null field means the same
// as an absent one. A literal 0 is real data and passes through.
//
// All values arrive already in US customary units (°F, mph, inches of
// mercury), so mapping is 1:1 except for rain.
//
// # Rain Counter Semantics
//
// Rain is reported as raw bucket-tip counts. The physical collector type
// (rain_size 1-4) determines inches per count:
//
//	1 — 0.01 in    2 — 0.2 mm    3 — 0.1 in    4 — 0.001 mm
//
// rain_storm is a *cumulative* count since the start of the current storm,
// where a storm ends only after a 24-hour rain-free gap; the counter resets
// when a new storm begins, identified by a new rain_storm_start_at epoch
// timestamp. Per-cycle rainfall therefore requires client-side differencing
// against the previous observation — see [StormState.Advance] for the exact
// rules (first observation, storm rollover, monotonic advance, and
// non-monotonic device anomalies).
//
// # Output
//
// The normalized output is a [Snapshot]: a flat map of canonical WeeWX-style
// field names to values, tagged with the fixed US unit system. Fields absent
// from the input are absent from the output — consumers must read omission
// as "no update this cycle", never as zero.
package domain
