// Command wllsim runs a fake WeatherLink Live device on a local port. It
// serves /v1/current_conditions with evolving readings so the collector can
// be exercised end to end without hardware: temperature follows a diurnal
// curve, wind wanders, and the storm rain counter advances and periodically
// rolls over to a fresh storm.
//
// Usage:
//
//	go run ./cmd/wllsim -addr :8800 -rain-size 1
//
// then point the collector at it with WLL_HOST=localhost:8800.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"math"
	"math/rand"
	"net/http"
	"sync"
	"time"
)

type simulator struct {
	mu       sync.Mutex
	rainSize int
	start    time.Time

	stormCount   int64
	stormStartAt int64
}

func main() {
	addr := flag.String("addr", ":8800", "listen address")
	rainSize := flag.Int("rain-size", 1, "rain collector type (1=0.01in, 2=0.2mm, 3=0.1mm, 4=0.001in)")
	flag.Parse()

	if *rainSize < 1 || *rainSize > 4 {
		log.Fatalf("invalid -rain-size %d (want 1-4)", *rainSize)
	}

	now := time.Now()
	sim := &simulator{
		rainSize:     *rainSize,
		start:        now,
		stormStartAt: now.Add(-2 * time.Hour).Unix(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/current_conditions", sim.handleConditions)

	log.Printf("simulated WeatherLink Live listening on %s (rain collector type %d)", *addr, *rainSize)
	log.Fatal(http.ListenAndServe(*addr, mux)) //nolint:gosec // local dev tool
}

func (s *simulator) handleConditions(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	doc := s.document(time.Now())
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(doc); err != nil {
		log.Printf("write response: %v", err)
	}
}

// document builds one current-conditions payload with all four record types.
func (s *simulator) document(now time.Time) map[string]any {
	elapsed := now.Sub(s.start)

	// Diurnal curve: peak mid-afternoon, trough pre-dawn.
	hour := float64(now.Hour()) + float64(now.Minute())/60
	outTemp := round1(65 + 15*math.Sin((hour-9)*math.Pi/12) + rand.Float64())
	hum := round1(55 - 10*math.Sin((hour-9)*math.Pi/12) + rand.Float64()*2)
	windSpeed := round1(3 + 4*rand.Float64())
	windDir := rand.Intn(360)

	// The storm counter gains a count every ~30s, and every 40 counts the
	// storm "ends": counter resets and the start timestamp moves forward.
	s.stormCount = int64(elapsed.Seconds()) / 30
	if s.stormCount >= 40 {
		s.start = now
		s.stormCount = 0
		s.stormStartAt = now.Unix()
	}

	iss := map[string]any{
		"lsid":                            459,
		"data_structure_type":             1,
		"txid":                            1,
		"temp":                            outTemp,
		"hum":                             hum,
		"dew_point":                       round1(outTemp - (100-hum)/5),
		"heat_index":                      outTemp,
		"wind_chill":                      outTemp,
		"wind_speed_last":                 windSpeed,
		"wind_dir_last":                   windDir,
		"wind_speed_hi_last_10_min":       round1(windSpeed + 5),
		"wind_dir_scalar_avg_last_10_min": windDir,
		"rain_size":                       s.rainSize,
		"rain_rate_last":                  s.stormCount % 3,
		"rain_storm":                      s.stormCount,
		"rain_storm_start_at":             s.stormStartAt,
		"solar_rad":                       int(600 * math.Max(0, math.Sin((hour-6)*math.Pi/14))),
		"uv_index":                        round1(6 * math.Max(0, math.Sin((hour-6)*math.Pi/14))),
		"trans_battery_flag":              0,
	}

	leafSoil := map[string]any{
		"lsid":                460,
		"data_structure_type": 2,
		"txid":                2,
		"temp_1":              round1(58 + rand.Float64()),
		"temp_2":              round1(57 + rand.Float64()),
		"moist_soil_1":        round1(12 + rand.Float64()*2),
		"moist_soil_2":        round1(14 + rand.Float64()*2),
		"wet_leaf_1":          round1(5 + rand.Float64()*3),
	}

	bar := map[string]any{
		"lsid":                461,
		"data_structure_type": 3,
		"bar_sea_level":       round3(29.92 + 0.05*math.Sin(hour*math.Pi/12)),
		"bar_absolute":        round3(29.05 + 0.05*math.Sin(hour*math.Pi/12)),
		"bar_trend":           round3(0.01),
	}

	inside := map[string]any{
		"lsid":                462,
		"data_structure_type": 4,
		"temp_in":             round1(71 + rand.Float64()),
		"hum_in":              round1(40 + rand.Float64()*2),
		"dew_point_in":        round1(46 + rand.Float64()),
	}

	return map[string]any{
		"data": map[string]any{
			"did":        "001D0A700002",
			"ts":         now.Unix(),
			"conditions": []any{iss, leafSoil, bar, inside},
		},
		"error": nil,
	}
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
