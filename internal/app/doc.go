// Package app provides the orchestration layer for skypane.
//
// # Overview
//
// This package wires together configuration, location resolution, the
// upstream clients, state management and the UI. It is the composition root
// where all dependencies are initialized and connected.
//
// # Startup
//
//  1. Load config (TOML, .env, environment) and apply command-line overrides
//  2. Load saved preferences; the debug toggle there beats the config value
//  3. Open the JSON log file
//  4. Resolve the location once: configured coordinates, else geocode the
//     configured city, else fall back to Berlin
//  5. Build the weather and air-quality clients and the shared state.Store
//  6. Start the Scheduler and, when HTTP_ADDR is set, the status server
//  7. Run the TUI until the user quits
//
// # Components
//
//   - app.go: Run, Snapshot and the shared build step
//   - scheduler.go: the single control loop driving every refresh band
//
// # Refresh Bands
//
//	┌────────────┬──────────────────────────┬───────────────────────────┐
//	│ Band       │ Due                      │ Work                      │
//	├────────────┼──────────────────────────┼───────────────────────────┤
//	│ clock      │ every CLOCK_INTERVAL     │ store.Tick (no network)   │
//	│ weather    │ every WEATHER_INTERVAL   │ WeatherFetcher            │
//	│ airquality │ next AIR_QUALITY_SCHEDULE│ AirQualityFetcher         │
//	└────────────┴──────────────────────────┴───────────────────────────┘
//
// Every band is due on the first step. A due network band starts its fetch in
// a goroutine bounded by FETCH_TIMEOUT; if the previous fetch for that band
// is still running the trigger is dropped, logged at DEBUG and counted in
// skypane_fetch_skipped_total. There are no retries between due times.
//
// Each attempt writes one log line carrying source and outcome: INFO on
// success, WARN on failure, INFO when air quality is disabled for lack of an
// API key.
//
// # Snapshot Mode
//
// Snapshot runs the same build step, triggers each network band once with
// RefreshOnce and returns the store contents. `skypane snapshot` uses it.
package app
