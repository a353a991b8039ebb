// Package state holds the display state shared between the refresh
// scheduler and the renderer.
//
// # Overview
//
// Store is the single place where fetched observations, the derived theme and
// per-source freshness meet. The scheduler is the only writer; the terminal UI
// and the status server read copies through Snapshot.
//
//	Writer (Scheduler):               Readers (UI, status server):
//	┌──────────────────────┐          ┌──────────────────────┐
//	│ Tick(now)            │          │                      │
//	│ BeginFetch(src)      │          │                      │
//	│ WeatherSucceeded()   │─────────→│ store.Snapshot()     │
//	│ AirQualityFailed()   │  (mutex) │      ↓               │
//	│ ...                  │          │ render / encode JSON │
//	└──────────────────────┘          └──────────────────────┘
//
// # Update Semantics
//
// Every mutation takes the write lock for the whole struct, so a reader sees
// either the state before an update or after it, never a mix.
//
//	// Success: observation replaced, error cleared
//	store.WeatherSucceeded(obs, now)
//	→ snapshot.Weather = obs
//	→ WeatherStatus.Phase = succeeded, LastError = "", LastSuccessAt = now
//
//	// Failure: observation and LastSuccessAt kept
//	store.WeatherFailed(err, now)
//	→ snapshot.Weather = <unchanged>
//	→ WeatherStatus.Phase = failed, LastError = err.Error()
//
// Air quality follows the same rules, except that a configuration error (no
// API key) moves the source to PhaseDisabled so the UI can tell "switched off"
// apart from "temporarily unavailable".
//
// A source never goes from "has data" back to "no data". Only a fresh process
// shows the "waiting for data" placeholder.
//
// # Theme
//
// The gradient and greeting are recomputed inside the store when the local
// hour changes (Tick) or when the weather code changes (WeatherSucceeded).
// Ticks that do not change the displayed minute (or second, with ShowSeconds)
// leave Version alone, so readers can skip redundant renders.
//
// # Defensive Copying
//
// Snapshot deep-copies observations and gradient stops. Callers may mutate
// the returned value freely.
package state
