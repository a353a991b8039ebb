// Package ui renders skypane's full-screen display with Bubble Tea.
//
// # Layout
//
// The whole terminal is painted with the current theme gradient, sampled once
// per row, and the content is centered over it:
//
//	Good afternoon
//	📍 Berlin, Germany
//
//	3°C
//	⛅  Partly cloudy
//	H 5°  L -1°
//
//	Air quality 42 · Good · 1.2 km
//
//	Jan 10, 01:15 PM
//
// Text color flips between light and dark per row so it stays readable on
// both night and day gradients. Values kept from an earlier successful fetch
// after a failed refresh get a "stale since" note underneath.
//
// # Refresh
//
// The model never blocks on the network. A short tick compares the store's
// Version with the last rendered one and pulls a new snapshot only when it
// moved.
//
// # Keys
//
//   - d: toggle the debug overlay (source phases, last errors and the tail of
//     the JSON log). The choice is saved to prefs.toml and also switches the
//     log level between INFO and DEBUG.
//   - ?: help
//   - q, ctrl+c: quit
package ui
