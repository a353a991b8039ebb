package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/five82/skypane/internal/airquality"
	"github.com/five82/skypane/internal/fetch"
	"github.com/five82/skypane/internal/geocode"
	"github.com/five82/skypane/internal/state"
	"github.com/five82/skypane/internal/weather"
)

func TestWriteSnapshot(t *testing.T) {
	now := time.Date(2025, 1, 10, 13, 0, 0, 0, time.Local)
	store := state.NewStore(geocode.Resolution{Location: geocode.DefaultLocation, Outcome: geocode.Fallback}, now, false)
	store.WeatherSucceeded(weather.Observation{Temperature: 3.2, Unit: weather.Celsius, WeatherCode: 2, Description: "Partly cloudy", Icon: "⛅"}, now)
	store.AirQualitySucceeded(airquality.Observation{Index: 42, Rating: airquality.Good, StationDistanceKm: 1.24}, now)

	var buf bytes.Buffer
	if err := writeSnapshot(&buf, store.Snapshot()); err != nil {
		t.Fatalf("writeSnapshot: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Berlin, Germany (fallback)",
		"3°C ⛅ Partly cloudy",
		"42 Good (station 1.2 km)",
		"Open the windows, go out!",
		"day, Good afternoon",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteSnapshot_Unavailable(t *testing.T) {
	now := time.Date(2025, 1, 10, 23, 0, 0, 0, time.Local)
	store := state.NewStore(geocode.Resolution{Location: geocode.DefaultLocation}, now, false)
	store.WeatherFailed(fetch.Errorf("weather", fetch.KindProtocol, "api weather returned status 503"), now)
	store.AirQualityFailed(fetch.Errorf("airquality", fetch.KindConfig, "no key"), now)

	var buf bytes.Buffer
	if err := writeSnapshot(&buf, store.Snapshot()); err != nil {
		t.Fatalf("writeSnapshot: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Weather:      unavailable (") || !strings.Contains(out, "status 503") {
		t.Fatalf("weather failure not reported:\n%s", out)
	}
	if !strings.Contains(out, state.AirQualityDisabledMessage) {
		t.Fatalf("disabled message missing:\n%s", out)
	}
}

func TestRootCmd_Flags(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"config", "log-file", "debug"} {
		if cmd.PersistentFlags().Lookup(name) == nil {
			t.Fatalf("missing --%s flag", name)
		}
	}
	snap, _, err := cmd.Find([]string{"snapshot"})
	if err != nil || snap.Flags().Lookup("json") == nil {
		t.Fatalf("snapshot --json not registered: %v", err)
	}
}
