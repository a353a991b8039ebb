package ui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/skypane/internal/airquality"
	"github.com/five82/skypane/internal/fetch"
	"github.com/five82/skypane/internal/geocode"
	"github.com/five82/skypane/internal/logtail"
	"github.com/five82/skypane/internal/prefs"
	"github.com/five82/skypane/internal/state"
	"github.com/five82/skypane/internal/weather"
)

var t0 = time.Date(2025, 1, 10, 13, 15, 0, 0, time.Local)

func newTestModel(t *testing.T, store *state.Store) Model {
	t.Helper()
	m := New(Options{
		Store:     store,
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
	})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	return updated.(Model)
}

func newTestStore() *state.Store {
	return state.NewStore(geocode.Resolution{Location: geocode.DefaultLocation, Outcome: geocode.Fallback}, t0, false)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestFormatClock(t *testing.T) {
	at := time.Date(2025, 1, 10, 13, 5, 9, 0, time.Local)
	if got := formatClock(at, false); got != "Jan 10, 01:05 PM" {
		t.Fatalf("formatClock = %q", got)
	}
	if got := formatClock(at, true); got != "Jan 10, 01:05:09 PM" {
		t.Fatalf("formatClock with seconds = %q", got)
	}
}

func TestFormatTemperature(t *testing.T) {
	tests := []struct {
		temp float64
		unit weather.Unit
		want string
	}{
		{3.2, weather.Celsius, "3°C"},
		{3.5, weather.Celsius, "4°C"},
		{-0.4, weather.Celsius, "0°C"},
		{-2.6, weather.Celsius, "-3°C"},
		{71.9, weather.Fahrenheit, "72°F"},
	}
	for _, tt := range tests {
		obs := &weather.Observation{Temperature: tt.temp, Unit: tt.unit}
		if got := formatTemperature(obs); got != tt.want {
			t.Fatalf("formatTemperature(%v) = %q, want %q", tt.temp, got, tt.want)
		}
	}
	if got := formatTemperature(nil); got != "--°" {
		t.Fatalf("formatTemperature(nil) = %q", got)
	}
}

func TestAirQualityLine(t *testing.T) {
	snap := state.Snapshot{AirQuality: &airquality.Observation{Index: 41.6, Rating: airquality.Good, StationDistanceKm: 1.24}}
	if got := airQualityLine(snap); got != "Air quality 42 · Good · Open the windows, go out! · 1.2 km" {
		t.Fatalf("airQualityLine = %q", got)
	}
	disabled := state.Snapshot{AirQualityStatus: state.SourceStatus{Phase: state.PhaseDisabled}}
	if got := airQualityLine(disabled); got != state.AirQualityDisabledMessage {
		t.Fatalf("airQualityLine disabled = %q", got)
	}
}

func TestRangeLine(t *testing.T) {
	hi, lo := 5.4, -1.2
	if got := rangeLine(&weather.Observation{TodayMax: &hi, TodayMin: &lo}); got != "H 5°  L -1°" {
		t.Fatalf("rangeLine = %q", got)
	}
	if got := rangeLine(&weather.Observation{TodayMax: &hi}); got != "" {
		t.Fatalf("rangeLine with missing low = %q, want empty", got)
	}
}

func TestView_ShowsCurrentState(t *testing.T) {
	store := newTestStore()
	store.WeatherSucceeded(weather.Observation{Temperature: 3.2, Unit: weather.Celsius, WeatherCode: 2, Description: "Partly cloudy", Icon: "⛅"}, t0)
	store.AirQualityFailed(fetch.Errorf("airquality", fetch.KindConfig, "no key"), t0)

	m := newTestModel(t, store)
	view := m.View()

	for _, want := range []string{
		"Berlin, Germany",
		"3°C",
		"Partly cloudy",
		state.AirQualityDisabledMessage,
		"Jan 10, 01:15 PM",
		"Good afternoon",
	} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
	if got := strings.Count(view, "\n") + 1; got != 30 {
		t.Fatalf("view has %d rows, want 30", got)
	}
}

func TestView_StaleWeatherIsMarked(t *testing.T) {
	store := newTestStore()
	store.WeatherSucceeded(weather.Observation{Temperature: 3.2, WeatherCode: 2, Description: "Partly cloudy"}, t0)
	store.WeatherFailed(fetch.Errorf("weather", fetch.KindNetwork, "timeout"), t0.Add(10*time.Minute))

	view := newTestModel(t, store).View()
	if !strings.Contains(view, "3°C") {
		t.Fatalf("stale temperature not shown:\n%s", view)
	}
	if !strings.Contains(view, "stale since 01:15 PM") {
		t.Fatalf("stale marker missing:\n%s", view)
	}
}

func TestView_LoadingBeforeResize(t *testing.T) {
	m := New(Options{Store: newTestStore()})
	if got := m.View(); got != "Loading..." {
		t.Fatalf("View before resize = %q", got)
	}
}

func TestUpdate_QuitKeys(t *testing.T) {
	m := newTestModel(t, newTestStore())
	for _, msg := range []tea.KeyMsg{runes("q"), {Type: tea.KeyCtrlC}} {
		_, cmd := m.Update(msg)
		if cmd == nil {
			t.Fatalf("%s: no command returned", msg)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Fatalf("%s: command did not quit", msg)
		}
	}
}

func TestUpdate_DebugTogglePersists(t *testing.T) {
	store := newTestStore()
	m := newTestModel(t, store)

	updated, cmd := m.Update(runes("d"))
	m = updated.(Model)
	if cmd == nil {
		t.Fatalf("debug toggle returned no command")
	}
	if !store.Snapshot().Debug {
		t.Fatalf("store debug flag not set")
	}

	saved, err := prefs.Load(m.prefsPath)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if !saved.DebugOr(false) {
		t.Fatalf("debug preference not saved")
	}

	updated, _ = m.Update(snapshotMsg(store.Snapshot()))
	m = updated.(Model)
	updated, _ = m.Update(logsMsg{entries: []logtail.Entry{{Level: "WARN", Message: "fetch failed", Source: "weather"}}, at: t0})
	m = updated.(Model)

	view := m.View()
	for _, want := range []string{"location", "weather", "airquality", "fetch failed source=weather"} {
		if !strings.Contains(view, want) {
			t.Fatalf("debug overlay missing %q:\n%s", want, view)
		}
	}

	updated, _ = m.Update(runes("d"))
	m = updated.(Model)
	if store.Snapshot().Debug {
		t.Fatalf("second toggle left debug on")
	}
	if saved, _ := prefs.Load(m.prefsPath); saved.DebugOr(true) {
		t.Fatalf("second toggle not saved")
	}
}

func TestUpdate_HelpOverlay(t *testing.T) {
	m := newTestModel(t, newTestStore())

	updated, _ := m.Update(runes("?"))
	m = updated.(Model)
	if !m.showHelp || !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatalf("help overlay not shown")
	}

	updated, _ = m.Update(runes("x"))
	m = updated.(Model)
	if m.showHelp {
		t.Fatalf("any key should close help")
	}
}

func TestUpdate_SnapshotMsgTracksVersion(t *testing.T) {
	store := newTestStore()
	m := newTestModel(t, store)

	store.Tick(t0.Add(time.Minute))
	if store.Version() == m.version {
		t.Fatalf("store version did not move")
	}
	msg := fetchSnapshotCmd(store)()
	updated, _ := m.Update(msg)
	m = updated.(Model)
	if m.version != store.Version() {
		t.Fatalf("model version = %d, want %d", m.version, store.Version())
	}
	if !strings.Contains(m.View(), "Jan 10, 01:16 PM") {
		t.Fatalf("clock not advanced:\n%s", m.View())
	}
}

func TestTextColorFor(t *testing.T) {
	if got := textColorFor("#0b1026"); got != lightText {
		t.Fatalf("textColorFor(dark) = %q, want light", got)
	}
	if got := textColorFor("#fff1c1"); got != darkText {
		t.Fatalf("textColorFor(light) = %q, want dark", got)
	}
	if got := textColorFor("not a color"); got != lightText {
		t.Fatalf("textColorFor(invalid) = %q, want light", got)
	}
}
