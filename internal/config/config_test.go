package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var envKeys = []string{
	"AIRLY_API_KEY", "LOCATION_CITY", "LOCATION_COUNTRY", "LATITUDE", "LONGITUDE",
	"MAX_DISTANCE_KM", "DEBUG", "TEMPERATURE_UNIT", "SHOW_SECONDS", "CLOCK_INTERVAL",
	"WEATHER_INTERVAL", "AIR_QUALITY_SCHEDULE", "FETCH_TIMEOUT", "HTTP_ADDR", "LOG_FILE",
}

// clearEnv blanks every recognised key; blank values count as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingFilesFallBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	clearEnv(t)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"), filepath.Join(home, "missing.env"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LocationCity != "Berlin" || cfg.LocationCountry != "Germany" {
		t.Fatalf("location = %q/%q, want Berlin/Germany", cfg.LocationCity, cfg.LocationCountry)
	}
	if cfg.MaxDistanceKm != 5 || cfg.TemperatureUnit != "celsius" {
		t.Fatalf("MaxDistanceKm=%v TemperatureUnit=%q, want 5/celsius", cfg.MaxDistanceKm, cfg.TemperatureUnit)
	}
	if cfg.ClockInterval != time.Second || cfg.WeatherInterval != 10*time.Minute || cfg.FetchTimeout != 8*time.Second {
		t.Fatalf("intervals = %v/%v/%v", cfg.ClockInterval, cfg.WeatherInterval, cfg.FetchTimeout)
	}
	if cfg.AirQualitySchedule != defaultSchedule {
		t.Fatalf("AirQualitySchedule = %q, want %q", cfg.AirQualitySchedule, defaultSchedule)
	}
	if cfg.HasCoordinates() || cfg.AirlyAPIKey != "" || cfg.HTTPAddr != "" {
		t.Fatalf("unexpected optional values: %#v", cfg)
	}
	if want := filepath.Join(home, ".local/state/skypane/skypane.log"); cfg.LogFile != want {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, want)
	}
}

func TestLoad_FileThenEnvPrecedence(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	clearEnv(t)

	path := writeFile(t, "config.toml", `
location_city = "  Krakow  "
location_country = "Poland"
max_distance_km = 3.5
temperature_unit = "fahrenheit"
weather_interval = "15m"
log_file = "~/logs/skypane.log"
debug = true
`)
	envFile := writeFile(t, ".env", "LOCATION_CITY=Warsaw\nAIRLY_API_KEY=from-dotenv\nWEATHER_INTERVAL=20m\n")
	t.Setenv("WEATHER_INTERVAL", "30m")
	t.Setenv("SHOW_SECONDS", "true")

	cfg, err := Load(path, envFile)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LocationCity != "Warsaw" {
		t.Fatalf("LocationCity = %q, want dotenv value Warsaw", cfg.LocationCity)
	}
	if cfg.LocationCountry != "Poland" || cfg.MaxDistanceKm != 3.5 || cfg.TemperatureUnit != "fahrenheit" {
		t.Fatalf("file values not applied: %#v", cfg)
	}
	if cfg.AirlyAPIKey != "from-dotenv" {
		t.Fatalf("AirlyAPIKey = %q, want from-dotenv", cfg.AirlyAPIKey)
	}
	if cfg.WeatherInterval != 30*time.Minute {
		t.Fatalf("WeatherInterval = %v, want process env 30m", cfg.WeatherInterval)
	}
	if !cfg.Debug || !cfg.ShowSeconds {
		t.Fatalf("Debug=%v ShowSeconds=%v, want both true", cfg.Debug, cfg.ShowSeconds)
	}
	if !strings.HasPrefix(cfg.LogFile, home) {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}
}

func TestLoad_BlankProcessEnvFallsThroughToDotenv(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	clearEnv(t)
	t.Setenv("AIRLY_API_KEY", "   ")

	envFile := writeFile(t, ".env", "LOCATION_CITY=Warsaw\nAIRLY_API_KEY=real-key\nHTTP_ADDR=127.0.0.1:9090\n")

	cfg, err := Load(filepath.Join(home, "missing.toml"), envFile)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LocationCity != "Warsaw" {
		t.Fatalf("LocationCity = %q, want Warsaw", cfg.LocationCity)
	}
	if cfg.AirlyAPIKey != "real-key" {
		t.Fatalf("AirlyAPIKey = %q, want real-key", cfg.AirlyAPIKey)
	}
	if cfg.HTTPAddr != "127.0.0.1:9090" {
		t.Fatalf("HTTPAddr = %q, want 127.0.0.1:9090", cfg.HTTPAddr)
	}
}

func TestLoad_ConfiguredCoordinates(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnv(t)
	t.Setenv("LATITUDE", "50.06")
	t.Setenv("LONGITUDE", "19.94")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.toml"), "")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !cfg.HasCoordinates() || *cfg.Latitude != 50.06 || *cfg.Longitude != 19.94 {
		t.Fatalf("coordinates = %v/%v, want 50.06/19.94", cfg.Latitude, cfg.Longitude)
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"latitude out of range", map[string]string{"LATITUDE": "91", "LONGITUDE": "0"}, "Latitude"},
		{"latitude without longitude", map[string]string{"LATITUDE": "10"}, "set together"},
		{"unparseable latitude", map[string]string{"LATITUDE": "north"}, "invalid LATITUDE"},
		{"unknown unit", map[string]string{"TEMPERATURE_UNIT": "kelvin"}, "TemperatureUnit"},
		{"negative distance", map[string]string{"MAX_DISTANCE_KM": "-1"}, "MaxDistanceKm"},
		{"bad schedule", map[string]string{"AIR_QUALITY_SCHEDULE": "every morning"}, "AirQualitySchedule"},
		{"bad duration", map[string]string{"FETCH_TIMEOUT": "soon"}, "invalid FETCH_TIMEOUT"},
		{"zero interval", map[string]string{"CLOCK_INTERVAL": "0s"}, "ClockInterval"},
		{"bad bool", map[string]string{"DEBUG": "sometimes"}, "invalid DEBUG"},
		{"bad http addr", map[string]string{"HTTP_ADDR": "localhost"}, "HTTPAddr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HOME", t.TempDir())
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(filepath.Join(t.TempDir(), "none.toml"), "")
			if err == nil {
				t.Fatalf("Load returned nil error, want %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Load error = %q, want it to mention %q", err.Error(), tt.want)
			}
		})
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.toml", `location_city = [`)
	_, err := Load(path, "")
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestLoad_InvalidFileDurationFails(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.toml", `fetch_timeout = "eight seconds"`)
	if _, err := Load(path, ""); err == nil || !strings.Contains(err.Error(), "fetch_timeout") {
		t.Fatalf("Load error = %v, want fetch_timeout parse error", err)
	}
}

func TestParseSchedule_NextSlot(t *testing.T) {
	sched, err := ParseSchedule(defaultSchedule)
	if err != nil {
		t.Fatalf("ParseSchedule: %v", err)
	}
	tests := []struct {
		now  time.Time
		want time.Time
	}{
		{time.Date(2025, 1, 10, 5, 30, 0, 0, time.Local), time.Date(2025, 1, 10, 6, 0, 0, 0, time.Local)},
		{time.Date(2025, 1, 10, 6, 0, 0, 0, time.Local), time.Date(2025, 1, 10, 15, 0, 0, 0, time.Local)},
		{time.Date(2025, 1, 10, 20, 0, 1, 0, time.Local), time.Date(2025, 1, 11, 6, 0, 0, 0, time.Local)},
	}
	for _, tt := range tests {
		if got := sched.Next(tt.now); !got.Equal(tt.want) {
			t.Fatalf("Next(%v) = %v, want %v", tt.now, got, tt.want)
		}
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}
