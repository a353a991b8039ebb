package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
)

// Config is the resolved skypane configuration.
type Config struct {
	AirlyAPIKey     string
	LocationCity    string `validate:"required"`
	LocationCountry string
	Latitude        *float64 `validate:"omitempty,gte=-90,lte=90"`
	Longitude       *float64 `validate:"omitempty,gte=-180,lte=180"`
	MaxDistanceKm   float64  `validate:"gt=0"`
	Debug           bool
	TemperatureUnit string `validate:"oneof=celsius fahrenheit"`
	ShowSeconds     bool
	ClockInterval   time.Duration `validate:"gt=0"`
	WeatherInterval time.Duration `validate:"gt=0"`
	// AirQualitySchedule is a five-field cron expression in local time.
	AirQualitySchedule string        `validate:"required,cron"`
	FetchTimeout       time.Duration `validate:"gt=0"`
	HTTPAddr           string        `validate:"omitempty,hostname_port"`
	LogFile            string        `validate:"required"`
}

const (
	defaultConfigPath    = "~/.config/skypane/config.toml"
	defaultEnvFile       = ".env"
	defaultCity          = "Berlin"
	defaultCountry       = "Germany"
	defaultMaxDistanceKm = 5.0
	defaultUnit          = "celsius"
	defaultClock         = time.Second
	defaultWeather       = 10 * time.Minute
	defaultSchedule      = "0 6,15,20 * * *"
	defaultFetchTimeout  = 8 * time.Second
	defaultLogFile       = "~/.local/state/skypane/skypane.log"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LocationCity:       defaultCity,
		LocationCountry:    defaultCountry,
		MaxDistanceKm:      defaultMaxDistanceKm,
		TemperatureUnit:    defaultUnit,
		ClockInterval:      defaultClock,
		WeatherInterval:    defaultWeather,
		AirQualitySchedule: defaultSchedule,
		FetchTimeout:       defaultFetchTimeout,
		LogFile:            mustExpand(defaultLogFile),
	}
}

// HasCoordinates reports whether both LATITUDE and LONGITUDE were configured.
func (c Config) HasCoordinates() bool {
	return c.Latitude != nil && c.Longitude != nil
}

// Load builds the configuration from defaults, the TOML file at path, the
// dotenv files (".env" when none are given) and finally the process
// environment. A missing TOML or dotenv file is not an error.
func Load(path string, envFiles ...string) (Config, error) {
	cfg := Default()

	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}
	if err := applyFile(&cfg, resolved); err != nil {
		return Config{}, err
	}

	if len(envFiles) == 0 {
		envFiles = []string{defaultEnvFile}
	}
	dotenv, err := readEnvFiles(envFiles)
	if err != nil {
		return Config{}, err
	}
	if err := applyEnv(&cfg, lookupFunc(dotenv)); err != nil {
		return Config{}, err
	}

	cfg.LogFile = mustExpand(cfg.LogFile)
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

type fileConfig struct {
	AirlyAPIKey        *string  `toml:"airly_api_key"`
	LocationCity       *string  `toml:"location_city"`
	LocationCountry    *string  `toml:"location_country"`
	Latitude           *float64 `toml:"latitude"`
	Longitude          *float64 `toml:"longitude"`
	MaxDistanceKm      *float64 `toml:"max_distance_km"`
	Debug              *bool    `toml:"debug"`
	TemperatureUnit    *string  `toml:"temperature_unit"`
	ShowSeconds        *bool    `toml:"show_seconds"`
	ClockInterval      *string  `toml:"clock_interval"`
	WeatherInterval    *string  `toml:"weather_interval"`
	AirQualitySchedule *string  `toml:"air_quality_schedule"`
	FetchTimeout       *string  `toml:"fetch_timeout"`
	HTTPAddr           *string  `toml:"http_addr"`
	LogFile            *string  `toml:"log_file"`
}

func applyFile(cfg *Config, path string) error {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var raw fileConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	setString(&cfg.AirlyAPIKey, raw.AirlyAPIKey)
	setString(&cfg.LocationCity, raw.LocationCity)
	setString(&cfg.LocationCountry, raw.LocationCountry)
	setString(&cfg.TemperatureUnit, raw.TemperatureUnit)
	setString(&cfg.AirQualitySchedule, raw.AirQualitySchedule)
	setString(&cfg.HTTPAddr, raw.HTTPAddr)
	setString(&cfg.LogFile, raw.LogFile)
	if raw.Latitude != nil {
		v := *raw.Latitude
		cfg.Latitude = &v
	}
	if raw.Longitude != nil {
		v := *raw.Longitude
		cfg.Longitude = &v
	}
	if raw.MaxDistanceKm != nil {
		cfg.MaxDistanceKm = *raw.MaxDistanceKm
	}
	if raw.Debug != nil {
		cfg.Debug = *raw.Debug
	}
	if raw.ShowSeconds != nil {
		cfg.ShowSeconds = *raw.ShowSeconds
	}

	durations := []struct {
		key string
		raw *string
		dst *time.Duration
	}{
		{"clock_interval", raw.ClockInterval, &cfg.ClockInterval},
		{"weather_interval", raw.WeatherInterval, &cfg.WeatherInterval},
		{"fetch_timeout", raw.FetchTimeout, &cfg.FetchTimeout},
	}
	for _, d := range durations {
		if d.raw == nil || strings.TrimSpace(*d.raw) == "" {
			continue
		}
		parsed, err := time.ParseDuration(strings.TrimSpace(*d.raw))
		if err != nil {
			return fmt.Errorf("parse config: invalid %s: %w", d.key, err)
		}
		*d.dst = parsed
	}
	return nil
}

// setString keeps the default when the file value is missing or blank.
func setString(dst *string, src *string) {
	if src == nil {
		return
	}
	if v := strings.TrimSpace(*src); v != "" {
		*dst = v
	}
}

func readEnvFiles(paths []string) (map[string]string, error) {
	merged := map[string]string{}
	for _, path := range paths {
		if strings.TrimSpace(path) == "" {
			continue
		}
		values, err := godotenv.Read(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("read env file %s: %w", path, err)
		}
		// Earlier files win, matching godotenv.Load.
		for k, v := range values {
			if _, ok := merged[k]; !ok {
				merged[k] = v
			}
		}
	}
	return merged, nil
}

// lookupFunc prefers the process environment over dotenv values. A blank
// process value counts as unset and falls through to dotenv.
func lookupFunc(dotenv map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		if !ok {
			return "", false
		}
		v = strings.TrimSpace(v)
		return v, v != ""
	}

	if v, ok := get("AIRLY_API_KEY"); ok {
		cfg.AirlyAPIKey = v
	}
	if v, ok := get("LOCATION_CITY"); ok {
		cfg.LocationCity = v
	}
	if v, ok := get("LOCATION_COUNTRY"); ok {
		cfg.LocationCountry = v
	}
	if v, ok := get("TEMPERATURE_UNIT"); ok {
		cfg.TemperatureUnit = strings.ToLower(v)
	}
	if v, ok := get("AIR_QUALITY_SCHEDULE"); ok {
		cfg.AirQualitySchedule = v
	}
	if v, ok := get("HTTP_ADDR"); ok {
		cfg.HTTPAddr = v
	}
	if v, ok := get("LOG_FILE"); ok {
		cfg.LogFile = v
	}

	floats := []struct {
		key string
		dst **float64
	}{
		{"LATITUDE", &cfg.Latitude},
		{"LONGITUDE", &cfg.Longitude},
	}
	for _, f := range floats {
		v, ok := get(f.key)
		if !ok {
			continue
		}
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", f.key, err)
		}
		*f.dst = &parsed
	}
	if v, ok := get("MAX_DISTANCE_KM"); ok {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid MAX_DISTANCE_KM: %w", err)
		}
		cfg.MaxDistanceKm = parsed
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{"DEBUG", &cfg.Debug},
		{"SHOW_SECONDS", &cfg.ShowSeconds},
	}
	for _, b := range bools {
		v, ok := get(b.key)
		if !ok {
			continue
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", b.key, err)
		}
		*b.dst = parsed
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"CLOCK_INTERVAL", &cfg.ClockInterval},
		{"WEATHER_INTERVAL", &cfg.WeatherInterval},
		{"FETCH_TIMEOUT", &cfg.FetchTimeout},
	}
	for _, d := range durations {
		v, ok := get(d.key)
		if !ok {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", d.key, err)
		}
		*d.dst = parsed
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("cron", func(fl validator.FieldLevel) bool {
		_, err := ParseSchedule(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate checks field ranges and cross-field rules.
func Validate(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if (cfg.Latitude == nil) != (cfg.Longitude == nil) {
		return fmt.Errorf("invalid config: LATITUDE and LONGITUDE must be set together")
	}
	return nil
}

// ParseSchedule parses a standard five-field cron expression.
func ParseSchedule(expr string) (cron.Schedule, error) {
	sched, err := cron.ParseStandard(strings.TrimSpace(expr))
	if err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", expr, err)
	}
	return sched, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
