// Package config loads skypane settings.
//
// # Resolution Order
//
// Load layers four sources, later ones winning:
//
//  1. Built-in defaults (Default)
//  2. The TOML file, ~/.config/skypane/config.toml unless a path is given
//  3. Dotenv files, ./.env unless others are given
//  4. The process environment
//
// Missing TOML or dotenv files are not errors; a file that exists but does not
// parse is. Blank values are treated as unset so an empty TOML string or
// environment variable never wipes a default.
//
// # Keys
//
//	TOML key               Environment             Default
//	airly_api_key          AIRLY_API_KEY           "" (air quality disabled)
//	location_city          LOCATION_CITY           Berlin
//	location_country       LOCATION_COUNTRY        Germany
//	latitude, longitude    LATITUDE, LONGITUDE     unset (geocode the city)
//	max_distance_km        MAX_DISTANCE_KM         5
//	debug                  DEBUG                   false
//	temperature_unit       TEMPERATURE_UNIT        celsius
//	show_seconds           SHOW_SECONDS            false
//	clock_interval         CLOCK_INTERVAL          1s
//	weather_interval       WEATHER_INTERVAL        10m
//	air_quality_schedule   AIR_QUALITY_SCHEDULE    0 6,15,20 * * *
//	fetch_timeout          FETCH_TIMEOUT           8s
//	http_addr              HTTP_ADDR               "" (status server off)
//	log_file               LOG_FILE                ~/.local/state/skypane/skypane.log
//
// # Validation
//
// The merged Config is checked with go-playground/validator: coordinate
// ranges, a positive station distance, a known temperature unit, positive
// durations and a parseable cron schedule. LATITUDE and LONGITUDE must be
// given together; when they are, geocoding is skipped.
package config
