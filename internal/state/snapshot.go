package state

import "time"

// Air-quality messages shown when no fresh value is available.
const (
	AirQualityDisabledMessage    = "Air quality disabled (no API key)"
	AirQualityUnavailableMessage = "Air quality temporarily unavailable"
	NoDataYetMessage             = "Waiting for data…"
)

// Status returns the status of src.
func (s Snapshot) Status(src Source) SourceStatus {
	if src == SourceAirQuality {
		return s.AirQualityStatus
	}
	return s.WeatherStatus
}

// HasData reports whether src has ever produced an observation.
func (s Snapshot) HasData(src Source) bool {
	if src == SourceAirQuality {
		return s.AirQuality != nil
	}
	return s.Weather != nil
}

// IsStale reports whether src has data whose last success is older than
// maxAge, or whose latest refresh failed.
func (s Snapshot) IsStale(src Source, maxAge time.Duration) bool {
	if !s.HasData(src) {
		return false
	}
	st := s.Status(src)
	if st.Phase == PhaseFailed {
		return true
	}
	if maxAge <= 0 || st.LastSuccessAt.IsZero() {
		return false
	}
	return s.Now.Sub(st.LastSuccessAt) > maxAge
}

// AirQualityMessage explains why no air-quality value is shown. It returns
// "" when an observation is available.
func (s Snapshot) AirQualityMessage() string {
	switch {
	case s.AirQualityStatus.Phase == PhaseDisabled:
		return AirQualityDisabledMessage
	case s.AirQuality != nil:
		return ""
	case s.AirQualityStatus.Phase == PhaseFailed:
		return AirQualityUnavailableMessage
	default:
		return NoDataYetMessage
	}
}
