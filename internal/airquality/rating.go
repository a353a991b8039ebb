package airquality

import "math"

// Rating is the coarse air-quality bucket shown on screen.
type Rating int

const (
	Unknown Rating = iota
	Good
	Moderate
	Fair
	Poor
)

func (r Rating) String() string {
	switch r {
	case Good:
		return "Good"
	case Moderate:
		return "Moderate"
	case Fair:
		return "Fair"
	case Poor:
		return "Poor"
	default:
		return "Unknown"
	}
}

// MarshalText renders the rating by name.
func (r Rating) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// thresholds are inclusive upper bounds, ascending.
var thresholds = []struct {
	max    float64
	rating Rating
}{
	{50, Good},
	{100, Moderate},
	{150, Fair},
}

// ClampIndex clamps negative index values to zero.
func ClampIndex(index float64) float64 {
	if index < 0 {
		return 0
	}
	return index
}

// RatingFor maps a CAQI value to its Rating.
func RatingFor(index float64) Rating {
	if math.IsNaN(index) {
		return Unknown
	}
	index = ClampIndex(index)
	for _, th := range thresholds {
		if index <= th.max {
			return th.rating
		}
	}
	return Poor
}

// statusTexts are inclusive upper bounds on the truncated index, ascending.
var statusTexts = []struct {
	max  int
	text string
}{
	{33, "A-MAZE-BALLS"},
	{66, "Open the windows, go out!"},
	{99, "It's ok..."},
	{150, "Bad, but will survive"},
}

const hazardousText = "Hazardous, do not open the windows"

// StatusText returns the status phrase shown under the index. The index is
// clamped and truncated to a whole number first; NaN has no phrase.
func StatusText(index float64) string {
	if math.IsNaN(index) {
		return ""
	}
	whole := int(math.Trunc(ClampIndex(index)))
	for _, st := range statusTexts {
		if whole <= st.max {
			return st.text
		}
	}
	return hazardousText
}
