package gradient

import "github.com/lucasb-eyer/go-colorful"

// Band is a named part of the day.
type Band int

const (
	Night Band = iota
	Dawn
	Day
	Dusk
)

func (b Band) String() string {
	switch b {
	case Dawn:
		return "dawn"
	case Day:
		return "day"
	case Dusk:
		return "dusk"
	default:
		return "night"
	}
}

// MarshalText renders the band by name.
func (b Band) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// BandFor returns the band containing hour.
func BandFor(hour int) Band {
	switch h := normalizeHour(hour); {
	case h >= 5 && h <= 8:
		return Dawn
	case h >= 9 && h <= 16:
		return Day
	case h >= 17 && h <= 21:
		return Dusk
	default:
		return Night
	}
}

type anchor struct {
	hour   int
	top    string
	bottom string
}

const (
	nightTop    = "#0b1026"
	nightBottom = "#2b3a67"
)

// anchors pin the base gradient at fixed hours; hours in between are
// interpolated. Color gaps divided by the hour span stay under MaxStepDelta.
var anchors = []anchor{
	{0, nightTop, nightBottom},
	{4, nightTop, nightBottom},
	{7, "#3e4a89", "#a8707f"},  // dawn
	{10, "#4a90d9", "#a7d3f2"}, // day
	{16, "#4a90d9", "#a7d3f2"},
	{19, "#3b3f7a", "#d0806a"}, // dusk
	{23, nightTop, nightBottom},
	{24, nightTop, nightBottom},
}

func baseColors(hour int) (top, bottom colorful.Color) {
	for i := 1; i < len(anchors); i++ {
		a, b := anchors[i-1], anchors[i]
		if hour > b.hour {
			continue
		}
		t := float64(hour-a.hour) / float64(b.hour-a.hour)
		return blend(parse(a.top), parse(b.top), t), blend(parse(a.bottom), parse(b.bottom), t)
	}
	last := anchors[len(anchors)-1]
	return parse(last.top), parse(last.bottom)
}
