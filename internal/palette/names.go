package palette

import (
	"math"
	"strconv"
	"strings"
)

// ColorNames are the broad buckets used for catalog filtering.
var ColorNames = []string{
	"Red", "Orange", "Yellow", "Green", "Cyan", "Blue",
	"Purple", "Pink", "White", "Gray", "Black",
}

// ColorName maps a hex color to a broad name; different shades of the same
// hue collapse into one bucket. Unparseable input maps to Gray.
func ColorName(hex string) string {
	r, g, b, ok := parseHex(hex)
	if !ok {
		return "Gray"
	}
	h, s, l := rgbToHSL(r, g, b)

	switch {
	case l >= 0.92:
		return "White"
	case l <= 0.12:
		return "Black"
	case s <= 0.08:
		return "Gray"
	}

	switch {
	case h < 15 || h >= 345:
		return "Red"
	case h < 45:
		return "Orange"
	case h < 75:
		return "Yellow"
	case h < 165:
		return "Green"
	case h < 195:
		return "Cyan"
	case h < 255:
		return "Blue"
	case h < 285:
		return "Purple"
	case h < 345:
		return "Pink"
	}
	return "Gray"
}

func parseHex(hex string) (r, g, b uint8, ok bool) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(s) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), true
}

func rgbToHSL(r, g, b uint8) (h, s, l float64) {
	fr, fg, fb := float64(r)/255, float64(g)/255, float64(b)/255
	max := math.Max(fr, math.Max(fg, fb))
	min := math.Min(fr, math.Min(fg, fb))
	l = (max + min) / 2
	if max == min {
		return 0, 0, l
	}
	d := max - min
	if l > 0.5 {
		s = d / (2 - max - min)
	} else {
		s = d / (max + min)
	}
	switch max {
	case fr:
		h = (fg - fb) / d
		if fg < fb {
			h += 6
		}
	case fg:
		h = (fb-fr)/d + 2
	default:
		h = (fr-fg)/d + 4
	}
	return h * 60, s, l
}
