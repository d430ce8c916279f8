// Package palette extracts a small dominant-color palette from screenshot
// PNGs for catalog display and filtering.
package palette

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"regexp"
	"sort"
	"strings"
)

const (
	colorCount = 5
	// sample every Nth pixel; exactness is not the point
	quality = 10
	// 4 bits per channel, 4096 buckets
	bucketBits = 4
)

var dataURLPrefix = regexp.MustCompile(`^data:image/\w+;base64,`)

// FromBase64 decodes a base64 PNG (a data: URL prefix is tolerated) and
// returns up to five dominant colors as lowercase hex strings. An empty or
// undecodable input yields an empty palette, not an error; palette
// extraction must never fail a screenshot save.
func FromBase64(encoded string) []string {
	normalized := strings.TrimSpace(dataURLPrefix.ReplaceAllString(strings.TrimSpace(encoded), ""))
	if normalized == "" {
		return nil
	}
	raw, err := base64.StdEncoding.DecodeString(normalized)
	if err != nil || len(raw) == 0 {
		return nil
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil
	}
	return FromImage(img)
}

// FromImage samples the image and quantizes the samples into a palette.
func FromImage(img image.Image) []string {
	samples := samplePixels(img)
	if len(samples) < 2 {
		return nil
	}
	return quantize(samples, colorCount)
}

type rgb struct{ r, g, b uint32 }

// samplePixels walks every quality-th pixel, skipping near-transparent ones.
// Near-white stays in so mostly-white pages still get a palette.
func samplePixels(img image.Image) []rgb {
	bounds := img.Bounds()
	width := bounds.Dx()
	if width == 0 {
		return nil
	}
	var samples []rgb
	total := width * bounds.Dy()
	for i := 0; i < total; i += quality {
		x := bounds.Min.X + i%width
		y := bounds.Min.Y + i/width
		r, g, b, a := img.At(x, y).RGBA()
		if a>>8 < 64 {
			continue
		}
		samples = append(samples, rgb{r >> 8, g >> 8, b >> 8})
	}
	return samples
}

// quantize buckets samples at bucketBits per channel and returns the average
// color of the most populated buckets, largest first.
func quantize(samples []rgb, maxColors int) []string {
	shift := uint(8 - bucketBits)
	type acc struct {
		n       int
		r, g, b uint64
	}
	buckets := make(map[uint32]*acc)
	for _, p := range samples {
		key := (p.r>>shift)<<16 | (p.g>>shift)<<8 | (p.b >> shift)
		a := buckets[key]
		if a == nil {
			a = &acc{}
			buckets[key] = a
		}
		a.n++
		a.r += uint64(p.r)
		a.g += uint64(p.g)
		a.b += uint64(p.b)
	}

	accs := make([]*acc, 0, len(buckets))
	for _, a := range buckets {
		accs = append(accs, a)
	}
	sort.Slice(accs, func(i, j int) bool { return accs[i].n > accs[j].n })
	if len(accs) > maxColors {
		accs = accs[:maxColors]
	}

	colors := make([]string, 0, len(accs))
	for _, a := range accs {
		n := uint64(a.n)
		colors = append(colors, fmt.Sprintf("#%02x%02x%02x",
			(a.r+n/2)/n, (a.g+n/2)/n, (a.b+n/2)/n))
	}
	return colors
}
