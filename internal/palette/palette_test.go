package palette

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, img image.Image) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestFromBase64_SolidColor(t *testing.T) {
	encoded := encodePNG(t, solidImage(40, 40, color.RGBA{R: 0x20, G: 0x40, B: 0x80, A: 0xff}))
	colors := FromBase64(encoded)
	require.Len(t, colors, 1)
	assert.Equal(t, "#204080", colors[0])
}

func TestFromBase64_DominantFirst(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			// top three quarters red, bottom quarter green
			if y < 30 {
				img.SetRGBA(x, y, color.RGBA{R: 0xff, A: 0xff})
			} else {
				img.SetRGBA(x, y, color.RGBA{G: 0xff, A: 0xff})
			}
		}
	}
	colors := FromBase64(encodePNG(t, img))
	require.Len(t, colors, 2)
	assert.Equal(t, "#ff0000", colors[0])
	assert.Equal(t, "#00ff00", colors[1])
}

func TestFromBase64_CapsAtFive(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 80, 80))
	palette := []color.RGBA{
		{R: 0xff, A: 0xff}, {G: 0xff, A: 0xff}, {B: 0xff, A: 0xff},
		{R: 0xff, G: 0xff, A: 0xff}, {R: 0xff, B: 0xff, A: 0xff},
		{G: 0xff, B: 0xff, A: 0xff}, {R: 0x80, G: 0x80, B: 0x80, A: 0xff},
	}
	for y := 0; y < 80; y++ {
		for x := 0; x < 80; x++ {
			img.SetRGBA(x, y, palette[(y*80+x)%len(palette)])
		}
	}
	colors := FromBase64(encodePNG(t, img))
	assert.Len(t, colors, 5)
}

func TestFromBase64_SkipsTransparent(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			if x < 20 {
				img.SetRGBA(x, y, color.RGBA{R: 0xff, A: 0x10})
			} else {
				img.SetRGBA(x, y, color.RGBA{B: 0xff, A: 0xff})
			}
		}
	}
	colors := FromBase64(encodePNG(t, img))
	require.NotEmpty(t, colors)
	for _, c := range colors {
		assert.NotEqual(t, "#ff0000", c, "transparent pixels must not contribute")
	}
}

func TestFromBase64_DataURLPrefix(t *testing.T) {
	encoded := encodePNG(t, solidImage(40, 40, color.RGBA{R: 0x11, G: 0x22, B: 0x33, A: 0xff}))
	colors := FromBase64("data:image/png;base64," + encoded)
	require.Len(t, colors, 1)
	assert.Equal(t, "#112233", colors[0])
}

func TestFromBase64_GarbageInputs(t *testing.T) {
	assert.Empty(t, FromBase64(""))
	assert.Empty(t, FromBase64("   "))
	assert.Empty(t, FromBase64("!!!not-base64!!!"))
	assert.Empty(t, FromBase64(base64.StdEncoding.EncodeToString([]byte("not a png"))))
}

func TestColorName(t *testing.T) {
	cases := map[string]string{
		"#ff0000": "Red",
		"#ff8800": "Orange",
		"#ffee00": "Yellow",
		"#00cc00": "Green",
		"#00cccc": "Cyan",
		"#2244cc": "Blue",
		"#8822cc": "Purple",
		"#ee44aa": "Pink",
		"#fafafa": "White",
		"#0a0a0a": "Black",
		"#808080": "Gray",
		"nope":    "Gray",
	}
	for hex, want := range cases {
		assert.Equal(t, want, ColorName(hex), hex)
	}
}
