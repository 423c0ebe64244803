package ansihtml

import (
	"github.com/lucasb-eyer/go-colorful"
)

// Palette holds the 16 base colours as CSS hex strings: indices 0-7 are the
// standard colours (SGR 30-37), 8-15 the bright ones (SGR 90-97).
type Palette [16]string

// DefaultPalette matches the ansi2html default scheme used by notebook tooling.
var DefaultPalette = Palette{
	"#000316", "#aa0000", "#00aa00", "#aa5500",
	"#0000aa", "#e850a8", "#00aaaa", "#f5f1de",
	"#7f7f7f", "#ff0000", "#00ff00", "#ffff00",
	"#5c5cff", "#ff00ff", "#00ffff", "#ffffff",
}

// cubeLevels are the channel intensities of the xterm 6x6x6 colour cube.
var cubeLevels = [6]int{0, 95, 135, 175, 215, 255}

// color256 resolves an xterm 256-colour index to a CSS hex colour.
// Out-of-range indices return "" and leave the current colour untouched.
func (p *Palette) color256(n int) string {
	switch {
	case n < 0 || n > 255:
		return ""
	case n < 16:
		return p[n]
	case n < 232:
		n -= 16
		return rgbHex(cubeLevels[n/36], cubeLevels[(n/6)%6], cubeLevels[n%6])
	default:
		level := 8 + (n-232)*10
		return rgbHex(level, level, level)
	}
}

// rgbHex formats 8-bit channels, clamped to [0, 255], as "#rrggbb".
func rgbHex(r, g, b int) string {
	c := colorful.Color{
		R: float64(clampByte(r)) / 255,
		G: float64(clampByte(g)) / 255,
		B: float64(clampByte(b)) / 255,
	}
	return c.Hex()
}

func clampByte(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
