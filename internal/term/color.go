package term

import "fmt"

// Color represents a color value. The zero value is not meaningful;
// use ColorDefault for the terminal's own default.
type Color struct {
	R, G, B uint8
	// Default indicates this is the terminal's default color.
	Default bool
}

// ColorDefault represents the terminal's default color.
var ColorDefault = Color{Default: true}

// Common colors.
var (
	ColorBlack   = Color{R: 0, G: 0, B: 0}
	ColorWhite   = Color{R: 240, G: 240, B: 240}
	ColorRed     = Color{R: 204, G: 76, B: 76}
	ColorGreen   = Color{R: 87, G: 166, B: 78}
	ColorBlue    = Color{R: 51, G: 102, B: 204}
	ColorYellow  = Color{R: 222, G: 222, B: 108}
	ColorCyan    = Color{R: 76, G: 153, B: 178}
	ColorMagenta = Color{R: 178, G: 102, B: 229}
	ColorOrange  = Color{R: 242, G: 178, B: 51}
	ColorGray    = Color{R: 128, G: 128, B: 128}
	ColorPink    = Color{R: 242, G: 178, B: 204}
	ColorLime    = Color{R: 127, G: 204, B: 25}
	ColorBrown   = Color{R: 127, G: 102, B: 76}
	ColorPurple  = Color{R: 127, G: 87, B: 166}
)

// namedColors maps markup color names to colors.
var namedColors = map[string]Color{
	"black":     ColorBlack,
	"white":     ColorWhite,
	"red":       ColorRed,
	"green":     ColorGreen,
	"blue":      ColorBlue,
	"yellow":    ColorYellow,
	"cyan":      ColorCyan,
	"magenta":   ColorMagenta,
	"orange":    ColorOrange,
	"gray":      ColorGray,
	"grey":      ColorGray,
	"lightgray": {R: 178, G: 178, B: 178},
	"lightgrey": {R: 178, G: 178, B: 178},
	"pink":      ColorPink,
	"lime":      ColorLime,
	"brown":     ColorBrown,
	"purple":    ColorPurple,
	"default":   ColorDefault,
}

// ColorByName resolves a markup color name. Unknown names fall back to
// the default color; markup content never produces an error here.
func ColorByName(name string) Color {
	if c, ok := namedColors[name]; ok {
		return c
	}
	return ColorDefault
}

// IsDefault returns true if this is the default color.
func (c Color) IsDefault() bool {
	return c.Default
}

// Equals returns true if two colors are equal.
func (c Color) Equals(other Color) bool {
	if c.Default != other.Default {
		return false
	}
	if c.Default {
		return true
	}
	return c.R == other.R && c.G == other.G && c.B == other.B
}

// String returns a string representation of the color.
func (c Color) String() string {
	if c.Default {
		return "default"
	}
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}
