package core

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Predefined colors for tiles and sprites.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)

var colorNames = map[string]Color{
	"":               ColorDefault,
	"default":        ColorDefault,
	"red":            ColorRed,
	"green":          ColorGreen,
	"yellow":         ColorYellow,
	"blue":           ColorBlue,
	"magenta":        ColorMagenta,
	"cyan":           ColorCyan,
	"white":          ColorWhite,
	"bright-red":     ColorBrightRed,
	"bright-green":   ColorBrightGreen,
	"bright-yellow":  ColorBrightYellow,
	"bright-blue":    ColorBrightBlue,
	"bright-magenta": ColorBrightMagenta,
	"bright-cyan":    ColorBrightCyan,
	"bright-white":   ColorBrightWhite,
	"orange":         ColorOrange,
	"gray":           ColorGray,
	"grey":           ColorGray,
}

// ParseColor converts a color name (as used in level files) to a Color.
func ParseColor(name string) (Color, bool) {
	c, ok := colorNames[name]
	return c, ok
}

// ANSI returns the ANSI 256-color code for the color, or "" for the default.
func (c Color) ANSI() string {
	switch c {
	case ColorRed:
		return "1"
	case ColorGreen:
		return "2"
	case ColorYellow:
		return "3"
	case ColorBlue:
		return "4"
	case ColorMagenta:
		return "5"
	case ColorCyan:
		return "6"
	case ColorWhite:
		return "7"
	case ColorBrightRed:
		return "9"
	case ColorBrightGreen:
		return "10"
	case ColorBrightYellow:
		return "11"
	case ColorBrightBlue:
		return "12"
	case ColorBrightMagenta:
		return "13"
	case ColorBrightCyan:
		return "14"
	case ColorBrightWhite:
		return "15"
	case ColorOrange:
		return "208"
	case ColorGray:
		return "245"
	default:
		return ""
	}
}

// RGB returns an approximate 8-bit RGB triple for graphical renderers.
func (c Color) RGB() (r, g, b uint8) {
	switch c {
	case ColorRed:
		return 0xaa, 0x00, 0x00
	case ColorGreen:
		return 0x00, 0xaa, 0x00
	case ColorYellow:
		return 0xaa, 0x55, 0x00
	case ColorBlue:
		return 0x00, 0x00, 0xaa
	case ColorMagenta:
		return 0xaa, 0x00, 0xaa
	case ColorCyan:
		return 0x00, 0xaa, 0xaa
	case ColorWhite:
		return 0xaa, 0xaa, 0xaa
	case ColorBrightRed:
		return 0xff, 0x55, 0x55
	case ColorBrightGreen:
		return 0x55, 0xff, 0x55
	case ColorBrightYellow:
		return 0xff, 0xff, 0x55
	case ColorBrightBlue:
		return 0x55, 0x55, 0xff
	case ColorBrightMagenta:
		return 0xff, 0x55, 0xff
	case ColorBrightCyan:
		return 0x55, 0xff, 0xff
	case ColorBrightWhite:
		return 0xff, 0xff, 0xff
	case ColorOrange:
		return 0xff, 0x87, 0x00
	case ColorGray:
		return 0x8a, 0x8a, 0x8a
	default:
		return 0xd0, 0xd0, 0xd0
	}
}
