package sprite

import (
	"encoding/json"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ColorValue is a background color as written in a configuration file:
// either a list of 3 or 4 channel values (0..255) or a hex string
// "#rrggbb" / "#rrggbbaa".
type ColorValue struct {
	Hex        string
	Components []int
}

// RGBA creates a ColorValue from channel values.
func RGBA(r, g, b, a uint8) *ColorValue {
	return &ColorValue{Components: []int{int(r), int(g), int(b), int(a)}}
}

func (c *ColorValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		c.Hex = s
		c.Components = nil
		return nil
	}

	var comps []int
	if err := json.Unmarshal(data, &comps); err != nil {
		return fmt.Errorf("background_color must be a list of channel values or a hex string")
	}
	c.Hex = ""
	c.Components = comps
	return nil
}

func (c ColorValue) MarshalJSON() ([]byte, error) {
	if c.Hex != "" {
		return json.Marshal(c.Hex)
	}
	return json.Marshal(c.Components)
}

// NRGBA converts the value into a color, checking channel ranges.
func (c ColorValue) NRGBA() (color.NRGBA, error) {
	if c.Hex != "" {
		return parseHex(c.Hex)
	}

	n := len(c.Components)
	if n != 3 && n != 4 {
		return color.NRGBA{}, fmt.Errorf("background_color needs 3 or 4 channels, got %d", n)
	}
	ch := [4]uint8{0, 0, 0, 255}
	for i, v := range c.Components {
		if v < 0 || v > 255 {
			return color.NRGBA{}, fmt.Errorf("background_color channel %d out of range: %d", i, v)
		}
		ch[i] = uint8(v)
	}
	return color.NRGBA{ch[0], ch[1], ch[2], ch[3]}, nil
}

func parseHex(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	alpha := uint64(255)
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid alpha in background_color %q", s)
		}
		alpha = a
		s = s[:7]
	}

	col, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid background_color %q: %v", s, err)
	}
	r, g, b := col.RGB255()
	return color.NRGBA{r, g, b, uint8(alpha)}, nil
}

func formatColor(c color.NRGBA) []int {
	return []int{int(c.R), int(c.G), int(c.B), int(c.A)}
}
