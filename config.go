package sprite

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"io/ioutil"
	"math"
	"path/filepath"
	"sort"
	"strings"

	"github.com/akeil/spritetool/internal/logging"
)

// MaxSheetSide is the largest accepted width or height of a sheet in pixels.
const MaxSheetSide = 16384

// DefaultFPS is the playback rate written to the metadata when the
// configuration does not name one.
const DefaultFPS = 12.0

// DefaultInputFrames is the frame directory of a project, relative to the
// project directory.
const DefaultInputFrames = "input_frames"

// Policy decides how missing configuration fields are treated.
type Policy int

const (
	// Strict rejects a configuration with missing required fields.
	Strict Policy = iota
	// DefaultFilling takes missing fields from DefaultConfig.
	DefaultFilling
)

func (p Policy) String() string {
	switch p {
	case Strict:
		return "strict"
	case DefaultFilling:
		return "default-filling"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy maps "strict" or "defaults" to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return Strict, nil
	case "defaults", "default", "default-filling":
		return DefaultFilling, nil
	default:
		return Strict, fmt.Errorf("unknown config policy %q", s)
	}
}

// Format is the serialization format of a configuration file.
type Format int

const (
	JSON Format = iota
	HCL
)

// FormatFor guesses the configuration format from a file name.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".hcl") {
		return HCL
	}
	return JSON
}

// RawConfig is a configuration as read from its source, before validation.
// Pointer fields are nil if the source did not contain them.
type RawConfig struct {
	FrameWidth  *int                    `json:"frame_width,omitempty"`
	FrameHeight *int                    `json:"frame_height,omitempty"`
	Columns     *int                    `json:"columns,omitempty"`
	Cols        *int                    `json:"cols,omitempty"`
	Rows        *int                    `json:"rows,omitempty"`
	Background  *ColorValue             `json:"background_color,omitempty"`
	FPS         *float64                `json:"fps,omitempty"`
	InputFrames string                  `json:"input_frames,omitempty"`
	Animations  map[string]RawAnimation `json:"animations,omitempty"`
}

// RawAnimation is one entry of RawConfig.Animations.
type RawAnimation struct {
	Row        *int `json:"row,omitempty"`
	Frames     *int `json:"frames,omitempty"`
	FrameCount *int `json:"frame_count,omitempty"`
}

func (r RawAnimation) frames() *int {
	if r.Frames != nil {
		return r.Frames
	}
	return r.FrameCount
}

func (r RawConfig) columns() *int {
	if r.Columns != nil {
		return r.Columns
	}
	return r.Cols
}

// Animation is one named row of a sprite sheet.
type Animation struct {
	Name   string
	Row    int
	Frames int
}

// SheetConfig is a validated sprite sheet configuration.
// It is not modified after validation and can be shared.
type SheetConfig struct {
	FrameWidth  int
	FrameHeight int
	Columns     int
	Rows        int
	Background  color.NRGBA
	FPS         float64
	InputFrames string

	animations map[string]Animation
}

// Animations returns all animations ordered by row.
func (c *SheetConfig) Animations() []Animation {
	l := make([]Animation, 0, len(c.animations))
	for _, a := range c.animations {
		l = append(l, a)
	}
	sort.Slice(l, func(i, j int) bool {
		return l[i].Row < l[j].Row
	})
	return l
}

// Animation looks up an animation by name.
func (c *SheetConfig) Animation(name string) (Animation, bool) {
	a, ok := c.animations[name]
	return a, ok
}

// Names returns the sorted animation names.
func (c *SheetConfig) Names() []string {
	names := make([]string, 0, len(c.animations))
	for n := range c.animations {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// SheetWidth is the width of the sheet image in pixels.
func (c *SheetConfig) SheetWidth() int {
	return c.Columns * c.FrameWidth
}

// SheetHeight is the height of the sheet image in pixels.
func (c *SheetConfig) SheetHeight() int {
	return c.Rows * c.FrameHeight
}

// Cell returns the rectangle of the frame at index i in the given row.
func (c *SheetConfig) Cell(row, i int) image.Rectangle {
	x0 := i * c.FrameWidth
	y0 := row * c.FrameHeight
	return image.Rect(x0, y0, x0+c.FrameWidth, y0+c.FrameHeight)
}

// Raw converts the configuration back into its serializable form.
func (c *SheetConfig) Raw() RawConfig {
	fw, fh, cols, rows, fps := c.FrameWidth, c.FrameHeight, c.Columns, c.Rows, c.FPS
	raw := RawConfig{
		FrameWidth:  &fw,
		FrameHeight: &fh,
		Columns:     &cols,
		Rows:        &rows,
		Background:  &ColorValue{Components: formatColor(c.Background)},
		FPS:         &fps,
		InputFrames: c.InputFrames,
		Animations:  make(map[string]RawAnimation),
	}
	for name, a := range c.animations {
		row, frames := a.Row, a.Frames
		raw.Animations[name] = RawAnimation{Row: &row, Frames: &frames}
	}
	return raw
}

// LoadConfig reads a configuration file.
// Files ending in ".hcl" are parsed as HCL, anything else as JSON.
func LoadConfig(path string, policy Policy) (*SheetConfig, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, configNotFound{path, err}
	}
	logging.Info("Load sheet config from %q", path)

	raw, err := decodeRaw(data, FormatFor(path), path)
	if err != nil {
		return nil, err
	}
	return Validate(raw, policy)
}

// ParseConfig parses serialized configuration data.
func ParseConfig(data []byte, format Format, policy Policy) (*SheetConfig, error) {
	raw, err := decodeRaw(data, format, "")
	if err != nil {
		return nil, err
	}
	return Validate(raw, policy)
}

// FromMap validates an in-memory mapping with the same keys as a JSON
// configuration file.
func FromMap(m map[string]interface{}, policy Policy) (*SheetConfig, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, configFormat{"", err}
	}
	return ParseConfig(data, JSON, policy)
}

func decodeRaw(data []byte, format Format, path string) (RawConfig, error) {
	var raw RawConfig
	switch format {
	case HCL:
		return decodeHCL(data, path)
	default:
		err := json.Unmarshal(data, &raw)
		if err != nil {
			return raw, configFormat{path, err}
		}
	}
	return raw, nil
}

// Validate checks a raw configuration and creates a SheetConfig from it.
//
// With policy Strict, frame_width, frame_height, columns (or cols), rows
// and animations are required. With DefaultFilling, absent fields are
// taken from DefaultConfig.
// All problems are collected into one *ValidationError.
func Validate(raw RawConfig, policy Policy) (*SheetConfig, error) {
	if policy == DefaultFilling {
		raw = fillDefaults(raw)
	}

	verr := &ValidationError{}
	required := []struct {
		name  string
		value *int
	}{
		{"frame_width", raw.FrameWidth},
		{"frame_height", raw.FrameHeight},
		{"columns", raw.columns()},
		{"rows", raw.Rows},
	}
	for _, r := range required {
		if r.value == nil {
			verr.missing(r.name)
		} else if *r.value <= 0 {
			verr.add("%v must be positive, got %d", r.name, *r.value)
		}
	}
	if raw.Animations == nil {
		verr.missing("animations")
	} else if len(raw.Animations) == 0 {
		verr.add("animations must name at least one animation")
	}
	if raw.Columns != nil && raw.Cols != nil && *raw.Columns != *raw.Cols {
		verr.add("columns (%d) and cols (%d) disagree", *raw.Columns, *raw.Cols)
	}

	cfg := &SheetConfig{
		Background:  color.NRGBA{},
		FPS:         DefaultFPS,
		InputFrames: raw.InputFrames,
		animations:  make(map[string]Animation),
	}
	if cfg.InputFrames == "" {
		cfg.InputFrames = DefaultInputFrames
	}
	if raw.FrameWidth != nil {
		cfg.FrameWidth = *raw.FrameWidth
	}
	if raw.FrameHeight != nil {
		cfg.FrameHeight = *raw.FrameHeight
	}
	if c := raw.columns(); c != nil {
		cfg.Columns = *c
	}
	if raw.Rows != nil {
		cfg.Rows = *raw.Rows
	}
	if raw.FPS != nil {
		if *raw.FPS <= 0 {
			verr.add("fps must be positive, got %v", *raw.FPS)
		} else {
			cfg.FPS = *raw.FPS
		}
	}
	if raw.Background != nil {
		bg, err := raw.Background.NRGBA()
		if err != nil {
			verr.add("%v", err)
		} else {
			cfg.Background = bg
		}
	}

	if side, ok := checkSide(cfg.FrameWidth, cfg.Columns); !ok {
		verr.add("sheet width %v exceeds %d pixels", side, MaxSheetSide)
	}
	if side, ok := checkSide(cfg.FrameHeight, cfg.Rows); !ok {
		verr.add("sheet height %v exceeds %d pixels", side, MaxSheetSide)
	}

	validateAnimations(raw, cfg, verr)

	if !verr.empty() {
		return nil, verr
	}
	return cfg, nil
}

// checkSide tells if cells of the given size fit into MaxSheetSide.
// The bound is checked before multiplying, so huge values cannot overflow
// into a small or negative side. Non-positive values are reported elsewhere.
func checkSide(size, cells int) (string, bool) {
	if size <= 0 || cells <= 0 || size <= MaxSheetSide/cells {
		return "", true
	}
	if size <= math.MaxInt/cells {
		return fmt.Sprint(size * cells), false
	}
	return fmt.Sprintf("%d x %d", cells, size), false
}

func validateAnimations(raw RawConfig, cfg *SheetConfig, verr *ValidationError) {
	names := make([]string, 0, len(raw.Animations))
	for n := range raw.Animations {
		names = append(names, n)
	}
	sort.Strings(names)

	owners := make(map[int]string)
	for _, name := range names {
		ra := raw.Animations[name]
		if strings.TrimSpace(name) == "" {
			verr.add("animation with empty name")
			continue
		}

		ok := true
		if ra.Row == nil {
			verr.add("animation %q: missing row", name)
			ok = false
		} else if *ra.Row < 0 || (cfg.Rows > 0 && *ra.Row >= cfg.Rows) {
			verr.add("animation %q: row %d outside of 0..%d", name, *ra.Row, cfg.Rows-1)
			ok = false
		}

		frames := ra.frames()
		if frames == nil {
			verr.add("animation %q: missing frames", name)
			ok = false
		} else if *frames < 1 || (cfg.Columns > 0 && *frames > cfg.Columns) {
			verr.add("animation %q: frames %d outside of 1..%d", name, *frames, cfg.Columns)
			ok = false
		}

		if ra.Row != nil {
			if other, taken := owners[*ra.Row]; taken {
				verr.add("animations %q and %q both claim row %d", other, name, *ra.Row)
				ok = false
			} else {
				owners[*ra.Row] = name
			}
		}

		if ok {
			cfg.animations[name] = Animation{
				Name:   name,
				Row:    *ra.Row,
				Frames: *frames,
			}
		}
	}
}

// defaultRaw is the layout of the standard character sheet:
// 64x96 cells, 8 columns and four directions for idle, walk, run and attack.
func defaultRaw() RawConfig {
	fw, fh, cols, rows := 64, 96, 8, 16
	raw := RawConfig{
		FrameWidth:  &fw,
		FrameHeight: &fh,
		Columns:     &cols,
		Rows:        &rows,
		Background:  RGBA(0, 0, 0, 0),
		Animations:  make(map[string]RawAnimation),
	}

	actions := []struct {
		name   string
		frames int
	}{
		{"idle", 8},
		{"walk", 8},
		{"run", 6},
		{"attack", 4},
	}
	directions := []string{"down", "left", "right", "up"}
	row := 0
	for _, a := range actions {
		for _, d := range directions {
			r, f := row, a.frames
			raw.Animations[a.name+"_"+d] = RawAnimation{Row: &r, Frames: &f}
			row++
		}
	}
	return raw
}

// DefaultConfig returns the standard character sheet configuration
// used to fill gaps with policy DefaultFilling.
func DefaultConfig() *SheetConfig {
	cfg, err := Validate(defaultRaw(), Strict)
	if err != nil {
		panic(err)
	}
	return cfg
}

func fillDefaults(raw RawConfig) RawConfig {
	def := defaultRaw()
	if raw.FrameWidth == nil {
		raw.FrameWidth = def.FrameWidth
	}
	if raw.FrameHeight == nil {
		raw.FrameHeight = def.FrameHeight
	}
	if raw.columns() == nil {
		raw.Columns = def.Columns
	}
	if raw.Background == nil {
		raw.Background = def.Background
	}
	if raw.Rows == nil && len(raw.Animations) > 0 {
		rows := 0
		for _, a := range raw.Animations {
			if a.Row != nil && *a.Row+1 > rows {
				rows = *a.Row + 1
			}
		}
		if rows > 0 {
			raw.Rows = &rows
			logging.Debug("Inferred %d rows from the animation map", rows)
		}
	}
	if raw.Rows == nil {
		raw.Rows = def.Rows
	}
	if raw.Animations == nil {
		raw.Animations = def.Animations
	}
	return raw
}
