package sprite

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// hclConfig is the HCL form of RawConfig. Animations are labelled blocks:
//
//	animation "walk" {
//	  row    = 0
//	  frames = 8
//	}
type hclConfig struct {
	FrameWidth  *int           `hcl:"frame_width,optional"`
	FrameHeight *int           `hcl:"frame_height,optional"`
	Columns     *int           `hcl:"columns,optional"`
	Cols        *int           `hcl:"cols,optional"`
	Rows        *int           `hcl:"rows,optional"`
	Background  hcl.Expression `hcl:"background_color,optional"`
	FPS         *float64       `hcl:"fps,optional"`
	InputFrames *string        `hcl:"input_frames,optional"`
	Animations  []hclAnimation `hcl:"animation,block"`
}

type hclAnimation struct {
	Name       string `hcl:"name,label"`
	Row        *int   `hcl:"row,optional"`
	Frames     *int   `hcl:"frames,optional"`
	FrameCount *int   `hcl:"frame_count,optional"`
}

func decodeHCL(data []byte, path string) (RawConfig, error) {
	var raw RawConfig
	name := path
	if name == "" {
		name = "config.hcl"
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, name)
	if diags.HasErrors() {
		return raw, configFormat{path, diags}
	}

	var hc hclConfig
	diags = gohcl.DecodeBody(file.Body, nil, &hc)
	if diags.HasErrors() {
		return raw, configFormat{path, diags}
	}

	raw = RawConfig{
		FrameWidth:  hc.FrameWidth,
		FrameHeight: hc.FrameHeight,
		Columns:     hc.Columns,
		Cols:        hc.Cols,
		Rows:        hc.Rows,
		FPS:         hc.FPS,
	}
	if hc.InputFrames != nil {
		raw.InputFrames = *hc.InputFrames
	}

	bg, err := decodeHCLColor(hc.Background)
	if err != nil {
		return raw, configFormat{path, err}
	}
	raw.Background = bg

	// Blocks are repeatable, so an empty list is the same as an absent one.
	if len(hc.Animations) > 0 {
		raw.Animations = make(map[string]RawAnimation, len(hc.Animations))
	}
	for _, a := range hc.Animations {
		if _, dup := raw.Animations[a.Name]; dup {
			return raw, configFormat{path, fmt.Errorf("animation %q declared twice", a.Name)}
		}
		raw.Animations[a.Name] = RawAnimation{
			Row:        a.Row,
			Frames:     a.Frames,
			FrameCount: a.FrameCount,
		}
	}

	return raw, nil
}

// decodeHCLColor accepts a hex string or a list of numbers.
// A missing attribute yields nil.
func decodeHCLColor(expr hcl.Expression) (*ColorValue, error) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	if val.IsNull() {
		return nil, nil
	}

	if val.Type() == cty.String {
		return &ColorValue{Hex: val.AsString()}, nil
	}

	list, err := convert.Convert(val, cty.List(cty.Number))
	if err != nil {
		return nil, fmt.Errorf("background_color: %v", err)
	}
	var comps []int
	err = gocty.FromCtyValue(list, &comps)
	if err != nil {
		return nil, fmt.Errorf("background_color: %v", err)
	}
	return &ColorValue{Components: comps}, nil
}
