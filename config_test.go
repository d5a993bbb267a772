package sprite

import (
	"errors"
	"image/color"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFrameHeight(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.json")
	writeFile(t, p, `{
		"frame_width": 32,
		"cols": 2,
		"rows": 1,
		"animations": {"walk": {"row": 0, "frames": 2}}
	}`)

	_, err := LoadConfig(p, Strict)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Contains(t, err.Error(), "frame_height")

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"frame_height"}, verr.Missing)
}

func TestValidateReportsAllProblems(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{
		"frame_width": 0,
		"columns": 4,
		"rows": 2,
		"background_color": [0, 0, 300, 0],
		"animations": {
			"idle": {"row": 0, "frames": 4},
			"walk": {"row": 0, "frames": 2},
			"run":  {"row": 5, "frames": 9}
		}
	}`), JSON, Strict)
	require.Nil(t, cfg)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"frame_height"}, verr.Missing)

	msg := err.Error()
	for _, expected := range []string{
		"frame_width must be positive",
		"frame_height",
		"channel 2 out of range",
		`animations "idle" and "walk" both claim row 0`,
		`animation "run": row 5 outside of 0..1`,
		`animation "run": frames 9 outside of 1..4`,
	} {
		assert.Contains(t, msg, expected)
	}
}

func TestValidateMissingEverything(t *testing.T) {
	_, err := ParseConfig([]byte(`{}`), JSON, Strict)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"frame_width", "frame_height", "columns", "rows", "animations"}, verr.Missing)
}

func TestLoadConfigNotFound(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"), Strict)
	assert.True(t, IsConfigNotFound(err))
	assert.False(t, IsValidationError(err))
}

func TestParseConfigMalformed(t *testing.T) {
	_, err := ParseConfig([]byte(`{"frame_width": 32,`), JSON, Strict)
	require.Error(t, err)
	assert.True(t, IsConfigFormat(err))
	assert.Contains(t, err.Error(), "unexpected end of JSON input")

	_, err = ParseConfig([]byte(`{"frame_width": "wide"}`), JSON, Strict)
	assert.True(t, IsConfigFormat(err))
}

func TestConfigAliases(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{
		"frame_width": 16, "frame_height": 8, "cols": 3, "rows": 2,
		"animations": {"jump": {"row": 1, "frame_count": 3}}
	}`), JSON, Strict)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Columns)
	a, ok := cfg.Animation("jump")
	require.True(t, ok)
	assert.Equal(t, Animation{Name: "jump", Row: 1, Frames: 3}, a)
	assert.Equal(t, 48, cfg.SheetWidth())
	assert.Equal(t, 16, cfg.SheetHeight())

	_, err = ParseConfig([]byte(`{
		"frame_width": 16, "frame_height": 8, "columns": 4, "cols": 3, "rows": 2,
		"animations": {"jump": {"row": 1, "frames": 3}}
	}`), JSON, Strict)
	assert.True(t, IsValidationError(err))
}

func TestConfigDefaults(t *testing.T) {
	cfg := walkConfig(t)
	assert.Equal(t, color.NRGBA{0, 0, 0, 0}, cfg.Background)
	assert.Equal(t, DefaultFPS, cfg.FPS)
	assert.Equal(t, DefaultInputFrames, cfg.InputFrames)
}

func TestBackgroundColorForms(t *testing.T) {
	cases := map[string]color.NRGBA{
		`[10, 20, 30, 40]`: {10, 20, 30, 40},
		`[10, 20, 30]`:     {10, 20, 30, 255},
		`"#ff8000"`:        {255, 128, 0, 255},
		`"#ff800080"`:      {255, 128, 0, 128},
	}
	for value, expected := range cases {
		data := `{"frame_width": 1, "frame_height": 1, "columns": 1, "rows": 1,
			"background_color": ` + value + `,
			"animations": {"a": {"row": 0, "frames": 1}}}`
		cfg, err := ParseConfig([]byte(data), JSON, Strict)
		if assert.NoError(t, err, value) {
			assert.Equal(t, expected, cfg.Background, value)
		}
	}

	_, err := ParseConfig([]byte(`{"frame_width": 1, "frame_height": 1, "columns": 1, "rows": 1,
		"background_color": "#zz0000",
		"animations": {"a": {"row": 0, "frames": 1}}}`), JSON, Strict)
	assert.True(t, IsValidationError(err))
}

func TestSheetSizeBound(t *testing.T) {
	_, err := FromMap(map[string]interface{}{
		"frame_width":  4096,
		"frame_height": 32,
		"columns":      8,
		"rows":         1,
		"animations":   map[string]interface{}{"a": map[string]interface{}{"row": 0, "frames": 1}},
	}, Strict)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sheet width 32768 exceeds")

	// the product would overflow into a negative width
	_, err = ParseConfig([]byte(`{
		"frame_width": 4611686018427387904, "frame_height": 8, "columns": 3, "rows": 1,
		"animations": {"a": {"row": 0, "frames": 1}}
	}`), JSON, Strict)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Contains(t, err.Error(), "sheet width 3 x 4611686018427387904 exceeds")

	_, err = FromMap(map[string]interface{}{
		"frame_width": 8, "frame_height": 1 << 40, "columns": 1, "rows": 1 << 40,
		"animations": map[string]interface{}{"a": map[string]interface{}{"row": 0, "frames": 1}},
	}, Strict)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sheet height")
}

func TestDefaultFilling(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{
		"animations": {
			"idle": {"row": 0, "frames": 4},
			"walk": {"row": 2, "frames": 8}
		}
	}`), JSON, DefaultFilling)
	require.NoError(t, err)

	assert.Equal(t, 64, cfg.FrameWidth)
	assert.Equal(t, 96, cfg.FrameHeight)
	assert.Equal(t, 8, cfg.Columns)
	assert.Equal(t, 3, cfg.Rows, "rows should be inferred from the highest row")
	assert.Equal(t, []string{"idle", "walk"}, cfg.Names())

	_, err = ParseConfig([]byte(`{"animations": {"idle": {"row": 0, "frames": 4}}}`), JSON, Strict)
	assert.True(t, IsValidationError(err), "strict policy must not fill gaps")
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Len(t, cfg.Animations(), 16)
	assert.Equal(t, 512, cfg.SheetWidth())
	assert.Equal(t, 1536, cfg.SheetHeight())

	a, ok := cfg.Animation("attack_up")
	require.True(t, ok)
	assert.Equal(t, 15, a.Row)
	assert.Equal(t, 4, a.Frames)

	empty, err := ParseConfig([]byte(`{}`), JSON, DefaultFilling)
	require.NoError(t, err)
	assert.Equal(t, cfg.Names(), empty.Names())
}

func TestHCLConfigMatchesJSON(t *testing.T) {
	dir := t.TempDir()
	hclPath := filepath.Join(dir, "sheet.hcl")
	writeFile(t, hclPath, `
frame_width  = 32
frame_height = 16
cols         = 4
rows         = 2
background_color = "#102030ff"
fps = 8

animation "idle" {
  row    = 0
  frames = 2
}

animation "walk" {
  row         = 1
  frame_count = 4
}
`)
	jsonPath := filepath.Join(dir, "sheet.json")
	writeFile(t, jsonPath, `{
		"frame_width": 32, "frame_height": 16, "columns": 4, "rows": 2,
		"background_color": [16, 32, 48, 255], "fps": 8,
		"animations": {"idle": {"row": 0, "frames": 2}, "walk": {"row": 1, "frames": 4}}
	}`)

	fromHCL, err := LoadConfig(hclPath, Strict)
	require.NoError(t, err)
	fromJSON, err := LoadConfig(jsonPath, Strict)
	require.NoError(t, err)

	assert.Equal(t, fromJSON, fromHCL)
}

func TestHCLConfigErrors(t *testing.T) {
	_, err := ParseConfig([]byte(`frame_width = `), HCL, Strict)
	assert.True(t, IsConfigFormat(err))

	_, err = ParseConfig([]byte(`
frame_width = 32
columns = 2
rows = 1
background_color = [1, 2, 3, 4]
animation "walk" {
  row = 0
  frames = 2
}`), HCL, Strict)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Contains(t, err.Error(), "frame_height")

	_, err = ParseConfig([]byte(`
animation "walk" {
  row = 0
}
animation "walk" {
  row = 1
}`), HCL, Strict)
	assert.True(t, IsConfigFormat(err))
}

func TestRawRoundTrip(t *testing.T) {
	cfg := walkConfig(t)
	again, err := Validate(cfg.Raw(), Strict)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("defaults")
	require.NoError(t, err)
	assert.Equal(t, DefaultFilling, p)

	p, err = ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, Strict, p)

	_, err = ParsePolicy("lenient")
	assert.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "lenient"))
}
