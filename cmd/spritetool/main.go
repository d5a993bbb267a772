package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kingpin/v2"
	"github.com/caarlos0/env/v11"

	sprite "github.com/akeil/spritetool"
)

const (
	checkmark = "✓"
	crossmark = "✗"
	ellipsis  = "…"
)

type settings struct {
	LogLevel string `env:"SPRITETOOL_LOG_LEVEL" envDefault:"warning"`
	Workers  int    `env:"SPRITETOOL_WORKERS"   envDefault:"0"`
	Policy   string `env:"SPRITETOOL_POLICY"    envDefault:"strict"`
}

func loadSettings() (settings, error) {
	var s settings
	err := env.Parse(&s)
	if err != nil {
		return s, err
	}
	return s, nil
}

func main() {
	s, err := loadSettings()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	app := kingpin.New("spritetool", "Sprite sheet tool")
	app.HelpFlag.Short('h')
	verbose := app.Flag("verbose", "Show debug output").Short('v').Bool()
	policy := app.Flag("policy", "Handling of missing config fields (strict, defaults)").String()

	compose := app.Command("compose", "Compose sprite sheets from project directories").Default()
	var (
		projects     = compose.Arg("project", "Project directory with config and input frames").Strings()
		inputDir     = compose.Flag("input", "Frame directory, instead of a project").Short('i').String()
		outputPath   = compose.Flag("output", "Sheet image, used with --input").Short('o').String()
		configPath   = compose.Flag("config", "Sheet configuration, used with --input").Short('c').String()
		preview      = compose.Flag("preview", "Write an annotated preview image").Short('p').Bool()
		showWarnings = compose.Flag("warnings", "List all warnings").Short('w').Bool()
	)

	validate := app.Command("validate", "Check sheet configurations")
	var (
		configs = validate.Arg("config", "Configuration files").Required().Strings()
	)

	scale := app.Command("scale", "Resize images")
	var (
		scaleSrc     = scale.Arg("image", "Images to scale, glob patterns are expanded").Required().Strings()
		scaleOut     = scale.Flag("output", "Output directory").Short('o').String()
		scaleFactor  = scale.Flag("factor", "Scale factor").Short('f').Float64()
		scaleWidth   = scale.Flag("width", "Target width").Int()
		scaleHeight  = scale.Flag("height", "Target height").Int()
		scaleStretch = scale.Flag("stretch", "Ignore the aspect ratio").Bool()
		scaleFilter  = scale.Flag("filter", "Resampling filter").Default("catmull-rom").String()
		scaleQuality = scale.Flag("quality", "JPEG quality").Default("95").Int()
	)

	gif := app.Command("gif", "Create an animated GIF")
	var (
		gifSrc       = gif.Arg("frames", "Frame images or one directory").Strings()
		gifOut       = gif.Flag("output", "GIF file").Short('o').Required().String()
		gifSheet     = gif.Flag("sheet", "Cut the frames from this sheet").String()
		gifConfig    = gif.Flag("config", "Sheet configuration, used with --sheet").Short('c').String()
		gifAnimation = gif.Flag("animation", "Animation name, used with --sheet").Short('a').String()
		gifDuration  = gif.Flag("duration", "Display time per frame").Short('d').Duration()
		gifLoop      = gif.Flag("loop", "Number of repetitions, 0 loops forever").Default("0").Int()
		gifWidth     = gif.Flag("width", "Resize frames to this width").Int()
		gifHeight    = gif.Flag("height", "Resize frames to this height").Int()
	)

	proof := app.Command("proof", "Create a PDF proof sheet")
	var (
		proofSheet  = proof.Arg("sheet", "Sheet image").Required().String()
		proofConfig = proof.Flag("config", "Sheet configuration").Short('c').Required().String()
		proofOut    = proof.Flag("output", "PDF file").Short('o').String()
	)

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	if *verbose {
		s.LogLevel = "debug"
	}
	sprite.SetLogLevel(s.LogLevel)
	if *policy != "" {
		s.Policy = *policy
	}

	switch command {
	case "compose":
		if *inputDir != "" {
			err = doComposeDir(s, *inputDir, *outputPath, *configPath, *preview, *showWarnings)
		} else {
			err = doCompose(s, *projects, *preview, *showWarnings)
		}
	case "validate":
		err = doValidate(s, *configs)
	case "scale":
		err = doScale(s, *scaleSrc, *scaleOut, scaleOptions{
			factor:  *scaleFactor,
			width:   *scaleWidth,
			height:  *scaleHeight,
			stretch: *scaleStretch,
			filter:  *scaleFilter,
			quality: *scaleQuality,
		})
	case "gif":
		g := gifOptions{
			duration: *gifDuration,
			loop:     *gifLoop,
			width:    *gifWidth,
			height:   *gifHeight,
		}
		if *gifSheet != "" {
			err = doGifFromSheet(s, *gifSheet, *gifConfig, *gifAnimation, *gifOut, g)
		} else {
			err = doGif(*gifSrc, *gifOut, g)
		}
	case "proof":
		err = doProof(s, *proofSheet, *proofConfig, *proofOut)
	default:
		err = fmt.Errorf("unknown command: %q", command)
	}

	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	os.Exit(0)
}

// common ---------------------------------------------------------------------

func loadConfig(s settings, path string) (*sprite.SheetConfig, error) {
	p, err := sprite.ParsePolicy(s.Policy)
	if err != nil {
		return nil, err
	}
	return sprite.LoadConfig(path, p)
}

// expand glob patterns, dropping paths that do not exist
func expandPaths(patterns []string) []string {
	paths := make([]string, 0)
	for _, s := range patterns {
		matches, err := filepath.Glob(s)
		if err != nil {
			fmt.Printf("%v %v: %v\n", crossmark, s, err)
			continue
		}
		paths = append(paths, matches...)
	}
	return paths
}
