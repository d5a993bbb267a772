package main

import (
	"fmt"
	"os"
	"time"

	"github.com/akeil/spritetool/internal/imaging"
	"github.com/akeil/spritetool/pkg/anim"
)

type gifOptions struct {
	duration time.Duration
	loop     int
	width    int
	height   int
}

func (g gifOptions) anim() anim.Options {
	return anim.Options{
		Duration: g.duration,
		Loop:     g.loop,
		Width:    g.width,
		Height:   g.height,
	}
}

func doGif(patterns []string, out string, g gifOptions) error {
	var res *anim.Result
	var err error

	if len(patterns) == 1 {
		if info, statErr := os.Stat(patterns[0]); statErr == nil && info.IsDir() {
			res, err = anim.FromDir(patterns[0], "*.png", out, g.anim())
			if err != nil {
				return err
			}
			showGif(res)
			return nil
		}
	}

	src := expandPaths(patterns)
	if len(src) == 0 {
		return fmt.Errorf("no frames specified")
	}
	res, err = anim.Make(src, out, g.anim())
	if err != nil {
		return err
	}
	showGif(res)
	return nil
}

func doGifFromSheet(s settings, sheetPath, configPath, animation, out string, g gifOptions) error {
	if configPath == "" || animation == "" {
		return fmt.Errorf("--sheet requires --config and --animation")
	}

	cfg, err := loadConfig(s, configPath)
	if err != nil {
		return err
	}
	sheet, err := imaging.Open(sheetPath)
	if err != nil {
		return err
	}

	res, err := anim.FromSheet(sheet, cfg, animation, out, g.anim())
	if err != nil {
		return err
	}
	showGif(res)
	return nil
}

func showGif(res *anim.Result) {
	fmt.Printf("%v %q: %d frames, %v, %dx%d, %.1f KB\n", checkmark,
		res.OutputPath, res.FrameCount, res.TotalDuration,
		res.Size.X, res.Size.Y, float64(res.FileSize)/1024)
}
