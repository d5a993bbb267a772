package main

import (
	"fmt"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/akeil/spritetool/pkg/scale"
)

type scaleOptions struct {
	factor  float64
	width   int
	height  int
	stretch bool
	filter  string
	quality int
}

func doScale(s settings, patterns []string, outDir string, o scaleOptions) error {
	src := expandPaths(patterns)
	if len(src) == 0 {
		return fmt.Errorf("no source file(s) specified")
	}

	opts := scale.Options{
		Factor:  o.factor,
		Width:   o.width,
		Height:  o.height,
		Stretch: o.stretch,
		Filter:  o.filter,
		Quality: o.quality,
	}

	workers := s.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	var group errgroup.Group
	group.SetLimit(workers)
	for _, path := range src {
		path := path
		group.Go(func() error {
			return scaleOne(path, outDir, opts)
		})
	}
	return group.Wait()
}

func scaleOne(path, outDir string, opts scale.Options) error {
	out := ""
	if outDir != "" {
		out = filepath.Join(outDir, filepath.Base(path))
	}

	res, err := scale.Scale(path, out, opts)
	if err != nil {
		fmt.Printf("%v Failed to scale %q: %v\n", crossmark, path, err)
		return err
	}

	fmt.Printf("%v %q %dx%d -> %q %dx%d\n", checkmark,
		res.InputPath, res.OriginalSize.X, res.OriginalSize.Y,
		res.OutputPath, res.NewSize.X, res.NewSize.Y)
	return nil
}
