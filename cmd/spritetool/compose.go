package main

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	sprite "github.com/akeil/spritetool"
)

func doCompose(s settings, projects []string, preview, showWarnings bool) error {
	if len(projects) == 0 {
		projects = []string{"."}
	}

	policy, err := sprite.ParsePolicy(s.Policy)
	if err != nil {
		return err
	}

	var group errgroup.Group
	for _, dir := range projects {
		dir := dir
		group.Go(func() error {
			fmt.Printf("%v compose %q\n", ellipsis, dir)
			p, err := sprite.OpenProject(dir, policy)
			if err != nil {
				fmt.Printf("%v Failed to open project %q: %v\n", crossmark, dir, err)
				return err
			}
			res, err := p.Compose(composeOptions(s, preview)...)
			if err != nil {
				fmt.Printf("%v Failed to compose %q: %v\n", crossmark, dir, err)
				return err
			}
			showResult(res, showWarnings)
			return nil
		})
	}
	return group.Wait()
}

func doComposeDir(s settings, input, output, config string, preview, showWarnings bool) error {
	if output == "" || config == "" {
		return fmt.Errorf("--input requires --output and --config")
	}

	cfg, err := loadConfig(s, config)
	if err != nil {
		return err
	}

	res, err := sprite.Compose(input, output, cfg, composeOptions(s, preview)...)
	if err != nil {
		return err
	}
	showResult(res, showWarnings)
	return nil
}

func composeOptions(s settings, preview bool) []sprite.Option {
	return []sprite.Option{
		sprite.WithPreview(preview),
		sprite.WithWorkers(s.Workers),
	}
}

func showResult(res *sprite.Result, showWarnings bool) {
	mark := checkmark
	if res.MissingFrames > 0 {
		mark = crossmark
	}
	fmt.Printf("%v %v", mark, res.Summary())

	if showWarnings {
		for _, w := range res.Warnings {
			fmt.Printf("  %v\n", w)
		}
	}
}
