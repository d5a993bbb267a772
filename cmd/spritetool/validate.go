package main

import (
	"errors"
	"fmt"

	sprite "github.com/akeil/spritetool"
)

func doValidate(s settings, paths []string) error {
	failed := 0
	for _, p := range paths {
		cfg, err := loadConfig(s, p)
		if err != nil {
			failed++
			showInvalid(p, err)
			continue
		}
		fmt.Printf("%v %v: %d animations, %dx%d sheet\n", checkmark, p,
			len(cfg.Animations()), cfg.SheetWidth(), cfg.SheetHeight())
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d configurations are invalid", failed, len(paths))
	}
	return nil
}

func showInvalid(path string, err error) {
	var verr *sprite.ValidationError
	if !errors.As(err, &verr) {
		fmt.Printf("%v %v: %v\n", crossmark, path, err)
		return
	}

	fmt.Printf("%v %v:\n", crossmark, path)
	for _, p := range verr.Problems {
		fmt.Printf("  %v\n", p)
	}
}
