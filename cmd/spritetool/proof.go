package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/akeil/spritetool/pkg/proof"
)

func doProof(s settings, sheetPath, configPath, out string) error {
	cfg, err := loadConfig(s, configPath)
	if err != nil {
		return err
	}

	if out == "" {
		out = strings.TrimSuffix(sheetPath, filepath.Ext(sheetPath)) + ".pdf"
	}

	fmt.Printf("%v render %q\n", ellipsis, sheetPath)
	err = proof.WriteFile(out, sheetPath, cfg)
	if err != nil {
		fmt.Printf("%v Failed to render %q: %v\n", crossmark, sheetPath, err)
		return err
	}

	fmt.Printf("%v proof sheet saved as %q.\n", checkmark, out)
	return nil
}
