package sprite

import (
	"fmt"
	"os"
	"path/filepath"
)

// Project file names.
const (
	ProjectConfigJSON = "config.json"
	ProjectConfigHCL  = "config.hcl"
	ProjectOutputDir  = "output"
	ProjectSheetName  = "spritesheet.png"
)

// Project is a directory that holds a sheet configuration, the frame images
// and the composed output:
//
//	project/
//	  config.json       (or config.hcl)
//	  input_frames/     (or the "input_frames" value from the config)
//	  output/spritesheet.png
//	  output/spritesheet.json
type Project struct {
	Dir        string
	ConfigPath string
	InputDir   string
	OutputPath string
	Config     *SheetConfig
}

// OpenProject reads the configuration of the project in dir and resolves
// its frame directory.
func OpenProject(dir string, policy Policy) (*Project, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, configNotFound{dir, err}
	}
	if !info.IsDir() {
		return nil, configNotFound{dir, fmt.Errorf("not a directory")}
	}

	p := &Project{
		Dir:        dir,
		OutputPath: filepath.Join(dir, ProjectOutputDir, ProjectSheetName),
	}

	p.ConfigPath = filepath.Join(dir, ProjectConfigJSON)
	if _, err := os.Stat(p.ConfigPath); os.IsNotExist(err) {
		hcl := filepath.Join(dir, ProjectConfigHCL)
		if _, err := os.Stat(hcl); err == nil {
			p.ConfigPath = hcl
		}
	}

	p.Config, err = LoadConfig(p.ConfigPath, policy)
	if err != nil {
		return nil, err
	}

	p.InputDir = p.Config.InputFrames
	if !filepath.IsAbs(p.InputDir) {
		p.InputDir = filepath.Join(dir, p.InputDir)
	}
	info, err = os.Stat(p.InputDir)
	if err != nil {
		return nil, inputMissing{p.InputDir, err}
	}
	if !info.IsDir() {
		return nil, inputMissing{p.InputDir, fmt.Errorf("not a directory")}
	}

	return p, nil
}

// Compose renders the project's sheet into its output directory.
func (p *Project) Compose(opts ...Option) (*Result, error) {
	return Compose(p.InputDir, p.OutputPath, p.Config, opts...)
}
