package sprite

import (
	"encoding/json"
	"io"
	"os"
)

// RowBase is the number of the first sheet row in the metadata.
// Rows are numbered from 0, the same as in the sheet configuration.
const RowBase = 0

// Metadata describes the layout of a composed sheet so that a game engine
// can address single frames.
type Metadata struct {
	Texture     string                       `json:"texture"`
	FrameWidth  int                          `json:"frame_width"`
	FrameHeight int                          `json:"frame_height"`
	Columns     int                          `json:"columns"`
	Rows        int                          `json:"rows"`
	FPS         float64                      `json:"fps"`
	Background  []int                        `json:"background_color"`
	RowBase     int                          `json:"row_base"`
	Animations  map[string]AnimationMetadata `json:"animations"`
}

// AnimationMetadata describes one animation row.
//
// Frames is the configured frame count, Placed the number of cells that
// actually hold an image.
type AnimationMetadata struct {
	Row        int `json:"row"`
	Frames     int `json:"frames"`
	StartFrame int `json:"start_frame"`
	Placed     int `json:"placed"`
}

// NewMetadata creates the metadata for a sheet.
// texture is the file name of the sheet image, usually without directory.
func NewMetadata(cfg *SheetConfig, texture string, results []AnimationResult) *Metadata {
	placed := make(map[string]int)
	for _, r := range results {
		placed[r.Name] = r.Placed
	}

	m := &Metadata{
		Texture:     texture,
		FrameWidth:  cfg.FrameWidth,
		FrameHeight: cfg.FrameHeight,
		Columns:     cfg.Columns,
		Rows:        cfg.Rows,
		FPS:         cfg.FPS,
		Background:  formatColor(cfg.Background),
		RowBase:     RowBase,
		Animations:  make(map[string]AnimationMetadata),
	}
	for _, a := range cfg.Animations() {
		m.Animations[a.Name] = AnimationMetadata{
			Row:        a.Row + RowBase,
			Frames:     a.Frames,
			StartFrame: 0,
			Placed:     placed[a.Name],
		}
	}
	return m
}

// Write encodes the metadata as indented JSON.
// Map keys are sorted, so equal metadata gives equal bytes.
func (m *Metadata) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

// ReadMetadata reads a metadata file written by Compose.
func ReadMetadata(path string) (*Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var m Metadata
	err = json.NewDecoder(f).Decode(&m)
	if err != nil {
		return nil, Wrap(err, "read metadata %v", path)
	}
	return &m, nil
}
