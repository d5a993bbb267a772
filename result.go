package sprite

import (
	"fmt"
	"strings"
)

// AnimationResult holds the frame counts for one animation row.
type AnimationResult struct {
	Name     string
	Row      int
	Expected int
	Found    int
	Placed   int
	Missing  int
}

// Result describes the outcome of one composition.
type Result struct {
	Success         bool
	Message         string
	OutputPath      string
	MetadataPath    string
	PreviewPath     string
	ProcessedFrames int
	MissingFrames   int
	SheetWidth      int
	SheetHeight     int
	Animations      []AnimationResult
	Warnings        []Warning
}

// Summary formats the result as a few lines of text.
func (r *Result) Summary() string {
	var b strings.Builder
	fmt.Fprintln(&b, r.Message)
	fmt.Fprintf(&b, "sheet:    %v (%dx%d)\n", r.OutputPath, r.SheetWidth, r.SheetHeight)
	fmt.Fprintf(&b, "metadata: %v\n", r.MetadataPath)
	if r.PreviewPath != "" {
		fmt.Fprintf(&b, "preview:  %v\n", r.PreviewPath)
	}
	for _, a := range r.Animations {
		fmt.Fprintf(&b, "  row %2d %-16s %d/%d", a.Row, a.Name, a.Placed, a.Expected)
		if a.Missing > 0 {
			fmt.Fprintf(&b, " (%d missing)", a.Missing)
		}
		fmt.Fprintln(&b)
	}
	if n := len(r.Warnings); n > 0 {
		fmt.Fprintf(&b, "%d warnings\n", n)
	}
	return b.String()
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %v", n, word)
	}
	return fmt.Sprintf("%d %vs", n, word)
}
