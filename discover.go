package sprite

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/akeil/spritetool/internal/imaging"
	"github.com/akeil/spritetool/internal/logging"
)

// Frame is one discovered frame image.
type Frame struct {
	Index int
	Path  string
}

// FrameSet maps animation names to frames, ordered by ascending index.
type FrameSet map[string][]Frame

// Paths returns the frame paths of one animation in order.
func (fs FrameSet) Paths(animation string) []string {
	frames := fs[animation]
	paths := make([]string, len(frames))
	for i, f := range frames {
		paths[i] = f.Path
	}
	return paths
}

// DiscoveryStrategy finds frame files below a root directory.
//
// expected holds the animation names of the sheet configuration. Every
// expected name has an entry in the result, possibly empty. Groups that
// are not expected are left out and reported as warnings.
type DiscoveryStrategy interface {
	Name() string
	Discover(root string, expected []string) (FrameSet, []Warning, error)
}

// SubdirStrategy expects one directory per animation with numbered frame
// files: root/walk/001.png, root/walk/002.png, ...
// A trailing "_NNNN" group is accepted as well (root/walk/frame_0001.png).
type SubdirStrategy struct{}

// FlatStrategy expects all frames in the root directory, named
// {animation}_{index}.ext, e.g. walk_down_01.png.
type FlatStrategy struct{}

// DetectStrategy inspects root once and selects SubdirStrategy if it has
// any subdirectories, FlatStrategy otherwise.
func DetectStrategy(root string) (DiscoveryStrategy, error) {
	entries, err := readRoot(root)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.IsDir() {
			return SubdirStrategy{}, nil
		}
	}
	return FlatStrategy{}, nil
}

// Discover detects the strategy for root and runs it.
func Discover(root string, expected []string) (FrameSet, []Warning, error) {
	s, err := DetectStrategy(root)
	if err != nil {
		return nil, nil, err
	}
	logging.Debug("Discover frames in %q with %v strategy", root, s.Name())
	return s.Discover(root, expected)
}

func readRoot(root string) ([]os.DirEntry, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, inputMissing{root, err}
	}
	if !info.IsDir() {
		return nil, inputMissing{root, fmt.Errorf("not a directory")}
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, inputMissing{root, err}
	}
	return entries, nil
}

func (s SubdirStrategy) Name() string {
	return "subdirectory"
}

func (s SubdirStrategy) Discover(root string, expected []string) (FrameSet, []Warning, error) {
	entries, err := readRoot(root)
	if err != nil {
		return nil, nil, err
	}

	c := newCollector(expected)
	for _, e := range entries {
		if !e.IsDir() {
			if imaging.IsSupported(e.Name()) {
				c.warn(FrameNaming, filepath.Join(root, e.Name()), "frame file outside an animation directory, ignored")
			}
			continue
		}
		anim := e.Name()
		dir := filepath.Join(root, anim)
		if !c.wants(anim, dir) {
			continue
		}

		files, err := os.ReadDir(dir)
		if err != nil {
			return nil, nil, Wrap(err, "read animation directory %v", dir)
		}
		for _, f := range files {
			if f.IsDir() || !imaging.IsSupported(f.Name()) {
				continue
			}
			p := filepath.Join(dir, f.Name())
			stem := strings.TrimSuffix(f.Name(), filepath.Ext(f.Name()))
			idx, ok := parseIndex(stem)
			if !ok {
				idx, ok = parseIndex(trailingGroup(stem))
			}
			if !ok {
				c.warn(FrameNaming, p, "cannot parse frame index from %q", stem)
				continue
			}
			c.add(anim, idx, p)
		}
	}

	return c.result()
}

func (s FlatStrategy) Name() string {
	return "flat"
}

func (s FlatStrategy) Discover(root string, expected []string) (FrameSet, []Warning, error) {
	entries, err := readRoot(root)
	if err != nil {
		return nil, nil, err
	}

	c := newCollector(expected)
	for _, e := range entries {
		if e.IsDir() || !imaging.IsSupported(e.Name()) {
			continue
		}
		p := filepath.Join(root, e.Name())
		stem := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))

		sep := strings.LastIndex(stem, "_")
		if sep <= 0 {
			c.warn(FrameNaming, p, "expected {animation}_{index}, got %q", stem)
			continue
		}
		anim := stem[:sep]
		idx, ok := parseIndex(stem[sep+1:])
		if !ok {
			c.warn(FrameNaming, p, "cannot parse frame index from %q", stem)
			continue
		}
		if !c.wants(anim, p) {
			continue
		}
		c.add(anim, idx, p)
	}

	return c.result()
}

// parseIndex accepts non-negative decimal numbers, leading zeros allowed.
func parseIndex(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(s, 10, 31)
	if err != nil {
		return 0, false
	}
	return int(n), true
}

func trailingGroup(stem string) string {
	sep := strings.LastIndex(stem, "_")
	if sep < 0 {
		return ""
	}
	return stem[sep+1:]
}

// collector groups frames by animation and keeps track of warnings.
type collector struct {
	expected   map[string]bool
	names      []string
	frames     FrameSet
	seen       map[string]map[int]string
	unexpected map[string]bool
	warnings   []Warning
}

func newCollector(expected []string) *collector {
	c := &collector{
		expected:   make(map[string]bool),
		names:      expected,
		frames:     make(FrameSet),
		seen:       make(map[string]map[int]string),
		unexpected: make(map[string]bool),
	}
	for _, n := range expected {
		c.expected[n] = true
		c.frames[n] = []Frame{}
		c.seen[n] = make(map[int]string)
	}
	return c
}

func (c *collector) warn(kind WarningKind, path, msg string, v ...interface{}) {
	w := Warning{Kind: kind, Path: path, Message: fmt.Sprintf(msg, v...)}
	logging.Warning("%v", w)
	c.warnings = append(c.warnings, w)
}

// wants reports whether frames for anim are collected.
// Unexpected animations produce one warning each.
func (c *collector) wants(anim, path string) bool {
	if c.expected[anim] {
		return true
	}
	if c.unexpected[anim] {
		return false
	}
	c.unexpected[anim] = true

	msg := fmt.Sprintf("animation %q is not configured, ignored", anim)
	if s := suggest(anim, c.names); s != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", s)
	}
	w := Warning{Kind: UnexpectedAnimation, Path: path, Message: msg}
	logging.Info("%v", w)
	c.warnings = append(c.warnings, w)
	return false
}

func (c *collector) add(anim string, idx int, path string) {
	if first, dup := c.seen[anim][idx]; dup {
		c.warn(DuplicateFrame, path, "index %d of %q already taken by %v", idx, anim, first)
		return
	}
	c.seen[anim][idx] = path
	c.frames[anim] = append(c.frames[anim], Frame{Index: idx, Path: path})
}

func (c *collector) result() (FrameSet, []Warning, error) {
	for anim, frames := range c.frames {
		sort.Slice(frames, func(i, j int) bool {
			return frames[i].Index < frames[j].Index
		})
		logging.Debug("Found %d frames for %q", len(frames), anim)
	}
	return c.frames, c.warnings, nil
}

// suggest returns the closest expected name if it is close enough to be
// a likely typo.
func suggest(name string, candidates []string) string {
	best := ""
	bestDist := -1
	for _, cand := range candidates {
		dist := levenshtein.ComputeDistance(name, cand)
		if dist > suggestLimit(len(cand)) {
			continue
		}
		if bestDist < 0 || dist < bestDist || (dist == bestDist && cand < best) {
			best, bestDist = cand, dist
		}
	}
	return best
}

func suggestLimit(n int) int {
	switch {
	case n <= 3:
		return 1
	case n <= 8:
		return 2
	default:
		return 3
	}
}
