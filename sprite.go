// Package sprite composes animation frames into grid sprite sheets.
//
// A sheet is described by a SheetConfig: the size of one cell, the number
// of columns and rows and one row per animation. Frames are discovered on
// disk (see DiscoveryStrategy), scaled to the cell size and placed left to
// right in their animation's row. Next to the sheet image, a JSON metadata
// file describes the layout for game engines.
package sprite

import (
	"github.com/akeil/spritetool/internal/logging"
)

// SetLogLevel sets the level for the package loggers.
// Valid values are "debug", "info", "warning" and "error";
// anything else disables logging.
func SetLogLevel(level string) {
	logging.SetLevel(logging.ParseLevel(level))
}
