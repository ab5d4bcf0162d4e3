package ui

import (
	"time"

	"github.com/dgnsrekt/speedread/rsvp"
)

// Config contains TUI-specific configuration.
type Config struct {
	Reader rsvp.Config

	// Panel width in canvas units. Zero uses the session geometry.
	Width       int
	EnableMouse bool
	Markdown    bool
	SkipCode    bool

	// File path of the source, empty for stdin and URLs.
	Path  string
	Title string

	GlamourStyle string `env:"GLAMOUR_STYLE" envDefault:"auto"`

	// Canvas units per terminal cell.
	CellWidth  int `env:"SPEEDREAD_CELL_WIDTH"  envDefault:"8"`
	CellHeight int `env:"SPEEDREAD_CELL_HEIGHT" envDefault:"16"`

	// Minimum time between reloads of a watched source file.
	ReloadInterval time.Duration `env:"SPEEDREAD_RELOAD_INTERVAL" envDefault:"500ms"`
	WatchFile      bool          `env:"SPEEDREAD_WATCH"           envDefault:"true"`
}
