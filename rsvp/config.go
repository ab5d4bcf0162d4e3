package rsvp

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Defaults for the reader.
const (
	DefaultRate        = 250
	DefaultSkipBack    = 10
	DefaultSettleDelay = time.Second
	DefaultFocalColor  = "red"
)

// Config contains the pacing options of the reader.
type Config struct {
	Rate        int           `yaml:"rate" env:"SPEEDREAD_RATE" envDefault:"250" validate:"gt=0,lte=2000"`
	SkipBack    int           `yaml:"skip_back" env:"SPEEDREAD_SKIP_BACK" envDefault:"10" validate:"gte=1"`
	SettleDelay time.Duration `yaml:"settle_delay" env:"SPEEDREAD_SETTLE_DELAY" envDefault:"1s" validate:"gte=0"`
	ShortPause  float64       `yaml:"short_pause" env:"SPEEDREAD_SHORT_PAUSE" envDefault:"1.9" validate:"gte=1"`
	LongPause   float64       `yaml:"long_pause" env:"SPEEDREAD_LONG_PAUSE" envDefault:"2.4" validate:"gte=1"`

	AutoPlay   bool   `yaml:"autoplay" env:"SPEEDREAD_AUTOPLAY" envDefault:"false"`
	FocalColor string `yaml:"focal_color" env:"SPEEDREAD_FOCAL_COLOR" envDefault:"red" validate:"required"`
}

// FocalColors are the named colors accepted for the focal letter. Hex values
// such as "#ff5f87" are accepted as well.
var FocalColors = []string{"black", "red", "green", "yellow", "blue", "magenta", "cyan", "white"}

// DefaultConfig returns a Config with the stock reader settings.
func DefaultConfig() Config {
	return Config{
		Rate:        DefaultRate,
		SkipBack:    DefaultSkipBack,
		SettleDelay: DefaultSettleDelay,
		ShortPause:  DefaultShortPause,
		LongPause:   DefaultLongPause,
		FocalColor:  DefaultFocalColor,
	}
}

var validate = validator.New()

// Validate checks the configuration and normalizes the focal color.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	color := strings.ToLower(strings.TrimSpace(c.FocalColor))
	if strings.HasPrefix(color, "#") {
		if err := validate.Var(color, "hexcolor"); err != nil {
			return fmt.Errorf("%w: focal color %q is not a hex color", ErrInvalidConfig, c.FocalColor)
		}
		c.FocalColor = color
		return nil
	}
	for _, name := range FocalColors {
		if color == name {
			c.FocalColor = color
			return nil
		}
	}
	return fmt.Errorf("%w: focal color %q must be one of %v or a hex value", ErrInvalidConfig, c.FocalColor, FocalColors)
}

// Pacing returns the pacing described by the configuration.
func (c Config) Pacing() Pacing {
	return Pacing{
		Base:  BaseDelay(c.Rate),
		Short: c.ShortPause,
		Long:  c.LongPause,
	}
}
