package rsvp

import (
	"fmt"

	"github.com/spf13/viper"
)

// LoadConfigFromViper reads the reader section of the configuration.
func LoadConfigFromViper() (Config, error) {
	cfg := DefaultConfig()

	if viper.IsSet("reader.rate") {
		cfg.Rate = viper.GetInt("reader.rate")
	}
	if viper.IsSet("reader.skip_back") {
		cfg.SkipBack = viper.GetInt("reader.skip_back")
	}
	if viper.IsSet("reader.settle_delay") {
		cfg.SettleDelay = viper.GetDuration("reader.settle_delay")
	}
	if viper.IsSet("reader.short_pause") {
		cfg.ShortPause = viper.GetFloat64("reader.short_pause")
	}
	if viper.IsSet("reader.long_pause") {
		cfg.LongPause = viper.GetFloat64("reader.long_pause")
	}
	if viper.IsSet("reader.autoplay") {
		cfg.AutoPlay = viper.GetBool("reader.autoplay")
	}
	if viper.IsSet("reader.focal_color") {
		cfg.FocalColor = viper.GetString("reader.focal_color")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("reader configuration: %w", err)
	}
	return cfg, nil
}

// SetDefaults registers the reader defaults with Viper.
func SetDefaults() {
	defaults := DefaultConfig()

	viper.SetDefault("reader.rate", defaults.Rate)
	viper.SetDefault("reader.skip_back", defaults.SkipBack)
	viper.SetDefault("reader.settle_delay", defaults.SettleDelay.String())
	viper.SetDefault("reader.short_pause", defaults.ShortPause)
	viper.SetDefault("reader.long_pause", defaults.LongPause)
	viper.SetDefault("reader.autoplay", defaults.AutoPlay)
	viper.SetDefault("reader.focal_color", defaults.FocalColor)
}
