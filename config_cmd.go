package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/charmbracelet/x/editor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/dgnsrekt/speedread/rsvp"
)

const defaultConfig = `# reader width in pixels, 0 keeps the last width of the session
width: 0
# mouse support for the progress bar
mouse: false
# treat sources as plain text instead of markdown
plain: false
# leave code blocks out of markdown sources
skip_code: false

reader:
  # words per minute
  rate: 250
  # words to rewind when going back
  skip_back: 10
  # pause before playback resumes after going back
  settle_delay: "1s"
  # delay multiplier for words ending in , or ;
  short_pause: 1.9
  # delay multiplier for words ending in . ? or !
  long_pause: 2.4
  # start reading as soon as the reader opens
  autoplay: false
  # color of the focal letter: a color name or a hex value
  focal_color: "red"
`

var dumpConfig bool

var configCmd = &cobra.Command{
	Use:     "config",
	Hidden:  false,
	Short:   "Edit the speedread config file",
	Long:    paragraph(fmt.Sprintf("\n%s the speedread config file. We’ll use EDITOR to determine which editor to use. If the config file doesn't exist, it will be created.", keyword("Edit"))),
	Example: paragraph("speedread config\nspeedread config --config path/to/config.yml\nspeedread config --dump"),
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if dumpConfig {
			return writeEffectiveConfig(cmd.OutOrStdout())
		}

		if err := ensureConfigFile(); err != nil {
			return err
		}

		c, err := editor.Cmd("speedread", configFile)
		if err != nil {
			return fmt.Errorf("unable to set config file: %w", err)
		}
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("unable to run command: %w", err)
		}

		fmt.Println("Wrote config file to:", configFile)
		return nil
	},
}

func init() {
	configCmd.Flags().BoolVar(&dumpConfig, "dump", false, "print the effective configuration instead of editing it")
}

// readerFile is the reader section as it appears in the config file.
type readerFile struct {
	Rate        int     `yaml:"rate"`
	SkipBack    int     `yaml:"skip_back"`
	SettleDelay string  `yaml:"settle_delay"`
	ShortPause  float64 `yaml:"short_pause"`
	LongPause   float64 `yaml:"long_pause"`
	AutoPlay    bool    `yaml:"autoplay"`
	FocalColor  string  `yaml:"focal_color"`
}

type configFileContent struct {
	Width    int        `yaml:"width"`
	Mouse    bool       `yaml:"mouse"`
	Plain    bool       `yaml:"plain"`
	SkipCode bool       `yaml:"skip_code"`
	Reader   readerFile `yaml:"reader"`
}

func effectiveConfig(reader rsvp.Config) configFileContent {
	return configFileContent{
		Width:    viper.GetInt("width"),
		Mouse:    viper.GetBool("mouse"),
		Plain:    viper.GetBool("plain"),
		SkipCode: viper.GetBool("skip_code"),
		Reader: readerFile{
			Rate:        reader.Rate,
			SkipBack:    reader.SkipBack,
			SettleDelay: reader.SettleDelay.String(),
			ShortPause:  reader.ShortPause,
			LongPause:   reader.LongPause,
			AutoPlay:    reader.AutoPlay,
			FocalColor:  reader.FocalColor,
		},
	}
}

func writeEffectiveConfig(w io.Writer) error {
	reader, err := rsvp.LoadConfigFromViper()
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(effectiveConfig(reader)); err != nil {
		return fmt.Errorf("unable to encode config: %w", err)
	}
	return enc.Close()
}

func ensureConfigFile() error {
	if configFile == "" {
		configFile = viper.GetViper().ConfigFileUsed()
		if err := os.MkdirAll(filepath.Dir(configFile), 0o755); err != nil { //nolint:gosec
			return fmt.Errorf("could not write configuration file: %w", err)
		}
	}

	if ext := path.Ext(configFile); ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("'%s' is not a supported configuration type: use '%s' or '%s'", ext, ".yaml", ".yml")
	}

	if _, err := os.Stat(configFile); errors.Is(err, fs.ErrNotExist) {
		// File doesn't exist yet, create all necessary directories and
		// write the default config file
		if err := os.MkdirAll(filepath.Dir(configFile), 0o700); err != nil {
			return fmt.Errorf("unable create directory: %w", err)
		}

		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("unable to create config file: %w", err)
		}
		defer func() { _ = f.Close() }()

		if _, err := f.WriteString(defaultConfig); err != nil {
			return fmt.Errorf("unable to write config file: %w", err)
		}
	} else if err != nil { // some other error occurred
		return fmt.Errorf("unable to stat config file: %w", err)
	}
	return nil
}
