// Package main provides the entry point for the speedread CLI application.
package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/dgnsrekt/speedread/internal/text"
	"github.com/dgnsrekt/speedread/rsvp"
	"github.com/dgnsrekt/speedread/ui"
	"github.com/dgnsrekt/speedread/utils"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	readmeNames = []string{"README.md", "README", "Readme.md", "Readme", "readme.md", "readme"}
	configFile  string
	rate        int
	width       int
	autoplay    bool
	plain       bool
	skipCode    bool
	mouse       bool
	debug       bool

	rootCmd = &cobra.Command{
		Use:   "speedread [SOURCE|DIR]",
		Short: "Read text one word at a time, fast.",
		Long: paragraph(
			fmt.Sprintf("\nRead markdown and text in the terminal %s: words are flashed one at a time around a fixed focal point.", keyword("at speed")),
		),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.MaximumNArgs(1),
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveDefault
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: execute,
	}
)

// source provides a readable text source.
type source struct {
	reader io.ReadCloser
	URL    string
}

// sourceFromArg parses an argument and creates a readable source for it.
func sourceFromArg(arg string) (*source, error) {
	// from stdin
	if arg == "-" {
		return &source{reader: os.Stdin}, nil
	}

	// HTTP(S) URLs:
	if u, err := url.ParseRequestURI(arg); err == nil && strings.Contains(arg, "://") { //nolint:nestif
		if u.Scheme != "" {
			if u.Scheme != "http" && u.Scheme != "https" {
				return nil, fmt.Errorf("%s is not a supported protocol", u.Scheme)
			}
			// consumer of the source is responsible for closing the ReadCloser.
			resp, err := http.Get(u.String()) //nolint: noctx,bodyclose
			if err != nil {
				return nil, fmt.Errorf("unable to get url: %w", err)
			}
			if resp.StatusCode != http.StatusOK {
				_ = resp.Body.Close()
				return nil, fmt.Errorf("HTTP status %d", resp.StatusCode)
			}
			return &source{resp.Body, u.String()}, nil
		}
	}

	// a directory:
	if len(arg) == 0 {
		// use the current working dir if no argument was supplied
		arg = "."
	}
	st, err := os.Stat(arg)
	if err == nil && st.IsDir() {
		for _, v := range readmeNames {
			path := filepath.Join(arg, v)
			r, err := os.Open(path)
			if err != nil {
				continue
			}
			u, _ := filepath.Abs(path)
			return &source{r, u}, nil
		}
		return nil, errors.New("missing text source")
	}

	r, err := os.Open(arg)
	if err != nil {
		return nil, fmt.Errorf("unable to open file: %w", err)
	}
	u, err := filepath.Abs(arg)
	if err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("unable to get absolute path: %w", err)
	}
	return &source{r, u}, nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func validateOptions(cmd *cobra.Command) error {
	if cmd.Flags().Changed("config") {
		configFile = utils.ExpandPath(configFile)
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("unable to read config file: %w", err)
		}
		log.Debug("Using configuration file", "path", configFile)
	}

	// grab config values from Viper
	width = viper.GetInt("width")
	mouse = viper.GetBool("mouse")
	plain = viper.GetBool("plain")
	skipCode = viper.GetBool("skip_code")
	debug = viper.GetBool("debug")

	if debug {
		log.SetLevel(log.DebugLevel)
	}

	if width < 0 {
		return fmt.Errorf("width must not be negative, got %d", width)
	}

	// The reader section is validated here so every command fails early on a
	// bad config file.
	if _, err := rsvp.LoadConfigFromViper(); err != nil {
		return err
	}

	log.Debug("options validated", "command", cmd.Name(), "width", width, "plain", plain)
	return nil
}

func stdinIsPipe() (bool, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false, fmt.Errorf("unable to open file: %w", err)
	}
	if stat.Mode()&os.ModeCharDevice == 0 || stat.Size() > 0 {
		return true, nil
	}
	return false, nil
}

// openSource picks stdin when it is piped, otherwise the argument.
func openSource(args []string) (*source, error) {
	// if stdin is a pipe then use stdin for input. note that you can also
	// explicitly use a - to read from stdin.
	if yes, err := stdinIsPipe(); err != nil {
		return nil, err
	} else if yes && len(args) == 0 {
		return &source{reader: os.Stdin}, nil
	}

	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}
	return sourceFromArg(arg)
}

// readSource reads src and turns it into the text the reader shows.
func readSource(src *source) (string, bool, error) {
	b, err := io.ReadAll(src.reader)
	if err != nil {
		return "", false, fmt.Errorf("unable to read from reader: %w", err)
	}
	b = utils.RemoveFrontmatter(b)

	markdown := !plain && utils.IsMarkdownFile(src.URL)
	return text.Prepare(string(b), markdown, text.Options{SkipCode: skipCode}), markdown, nil
}

func execute(cmd *cobra.Command, args []string) error {
	src, err := openSource(args)
	if err != nil {
		return err
	}
	defer src.reader.Close() //nolint:errcheck

	content, markdown, err := readSource(src)
	if err != nil {
		return err
	}

	// Without a terminal there is nothing to flash words on, so print the
	// reading plan instead.
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return printPlan(cmd.OutOrStdout(), content, false)
	}

	path := ""
	if src.URL != "" && !isURL(src.URL) {
		path = src.URL
	}
	return runTUI(path, title(src), content, markdown)
}

func title(src *source) string {
	switch {
	case src.URL == "":
		return "stdin"
	case isURL(src.URL):
		return src.URL
	default:
		return filepath.Base(src.URL)
	}
}

func runTUI(path, name, content string, markdown bool) error {
	// Read environment to get debugging stuff
	cfg, err := env.ParseAs[ui.Config]()
	if err != nil {
		return fmt.Errorf("error parsing config: %v", err)
	}

	reader, err := rsvp.LoadConfigFromViper()
	if err != nil {
		return err
	}
	if viper.GetBool("autoplay") {
		reader.AutoPlay = true
	}

	cfg.Reader = reader
	cfg.Path = path
	cfg.Title = name
	cfg.Width = width
	cfg.EnableMouse = mouse
	cfg.Markdown = markdown
	cfg.SkipCode = skipCode

	// Run Bubble Tea program
	if _, err := ui.NewProgram(cfg, content).Run(); err != nil {
		return fmt.Errorf("unable to run tui program: %w", err)
	}

	return nil
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "write debug output to the log file")
	rootCmd.PersistentFlags().IntVarP(&rate, "rate", "r", rsvp.DefaultRate, "reading rate in words per minute")
	rootCmd.PersistentFlags().BoolVar(&plain, "plain", false, "treat the source as plain text, not markdown")
	rootCmd.PersistentFlags().BoolVar(&skipCode, "skip-code", false, "leave code blocks out of markdown sources")
	rootCmd.Flags().IntVarP(&width, "width", "w", 0, "reader width in pixels (0 keeps the last width)")
	rootCmd.Flags().BoolVarP(&autoplay, "autoplay", "a", false, "start reading immediately")
	rootCmd.Flags().BoolVarP(&mouse, "mouse", "m", false, "enable mouse support for the progress bar")

	// Config bindings
	_ = viper.BindPFlag("reader.rate", rootCmd.PersistentFlags().Lookup("rate"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("plain", rootCmd.PersistentFlags().Lookup("plain"))
	_ = viper.BindPFlag("skip_code", rootCmd.PersistentFlags().Lookup("skip-code"))
	_ = viper.BindPFlag("width", rootCmd.Flags().Lookup("width"))
	_ = viper.BindPFlag("autoplay", rootCmd.Flags().Lookup("autoplay"))
	_ = viper.BindPFlag("mouse", rootCmd.Flags().Lookup("mouse"))

	viper.SetDefault("width", 0)
	viper.SetDefault("mouse", false)
	viper.SetDefault("plain", false)
	viper.SetDefault("skip_code", false)
	rsvp.SetDefaults()

	rootCmd.AddCommand(configCmd, manCmd, planCmd, frameCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "speedread")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "speedread")}, dirs...)
	}

	if c := os.Getenv("SPEEDREAD_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("speedread")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("speedread")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "speedread.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
