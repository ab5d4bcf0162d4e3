package main

import (
	"fmt"
	"image/color"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/cobra"

	"github.com/dgnsrekt/speedread/internal/imagesurface"
	"github.com/dgnsrekt/speedread/rsvp"
	"github.com/dgnsrekt/speedread/rsvp/render"
	"github.com/dgnsrekt/speedread/utils"
)

var (
	frameWidth  float64
	frameOutput string
	frameFont   string
)

var frameCmd = &cobra.Command{
	Use:   "frame WORD",
	Short: "Render one word to a PNG image",
	Long: paragraph(fmt.Sprintf("\n%s a single word the way the reader shows it, with the focal letter under the anchor tick, and write it as PNG.",
		keyword("Draw"))),
	Example: paragraph("speedread frame reading\nspeedread frame --width 400 --output word.png acceleration\nspeedread frame -o - word > word.png\nspeedread frame --font ~/fonts/Inter.ttf reading"),
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reader, err := rsvp.LoadConfigFromViper()
		if err != nil {
			return err
		}
		if frameWidth <= 0 {
			return fmt.Errorf("width must be positive, got %v", frameWidth)
		}

		w := cmd.OutOrStdout()
		if frameOutput != "-" {
			f, err := os.Create(frameOutput)
			if err != nil {
				return fmt.Errorf("unable to create %s: %w", frameOutput, err)
			}
			defer f.Close() //nolint:errcheck
			w = f
		}

		if err := renderFrame(w, args[0], frameWidth, reader.FocalColor, frameFont); err != nil {
			return err
		}
		if frameOutput != "-" {
			log.Info("wrote frame", "word", args[0], "path", frameOutput)
			fmt.Fprintln(cmd.ErrOrStderr(), "Wrote frame to:", frameOutput)
		}
		return nil
	},
}

func init() {
	frameCmd.Flags().Float64VarP(&frameWidth, "width", "w", 260, "panel width in pixels")
	frameCmd.Flags().StringVarP(&frameOutput, "output", "o", "frame.png", "output file, - for stdout")
	frameCmd.Flags().StringVar(&frameFont, "font", "", "TrueType or OpenType font file (default Go Regular)")
}

// renderFrame draws word with the canvas presenter and encodes it as PNG.
// An empty fontPath keeps the built-in font.
func renderFrame(w io.Writer, word string, width float64, focalColor, fontPath string) error {
	palette := imagesurface.DefaultPalette()
	if c, err := parseColor(focalColor); err == nil {
		palette.Focal = c
	} else {
		log.Warn("unknown focal color, using default", "color", focalColor, "error", err)
	}

	opts := []imagesurface.Option{imagesurface.WithPalette(palette)}
	if fontPath != "" {
		data, err := os.ReadFile(utils.ExpandPath(fontPath))
		if err != nil {
			return fmt.Errorf("unable to read font: %w", err)
		}
		opts = append(opts, imagesurface.WithFont(data))
	}

	surface, err := imagesurface.New(opts...)
	if err != nil {
		return fmt.Errorf("unable to create surface: %w", err)
	}
	canvas := render.NewCanvas(width)
	canvas.Init(surface)
	canvas.Render(word)

	if err := surface.WritePNG(w); err != nil {
		return fmt.Errorf("unable to encode frame: %w", err)
	}
	return nil
}

var namedColors = map[string]string{
	"black":   "#000000",
	"red":     "#ff0000",
	"green":   "#00ff00",
	"yellow":  "#ffff00",
	"blue":    "#0000ff",
	"magenta": "#ff00ff",
	"cyan":    "#00ffff",
	"white":   "#ffffff",
}

func parseColor(s string) (color.Color, error) {
	if hex, ok := namedColors[s]; ok {
		s = hex
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return nil, fmt.Errorf("parse color %q: %w", s, err)
	}
	return c, nil
}
