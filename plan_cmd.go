package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	runewidth "github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/dgnsrekt/speedread/rsvp"
	"github.com/dgnsrekt/speedread/ui"
)

const planWordWidth = 24

var planSummary bool

var planCmd = &cobra.Command{
	Use:   "plan [SOURCE]",
	Short: "Print how a source will be paced",
	Long: paragraph(fmt.Sprintf("\n%s every word with its focal letter and how long it stays on screen, followed by the total reading time.",
		keyword("List"))),
	Example: paragraph("speedread plan README.md\nspeedread plan --rate 400 --summary notes.txt\ncat notes.md | speedread plan"),
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := openSource(args)
		if err != nil {
			return err
		}
		defer src.reader.Close() //nolint:errcheck

		content, _, err := readSource(src)
		if err != nil {
			return err
		}
		return printPlan(cmd.OutOrStdout(), content, planSummary)
	},
}

func init() {
	planCmd.Flags().BoolVarP(&planSummary, "summary", "s", false, "only print the totals")
}

// planEntry describes one word of the reading plan.
type planEntry struct {
	Word  string
	Focal int
	Pause rsvp.PauseClass
	Delay time.Duration
}

// buildPlan paces content with the given pacing.
func buildPlan(content string, pacing rsvp.Pacing) ([]planEntry, time.Duration) {
	words := rsvp.Tokenize(content)
	entries := make([]planEntry, 0, len(words))
	var total time.Duration
	for _, w := range words {
		d := pacing.Delay(w)
		total += d
		entries = append(entries, planEntry{
			Word:  w,
			Focal: rsvp.FocalIndex(w),
			Pause: rsvp.Classify(w),
			Delay: d,
		})
	}
	return entries, total
}

func printPlan(w io.Writer, content string, summary bool) error {
	cfg, err := rsvp.LoadConfigFromViper()
	if err != nil {
		return err
	}
	entries, total := buildPlan(content, cfg.Pacing())
	focal := ui.FocalStyle(cfg.FocalColor).Render

	if !summary {
		for i, e := range entries {
			left, f, right := rsvp.Split(e.Word)
			word := runewidth.FillRight(runewidth.Truncate(left+f+right, planWordWidth, "…"), planWordWidth)
			if _, err := fmt.Fprintf(w, "%6d  %s  %s %2d  %6s  %s\n",
				i+1, word, focal(f), e.Focal, e.Delay.Round(time.Millisecond), subtle(e.Pause.String()),
			); err != nil {
				return fmt.Errorf("unable to write plan: %w", err)
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return fmt.Errorf("unable to write plan: %w", err)
		}
	}

	_, err = fmt.Fprintf(w, "%s words at %s wpm, about %s\n",
		keyword(humanize.Comma(int64(len(entries)))),
		humanize.Comma(int64(cfg.Rate)),
		keyword(total.Round(time.Second).String()),
	)
	if err != nil {
		return fmt.Errorf("unable to write plan: %w", err)
	}
	return nil
}
