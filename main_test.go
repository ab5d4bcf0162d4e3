package main

import (
	"bytes"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/dgnsrekt/speedread/rsvp"
	"github.com/dgnsrekt/speedread/ui"
)

func TestSourceFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.md")
	if err := os.WriteFile(path, []byte("# Notes\n\nread this"), 0o600); err != nil {
		t.Fatal(err)
	}

	src, err := sourceFromArg(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer src.reader.Close() //nolint:errcheck

	if src.URL != path {
		t.Errorf("expected %s, got %s", path, src.URL)
	}
	content, markdown, err := readSource(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !markdown {
		t.Error("a .md file should be read as markdown")
	}
	if content != "Notes read this" {
		t.Errorf("unexpected content %q", content)
	}
}

func TestSourceFromDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("hello"), 0o600); err != nil {
		t.Fatal(err)
	}

	src, err := sourceFromArg(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer src.reader.Close() //nolint:errcheck
	if filepath.Base(src.URL) != "README.md" {
		t.Errorf("expected the readme, got %s", src.URL)
	}

	if _, err := sourceFromArg(t.TempDir()); err == nil {
		t.Error("expected an error for a directory without a readme")
	}
}

func TestSourceUnsupportedProtocol(t *testing.T) {
	if _, err := sourceFromArg("ftp://example.com/file.md"); err == nil {
		t.Error("expected an error for ftp")
	}
}

func TestTitle(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"", "stdin"},
		{"https://example.com/a.md", "https://example.com/a.md"},
		{"/tmp/notes/a.md", "a.md"},
	}
	for _, tt := range tests {
		if got := title(&source{URL: tt.url}); got != tt.want {
			t.Errorf("title(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestBuildPlan(t *testing.T) {
	entries, total := buildPlan("Hi, world.", rsvp.NewPacing(250))

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Pause != rsvp.PauseShort || entries[1].Pause != rsvp.PauseLong {
		t.Errorf("unexpected pauses %s, %s", entries[0].Pause, entries[1].Pause)
	}
	if entries[0].Delay != 456*time.Millisecond {
		t.Errorf("expected 456ms, got %v", entries[0].Delay)
	}
	if entries[0].Focal != 1 || entries[1].Focal != 2 {
		t.Errorf("unexpected focal indexes %d, %d", entries[0].Focal, entries[1].Focal)
	}
	if total != 1032*time.Millisecond {
		t.Errorf("expected 1.032s, got %v", total)
	}
}

func TestPrintPlanSummary(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	var b bytes.Buffer
	if err := printPlan(&b, "one two three", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := b.String()
	if !strings.Contains(out, "3") || !strings.Contains(out, "250 wpm") {
		t.Errorf("unexpected summary %q", out)
	}
	if strings.Count(out, "\n") != 1 {
		t.Errorf("summary should be one line, got %q", out)
	}
}

func TestPrintPlanFocalColor(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	lipgloss.SetColorProfile(termenv.ANSI)
	t.Cleanup(func() { lipgloss.SetColorProfile(termenv.Ascii) })
	viper.Set("reader.focal_color", "blue")

	var b bytes.Buffer
	if err := printPlan(&b, "one", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := b.String()
	if !strings.Contains(out, ui.FocalStyle("blue").Render("n")) {
		t.Errorf("focal letter should use the configured color: %q", out)
	}
	if strings.Contains(out, ui.FocalStyle("red").Render("n")) {
		t.Errorf("focal letter still uses the default color: %q", out)
	}
}

func TestRenderFrame(t *testing.T) {
	var b bytes.Buffer
	if err := renderFrame(&b, "reading", 260, "red", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	img, err := png.Decode(&b)
	if err != nil {
		t.Fatalf("invalid png: %v", err)
	}
	if got := img.Bounds().Dx(); got != 260 {
		t.Errorf("expected width 260, got %d", got)
	}
	if got := img.Bounds().Dy(); got != 52 {
		t.Errorf("expected height 52, got %d", got)
	}
}

func TestRenderFrameBadFont(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.ttf")
	if err := os.WriteFile(path, []byte("not a font"), 0o600); err != nil {
		t.Fatal(err)
	}

	var b bytes.Buffer
	if err := renderFrame(&b, "reading", 260, "red", path); err == nil {
		t.Error("expected an error for an unparsable font")
	}
	if b.Len() != 0 {
		t.Error("nothing should be written when the font is rejected")
	}
	if err := renderFrame(&b, "reading", 260, "red", filepath.Join(t.TempDir(), "missing.ttf")); err == nil {
		t.Error("expected an error for a missing font")
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		r, g, b uint32
		wantErr bool
	}{
		{in: "red", r: 0xffff},
		{in: "#00ff00", g: 0xffff},
		{in: "nope", wantErr: true},
	}
	for _, tt := range tests {
		c, err := parseColor(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseColor(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("parseColor(%q): %v", tt.in, err)
		}
		r, g, b, _ := c.RGBA()
		if r != tt.r || g != tt.g || b != tt.b {
			t.Errorf("parseColor(%q) = %x %x %x", tt.in, r, g, b)
		}
	}
}

func TestEffectiveConfig(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("width", 400)

	var b bytes.Buffer
	if err := writeEffectiveConfig(&b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got configFileContent
	if err := yaml.NewDecoder(io.Reader(&b)).Decode(&got); err != nil {
		t.Fatalf("invalid yaml: %v", err)
	}
	if got.Width != 400 {
		t.Errorf("expected width 400, got %d", got.Width)
	}
	if got.Reader.Rate != rsvp.DefaultRate || got.Reader.SettleDelay != "1s" {
		t.Errorf("unexpected reader section %+v", got.Reader)
	}
}

func TestDefaultConfigParses(t *testing.T) {
	var got configFileContent
	if err := yaml.Unmarshal([]byte(defaultConfig), &got); err != nil {
		t.Fatalf("default config is not valid yaml: %v", err)
	}
	want := rsvp.DefaultConfig()
	if got.Reader.Rate != want.Rate || got.Reader.ShortPause != want.ShortPause || got.Reader.FocalColor != want.FocalColor {
		t.Errorf("default config drifted from the reader defaults: %+v", got.Reader)
	}
}
