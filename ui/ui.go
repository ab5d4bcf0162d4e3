// Package ui provides the terminal reader for speedread.
package ui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/dgnsrekt/speedread/internal/session"
	"github.com/dgnsrekt/speedread/rsvp"
	"github.com/dgnsrekt/speedread/rsvp/render"
)

const (
	statusMessageTimeout = time.Second * 3 // how long to show status messages like "copied!"
	ellipsis             = "…"

	// resizeStep is how much the panel grows or shrinks per key press, in
	// canvas units.
	resizeStep = 20
)

// NewProgram returns a new Tea program reading content.
func NewProgram(cfg Config, content string) *tea.Program {
	log.Debug(
		"Starting speedread",
		"rate", cfg.Reader.Rate,
		"markdown", cfg.Markdown,
		"path", cfg.Path,
	)

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	// Text piped on stdin leaves no keyboard, so read keys from the TTY.
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		opts = append(opts, tea.WithInputTTY())
	}
	if cfg.EnableMouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	store := session.NewStore()
	log.Debug("reader session started", "session", store.ID())
	m := newModel(cfg, content, store)
	return tea.NewProgram(m, opts...)
}

type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

type statusMessageTimeoutMsg struct{}

// overlay is what is drawn on top of the reader panel.
type overlay int

const (
	overlayNone overlay = iota
	overlaySearch
	overlayInfo
)

func (o overlay) String() string {
	return map[overlay]string{
		overlayNone:   "none",
		overlaySearch: "search",
		overlayInfo:   "info",
	}[o]
}

type model struct {
	cfg      Config
	keys     keyMap
	fatalErr error

	engine  *rsvp.Engine
	rates   *rsvp.RateController
	pacing  rsvp.Pacing
	events  *eventQueue
	canvas  *render.Canvas
	surface *termSurface
	watcher *fileWatcher

	store    *session.Store
	settings session.Settings

	// Snapshot of the engine, refreshed after every engine event.
	tokens    []string
	position  int
	state     rsvp.State
	remaining time.Duration
	counted   int // position remaining was computed for

	width      int
	height     int
	panelWidth float64
	fullscreen bool

	overlay overlay
	help    help.Model
	bar     progress.Model
	search  textinput.Model
	info    infoModel

	statusMessage      string
	statusMessageTimer *time.Timer
}

func newModel(cfg Config, content string, store *session.Store) model {
	events := newEventQueue()
	out := queuePresenter{q: events}
	engine := rsvp.NewEngine(out, out,
		rsvp.WithConfig(cfg.Reader),
		rsvp.WithLogger(log.Default().WithPrefix("rsvp")),
	)
	engine.OnStateChange(out.onStateChange)

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "find a word"
	search.CharLimit = 64

	m := model{
		cfg:     cfg,
		keys:    newKeyMap(),
		engine:  engine,
		rates:   rsvp.NewRateController(cfg.Reader.Rate),
		pacing:  cfg.Reader.Pacing(),
		events:  events,
		surface: newTermSurface(cfg.CellWidth, cfg.CellHeight, FocalStyle(cfg.Reader.FocalColor)),
		store:   store,
		help:    help.New(),
		bar: progress.New(
			progress.WithSolidFill(string(fuchsia)),
		),
		search: search,
		info:   newInfoModel(cfg.GlamourStyle),
	}

	settings, err := store.Load()
	if err != nil {
		log.Warn("unable to load reader geometry", "error", err)
	}
	if cfg.Width > 0 {
		settings, err = store.Update(func(s *session.Settings) { s.Width = cfg.Width })
		if err != nil {
			log.Warn("unable to save reader geometry", "error", err)
		}
	}
	m.settings = settings

	m.panelWidth = m.targetWidth()
	m.canvas = render.NewCanvas(m.panelWidth)
	m.canvas.Init(m.surface)
	m.bar.Width = m.surface.Cols()

	if err := engine.LoadText(content); err != nil {
		m.fatalErr = err
		return m
	}
	m.load()

	if cfg.WatchFile && cfg.Path != "" {
		w, err := newFileWatcher(cfg, cfg.ReloadInterval)
		if err != nil {
			log.Error("unable to watch source", "path", cfg.Path, "error", err)
		} else {
			m.watcher = w
		}
	}
	return m
}

func (m model) Init() tea.Cmd {
	log.Debug("Init() called", "tokens", len(m.tokens), "autoplay", m.cfg.Reader.AutoPlay)
	cmds := []tea.Cmd{m.events.wait()}
	if m.watcher != nil {
		cmds = append(cmds, m.watcher.wait())
	}
	if m.cfg.Reader.AutoPlay {
		cmds = append(cmds, playCmd(m.engine))
	}
	return tea.Batch(cmds...)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// If there's been an error, any key exits
	if m.fatalErr != nil {
		if _, ok := msg.(tea.KeyMsg); ok {
			return m.quit()
		}
	}

	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)

	// Window size is received when starting up and on every resize
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.search.Width = max(0, msg.Width-len(m.search.Prompt)-1)
		m.applyWidth()
		m.info.setSize(msg.Width, msg.Height)

	case wordMsg:
		m.canvas.Render(string(msg))
		m.sync()
		cmds = append(cmds, m.events.wait())

	case progressMsg, stateMsg:
		m.sync()
		cmds = append(cmds, m.events.wait())

	case finishedMsg:
		m.sync()
		cmds = append(cmds, m.events.wait(), m.showStatusMessage("finished", false))

	case reloadMsg:
		log.Debug("reloading source", "path", m.cfg.Path, "length", len(msg.text))
		if err := m.engine.LoadText(msg.text); err != nil {
			cmds = append(cmds, m.showStatusMessage(err.Error(), true))
		} else {
			m.canvas.Render("")
			m.load()
			cmds = append(cmds, m.showStatusMessage("reloaded", false))
		}
		cmds = append(cmds, m.watcher.wait())

	case errMsg:
		log.Error("reader error", "error", msg.err)
		cmds = append(cmds, m.showStatusMessage(msg.Error(), true))
		if m.watcher != nil {
			cmds = append(cmds, m.watcher.wait())
		}

	case statusMessageTimeoutMsg:
		m.statusMessage = ""

	default:
		if m.overlay == overlaySearch {
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.overlay {
	case overlaySearch:
		cmd = m.updateSearch(msg)
		return m, cmd
	case overlayInfo:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m.quit()
		case key.Matches(msg, m.keys.Close, m.keys.Info):
			m.overlay = overlayNone
		default:
			m.info, cmd = m.info.update(msg)
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.PlayPause):
		if m.engine.IsPlaying() {
			m.engine.Pause()
		} else {
			m.engine.Play()
		}

	case key.Matches(msg, m.keys.Stop):
		m.engine.Stop()

	case key.Matches(msg, m.keys.Back):
		m.engine.Back()

	case key.Matches(msg, m.keys.Forward):
		cmd = m.seek(min(m.position+m.cfg.Reader.SkipBack, len(m.tokens)-1))

	case key.Matches(msg, m.keys.Start):
		cmd = m.seek(0)

	case key.Matches(msg, m.keys.Faster):
		cmd = m.changeRate(m.rates.Next)

	case key.Matches(msg, m.keys.Slower):
		cmd = m.changeRate(m.rates.Previous)

	case key.Matches(msg, m.keys.Search):
		m.overlay = overlaySearch
		m.search.SetValue("")
		cmd = m.search.Focus()

	case key.Matches(msg, m.keys.Copy):
		cmd = m.copyWord()

	case key.Matches(msg, m.keys.Info):
		m.overlay = overlayInfo
		cmd = m.info.open(m.width, m.height)

	case key.Matches(msg, m.keys.Fullscreen):
		m.fullscreen = !m.fullscreen
		m.applyWidth()

	case key.Matches(msg, m.keys.Close):
		if m.fullscreen {
			m.fullscreen = false
			m.applyWidth()
		}

	case key.Matches(msg, m.keys.MoveUp):
		cmd = m.move(0, -1)
	case key.Matches(msg, m.keys.MoveDown):
		cmd = m.move(0, 1)
	case key.Matches(msg, m.keys.MoveLeft):
		cmd = m.move(-1, 0)
	case key.Matches(msg, m.keys.MoveRight):
		cmd = m.move(1, 0)

	case key.Matches(msg, m.keys.Wider):
		cmd = m.resize(resizeStep)
	case key.Matches(msg, m.keys.Narrower):
		cmd = m.resize(-resizeStep)

	case key.Matches(msg, m.keys.DockBottom):
		cmd = m.updateSettings(func(s *session.Settings) { s.DockingBottom = !s.DockingBottom })
	case key.Matches(msg, m.keys.DockRight):
		cmd = m.updateSettings(func(s *session.Settings) { s.DockingRight = !s.DockingRight })

	case key.Matches(msg, m.keys.Reset):
		cmd = m.resetLayout()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, cmd
}

func (m *model) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.overlay = overlayNone
		m.search.Blur()
		return nil
	case tea.KeyEnter:
		query := m.search.Value()
		m.overlay = overlayNone
		m.search.Blur()
		if strings.TrimSpace(query) == "" {
			return nil
		}
		i, ok := findWord(m.tokens, query, m.position)
		if !ok {
			return m.showStatusMessage(fmt.Sprintf("no match for %q", query), true)
		}
		return m.seek(i)
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return cmd
}

func (m *model) handleMouse(msg tea.MouseMsg) {
	if m.overlay != overlayNone || msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return
	}
	top, left := m.origin()
	row, x0, width := m.barBox()
	if msg.Y != top+row || msg.X < left+x0 || msg.X >= left+x0+width {
		return
	}
	percent := float64(msg.X-left-x0) / float64(width) * 100
	if err := m.engine.SetWordIndex(scrubIndex(len(m.tokens), percent)); err != nil {
		log.Debug("scrub ignored", "error", err)
	}
}

// scrubIndex maps a click on the progress bar to a word index.
func scrubIndex(total int, percent float64) int {
	percent = min(max(percent, 0), 100)
	i := int(float64(total) / 100 * percent)
	return min(max(i, 0), max(total-1, 0))
}

func (m *model) seek(i int) tea.Cmd {
	if err := m.engine.SetWordIndex(i); err != nil {
		return m.showStatusMessage(err.Error(), true)
	}
	return nil
}

func (m *model) changeRate(step func() (int, error)) tea.Cmd {
	wpm, err := step()
	if err != nil {
		return m.showStatusMessage(err.Error(), true)
	}
	if err := m.engine.SetRate(wpm); err != nil {
		return m.showStatusMessage(err.Error(), true)
	}
	m.pacing.Base = rsvp.BaseDelay(wpm)
	m.sync()
	m.recount()
	return m.showStatusMessage(m.rates.Format(), false)
}

func (m model) quit() (tea.Model, tea.Cmd) {
	m.engine.Stop()
	m.events.close()
	if m.statusMessageTimer != nil {
		m.statusMessageTimer.Stop()
	}
	if m.watcher != nil {
		m.watcher.close()
	}
	st := m.store.Stats()
	log.Debug("reader session ended",
		"session", m.store.ID(),
		"duration", time.Since(m.store.Started()).Round(time.Second),
		"reads", st.Hits+st.Misses,
		"writes", st.Writes,
	)
	return m, tea.Quit
}

// load takes a fresh copy of the engine's words. It runs only when text is
// loaded; the words do not change in between.
func (m *model) load() {
	m.tokens = m.engine.Tokens()
	m.position = m.engine.Position()
	m.state = m.engine.State()
	m.recount()
}

// recount computes the reading time left from the current position.
func (m *model) recount() {
	m.counted = m.position
	m.remaining = 0
	if m.position < len(m.tokens) {
		m.remaining = m.pacing.Total(m.tokens[m.position:])
	}
}

// sync copies the engine state the view depends on. Advancing by one word
// only subtracts that word's delay from the remaining time.
func (m *model) sync() {
	m.state = m.engine.State()
	m.position = m.engine.Position()
	switch {
	case m.position == m.counted:
	case m.position == m.counted+1 && m.counted < len(m.tokens):
		m.remaining -= m.pacing.Delay(m.tokens[m.counted])
		m.counted = m.position
	default:
		m.recount()
	}
}

// Perform stuff that needs to happen after an action the user should hear
// about. The returned command clears the message again.
func (m *model) showStatusMessage(msg string, isError bool) tea.Cmd {
	if isError {
		msg = errorStyle.Render(msg)
	}
	m.statusMessage = msg
	if m.statusMessageTimer != nil {
		m.statusMessageTimer.Stop()
	}
	m.statusMessageTimer = time.NewTimer(statusMessageTimeout)
	return waitForStatusMessageTimeout(m.statusMessageTimer)
}

func (m model) View() string {
	if m.fatalErr != nil {
		return errorView(m.fatalErr, true)
	}
	if m.overlay == overlayInfo {
		return m.info.view()
	}
	top, left := m.origin()
	return indent(m.bodyView(), left, top)
}

// bodyView is the reader panel plus whatever is shown under it.
func (m model) bodyView() string {
	var b strings.Builder
	b.WriteString(m.panelView())
	if m.overlay == overlaySearch {
		b.WriteString("\n" + m.search.View())
	}
	b.WriteString("\n" + helpViewStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m model) panelView() string {
	percent := 0.0
	if n := len(m.tokens); n > 0 {
		percent = float64(m.position) / float64(n)
	}
	inner := strings.Join([]string{
		m.surface.View(),
		m.bar.ViewAs(percent),
		m.statusView(m.surface.Cols()),
	}, "\n")

	style := frameStyle
	if m.state == rsvp.StatePlaying {
		style = activeFrameStyle
	}
	return style.Render(inner)
}

// barBox returns the progress bar row and first column relative to the
// panel origin, and its width in cells.
func (m model) barBox() (row, col, width int) {
	rows := len(m.surface.PlainRows())
	return 1 + rows, 1, m.surface.Cols()
}

func errorView(err error, fatal bool) string {
	exitMsg := "press any key to "
	if fatal {
		exitMsg += "exit"
	} else {
		exitMsg += "return"
	}
	s := fmt.Sprintf("%s\n\n%v\n\n%s",
		errorStyle.Render("ERROR"),
		err,
		statusStyle.Render(exitMsg),
	)
	return "\n" + indent(s, 3, 0)
}

// COMMANDS

func playCmd(e *rsvp.Engine) tea.Cmd {
	return func() tea.Msg {
		e.Play()
		return nil
	}
}

func waitForStatusMessageTimeout(t *time.Timer) tea.Cmd {
	return func() tea.Msg {
		<-t.C
		return statusMessageTimeoutMsg{}
	}
}

// ETC

// Lightweight version of reflow's indent function that also pads the top.
func indent(s string, n, top int) string {
	if s == "" {
		return s
	}
	l := strings.Split(s, "\n")
	b := strings.Builder{}
	b.WriteString(strings.Repeat("\n", max(0, top)))
	i := strings.Repeat(" ", max(0, n))
	for j, v := range l {
		b.WriteString(i + v)
		if j+1 < len(l) {
			b.WriteRune('\n')
		}
	}
	return b.String()
}
