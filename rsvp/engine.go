package rsvp

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Engine paces a loaded text through a Presenter one word at a time.
//
// All state is guarded by a single mutex. Each scheduled tick carries the
// epoch it was scheduled in; any operation that cancels playback bumps the
// epoch so a tick that fires late exits without touching state.
type Engine struct {
	presenter Presenter
	sink      ProgressSink
	scheduler Scheduler
	logger    *log.Logger

	mu       sync.Mutex
	machine  *StateMachine
	tokens   []string
	position int
	current  string
	rate     int
	pacing   Pacing
	skipBack int
	settle   time.Duration

	epoch     uint64
	tick      Timer
	resume    Timer
	resumeSeq uint64

	onStateChange func(from, to State)
}

// Option configures an Engine.
type Option func(*Engine)

// WithScheduler replaces the system timer scheduler.
func WithScheduler(s Scheduler) Option {
	return func(e *Engine) {
		if s != nil {
			e.scheduler = s
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithConfig applies the rate, skip and pause settings of cfg. The config is
// expected to be valid.
func WithConfig(cfg Config) Option {
	return func(e *Engine) {
		if cfg.Rate > 0 {
			e.rate = cfg.Rate
		}
		if cfg.ShortPause > 0 {
			e.pacing.Short = cfg.ShortPause
		}
		if cfg.LongPause > 0 {
			e.pacing.Long = cfg.LongPause
		}
		e.pacing.Base = BaseDelay(e.rate)
		e.skipBack = cfg.SkipBack
		e.settle = cfg.SettleDelay
	}
}

// NewEngine creates an idle engine. A nil sink discards progress.
func NewEngine(presenter Presenter, sink ProgressSink, opts ...Option) *Engine {
	if sink == nil {
		sink = SinkFuncs{}
	}
	e := &Engine{
		presenter: presenter,
		sink:      sink,
		scheduler: SystemScheduler{},
		logger:    log.New(io.Discard),
		machine:   NewStateMachine(),
		rate:      DefaultRate,
		pacing:    NewPacing(DefaultRate),
		skipBack:  DefaultSkipBack,
		settle:    DefaultSettleDelay,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.setupStateMachine()
	return e
}

func (e *Engine) setupStateMachine() {
	for _, s := range []State{StateIdle, StatePlaying, StatePaused, StateFinished} {
		to := s
		e.machine.OnEnter(to, func(from State) {
			e.logger.Debug("state change", "from", from, "to", to, "position", e.position)
			if e.onStateChange != nil {
				e.onStateChange(from, to)
			}
		})
	}
}

// OnStateChange registers an observer for state transitions. It runs with
// the engine lock held.
func (e *Engine) OnStateChange(fn func(from, to State)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onStateChange = fn
}

// LoadText replaces the token sequence, stops playback and rewinds to the
// first word.
func (e *Engine) LoadText(text string) error {
	if e.presenter == nil {
		return ErrNoPresenter
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.cancel()
	e.tokens = Tokenize(text)
	e.position = 0
	e.current = ""
	e.machine.Reset(StateIdle)
	e.logger.Debug("text loaded", "tokens", len(e.tokens))
	return nil
}

// Play starts or resumes playback. The next word is shown before Play
// returns. It is a no-op while playing or when no text is loaded.
func (e *Engine) Play() {
	e.mu.Lock()
	finished := e.play()
	e.mu.Unlock()

	if finished {
		e.sink.OnFinished()
	}
}

func (e *Engine) play() bool {
	e.cancelResume()
	if e.machine.Current() == StatePlaying || len(e.tokens) == 0 {
		return false
	}
	e.machine.Transition(StatePlaying)
	e.epoch++
	return e.step()
}

// Pause suspends playback at the current position.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cancelResume()
	if e.machine.Current() != StatePlaying {
		return
	}
	e.cancelTick()
	e.machine.Transition(StatePaused)
}

// Stop halts playback and rewinds to the first word.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cancel()
	e.position = 0
	e.machine.Reset(StateIdle)
}

// Back rewinds by the configured skip count, shows that word and resumes
// playback after the settle delay unless another transport call intervenes.
func (e *Engine) Back() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.tokens) == 0 {
		return
	}
	e.cancel()

	e.position = min(max(0, e.position-e.skipBack), len(e.tokens)-1)
	e.machine.Reset(StatePaused)
	e.show(e.tokens[e.position])

	seq := e.resumeSeq
	e.resume = e.scheduler.AfterFunc(e.settle, func() {
		e.mu.Lock()
		if seq != e.resumeSeq {
			e.mu.Unlock()
			return
		}
		e.resume = nil
		finished := e.play()
		e.mu.Unlock()

		if finished {
			e.sink.OnFinished()
		}
	})
}

// SetWordIndex moves to word i and shows it. The playback state is kept: a
// playing engine continues from i on its next tick.
func (e *Engine) SetWordIndex(i int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.tokens) == 0 {
		return ErrNoText
	}
	if i < 0 || i >= len(e.tokens) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, len(e.tokens))
	}
	e.position = i
	e.show(e.tokens[i])
	return nil
}

// SetRate changes the base rate. The pending tick keeps its delay.
func (e *Engine) SetRate(wpm int) error {
	if wpm <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidRate, wpm)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.rate = wpm
	e.pacing.Base = BaseDelay(wpm)
	return nil
}

// IsPlaying reports whether the engine is in StatePlaying.
func (e *Engine) IsPlaying() bool {
	return e.State() == StatePlaying
}

// State returns the playback state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.machine.Current()
}

// Position returns the index of the next word to be shown.
func (e *Engine) Position() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.position
}

// TokenCount returns the number of loaded words.
func (e *Engine) TokenCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.tokens)
}

// Tokens returns a copy of the loaded words.
func (e *Engine) Tokens() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.tokens...)
}

// Current returns the word most recently shown.
func (e *Engine) Current() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// Rate returns the base rate in words per minute.
func (e *Engine) Rate() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rate
}

// step shows the word at the current position and schedules the next tick.
// When the text is exhausted it settles the engine back to idle and reports
// true; the caller must invoke OnFinished after releasing the lock.
func (e *Engine) step() bool {
	if e.position >= len(e.tokens) {
		e.machine.Transition(StateFinished)
		e.position = 0
		e.tick = nil
		e.epoch++
		e.machine.Transition(StateIdle)
		e.logger.Debug("playback finished", "tokens", len(e.tokens))
		return true
	}

	word := e.tokens[e.position]
	e.position++
	delay := e.pacing.Delay(word)

	e.show(word)
	e.sink.OnProgress(e.position, len(e.tokens))

	epoch := e.epoch
	e.tick = e.scheduler.AfterFunc(delay, func() { e.onTick(epoch) })
	return false
}

func (e *Engine) onTick(epoch uint64) {
	e.mu.Lock()
	if epoch != e.epoch || e.machine.Current() != StatePlaying {
		e.mu.Unlock()
		return
	}
	e.tick = nil
	finished := e.step()
	e.mu.Unlock()

	if finished {
		e.sink.OnFinished()
	}
}

func (e *Engine) show(word string) {
	e.current = word
	e.presenter.Render(word)
}

// cancel invalidates the pending tick and any pending resume.
func (e *Engine) cancel() {
	e.cancelResume()
	e.cancelTick()
}

func (e *Engine) cancelTick() {
	e.epoch++
	if e.tick != nil {
		e.tick.Stop()
		e.tick = nil
	}
}

func (e *Engine) cancelResume() {
	e.resumeSeq++
	if e.resume != nil {
		e.resume.Stop()
		e.resume = nil
	}
}
