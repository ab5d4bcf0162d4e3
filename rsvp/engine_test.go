package rsvp

import (
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"
)

type recordingPresenter struct {
	mu    sync.Mutex
	words []string
}

func (p *recordingPresenter) Render(word string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.words = append(p.words, word)
}

func (p *recordingPresenter) Words() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.words...)
}

func (p *recordingPresenter) Last() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.words) == 0 {
		return ""
	}
	return p.words[len(p.words)-1]
}

type progressEvent struct {
	position, total int
}

type recordingSink struct {
	mu       sync.Mutex
	progress []progressEvent
	finished int
	onFinish func()
}

func (s *recordingSink) OnProgress(position, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress = append(s.progress, progressEvent{position, total})
}

func (s *recordingSink) OnFinished() {
	s.mu.Lock()
	s.finished++
	fn := s.onFinish
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (s *recordingSink) Progress() []progressEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]progressEvent(nil), s.progress...)
}

func (s *recordingSink) Finished() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished
}

func newTestEngine(t *testing.T, text string) (*Engine, *recordingPresenter, *recordingSink, *manualScheduler) {
	t.Helper()
	p := &recordingPresenter{}
	s := &recordingSink{}
	sched := &manualScheduler{}
	e := NewEngine(p, s, WithScheduler(sched))
	if err := e.LoadText(text); err != nil {
		t.Fatalf("LoadText() error = %v", err)
	}
	return e, p, s, sched
}

func TestEnginePlayToCompletion(t *testing.T) {
	e, p, s, sched := newTestEngine(t, "The quick fox ran.")

	var transitions []State
	e.OnStateChange(func(_, to State) { transitions = append(transitions, to) })

	e.Play()
	if got := p.Words(); !reflect.DeepEqual(got, []string{"The"}) {
		t.Fatalf("first word not rendered synchronously, got %q", got)
	}

	sched.Advance(240 * time.Millisecond)
	sched.Advance(240 * time.Millisecond)
	sched.Advance(240 * time.Millisecond)
	if s.Finished() != 0 {
		t.Fatal("finished before last word elapsed")
	}
	sched.Advance(576 * time.Millisecond)

	wantWords := []string{"The", "quick", "fox", "ran."}
	if got := p.Words(); !reflect.DeepEqual(got, wantWords) {
		t.Errorf("rendered %q, want %q", got, wantWords)
	}

	wantDelays := []time.Duration{
		240 * time.Millisecond,
		240 * time.Millisecond,
		240 * time.Millisecond,
		576 * time.Millisecond,
	}
	if got := sched.Delays(); !reflect.DeepEqual(got, wantDelays) {
		t.Errorf("delays %v, want %v", got, wantDelays)
	}

	wantProgress := []progressEvent{{1, 4}, {2, 4}, {3, 4}, {4, 4}}
	if got := s.Progress(); !reflect.DeepEqual(got, wantProgress) {
		t.Errorf("progress %v, want %v", got, wantProgress)
	}

	if s.Finished() != 1 {
		t.Errorf("OnFinished called %d times, want 1", s.Finished())
	}
	if e.Position() != 0 {
		t.Errorf("Position() = %d, want 0", e.Position())
	}
	if e.State() != StateIdle {
		t.Errorf("State() = %v, want idle", e.State())
	}
	wantTransitions := []State{StatePlaying, StateFinished, StateIdle}
	if !reflect.DeepEqual(transitions, wantTransitions) {
		t.Errorf("transitions %v, want %v", transitions, wantTransitions)
	}
	if sched.Pending() != 0 {
		t.Errorf("%d timers pending after finish", sched.Pending())
	}
}

func TestEngineProgressStrictlyIncreasing(t *testing.T) {
	e, _, s, sched := newTestEngine(t, "one two three four five six seven")

	e.Play()
	sched.Advance(10 * time.Second)

	progress := s.Progress()
	if len(progress) != e.TokenCount() {
		t.Fatalf("OnProgress called %d times, want %d", len(progress), e.TokenCount())
	}
	for i := 1; i < len(progress); i++ {
		if progress[i].position <= progress[i-1].position {
			t.Errorf("progress not increasing at %d: %v", i, progress)
		}
	}
	if s.Finished() != 1 {
		t.Errorf("OnFinished called %d times, want 1", s.Finished())
	}
}

func TestEngineEmptyText(t *testing.T) {
	e, p, s, sched := newTestEngine(t, "")

	if e.TokenCount() != 1 {
		t.Fatalf("TokenCount() = %d, want 1", e.TokenCount())
	}

	e.Play()
	sched.Advance(time.Second)

	if got := p.Words(); !reflect.DeepEqual(got, []string{""}) {
		t.Errorf("rendered %q, want one empty word", got)
	}
	if s.Finished() != 1 {
		t.Errorf("OnFinished called %d times, want 1", s.Finished())
	}
}

func TestEnginePlayWithoutText(t *testing.T) {
	p := &recordingPresenter{}
	sched := &manualScheduler{}
	e := NewEngine(p, nil, WithScheduler(sched))

	e.Play()

	if e.State() != StateIdle {
		t.Errorf("State() = %v, want idle", e.State())
	}
	if len(p.Words()) != 0 || sched.Pending() != 0 {
		t.Error("Play without text should be a no-op")
	}
}

func TestEngineLoadTextWithoutPresenter(t *testing.T) {
	e := NewEngine(nil, nil, WithScheduler(&manualScheduler{}))

	if err := e.LoadText("hello world"); !errors.Is(err, ErrNoPresenter) {
		t.Errorf("LoadText() error = %v, want ErrNoPresenter", err)
	}
	if e.TokenCount() != 0 {
		t.Errorf("TokenCount() = %d, want 0", e.TokenCount())
	}
}

func TestEngineDoublePlayIsNoop(t *testing.T) {
	e, p, _, sched := newTestEngine(t, "a b c")

	e.Play()
	e.Play()

	if len(p.Words()) != 1 {
		t.Errorf("rendered %d words, want 1", len(p.Words()))
	}
	if sched.Pending() != 1 {
		t.Errorf("%d ticks pending, want 1", sched.Pending())
	}
}

func TestEnginePauseResume(t *testing.T) {
	e, p, _, sched := newTestEngine(t, "a b c d")

	e.Play()
	sched.Advance(240 * time.Millisecond)
	e.Pause()

	if e.State() != StatePaused {
		t.Fatalf("State() = %v, want paused", e.State())
	}
	if e.Position() != 2 {
		t.Fatalf("Position() = %d, want 2", e.Position())
	}

	sched.Advance(5 * time.Second)
	if got := len(p.Words()); got != 2 {
		t.Fatalf("rendered %d words while paused, want 2", got)
	}

	e.Play()
	if p.Last() != "c" {
		t.Errorf("resume rendered %q, want %q", p.Last(), "c")
	}
	if !e.IsPlaying() {
		t.Error("IsPlaying() = false after resume")
	}
}

func TestEnginePauseWhenNotPlaying(t *testing.T) {
	e, _, _, _ := newTestEngine(t, "a b")

	e.Pause()

	if e.State() != StateIdle {
		t.Errorf("State() = %v, want idle", e.State())
	}
}

func TestEngineStop(t *testing.T) {
	e, p, s, sched := newTestEngine(t, "a b c d")

	e.Play()
	sched.Advance(240 * time.Millisecond)
	e.Stop()
	e.Stop()

	if e.State() != StateIdle {
		t.Errorf("State() = %v, want idle", e.State())
	}
	if e.Position() != 0 {
		t.Errorf("Position() = %d, want 0", e.Position())
	}

	rendered := len(p.Words())
	sched.Advance(10 * time.Second)
	if len(p.Words()) != rendered {
		t.Error("stale tick rendered after Stop")
	}
	if s.Finished() != 0 {
		t.Error("OnFinished called after Stop")
	}
}

func TestEngineStaleTickIgnored(t *testing.T) {
	p := &recordingPresenter{}
	sched := &leakyScheduler{}
	e := NewEngine(p, nil, WithScheduler(sched))
	if err := e.LoadText("a b c"); err != nil {
		t.Fatal(err)
	}

	e.Play()
	e.Stop()
	sched.FireAll()

	if got := p.Words(); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("rendered %q, want only the first word", got)
	}
	if e.Position() != 0 || e.State() != StateIdle {
		t.Errorf("stale tick mutated state: position %d, state %v", e.Position(), e.State())
	}
}

func TestEngineLoadTextResets(t *testing.T) {
	e, p, _, sched := newTestEngine(t, "a b c d")

	e.Play()
	sched.Advance(240 * time.Millisecond)

	if err := e.LoadText("x y"); err != nil {
		t.Fatal(err)
	}
	if e.State() != StateIdle || e.Position() != 0 || e.TokenCount() != 2 {
		t.Errorf("after LoadText: state %v, position %d, tokens %d", e.State(), e.Position(), e.TokenCount())
	}

	rendered := len(p.Words())
	sched.Advance(time.Second)
	if len(p.Words()) != rendered {
		t.Error("tick from previous text fired after LoadText")
	}
}

func TestEngineBack(t *testing.T) {
	e, p, _, sched := newTestEngine(t, "w0 w1 w2 w3 w4 w5 w6 w7 w8 w9 w10 w11 w12 w13")

	e.Play()
	for i := 0; i < 12; i++ {
		sched.Advance(240 * time.Millisecond)
	}
	if e.Position() != 13 {
		t.Fatalf("Position() = %d, want 13", e.Position())
	}

	e.Back()

	if e.State() != StatePaused {
		t.Errorf("State() = %v, want paused", e.State())
	}
	if e.Position() != 3 {
		t.Errorf("Position() = %d, want 3", e.Position())
	}
	if p.Last() != "w3" {
		t.Errorf("Back rendered %q, want w3", p.Last())
	}

	sched.Advance(999 * time.Millisecond)
	if e.IsPlaying() {
		t.Fatal("resumed before settle delay")
	}
	sched.Advance(time.Millisecond)
	if !e.IsPlaying() {
		t.Fatal("did not resume after settle delay")
	}
	if p.Last() != "w3" {
		t.Errorf("resume rendered %q, want w3 again", p.Last())
	}
}

func TestEngineBackClampsAtZero(t *testing.T) {
	e, p, _, sched := newTestEngine(t, "a b c d")

	e.Play()
	sched.Advance(240 * time.Millisecond)
	e.Back()

	if e.Position() != 0 {
		t.Errorf("Position() = %d, want 0", e.Position())
	}
	if p.Last() != "a" {
		t.Errorf("Back rendered %q, want a", p.Last())
	}
}

func TestEngineBackAfterLastWord(t *testing.T) {
	p := &recordingPresenter{}
	sched := &manualScheduler{}
	cfg := DefaultConfig()
	cfg.SkipBack = 0
	e := NewEngine(p, nil, WithScheduler(sched), WithConfig(cfg))
	if err := e.LoadText("one"); err != nil {
		t.Fatalf("LoadText() error = %v", err)
	}

	e.Play()
	if e.Position() != 1 {
		t.Fatalf("Position() = %d, want 1", e.Position())
	}
	e.Back()

	if e.Position() != 0 {
		t.Errorf("Position() = %d, want 0", e.Position())
	}
	if p.Last() != "one" {
		t.Errorf("Back rendered %q, want one", p.Last())
	}
	if e.State() != StatePaused {
		t.Errorf("State() = %v, want paused", e.State())
	}
}

func TestEngineBackWithoutText(t *testing.T) {
	p := &recordingPresenter{}
	sched := &manualScheduler{}
	e := NewEngine(p, nil, WithScheduler(sched))

	e.Back()

	if e.State() != StateIdle || len(p.Words()) != 0 || sched.Pending() != 0 {
		t.Error("Back without text should be a no-op")
	}
}

func TestEngineBackResumeCancelled(t *testing.T) {
	tests := []struct {
		name  string
		act   func(e *Engine)
		state State
	}{
		{"pause", (*Engine).Pause, StatePaused},
		{"stop", (*Engine).Stop, StateIdle},
		{"load", func(e *Engine) { _ = e.LoadText("new text") }, StateIdle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _, _, sched := newTestEngine(t, "a b c d e f")

			e.Play()
			sched.Advance(480 * time.Millisecond)
			e.Back()
			sched.Advance(500 * time.Millisecond)
			tt.act(e)
			sched.Advance(2 * time.Second)

			if e.State() != tt.state {
				t.Errorf("State() = %v, want %v", e.State(), tt.state)
			}
		})
	}
}

func TestEngineBackTwiceReplacesResume(t *testing.T) {
	e, _, _, sched := newTestEngine(t, "a b c d e f")

	e.Play()
	e.Back()
	sched.Advance(600 * time.Millisecond)
	e.Back()
	sched.Advance(600 * time.Millisecond)

	if e.IsPlaying() {
		t.Fatal("first resume should have been replaced")
	}
	sched.Advance(400 * time.Millisecond)
	if !e.IsPlaying() {
		t.Fatal("second resume did not fire")
	}
}

func TestEngineSetWordIndex(t *testing.T) {
	e, p, _, _ := newTestEngine(t, "a b c d")

	if err := e.SetWordIndex(2); err != nil {
		t.Fatalf("SetWordIndex(2) error = %v", err)
	}
	if e.Position() != 2 || p.Last() != "c" {
		t.Errorf("position %d, rendered %q", e.Position(), p.Last())
	}
	if e.State() != StateIdle {
		t.Errorf("State() = %v, want idle", e.State())
	}

	for _, i := range []int{-1, 4, 100} {
		if err := e.SetWordIndex(i); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("SetWordIndex(%d) error = %v, want ErrIndexOutOfRange", i, err)
		}
	}
	if e.Position() != 2 {
		t.Errorf("failed seek moved position to %d", e.Position())
	}
}

func TestEngineSetWordIndexWithoutText(t *testing.T) {
	e := NewEngine(&recordingPresenter{}, nil, WithScheduler(&manualScheduler{}))

	if err := e.SetWordIndex(0); !errors.Is(err, ErrNoText) {
		t.Errorf("SetWordIndex() error = %v, want ErrNoText", err)
	}
}

func TestEngineSetWordIndexWhilePlaying(t *testing.T) {
	e, p, _, sched := newTestEngine(t, "a b c d e")

	e.Play()
	if err := e.SetWordIndex(3); err != nil {
		t.Fatal(err)
	}
	if !e.IsPlaying() {
		t.Fatal("seek changed state")
	}
	sched.Advance(240 * time.Millisecond)
	if p.Last() != "d" {
		t.Errorf("next tick rendered %q, want d", p.Last())
	}
}

func TestEngineSetRate(t *testing.T) {
	e, _, _, sched := newTestEngine(t, "a b c")

	e.Play()
	if err := e.SetRate(500); err != nil {
		t.Fatal(err)
	}
	sched.Advance(240 * time.Millisecond)

	delays := sched.Delays()
	want := []time.Duration{240 * time.Millisecond, 120 * time.Millisecond}
	if !reflect.DeepEqual(delays, want) {
		t.Errorf("delays %v, want %v", delays, want)
	}
	if e.Rate() != 500 {
		t.Errorf("Rate() = %d, want 500", e.Rate())
	}

	for _, bad := range []int{0, -10} {
		if err := e.SetRate(bad); !errors.Is(err, ErrInvalidRate) {
			t.Errorf("SetRate(%d) error = %v, want ErrInvalidRate", bad, err)
		}
	}
	if e.Rate() != 500 {
		t.Errorf("invalid rate changed Rate() to %d", e.Rate())
	}
}

func TestEngineWithConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rate = 300
	cfg.SkipBack = 2
	cfg.SettleDelay = 100 * time.Millisecond

	p := &recordingPresenter{}
	sched := &manualScheduler{}
	e := NewEngine(p, nil, WithScheduler(sched), WithConfig(cfg))
	if err := e.LoadText("a b c d e."); err != nil {
		t.Fatal(err)
	}

	e.Play()
	sched.Advance(3 * 200 * time.Millisecond)
	e.Back()
	if e.Position() != 2 {
		t.Errorf("Position() = %d, want 2", e.Position())
	}
	sched.Advance(100 * time.Millisecond)
	if !e.IsPlaying() {
		t.Error("did not resume after configured settle delay")
	}
}

func TestEngineFinishedHandlerCanReenter(t *testing.T) {
	p := &recordingPresenter{}
	sched := &manualScheduler{}
	s := &recordingSink{}
	e := NewEngine(p, s, WithScheduler(sched))
	s.onFinish = func() {
		if e.State() != StateIdle {
			t.Errorf("State() in OnFinished = %v, want idle", e.State())
		}
	}
	if err := e.LoadText("a"); err != nil {
		t.Fatal(err)
	}

	e.Play()
	sched.Advance(time.Second)

	if s.Finished() != 1 {
		t.Errorf("OnFinished called %d times, want 1", s.Finished())
	}
}

func TestEngineReplayAfterFinish(t *testing.T) {
	e, p, s, sched := newTestEngine(t, "a b")

	e.Play()
	sched.Advance(time.Second)
	e.Play()
	sched.Advance(time.Second)

	want := []string{"a", "b", "a", "b"}
	if got := p.Words(); !reflect.DeepEqual(got, want) {
		t.Errorf("rendered %q, want %q", got, want)
	}
	if s.Finished() != 2 {
		t.Errorf("OnFinished called %d times, want 2", s.Finished())
	}
}

func TestEngineCurrentAndTokens(t *testing.T) {
	e, _, _, _ := newTestEngine(t, "a b")

	if e.Current() != "" {
		t.Errorf("Current() = %q before playing", e.Current())
	}
	e.Play()
	if e.Current() != "a" {
		t.Errorf("Current() = %q, want a", e.Current())
	}

	tokens := e.Tokens()
	tokens[0] = "mutated"
	if e.Tokens()[0] != "a" {
		t.Error("Tokens() exposed internal slice")
	}
}

// leakyScheduler never cancels timers, so stopped ticks still fire.
type leakyScheduler struct {
	mu    sync.Mutex
	funcs []func()
}

type leakyTimer struct{}

func (leakyTimer) Stop() bool { return false }

func (s *leakyScheduler) AfterFunc(_ time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.funcs = append(s.funcs, f)
	return leakyTimer{}
}

func (s *leakyScheduler) FireAll() {
	s.mu.Lock()
	funcs := s.funcs
	s.funcs = nil
	s.mu.Unlock()
	for _, f := range funcs {
		f()
	}
}
