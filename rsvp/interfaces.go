package rsvp

// Presenter displays one word at a time.
//
// Render is called with the engine lock held: implementations must return
// promptly and must not call back into the engine.
type Presenter interface {
	Render(word string)
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(word string)

// Render implements Presenter.
func (f PresenterFunc) Render(word string) { f(word) }

// ProgressSink receives playback progress.
//
// OnProgress runs with the engine lock held, like Presenter.Render.
// OnFinished runs after the lock is released and may call into the engine.
type ProgressSink interface {
	OnProgress(position, total int)
	OnFinished()
}

// SinkFuncs adapts optional functions to ProgressSink. Nil fields are
// skipped.
type SinkFuncs struct {
	Progress func(position, total int)
	Finished func()
}

// OnProgress implements ProgressSink.
func (s SinkFuncs) OnProgress(position, total int) {
	if s.Progress != nil {
		s.Progress(position, total)
	}
}

// OnFinished implements ProgressSink.
func (s SinkFuncs) OnFinished() {
	if s.Finished != nil {
		s.Finished()
	}
}
