package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dgnsrekt/speedread/rsvp"
)

type (
	wordMsg     string
	progressMsg struct{ position, total int }
	finishedMsg struct{}
	stateMsg    struct{ from, to rsvp.State }
)

// eventQueue hands engine callbacks to the Bubble Tea loop. Pushing never
// blocks, so callbacks made with the engine lock held cannot stall on a
// busy Update.
type eventQueue struct {
	mu     sync.Mutex
	items  []tea.Msg
	signal chan struct{}
	done   chan struct{}
	once   sync.Once
}

func newEventQueue() *eventQueue {
	return &eventQueue{
		signal: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

func (q *eventQueue) push(msg tea.Msg) {
	q.mu.Lock()
	q.items = append(q.items, msg)
	q.mu.Unlock()

	select {
	case q.signal <- struct{}{}:
	default:
	}
}

func (q *eventQueue) pop() (tea.Msg, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil, false
	}
	msg := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return msg, true
}

func (q *eventQueue) close() {
	q.once.Do(func() { close(q.done) })
}

// wait returns a command that delivers the next queued event.
func (q *eventQueue) wait() tea.Cmd {
	return func() tea.Msg {
		for {
			if msg, ok := q.pop(); ok {
				return msg
			}
			select {
			case <-q.signal:
			case <-q.done:
				return nil
			}
		}
	}
}

// queuePresenter forwards engine output to the queue.
type queuePresenter struct {
	q *eventQueue
}

func (p queuePresenter) Render(word string) {
	p.q.push(wordMsg(word))
}

func (p queuePresenter) OnProgress(position, total int) {
	p.q.push(progressMsg{position, total})
}

func (p queuePresenter) OnFinished() {
	p.q.push(finishedMsg{})
}

func (p queuePresenter) onStateChange(from, to rsvp.State) {
	p.q.push(stateMsg{from, to})
}
