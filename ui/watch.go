package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/dgnsrekt/speedread/internal/text"
	"github.com/dgnsrekt/speedread/utils"
)

type reloadMsg struct{ text string }

// fileWatcher reports changes to the source file. Editors tend to write a
// file several times in a row, so reloads are rate limited.
type fileWatcher struct {
	path     string
	markdown bool
	opts     text.Options

	watcher *fsnotify.Watcher
	limiter *rate.Limiter
	ctx     context.Context
	cancel  context.CancelFunc
}

func newFileWatcher(cfg Config, interval time.Duration) (*fileWatcher, error) {
	path, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", cfg.Path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	// Watch the directory so replace-on-save editors are noticed.
	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	log.Info("fsnotify watching dir", "dir", dir)

	if interval <= 0 {
		interval = time.Millisecond
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &fileWatcher{
		path:     path,
		markdown: cfg.Markdown,
		opts:     text.Options{SkipCode: cfg.SkipCode},
		watcher:  w,
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// wait returns a command that blocks until the file changed and delivers
// its prepared text.
func (fw *fileWatcher) wait() tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case event, ok := <-fw.watcher.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(event.Name) != fw.path {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				log.Debug("fsnotify event", "file", event.Name, "event", event.Op)

				if err := fw.limiter.Wait(fw.ctx); err != nil {
					return nil
				}
				content, err := fw.read()
				if err != nil {
					return errMsg{err}
				}
				return reloadMsg{text: content}

			case err, ok := <-fw.watcher.Errors:
				if !ok {
					return nil
				}
				log.Debug("fsnotify error", "file", fw.path, "error", err)
			}
		}
	}
}

func (fw *fileWatcher) read() (string, error) {
	b, err := os.ReadFile(fw.path)
	if err != nil {
		return "", fmt.Errorf("reload %s: %w", fw.path, err)
	}
	return text.Prepare(string(utils.RemoveFrontmatter(b)), fw.markdown, fw.opts), nil
}

func (fw *fileWatcher) close() {
	fw.cancel()
	if err := fw.watcher.Close(); err != nil {
		log.Error("fsnotify fail to close watcher", "file", fw.path, "error", err)
	}
}
