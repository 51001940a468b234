// Package inbox watches a directory for prompt files via the .wingbeat
// directory. Dropping a file into the inbox queues its contents as a prompt;
// a stop signal file shuts the watch loop down.
package inbox

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// PromptInbox hands prompts dropped into the inbox directory to the caller.
type PromptInbox struct {
	wingbeatDir string

	mu         sync.RWMutex
	seen       map[string]bool
	stopSignal bool

	prompts chan string
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewPromptInbox creates a prompt inbox rooted at the given directory.
func NewPromptInbox(rootPath string) (*PromptInbox, error) {
	wingbeatDir := filepath.Join(rootPath, ".wingbeat")

	// Ensure directories exist
	dirs := []string{
		wingbeatDir,
		filepath.Join(wingbeatDir, "inbox"),
		filepath.Join(wingbeatDir, "signals"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	in := &PromptInbox{
		wingbeatDir: wingbeatDir,
		seen:        make(map[string]bool),
		prompts:     make(chan string, 64),
		done:        make(chan struct{}),
	}

	// Start file watcher for immediate pickup
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		// Continue without watcher - callers can use the Scan polling fallback
		return in, nil
	}
	in.watcher = watcher

	inboxDir := filepath.Join(wingbeatDir, "inbox")
	signalsDir := filepath.Join(wingbeatDir, "signals")
	if err := watcher.Add(inboxDir); err != nil {
		watcher.Close()
		in.watcher = nil
		return in, nil
	}
	watcher.Add(signalsDir)

	go in.watchInbox()

	return in, nil
}

// watchInbox monitors the inbox and signals directories.
func (in *PromptInbox) watchInbox() {
	for {
		select {
		case <-in.done:
			return
		case event, ok := <-in.watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Create == 0 && event.Op&fsnotify.Write == 0 {
				continue
			}
			base := filepath.Base(event.Name)
			if base == "stop" {
				in.mu.Lock()
				in.stopSignal = true
				in.mu.Unlock()
				continue
			}
			in.pickup(event.Name)
		case <-in.watcher.Errors:
			// Ignore errors, keep watching
		}
	}
}

// pickup reads a prompt file and queues its contents, once per file.
func (in *PromptInbox) pickup(path string) {
	if !strings.HasSuffix(path, ".txt") {
		return
	}

	in.mu.Lock()
	if in.seen[path] {
		in.mu.Unlock()
		return
	}
	in.seen[path] = true
	in.mu.Unlock()

	content, err := os.ReadFile(path)
	if err != nil {
		return
	}
	prompt := strings.TrimSpace(string(content))
	if prompt == "" {
		return
	}

	select {
	case in.prompts <- prompt:
	default:
		// Queue full; the file stays marked so Scan won't re-read it either.
	}
}

// Prompts returns the channel of queued prompt contents.
func (in *PromptInbox) Prompts() <-chan string {
	return in.prompts
}

// Scan walks the inbox directory and queues any unseen prompt files. It is
// the polling fallback for when the watcher is unavailable, and also picks
// up files dropped before the inbox was opened.
func (in *PromptInbox) Scan() error {
	inboxDir := filepath.Join(in.wingbeatDir, "inbox")
	entries, err := os.ReadDir(inboxDir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		in.pickup(filepath.Join(inboxDir, entry.Name()))
	}
	return nil
}

// ShouldStop returns true if a stop signal has been received.
func (in *PromptInbox) ShouldStop() bool {
	// Also check file directly in case watcher missed it
	stopPath := filepath.Join(in.wingbeatDir, "signals", "stop")
	if _, err := os.Stat(stopPath); err == nil {
		in.mu.Lock()
		in.stopSignal = true
		in.mu.Unlock()
	}

	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.stopSignal
}

// SendStop creates a stop signal file.
func (in *PromptInbox) SendStop() error {
	path := filepath.Join(in.wingbeatDir, "signals", "stop")
	return os.WriteFile(path, []byte(time.Now().Format(time.RFC3339)), 0644)
}

// ClearSignals removes all signal files and resets signal state.
func (in *PromptInbox) ClearSignals() {
	in.mu.Lock()
	defer in.mu.Unlock()

	in.stopSignal = false
	os.Remove(filepath.Join(in.wingbeatDir, "signals", "stop"))
}

// InboxDir returns the path prompts should be dropped into.
func (in *PromptInbox) InboxDir() string {
	return filepath.Join(in.wingbeatDir, "inbox")
}

// Close shuts down the inbox.
func (in *PromptInbox) Close() {
	close(in.done)
	if in.watcher != nil {
		in.watcher.Close()
	}
}
