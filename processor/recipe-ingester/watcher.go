package recipeingester

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/c360studio/semrecipe/source/dereference"
)

const (
	// eventChannelBuffer is the size of the watch event channel.
	eventChannelBuffer = 100
)

// WatchConfig configures the saved-page inbox.
type WatchConfig struct {
	// Enabled controls whether the inbox is watched.
	Enabled bool `json:"enabled" schema:"type:bool,description:Watch a directory for saved recipe pages,category:advanced,default:false"`

	// Dir is the inbox directory.
	Dir string `json:"dir" schema:"type:string,description:Inbox directory for saved pages,category:advanced"`

	// Owner is recorded on drafts imported from the inbox.
	Owner string `json:"owner" schema:"type:string,description:Owner recorded on inbox drafts,category:advanced"`

	// DebounceDelay is how long to wait for more changes before processing.
	DebounceDelay string `json:"debounce_delay" schema:"type:string,description:Debounce delay before importing changed files,category:advanced,default:500ms"`
}

// DefaultWatchConfig returns default watch configuration.
func DefaultWatchConfig() WatchConfig {
	return WatchConfig{
		Enabled:       false,
		DebounceDelay: "500ms",
	}
}

// GetDebounceDelay returns the debounce delay as a duration.
func (c *WatchConfig) GetDebounceDelay() time.Duration {
	return parseDurationOrDefault(c.DebounceDelay, 500*time.Millisecond)
}

// InboxFile is a saved page ready to import.
type InboxFile struct {
	// Path is the absolute file path.
	Path string

	// ContentType is derived from the extension.
	ContentType string

	// Data is the file content as read when the change settled.
	Data []byte
}

// InboxWatcher watches a directory for saved pages and emits each new or
// changed file once its writes settle.
type InboxWatcher struct {
	config  WatchConfig
	dir     string
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	// Debouncing: collect changes before processing
	pendingMu sync.Mutex
	pending   map[string]struct{}

	// Content hashes of files already emitted
	hashMu sync.Mutex
	hashes map[string]string

	files chan InboxFile

	droppedEvents atomic.Int64
}

// NewInboxWatcher creates a watcher for config.Dir.
func NewInboxWatcher(config WatchConfig, logger *slog.Logger) (*InboxWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &InboxWatcher{
		config:  config,
		dir:     config.Dir,
		watcher: fsw,
		logger:  logger,
		pending: make(map[string]struct{}),
		hashes:  make(map[string]string),
		files:   make(chan InboxFile, eventChannelBuffer),
	}, nil
}

// Files returns the channel of settled inbox files. It is closed when the
// watcher stops.
func (w *InboxWatcher) Files() <-chan InboxFile {
	return w.files
}

// Start creates the inbox if needed, queues the files already in it and
// begins watching.
func (w *InboxWatcher) Start(ctx context.Context) error {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return err
	}
	if err := w.watcher.Add(w.dir); err != nil {
		return err
	}

	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return err
	}
	w.pendingMu.Lock()
	for _, e := range entries {
		if !e.IsDir() {
			w.pending[filepath.Join(w.dir, e.Name())] = struct{}{}
		}
	}
	w.pendingMu.Unlock()

	go w.processEvents(ctx)

	w.logger.Info("Recipe inbox watcher started",
		"dir", w.dir,
		"debounce", w.config.GetDebounceDelay())
	return nil
}

// Stop stops the watcher.
// The files channel is closed by processEvents when it exits.
func (w *InboxWatcher) Stop() error {
	return w.watcher.Close()
}

// processEvents handles fsnotify events with debouncing.
func (w *InboxWatcher) processEvents(ctx context.Context) {
	defer close(w.files)
	ticker := time.NewTicker(w.config.GetDebounceDelay())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", "error", err)

		case <-ticker.C:
			w.flushPending(ctx)
		}
	}
}

// handleFSEvent records writes to files with a readable extension.
func (w *InboxWatcher) handleFSEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
			w.hashMu.Lock()
			delete(w.hashes, event.Name)
			w.hashMu.Unlock()
		}
		return
	}
	w.pendingMu.Lock()
	w.pending[event.Name] = struct{}{}
	w.pendingMu.Unlock()
}

// flushPending emits the files whose content changed since last seen.
func (w *InboxWatcher) flushPending(ctx context.Context) {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	toProcess := w.pending
	w.pending = make(map[string]struct{})
	w.pendingMu.Unlock()

	for path := range toProcess {
		if ctx.Err() != nil {
			return
		}
		file, hash, ok := w.readChanged(path)
		if !ok || !w.send(file) {
			continue
		}
		w.hashMu.Lock()
		w.hashes[path] = hash
		w.hashMu.Unlock()
	}
}

// readChanged reads path if it is a supported file whose content differs
// from the last emitted version, and returns the new content hash.
func (w *InboxWatcher) readChanged(path string) (InboxFile, string, bool) {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return InboxFile{}, "", false
	}
	contentType := dereference.ContentTypeForPath(path)
	if contentType == "" {
		return InboxFile{}, "", false
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return InboxFile{}, "", false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		w.logger.Warn("Failed to read inbox file", "path", path, "error", err)
		return InboxFile{}, "", false
	}
	// Still being written; the next write event brings it back.
	if len(data) == 0 {
		return InboxFile{}, "", false
	}

	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])
	w.hashMu.Lock()
	seen := w.hashes[path] == hash
	w.hashMu.Unlock()
	if seen {
		return InboxFile{}, "", false
	}
	return InboxFile{Path: path, ContentType: contentType, Data: data}, hash, true
}

func (w *InboxWatcher) send(file InboxFile) bool {
	select {
	case w.files <- file:
		w.logger.Debug("Queued inbox file", "path", file.Path)
		return true
	default:
		dropped := w.droppedEvents.Add(1)
		w.logger.Warn("Inbox channel full, dropping file",
			"path", file.Path,
			"total_dropped", dropped)
		return false
	}
}

// DroppedEvents returns the number of files dropped due to channel overflow.
func (w *InboxWatcher) DroppedEvents() int64 {
	return w.droppedEvents.Load()
}
