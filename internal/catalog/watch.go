package catalog

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/trailmap/internal/debounce"
	"github.com/mesh-intelligence/trailmap/pkg/types"
)

// Holder publishes the current catalog to concurrent readers. Reloads
// replace the whole catalog, so a reader never sees a partial update.
type Holder struct {
	p atomic.Pointer[Catalog]

	mu      sync.Mutex
	subs    map[int]func(*Catalog)
	nextSub int
}

// NewHolder returns a Holder serving c.
func NewHolder(c *Catalog) *Holder {
	h := &Holder{}
	h.p.Store(c)
	return h
}

// Load returns the current catalog.
func (h *Holder) Load() *Catalog {
	return h.p.Load()
}

// Store replaces the current catalog and notifies subscribers.
func (h *Holder) Store(c *Catalog) {
	h.p.Store(c)
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, fn := range h.subs {
		fn(c)
	}
}

// Subscribe registers fn to be called with every catalog passed to Store.
// fn runs on the storing goroutine. The returned function unsubscribes.
func (h *Holder) Subscribe(fn func(*Catalog)) (unsubscribe func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs == nil {
		h.subs = make(map[int]func(*Catalog))
	}
	id := h.nextSub
	h.nextSub++
	h.subs[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs, id)
	}
}

// Trails returns the trails of the current catalog, or nil before one is
// stored.
func (h *Holder) Trails() []types.Trail {
	c := h.p.Load()
	if c == nil {
		return nil
	}
	return c.Trails()
}

// ErrBundledSource is returned when asked to watch the embedded data, which
// cannot change.
var ErrBundledSource = errors.New("bundled catalog cannot be watched")

// DefaultReloadDelay coalesces the burst of events an editor save produces.
const DefaultReloadDelay = 200 * time.Millisecond

// Watcher reloads a Source into a Holder when its files change. A reload
// that fails leaves the previous catalog in place.
type Watcher struct {
	src      Source
	holder   *Holder
	logger   *zap.Logger
	files    map[string]bool
	fs       *fsnotify.Watcher
	reload   *debounce.Debouncer[struct{}]
	onReload func(*Catalog, error)
}

type watchSettings struct {
	logger   *zap.Logger
	debounce []debounce.Option
	onReload func(*Catalog, error)
}

// WatchOption configures a Watcher.
type WatchOption func(*watchSettings)

// WithLogger sets the logger for reload outcomes.
func WithLogger(l *zap.Logger) WatchOption {
	return func(s *watchSettings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithReloadDelay sets the quiet period between the last file event and the
// reload.
func WithReloadDelay(d time.Duration) WatchOption {
	return func(s *watchSettings) {
		s.debounce = append(s.debounce, debounce.WithDelay(d))
	}
}

// WithReloadScheduler replaces the timer that drives reloads.
func WithReloadScheduler(sched debounce.Scheduler) WatchOption {
	return func(s *watchSettings) {
		s.debounce = append(s.debounce, debounce.WithScheduler(sched))
	}
}

// OnReload registers a callback invoked after every reload attempt with the
// new catalog or the error that kept the old one.
func OnReload(fn func(*Catalog, error)) WatchOption {
	return func(s *watchSettings) {
		s.onReload = fn
	}
}

// NewWatcher starts watching the directories that hold the files of src.
// Call Run to process events.
func NewWatcher(src Source, h *Holder, opts ...WatchOption) (*Watcher, error) {
	if src.Bundled() {
		return nil, ErrBundledSource
	}
	s := watchSettings{
		logger:   zap.NewNop(),
		debounce: []debounce.Option{debounce.WithDelay(DefaultReloadDelay)},
	}
	for _, opt := range opts {
		opt(&s)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	w := &Watcher{
		src:      src,
		holder:   h,
		logger:   s.logger,
		files:    make(map[string]bool),
		fs:       fw,
		onReload: s.onReload,
	}
	w.reload = debounce.New(func(struct{}) { w.Reload() }, s.debounce...)

	dirs := make(map[string]bool)
	for _, p := range []string{src.TrailsPath, src.ReviewsPath} {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("resolving %s: %w", p, err)
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	// Watch directories rather than files: editors often replace a file by
	// renaming a new one over it, which drops a watch held on the file.
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("watching %s: %w", dir, err)
		}
	}
	return w, nil
}

// Run processes file events until ctx is cancelled, then releases the
// watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()
	defer w.reload.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handle(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("catalog watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil || !w.files[abs] {
		return
	}
	w.logger.Debug("catalog file changed", zap.String("path", abs), zap.String("op", ev.Op.String()))
	w.reload.Push(struct{}{})
}

// Reload loads the source now and swaps it in on success.
func (w *Watcher) Reload() error {
	c, err := Load(w.src)
	if err != nil {
		w.logger.Warn("catalog reload failed, keeping previous catalog", zap.Error(err))
	} else {
		w.holder.Store(c)
		w.logger.Info("catalog reloaded", zap.Int("trails", c.Len()))
	}
	if w.onReload != nil {
		w.onReload(c, err)
	}
	return err
}
