package browse

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/trailmap/internal/debounce"
	"github.com/mesh-intelligence/trailmap/internal/favorites"
	"github.com/mesh-intelligence/trailmap/pkg/types"
)

// TrailSource supplies the current trail collection. *catalog.Catalog and
// *catalog.Holder satisfy it.
type TrailSource interface {
	Trails() []types.Trail
}

// ErrNoFavorites is returned by favorite actions on a session opened
// without a favorites store.
var ErrNoFavorites = errors.New("session has no favorites store")

// Session is one user's browsing session. Dispatches are serialized, typed
// search text is debounced before it filters, and every new View is sent to
// the subscribers in dispatch order.
type Session struct {
	mu     sync.Mutex
	source TrailSource
	favs   *favorites.Store
	state  State
	search *debounce.Debouncer[string]
	logger *zap.Logger

	// notifyMu is taken before mu is released so that views reach
	// subscribers in the order they were produced.
	notifyMu sync.Mutex
	subs     map[int]func(View)
	nextSub  int
}

type sessionSettings struct {
	logger   *zap.Logger
	initial  State
	debounce []debounce.Option
}

// SessionOption configures a Session.
type SessionOption func(*sessionSettings)

// WithLogger sets the session logger.
func WithLogger(l *zap.Logger) SessionOption {
	return func(s *sessionSettings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithState starts the session from st instead of NewState.
func WithState(st State) SessionOption {
	return func(s *sessionSettings) {
		s.initial = st
	}
}

// WithSearchDelay sets the quiet period before typed search text applies.
func WithSearchDelay(d time.Duration) SessionOption {
	return func(s *sessionSettings) {
		s.debounce = append(s.debounce, debounce.WithDelay(d))
	}
}

// WithSearchScheduler replaces the timer that drives search debouncing.
func WithSearchScheduler(sched debounce.Scheduler) SessionOption {
	return func(s *sessionSettings) {
		s.debounce = append(s.debounce, debounce.WithScheduler(sched))
	}
}

// NewSession starts a session over source. favs may be nil, in which case
// nothing is marked as favorite and favorite actions fail.
func NewSession(source TrailSource, favs *favorites.Store, opts ...SessionOption) *Session {
	settings := sessionSettings{logger: zap.NewNop(), initial: NewState()}
	for _, opt := range opts {
		opt(&settings)
	}
	s := &Session{
		source: source,
		favs:   favs,
		state:  settings.initial,
		logger: settings.logger,
		subs:   make(map[int]func(View)),
	}
	s.search = debounce.New(s.applySearch, settings.debounce...)
	return s
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// View projects the current state.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projectLocked()
}

// Subscribe registers fn to receive every new View. Callbacks run on the
// dispatching goroutine and must not call back into the Session
// synchronously. The returned function unsubscribes.
func (s *Session) Subscribe(fn func(View)) (unsubscribe func()) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.notifyMu.Lock()
		defer s.notifyMu.Unlock()
		delete(s.subs, id)
	}
}

// Dispatch applies a and publishes the resulting View. Typed search text is
// recorded at once and applied after the debounce delay. Favorite toggles
// are written through to the favorites store.
func (s *Session) Dispatch(ctx context.Context, a Action) (View, error) {
	if a.Type == ActionToggleFavorite {
		return s.toggleFavorite(ctx, a.TrailID)
	}

	s.mu.Lock()
	next, err := Reduce(s.state, a)
	if err != nil {
		v := s.projectLocked()
		s.mu.Unlock()
		return v, err
	}
	s.state = next
	if a.Type == ActionTypeSearch {
		// Pushed under mu so the debouncer sees keystrokes in state order.
		s.search.Push(a.Value)
	}
	return s.commitLocked(), nil
}

// Refresh republishes the view, for example after the catalog reloaded.
func (s *Session) Refresh() View {
	s.mu.Lock()
	return s.commitLocked()
}

// FlushSearch applies pending search text immediately. It reports whether
// anything was pending.
func (s *Session) FlushSearch() bool {
	return s.search.Flush()
}

// Close cancels any pending search. Subscribers receive nothing further.
func (s *Session) Close() {
	s.search.Stop()
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	clear(s.subs)
}

func (s *Session) toggleFavorite(ctx context.Context, id int) (View, error) {
	if s.favs == nil {
		return s.View(), ErrNoFavorites
	}
	if _, err := s.favs.Toggle(ctx, id); err != nil {
		return s.View(), err
	}
	s.mu.Lock()
	return s.commitLocked(), nil
}

func (s *Session) applySearch(term string) {
	s.mu.Lock()
	if s.state.SearchInput != term || !s.state.SearchPending() {
		// Superseded by a clear or an explicit search.
		s.mu.Unlock()
		return
	}
	s.state, _ = Reduce(s.state, SetSearch(term))
	s.logger.Debug("search applied", zap.String("term", term))
	s.commitLocked()
}

// commitLocked projects the state, keeps the clamped page, and publishes
// the view. It must be called with mu held and releases it.
func (s *Session) commitLocked() View {
	v := s.projectLocked()
	s.state.Page = v.Page

	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()
	for _, fn := range s.subs {
		fn(v)
	}
	return v
}

func (s *Session) projectLocked() View {
	var favs FavoriteSet
	if s.favs != nil {
		favs = s.favs
	}
	return Project(s.source.Trails(), s.state, favs)
}
