// Package favorites keeps the set of trail ids a user has marked, persisted
// as a JSON array under a single key of a types.KVStore.
package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/trailmap/internal/events"
	"github.com/mesh-intelligence/trailmap/pkg/types"
)

// Key is the storage key of the serialized favorites set.
const Key = "trail-favorites"

// Store is the favorites set. Membership checks are served from memory;
// every mutation is written through to the KVStore. Safe for concurrent
// use.
type Store struct {
	mu     sync.RWMutex
	kv     types.KVStore
	ids    map[int]struct{}
	logger *zap.Logger
	pub    events.Publisher
	now    func() time.Time

	subMu   sync.Mutex
	subs    map[int]func(id int, favorite bool)
	nextSub int
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithPublisher sends a FavoriteToggled event after each successful toggle.
func WithPublisher(p events.Publisher) Option {
	return func(s *Store) {
		if p != nil {
			s.pub = p
		}
	}
}

// Open reads the persisted set from kv. A missing key is an empty set. A
// value that does not decode as a list of ids is logged and treated as
// empty; it is overwritten by the next toggle.
func Open(ctx context.Context, kv types.KVStore, opts ...Option) (*Store, error) {
	s := &Store{
		kv:     kv,
		ids:    make(map[int]struct{}),
		logger: zap.NewNop(),
		pub:    events.Nop{},
		now:    time.Now,
		subs:   make(map[int]func(int, bool)),
	}
	for _, opt := range opts {
		opt(s)
	}

	raw, err := kv.Get(ctx, Key)
	switch {
	case errors.Is(err, types.ErrNotFound):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("reading favorites: %w", err)
	}

	var list []int
	if err := json.Unmarshal(raw, &list); err != nil {
		s.logger.Warn("ignoring malformed favorites value",
			zap.String("key", Key), zap.Error(err))
		return s, nil
	}
	for _, id := range list {
		s.ids[id] = struct{}{}
	}
	return s, nil
}

// Has reports whether id is a favorite.
func (s *Store) Has(id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[id]
	return ok
}

// List returns the favorite ids in ascending order.
func (s *Store) List() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedLocked()
}

// Len returns the number of favorites.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// Set returns a snapshot of the favorites for membership checks.
func (s *Store) Set() map[int]struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.ids)
}

// Toggle flips the membership of id and persists the set. It returns the
// new membership. If the write fails the change is rolled back and the
// error returned.
func (s *Store) Toggle(ctx context.Context, id int) (bool, error) {
	s.mu.Lock()
	_, was := s.ids[id]
	if was {
		delete(s.ids, id)
	} else {
		s.ids[id] = struct{}{}
	}
	if err := s.persistLocked(ctx); err != nil {
		if was {
			s.ids[id] = struct{}{}
		} else {
			delete(s.ids, id)
		}
		s.mu.Unlock()
		return was, fmt.Errorf("toggling favorite %d: %w", id, err)
	}
	s.mu.Unlock()

	now := !was
	s.logger.Debug("favorite toggled", zap.Int("trail_id", id), zap.Bool("favorite", now))
	ev := events.FavoriteToggled{TrailID: id, Favorite: now, At: s.now().UTC()}
	if err := s.pub.Publish(ctx, events.SubjectFavoriteToggled, ev); err != nil {
		s.logger.Warn("publishing favorite event failed", zap.Int("trail_id", id), zap.Error(err))
	}
	s.notify(id, now)
	return now, nil
}

// Subscribe registers fn to run after every successful toggle, from any
// caller. fn runs on the toggling goroutine without the store lock held,
// so it may read the store. The returned function unsubscribes.
func (s *Store) Subscribe(fn func(id int, favorite bool)) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) notify(id int, favorite bool) {
	s.subMu.Lock()
	fns := slices.Collect(maps.Values(s.subs))
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(id, favorite)
	}
}

func (s *Store) persistLocked(ctx context.Context) error {
	b, err := json.Marshal(s.sortedLocked())
	if err != nil {
		return fmt.Errorf("encoding favorites: %w", err)
	}
	return s.kv.Set(ctx, Key, b)
}

func (s *Store) sortedLocked() []int {
	out := slices.Collect(maps.Keys(s.ids))
	slices.Sort(out)
	if out == nil {
		out = []int{}
	}
	return out
}
