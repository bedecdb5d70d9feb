// Package favorites keeps the user's favorite dogs for the active session
// and the details derived from them.
package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/pawfetch/pawfetch/internal/domain"
	apperrors "github.com/pawfetch/pawfetch/internal/errors"
	"github.com/pawfetch/pawfetch/internal/logging"
	"github.com/pawfetch/pawfetch/internal/search"
)

// Key is the session key holding the favorite ids as a JSON array.
const Key = "pawfetch:favorites"

// ErrNoFavorites is returned by Match when nothing is selected.
var ErrNoFavorites = errors.New("no favorites selected")

// KV is the session storage the set is persisted into.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Catalog is the part of the remote API the store needs.
type Catalog interface {
	DogsByIDs(ctx context.Context, ids []string) ([]domain.Dog, error)
	Match(ctx context.Context, ids []string) (string, error)
}

// Options configures a Store.
type Options struct {
	Logger logging.Logger
	Toasts apperrors.ErrorHandler
}

// Store is the set of favorite dog ids. Every change is persisted and
// triggers a fresh detail fetch for the whole set.
type Store struct {
	kv     KV
	api    Catalog
	log    logging.Logger
	toasts apperrors.ErrorHandler

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// saveMu orders writes to kv; it is taken before mu.
	saveMu sync.Mutex

	mu        sync.Mutex
	ids       map[string]struct{}
	details   []domain.Dog
	gen       uint64
	loading   bool
	listeners []func()
}

// Open hydrates a store from kv and starts loading the details of any saved
// ids. Missing or unreadable data yields an empty set.
func Open(ctx context.Context, kv KV, api Catalog, opts Options) *Store {
	if opts.Logger == nil {
		opts.Logger = logging.Noop()
	}
	if opts.Toasts == nil {
		opts.Toasts = apperrors.Discard
	}
	sctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		kv:     kv,
		api:    api,
		log:    opts.Logger.With("component", "favorites"),
		toasts: opts.Toasts,
		ctx:    sctx,
		cancel: cancel,
		ids:    map[string]struct{}{},
	}
	for _, id := range s.load(ctx) {
		s.ids[id] = struct{}{}
	}
	if len(s.ids) > 0 {
		s.mu.Lock()
		s.refreshLocked()
		s.mu.Unlock()
	}
	return s
}

func (s *Store) load(ctx context.Context) []string {
	raw, ok, err := s.kv.Get(ctx, Key)
	if err != nil {
		s.log.Warn("failed to read favorites", "action", "load", "error", err.Error())
		return nil
	}
	if !ok {
		return nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		s.log.Warn("ignoring unreadable favorites", "action", "load", "error", err.Error())
		return nil
	}
	return domain.NormalizeSet(ids)
}

// OnChange registers fn to run after the set or its details change.
func (s *Store) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) notify() {
	s.mu.Lock()
	ls := slices.Clone(s.listeners)
	s.mu.Unlock()
	for _, fn := range ls {
		fn()
	}
}

// Toggle flips the membership of id, persists the set and reports whether id
// is now a favorite. A persistence failure is returned after the in-memory
// set has changed.
func (s *Store) Toggle(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	_, had := s.ids[id]
	if had {
		delete(s.ids, id)
	} else {
		s.ids[id] = struct{}{}
	}
	s.refreshLocked()
	s.mu.Unlock()

	err := s.persist(ctx)
	s.notify()
	return !had, err
}

// persist writes the current set. The set is read after saveMu is held so
// the last write to complete always carries the latest set.
func (s *Store) persist(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	s.mu.Lock()
	ids := s.sortedLocked()
	s.mu.Unlock()
	return s.save(ctx, ids)
}

func (s *Store) save(ctx context.Context, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode favorites: %w", err)
	}
	if err := s.kv.Set(ctx, Key, string(raw)); err != nil {
		s.log.Warn("failed to save favorites", "action", "save", "error", err.Error())
		s.toasts.Error("Failed to save favorites.")
		return fmt.Errorf("save favorites: %w", err)
	}
	return nil
}

// refreshLocked replaces the details of the current set. An empty set clears
// them without a request.
func (s *Store) refreshLocked() {
	s.gen++
	gen := s.gen
	ids := s.sortedLocked()
	if len(ids) == 0 {
		s.details = nil
		s.loading = false
		return
	}
	s.loading = true
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		dogs, err := s.api.DogsByIDs(s.ctx, ids)
		s.mu.Lock()
		if gen != s.gen {
			s.mu.Unlock()
			s.log.Debug("discarding stale favorite details", "generation", gen)
			return
		}
		if err != nil {
			dogs = nil
		}
		s.details = search.OrderByIDs(ids, dogs)
		s.loading = false
		s.mu.Unlock()
		if err != nil && s.ctx.Err() == nil {
			s.log.Warn("failed to load favorite details", "action", "details", "error", err.Error())
			s.toasts.Error("Failed to load favorite dogs.")
		}
		s.notify()
	}()
}

func (s *Store) sortedLocked() []string {
	if len(s.ids) == 0 {
		return nil
	}
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Has reports whether id is a favorite.
func (s *Store) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok
}

// IDs returns the favorite ids in ascending order.
func (s *Store) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedLocked()
}

// Len returns the size of the set.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

// Details returns the records of the favorites as last fetched.
func (s *Store) Details() []domain.Dog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.details)
}

// Loading reports whether a detail fetch is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Match asks the catalog to pick one of the favorites and returns its record.
func (s *Store) Match(ctx context.Context) (domain.Dog, error) {
	ids := s.IDs()
	if len(ids) == 0 {
		return domain.Dog{}, ErrNoFavorites
	}
	id, err := s.api.Match(ctx, ids)
	if err != nil {
		return domain.Dog{}, fmt.Errorf("match: %w", err)
	}
	dogs, err := s.api.DogsByIDs(ctx, []string{id})
	if err != nil {
		return domain.Dog{}, fmt.Errorf("load match %s: %w", id, err)
	}
	if len(dogs) == 0 {
		return domain.Dog{ID: id}, nil
	}
	return dogs[0], nil
}

// Wait blocks until in-flight detail fetches finish.
func (s *Store) Wait() { s.wg.Wait() }

// Close abandons in-flight fetches and waits for them to return.
func (s *Store) Close() {
	s.cancel()
	s.wg.Wait()
}
