package urlsync

import (
	"net/url"
	"sync"

	"github.com/pawfetch/pawfetch/internal/logging"
	"github.com/pawfetch/pawfetch/internal/search"
)

// Engine is the part of the search engine the synchronizer drives.
type Engine interface {
	Snapshot() search.Snapshot
	Apply(search.State)
	Reset()
	OnChange(func())
}

// Location is the address the state is mirrored into. Replace swaps the
// query without adding a history entry.
type Location interface {
	Query() url.Values
	Replace(url.Values)
}

// MemoryLocation is a Location held in memory.
type MemoryLocation struct {
	mu       sync.Mutex
	query    url.Values
	replaced int
}

// NewMemoryLocation starts at the given query.
func NewMemoryLocation(q url.Values) *MemoryLocation {
	return &MemoryLocation{query: cloneValues(q)}
}

// Query returns a copy of the current query.
func (l *MemoryLocation) Query() url.Values {
	l.mu.Lock()
	defer l.mu.Unlock()
	return cloneValues(l.query)
}

// Replace swaps the query.
func (l *MemoryLocation) Replace(q url.Values) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.query = cloneValues(q)
	l.replaced++
}

// Replacements counts calls to Replace.
func (l *MemoryLocation) Replacements() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.replaced
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}

// Synchronizer keeps a Location and an Engine in step. The location is read
// once at Start; afterwards the engine is the source of truth and every
// change is written back.
type Synchronizer struct {
	engine Engine
	loc    Location
	logger logging.Logger

	once sync.Once
	mu   sync.Mutex
	last string
}

// New creates a synchronizer. A nil logger discards output.
func New(engine Engine, loc Location, logger logging.Logger) *Synchronizer {
	if logger == nil {
		logger = logging.Noop()
	}
	return &Synchronizer{engine: engine, loc: loc, logger: logger}
}

// Start hydrates the engine from the location and subscribes to changes.
// Calls after the first are no-ops.
func (s *Synchronizer) Start() {
	s.once.Do(func() {
		q := s.loc.Query()
		if IsReset(q) {
			s.logger.Debug("reset marker in location")
			s.engine.Reset()
		} else {
			snap := s.engine.Snapshot()
			s.engine.Apply(Hydrate(q, snap.State))
		}
		s.engine.OnChange(s.Reflect)
		s.Reflect()
	})
}

// Navigate handles a later navigation to q. Only the reset marker is
// honored; other parameters were consumed by the initial hydration.
func (s *Synchronizer) Navigate(q url.Values) {
	if !IsReset(q) {
		return
	}
	s.engine.Reset()
	s.Reflect()
}

// Reflect writes the current state into the location when it differs from
// the last write.
func (s *Synchronizer) Reflect() {
	snap := s.engine.Snapshot()
	q := Reflect(snap.State, snap.Bounds)
	enc := q.Encode()

	s.mu.Lock()
	defer s.mu.Unlock()
	if enc == s.last && !IsReset(s.loc.Query()) {
		return
	}
	s.last = enc
	s.loc.Replace(q)
	s.logger.Debug("location updated", "query", enc)
}

// Values returns the parameters for the current state.
func (s *Synchronizer) Values() url.Values {
	snap := s.engine.Snapshot()
	return Reflect(snap.State, snap.Bounds)
}
