package search

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/pawfetch/pawfetch/internal/domain"
	"github.com/pawfetch/pawfetch/internal/geo"
)

// Computation names used in logs and the stale_results_total metric.
const (
	compGeo       = "geo"
	compStates    = "states"
	compSearch    = "search"
	compLocations = "locations"
)

// spawn runs fn in a goroutine tracked by Wait. Must be called with e.mu held
// or before any goroutine could call Wait.
func (e *Engine) spawn(fn func()) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		fn()
	}()
}

// stale records a dropped result.
func (e *Engine) stale(comp string, gen, current uint64) {
	e.opts.Recorder.IncStaleResult(comp)
	e.log.Debug("discarding stale result", "computation", comp, "generation", gen, "current", current)
}

// failed reports a failure unless the engine is shutting down.
func (e *Engine) failed(action, toast string, err error) {
	if e.ctx.Err() != nil {
		return
	}
	e.log.Warn("computation failed", "action", action, "error", err.Error())
	e.opts.Toasts.Error(toast)
}

func (e *Engine) scheduleGeoLocked() {
	e.gen.geo++
	gen := e.gen.geo
	zip, radius := e.st.Filters.Zip, e.st.Filters.RadiusMeters
	e.spawn(func() {
		zips, err := e.geo.Resolve(e.ctx, zip, radius)
		e.mu.Lock()
		if gen != e.gen.geo {
			cur := e.gen.geo
			e.mu.Unlock()
			e.stale(compGeo, gen, cur)
			return
		}
		if err != nil {
			zips = nil
		}
		e.geoZips = zips
		changed := e.recombineLocked()
		e.mu.Unlock()
		if err != nil {
			e.failed("resolve_geo", fmt.Sprintf("Failed to find zip codes near %s.", zip), err)
		}
		if changed {
			e.notify()
		}
	})
}

func (e *Engine) scheduleStatesLocked() {
	e.gen.state++
	gen := e.gen.state
	states := slices.Clone(e.st.Filters.States)
	e.spawn(func() {
		zips, err := e.states.Resolve(e.ctx, states)
		e.mu.Lock()
		if gen != e.gen.state {
			cur := e.gen.state
			e.mu.Unlock()
			e.stale(compStates, gen, cur)
			return
		}
		if err != nil {
			zips = nil
		}
		e.stateZips = zips
		changed := e.recombineLocked()
		e.mu.Unlock()
		if err != nil {
			e.failed("resolve_states", "Failed to load zip codes for the selected states.", err)
		}
		if changed {
			e.notify()
		}
	})
}

// recombineLocked recomputes the zip filter and schedules a search when it
// changed.
func (e *Engine) recombineLocked() bool {
	zips, truncated := geo.Combine(e.geoZips, e.stateZips, e.opts.ZipCap)
	if truncated {
		e.opts.Recorder.IncZipFilterTruncation()
		e.log.Debug("zip filter truncated", "cap", e.opts.ZipCap)
	}
	if slices.Equal(zips, e.zipFilter) {
		return false
	}
	e.zipFilter = zips
	e.scheduleSearchLocked()
	return true
}

// scheduleSearchLocked supersedes any pending or running search and, once
// the age bounds are known, starts a new one after the debounce delay.
func (e *Engine) scheduleSearchLocked() {
	e.gen.search++
	gen := e.gen.search
	if e.pending != nil && e.pending.Stop() {
		e.wg.Done()
	}
	e.pending = nil
	if !e.bootstrapped {
		return
	}
	if e.opts.Debounce <= 0 {
		e.startSearchLocked(gen)
		return
	}
	e.wg.Add(1)
	var t *time.Timer
	t = time.AfterFunc(e.opts.Debounce, func() {
		defer e.wg.Done()
		e.mu.Lock()
		if e.pending == t {
			e.pending = nil
		}
		if gen != e.gen.search {
			e.mu.Unlock()
			return
		}
		e.startSearchLocked(gen)
		e.mu.Unlock()
	})
	e.pending = t
}

func (e *Engine) startSearchLocked(gen uint64) {
	q := BuildQuery(e.st, e.bounds, e.zipFilter, e.opts.PageSize)
	e.inflight++
	e.spawn(func() {
		dogs, total, err := e.fetchPage(q)
		e.mu.Lock()
		idle := e.doneLocked()
		if gen != e.gen.search {
			cur := e.gen.search
			e.mu.Unlock()
			e.stale(compSearch, gen, cur)
			if idle {
				e.notify()
			}
			return
		}
		if err != nil {
			dogs, total = nil, 0
		}
		e.dogs, e.total = dogs, total
		e.scheduleLocationsLocked()
		e.mu.Unlock()
		if err != nil {
			e.failed("search", "Failed to search dogs.", err)
		}
		e.notify()
	})
}

// fetchPage runs the search and resolves the ids into records in search order.
func (e *Engine) fetchPage(q domain.SearchQuery) ([]domain.Dog, int, error) {
	start := time.Now()
	res, err := e.api.SearchDogs(e.ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("search dogs: %w", err)
	}
	if len(res.ResultIDs) == 0 {
		return nil, res.Total, nil
	}
	found, err := e.api.DogsByIDs(e.ctx, res.ResultIDs)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch dog details: %w", err)
	}
	e.log.Debug("search completed", "total", res.Total, "ids", len(res.ResultIDs), "duration", time.Since(start).String())
	return OrderByIDs(res.ResultIDs, found), res.Total, nil
}

// OrderByIDs returns the records of dogs arranged in ids order. Ids without
// a record are skipped.
func OrderByIDs(ids []string, dogs []domain.Dog) []domain.Dog {
	byID := make(map[string]domain.Dog, len(dogs))
	for _, d := range dogs {
		byID[d.ID] = d
	}
	out := make([]domain.Dog, 0, len(ids))
	for _, id := range ids {
		if d, ok := byID[id]; ok {
			out = append(out, d)
		}
	}
	return out
}

// visibleZips lists the distinct zip codes of the current page in order.
func visibleZips(dogs []domain.Dog) []string {
	zips := make([]string, 0, len(dogs))
	for _, d := range dogs {
		zips = append(zips, d.ZipCode)
	}
	return domain.NormalizeSet(zips)
}

func (e *Engine) scheduleLocationsLocked() {
	e.gen.locations++
	gen := e.gen.locations
	zips := visibleZips(e.dogs)
	if len(zips) == 0 {
		e.setLocationsLocked(map[string]domain.Location{})
		return
	}
	e.inflight++
	e.spawn(func() {
		locs, err := e.api.LocationsByZip(e.ctx, zips)
		next := make(map[string]domain.Location, len(locs))
		for _, l := range locs {
			next[l.ZipCode] = l
		}
		e.mu.Lock()
		idle := e.doneLocked()
		if gen != e.gen.locations {
			cur := e.gen.locations
			e.mu.Unlock()
			e.stale(compLocations, gen, cur)
			if idle {
				e.notify()
			}
			return
		}
		changed := e.setLocationsLocked(next)
		e.mu.Unlock()
		if err != nil {
			e.failed("locations", "Failed to load location data.", err)
		}
		if changed || idle {
			e.notify()
		}
	})
}

// doneLocked ends one in-flight request and reports whether the engine is
// now idle.
func (e *Engine) doneLocked() bool {
	e.inflight--
	return e.inflight == 0 && e.pending == nil
}

// setLocationsLocked replaces the location map only when its content differs.
func (e *Engine) setLocationsLocked(next map[string]domain.Location) bool {
	if maps.Equal(next, e.locations) {
		return false
	}
	e.locations = next
	return true
}
