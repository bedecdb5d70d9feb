package search

import (
	"slices"

	"github.com/pawfetch/pawfetch/internal/domain"
)

// change describes which inputs an update touched.
type change struct {
	geo    bool
	states bool
	search bool
}

func (c change) any() bool { return c.geo || c.states || c.search }

// update applies mutate to the state under the lock, schedules dependents of
// whatever changed and notifies listeners.
func (e *Engine) update(mutate func(st *State)) {
	e.mu.Lock()
	prev := e.st.clone()
	mutate(&e.st)
	e.normalizeLocked()
	c := diff(prev, e.st)
	if c.geo {
		e.scheduleGeoLocked()
	}
	if c.states {
		e.scheduleStatesLocked()
	}
	if c.search {
		e.scheduleSearchLocked()
	}
	e.mu.Unlock()

	if c.any() {
		e.notify()
	}
}

func diff(prev, next State) change {
	return change{
		geo:    prev.Filters.Zip != next.Filters.Zip || prev.Filters.RadiusMeters != next.Filters.RadiusMeters,
		states: !slices.Equal(prev.Filters.States, next.Filters.States),
		search: !slices.Equal(prev.Filters.Breeds, next.Filters.Breeds) ||
			prev.Filters.AgeRange != next.Filters.AgeRange ||
			prev.Sort != next.Sort ||
			prev.Offset != next.Offset,
	}
}

// normalizeLocked restores the state invariants after a mutation.
func (e *Engine) normalizeLocked() {
	st := &e.st
	st.Filters.Breeds = domain.NormalizeSet(st.Filters.Breeds)
	st.Filters.States = domain.NormalizeStates(st.Filters.States)
	if st.Filters.RadiusMeters < 0 {
		st.Filters.RadiusMeters = 0
	}
	if st.Sort.Validate() != nil {
		st.Sort = domain.DefaultSort()
	}
	if e.bootstrapped {
		if st.AgeSet {
			st.Filters.AgeRange = st.Filters.AgeRange.Clamp(e.bounds)
		} else {
			st.Filters.AgeRange = e.bounds
		}
	}
	st.Offset = domain.PageSpec{Offset: st.Offset, Size: e.opts.PageSize}.Align().Offset
}

// SetBreeds replaces the breed selection.
func (e *Engine) SetBreeds(breeds []string) {
	e.update(func(st *State) { st.Filters.Breeds = slices.Clone(breeds) })
}

// ToggleBreed adds or removes one breed.
func (e *Engine) ToggleBreed(breed string) {
	e.update(func(st *State) {
		if i := slices.Index(st.Filters.Breeds, breed); i >= 0 {
			st.Filters.Breeds = slices.Delete(slices.Clone(st.Filters.Breeds), i, i+1)
			return
		}
		st.Filters.Breeds = append(slices.Clone(st.Filters.Breeds), breed)
	})
}

// SetAgeRange narrows the age filter. The range is clamped into the observed
// bounds once they are known.
func (e *Engine) SetAgeRange(r domain.AgeRange) error {
	if err := r.Validate(); err != nil {
		return err
	}
	e.update(func(st *State) {
		st.Filters.AgeRange = r
		st.AgeSet = true
	})
	return nil
}

// SetZip sets the radius center.
func (e *Engine) SetZip(zip string) {
	e.update(func(st *State) { st.Filters.Zip = zip })
}

// SetRadius sets the radius in meters.
func (e *Engine) SetRadius(meters float64) {
	e.update(func(st *State) { st.Filters.RadiusMeters = meters })
}

// SetLocation sets center and radius together so the geo lookup runs once.
func (e *Engine) SetLocation(zip string, meters float64) {
	e.update(func(st *State) {
		st.Filters.Zip = zip
		st.Filters.RadiusMeters = meters
	})
}

// SetStates replaces the region selection.
func (e *Engine) SetStates(states []string) {
	e.update(func(st *State) { st.Filters.States = slices.Clone(states) })
}

// SetSort changes the ordering. A different ordering restarts at the first page.
func (e *Engine) SetSort(spec domain.SortSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	e.update(func(st *State) {
		if st.Sort != spec {
			st.Sort = spec
			st.Offset = 0
		}
	})
	return nil
}

// SetOffset moves to the page containing offset.
func (e *Engine) SetOffset(offset int) {
	e.update(func(st *State) { st.Offset = offset })
}

// NextPage advances one page when a following page exists.
func (e *Engine) NextPage() bool {
	moved := false
	e.update(func(st *State) {
		if st.Offset+e.opts.PageSize < e.total {
			st.Offset += e.opts.PageSize
			moved = true
		}
	})
	return moved
}

// PrevPage goes back one page when a preceding page exists.
func (e *Engine) PrevPage() bool {
	moved := false
	e.update(func(st *State) {
		if st.Offset-e.opts.PageSize >= 0 {
			st.Offset -= e.opts.PageSize
			moved = true
		}
	})
	return moved
}

// GoToPage jumps to the 1-based page n, clamped to the available pages.
func (e *Engine) GoToPage(n int) {
	e.update(func(st *State) {
		last := max(TotalPages(e.total, e.opts.PageSize), 1)
		n = min(max(n, 1), last)
		st.Offset = (n - 1) * e.opts.PageSize
	})
}

// Reset clears every filter, the sort and the page.
func (e *Engine) Reset() {
	e.update(func(st *State) { *st = DefaultState(e.bounds) })
}

// Apply replaces the whole state at once, as when restoring a shared link.
// Unlike SetSort it keeps the given offset.
func (e *Engine) Apply(next State) {
	next = next.clone()
	e.update(func(st *State) { *st = next })
}

// State returns a copy of the current input state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.st.clone()
}
