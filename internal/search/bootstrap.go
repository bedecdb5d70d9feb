package search

import (
	"context"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/pawfetch/pawfetch/internal/domain"
)

// Bootstrap loads the breed list and the observed age bounds concurrently.
// Searches stay gated until the bounds are known; when they cannot be loaded
// the bounds stay [0,0] and no search runs. It returns the first failure;
// every failure has already been reported to the toast handler.
func (e *Engine) Bootstrap(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return e.loadBreeds(ctx) })
	g.Go(func() error { return e.loadBounds(ctx) })
	err := g.Wait()
	e.notify()
	return err
}

func (e *Engine) loadBreeds(ctx context.Context) error {
	breeds, err := e.api.Breeds(ctx)
	if err != nil {
		e.failed("load_breeds", "Failed to load breeds.", err)
		return fmt.Errorf("load breeds: %w", err)
	}
	breeds = slices.Clone(breeds)
	slices.Sort(breeds)
	e.mu.Lock()
	e.breeds = breeds
	e.mu.Unlock()
	return nil
}

func (e *Engine) loadBounds(ctx context.Context) error {
	bounds, err := e.fetchAgeBounds(ctx)
	if err != nil {
		e.mu.Lock()
		e.bounds = domain.AgeRange{}
		e.bootstrapped = false
		e.mu.Unlock()
		e.failed("load_age_bounds", "Failed to load the age range.", err)
		return fmt.Errorf("load age bounds: %w", err)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.bounds = bounds
	e.bootstrapped = true
	e.normalizeLocked()
	e.log.Info("age bounds loaded", "min", bounds.Min, "max", bounds.Max)
	e.scheduleSearchLocked()
	return nil
}

// fetchAgeBounds finds the youngest and the oldest dog with one-result
// searches sorted by age in each direction.
func (e *Engine) fetchAgeBounds(ctx context.Context) (domain.AgeRange, error) {
	var bounds domain.AgeRange
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		bounds.Min, err = e.extremeAge(gctx, domain.SortAsc)
		return err
	})
	g.Go(func() (err error) {
		bounds.Max, err = e.extremeAge(gctx, domain.SortDesc)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.AgeRange{}, err
	}
	if err := bounds.Validate(); err != nil {
		return domain.AgeRange{}, err
	}
	return bounds, nil
}

func (e *Engine) extremeAge(ctx context.Context, dir domain.SortDirection) (int, error) {
	res, err := e.api.SearchDogs(ctx, domain.SearchQuery{
		Size: 1,
		Sort: domain.SortSpec{Field: domain.SortByAge, Direction: dir}.Token(),
	})
	if err != nil {
		return 0, err
	}
	if len(res.ResultIDs) == 0 {
		return 0, nil
	}
	dogs, err := e.api.DogsByIDs(ctx, res.ResultIDs[:1])
	if err != nil {
		return 0, err
	}
	if len(dogs) == 0 {
		return 0, nil
	}
	return dogs[0].Age, nil
}
