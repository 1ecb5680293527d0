package search

import (
	"context"
	"runtime"
	"sync"

	"github.com/thomhuang/happycamper/internal/geo"
)

type lookupJob struct {
	item *postalCodeItem
	err  error
}

// resolveAll looks up codes with a pool of workers, since a cache miss is a
// network round trip to the geocoder. The first failure cancels the lookups
// still queued and is returned alone.
func resolveAll(ctx context.Context, locator Locator, codes []string) ([]*postalCodeItem, error) {
	if len(codes) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// lookups are I/O bound
	numWorkers := min(runtime.NumCPU()*4, len(codes))

	var wg sync.WaitGroup
	jobs := make(chan string, numWorkers*2)
	results := make(chan lookupJob, numWorkers*2)

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for code := range jobs {
				loc, err := locator.Lookup(ctx, code)
				if err != nil {
					results <- lookupJob{err: err}
					continue
				}
				item := &postalCodeItem{loc: loc}
				item.rect = geo.PointRect(item.coord())
				results <- lookupJob{item: item}
			}
		}()
	}

	// results closes once every worker is done
	go func() {
		wg.Wait()
		close(results)
	}()

	// feed jobs until done or cancelled
	go func() {
		defer close(jobs)
		for _, code := range codes {
			select {
			case jobs <- code:
			case <-ctx.Done():
				return
			}
		}
	}()

	items := make([]*postalCodeItem, 0, len(codes))
	var firstErr error
	for res := range results {
		if firstErr != nil {
			continue
		}
		if res.err != nil {
			firstErr = res.err
			cancel()
			continue
		}
		items = append(items, res.item)
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return items, nil
}
