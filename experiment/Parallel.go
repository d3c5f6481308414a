package experiment

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// RunParallel runs each experiment in its own goroutine and waits for
// all of them to finish. Experiments must not share environments or
// agents. The returned error joins the errors of all failed
// experiments.
func RunParallel(ctx context.Context, exps ...Experiment) error {
	errs := make([]error, len(exps))

	var wg sync.WaitGroup
	wg.Add(len(exps))
	for i := range exps {
		go func(i int) {
			defer wg.Done()
			if err := exps[i].Run(ctx); err != nil {
				errs[i] = fmt.Errorf("experiment %d: %w", i, err)
			}
		}(i)
	}
	wg.Wait()

	return errors.Join(errs...)
}
