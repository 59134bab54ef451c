package tasks

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// forEach runs fn for every file on at most runtime.NumCPU() goroutines.
// After the first error no further file is started.
func forEach(parent context.Context, files []string, fn func(file string) error) error {
	g, ctx := errgroup.WithContext(parent)
	g.SetLimit(runtime.NumCPU())

	for _, file := range files {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn(file)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return parent.Err()
}
