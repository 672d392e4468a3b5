package ahocorasick

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// SearchBatch runs Search over every haystack concurrently and returns the
// results in input order. The automaton is shared by all scans. Once ctx is
// done no further haystacks are started and ctx.Err() is returned.
func (ac *AhoCorasick) SearchBatch(ctx context.Context, haystacks [][]byte, overlapping bool) ([][]Match, error) {
	if overlapping {
		if err := ac.checkOverlapping(); err != nil {
			return nil, err
		}
	}

	results := make([][]Match, len(haystacks))
	err := ac.forEach(ctx, len(haystacks), func(i int) error {
		matches, err := ac.Search(haystacks[i], overlapping)
		if err != nil {
			return err
		}
		results[i] = matches
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// MapStrings returns the non-overlapping matched text of every haystack, in
// input order. Haystacks are scanned concurrently.
func (ac *AhoCorasick) MapStrings(ctx context.Context, haystacks []string) ([][]string, error) {
	results := make([][]string, len(haystacks))
	err := ac.forEach(ctx, len(haystacks), func(i int) error {
		strs, err := ac.SearchStrings(haystacks[i], false)
		if err != nil {
			return err
		}
		results[i] = strs
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (ac *AhoCorasick) forEach(ctx context.Context, n int, fn func(i int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(i)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
