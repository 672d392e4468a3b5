package ahocorasick

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestSearchBatch(t *testing.T) {
	ac, err := New([]string{"apple", "maple", "snapple"})
	require.NoError(t, err)

	haystacks := [][]byte{
		[]byte("Nobody likes maple in their apple flavored Snapple."),
		[]byte("nothing here"),
		[]byte("snapple"),
		nil,
	}

	got, err := ac.SearchBatch(context.Background(), haystacks, false)
	require.NoError(t, err)
	require.Len(t, got, len(haystacks))
	for i, h := range haystacks {
		want, err := ac.Search(h, false)
		require.NoError(t, err)
		assert.Equal(t, want, got[i], "haystack %d", i)
	}

	got, err = ac.SearchBatch(context.Background(), haystacks, true)
	require.NoError(t, err)
	assert.Equal(t, []Match{mk(2, 0, 7), mk(0, 2, 7)}, got[2])
}

func TestSearchBatch_ConfigurationError(t *testing.T) {
	opts := DefaultOptions()
	opts.MatchKind = LeftMostLongestMatch
	ac, err := NewBuilder(opts).Build([]string{"a"})
	require.NoError(t, err)

	got, err := ac.SearchBatch(context.Background(), [][]byte{[]byte("a")}, true)
	assert.ErrorIs(t, err, ErrOverlappingUnsupported)
	assert.Nil(t, got)
}

func TestSearchBatch_Canceled(t *testing.T) {
	ac, err := New([]string{"a"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := ac.SearchBatch(ctx, [][]byte{[]byte("a"), []byte("aa")}, false)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, got)
}

func TestMapStrings(t *testing.T) {
	opts := DefaultOptions()
	opts.MatchKind = LeftMostFirstMatch
	ac, err := NewBuilder(opts).Build([]string{"trans", "transformers", "form"})
	require.NoError(t, err)

	got, err := ac.MapStrings(context.Background(), []string{"transformers", "formal", "", "reform transit"})
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"trans", "form"},
		{"form"},
		{},
		{"form", "trans"},
	}, got)
}

func TestConcurrentSearch(t *testing.T) {
	patterns := manyPatterns(300)
	haystack := []byte{}
	for i := 0; i < 300; i += 7 {
		haystack = append(haystack, fmt.Sprintf("xx pattern-%05d yy ", i)...)
	}

	for _, impl := range implementations {
		opts := DefaultOptions()
		opts.Implementation = impl
		ac, err := NewBuilder(opts).Build(patterns)
		require.NoError(t, err)

		want, err := ac.Search(haystack, true)
		require.NoError(t, err)
		require.NotEmpty(t, want)

		var g errgroup.Group
		results := make([][]Match, 32)
		for i := range results {
			g.Go(func() error {
				got, err := ac.Search(haystack, true)
				results[i] = got
				return err
			})
		}
		require.NoError(t, g.Wait())
		for _, got := range results {
			assert.Equal(t, want, got, impl.String())
		}
	}
}
