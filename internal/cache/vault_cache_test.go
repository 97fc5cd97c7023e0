package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listing struct {
	Vaults []string `json:"vaults"`
	Total  int      `json:"total"`
}

func newCache(t *testing.T) *VaultCache {
	t.Helper()
	c, err := NewVaultCache(time.Minute, 1024)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestGetSet(t *testing.T) {
	c := newCache(t)

	var got listing
	hit, err := c.Get("missing", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set("k", listing{Vaults: []string{"a", "b"}, Total: 2}))
	hit, err = c.Get("k", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 2, got.Total)
}

func TestGetOrLoad(t *testing.T) {
	c := newCache(t)
	loads := 0
	load := func() (listing, error) {
		loads++
		return listing{Vaults: []string{"morpho"}, Total: 1}, nil
	}
	key := Key("morpho", "base", "tvl")

	first, err := GetOrLoad(context.Background(), c, key, load)
	require.NoError(t, err)
	second, err := GetOrLoad(context.Background(), c, key, load)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, loads)
}

func TestGetOrLoadErrorNotCached(t *testing.T) {
	c := newCache(t)
	loads := 0
	load := func() (listing, error) {
		loads++
		if loads == 1 {
			return listing{}, errors.New("upstream down")
		}
		return listing{Total: 3}, nil
	}

	_, err := GetOrLoad(context.Background(), c, "k", load)
	require.Error(t, err)
	v, err := GetOrLoad(context.Background(), c, "k", load)
	require.NoError(t, err)
	assert.Equal(t, 3, v.Total)
	assert.Equal(t, 2, loads)
}

func TestGetOrLoadWithoutCache(t *testing.T) {
	v, err := GetOrLoad(context.Background(), nil, "k", func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "a|b|", Key("a", "b", ""))
}
