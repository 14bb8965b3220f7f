package triestore

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOnEmptyStoreFails(t *testing.T) {
	s := New()
	_, ok := Get[int](s, "missing")
	assert.False(t, ok)
}

func TestPutThenGet(t *testing.T) {
	s := New()
	Put(s, "key", 42)

	g, ok := Get[int](s, "key")
	require.True(t, ok)
	assert.Equal(t, 42, g.Value())
}

func TestRemoveUnbindsKey(t *testing.T) {
	s := New()
	Put(s, "key", 1)
	Remove(s, "key")

	_, ok := Get[int](s, "key")
	assert.False(t, ok)
}

// TestSnapshotSurvivesOverwrite checks that a ValueGuard obtained before a
// Put that rebinds the same key keeps returning the value it was handed,
// since the guard retains the trie snapshot that owns it.
func TestSnapshotSurvivesOverwrite(t *testing.T) {
	s := New()
	Put(s, "key", 1)

	g, ok := Get[int](s, "key")
	require.True(t, ok)

	Put(s, "key", 2)

	assert.Equal(t, 1, g.Value())

	g2, ok := Get[int](s, "key")
	require.True(t, ok)
	assert.Equal(t, 2, g2.Value())
}

func TestConcurrentPutsAllLand(t *testing.T) {
	s := New()
	const n = 50

	done := make(chan struct{})
	for i := 0; i < n; i++ {
		go func(i int) {
			Put(s, "k"+strconv.Itoa(i), i)
			done <- struct{}{}
		}(i)
	}
	for i := 0; i < n; i++ {
		<-done
	}

	for i := 0; i < n; i++ {
		g, ok := Get[int](s, "k"+strconv.Itoa(i))
		assert.True(t, ok)
		assert.Equal(t, i, g.Value())
	}
}

func TestDifferentValueTypesCoexist(t *testing.T) {
	s := New()
	Put(s, "int", 1)
	Put(s, "str", "hello")

	gi, ok := Get[int](s, "int")
	require.True(t, ok)
	assert.Equal(t, 1, gi.Value())

	gs, ok := Get[string](s, "str")
	require.True(t, ok)
	assert.Equal(t, "hello", gs.Value())

	_, ok = Get[string](s, "int")
	assert.False(t, ok)
}
