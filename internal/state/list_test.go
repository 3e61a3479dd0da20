package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webspot/webspot/internal/domain"
)

func website(id, name string) *domain.Website {
	return &domain.Website{
		ID:        id,
		Name:      name,
		URL:       "https://" + name + ".example.com",
		CreatedAt: 1700000000000,
	}
}

func TestApplyAdded(t *testing.T) {
	l := NewList()
	l.Apply(Event{Kind: Added, Website: website("a", "alpha")})
	l.Apply(Event{Kind: Added, Website: website("b", "beta")})

	snap := l.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "a", snap[0].ID)
	assert.Equal(t, "b", snap[1].ID)
}

func TestApplyRemoved(t *testing.T) {
	l := NewList()
	l.Apply(Event{Kind: Added, Website: website("a", "alpha")})
	l.Apply(Event{Kind: Added, Website: website("b", "beta")})

	l.Apply(Event{Kind: Removed, ID: "a"})

	snap := l.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "b", snap[0].ID)
}

func TestApplyRemovedUnknownIDIsNoop(t *testing.T) {
	l := NewList()
	l.Apply(Event{Kind: Added, Website: website("a", "alpha")})

	l.Apply(Event{Kind: Removed, ID: "nope"})

	assert.Equal(t, 1, l.Len())
}

func TestApplyUpdated(t *testing.T) {
	l := NewList()
	l.Apply(Event{Kind: Added, Website: website("a", "alpha")})

	fav := true
	name := "renamed"
	l.Apply(Event{Kind: Updated, ID: "a", Patch: domain.Patch{Name: &name, IsFavorite: &fav}})

	snap := l.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "renamed", snap[0].Name)
	assert.True(t, snap[0].IsFavorite)
	assert.Equal(t, int64(1700000000000), snap[0].CreatedAt)
}

func TestApplyUpdatedUnknownIDIsNoop(t *testing.T) {
	l := NewList()
	l.Apply(Event{Kind: Added, Website: website("a", "alpha")})

	name := "renamed"
	l.Apply(Event{Kind: Updated, ID: "nope", Patch: domain.Patch{Name: &name}})

	assert.Equal(t, "alpha", l.Snapshot()[0].Name)
}

func TestCommitCurrentGeneration(t *testing.T) {
	l := NewList()
	gen := l.Begin()

	ok := l.Commit(gen, []*domain.Website{website("a", "alpha")})
	require.True(t, ok)
	assert.Equal(t, 1, l.Len())
}

func TestCommitSupersededGenerationDiscarded(t *testing.T) {
	l := NewList()

	first := l.Begin()
	second := l.Begin()

	// The newer fetch lands first.
	require.True(t, l.Commit(second, []*domain.Website{website("b", "beta")}))

	// The older fetch resolves late and must be discarded.
	require.False(t, l.Commit(first, []*domain.Website{website("a", "alpha")}))

	snap := l.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "b", snap[0].ID)
}

func TestCommitNilInstallsEmpty(t *testing.T) {
	l := NewList()
	l.Apply(Event{Kind: Added, Website: website("a", "alpha")})

	gen := l.Begin()
	require.True(t, l.Commit(gen, nil))
	assert.NotNil(t, l.Snapshot())
	assert.Equal(t, 0, l.Len())
}

func TestClear(t *testing.T) {
	l := NewList()
	l.Apply(Event{Kind: Added, Website: website("a", "alpha")})

	l.Clear()

	assert.Equal(t, 0, l.Len())
}
