package guest

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webspot/webspot/internal/domain"
	"github.com/webspot/webspot/internal/kv"
	"github.com/webspot/webspot/internal/logger"
)

func newTestStore() (*Store, *kv.MemoryStore) {
	kvs := kv.NewMemoryStore()
	s := NewStore(kvs, logger.Nop())

	var seq int
	s.newID = func() string {
		seq++
		return fmt.Sprintf("guest_%d_%06d", seq, seq)
	}
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return s, kvs
}

func TestListEmptyWhenAbsent(t *testing.T) {
	s, _ := newTestStore()

	websites, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, websites)
	assert.NotNil(t, websites)
}

func TestListFailsOpenOnMalformedJSON(t *testing.T) {
	s, kvs := newTestStore()
	ctx := context.Background()

	require.NoError(t, kvs.Set(ctx, WebsitesKey, "{not json"))

	websites, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, websites)
}

func TestAddSynthesizesRecord(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	website, err := s.Add(ctx, domain.NewWebsite{
		Name:    "Example",
		URL:     "https://example.com",
		IconURL: "https://www.google.com/s2/favicons?domain=example.com&sz=64",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(website.ID, domain.GuestIDPrefix))
	assert.False(t, website.IsFavorite)
	assert.Equal(t, int64(1700000000000), website.CreatedAt)

	// The record is persisted, not just returned.
	stored, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, website.ID, stored[0].ID)
}

func TestAddIDsUnique(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		w, err := s.Add(ctx, domain.NewWebsite{Name: "n", URL: "https://example.com"})
		require.NoError(t, err)
		require.False(t, seen[w.ID], "duplicate id %s", w.ID)
		seen[w.ID] = true
	}
}

func TestRemove(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	a, _ := s.Add(ctx, domain.NewWebsite{Name: "a", URL: "https://a.example.com"})
	b, _ := s.Add(ctx, domain.NewWebsite{Name: "b", URL: "https://b.example.com"})

	require.NoError(t, s.Remove(ctx, a.ID))

	stored, _ := s.List(ctx)
	require.Len(t, stored, 1)
	assert.Equal(t, b.ID, stored[0].ID)
}

func TestRemoveUnknownIDIsNoop(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	s.Add(ctx, domain.NewWebsite{Name: "a", URL: "https://a.example.com"})

	require.NoError(t, s.Remove(ctx, "guest_999_999999"))

	stored, _ := s.List(ctx)
	assert.Len(t, stored, 1)
}

func TestUpdate(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	w, _ := s.Add(ctx, domain.NewWebsite{Name: "a", URL: "https://a.example.com"})

	fav := true
	desc := "my favorite"
	require.NoError(t, s.Update(ctx, w.ID, domain.Patch{IsFavorite: &fav, Description: &desc}))

	stored, _ := s.List(ctx)
	require.Len(t, stored, 1)
	assert.True(t, stored[0].IsFavorite)
	assert.Equal(t, "my favorite", stored[0].Description)
	// Immutable fields survive the merge.
	assert.Equal(t, w.ID, stored[0].ID)
	assert.Equal(t, w.CreatedAt, stored[0].CreatedAt)
}

func TestUpdateUnknownIDIsNoop(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	s.Add(ctx, domain.NewWebsite{Name: "a", URL: "https://a.example.com"})

	name := "renamed"
	require.NoError(t, s.Update(ctx, "guest_999_999999", domain.Patch{Name: &name}))

	stored, _ := s.List(ctx)
	assert.Equal(t, "a", stored[0].Name)
}

func TestUpdateEmptyPatchIsNoop(t *testing.T) {
	s, kvs := newTestStore()
	ctx := context.Background()

	s.Add(ctx, domain.NewWebsite{Name: "a", URL: "https://a.example.com"})
	before, _, _ := kvs.Get(ctx, WebsitesKey)

	require.NoError(t, s.Update(ctx, "anything", domain.Patch{}))

	after, _, _ := kvs.Get(ctx, WebsitesKey)
	assert.Equal(t, before, after)
}

// The persisted collection after every operation matches an in-memory
// simulation of the same operation sequence.
func TestOperationSequenceMatchesSimulation(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	var sim []*domain.Website

	for i := 0; i < 5; i++ {
		w, err := s.Add(ctx, domain.NewWebsite{
			Name: fmt.Sprintf("site-%d", i),
			URL:  fmt.Sprintf("https://site%d.example.com", i),
		})
		require.NoError(t, err)
		clone := *w
		sim = append(sim, &clone)
	}

	// Remove the middle record.
	require.NoError(t, s.Remove(ctx, sim[2].ID))
	sim = append(sim[:2], sim[3:]...)

	// Favorite the first.
	fav := true
	require.NoError(t, s.Update(ctx, sim[0].ID, domain.Patch{IsFavorite: &fav}))
	sim[0].IsFavorite = true

	stored, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, stored, len(sim))
	for i := range sim {
		assert.Equal(t, *sim[i], *stored[i])
	}
}

func TestClear(t *testing.T) {
	s, kvs := newTestStore()
	ctx := context.Background()

	s.Add(ctx, domain.NewWebsite{Name: "a", URL: "https://a.example.com"})
	require.NoError(t, s.Clear(ctx))

	_, ok, err := kvs.Get(ctx, WebsitesKey)
	require.NoError(t, err)
	assert.False(t, ok)
}
