package application

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/dfryer1193/travelcatalog/catalog/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadedCategoryStore(t *testing.T, remote *fakeRemote[domain.Category], cache *memoryCache) *Store[domain.Category] {
	t.Helper()
	store := NewStore[domain.Category](domain.ResourceCategories, remote, cache)
	require.NoError(t, store.Load(context.Background()))
	return store
}

// assertCacheMirrors checks the cache entry is byte-for-byte the encoding of
// the in-memory collection.
func assertCacheMirrors[T domain.Record](t *testing.T, store *Store[T], cache *memoryCache) {
	t.Helper()
	want, err := json.Marshal(store.List())
	require.NoError(t, err)

	got, ok := cache.entry(string(store.kind))
	require.True(t, ok, "cache entry missing for %s", store.kind)
	assert.Equal(t, string(want), string(got))
}

func TestStore_LoadColdThenWarm(t *testing.T) {
	ctx := context.Background()
	remote := newCategoryRemote(domain.Category{ID: 1, Name: "Java"})
	cache := newMemoryCache()

	first := NewStore[domain.Category](domain.ResourceCategories, remote, cache)
	require.NoError(t, first.Load(ctx))
	assert.Equal(t, []domain.Category{{ID: 1, Name: "Java"}}, first.List())
	assertCacheMirrors(t, first, cache)

	// a new session reads the cache without contacting the remote store
	remote.listErr = errNetwork
	second := NewStore[domain.Category](domain.ResourceCategories, remote, cache)
	require.NoError(t, second.Load(ctx))

	assert.Equal(t, first.List(), second.List())
	listCalls, _, _ := remote.calls()
	assert.Equal(t, 1, listCalls)
}

func TestStore_LoadIsOneShot(t *testing.T) {
	ctx := context.Background()
	remote := newCategoryRemote(domain.Category{ID: 1, Name: "Java"})
	store := loadedCategoryStore(t, remote, newMemoryCache())

	require.NoError(t, store.Load(ctx))
	listCalls, _, _ := remote.calls()
	assert.Equal(t, 1, listCalls)
}

func TestStore_LoadRemoteFailureDegradesToEmpty(t *testing.T) {
	remote := newCategoryRemote(domain.Category{ID: 1, Name: "Java"})
	remote.listErr = errNetwork
	cache := newMemoryCache()

	store := loadedCategoryStore(t, remote, cache)

	assert.Empty(t, store.List())
	_, ok := cache.entry("categories")
	assert.False(t, ok, "a failed fetch must not warm the cache")

	// the store is usable after the fallback
	created, err := store.Create(context.Background(), domain.NewCategory("Bali", testImage))
	require.NoError(t, err)
	assert.Equal(t, []domain.Category{created}, store.List())
}

func TestStore_LoadIgnoresBadCache(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*memoryCache)
	}{
		{name: "corrupt entry", setup: func(c *memoryCache) { c.entries["categories"] = []byte("{not json") }},
		{name: "read failure", setup: func(c *memoryCache) { c.getErr = errNetwork }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote := newCategoryRemote(domain.Category{ID: 3, Name: "Sumatra"})
			cache := newMemoryCache()
			tt.setup(cache)

			store := loadedCategoryStore(t, remote, cache)
			assert.Equal(t, []domain.Category{{ID: 3, Name: "Sumatra"}}, store.List())
		})
	}
}

func TestStore_LoadNullCacheEntry(t *testing.T) {
	remote := newCategoryRemote()
	remote.listErr = errNetwork
	cache := newMemoryCache()
	cache.entries["categories"] = []byte("null")

	store := loadedCategoryStore(t, remote, cache)
	assert.NotNil(t, store.List())
	assert.Empty(t, store.List())
}

func TestStore_CreateOnEmptyStore(t *testing.T) {
	names := []string{"Java", "Bali", "Nusa Tenggara", "Sulawesi"}
	images := []domain.EncodedImage{
		testImage,
		{FileName: "a.jpg", MimeType: "image/jpeg", Data: "/9j/4AAQ"},
	}

	for _, name := range names {
		for _, img := range images {
			t.Run(name+"/"+img.FileName, func(t *testing.T) {
				cache := newMemoryCache()
				store := loadedCategoryStore(t, newCategoryRemote(), cache)

				created, err := store.Create(context.Background(), domain.NewCategory(name, img))
				require.NoError(t, err)

				list := store.List()
				require.Len(t, list, 1)
				assert.Equal(t, created, list[0])
				assert.NotZero(t, list[0].ID)
				assert.Equal(t, name, list[0].Name)
				assert.Equal(t, img, list[0].Image())
				assertCacheMirrors(t, store, cache)
			})
		}
	}
}

func TestStore_CreateInvalidNeverMutates(t *testing.T) {
	drafts := map[string]domain.Category{
		"empty name":  domain.NewCategory("", testImage),
		"blank name":  domain.NewCategory("  \t", testImage),
		"no image":    domain.NewCategory("Java", domain.EncodedImage{}),
		"nothing set": {},
	}

	for name, draft := range drafts {
		t.Run(name, func(t *testing.T) {
			remote := newCategoryRemote(domain.Category{ID: 1, Name: "Java"})
			cache := newMemoryCache()
			store := loadedCategoryStore(t, remote, cache)
			before := store.List()
			cacheBefore, _ := cache.entry("categories")
			putsBefore := cache.puts

			_, err := store.Create(context.Background(), draft)

			assert.True(t, domain.IsValidation(err))
			assert.Equal(t, before, store.List())
			cacheAfter, _ := cache.entry("categories")
			assert.Equal(t, cacheBefore, cacheAfter)
			assert.Equal(t, putsBefore, cache.puts)
			_, createCalls, _ := remote.calls()
			assert.Zero(t, createCalls, "no network call on validation failure")
		})
	}
}

func TestStore_CreateRemoteFailure(t *testing.T) {
	remote := newCategoryRemote()
	cache := newMemoryCache()
	store := loadedCategoryStore(t, remote, cache)
	remote.createErr = errNetwork

	_, err := store.Create(context.Background(), domain.NewCategory("Java", testImage))

	var remoteErr *domain.RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, "create", remoteErr.Op)
	assert.ErrorIs(t, err, errNetwork)
	assert.Empty(t, store.List())
	assertCacheMirrors(t, store, cache)
}

func TestStore_CreateCacheFailure(t *testing.T) {
	remote := newCategoryRemote()
	cache := newMemoryCache()
	store := loadedCategoryStore(t, remote, cache)
	cache.putErr = errNetwork

	created, err := store.Create(context.Background(), domain.NewCategory("Java", testImage))

	assert.ErrorIs(t, err, domain.ErrCache)
	assert.Equal(t, int64(1), created.ID, "the remote record is still returned")
	assert.Equal(t, []domain.Category{created}, store.List())
	_, ok := cache.entry("categories")
	assert.False(t, ok, "a failed write drops the entry so the next session refetches")
}

func TestStore_NotLoaded(t *testing.T) {
	remote := newCategoryRemote()
	store := NewStore[domain.Category](domain.ResourceCategories, remote, newMemoryCache())

	_, err := store.Create(context.Background(), domain.NewCategory("Java", testImage))
	assert.ErrorIs(t, err, domain.ErrNotLoaded)
	assert.ErrorIs(t, store.Delete(context.Background(), 1), domain.ErrNotLoaded)

	_, createCalls, deleteCalls := remote.calls()
	assert.Zero(t, createCalls)
	assert.Zero(t, deleteCalls)
}

func TestStore_DeleteKeepsOrder(t *testing.T) {
	seed := []domain.Category{
		{ID: 1, Name: "Java"},
		{ID: 2, Name: "Bali"},
		{ID: 3, Name: "Sumatra"},
		{ID: 4, Name: "Papua"},
	}

	for _, victim := range seed {
		t.Run(victim.Name, func(t *testing.T) {
			cache := newMemoryCache()
			store := loadedCategoryStore(t, newCategoryRemote(seed...), cache)

			require.NoError(t, store.Delete(context.Background(), victim.ID))

			var want []domain.Category
			for _, c := range seed {
				if c.ID != victim.ID {
					want = append(want, c)
				}
			}
			assert.Equal(t, want, store.List())
			assertCacheMirrors(t, store, cache)
		})
	}
}

func TestStore_DeleteRemoteFailure(t *testing.T) {
	remote := newCategoryRemote(domain.Category{ID: 1, Name: "Java"})
	cache := newMemoryCache()
	store := loadedCategoryStore(t, remote, cache)
	cacheBefore, _ := cache.entry("categories")
	remote.deleteErr = errNetwork

	err := store.Delete(context.Background(), 1)

	assert.True(t, domain.IsRemote(err))
	assert.Equal(t, []domain.Category{{ID: 1, Name: "Java"}}, store.List())
	cacheAfter, _ := cache.entry("categories")
	assert.Equal(t, cacheBefore, cacheAfter)
}

func TestStore_DeleteInvalidID(t *testing.T) {
	remote := newCategoryRemote()
	store := loadedCategoryStore(t, remote, newMemoryCache())

	assert.True(t, domain.IsValidation(store.Delete(context.Background(), 0)))
	assert.True(t, domain.IsValidation(store.Delete(context.Background(), -3)))
	_, _, deleteCalls := remote.calls()
	assert.Zero(t, deleteCalls)
}

func TestStore_DeleteLastRecordCachesEmptyArray(t *testing.T) {
	cache := newMemoryCache()
	store := loadedCategoryStore(t, newCategoryRemote(domain.Category{ID: 1, Name: "Java"}), cache)

	require.NoError(t, store.Delete(context.Background(), 1))

	got, _ := cache.entry("categories")
	assert.Equal(t, "[]", string(got))
}

func TestStore_Hooks(t *testing.T) {
	store := loadedCategoryStore(t, newCategoryRemote(), newMemoryCache())

	var created []string
	var deleted []int64
	store.OnCreated(func(c domain.Category) { created = append(created, c.Name) })
	store.OnDeleted(func(id int64) { deleted = append(deleted, id) })

	rec, err := store.Create(context.Background(), domain.NewCategory("Java", testImage))
	require.NoError(t, err)
	_, err = store.Create(context.Background(), domain.NewCategory("", testImage))
	require.Error(t, err)
	require.NoError(t, store.Delete(context.Background(), rec.ID))

	assert.Equal(t, []string{"Java"}, created)
	assert.Equal(t, []int64{rec.ID}, deleted)
}

func TestStore_ConcurrentCreates(t *testing.T) {
	remote := newCategoryRemote()
	cache := newMemoryCache()
	store := loadedCategoryStore(t, remote, cache)

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := store.Create(context.Background(), domain.NewCategory(fmt.Sprintf("cat-%d", i), testImage))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	list := store.List()
	assert.Len(t, list, n)
	seen := make(map[int64]bool)
	for _, c := range list {
		assert.False(t, seen[c.ID], "duplicate id %d", c.ID)
		seen[c.ID] = true
	}
	assertCacheMirrors(t, store, cache)
}

func TestStore_Reload(t *testing.T) {
	ctx := context.Background()
	remote := newCategoryRemote(domain.Category{ID: 1, Name: "Java"})
	cache := newMemoryCache()
	store := loadedCategoryStore(t, remote, cache)

	// another client writes straight to the remote store
	remote.records = append(remote.records, domain.Category{ID: 9, Name: "Bali"})
	require.NoError(t, store.Load(ctx))
	assert.Len(t, store.List(), 1, "a warm store does not see other clients' writes")

	require.NoError(t, store.Reload(ctx))
	assert.Len(t, store.List(), 2)
	assertCacheMirrors(t, store, cache)

	remote.listErr = errNetwork
	assert.True(t, domain.IsRemote(store.Reload(ctx)))
	assert.Len(t, store.List(), 2, "a failed reload keeps the current state")
}

func TestStore_Get(t *testing.T) {
	store := loadedCategoryStore(t, newCategoryRemote(domain.Category{ID: 5, Name: "Java"}), newMemoryCache())

	got, ok := store.Get(5)
	assert.True(t, ok)
	assert.Equal(t, "Java", got.Name)

	_, ok = store.Get(6)
	assert.False(t, ok)
}
