package application

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/dfryer1193/travelcatalog/catalog/domain"
)

var errNetwork = errors.New("simulated network error")

var testImage = domain.EncodedImage{FileName: "pic.png", MimeType: "image/png", Data: "iVBORw0KGgo="}

// fakeRemote is an in-memory RemoteStore that assigns sequential ids.
type fakeRemote[T domain.Record] struct {
	mu      sync.Mutex
	records []T
	nextID  int64
	assign  func(T, int64) T

	listErr   error
	createErr error
	deleteErr error

	listCalls   int
	createCalls int
	deleteCalls int
}

func newFakeRemote[T domain.Record](assign func(T, int64) T, seed ...T) *fakeRemote[T] {
	f := &fakeRemote[T]{assign: assign, nextID: 1}
	for _, r := range seed {
		f.records = append(f.records, r)
		if r.GetID() >= f.nextID {
			f.nextID = r.GetID() + 1
		}
	}
	return f
}

func (f *fakeRemote[T]) List(ctx context.Context) ([]T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return slices.Clone(f.records), nil
}

func (f *fakeRemote[T]) Create(ctx context.Context, rec T) (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		var zero T
		return zero, f.createErr
	}
	created := f.assign(rec, f.nextID)
	f.nextID++
	f.records = append(f.records, created)
	return created, nil
}

func (f *fakeRemote[T]) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.records = slices.DeleteFunc(f.records, func(r T) bool { return r.GetID() == id })
	return nil
}

func (f *fakeRemote[T]) calls() (list, create, del int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls, f.createCalls, f.deleteCalls
}

func newCategoryRemote(seed ...domain.Category) *fakeRemote[domain.Category] {
	return newFakeRemote(func(c domain.Category, id int64) domain.Category { c.SetID(id); return c }, seed...)
}

func newProvinceRemote(seed ...domain.Province) *fakeRemote[domain.Province] {
	return newFakeRemote(func(p domain.Province, id int64) domain.Province { p.SetID(id); return p }, seed...)
}

func newFoodRemote(seed ...domain.Food) *fakeRemote[domain.Food] {
	return newFakeRemote(func(f domain.Food, id int64) domain.Food { f.SetID(id); return f }, seed...)
}

// memoryCache is a domain.Cache backed by a map.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	getErr  error
	putErr  error
	puts    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (m *memoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	v, ok := m.entries[key]
	return slices.Clone(v), ok, nil
}

func (m *memoryCache) Put(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	m.puts++
	m.entries[key] = slices.Clone(value)
	return nil
}

func (m *memoryCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func (m *memoryCache) entry(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[key]
	return v, ok
}
