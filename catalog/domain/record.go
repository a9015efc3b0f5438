package domain

import (
	"context"
	"strings"
)

// ResourceType names one level of the catalog. The value doubles as the
// URL segment on the remote store and as the local cache key.
type ResourceType string

const (
	ResourceCategories ResourceType = "categories"
	ResourceProvinces  ResourceType = "provinces"
	ResourceFood       ResourceType = "food"
)

// ResourceTypes lists every resource type, parents first.
var ResourceTypes = []ResourceType{ResourceCategories, ResourceProvinces, ResourceFood}

func (r ResourceType) String() string {
	return string(r)
}

// Record is a single persisted (or about to be persisted) catalog entry.
type Record interface {
	// GetID returns the identifier assigned by the remote store, or zero.
	GetID() int64
	// Label is the display name a user picks from a dropdown.
	Label() string
	// Validate checks that every required field is present.
	Validate() error
}

// Cache is durable on-device key/value storage holding one entry per
// resource type.
type Cache interface {
	// Get returns the stored value and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Put replaces the value stored under key.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
