package domain

import (
	"context"
	"time"
)

// KeyValueStore is the durable string store behind comparison sets and catalog snapshots.
// A ttl of zero means the value never expires.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// CatalogClient reads the full catalog from the external content store
type CatalogClient interface {
	FetchCatalog(ctx context.Context) ([]CatalogItem, error)
}

// ImageResolver turns opaque image references into URLs
type ImageResolver interface {
	Resolve(ref string) string
	// ResolveAll skips references that cannot be resolved
	ResolveAll(refs []string) []string
}

// Translator looks up a localized string. Missing keys fall back to the key itself.
type Translator interface {
	Translate(lang, key string, params map[string]string) string
}
