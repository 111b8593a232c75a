package domain

import "errors"

var (
	// ErrCarNotFound is returned when a catalog item id is not in the catalog
	ErrCarNotFound = errors.New("car not found in catalog")

	// ErrCatalogUnavailable is returned when the content store cannot be read
	ErrCatalogUnavailable = errors.New("catalog content store request failed")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrKeyNotFound is returned when a key is absent from the key-value store
	ErrKeyNotFound = errors.New("key not found")

	// ErrStoreUnavailable is returned when the key-value backend cannot be reached
	ErrStoreUnavailable = errors.New("key-value store unavailable")

	// ErrUnauthorized is returned when a webhook secret does not match
	ErrUnauthorized = errors.New("unauthorized")
)
