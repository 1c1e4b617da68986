// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the drill engine, so progress and attempts can live in Postgres, Redis
// or process memory without the engine knowing which.
package store
