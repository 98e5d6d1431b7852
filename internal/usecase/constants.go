package usecase

import "time"

const (
	// DefaultCommitTimeout bounds a single mutating operation once the
	// account lock is held, so a stalled backend cannot pin the slot.
	DefaultCommitTimeout = 10 * time.Second

	// HolderCacheTTL is how long holder lookups are cached.
	HolderCacheTTL = 5 * time.Minute
)
