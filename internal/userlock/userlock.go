// Package userlock provides per-user mutual exclusion for portfolio
// commits. A transaction commit rewrites one holding and then the
// allocation percentages of every holding the user owns, so all commits
// for a given user must be serialized. Commits for different users never
// contend.
//
// The lock is held in-process rather than delegated to database row
// locks, so the serialization guarantee is the same on every storage
// backend, including the in-memory SQLite databases used in tests.
package userlock

import "sync"

// Registry maps user IDs to mutexes.
type Registry struct {
	locks sync.Map // userID -> *sync.Mutex
}

// New creates an empty lock registry.
func New() *Registry {
	return &Registry{}
}

// Lock acquires the mutex for the given user, creating it on first use,
// and returns the corresponding unlock function. Mutexes are never
// removed; the registry grows with the number of distinct users seen by
// this process.
func (r *Registry) Lock(userID uint) func() {
	v, _ := r.locks.LoadOrStore(userID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
