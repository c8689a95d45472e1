package engine

import "sync"

// userLockTable serializes mutation phases per user.
// Uses per-user locks instead of a global lock.
type userLockTable struct {
	userLocks map[string]*sync.Mutex
	mapMutex  sync.RWMutex // protects the map itself
}

func newUserLockTable() *userLockTable {
	return &userLockTable{
		userLocks: make(map[string]*sync.Mutex),
	}
}

// LockUser locks the mutation path for a specific user.
func (lt *userLockTable) LockUser(userID string) {
	lt.mapMutex.Lock()
	if lt.userLocks[userID] == nil {
		lt.userLocks[userID] = &sync.Mutex{}
	}
	userMutex := lt.userLocks[userID]
	lt.mapMutex.Unlock()

	userMutex.Lock()
}

// UnlockUser unlocks the mutation path for a specific user.
func (lt *userLockTable) UnlockUser(userID string) {
	lt.mapMutex.RLock()
	userMutex := lt.userLocks[userID]
	lt.mapMutex.RUnlock()

	if userMutex != nil {
		userMutex.Unlock()
	}
}
