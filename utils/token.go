package utils

import (
	"sync"
	"time"
)

// revoked maps a token ID to the moment the token would have expired anyway.
var (
	revokedTokens = make(map[string]time.Time)
	revokedMutex  sync.RWMutex
)

// RevokeToken rejects the token with the given ID until it expires.
func RevokeToken(id string, expiresAt time.Time) {
	if id == "" {
		return
	}
	revokedMutex.Lock()
	defer revokedMutex.Unlock()
	pruneRevoked(time.Now())
	revokedTokens[id] = expiresAt
}

func IsTokenRevoked(id string) bool {
	revokedMutex.RLock()
	defer revokedMutex.RUnlock()

	expiry, exists := revokedTokens[id]
	return exists && time.Now().Before(expiry)
}

// caller holds revokedMutex
func pruneRevoked(now time.Time) {
	for id, expiry := range revokedTokens {
		if now.After(expiry) {
			delete(revokedTokens, id)
		}
	}
}
