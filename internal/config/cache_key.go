package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// UserLoginKey returns the cache key for a user's login session registry.
func (r *CacheKeyStruct) UserLoginKey(userID int) string {
	return fmt.Sprintf("login:%d", userID)
}

// SessionDeadlineKey returns the cache key for a session's wall-clock
// deadline, used for fast remaining-time reads.
func (r *CacheKeyStruct) SessionDeadlineKey(examID string, userID int) string {
	return fmt.Sprintf("user:%d:exam:%s:deadline", userID, examID)
}

var CacheKey = NewCacheKeyStruct()
