package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// SessionKey returns the Redis key holding an issued token's JTI.
// The key exists only while the token has not been revoked.
func (r *CacheKeyStruct) SessionKey(jti string) string {
	return fmt.Sprintf("session:%s", jti)
}

// UserSessionsKey returns the Redis set of active JTIs for a user,
// used to revoke every token of a user at once.
func (r *CacheKeyStruct) UserSessionsKey(userID int) string {
	return fmt.Sprintf("user:%d:sessions", userID)
}

var CacheKey = NewCacheKeyStruct()

// MailQueueKey returns the Redis list consumed by the mail worker.
func (r *CacheKeyStruct) MailQueueKey() string {
	return "queue:mail"
}
