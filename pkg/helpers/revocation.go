package helpers

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationList is a Redis deny-list of session token ids. Entries expire
// together with the token they revoke.
type RevocationList struct {
	rdb    redis.Cmdable
	prefix string
}

func NewRevocationList(rdb redis.Cmdable, appName string) *RevocationList {
	return &RevocationList{rdb: rdb, prefix: appName + ":revoked:"}
}

func (r *RevocationList) Revoke(ctx context.Context, tokenID string, exp time.Time) error {
	ttl := time.Until(exp)
	if tokenID == "" || ttl <= 0 {
		return nil
	}
	return r.rdb.Set(ctx, r.prefix+tokenID, 1, ttl).Err()
}

func (r *RevocationList) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	err := r.rdb.Get(ctx, r.prefix+tokenID).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
