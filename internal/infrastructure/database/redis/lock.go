package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/x-ordo/evidentia/internal/infrastructure/monitoring/logging"
	"github.com/x-ordo/evidentia/pkg/errors"
	"github.com/x-ordo/evidentia/pkg/types/common"
)

var ErrLockNotHeld = errors.New(errors.ErrCodeConflict, "analysis lock not held by this owner")

const defaultLockTTL = 5 * time.Minute

// unlock only deletes the key when this owner still holds it.
var unlockScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	else
		return 0
	end
`)

// AnalysisLock serializes transcript analysis per case across the worker
// fleet.  TryAcquire is non-blocking: a worker that loses the race skips the
// message and lets the holder finish.
type AnalysisLock struct {
	client *Client
	logger logging.Logger
	owner  string
	prefix string
	ttl    time.Duration
}

// AnalysisLockOption customizes an AnalysisLock.
type AnalysisLockOption func(*AnalysisLock)

func WithLockTTL(ttl time.Duration) AnalysisLockOption {
	return func(l *AnalysisLock) { l.ttl = ttl }
}

func WithLockPrefix(prefix string) AnalysisLockOption {
	return func(l *AnalysisLock) { l.prefix = prefix }
}

func WithLockOwner(owner string) AnalysisLockOption {
	return func(l *AnalysisLock) { l.owner = owner }
}

// NewAnalysisLock builds a lock with a process-unique owner token.
func NewAnalysisLock(client *Client, log logging.Logger, opts ...AnalysisLockOption) *AnalysisLock {
	l := &AnalysisLock{
		client: client,
		logger: log,
		owner:  uuid.NewString(),
		prefix: defaultKeyPrefix + "lock:analysis:",
		ttl:    defaultLockTTL,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *AnalysisLock) key(caseID common.ID) string {
	return l.prefix + string(caseID)
}

// TryAcquire attempts to take the per-case lock without blocking.
func (l *AnalysisLock) TryAcquire(ctx context.Context, caseID common.ID) (bool, error) {
	ok, err := l.client.RDB().SetNX(ctx, l.key(caseID), l.owner, l.ttl).Result()
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeCacheError, "failed to acquire analysis lock")
	}
	return ok, nil
}

// Release frees the lock if this process still owns it.
func (l *AnalysisLock) Release(ctx context.Context, caseID common.ID) error {
	res, err := unlockScript.Run(ctx, l.client.RDB(), []string{l.key(caseID)}, l.owner).Result()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to release analysis lock")
	}
	if n, ok := res.(int64); !ok || n == 0 {
		return ErrLockNotHeld
	}
	return nil
}
