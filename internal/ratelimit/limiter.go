package ratelimit

import (
	"container/list"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// Config holds admission-control settings.
type Config struct {
	Enabled        bool
	Capacity       int64
	RefillTokens   int64
	RefillInterval time.Duration
	// MaxKeys bounds the bucket map; least-recently-used buckets are
	// evicted beyond it.
	MaxKeys int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Enabled:        true,
		Capacity:       10,
		RefillTokens:   10,
		RefillInterval: time.Minute,
		MaxKeys:        10000,
	}
}

type bucket struct {
	key        string
	tokens     int64
	lastRefill time.Time
}

// Limiter is a token-bucket admission gate keyed by arbitrary string,
// typically "operation:userID". Each key's bucket holds up to Capacity
// tokens and gains RefillTokens at every RefillInterval boundary; tokens do
// not accumulate proportionally within an interval. Buckets are created
// lazily, exactly once per key, and evicted least-recently-used once the map
// exceeds MaxKeys.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*list.Element
	lru     *list.List

	enabled        atomic.Bool
	capacity       int64
	refillTokens   int64
	refillInterval time.Duration
	maxKeys        int

	now func() time.Time
}

func NewLimiter(config Config) *Limiter {
	if config.Capacity <= 0 || config.RefillTokens <= 0 || config.RefillInterval <= 0 {
		defaults := DefaultConfig()
		defaults.Enabled = config.Enabled
		config = defaults
	}
	if config.MaxKeys <= 0 {
		config.MaxKeys = DefaultConfig().MaxKeys
	}

	limiter := &Limiter{
		buckets:        make(map[string]*list.Element),
		lru:            list.New(),
		capacity:       config.Capacity,
		refillTokens:   config.RefillTokens,
		refillInterval: config.RefillInterval,
		maxKeys:        config.MaxKeys,
		now:            time.Now,
	}
	limiter.enabled.Store(config.Enabled)
	return limiter
}

// SetEnabled flips the global switch; when disabled every TryAcquire call is
// granted without touching any bucket.
func (l *Limiter) SetEnabled(enabled bool) {
	l.enabled.Store(enabled)
}

func (l *Limiter) Enabled() bool {
	return l.enabled.Load()
}

// TryAcquire consumes one token from the key's bucket and reports whether
// admission was granted. A denial is a throttling failure; the caller must
// not retry internally.
func (l *Limiter) TryAcquire(key string) bool {
	if !l.enabled.Load() {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	b := l.resolveBucket(key)
	l.refill(b)

	if b.tokens < 1 {
		logrus.WithField("key", key).Warn("rate limit exceeded")
		return false
	}
	b.tokens--
	return true
}

// resolveBucket returns the key's bucket, creating it full on first access.
// Caller holds the mutex, so concurrent first access for the same key still
// yields exactly one bucket.
func (l *Limiter) resolveBucket(key string) *bucket {
	if elem, ok := l.buckets[key]; ok {
		l.lru.MoveToFront(elem)
		return elem.Value.(*bucket)
	}

	b := &bucket{
		key:        key,
		tokens:     l.capacity,
		lastRefill: l.now(),
	}
	l.buckets[key] = l.lru.PushFront(b)

	if l.lru.Len() > l.maxKeys {
		oldest := l.lru.Back()
		if oldest != nil {
			evicted := oldest.Value.(*bucket)
			delete(l.buckets, evicted.key)
			l.lru.Remove(oldest)
		}
	}
	return b
}

// refill credits whole elapsed intervals only.
func (l *Limiter) refill(b *bucket) {
	elapsed := l.now().Sub(b.lastRefill)
	if elapsed < l.refillInterval {
		return
	}

	intervals := int64(elapsed / l.refillInterval)
	b.tokens += intervals * l.refillTokens
	if b.tokens > l.capacity {
		b.tokens = l.capacity
	}
	b.lastRefill = b.lastRefill.Add(time.Duration(intervals) * l.refillInterval)
}

// ActiveKeys returns the number of currently tracked buckets.
func (l *Limiter) ActiveKeys() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
