package ordernum

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yorkbites/orderdesk/internal/logger"
	"go.uber.org/zap"
)

const (
	defaultPrefix = "ORD"

	// counters outlive their date key long enough to absorb clock skew
	// across midnight, then expire to bound storage growth
	counterTTL = 48 * time.Hour

	counterKeyPrefix = "ordernum:"

	fallbackSuffixLen = 8
)

// CounterStore is interface for the shared atomic counter backing
// order-number sequences. The increment must be the sole serialization
// point: no read-then-write race window.
type CounterStore interface {
	// IncrementAndGet atomically increments the counter at key and returns
	// the new value, setting ttl on the key
	IncrementAndGet(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// Generator mints unique, human-readable order numbers
type Generator struct {
	store  CounterStore
	prefix string
	now    func() time.Time
}

// NewGenerator creates new Generator instance
func NewGenerator(store CounterStore, prefix string) *Generator {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Generator{
		store:  store,
		prefix: prefix,
		now:    time.Now,
	}
}

// Generate returns a fresh order number of the form PREFIX<yymmdd>-<seq>.
// Concurrent calls within the same date key never return the same number.
// When the counter store is unreachable it falls back to a random suffix,
// trading the strict uniqueness guarantee for availability; the degraded
// path is always visible in the logs.
func (g *Generator) Generate(ctx context.Context) string {
	dateKey := g.now().UTC().Format("060102")

	seq, err := g.store.IncrementAndGet(ctx, counterKeyPrefix+dateKey, counterTTL)
	if err != nil {
		logger.Log.Warn("counter store unavailable, using fallback order number",
			zap.String("date_key", dateKey),
			zap.Error(err))
		return fmt.Sprintf("%s%s-%s", g.prefix, dateKey, randomSuffix())
	}

	return fmt.Sprintf("%s%s-%04d", g.prefix, dateKey, seq)
}

// randomSuffix returns a fixed-length alphanumeric suffix
func randomSuffix() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:fallbackSuffixLen])
}
