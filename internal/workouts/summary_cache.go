package workouts

import (
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/fittrack/internal/telemetry/metrics"
)

const monthlyKeyPrefix = "monthly||"

// SummaryCache keeps per-user monthly totals. Entries are dropped on every new
// submission of the user; the date series used for streaks is never cached.
//
// Each user has a generation, bumped by Invalidate. A reader passes the generation it
// got from GetMonthly to SetMonthly, and totals read before a concurrent Invalidate are
// not stored.
type SummaryCache struct {
	cache          *freecache.Cache
	ttl            time.Duration
	metricsManager *metrics.Manager

	mu          sync.Mutex
	generations map[int]uint64
}

func NewSummaryCache(sizeMB int, ttl time.Duration, metricsManager *metrics.Manager) *SummaryCache {
	return &SummaryCache{
		cache:          freecache.NewCache(sizeMB * 1024 * 1024),
		ttl:            ttl,
		metricsManager: metricsManager,
		generations:    make(map[int]uint64),
	}
}

func monthlyKey(userID int) []byte {
	return []byte(monthlyKeyPrefix + strconv.Itoa(userID))
}

// GetMonthly returns the cached totals, if any, and the user's current generation.
func (c *SummaryCache) GetMonthly(userID int) ([]MonthlyTotal, uint64, bool) {
	c.mu.Lock()
	generation := c.generations[userID]
	c.mu.Unlock()

	data, err := c.cache.Get(monthlyKey(userID))
	if err != nil {
		if !errors.Is(err, freecache.ErrNotFound) {
			log.Errorf("summary cache, get monthly for user %d: %s", userID, err)
		}
		c.countLookup("miss")
		return nil, generation, false
	}

	var totals []MonthlyTotal
	if err := json.Unmarshal(data, &totals); err != nil {
		log.Errorf("summary cache, unmarshal monthly for user %d: %s", userID, err)
		c.countLookup("miss")
		return nil, generation, false
	}

	c.countLookup("hit")
	return totals, generation, true
}

// SetMonthly stores totals unless the user was invalidated after generation was read.
func (c *SummaryCache) SetMonthly(userID int, generation uint64, totals []MonthlyTotal) {
	data, err := json.Marshal(totals)
	if err != nil {
		log.Errorf("summary cache, marshal monthly for user %d: %s", userID, err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[userID] != generation {
		log.Debugf("summary cache, skip stale monthly totals for user %d", userID)
		return
	}
	if err := c.cache.Set(monthlyKey(userID), data, int(c.ttl.Seconds())); err != nil {
		log.Warnf("summary cache, set monthly for user %d: %s", userID, err)
	}
}

func (c *SummaryCache) Invalidate(userID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generations[userID]++
	c.cache.Del(monthlyKey(userID))
}

func (c *SummaryCache) countLookup(result string) {
	if c.metricsManager != nil {
		c.metricsManager.CounterSummaryCache.WithLabelValues(result).Inc()
	}
}
