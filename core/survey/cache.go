package survey

import (
	"context"
	"sync"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/surveyops/respops/core"
)

// Cache is a read-through survey lookup cache with a time-based staleness
// window. A failed refresh keeps the last good value: staff keep seeing a
// slightly stale survey list rather than an error page.
type Cache struct {
	repo  Repository
	clock core.Clock
	ttl   time.Duration
	log   core.Logger

	mu          sync.RWMutex
	byShortName map[string]Survey
	byRef       map[string]Survey
	list        []Survey
	refreshedAt time.Time
}

func NewCache(repo Repository, clock core.Clock, ttl time.Duration, log core.Logger) *Cache {
	return &Cache{
		repo:        repo,
		clock:       clock,
		ttl:         ttl,
		log:         log,
		byShortName: make(map[string]Survey),
		byRef:       make(map[string]Survey),
	}
}

func (c *Cache) stale() bool {
	return c.refreshedAt.IsZero() || c.clock.Now().Sub(c.refreshedAt) > c.ttl
}

// Refresh refetches the survey list. On failure the previous value stays
// in place and the error is returned for the caller to report.
func (c *Cache) Refresh(ctx context.Context) error {
	surveys, err := c.repo.GetSurveys(ctx)
	if err != nil {
		return pkgerrors.Wrap(err, "refreshing survey cache")
	}

	byShortName := make(map[string]Survey, len(surveys))
	byRef := make(map[string]Survey, len(surveys))
	for _, s := range surveys {
		byShortName[s.ShortName] = s
		byRef[s.SurveyRef] = s
	}

	c.mu.Lock()
	c.byShortName = byShortName
	c.byRef = byRef
	c.list = surveys
	c.refreshedAt = c.clock.Now()
	c.mu.Unlock()
	return nil
}

// refreshIfStale refreshes past the TTL; a failure is logged and the
// stale value served.
func (c *Cache) refreshIfStale(ctx context.Context) {
	c.mu.RLock()
	stale := c.stale()
	c.mu.RUnlock()
	if !stale {
		return
	}
	if err := c.Refresh(ctx); err != nil {
		c.log.Warn("survey cache refresh failed; serving stale data", err)
	}
}

// Get looks a survey up by short name; ok is false on a miss.
func (c *Cache) Get(ctx context.Context, shortName string) (Survey, bool) {
	c.refreshIfStale(ctx)
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.byShortName[shortName]
	return s, ok
}

// GetByRef looks a survey up by survey reference; ok is false on a miss.
func (c *Cache) GetByRef(ctx context.Context, ref string) (Survey, bool) {
	c.refreshIfStale(ctx)
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.byRef[ref]
	return s, ok
}

// All returns the cached survey list.
func (c *Cache) All(ctx context.Context) []Survey {
	c.refreshIfStale(ctx)
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.list
}
