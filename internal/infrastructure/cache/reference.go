// Package cache provides a Redis read-through cache for reference data
// that the reconciliation engine resolves on every submit.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"davrcash/internal/core/id"
	"davrcash/internal/domain/catalogs/organization"
	"davrcash/internal/domain/catalogs/status"
	"davrcash/internal/domain/catalogs/terminal"
	"davrcash/pkg/logger"
)

const (
	terminalKeyPrefix     = "ref:terminal:"
	organizationKeyPrefix = "ref:organization:"
	statusListKey         = "ref:statuses"

	defaultTTL = 10 * time.Minute
)

// ReferenceCache caches terminals, organizations and report statuses in
// Redis. Misses and Redis failures fall through to the underlying repos,
// so the cache never becomes a hard dependency for reads. Lookups return
// (nil, nil) when the entity does not exist; callers own the not-found
// decision.
type ReferenceCache struct {
	rdb       *redis.Client
	terminals terminal.Repository
	orgs      organization.Repository
	statuses  status.Repository
	ttl       time.Duration
}

// NewReferenceCache creates a read-through cache over the catalog repos.
func NewReferenceCache(
	rdb *redis.Client,
	terminals terminal.Repository,
	orgs organization.Repository,
	statuses status.Repository,
) *ReferenceCache {
	return &ReferenceCache{
		rdb:       rdb,
		terminals: terminals,
		orgs:      orgs,
		statuses:  statuses,
		ttl:       defaultTTL,
	}
}

// Terminal returns the terminal by id, caching it on first load.
func (c *ReferenceCache) Terminal(ctx context.Context, termID id.ID) (*terminal.Terminal, error) {
	key := terminalKeyPrefix + termID.String()
	if term, ok := getCached[terminal.Terminal](ctx, c.rdb, key); ok {
		return term, nil
	}

	term, err := c.terminals.GetByID(ctx, termID)
	if err != nil || term == nil {
		return nil, err
	}
	c.setCached(ctx, key, term)
	return term, nil
}

// Organization returns the organization by id, caching it on first load.
func (c *ReferenceCache) Organization(ctx context.Context, orgID id.ID) (*organization.Organization, error) {
	key := organizationKeyPrefix + orgID.String()
	if org, ok := getCached[organization.Organization](ctx, c.rdb, key); ok {
		return org, nil
	}

	org, err := c.orgs.GetByID(ctx, orgID)
	if err != nil || org == nil {
		return nil, err
	}
	c.setCached(ctx, key, org)
	return org, nil
}

// StatusByID resolves a status from the cached status list.
func (c *ReferenceCache) StatusByID(ctx context.Context, stID id.ID) (*status.Status, error) {
	statuses, err := c.allStatuses(ctx)
	if err != nil {
		return nil, err
	}
	for i := range statuses {
		if statuses[i].ID == stID {
			return &statuses[i], nil
		}
	}
	return nil, nil
}

// StatusByCode resolves a status from the cached status list.
func (c *ReferenceCache) StatusByCode(ctx context.Context, code string) (*status.Status, error) {
	statuses, err := c.allStatuses(ctx)
	if err != nil {
		return nil, err
	}
	for i := range statuses {
		if statuses[i].Code == code {
			return &statuses[i], nil
		}
	}
	return nil, nil
}

// Statuses returns the full active status list, cached as one entry.
func (c *ReferenceCache) Statuses(ctx context.Context) ([]status.Status, error) {
	return c.allStatuses(ctx)
}

func (c *ReferenceCache) allStatuses(ctx context.Context) ([]status.Status, error) {
	if cached, ok := getCached[[]status.Status](ctx, c.rdb, statusListKey); ok {
		return *cached, nil
	}

	statuses, err := c.statuses.List(ctx, true)
	if err != nil {
		return nil, err
	}
	c.setCached(ctx, statusListKey, statuses)
	return statuses, nil
}

// InvalidateTerminal drops the cached terminal after a catalog mutation.
func (c *ReferenceCache) InvalidateTerminal(ctx context.Context, termID id.ID) {
	c.del(ctx, terminalKeyPrefix+termID.String())
}

// InvalidateOrganization drops the cached organization after a catalog mutation.
func (c *ReferenceCache) InvalidateOrganization(ctx context.Context, orgID id.ID) {
	c.del(ctx, organizationKeyPrefix+orgID.String())
}

// InvalidateStatuses drops the cached status list after a catalog mutation.
func (c *ReferenceCache) InvalidateStatuses(ctx context.Context) {
	c.del(ctx, statusListKey)
}

func getCached[T any](ctx context.Context, rdb *redis.Client, key string) (*T, bool) {
	raw, err := rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn(ctx, "reference cache read failed", "key", key, "error", err)
		}
		return nil, false
	}

	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		logger.Warn(ctx, "reference cache entry corrupted", "key", key, "error", err)
		return nil, false
	}
	return &value, true
}

func (c *ReferenceCache) setCached(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		logger.Warn(ctx, "reference cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		logger.Warn(ctx, "reference cache write failed", "key", key, "error", err)
	}
}

func (c *ReferenceCache) del(ctx context.Context, key string) {
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		logger.Warn(ctx, "reference cache invalidation failed", "key", key, "error", err)
	}
}

// Ping verifies the Redis connection at startup.
func (c *ReferenceCache) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}
