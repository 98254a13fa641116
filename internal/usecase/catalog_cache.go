package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type CatalogCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

const (
	cacheKeyCompanies   = "catalog:companies"
	cacheKeyJobs        = "catalog:jobs"
	cacheKeyJobPrefix   = "catalog:job:"
	cacheKeyJobsPattern = "catalog:job:*"
)

func jobCacheKey(id uuid.UUID) string {
	return cacheKeyJobPrefix + id.String()
}
