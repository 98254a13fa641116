package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"aegis/internal/domain/job"
	"aegis/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrJobNotFound  = errors.New("job not found")
)

type UpsertJobInput struct {
	Title        string
	Description  string
	CompanyName  string
	Requirements string
	Location     string
	RecruiterID  *uuid.UUID
}

type UpsertJobResult struct {
	JobID   uuid.UUID
	Created bool
}

type CatalogUsecase interface {
	ListCompanies(ctx context.Context) ([]job.CompanyRoles, error)
	UpsertJob(ctx context.Context, in UpsertJobInput) (UpsertJobResult, error)
	ListJobs(ctx context.Context) ([]job.Listing, error)
	GetJob(ctx context.Context, id uuid.UUID) (job.Listing, error)
}

type Catalog struct {
	companies repository.CompanyRepository
	jobs      repository.JobRepository
	cache     CatalogCache
	ttl       time.Duration
	logger    *log.Logger
}

// NewCatalogUsecase wires the company and job reads through cache. A nil
// cache disables caching.
func NewCatalogUsecase(companies repository.CompanyRepository, jobs repository.JobRepository, cache CatalogCache, ttl time.Duration, logger *log.Logger) *Catalog {
	return &Catalog{companies: companies, jobs: jobs, cache: cache, ttl: ttl, logger: logger}
}

func (u *Catalog) ListCompanies(ctx context.Context) ([]job.CompanyRoles, error) {
	var cached []job.CompanyRoles
	if u.cacheGet(ctx, cacheKeyCompanies, &cached) {
		return cached, nil
	}

	out, err := u.companies.ListWithRoles(ctx)
	if err != nil {
		return nil, err
	}
	u.cacheSet(ctx, cacheKeyCompanies, out)
	return out, nil
}

func (u *Catalog) UpsertJob(ctx context.Context, in UpsertJobInput) (UpsertJobResult, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	if in.Title == "" || in.Description == "" || in.CompanyName == "" {
		return UpsertJobResult{}, ErrInvalidInput
	}

	id, created, err := u.jobs.Upsert(ctx, repository.JobUpsert{
		Title:        in.Title,
		Description:  in.Description,
		CompanyName:  in.CompanyName,
		Requirements: strings.TrimSpace(in.Requirements),
		Location:     strings.TrimSpace(in.Location),
		RecruiterID:  in.RecruiterID,
	})
	if err != nil {
		return UpsertJobResult{}, err
	}

	u.invalidate(ctx, id)
	return UpsertJobResult{JobID: id, Created: created}, nil
}

func (u *Catalog) ListJobs(ctx context.Context) ([]job.Listing, error) {
	var cached []job.Listing
	if u.cacheGet(ctx, cacheKeyJobs, &cached) {
		return cached, nil
	}

	out, err := u.jobs.ListListings(ctx)
	if err != nil {
		return nil, err
	}
	u.cacheSet(ctx, cacheKeyJobs, out)
	return out, nil
}

func (u *Catalog) GetJob(ctx context.Context, id uuid.UUID) (job.Listing, error) {
	key := jobCacheKey(id)
	var cached job.Listing
	if u.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	l, err := u.jobs.GetListing(ctx, id)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return job.Listing{}, ErrJobNotFound
		}
		return job.Listing{}, err
	}
	u.cacheSet(ctx, key, l)
	return l, nil
}

func (u *Catalog) cacheGet(ctx context.Context, key string, out any) bool {
	if u.cache == nil {
		return false
	}
	hit, err := u.cache.GetJSON(ctx, key, out)
	if err != nil {
		u.logf("[Cache] get failed key=%s err=%v", key, err)
		return false
	}
	return hit
}

func (u *Catalog) cacheSet(ctx context.Context, key string, value any) {
	if u.cache == nil {
		return
	}
	if err := u.cache.SetJSON(ctx, key, value, u.ttl); err != nil {
		u.logf("[Cache] set failed key=%s err=%v", key, err)
	}
}

func (u *Catalog) invalidate(ctx context.Context, jobID uuid.UUID) {
	if u.cache == nil {
		return
	}
	keys := []string{cacheKeyCompanies, cacheKeyJobs, jobCacheKey(jobID)}
	if err := u.cache.Delete(ctx, keys...); err != nil {
		u.logf("[Cache] delete failed keys=%v err=%v", keys, err)
	}
}

// InvalidateAll drops every cached catalog entry. Used after seeding.
func (u *Catalog) InvalidateAll(ctx context.Context) {
	if u.cache == nil {
		return
	}
	if err := u.cache.Delete(ctx, cacheKeyCompanies, cacheKeyJobs); err != nil {
		u.logf("[Cache] delete failed err=%v", err)
	}
	if err := u.cache.DeleteByPattern(ctx, cacheKeyJobsPattern); err != nil {
		u.logf("[Cache] delete pattern failed pattern=%s err=%v", cacheKeyJobsPattern, err)
	}
}

func (u *Catalog) logf(format string, args ...any) {
	if u.logger != nil {
		u.logger.Printf(format, args...)
	}
}
