package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/tutorhive/tutorhive-api/internal/models"
	appErrors "github.com/tutorhive/tutorhive-api/pkg/errors"
)

type packageRepository interface {
	List(ctx context.Context) ([]models.Package, error)
	FindByID(ctx context.Context, id string) (*models.Package, error)
	Create(ctx context.Context, pkg *models.Package) error
}

// catalogCache is the slice of the cache repository the catalog services use.
type catalogCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// CatalogCacheConfig tunes list caching for the public catalog.
type CatalogCacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

const packagesCacheKey = "catalog:packages"

// CreatePackageRequest captures the insertable package shape. featured_order
// is server-curated and not accepted here. The counted fields are pointers so
// an explicit zero fails the minimum rule rather than reading as absent.
type CreatePackageRequest struct {
	Name           string  `json:"name" validate:"required"`
	Description    string  `json:"description" validate:"required"`
	TotalHours     *int    `json:"total_hours" validate:"required,min=1"`
	PricePerHour   float64 `json:"price_per_hour" validate:"min=0"`
	MaxStudents    *int    `json:"max_students" validate:"required,min=1"`
	ValidityPeriod *int    `json:"validity_period" validate:"required,min=1"`
}

// PackageService handles package catalog workflows.
type PackageService struct {
	repo      packageRepository
	cache     catalogCache
	cacheCfg  CatalogCacheConfig
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPackageService creates a new package service.
func NewPackageService(repo packageRepository, cache catalogCache, cacheCfg CatalogCacheConfig, validate *validator.Validate, logger *zap.Logger) *PackageService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PackageService{repo: repo, cache: cache, cacheCfg: cacheCfg, validator: validate, logger: logger}
}

// List returns every package, served from cache when enabled.
func (s *PackageService) List(ctx context.Context) ([]models.Package, error) {
	if s.cacheEnabled() {
		var cached []models.Package
		if err := s.cache.Get(ctx, packagesCacheKey, &cached); err == nil {
			return cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("package cache read failed", zap.Error(err))
		}
	}

	packages, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list packages")
	}
	if packages == nil {
		packages = []models.Package{}
	}

	if s.cacheEnabled() {
		if err := s.cache.Set(ctx, packagesCacheKey, packages, s.cacheCfg.TTL); err != nil {
			s.logger.Warn("package cache write failed", zap.Error(err))
		}
	}
	return packages, nil
}

// Get returns a package by identifier.
func (s *PackageService) Get(ctx context.Context, id string) (*models.Package, error) {
	pkg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "package not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load package")
	}
	return pkg, nil
}

// Create adds a new package and invalidates the cached listing.
func (s *PackageService) Create(ctx context.Context, req CreatePackageRequest) (*models.Package, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err, "invalid package payload")
	}

	pkg := &models.Package{
		Name:           req.Name,
		Description:    req.Description,
		TotalHours:     *req.TotalHours,
		PricePerHour:   req.PricePerHour,
		MaxStudents:    *req.MaxStudents,
		ValidityPeriod: *req.ValidityPeriod,
	}

	if err := s.repo.Create(ctx, pkg); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create package")
	}

	if s.cacheEnabled() {
		if err := s.cache.Delete(ctx, packagesCacheKey); err != nil {
			s.logger.Warn("package cache invalidation failed", zap.Error(err))
		}
	}
	return pkg, nil
}

func (s *PackageService) cacheEnabled() bool {
	return s.cacheCfg.Enabled && s.cache != nil
}
