package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/tutorhive/tutorhive-api/internal/models"
	appErrors "github.com/tutorhive/tutorhive-api/pkg/errors"
)

type subjectRepository interface {
	List(ctx context.Context) ([]models.Subject, error)
	FindByID(ctx context.Context, id string) (*models.Subject, error)
	Create(ctx context.Context, subject *models.Subject) error
}

const subjectsCacheKey = "catalog:subjects"

// CreateSubjectRequest captures the insertable subject shape.
type CreateSubjectRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Level       string  `json:"level" validate:"required,oneof='Elementary' 'Middle School' 'High School' 'College'"`
	Category    string  `json:"category" validate:"required,oneof='Mathematics' 'Science' 'Languages' 'Arts' 'Social Studies' 'Test Prep'"`
	ImageURL    *string `json:"image_url" validate:"omitempty,url"`
}

// SubjectService handles subject catalog workflows.
type SubjectService struct {
	repo      subjectRepository
	cache     catalogCache
	cacheCfg  CatalogCacheConfig
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubjectService creates a new subject service.
func NewSubjectService(repo subjectRepository, cache catalogCache, cacheCfg CatalogCacheConfig, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectService{repo: repo, cache: cache, cacheCfg: cacheCfg, validator: validate, logger: logger}
}

// List returns every subject, served from cache when enabled.
func (s *SubjectService) List(ctx context.Context) ([]models.Subject, error) {
	if s.cacheEnabled() {
		var cached []models.Subject
		if err := s.cache.Get(ctx, subjectsCacheKey, &cached); err == nil {
			return cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("subject cache read failed", zap.Error(err))
		}
	}

	subjects, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	if subjects == nil {
		subjects = []models.Subject{}
	}

	if s.cacheEnabled() {
		if err := s.cache.Set(ctx, subjectsCacheKey, subjects, s.cacheCfg.TTL); err != nil {
			s.logger.Warn("subject cache write failed", zap.Error(err))
		}
	}
	return subjects, nil
}

// Get returns a subject by identifier.
func (s *SubjectService) Get(ctx context.Context, id string) (*models.Subject, error) {
	subject, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	return subject, nil
}

// Create adds a new subject and invalidates the cached listing.
func (s *SubjectService) Create(ctx context.Context, req CreateSubjectRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err, "invalid subject payload")
	}

	subject := &models.Subject{
		Name:        req.Name,
		Description: req.Description,
		Level:       models.SubjectLevel(req.Level),
		Category:    models.SubjectCategory(req.Category),
		ImageURL:    req.ImageURL,
	}

	if err := s.repo.Create(ctx, subject); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create subject")
	}

	if s.cacheEnabled() {
		if err := s.cache.Delete(ctx, subjectsCacheKey); err != nil {
			s.logger.Warn("subject cache invalidation failed", zap.Error(err))
		}
	}
	return subject, nil
}

func (s *SubjectService) cacheEnabled() bool {
	return s.cacheCfg.Enabled && s.cache != nil
}
