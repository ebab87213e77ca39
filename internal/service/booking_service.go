package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/tutorhive/tutorhive-api/internal/models"
	"github.com/tutorhive/tutorhive-api/internal/repository"
	appErrors "github.com/tutorhive/tutorhive-api/pkg/errors"
)

type bookingRepository interface {
	FindByID(ctx context.Context, id string) (*models.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]models.Booking, error)
	List(ctx context.Context, filter models.BookingFilter) ([]models.BookingDetail, int, error)
	Create(ctx context.Context, booking *models.Booking) error
	UpdateStatus(ctx context.Context, id string, status models.BookingStatus) (*models.Booking, error)
}

type packageFinder interface {
	FindByID(ctx context.Context, id string) (*models.Package, error)
}

type subjectFinder interface {
	FindByID(ctx context.Context, id string) (*models.Subject, error)
}

// CreateBookingRequest captures the insertable booking shape. user_id comes
// from the session identity and status/remaining_hours are server-assigned,
// so none of them are accepted here.
type CreateBookingRequest struct {
	PackageID string    `json:"package_id" validate:"required"`
	SubjectID string    `json:"subject_id" validate:"required"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required,gtfield=StartDate"`
	Notes     *string   `json:"notes" validate:"omitempty"`
	ZoomLink  *string   `json:"zoom_link" validate:"omitempty,url"`
}

// UpdateBookingStatusRequest transitions a booking through its lifecycle.
// The enum is enforced here so the repository only ever sees valid states.
type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed completed cancelled"`
}

// BookingService handles booking workflows.
type BookingService struct {
	repo      bookingRepository
	packages  packageFinder
	subjects  subjectFinder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBookingService creates a new booking service.
func NewBookingService(repo bookingRepository, packages packageFinder, subjects subjectFinder, validate *validator.Validate, logger *zap.Logger) *BookingService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingService{repo: repo, packages: packages, subjects: subjects, validator: validate, logger: logger}
}

// Create books a package for the authenticated user. The referenced package
// and subject must exist; capacity exhaustion surfaces as a conflict.
func (s *BookingService) Create(ctx context.Context, userID string, req CreateBookingRequest) (*models.Booking, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err, "invalid booking payload")
	}

	if _, err := s.packages.FindByID(ctx, req.PackageID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, "invalid booking payload"),
				[]appErrors.FieldError{{Field: "package_id", Message: "package_id must reference an existing package"}})
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load package")
	}
	if _, err := s.subjects.FindByID(ctx, req.SubjectID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, "invalid booking payload"),
				[]appErrors.FieldError{{Field: "subject_id", Message: "subject_id must reference an existing subject"}})
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}

	booking := &models.Booking{
		UserID:    userID,
		PackageID: req.PackageID,
		SubjectID: req.SubjectID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Notes:     req.Notes,
		ZoomLink:  req.ZoomLink,
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		if errors.Is(err, repository.ErrCapacityReached) {
			return nil, appErrors.Clone(appErrors.ErrPackageFull, "")
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "package not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create booking")
	}
	return booking, nil
}

// ListForUser returns the caller's own bookings.
func (s *BookingService) ListForUser(ctx context.Context, userID string) ([]models.Booking, error) {
	bookings, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list bookings")
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	return bookings, nil
}

// Get returns a booking visible to the caller: owners see their own, admins
// see everything.
func (s *BookingService) Get(ctx context.Context, id string, caller *models.User) (*models.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "booking not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load booking")
	}
	if !caller.IsAdmin && booking.UserID != caller.ID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "booking belongs to another user")
	}
	return booking, nil
}

// ListAll returns bookings across all users for admin views.
func (s *BookingService) ListAll(ctx context.Context, filter models.BookingFilter) ([]models.BookingDetail, *models.Pagination, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, nil, appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, "invalid booking filter"),
			[]appErrors.FieldError{{Field: "status", Message: "status must be one of: pending confirmed completed cancelled"}})
	}

	bookings, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list bookings")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return bookings, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// UpdateStatus transitions a booking's lifecycle state.
func (s *BookingService) UpdateStatus(ctx context.Context, id string, req UpdateBookingStatusRequest) (*models.Booking, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err, "invalid status payload")
	}

	booking, err := s.repo.UpdateStatus(ctx, id, models.BookingStatus(req.Status))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "booking not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update booking status")
	}
	return booking, nil
}
