package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorhive/tutorhive-api/internal/models"
	"github.com/tutorhive/tutorhive-api/internal/repository"
	appErrors "github.com/tutorhive/tutorhive-api/pkg/errors"
)

type mockBookingRepo struct {
	bookings  map[string]*models.Booking
	details   []models.BookingDetail
	createErr error
	created   *models.Booking
	updated   *models.Booking
	updateErr error
}

func (m *mockBookingRepo) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	if b, ok := m.bookings[id]; ok {
		return b, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockBookingRepo) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range m.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *mockBookingRepo) List(ctx context.Context, filter models.BookingFilter) ([]models.BookingDetail, int, error) {
	return m.details, len(m.details), nil
}

func (m *mockBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	if m.createErr != nil {
		return m.createErr
	}
	booking.ID = "new-booking"
	booking.Status = models.BookingPending
	m.created = booking
	return nil
}

func (m *mockBookingRepo) UpdateStatus(ctx context.Context, id string, status models.BookingStatus) (*models.Booking, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	b, ok := m.bookings[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	b.Status = status
	m.updated = b
	return b, nil
}

func validBookingRequest() CreateBookingRequest {
	start := time.Now().Add(24 * time.Hour)
	return CreateBookingRequest{
		PackageID: "p1",
		SubjectID: "s1",
		StartDate: start,
		EndDate:   start.Add(30 * 24 * time.Hour),
	}
}

func newTestBookingService(repo *mockBookingRepo) *BookingService {
	packages := &mockPackageRepo{packages: []models.Package{{ID: "p1", Name: "Starter", TotalHours: 10, MaxStudents: 5}}}
	subjects := &mockSubjectRepo{subjects: []models.Subject{{ID: "s1", Name: "Algebra"}}}
	return NewBookingService(repo, packages, subjects, nil, nil)
}

func TestBookingCreateSuccess(t *testing.T) {
	repo := &mockBookingRepo{}
	svc := newTestBookingService(repo)

	booking, err := svc.Create(context.Background(), "u1", validBookingRequest())
	require.NoError(t, err)
	assert.Equal(t, "u1", booking.UserID)
	assert.Equal(t, models.BookingPending, booking.Status)
	require.NotNil(t, repo.created)
}

func TestBookingCreateUnknownPackage(t *testing.T) {
	svc := newTestBookingService(&mockBookingRepo{})

	req := validBookingRequest()
	req.PackageID = "ghost"
	_, err := svc.Create(context.Background(), "u1", req)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	require.Len(t, appErr.Details, 1)
	assert.Equal(t, "package_id", appErr.Details[0].Field)
}

func TestBookingCreateUnknownSubject(t *testing.T) {
	svc := newTestBookingService(&mockBookingRepo{})

	req := validBookingRequest()
	req.SubjectID = "ghost"
	_, err := svc.Create(context.Background(), "u1", req)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	require.Len(t, appErr.Details, 1)
	assert.Equal(t, "subject_id", appErr.Details[0].Field)
}

func TestBookingCreateCapacityConflict(t *testing.T) {
	repo := &mockBookingRepo{createErr: repository.ErrCapacityReached}
	svc := newTestBookingService(repo)

	_, err := svc.Create(context.Background(), "u1", validBookingRequest())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrPackageFull.Code, appErr.Code)
	assert.Equal(t, 409, appErr.Status)
}

func TestBookingCreateEndBeforeStart(t *testing.T) {
	svc := newTestBookingService(&mockBookingRepo{})

	req := validBookingRequest()
	req.EndDate = req.StartDate.Add(-time.Hour)
	_, err := svc.Create(context.Background(), "u1", req)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	require.Len(t, appErr.Details, 1)
	assert.Equal(t, "end_date", appErr.Details[0].Field)
}

func TestBookingGetOwner(t *testing.T) {
	repo := &mockBookingRepo{bookings: map[string]*models.Booking{"b1": {ID: "b1", UserID: "u1"}}}
	svc := newTestBookingService(repo)

	booking, err := svc.Get(context.Background(), "b1", &models.User{ID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, "b1", booking.ID)
}

func TestBookingGetForbiddenForOtherUser(t *testing.T) {
	repo := &mockBookingRepo{bookings: map[string]*models.Booking{"b1": {ID: "b1", UserID: "u1"}}}
	svc := newTestBookingService(repo)

	_, err := svc.Get(context.Background(), "b1", &models.User{ID: "u2"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestBookingGetAdminSeesAll(t *testing.T) {
	repo := &mockBookingRepo{bookings: map[string]*models.Booking{"b1": {ID: "b1", UserID: "u1"}}}
	svc := newTestBookingService(repo)

	booking, err := svc.Get(context.Background(), "b1", &models.User{ID: "admin", IsAdmin: true})
	require.NoError(t, err)
	assert.Equal(t, "b1", booking.ID)
}

func TestBookingListForUserNeverNil(t *testing.T) {
	svc := newTestBookingService(&mockBookingRepo{})

	bookings, err := svc.ListForUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.NotNil(t, bookings)
	assert.Empty(t, bookings)
}

func TestBookingListAllInvalidStatus(t *testing.T) {
	svc := newTestBookingService(&mockBookingRepo{})

	_, _, err := svc.ListAll(context.Background(), models.BookingFilter{Status: "archived"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestBookingListAllPagination(t *testing.T) {
	repo := &mockBookingRepo{details: []models.BookingDetail{{Booking: models.Booking{ID: "b1"}, Username: "student1"}}}
	svc := newTestBookingService(repo)

	bookings, pagination, err := svc.ListAll(context.Background(), models.BookingFilter{})
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	require.NotNil(t, pagination)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 20, pagination.PageSize)
	assert.Equal(t, 1, pagination.TotalCount)
}

func TestBookingUpdateStatusInvalidValue(t *testing.T) {
	svc := newTestBookingService(&mockBookingRepo{})

	_, err := svc.UpdateStatus(context.Background(), "b1", UpdateBookingStatusRequest{Status: "archived"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	require.Len(t, appErr.Details, 1)
	assert.Equal(t, "status", appErr.Details[0].Field)
}

func TestBookingUpdateStatusMissing(t *testing.T) {
	svc := newTestBookingService(&mockBookingRepo{bookings: map[string]*models.Booking{}})

	_, err := svc.UpdateStatus(context.Background(), "ghost", UpdateBookingStatusRequest{Status: "confirmed"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestBookingUpdateStatusSuccess(t *testing.T) {
	repo := &mockBookingRepo{bookings: map[string]*models.Booking{"b1": {ID: "b1", UserID: "u1", Status: models.BookingPending}}}
	svc := newTestBookingService(repo)

	booking, err := svc.UpdateStatus(context.Background(), "b1", UpdateBookingStatusRequest{Status: "confirmed"})
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, booking.Status)
}
