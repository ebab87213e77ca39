package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorhive/tutorhive-api/internal/models"
)

func bookingRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "package_id", "subject_id", "start_date", "end_date", "status", "notes", "zoom_link", "remaining_hours", "created_at", "updated_at"}).
		AddRow("b1", "u1", "p1", "s1", now, now.Add(24*time.Hour), string(models.BookingPending), nil, nil, 10.0, now, now)
}

func TestFindBookingByID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, package_id, subject_id, start_date, end_date, status, notes, zoom_link, remaining_hours, created_at, updated_at FROM bookings WHERE id = $1 LIMIT 1")).
		WithArgs("b1").
		WillReturnRows(bookingRows(time.Now()))

	booking, err := repo.FindByID(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, models.BookingPending, booking.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListBookingsByUser(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE user_id = $1 ORDER BY created_at DESC")).
		WithArgs("u1").
		WillReturnRows(bookingRows(time.Now()))

	bookings, err := repo.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "u1", bookings[0].UserID)
}

func TestListBookingsFiltered(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	now := time.Now()
	listRows := sqlmock.NewRows([]string{"id", "user_id", "package_id", "subject_id", "start_date", "end_date", "status", "notes", "zoom_link", "remaining_hours", "created_at", "updated_at", "username", "package_name", "subject_name"}).
		AddRow("b1", "u1", "p1", "s1", now, now.Add(24*time.Hour), string(models.BookingConfirmed), nil, nil, 10.0, now, now, "student1", "Starter", "Algebra")
	mock.ExpectQuery(regexp.QuoteMeta("b.status = $1")).
		WithArgs(models.BookingConfirmed).
		WillReturnRows(listRows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs(models.BookingConfirmed).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	bookings, total, err := repo.List(context.Background(), models.BookingFilter{Status: models.BookingConfirmed})
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "student1", bookings[0].Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingSeedsRemainingHours(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT total_hours, max_students FROM packages WHERE id = $1 FOR UPDATE")).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"total_hours", "max_students"}).AddRow(12, 5))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM bookings WHERE package_id = $1 AND status IN ('pending', 'confirmed')")).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectExec("INSERT INTO bookings").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	booking := &models.Booking{UserID: "u1", PackageID: "p1", SubjectID: "s1", StartDate: time.Now(), EndDate: time.Now().Add(24 * time.Hour), Status: models.BookingConfirmed}
	err := repo.Create(context.Background(), booking)
	require.NoError(t, err)
	assert.Equal(t, models.BookingPending, booking.Status)
	require.NotNil(t, booking.RemainingHours)
	assert.Equal(t, 12.0, *booking.RemainingHours)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingCapacityReached(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT total_hours, max_students FROM packages WHERE id = $1 FOR UPDATE")).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"total_hours", "max_students"}).AddRow(12, 2))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM bookings")).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectRollback()

	booking := &models.Booking{UserID: "u1", PackageID: "p1", SubjectID: "s1"}
	err := repo.Create(context.Background(), booking)
	assert.ErrorIs(t, err, ErrCapacityReached)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingPackageMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT total_hours, max_students FROM packages").
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	booking := &models.Booking{UserID: "u1", PackageID: "ghost", SubjectID: "s1"}
	err := repo.Create(context.Background(), booking)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestUpdateBookingStatus(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "package_id", "subject_id", "start_date", "end_date", "status", "notes", "zoom_link", "remaining_hours", "created_at", "updated_at"}).
		AddRow("b1", "u1", "p1", "s1", now, now.Add(24*time.Hour), string(models.BookingConfirmed), nil, nil, 10.0, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE bookings SET status = $2, updated_at = $3 WHERE id = $1 RETURNING")).
		WillReturnRows(rows)

	booking, err := repo.UpdateStatus(context.Background(), "b1", models.BookingConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, booking.Status)
}

func TestUpdateBookingStatusMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	mock.ExpectQuery("UPDATE bookings SET status").WillReturnError(sql.ErrNoRows)

	_, err := repo.UpdateStatus(context.Background(), "ghost", models.BookingCancelled)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
