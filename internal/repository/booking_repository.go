package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tutorhive/tutorhive-api/internal/models"
)

// ErrCapacityReached signals that a package already carries max_students
// active bookings.
var ErrCapacityReached = errors.New("package capacity reached")

const bookingColumns = "id, user_id, package_id, subject_id, start_date, end_date, status, notes, zoom_link, remaining_hours, created_at, updated_at"

// BookingRepository handles persistence for bookings.
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository creates a new repository instance.
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// FindByID returns a booking by id.
func (r *BookingRepository) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	query := fmt.Sprintf("SELECT %s FROM bookings WHERE id = $1 LIMIT 1", bookingColumns)
	var booking models.Booking
	if err := r.db.GetContext(ctx, &booking, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find booking by id: %w", err)
	}
	return &booking, nil
}

// ListByUser returns every booking belonging to a user, newest first.
func (r *BookingRepository) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	query := fmt.Sprintf("SELECT %s FROM bookings WHERE user_id = $1 ORDER BY created_at DESC", bookingColumns)
	var bookings []models.Booking
	if err := r.db.SelectContext(ctx, &bookings, query, userID); err != nil {
		return nil, fmt.Errorf("list bookings for user: %w", err)
	}
	return bookings, nil
}

// List returns bookings matching filters with total count, joined with user,
// package, and subject display names for admin views.
func (r *BookingRepository) List(ctx context.Context, filter models.BookingFilter) ([]models.BookingDetail, int, error) {
	base := `FROM bookings b JOIN users u ON u.id = b.user_id JOIN packages p ON p.id = b.package_id JOIN subjects s ON s.id = b.subject_id WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("b.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.UserID != "" {
		conditions = append(conditions, fmt.Sprintf("b.user_id = $%d", len(args)+1))
		args = append(args, filter.UserID)
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT b.id, b.user_id, b.package_id, b.subject_id, b.start_date, b.end_date, b.status, b.notes, b.zoom_link, b.remaining_hours, b.created_at, b.updated_at, u.username AS username, p.name AS package_name, s.name AS subject_name %s ORDER BY b.created_at DESC LIMIT %d OFFSET %d", base, size, offset)
	var bookings []models.BookingDetail
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list bookings: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count bookings: %w", err)
	}

	return bookings, total, nil
}

// ListAllDetailed returns every booking with display names, oldest first.
// Used by report rendering where pagination does not apply.
func (r *BookingRepository) ListAllDetailed(ctx context.Context) ([]models.BookingDetail, error) {
	const query = `SELECT b.id, b.user_id, b.package_id, b.subject_id, b.start_date, b.end_date, b.status, b.notes, b.zoom_link, b.remaining_hours, b.created_at, b.updated_at, u.username AS username, p.name AS package_name, s.name AS subject_name FROM bookings b JOIN users u ON u.id = b.user_id JOIN packages p ON p.id = b.package_id JOIN subjects s ON s.id = b.subject_id ORDER BY b.created_at ASC`
	var bookings []models.BookingDetail
	if err := r.db.SelectContext(ctx, &bookings, query); err != nil {
		return nil, fmt.Errorf("list all bookings: %w", err)
	}
	return bookings, nil
}

// Create inserts a booking inside a transaction that serializes concurrent
// creations per package: the package row is locked, active bookings are
// counted against max_students, and remaining_hours is seeded from the
// package's total hours. Returns ErrCapacityReached when the package is full.
func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	booking.Status = models.BookingPending
	now := time.Now().UTC()
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = now
	}
	booking.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin booking tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var pkg struct {
		TotalHours  int `db:"total_hours"`
		MaxStudents int `db:"max_students"`
	}
	if err := tx.GetContext(ctx, &pkg, `SELECT total_hours, max_students FROM packages WHERE id = $1 FOR UPDATE`, booking.PackageID); err != nil {
		if err == sql.ErrNoRows {
			return err
		}
		return fmt.Errorf("lock package: %w", err)
	}

	var active int
	if err := tx.GetContext(ctx, &active, `SELECT COUNT(*) FROM bookings WHERE package_id = $1 AND status IN ('pending', 'confirmed')`, booking.PackageID); err != nil {
		return fmt.Errorf("count active bookings: %w", err)
	}
	if active >= pkg.MaxStudents {
		return ErrCapacityReached
	}

	remaining := float64(pkg.TotalHours)
	booking.RemainingHours = &remaining

	const insert = `INSERT INTO bookings (id, user_id, package_id, subject_id, start_date, end_date, status, notes, zoom_link, remaining_hours, created_at, updated_at) VALUES (:id, :user_id, :package_id, :subject_id, :start_date, :end_date, :status, :notes, :zoom_link, :remaining_hours, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, insert, booking); err != nil {
		return fmt.Errorf("create booking: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit booking tx: %w", err)
	}
	return nil
}

// UpdateStatus transitions a booking and returns the updated row. Returns
// sql.ErrNoRows when the booking does not exist.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, status models.BookingStatus) (*models.Booking, error) {
	query := fmt.Sprintf("UPDATE bookings SET status = $2, updated_at = $3 WHERE id = $1 RETURNING %s", bookingColumns)
	var booking models.Booking
	if err := r.db.GetContext(ctx, &booking, query, id, status, time.Now().UTC()); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("update booking status: %w", err)
	}
	return &booking, nil
}
