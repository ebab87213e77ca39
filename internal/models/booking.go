package models

import "time"

// BookingStatus enumerates the booking lifecycle states.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// Valid reports whether the status is one of the four lifecycle states.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

// Booking links a user, package, and subject with a status lifecycle.
// Status and RemainingHours are server-assigned.
type Booking struct {
	ID             string        `db:"id" json:"id"`
	UserID         string        `db:"user_id" json:"user_id"`
	PackageID      string        `db:"package_id" json:"package_id"`
	SubjectID      string        `db:"subject_id" json:"subject_id"`
	StartDate      time.Time     `db:"start_date" json:"start_date"`
	EndDate        time.Time     `db:"end_date" json:"end_date"`
	Status         BookingStatus `db:"status" json:"status"`
	Notes          *string       `db:"notes" json:"notes,omitempty"`
	ZoomLink       *string       `db:"zoom_link" json:"zoom_link,omitempty"`
	RemainingHours *float64      `db:"remaining_hours" json:"remaining_hours,omitempty"`
	CreatedAt      time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time     `db:"updated_at" json:"updated_at"`
}

// BookingDetail joins a booking with display names for admin listings.
type BookingDetail struct {
	Booking
	Username    string `db:"username" json:"username"`
	PackageName string `db:"package_name" json:"package_name"`
	SubjectName string `db:"subject_name" json:"subject_name"`
}

// BookingFilter captures supported filters for the admin booking listing.
type BookingFilter struct {
	Status   BookingStatus
	UserID   string
	Page     int
	PageSize int
}
