package models

import "time"

// Package represents a purchasable bundle of tutoring hours.
type Package struct {
	ID             string    `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Description    string    `db:"description" json:"description"`
	TotalHours     int       `db:"total_hours" json:"total_hours"`
	PricePerHour   float64   `db:"price_per_hour" json:"price_per_hour"`
	MaxStudents    int       `db:"max_students" json:"max_students"`
	ValidityPeriod int       `db:"validity_period" json:"validity_period"`
	FeaturedOrder  *int      `db:"featured_order" json:"featured_order,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}
