package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tutorhive/tutorhive-api/internal/models"
)

// PackageRepository handles persistence for tutoring packages.
type PackageRepository struct {
	db *sqlx.DB
}

// NewPackageRepository creates a new repository instance.
func NewPackageRepository(db *sqlx.DB) *PackageRepository {
	return &PackageRepository{db: db}
}

// List returns every package in insertion order. created_at is the explicit
// order key so the listing stays stable across replicas.
func (r *PackageRepository) List(ctx context.Context) ([]models.Package, error) {
	const query = `SELECT id, name, description, total_hours, price_per_hour, max_students, validity_period, featured_order, created_at, updated_at FROM packages ORDER BY created_at ASC`
	var packages []models.Package
	if err := r.db.SelectContext(ctx, &packages, query); err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	return packages, nil
}

// FindByID returns a package by id.
func (r *PackageRepository) FindByID(ctx context.Context, id string) (*models.Package, error) {
	const query = `SELECT id, name, description, total_hours, price_per_hour, max_students, validity_period, featured_order, created_at, updated_at FROM packages WHERE id = $1 LIMIT 1`
	var pkg models.Package
	if err := r.db.GetContext(ctx, &pkg, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find package by id: %w", err)
	}
	return &pkg, nil
}

// Create persists a new package. FeaturedOrder stays NULL until curated.
func (r *PackageRepository) Create(ctx context.Context, pkg *models.Package) error {
	if pkg.ID == "" {
		pkg.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if pkg.CreatedAt.IsZero() {
		pkg.CreatedAt = now
	}
	pkg.UpdatedAt = now

	const query = `INSERT INTO packages (id, name, description, total_hours, price_per_hour, max_students, validity_period, featured_order, created_at, updated_at) VALUES (:id, :name, :description, :total_hours, :price_per_hour, :max_students, :validity_period, :featured_order, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, pkg); err != nil {
		return fmt.Errorf("create package: %w", err)
	}
	return nil
}
