package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/drkleen/backend/internal/models"
)

type ServiceRepo struct {
	pool *pgxpool.Pool
}

func NewServiceRepo(pool *pgxpool.Pool) *ServiceRepo {
	return &ServiceRepo{pool: pool}
}

func (r *ServiceRepo) List(ctx context.Context) ([]*models.Service, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, description, image, price_range, created_at, updated_at
		FROM services ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Service
	for rows.Next() {
		var s models.Service
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.Image, &s.PriceRange,
			&s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

func (r *ServiceRepo) Create(ctx context.Context, s *models.Service) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO services (name, description, image, price_range)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, s.Name, s.Description, s.Image, s.PriceRange).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

type BannerRepo struct {
	pool *pgxpool.Pool
}

func NewBannerRepo(pool *pgxpool.Pool) *BannerRepo {
	return &BannerRepo{pool: pool}
}

func (r *BannerRepo) List(ctx context.Context) ([]*models.Banner, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, subtitle, discount, image, bg_color, added_at
		FROM banners ORDER BY added_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Banner
	for rows.Next() {
		var b models.Banner
		if err := rows.Scan(&b.ID, &b.Title, &b.Subtitle, &b.Discount, &b.Image,
			&b.BgColor, &b.AddedAt); err != nil {
			return nil, err
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

type TestimonialRepo struct {
	pool *pgxpool.Pool
}

func NewTestimonialRepo(pool *pgxpool.Pool) *TestimonialRepo {
	return &TestimonialRepo{pool: pool}
}

// List returns testimonials, newest first, capped at limit (0 = no cap).
func (r *TestimonialRepo) List(ctx context.Context, limit int) ([]*models.Testimonial, error) {
	query := `
		SELECT id, customer_name, review, rating, service_type, created_at, updated_at
		FROM testimonials ORDER BY created_at DESC`
	var rows pgx.Rows
	var err error
	if limit > 0 {
		rows, err = r.pool.Query(ctx, query+" LIMIT $1", limit)
	} else {
		rows, err = r.pool.Query(ctx, query)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Testimonial
	for rows.Next() {
		var t models.Testimonial
		if err := rows.Scan(&t.ID, &t.CustomerName, &t.Review, &t.Rating, &t.ServiceType,
			&t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}
