package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/drkleen/backend/internal/models"
)

const bookingColumns = `id, customer_name, email, phone, service_type,
	to_char(booking_date, 'YYYY-MM-DD'), status, created_at, updated_at`

type BookingRepo struct {
	pool *pgxpool.Pool
}

func NewBookingRepo(pool *pgxpool.Pool) *BookingRepo {
	return &BookingRepo{pool: pool}
}

// Create inserts a booking. An empty booking_date defaults to today and the
// status starts as pending.
func (r *BookingRepo) Create(ctx context.Context, b *models.Booking) error {
	b.Status = models.BookingStatusPending
	if b.BookingDate == "" {
		return r.pool.QueryRow(ctx, `
			INSERT INTO bookings (customer_name, email, phone, service_type, status)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, to_char(booking_date, 'YYYY-MM-DD'), created_at, updated_at
		`, b.CustomerName, b.Email, b.Phone, b.ServiceType, b.Status,
		).Scan(&b.ID, &b.BookingDate, &b.CreatedAt, &b.UpdatedAt)
	}
	return r.pool.QueryRow(ctx, `
		INSERT INTO bookings (customer_name, email, phone, service_type, booking_date, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, b.CustomerName, b.Email, b.Phone, b.ServiceType, b.BookingDate, b.Status,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

func (r *BookingRepo) List(ctx context.Context) ([]*models.Booking, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+bookingColumns+` FROM bookings ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Booking
	for rows.Next() {
		var b models.Booking
		if err := rows.Scan(&b.ID, &b.CustomerName, &b.Email, &b.Phone, &b.ServiceType,
			&b.BookingDate, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

type ServiceRequestRepo struct {
	pool *pgxpool.Pool
}

func NewServiceRequestRepo(pool *pgxpool.Pool) *ServiceRequestRepo {
	return &ServiceRequestRepo{pool: pool}
}

func (r *ServiceRequestRepo) List(ctx context.Context) ([]*models.ServiceRequest, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, email, phone, service_type, details, status, created_at, updated_at
		FROM service_requests ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.ServiceRequest
	for rows.Next() {
		var s models.ServiceRequest
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.ServiceType, &s.Details,
			&s.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
