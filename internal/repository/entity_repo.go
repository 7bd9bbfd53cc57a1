package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Generic-CRUD failures.
var (
	ErrInvalidEntity  = errors.New("invalid entity type")
	ErrEntityNotFound = errors.New("entity not found")
)

// entityTables whitelists the tables reachable through /admin-data and, per
// table, the columns an update may touch. Everything else in the request
// body is dropped.
var entityTables = map[string]map[string]bool{
	"bookings": {
		"customer_name": true, "email": true, "phone": true,
		"service_type": true, "booking_date": true, "status": true,
	},
	"products": {
		"name": true, "price": true, "image": true, "category": true,
		"description": true, "is_new": true, "discount": true, "rating": true,
		"review_count": true, "original_price": true, "stock": true,
	},
	"services": {
		"name": true, "description": true, "image": true, "price_range": true,
	},
	"testimonials": {
		"customer_name": true, "review": true, "rating": true, "service_type": true,
	},
	"contact_inquiries": {
		"name": true, "email": true, "phone": true, "message": true,
		"inquiry_type": true, "status": true, "priority": true, "resolved_at": true,
	},
	"service_requests": {
		"name": true, "email": true, "phone": true, "service_type": true,
		"details": true, "status": true,
	},
}

// products carries added_at instead of created_at.
var entityOrderColumn = map[string]string{
	"products": "added_at",
}

// EntityRepo is the generic row-store view behind /admin-data: list, patch,
// and delete over a fixed table whitelist, rows as maps.
type EntityRepo struct {
	pool *pgxpool.Pool
}

func NewEntityRepo(pool *pgxpool.Pool) *EntityRepo {
	return &EntityRepo{pool: pool}
}

// ValidEntity reports whether the entity type is served.
func ValidEntity(entity string) bool {
	_, ok := entityTables[entity]
	return ok
}

func (r *EntityRepo) List(ctx context.Context, entity string) ([]map[string]any, error) {
	if !ValidEntity(entity) {
		return nil, ErrInvalidEntity
	}
	order := entityOrderColumn[entity]
	if order == "" {
		order = "created_at"
	}
	rows, err := r.pool.Query(ctx,
		fmt.Sprintf("SELECT * FROM %s ORDER BY %s DESC", entity, order))
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToMap)
}

// Update patches the whitelisted columns present in fields and stamps
// updated_at. Returns the updated row.
func (r *EntityRepo) Update(ctx context.Context, entity string, id int64, fields map[string]any) (map[string]any, error) {
	allowed, ok := entityTables[entity]
	if !ok {
		return nil, ErrInvalidEntity
	}

	var sets []string
	var args []any
	for col, val := range fields {
		if !allowed[col] {
			continue
		}
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if len(sets) == 0 {
		return nil, fmt.Errorf("%w: no updatable fields", ErrInvalidEntity)
	}
	sets = append(sets, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING *",
		entity, strings.Join(sets, ", "), len(args))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	row, err := pgx.CollectOneRow(rows, pgx.RowToMap)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrEntityNotFound
	}
	return row, err
}

func (r *EntityRepo) Delete(ctx context.Context, entity string, id int64) error {
	if !ValidEntity(entity) {
		return ErrInvalidEntity
	}
	tag, err := r.pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", entity), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEntityNotFound
	}
	return nil
}
