package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/drkleen/backend/internal/models"
)

// ProductFilter mirrors the shop's browse query parameters.
type ProductFilter struct {
	Category  string
	Search    string
	MinPrice  *float64
	MaxPrice  *float64
	SortBy    string
	SortOrder string
}

// Sortable product columns. Anything else falls back to id.
var productSortColumns = map[string]bool{
	"id": true, "name": true, "price": true, "rating": true,
	"stock": true, "category": true, "added_at": true,
}

const productColumns = `id, name, price, image, category, description, is_new, discount,
	rating, review_count, original_price, stock, added_at, updated_at`

type ProductRepo struct {
	pool *pgxpool.Pool
}

func NewProductRepo(pool *pgxpool.Pool) *ProductRepo {
	return &ProductRepo{pool: pool}
}

// List returns products matching the filter, sorted per the whitelist.
func (r *ProductRepo) List(ctx context.Context, f ProductFilter) ([]*models.Product, error) {
	var conds []string
	var args []any

	if f.Category != "" && f.Category != "All Products" {
		args = append(args, f.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		conds = append(conds, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if f.MinPrice != nil {
		args = append(args, *f.MinPrice)
		conds = append(conds, fmt.Sprintf("price >= $%d", len(args)))
	}
	if f.MaxPrice != nil {
		args = append(args, *f.MaxPrice)
		conds = append(conds, fmt.Sprintf("price <= $%d", len(args)))
	}

	query := "SELECT " + productColumns + " FROM products"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY " + f.OrderClause()

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Image, &p.Category, &p.Description,
			&p.IsNew, &p.Discount, &p.Rating, &p.ReviewCount, &p.OriginalPrice, &p.Stock,
			&p.AddedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// OrderClause returns a safe ORDER BY expression for the filter.
func (f ProductFilter) OrderClause() string {
	col := f.SortBy
	if !productSortColumns[col] {
		col = "id"
	}
	dir := "ASC"
	if strings.EqualFold(f.SortOrder, "desc") {
		dir = "DESC"
	}
	return col + " " + dir
}

// Create inserts a catalog product. New products start at rating 5.0 with no
// reviews.
func (r *ProductRepo) Create(ctx context.Context, p *models.Product) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO products (name, price, image, category, description, is_new, discount,
			original_price, rating, review_count, stock)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 5.0, 0, $9)
		RETURNING id, rating, review_count, added_at, updated_at
	`, p.Name, p.Price, p.Image, p.Category, p.Description, p.IsNew, p.Discount, p.OriginalPrice, p.Stock,
	).Scan(&p.ID, &p.Rating, &p.ReviewCount, &p.AddedAt, &p.UpdatedAt)
}
