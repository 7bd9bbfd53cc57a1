package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/drkleen/backend/internal/models"
)

const inquiryColumns = `id, name, email, phone, message, inquiry_type, status, priority,
	resolved_at, created_at, updated_at`

// InquiryFilter narrows the admin inquiry listing.
type InquiryFilter struct {
	Status   string
	Priority string
	Limit    int
	Offset   int
}

type InquiryRepo struct {
	pool *pgxpool.Pool
}

func NewInquiryRepo(pool *pgxpool.Pool) *InquiryRepo {
	return &InquiryRepo{pool: pool}
}

func scanInquiry(row interface{ Scan(...any) error }, q *models.ContactInquiry) error {
	return row.Scan(&q.ID, &q.Name, &q.Email, &q.Phone, &q.Message, &q.InquiryType,
		&q.Status, &q.Priority, &q.ResolvedAt, &q.CreatedAt, &q.UpdatedAt)
}

// Create inserts an inquiry with the workflow defaults (general/new/medium).
func (r *InquiryRepo) Create(ctx context.Context, q *models.ContactInquiry) error {
	if q.InquiryType == "" {
		q.InquiryType = models.InquiryTypeGeneral
	}
	q.Status = models.InquiryStatusNew
	q.Priority = models.InquiryPriorityMedium
	return r.pool.QueryRow(ctx, `
		INSERT INTO contact_inquiries (name, email, phone, message, inquiry_type, status, priority)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, q.Name, q.Email, q.Phone, q.Message, q.InquiryType, q.Status, q.Priority,
	).Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt)
}

func (r *InquiryRepo) List(ctx context.Context, f InquiryFilter) ([]*models.ContactInquiry, error) {
	var conds []string
	var args []any
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.Priority != "" {
		args = append(args, f.Priority)
		conds = append(conds, fmt.Sprintf("priority = $%d", len(args)))
	}

	query := "SELECT " + inquiryColumns + " FROM contact_inquiries"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.ContactInquiry
	for rows.Next() {
		var q models.ContactInquiry
		if err := scanInquiry(rows, &q); err != nil {
			return nil, err
		}
		list = append(list, &q)
	}
	return list, rows.Err()
}

// UpdateStatus patches workflow fields. Moving into resolved without a
// resolved_at stamps one.
func (r *InquiryRepo) UpdateStatus(ctx context.Context, id int64, status, priority string) (*models.ContactInquiry, error) {
	var resolvedAt *time.Time
	if status == models.InquiryStatusResolved {
		now := time.Now()
		resolvedAt = &now
	}
	var q models.ContactInquiry
	err := scanInquiry(r.pool.QueryRow(ctx, `
		UPDATE contact_inquiries
		SET status = COALESCE(NULLIF($2, ''), status),
			priority = COALESCE(NULLIF($3, ''), priority),
			resolved_at = COALESCE(resolved_at, $4),
			updated_at = now()
		WHERE id = $1
		RETURNING `+inquiryColumns+`
	`, id, status, priority, resolvedAt), &q)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// Stats aggregates inquiry counts by workflow state.
func (r *InquiryRepo) Stats(ctx context.Context) (map[string]int, error) {
	var total, newCount, inProgress, resolved, highPriority int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE status = 'new'),
			COUNT(*) FILTER (WHERE status = 'in_progress'),
			COUNT(*) FILTER (WHERE status = 'resolved'),
			COUNT(*) FILTER (WHERE priority = 'high')
		FROM contact_inquiries
	`).Scan(&total, &newCount, &inProgress, &resolved, &highPriority)
	if err != nil {
		return nil, err
	}
	return map[string]int{
		"total":         total,
		"new":           newCount,
		"in_progress":   inProgress,
		"resolved":      resolved,
		"high_priority": highPriority,
	}, nil
}
