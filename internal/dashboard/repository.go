package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo runs the aggregate queries behind the dashboard overview. Counting
// happens in SQL; the handler only assembles the response.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

type BookingStats struct {
	Total     int
	Pending   int
	Completed int
	Cancelled int
	Recent    int
}

func (r *Repo) BookingStats(ctx context.Context) (BookingStats, error) {
	var s BookingStats
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'pending'),
		       COUNT(*) FILTER (WHERE status = 'completed'),
		       COUNT(*) FILTER (WHERE status = 'cancelled'),
		       COUNT(*) FILTER (WHERE created_at >= now() - INTERVAL '7 days')
		FROM bookings`,
	).Scan(&s.Total, &s.Pending, &s.Completed, &s.Cancelled, &s.Recent)
	return s, err
}

type ProductStats struct {
	Total          int
	LowStock       int
	OutOfStock     int
	InventoryValue float64
}

func (r *Repo) ProductStats(ctx context.Context) (ProductStats, error) {
	var s ProductStats
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE stock > 0 AND stock <= 5),
		       COUNT(*) FILTER (WHERE stock = 0),
		       COALESCE(SUM(price * stock), 0)
		FROM products`,
	).Scan(&s.Total, &s.LowStock, &s.OutOfStock, &s.InventoryValue)
	return s, err
}

type InquiryStats struct {
	Total        int
	New          int
	Resolved     int
	HighPriority int
	Medium       int
	Low          int
	Recent       int
}

func (r *Repo) InquiryStats(ctx context.Context) (InquiryStats, error) {
	var s InquiryStats
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'new'),
		       COUNT(*) FILTER (WHERE status = 'resolved'),
		       COUNT(*) FILTER (WHERE priority = 'high'),
		       COUNT(*) FILTER (WHERE priority = 'medium'),
		       COUNT(*) FILTER (WHERE priority = 'low'),
		       COUNT(*) FILTER (WHERE created_at >= now() - INTERVAL '7 days')
		FROM contact_inquiries`,
	).Scan(&s.Total, &s.New, &s.Resolved, &s.HighPriority, &s.Medium, &s.Low, &s.Recent)
	return s, err
}

type ServiceRequestStats struct {
	Total     int
	Pending   int
	Completed int
	Recent    int
}

func (r *Repo) ServiceRequestStats(ctx context.Context) (ServiceRequestStats, error) {
	var s ServiceRequestStats
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'pending'),
		       COUNT(*) FILTER (WHERE status = 'completed'),
		       COUNT(*) FILTER (WHERE created_at >= now() - INTERVAL '7 days')
		FROM service_requests`,
	).Scan(&s.Total, &s.Pending, &s.Completed, &s.Recent)
	return s, err
}

type TestimonialStats struct {
	Total         int
	AverageRating float64
	Recent        int
}

func (r *Repo) TestimonialStats(ctx context.Context) (TestimonialStats, error) {
	var s TestimonialStats
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(ROUND(AVG(rating), 1), 0),
		       COUNT(*) FILTER (WHERE created_at >= now() - INTERVAL '30 days')
		FROM testimonials`,
	).Scan(&s.Total, &s.AverageRating, &s.Recent)
	return s, err
}

func (r *Repo) ServiceCount(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM services").Scan(&n)
	return n, err
}

// Activity is one line of the recent-activity feed.
type Activity struct {
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Status      string    `json:"status"`
}

func (r *Repo) RecentBookingActivity(ctx context.Context, limit int) ([]Activity, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT customer_name, service_type, created_at, status
		FROM bookings ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Activity
	for rows.Next() {
		var name, serviceType, status string
		var createdAt time.Time
		if err := rows.Scan(&name, &serviceType, &createdAt, &status); err != nil {
			return nil, err
		}
		out = append(out, Activity{
			Type:        "booking",
			Title:       fmt.Sprintf("New booking from %s", name),
			Description: serviceType,
			Date:        createdAt,
			Status:      status,
		})
	}
	return out, rows.Err()
}

func (r *Repo) RecentInquiryActivity(ctx context.Context, limit int) ([]Activity, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT name, inquiry_type, created_at, status
		FROM contact_inquiries ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Activity
	for rows.Next() {
		var name, inquiryType, status string
		var createdAt time.Time
		if err := rows.Scan(&name, &inquiryType, &createdAt, &status); err != nil {
			return nil, err
		}
		out = append(out, Activity{
			Type:        "inquiry",
			Title:       fmt.Sprintf("Inquiry from %s", name),
			Description: inquiryType,
			Date:        createdAt,
			Status:      status,
		})
	}
	return out, rows.Err()
}

// monthlyTrendTables guards the table name interpolated into the trend query.
var monthlyTrendTables = map[string]bool{
	"bookings":          true,
	"contact_inquiries": true,
	"service_requests":  true,
}

// MonthlyCounts returns row counts per calendar month for the last `months`
// months, keyed by the first day of the month in UTC.
func (r *Repo) MonthlyCounts(ctx context.Context, table string, months int) (map[time.Time]int, error) {
	if !monthlyTrendTables[table] {
		return nil, fmt.Errorf("unsupported trend table %q", table)
	}
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT date_trunc('month', created_at AT TIME ZONE 'UTC') AS month, COUNT(*)
		FROM %s
		WHERE created_at >= date_trunc('month', now()) - ($1 - 1) * INTERVAL '1 month'
		GROUP BY month`, table), months)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[time.Time]int, months)
	for rows.Next() {
		var month time.Time
		var count int
		if err := rows.Scan(&month, &count); err != nil {
			return nil, err
		}
		out[time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)] = count
	}
	return out, rows.Err()
}
