package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/drkleen/backend/internal/models"
)

type SettingRepo struct {
	pool *pgxpool.Pool
}

func NewSettingRepo(pool *pgxpool.Pool) *SettingRepo {
	return &SettingRepo{pool: pool}
}

func (r *SettingRepo) List(ctx context.Context) ([]*models.WebsiteSetting, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, setting_key, setting_value, description, updated_by, created_at, updated_at
		FROM website_settings ORDER BY setting_key ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.WebsiteSetting
	for rows.Next() {
		var s models.WebsiteSetting
		if err := rows.Scan(&s.ID, &s.SettingKey, &s.SettingValue, &s.Description,
			&s.UpdatedBy, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// Upsert creates the setting or replaces its value. An empty description
// keeps the existing one.
func (r *SettingRepo) Upsert(ctx context.Context, key, value, description string, updatedBy int64) (*models.WebsiteSetting, error) {
	var s models.WebsiteSetting
	err := r.pool.QueryRow(ctx, `
		INSERT INTO website_settings (setting_key, setting_value, description, updated_by)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (setting_key) DO UPDATE SET
			setting_value = EXCLUDED.setting_value,
			description = COALESCE(NULLIF(EXCLUDED.description, ''), website_settings.description),
			updated_by = EXCLUDED.updated_by,
			updated_at = now()
		RETURNING id, setting_key, setting_value, description, updated_by, created_at, updated_at
	`, key, value, description, updatedBy,
	).Scan(&s.ID, &s.SettingKey, &s.SettingValue, &s.Description, &s.UpdatedBy,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
