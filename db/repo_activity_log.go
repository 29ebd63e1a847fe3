package db

import (
	"context"
	"fmt"

	"Gin_postgres_redis_division_inventory/access"
	"Gin_postgres_redis_division_inventory/models"
)

// DefaultActivityLimit 仪表盘只取最近 20 条
const DefaultActivityLimit = 20

func (r *Repo) ListActivityLogs(ctx context.Context, scope access.Scope, limit int) ([]models.ActivityLogRow, error) {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	var rows []models.ActivityLogRow
	err := r.DB.WithContext(ctx).
		Table(models.ActivityLogTable+" al").
		Select("al.*, p.name AS user_name").
		Joins("LEFT JOIN "+models.ProfileTable+" p ON p.id = al.user_id").
		Scopes(scoped("al.division_id", scope)).
		Order("al.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *Repo) AppendActivityLog(ctx context.Context, l *models.ActivityLog) error {
	if err := r.DB.WithContext(ctx).Create(l).Error; err != nil {
		return fmt.Errorf("insert activity log: %w", err)
	}
	return nil
}
