package db

import (
	"context"
	"strings"

	"Gin_postgres_redis_division_inventory/access"
	"Gin_postgres_redis_division_inventory/models"

	"gorm.io/gorm"
)

const inventorySelect = `
	i.*,
	ab.name AS added_by_name,
	sp.name AS scientist_name
`

type InventoryQuery struct {
	Q           string // 模糊搜索：item_name/category/location
	Status      models.ItemStatus
	Calibration models.CalibrationStatus
	Page        int
	Size        int
}

type PagedInventory struct {
	Total int64                 `json:"total"`
	Items []models.InventoryRow `json:"items"`
}

func scoped(column string, scope access.Scope) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if scope.All() {
			return tx
		}
		return tx.Where(column+" = ?", scope.Division)
	}
}

func (r *Repo) inventoryRows(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).
		Table(models.InventoryTable+" i").
		Joins("LEFT JOIN "+models.ProfileTable+" ab ON ab.id = i.added_by").
		Joins("LEFT JOIN "+models.ProfileTable+" sp ON sp.id = i.scientist_assigned")
}

// ListInventory returns every item in scope, newest first, with the
// display names of added_by and scientist_assigned.
func (r *Repo) ListInventory(ctx context.Context, scope access.Scope) ([]models.InventoryRow, error) {
	var rows []models.InventoryRow
	err := r.inventoryRows(ctx).
		Select(inventorySelect).
		Scopes(scoped("i.division_id", scope)).
		Order("i.created_at DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *Repo) SearchInventory(ctx context.Context, scope access.Scope, q InventoryQuery) (*PagedInventory, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Size <= 0 || q.Size > 200 {
		q.Size = 20
	}

	filter := func(tx *gorm.DB) *gorm.DB {
		tx = tx.Scopes(scoped("i.division_id", scope))
		if s := strings.TrimSpace(q.Q); s != "" {
			pat := "%" + strings.ToLower(s) + "%"
			tx = tx.Where("LOWER(i.item_name) LIKE ? OR LOWER(i.category) LIKE ? OR LOWER(i.location) LIKE ?", pat, pat, pat)
		}
		if q.Status != "" {
			tx = tx.Where("i.status = ?", q.Status)
		}
		if q.Calibration != "" {
			tx = tx.Where("i.calibration_status = ?", q.Calibration)
		}
		return tx
	}

	var total int64
	if err := r.DB.WithContext(ctx).
		Table(models.InventoryTable + " i").
		Scopes(filter).
		Count(&total).Error; err != nil {
		return nil, err
	}

	var rows []models.InventoryRow
	if err := r.inventoryRows(ctx).
		Select(inventorySelect).
		Scopes(filter).
		Order("i.created_at DESC").
		Offset((q.Page - 1) * q.Size).
		Limit(q.Size).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return &PagedInventory{Total: total, Items: rows}, nil
}
