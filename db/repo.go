package db

import (
	"context"
	"errors"
	"strings"

	"Gin_postgres_redis_division_inventory/models"

	"gorm.io/gorm"
)

type Repo struct{ DB *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{DB: db} }

var ErrProfileNotFound = errors.New("profile not found")

// Profiles

func (r *Repo) FindProfileByID(ctx context.Context, id string) (*models.Profile, error) {
	var p models.Profile
	if err := r.DB.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *Repo) FindProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var p models.Profile
	err := r.DB.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *Repo) TouchProfileSeen(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ?", id).
		Update("last_seen_at", gorm.Expr("NOW()")).Error
}

func (r *Repo) CreateProfile(ctx context.Context, p *models.Profile) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

func (r *Repo) CountAdmins(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).
		Model(&models.Profile{}).
		Where("role = ?", models.RoleAdmin).
		Count(&n).Error
	return n, err
}

// 列表（分页 + 关键词，匹配姓名/邮箱）
type ListProfilesResult struct {
	Profiles []models.Profile `json:"profiles"`
	Total    int64            `json:"total"`
}

func (r *Repo) ListProfiles(ctx context.Context, q, division string, page, size int) (ListProfilesResult, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}

	tx := r.DB.WithContext(ctx).Model(&models.Profile{})
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}
	if division != "" {
		tx = tx.Where("division_id = ?", division)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return ListProfilesResult{}, err
	}

	var profiles []models.Profile
	if err := tx.
		Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&profiles).Error; err != nil {
		return ListProfilesResult{}, err
	}
	return ListProfilesResult{Profiles: profiles, Total: total}, nil
}

// Divisions

func (r *Repo) SeedDivisions(ctx context.Context) error {
	for _, id := range models.KnownDivisions {
		d := models.Division{ID: id, Name: "Division " + id}
		if err := r.DB.WithContext(ctx).
			Where(models.Division{ID: id}).
			FirstOrCreate(&d).Error; err != nil {
			return err
		}
	}
	return nil
}
