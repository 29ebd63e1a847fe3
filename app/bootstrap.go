package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"

	"Gin_postgres_redis_division_inventory/auth"
	"Gin_postgres_redis_division_inventory/db"
	"Gin_postgres_redis_division_inventory/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BootstrapRepo interface {
	SeedDivisions(ctx context.Context) error
	CountAdmins(ctx context.Context) (int64, error)
	CreateProfile(ctx context.Context, p *models.Profile) error
}

var _ BootstrapRepo = (*db.Repo)(nil)

// Bootstrap 写入 A..H 分部；没有管理员时按环境变量建第一个管理员
func Bootstrap(ctx context.Context, cfg Config, repo BootstrapRepo, logger *zap.Logger) error {
	if err := repo.SeedDivisions(ctx); err != nil {
		return err
	}
	if cfg.BootstrapEmail == "" {
		return nil
	}
	n, err := repo.CountAdmins(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil // 已经有管理员，跳过
	}

	password := cfg.BootstrapPassword
	generated := password == ""
	if generated {
		buf := make([]byte, 12)
		if _, err := rand.Read(buf); err != nil {
			return err
		}
		password = hex.EncodeToString(buf)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	p := &models.Profile{
		ID:           uuid.NewString(),
		Name:         cfg.BootstrapName,
		Email:        cfg.BootstrapEmail,
		Role:         models.RoleAdmin,
		PasswordHash: hash,
	}
	if err := repo.CreateProfile(ctx, p); err != nil {
		return err
	}

	logger.Info("bootstrap admin created", zap.String("email", p.Email))
	if generated {
		// 只打印这一次
		logger.Warn("bootstrap admin password generated", zap.String("password", password))
	}
	return nil
}
