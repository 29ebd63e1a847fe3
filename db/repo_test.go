package db

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"Gin_postgres_redis_division_inventory/access"
	"Gin_postgres_redis_division_inventory/models"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// loadEnv 读取项目根目录的 .env
func loadEnv() {
	_, filename, _, _ := runtime.Caller(0)
	_ = godotenv.Load(filepath.Join(filepath.Dir(filename), "..", ".env"))
}

func withSearchPath(dsn, schema string) string {
	if strings.Contains(dsn, "://") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		return dsn + sep + "search_path=" + schema
	}
	return dsn + " search_path=" + schema
}

// setupTestRepo 每个测试一个独立 schema，结束后删除
func setupTestRepo(t *testing.T) *Repo {
	t.Helper()
	loadEnv()
	dsn := DSNFromEnv()
	quiet := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}

	admin, err := gorm.Open(postgres.Open(dsn), quiet)
	if err != nil {
		t.Skipf("Postgres not available: %v", err)
	}
	adminSQL, err := admin.DB()
	if err != nil || adminSQL.Ping() != nil {
		t.Skip("Postgres not available")
	}
	schema := fmt.Sprintf("test_inventory_%d", time.Now().UnixNano()%1000000)
	if err := admin.Exec("CREATE SCHEMA " + schema).Error; err != nil {
		t.Fatalf("create schema: %v", err)
	}

	conn, err := Open(withSearchPath(dsn, schema), true)
	if err != nil {
		admin.Exec("DROP SCHEMA " + schema + " CASCADE")
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			sqlDB.Close()
		}
		admin.Exec("DROP SCHEMA " + schema + " CASCADE")
		adminSQL.Close()
	})
	return NewRepo(conn)
}

func mustProfile(t *testing.T, r *Repo, name string, role models.Role, division *string) *models.Profile {
	t.Helper()
	p := &models.Profile{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        strings.ToLower(name) + "@lab.test",
		Role:         role,
		DivisionID:   division,
		PasswordHash: "x",
	}
	if err := r.CreateProfile(context.Background(), p); err != nil {
		t.Fatalf("create profile: %v", err)
	}
	return p
}

func strPtr(s string) *string { return &s }

func TestInventoryScopeAndNames(t *testing.T) {
	r := setupTestRepo(t)
	ctx := context.Background()
	if err := r.SeedDivisions(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	pat := mustProfile(t, r, "Pat", models.RoleDivisionPersonnel, strPtr("A"))
	sam := mustProfile(t, r, "Sam", models.RoleScientist, strPtr("A"))

	items := []models.InventoryItem{
		{ID: uuid.NewString(), ItemName: "Centrifuge", Category: "lab", Quantity: 2, Location: "R1",
			Status: models.ItemActive, DivisionID: "A", AddedBy: pat.ID, ScientistAssigned: &sam.ID,
			CalibrationStatus: models.CalibrationCurrent},
		{ID: uuid.NewString(), ItemName: "Oscilloscope", Category: "electronics", Quantity: 1, Location: "R2",
			Status: models.ItemMaintenance, DivisionID: "B", AddedBy: pat.ID,
			CalibrationStatus: models.CalibrationOverdue},
	}
	for i := range items {
		if err := r.DB.Create(&items[i]).Error; err != nil {
			t.Fatalf("create item: %v", err)
		}
	}

	rows, err := r.ListInventory(ctx, access.Scope{Division: "A"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 || rows[0].ItemName != "Centrifuge" {
		t.Fatalf("unexpected rows %+v", rows)
	}
	if rows[0].AddedByName == nil || *rows[0].AddedByName != "Pat" || rows[0].ScientistName == nil || *rows[0].ScientistName != "Sam" {
		t.Fatalf("names not joined: %+v", rows[0])
	}

	all, err := r.ListInventory(ctx, access.Scope{})
	if err != nil || len(all) != 2 {
		t.Fatalf("all scope: %d rows, err %v", len(all), err)
	}

	page, err := r.SearchInventory(ctx, access.Scope{}, InventoryQuery{Q: "scope", Status: models.ItemMaintenance})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if page.Total != 1 || page.Items[0].DivisionID != "B" {
		t.Fatalf("unexpected search result %+v", page)
	}

	bad := models.InventoryItem{ID: uuid.NewString(), ItemName: "x", Category: "x", Location: "x",
		Status: "lost", DivisionID: "A", AddedBy: pat.ID, CalibrationStatus: models.CalibrationCurrent}
	if err := r.DB.Create(&bad).Error; err == nil {
		t.Fatal("expected check constraint to reject unknown status")
	}
}

func TestDecideRequest(t *testing.T) {
	r := setupTestRepo(t)
	ctx := context.Background()
	pat := mustProfile(t, r, "Pat", models.RoleDivisionPersonnel, strPtr("A"))
	sam := mustProfile(t, r, "Sam", models.RoleScientist, strPtr("A"))

	req := models.Request{ID: uuid.NewString(), ScientistID: sam.ID, ItemRequested: "Pipettes",
		Quantity: 4, Reason: "assay", Status: models.RequestPending, DivisionID: "A"}
	if err := r.DB.Create(&req).Error; err != nil {
		t.Fatalf("create request: %v", err)
	}

	patB := mustProfile(t, r, "Quinn", models.RoleDivisionPersonnel, strPtr("B"))
	approver := access.NewViewer(*pat, "")

	_, err := r.DecideRequest(ctx, DecideRequestInput{RequestID: req.ID, Approver: access.NewViewer(*patB, ""), Decision: models.RequestApproved})
	if !errors.Is(err, access.ErrOutOfScope) {
		t.Fatalf("expected ErrOutOfScope, got %v", err)
	}
	// 同分部的科学家也不能审批
	_, err = r.DecideRequest(ctx, DecideRequestInput{RequestID: req.ID, Approver: access.NewViewer(*sam, ""), Decision: models.RequestApproved})
	if !errors.Is(err, access.ErrOutOfScope) {
		t.Fatalf("expected scientist to be refused, got %v", err)
	}
	_, err = r.DecideRequest(ctx, DecideRequestInput{RequestID: req.ID, Approver: approver, Decision: models.RequestPending})
	if !errors.Is(err, ErrBadDecision) {
		t.Fatalf("expected ErrBadDecision, got %v", err)
	}

	got, err := r.DecideRequest(ctx, DecideRequestInput{RequestID: req.ID, Approver: approver, Decision: models.RequestApproved})
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if got.Status != models.RequestApproved || got.ApprovedBy == nil || *got.ApprovedBy != pat.ID {
		t.Fatalf("unexpected request %+v", got)
	}

	_, err = r.DecideRequest(ctx, DecideRequestInput{RequestID: req.ID, Approver: approver, Decision: models.RequestRejected})
	if !errors.Is(err, ErrNotPending) {
		t.Fatalf("expected ErrNotPending, got %v", err)
	}
	_, err = r.DecideRequest(ctx, DecideRequestInput{RequestID: uuid.NewString(), Approver: approver, Decision: models.RequestApproved})
	if !errors.Is(err, ErrRequestNotFound) {
		t.Fatalf("expected ErrRequestNotFound, got %v", err)
	}

	logs, err := r.ListActivityLogs(ctx, access.Scope{Division: "A"}, 0)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	if len(logs) != 1 || logs[0].Action != "Request approved" || logs[0].UserName == nil || *logs[0].UserName != "Pat" {
		t.Fatalf("unexpected logs %+v", logs)
	}
}

func TestActivityLogsNewestFirst(t *testing.T) {
	r := setupTestRepo(t)
	ctx := context.Background()
	admin := mustProfile(t, r, "Ada", models.RoleAdmin, nil)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 25; i++ {
		l := &models.ActivityLog{
			Action:     fmt.Sprintf("action %02d", i),
			UserID:     admin.ID,
			DivisionID: admin.Division(),
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		if err := r.AppendActivityLog(ctx, l); err != nil {
			t.Fatalf("append: %v", err)
		}
		if l.ID == "" {
			t.Fatal("expected database generated id")
		}
	}

	logs, err := r.ListActivityLogs(ctx, access.Scope{}, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(logs) != DefaultActivityLimit || logs[0].Action != "action 24" {
		t.Fatalf("got %d logs, first %q", len(logs), logs[0].Action)
	}
	none, err := r.ListActivityLogs(ctx, access.Scope{Division: "C"}, 5)
	if err != nil || len(none) != 0 {
		t.Fatalf("division C: %d logs, err %v", len(none), err)
	}
}

func TestProfilesLookupAndList(t *testing.T) {
	r := setupTestRepo(t)
	ctx := context.Background()
	sam := mustProfile(t, r, "Sam", models.RoleScientist, strPtr("A"))
	mustProfile(t, r, "Bea", models.RoleScientist, strPtr("B"))
	mustProfile(t, r, "Ada", models.RoleAdmin, nil)

	p, err := r.FindProfileByEmail(ctx, "  SAM@lab.test ")
	if err != nil || p.ID != sam.ID {
		t.Fatalf("find by email: %v", err)
	}
	if _, err := r.FindProfileByID(ctx, uuid.NewString()); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
	if n, err := r.CountAdmins(ctx); err != nil || n != 1 {
		t.Fatalf("admins = %d, err %v", n, err)
	}
	res, err := r.ListProfiles(ctx, "", "B", 1, 20)
	if err != nil || res.Total != 1 || res.Profiles[0].Name != "Bea" {
		t.Fatalf("unexpected list %+v err %v", res, err)
	}
	if err := r.TouchProfileSeen(ctx, sam.ID); err != nil {
		t.Fatalf("touch: %v", err)
	}
	p, _ = r.FindProfileByID(ctx, sam.ID)
	if p.LastSeenAt == nil {
		t.Fatal("last_seen_at not set")
	}
}
