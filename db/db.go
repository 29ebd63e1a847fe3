package db

import (
	"fmt"
	"os"
	"strings"

	"Gin_postgres_redis_division_inventory/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ChangeChannel is the Postgres NOTIFY channel fed by the change triggers.
const ChangeChannel = "table_changes"

func DSNFromEnv() string {
	get := func(k, def string) string {
		if v := os.Getenv(k); v != "" {
			return v
		}
		return def
	}
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}
	pairs := []struct{ key, val string }{
		{"host", get("DB_HOST", "127.0.0.1")},
		{"user", get("DB_USER", "postgres")},
		{"password", os.Getenv("DB_PASSWORD")},
		{"dbname", get("DB_NAME", "inventory")},
		{"port", get("DB_PORT", "5432")},
		{"sslmode", get("DB_SSLMODE", "disable")},
	}
	// 值一律加引号，空密码不会吞掉后面的 key
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, p.key+"="+quoteDSN(p.val))
	}
	return strings.Join(parts, " ")
}

func quoteDSN(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

func Open(dsn string, quiet bool) (*gorm.DB, error) {
	cfg := &gorm.Config{}
	if quiet {
		cfg.Logger = logger.Default.LogMode(logger.Silent)
	}
	conn, err := gorm.Open(postgres.Open(dsn), cfg)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := Migrate(conn); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return conn, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Division{},
		&models.Profile{},
		&models.InventoryItem{},
		&models.Request{},
		&models.ActivityLog{},
	); err != nil {
		return err
	}

	// 枚举列在库里也是封闭集合
	checks := []struct{ table, name, expr string }{
		{models.ProfileTable, "profiles_role_check", "role IN ('admin','division_personnel','scientist')"},
		{models.InventoryTable, "inventory_items_status_check", "status IN ('active','maintenance','retired')"},
		{models.InventoryTable, "inventory_items_calibration_status_check", "calibration_status IN ('current','due','overdue')"},
		{models.InventoryTable, "inventory_items_quantity_check", "quantity >= 0"},
		{models.RequestTable, "requests_status_check", "status IN ('pending','approved','rejected')"},
	}
	for _, c := range checks {
		if err := db.Exec(fmt.Sprintf(`
		  DO $$ BEGIN
		    IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '%s' AND conrelid = '%s'::regclass) THEN
		      ALTER TABLE %s ADD CONSTRAINT %s CHECK (%s);
		    END IF;
		  END $$;
		`, c.name, c.table, c.table, c.name, c.expr)).Error; err != nil {
			return err
		}
	}

	// 变更通知：只告诉订阅方“哪张表变了”，不带数据
	if err := db.Exec(fmt.Sprintf(`
	  CREATE OR REPLACE FUNCTION notify_table_change() RETURNS trigger AS $$
	  BEGIN
	    PERFORM pg_notify('%s', json_build_object('table', TG_TABLE_NAME, 'type', TG_OP)::text);
	    RETURN NULL;
	  END;
	  $$ LANGUAGE plpgsql;
	`, ChangeChannel)).Error; err != nil {
		return err
	}
	for _, t := range models.ChangeTables {
		if err := db.Exec(fmt.Sprintf(`DROP TRIGGER IF EXISTS %s_notify ON %s`, t, t)).Error; err != nil {
			return err
		}
		if err := db.Exec(fmt.Sprintf(`
		  CREATE TRIGGER %s_notify
		  AFTER INSERT OR UPDATE OR DELETE ON %s
		  FOR EACH ROW EXECUTE FUNCTION notify_table_change();
		`, t, t)).Error; err != nil {
			return err
		}
	}

	return nil
}
