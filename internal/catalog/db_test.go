package catalog

import (
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	return conn
}

// createPerfumesTable builds the test schema by hand. wide includes the
// optional-era columns, narrow mimics a database the newer migrations have
// not reached yet.
func createPerfumesTable(t *testing.T, conn *gorm.DB, wide bool) {
	t.Helper()

	ddl := `CREATE TABLE perfumes (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		subtitle TEXT,
		description TEXT,
		price NUMERIC NOT NULL DEFAULT 0,
		discount_price NUMERIC,
		main_image TEXT,
		gallery TEXT,
		notes TEXT,
		sizes TEXT,
		volume TEXT,
		stock INTEGER NOT NULL DEFAULT 0,
		featured INTEGER NOT NULL DEFAULT 0,
		active INTEGER NOT NULL DEFAULT 1,
		gender TEXT,
		category_id TEXT,
		brand_id TEXT,
		created_at DATETIME,
		updated_at DATETIME`
	if wide {
		ddl += `,
		default_usage_period TEXT,
		pin_usage_period INTEGER NOT NULL DEFAULT 0,
		release_kind TEXT`
	}
	ddl += `)`

	if err := conn.Exec(ddl).Error; err != nil {
		t.Fatalf("create perfumes table: %v", err)
	}
	t.Cleanup(func() {
		_ = conn.Exec(`DROP TABLE IF EXISTS perfumes`).Error
	})
}
