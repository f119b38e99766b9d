package catalog

import (
	"path/filepath"
	"testing"
	"time"

	"classifieds-service/internal/model"
	"classifieds-service/pkg/database"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "catalog.db") + "?_pragma=busy_timeout(5000)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return New(db, DefaultPolicy()), db
}

func seedCategory(t *testing.T, db *gorm.DB, slug string, parentID *uint, active bool) *model.Category {
	t.Helper()
	cat := &model.Category{Slug: slug, Name: slug, ParentID: parentID, IsActive: active}
	require.NoError(t, db.Create(cat).Error)
	return cat
}

func seedNeighborhood(t *testing.T, db *gorm.DB, slug string) *model.Neighborhood {
	t.Helper()
	n := &model.Neighborhood{Slug: slug, Name: slug, Island: "Oahu"}
	require.NoError(t, db.Create(n).Error)
	return n
}

// seedListing inserts an ACTIVE, unexpired GENERAL listing and lets the
// caller mutate the row before insertion.
func seedListing(t *testing.T, db *gorm.DB, categoryID uint, mutate func(*model.Listing)) *model.Listing {
	t.Helper()
	l := &model.Listing{
		OwnerUserID:  1,
		CategoryID:   categoryID,
		ListingType:  model.ListingTypeGeneral,
		Title:        "A perfectly ordinary listing",
		Description:  "Nothing to see here",
		PriceType:    model.PriceFixed,
		ContactPhone: "808-555-0100",
		Status:       model.StatusActive,
		ExpiresAt:    time.Now().Add(30 * 24 * time.Hour),
	}
	if mutate != nil {
		mutate(l)
	}
	require.NoError(t, db.Create(l).Error)
	return l
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
func boolPtr(v bool) *bool        { return &v }
func strPtr(v string) *string     { return &v }
