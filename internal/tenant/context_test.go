package tenant

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type scopedRow struct {
	ID     uint      `gorm:"primaryKey"`
	SiteID uuid.UUID `gorm:"type:uuid"`
	Name   string
}

func TestContextFlags(t *testing.T) {
	siteID := uuid.New()

	site := ForSite(siteID)
	assert.Equal(t, siteID, site.SiteID)
	assert.False(t, site.Headquarters)
	assert.True(t, site.CanMutate())

	hq := ForHeadquarters(siteID)
	assert.True(t, hq.Headquarters)
	assert.False(t, hq.CanMutate())
}

func TestScopeFiltersBySite(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&scopedRow{}))

	siteA := uuid.New()
	siteB := uuid.New()
	require.NoError(t, db.Create(&scopedRow{SiteID: siteA, Name: "a"}).Error)
	require.NoError(t, db.Create(&scopedRow{SiteID: siteB, Name: "b"}).Error)

	var rows []scopedRow
	require.NoError(t, ForSite(siteA).Scope(db).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "a", rows[0].Name)

	rows = nil
	require.NoError(t, ForHeadquarters(uuid.New()).Scope(db).Find(&rows).Error)
	assert.Len(t, rows, 2)
}
