package settings

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookshelf/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_settings_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Setting{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, cleanup
}

func TestRepository_SetSetting_New(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	err := repo.SetSetting(ctx, "theme", "dark")
	require.NoError(t, err)

	setting, err := repo.GetSetting(ctx, "theme")
	require.NoError(t, err)
	assert.Equal(t, "theme", setting.Key)
	assert.Equal(t, "dark", setting.Value)
}

func TestRepository_SetSetting_Update(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, repo.SetSetting(ctx, "theme", "light"))
	require.NoError(t, repo.SetSetting(ctx, "theme", "dark"))

	setting, err := repo.GetSetting(ctx, "theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", setting.Value)

	var count int64
	require.NoError(t, repo.db.Model(&entities.Setting{}).Where("key = ?", "theme").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRepository_GetSetting_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetSetting(context.Background(), "nonexistent")

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepository_DeleteSetting(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, repo.SetSetting(ctx, "to-delete", "value"))
	require.NoError(t, repo.DeleteSetting(ctx, "to-delete"))

	_, err := repo.GetSetting(ctx, "to-delete")
	assert.Error(t, err)
}

func TestSlot_ReadMissingIsEmpty(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	data, err := repo.Slot(entities.SettingKeyReadingList).Read(context.Background())
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestSlot_WriteReplacesWholeValue(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	slot := repo.Slot(entities.SettingKeyReadingList)
	require.NoError(t, slot.Write(ctx, []byte(`[5,7]`)))
	require.NoError(t, slot.Write(ctx, []byte(`[7]`)))

	data, err := slot.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, `[7]`, string(data))
}
