package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/entities"
)

func TestNewDatabase_MigratesSettings(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "bookshelf.db")

	db, err := NewDatabase(dbPath, nil)
	require.NoError(t, err)
	defer db.Close()

	assert.True(t, db.DB.Migrator().HasTable(&entities.Setting{}))
	assert.NoError(t, db.Ping())
}

func TestNewDatabase_Reopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "bookshelf.db")

	db, err := NewDatabase(dbPath, nil)
	require.NoError(t, err)
	require.NoError(t, db.DB.Create(&entities.Setting{Key: "k", Value: "v"}).Error)
	require.NoError(t, db.Close())

	db, err = NewDatabase(dbPath, nil)
	require.NoError(t, err)
	defer db.Close()

	var setting entities.Setting
	require.NoError(t, db.DB.Where("key = ?", "k").First(&setting).Error)
	assert.Equal(t, "v", setting.Value)
}
