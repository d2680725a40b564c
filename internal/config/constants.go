package config

import "github.com/mrlokans/bookshelf/internal/entities"

const (
	// DefaultDatabasePath is the default path for the sqlite settings database
	DefaultDatabasePath = "./bookshelf.db"

	// DefaultBadgerPath is the default directory for the badger backend
	DefaultBadgerPath = "./bookshelf-badger"

	DefaultCatalogBaseURL = "http://localhost:5000"
	DefaultReadingListKey = entities.SettingKeyReadingList
)
