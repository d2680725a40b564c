// Package database opens the local sqlite database that backs the reading
// list when READING_LIST_BACKEND is "sqlite".
//
// # Architecture
//
//	database/
//	├── database.go      # Connection setup and migrations
//	└── settings/        # Named settings rows, exposed as storage slots
//
// The remote catalog is the system of record for books; nothing about a
// book is stored here apart from its identifier in the reading list.
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase("./bookshelf.db", logger)
//	repo := settings.NewRepository(db.DB)
//	slot := repo.Slot("readingList")
//
//	data, err := slot.Read(ctx)       // nil, nil when never written
//	err = slot.Write(ctx, []byte("[5]"))
//
// # Adding a New Table
//
//  1. Add the gorm model to internal/entities
//  2. Add it to AutoMigrate in NewDatabase
//  3. Create a sub-package with a Repository wrapping *gorm.DB
//  4. Add a compile-time interface check in internal/interfaces/checks.go
package database
