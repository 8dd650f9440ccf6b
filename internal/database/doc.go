// Package database provides the data access layer for the application.
//
// # Architecture
//
//	database/
//	├── database.go      # Connection setup, migrations, error translation
//	├── favorites/       # Favorite book storage and live snapshots
//	└── audit/           # Activity log of favorite changes and cleanups
//
// # Usage
//
//	db, err := database.NewDatabase("./bookie.db")
//	repo := favorites.NewRepository(db.DB)
//	events := audit.NewRepository(db.DB)
//
//	for books := range repo.Subscribe(ctx) {
//		...
//	}
//
// Storage errors are returned as-is by sub-packages. Callers that expose them
// past the repository boundary run them through ToLocalError first.
package database
