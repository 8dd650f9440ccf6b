package config

// Default paths for databases and caches
const (
	// DefaultDatabasePath is the default path for the favorites database
	DefaultDatabasePath = "./bookie.db"

	// DefaultTasksDatabasePath is the default path for the background task queue
	DefaultTasksDatabasePath = "./bookie-tasks.db"

	// DefaultCoversDir is where cached favorite covers are stored
	DefaultCoversDir = "./covers"
)
