package config

// DefaultDatabasePath is the default path for the catalog database.
// The task queue keeps its own file next to it with a "-tasks" suffix.
const DefaultDatabasePath = "./bookcatalog.db"
