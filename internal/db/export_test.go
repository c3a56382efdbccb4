package db

import "io/fs"

// MigrationsFS exposes the embedded migrations to external tests.
func MigrationsFS() fs.FS { return migrationsFS }
