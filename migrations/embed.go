package migrations

import "embed"

// Files exposes embedded SQL migration files ordered lexicographically.
// Postgres migrations live at the root, the SQLite dialect under sqlite/.
//
//go:embed *.sql sqlite/*.sql
var Files embed.FS
