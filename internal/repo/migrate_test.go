package repo

import (
	"testing"
	"testing/fstest"
)

func migrationFS() fstest.MapFS {
	return fstest.MapFS{
		"0002_seed.sql":        {Data: []byte("INSERT 2;")},
		"0001_init.sql":        {Data: []byte("CREATE 1;")},
		"sqlite/0001_init.sql": {Data: []byte("CREATE sqlite 1;")},
		"sqlite/0002_seed.sql": {Data: []byte("INSERT sqlite 2;")},
		"embed.go":             {Data: []byte("package migrations")},
	}
}

func TestMigrationFilesSelectsDialect(t *testing.T) {
	fsys := migrationFS()

	postgres, err := migrationFiles(fsys, ".")
	if err != nil {
		t.Fatalf("postgres set: %v", err)
	}
	if len(postgres) != 2 || postgres[0] != "0001_init.sql" || postgres[1] != "0002_seed.sql" {
		t.Errorf("postgres set = %v", postgres)
	}

	sqlite, err := migrationFiles(fsys, sqliteMigrationsDir)
	if err != nil {
		t.Fatalf("sqlite set: %v", err)
	}
	if len(sqlite) != 2 || sqlite[0] != "sqlite/0001_init.sql" || sqlite[1] != "sqlite/0002_seed.sql" {
		t.Errorf("sqlite set = %v", sqlite)
	}
}
