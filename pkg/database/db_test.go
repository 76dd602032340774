package database

import (
	"io/fs"
	"testing"

	gormlogger "gorm.io/gorm/logger"
)

func TestGormLogLevel(t *testing.T) {
	cases := map[string]gormlogger.LogLevel{
		"debug": gormlogger.Info,
		"info":  gormlogger.Warn,
		"warn":  gormlogger.Warn,
		"error": gormlogger.Error,
	}
	for in, want := range cases {
		if got := gormLogLevel(in); got != want {
			t.Errorf("gormLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestMigrationsEmbeddedForBothDialects(t *testing.T) {
	for _, dir := range []string{"migrations/postgres", "migrations/mysql"} {
		entries, err := fs.ReadDir(migrationsFS, dir)
		if err != nil {
			t.Fatalf("%s: %v", dir, err)
		}
		if len(entries) < 2 {
			t.Errorf("%s: expected up and down migrations, got %d files", dir, len(entries))
		}
	}
}
