package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DRIVER", "DB_PORT", "DEV", "MIGRATIONS", "DB_SEED"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Server.Port != "8080" {
		t.Fatalf("port = %q", cfg.Server.Port)
	}
	if cfg.Database.Driver != "postgres" || cfg.Database.Port != 5432 {
		t.Fatalf("unexpected db defaults: %+v", cfg.Database)
	}
	if !cfg.App.Dev || cfg.App.Migrations || cfg.App.Seed {
		t.Fatalf("unexpected app defaults: %+v", cfg.App)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/x.db")
	t.Setenv("DB_PORT", "not-a-number")
	t.Setenv("MIGRATIONS", "Yes")
	t.Setenv("DEV", "0")
	cfg := Load()
	if !cfg.Database.IsSQLite() || cfg.Database.SQLitePath != "/tmp/x.db" {
		t.Fatalf("sqlite not selected: %+v", cfg.Database)
	}
	if cfg.Database.Port != 5432 {
		t.Fatalf("invalid int should fall back, got %d", cfg.Database.Port)
	}
	if !cfg.App.Migrations || cfg.App.Dev {
		t.Fatalf("bool parsing: %+v", cfg.App)
	}
}

func TestDatabaseURLs(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5433, User: "u", Password: "p", DBName: "shop", SSLMode: "disable"}
	if got, want := d.DSN(), "host=db port=5433 user=u password=p dbname=shop sslmode=disable"; got != want {
		t.Fatalf("DSN() = %q", got)
	}
	if got, want := d.URL(), "postgres://u:p@db:5433/shop?sslmode=disable"; got != want {
		t.Fatalf("URL() = %q", got)
	}
}
