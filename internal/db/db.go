// Package db opens the database, applies the schema and seeds demo data.
package db

import (
	"fmt"
	"time"

	"github.com/diewo77/go-shop/internal/config"
	"github.com/diewo77/go-shop/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects with the configured driver. Postgres connections are retried
// to let the server start.
func Open(cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	gcfg := gormConfig(cfg.Debug)
	if cfg.IsSQLite() {
		log.Info("opening sqlite database", zap.String("path", cfg.SQLitePath))
		return gorm.Open(sqlite.Open(cfg.SQLitePath), gcfg)
	}

	log.Info("connecting to database",
		zap.String("host", cfg.Host), zap.Int("port", cfg.Port),
		zap.String("dbname", cfg.DBName), zap.String("user", cfg.User))
	var (
		conn *gorm.DB
		err  error
	)
	for i := 0; i < 5; i++ {
		conn, err = gorm.Open(postgres.Open(cfg.DSN()), gcfg)
		if err == nil {
			break
		}
		log.Warn("database not ready, retrying", zap.Int("attempt", i+1), zap.Error(err))
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := conn.Exec("SELECT 1").Error; err != nil {
		return nil, fmt.Errorf("db ping failed: %w", err)
	}
	return conn, nil
}

// OpenSQLite opens a sqlite database from a DSN such as
// "file:name?mode=memory&cache=shared".
func OpenSQLite(dsn string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(dsn), gormConfig(false))
}

func gormConfig(debug bool) *gorm.Config {
	level := logger.Silent
	if debug {
		level = logger.Info
	}
	return &gorm.Config{Logger: logger.Default.LogMode(level)}
}

// Models lists every table, parents first.
func Models() []any {
	return []any{
		&models.User{},
		&models.CatalogItem{},
		&models.Brand{},
		&models.ItemBrand{},
		&models.Discount{},
		&models.Order{},
		&models.OrderLine{},
		&models.Payment{},
	}
}

// Migrate runs AutoMigrate for all models.
func Migrate(db *gorm.DB) error {
	for _, m := range Models() {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	return nil
}
