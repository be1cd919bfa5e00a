package db

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pdnsadmin/internal/config"
)

func Open(cfg config.DBConfig) (*gorm.DB, error) {
	return OpenWithDebug(cfg, false)
}

func OpenWithDebug(cfg config.DBConfig, debug bool) (*gorm.DB, error) {
	logLevel := logger.Silent
	if debug {
		logLevel = logger.Info
	}

	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	}

	switch cfg.Driver {
	case "postgres", "postgresql":
		return gorm.Open(postgres.Open(cfg.DSN), gormCfg)
	case "mysql":
		return gorm.Open(mysql.Open(cfg.DSN), gormCfg)
	case "sqlite", "sqlite3", "":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = "file:pdnsadmin.db?_foreign_keys=on"
		}
		return gorm.Open(sqlite.Open(dsn), gormCfg)
	default:
		return nil, fmt.Errorf("unsupported db driver: %s", cfg.Driver)
	}
}

// AutoMigrate creates the PowerDNS tables when they do not exist yet.
// Against an existing PowerDNS database this is a no-op.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&Domain{}, &Record{})
}
