// Package database opens the store and keeps the schema current.
package database

import (
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"khawam-pro/models/khawam"
)

// InitDB opens the SQLite store, configures the pool and migrates the
// schema. Pass an empty dsn to use the default database file.
func InitDB(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		dsn = "khawam.db"
	}

	gormLogger := logger.Default.LogMode(logger.Warn)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:      gormLogger,
		PrepareStmt: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(
		&khawam.User{},
		&khawam.Product{},
		&khawam.PrintService{},
		&khawam.PortfolioWork{},
		&khawam.HeroSlide{},
		&khawam.PricingRule{},
		&khawam.Order{},
		&khawam.OrderItem{},
		&khawam.OrderStatusHistory{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}
