// Package db opens the relational store and keeps its schema current.
package db

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/invoiced/internal/config"
	"github.com/smallbiznis/invoiced/internal/invoice/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Module provides the gorm handle.
var Module = fx.Module("db",
	fx.Provide(New),
)

// Dialect selects the gorm dialector for the configured database type.
func Dialect(cfg config.Config) (gorm.Dialector, error) {
	switch cfg.DBType {
	case "postgres":
		return postgres.Open(fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			cfg.DBHost,
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBName,
			cfg.DBPort,
			cfg.DBSSLMode,
		)), nil
	case "sqlite":
		return sqlite.Open(cfg.DBName + ".db"), nil
	default:
		return nil, fmt.Errorf("unsupported database type %q", cfg.DBType)
	}
}

// New opens the database and migrates the invoice graph.
func New(cfg config.Config, log *zap.Logger) (*gorm.DB, error) {
	dialector, err := Dialect(cfg)
	if err != nil {
		return nil, err
	}

	// Referential checks live in the services; constraints stay out of the
	// schema so sqlite and postgres behave the same.
	gdb, err := gorm.Open(dialector, &gorm.Config{DisableForeignKeyConstraintWhenMigrating: true})
	if err != nil {
		return nil, err
	}

	if err := Migrate(gdb); err != nil {
		return nil, err
	}

	log.Info("database ready", zap.String("type", cfg.DBType), zap.String("name", cfg.DBName))
	return gdb, nil
}

// Migrate creates or updates the schema for the invoice graph.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&domain.InvoiceStatus{},
		&domain.Client{},
		&domain.Invoice{},
		&domain.InvoiceLineItem{},
		&domain.InvoiceEmailLog{},
	)
}
