// Package database provides the data access layer with support for multiple backends.
package database

import (
	"context"
	"fmt"

	"github.com/verifyyourcart/cartcheck/internal/config"
	"github.com/verifyyourcart/cartcheck/internal/models"
)

// Store defines the interface for data persistence.
// Only request metadata is stored; analysis results never are.
type Store interface {
	// Audit logs
	LogRequest(ctx context.Context, log *models.AuditLog) error
	GetAuditLogs(ctx context.Context, limit, offset int) ([]*models.AuditLog, error)

	// Lifecycle
	Close() error
	Migrate() error
}

// Open creates the store selected by cfg.Driver.
func Open(cfg config.DatabaseConfig) (Store, error) {
	switch cfg.Driver {
	case "sqlite":
		return NewSQLiteStore(cfg.Path)
	case "none":
		return NopStore{}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}

// NopStore discards audit entries.
type NopStore struct{}

func (NopStore) LogRequest(context.Context, *models.AuditLog) error { return nil }

func (NopStore) GetAuditLogs(context.Context, int, int) ([]*models.AuditLog, error) {
	return []*models.AuditLog{}, nil
}

func (NopStore) Close() error   { return nil }
func (NopStore) Migrate() error { return nil }
