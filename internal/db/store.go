package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/Kamar-Folarin/game-updater/internal/models"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Store defines the interface for sync history persistence
type Store interface {
	SaveSyncRecord(ctx context.Context, record *models.SyncRecord) error
	GetSyncRecord(ctx context.Context, id uuid.UUID) (*models.SyncRecord, error)
	ListSyncRecords(ctx context.Context, limit int) ([]*models.SyncRecord, error)
	Migrate() error
	Close() error
}

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(connectionString string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Migrate() error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	if err := goose.Up(s.db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
