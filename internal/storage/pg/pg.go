package pg

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/inkwell-dev/inkwell/internal/config"
	"github.com/inkwell-dev/inkwell/internal/logger"

	_ "github.com/lib/pq"
)

type Storage struct {
	db  *sql.DB
	cfg *config.Public
}

// Querier lets the core query logic run against *sql.DB or *sql.Tx alike.
type Querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

func New(cfg *config.Public) (*Storage, error) {
	logger.Log.Info("connecting to db", "host", cfg.Pg.Host, "dbname", cfg.Pg.Dbname)
	db, err := Connect(cfg)
	if err != nil {
		return nil, err
	}
	logger.Log.Info("successfully connected to db")
	return &Storage{db, cfg}, nil
}

func Connect(cfg *config.Public) (*sql.DB, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Pg.Host, cfg.Pg.Port, cfg.Pg.User, cfg.Pg.Password, cfg.Pg.Dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err = db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}

func (s *Storage) Cleanup() error {
	return s.db.Close()
}

func (s *Storage) Ping() error {
	return s.db.Ping()
}

// withTx runs fn inside a transaction, rolling back on error.
func (s *Storage) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Log.Error("rollback failed", "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
