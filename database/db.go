package database

import (
	"context"
	"fmt"
	"time"

	"education-backend/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // драйвер PostgreSQL
	"github.com/sirupsen/logrus"
)

const pingTimeout = 5 * time.Second

// InitDB opens the shared connection pool. The caller owns the handle and
// must Close it on shutdown.
func InitDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(cfg.DBConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"host":           cfg.DBHost,
		"database":       cfg.DBName,
		"max_open_conns": cfg.DBMaxOpenConns,
	}).Info("Successfully connected to PostgreSQL")
	return db, nil
}
