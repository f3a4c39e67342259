// Package pgtest starts a disposable PostgreSQL for integration suites and applies the
// service migrations to it.
package pgtest

import (
	"context"
	"time"

	"fulfillment/internal/adapters/out/postgres/migrations"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gorm_logger "gorm.io/gorm/logger"
)

type Database struct {
	Container *postgres.PostgresContainer
	DB        *gorm.DB
	DSN       string
}

// Start runs postgres:15-alpine, migrates it and opens a GORM connection.
func Start(ctx context.Context) (*Database, error) {
	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, err
	}

	database := &Database{Container: container}
	if database.DSN, err = container.ConnectionString(ctx, "sslmode=disable"); err != nil {
		_ = database.Terminate(ctx)
		return nil, err
	}
	if err = migrations.Up(database.DSN); err != nil {
		_ = database.Terminate(ctx)
		return nil, err
	}
	database.DB, err = gorm.Open(gorm_postgres.Open(database.DSN), &gorm.Config{
		Logger: gorm_logger.Default.LogMode(gorm_logger.Silent),
	})
	if err != nil {
		_ = database.Terminate(ctx)
		return nil, err
	}
	return database, nil
}

// Truncate empties every table of the schema.
func (d *Database) Truncate() error {
	return d.DB.Exec(`TRUNCATE TABLE
		order_history, order_items, orders, products,
		earnings_ledger_entries, agent_assignments, delivery_agents`).Error
}

func (d *Database) Terminate(ctx context.Context) error {
	if d == nil || d.Container == nil {
		return nil
	}
	return d.Container.Terminate(ctx)
}
