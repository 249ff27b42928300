package sql

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	_queryTimeout = 5 * time.Second
	maxRetries    = 5
)

func NewPostgreORM(dsn string) (*DB, error) {
	pass, ok := os.LookupEnv("SONOMETRE_SERVER_POSTGRES_PASSWORD")
	if ok {
		dsn = fmt.Sprintf("%s password=%s", dsn, pass)
	}

	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return &DB{
		DB:                   gormDB,
		autoMigrationEnabled: true,
		timeout:              _queryTimeout,
	}, nil
}

// PostgreDatabase is a raw pgx pool used for readiness probing and one-off
// commands outside the ORM.
type PostgreDatabase struct {
	url  string
	Conn *pgxpool.Pool
}

func NewPostgreDatabase(url string) *PostgreDatabase {
	return &PostgreDatabase{url: url}
}

func (d *PostgreDatabase) Open() error {
	for range maxRetries {
		conn, err := pgxpool.New(context.Background(), d.url)
		if err != nil {
			time.Sleep(5 * time.Second)
			continue
		}

		d.Conn = conn
		return nil
	}

	return fmt.Errorf("impossible to connect to database after %d retries", maxRetries)
}

func (d *PostgreDatabase) Close() {
	d.Conn.Close()
}

func (d *PostgreDatabase) Ping(ctx context.Context) error {
	pingCtx, cancelFn := context.WithTimeout(ctx, _queryTimeout)
	defer cancelFn()

	if err := d.Conn.Ping(pingCtx); err != nil {
		return fmt.Errorf("postgre ping: %w", err)
	}

	return nil
}

func (d *PostgreDatabase) Command(sql string) error {
	_, err := d.Conn.Exec(context.Background(), sql)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	return nil
}
