package db

import (
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/ether/uiflex-go/lib/db/migrations"
	_ "github.com/lib/pq"
)

type PostgresOptions struct {
	Username string
	Password string
	Host     string
	Port     int
	Database string
}

type PostgresDB struct {
	sqlStore
	options PostgresOptions
}

func (o PostgresOptions) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable", o.Username, o.Password, o.Host, o.Port, o.Database)
}

func NewPostgresDB(options PostgresOptions) (*PostgresDB, error) {
	sqlDb, err := sql.Open("postgres", options.DSN())
	if err != nil {
		return nil, err
	}

	migrationManager := migrations.NewMigrationManager(sqlDb, migrations.DialectPostgres)
	if err := migrationManager.Run(); err != nil {
		sqlDb.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &PostgresDB{
		sqlStore: newSQLStore(sqlDb, sq.Dollar),
		options:  options,
	}, nil
}

var _ DataStore = (*PostgresDB)(nil)
