package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	mysqldriver "github.com/go-sql-driver/mysql"
	migrate "github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// MigratePostgres applies every pending "up" migration found under
// migrationsDir (a plain directory path) to the Postgres database.
func MigratePostgres(databaseURL, migrationsDir string) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database connection for migrations: %w", err)
	}
	defer closeMigrationDB(db)

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database for migrations: %w", err)
	}
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create postgres driver instance for migrations: %w", err)
	}
	return runMigrations(migrationsDir, "postgres", driver)
}

// MigrateMySQL applies every pending "up" migration found under
// migrationsDir to the MySQL database. Migration files hold several
// statements, so the connection is opened with multiStatements enabled.
func MigrateMySQL(dsn, migrationsDir string) error {
	cfg, err := mysqldriver.ParseDSN(dsn)
	if err != nil {
		return fmt.Errorf("invalid MYSQL_DSN: %w", err)
	}
	cfg.MultiStatements = true
	cfg.ParseTime = true

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return fmt.Errorf("failed to open database connection for migrations: %w", err)
	}
	defer closeMigrationDB(db)

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database for migrations: %w", err)
	}
	driver, err := migratemysql.WithInstance(db, &migratemysql.Config{})
	if err != nil {
		return fmt.Errorf("could not create mysql driver instance for migrations: %w", err)
	}
	return runMigrations(migrationsDir, "mysql", driver)
}

func runMigrations(migrationsDir, dbName string, driver migratedb.Driver) error {
	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsDir, dbName, driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	upErr := m.Up()

	// Close reports dirty state left behind by Up.
	sourceErr, dbErr := m.Close()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", upErr)
	}
	if sourceErr != nil {
		return fmt.Errorf("migration source error: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("migration database error: %w", dbErr)
	}

	if errors.Is(upErr, migrate.ErrNoChange) {
		slog.Info("No new migrations to apply.", slog.String("driver", dbName))
	} else {
		slog.Info("Database migrations applied successfully.", slog.String("driver", dbName))
	}
	return nil
}

func closeMigrationDB(db *sql.DB) {
	if err := db.Close(); err != nil {
		slog.Error("Error closing migration DB connection", slog.String("error", err.Error()))
	}
}
