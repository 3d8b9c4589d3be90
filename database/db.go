package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"

	"github.com/jespitia/portal-ucundinamarca/config"
)

var db *sql.DB

// Open establishes the database connection for the configured driver.
// SQLite is the embedded default; MySQL matches the original XAMPP setup.
func Open(cfg config.Config) error {
	var err error
	switch cfg.DBDriver {
	case "mysql":
		db, err = sql.Open("mysql", mysqlDSN(cfg))
	default:
		db, err = sql.Open("sqlite3", cfg.SQLitePath)
	}
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if err = db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if cfg.DBDriver == "mysql" {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(30 * time.Minute)
	} else {
		// Enable foreign key constraints
		if _, err = db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
			return fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	return nil
}

// mysqlDSN builds the MySQL connection string. parseTime maps DATETIME
// columns to time.Time; loc=Local keeps "today" aligned with the server day.
func mysqlDSN(cfg config.Config) string {
	auth := cfg.MySQLUser
	if cfg.MySQLPass != "" {
		auth = fmt.Sprintf("%s:%s", cfg.MySQLUser, cfg.MySQLPass)
	}
	return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
		auth, cfg.MySQLHost, cfg.MySQLPort, cfg.MySQLDB)
}

// Initialize opens the connection and, for the embedded driver, runs the
// SQL migrations. The MySQL schema is provisioned externally (phpMyAdmin);
// see schema_mysql.sql.
func Initialize(cfg config.Config) error {
	if err := Open(cfg); err != nil {
		return err
	}

	if cfg.DBDriver != "mysql" {
		if err := RunMigrations(db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	return nil
}

// GetDB returns the database connection
func GetDB() *sql.DB {
	return db
}

// CloseDB closes the database connection
func CloseDB() error {
	if db != nil {
		return db.Close()
	}
	return nil
}
