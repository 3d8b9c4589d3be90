package config

import (
	"os"
	"strconv"
)

// Config holds all runtime configuration. Every value has a default that
// matches the XAMPP setup used during development, so the app starts with an
// empty environment.
type Config struct {
	Port string

	// Database. Driver is "sqlite3" (embedded, default) or "mysql".
	DBDriver   string
	SQLitePath string
	MySQLHost  string
	MySQLPort  string
	MySQLUser  string
	MySQLPass  string
	MySQLDB    string

	// Session cookie settings.
	SessionProvider string
	SessionCookie   string
	SessionLifetime int
	SecureCookies   bool

	BcryptCost int
}

// Load reads configuration from environment variables, falling back to
// development defaults.
func Load() Config {
	return Config{
		Port: getenv("PORT", "8080"),

		DBDriver:   getenv("DB_DRIVER", "sqlite3"),
		SQLitePath: getenv("SQLITE_PATH", "portal.db"),
		MySQLHost:  getenv("MYSQL_HOST", "localhost"),
		MySQLPort:  getenv("MYSQL_PORT", "3306"),
		MySQLUser:  getenv("MYSQL_USER", "root"),
		MySQLPass:  os.Getenv("MYSQL_PASSWORD"), // XAMPP default is no password
		MySQLDB:    getenv("MYSQL_DB", "ComunicacionDatos"),

		SessionProvider: getenv("SESSION_PROVIDER", "memory"),
		SessionCookie:   getenv("SESSION_COOKIE", "portal_session"),
		SessionLifetime: getenvInt("SESSION_LIFETIME", 3600),
		SecureCookies:   os.Getenv("USE_HTTPS") == "true",

		BcryptCost: getenvInt("BCRYPT_COST", 10),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
