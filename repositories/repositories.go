package repositories

import (
	"database/sql"
	"errors"
	"strings"
)

// Repositories struct holds all repository interfaces
type Repositories struct {
	Users UserRepository
	Logs  LogRepository
	Stats StatsRepository
}

// NewRepositories creates and initializes all repositories
func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		Users: NewUserRepository(db),
		Logs:  NewLogRepository(db),
		Stats: NewStatsRepository(db),
	}
}

// Sentinel errors shared by the repositories.
var (
	ErrUsuarioNoEncontrado = errors.New("usuario no encontrado")
	ErrCorreoExiste        = errors.New("el correo ya está registrado")
)

// isDuplicateError detects a unique-constraint violation for both supported
// drivers: SQLite reports "UNIQUE constraint failed", MySQL error 1062.
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") ||
		strings.Contains(msg, "1062") ||
		strings.Contains(msg, "duplicate entry")
}
