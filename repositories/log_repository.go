package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jespitia/portal-ucundinamarca/models"
)

// LogRepository handles the append-only logs_transacciones table. Entries are
// never updated or deleted by the application.
type LogRepository interface {
	Create(ctx context.Context, usuarioID int, accion string) error
	List(ctx context.Context, usuario, accion string, limit, offset int) ([]models.LogTransaccion, error)
	Count(ctx context.Context, usuario, accion string) (int, error)
	Recientes(ctx context.Context, limit int) ([]models.LogTransaccion, error)
	CountEntre(ctx context.Context, desde, hasta time.Time) (int, error)
	FechasEntre(ctx context.Context, desde, hasta time.Time) ([]time.Time, error)
}

// logRepository implements LogRepository interface
type logRepository struct {
	db *sql.DB
}

// NewLogRepository creates a new log repository
func NewLogRepository(db *sql.DB) LogRepository {
	return &logRepository{db: db}
}

// Create appends one entry with the current timestamp
func (r *logRepository) Create(ctx context.Context, usuarioID int, accion string) error {
	query := `INSERT INTO logs_transacciones (usuario_id, accion, fecha_hora) VALUES (?, ?, ?)`

	if _, err := r.db.ExecContext(ctx, query, usuarioID, accion, time.Now()); err != nil {
		return fmt.Errorf("failed to create log entry: %w", err)
	}
	return nil
}

// filtroLogs builds the optional filters by user-name substring and action
// substring, AND-combined when both are present.
func filtroLogs(usuario, accion string) (string, []interface{}) {
	var conds []string
	var args []interface{}

	if strings.TrimSpace(usuario) != "" {
		conds = append(conds, "LOWER(u.nombre) LIKE ?")
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(usuario))+"%")
	}
	if strings.TrimSpace(accion) != "" {
		conds = append(conds, "LOWER(l.accion) LIKE ?")
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(accion))+"%")
	}

	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

func (r *logRepository) queryLogs(ctx context.Context, where string, args []interface{}, limit, offset int) ([]models.LogTransaccion, error) {
	// LEFT JOIN so entries survive the deletion of their user
	query := `
		SELECT l.id, l.usuario_id, u.nombre, l.accion, l.fecha_hora
		FROM logs_transacciones l
		LEFT JOIN usuarios u ON u.id = l.usuario_id
		` + where + `
		ORDER BY l.fecha_hora DESC, l.id DESC
		LIMIT ? OFFSET ?
	`
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query logs: %w", err)
	}
	defer rows.Close()

	var logs []models.LogTransaccion
	for rows.Next() {
		var entry models.LogTransaccion
		var usuarioID sql.NullInt64
		var nombre sql.NullString

		err := rows.Scan(&entry.ID, &usuarioID, &nombre, &entry.Accion, &entry.FechaHora)
		if err != nil {
			return nil, fmt.Errorf("failed to scan log entry: %w", err)
		}

		if usuarioID.Valid {
			id := int(usuarioID.Int64)
			entry.UsuarioID = &id
		}
		if nombre.Valid {
			entry.UsuarioNombre = &nombre.String
		}

		logs = append(logs, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating logs: %w", err)
	}

	return logs, nil
}

// List retrieves one page of log entries, newest first
func (r *logRepository) List(ctx context.Context, usuario, accion string, limit, offset int) ([]models.LogTransaccion, error) {
	where, args := filtroLogs(usuario, accion)
	return r.queryLogs(ctx, where, args, limit, offset)
}

// Count returns the number of log entries matching the filters
func (r *logRepository) Count(ctx context.Context, usuario, accion string) (int, error) {
	where, args := filtroLogs(usuario, accion)
	query := `
		SELECT COUNT(*)
		FROM logs_transacciones l
		LEFT JOIN usuarios u ON u.id = l.usuario_id
		` + where

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count logs: %w", err)
	}
	return count, nil
}

// Recientes returns the newest entries for the admin overview
func (r *logRepository) Recientes(ctx context.Context, limit int) ([]models.LogTransaccion, error) {
	return r.queryLogs(ctx, "", nil, limit, 0)
}

// CountEntre counts entries within [desde, hasta)
func (r *logRepository) CountEntre(ctx context.Context, desde, hasta time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM logs_transacciones WHERE fecha_hora >= ? AND fecha_hora < ?`

	var count int
	if err := r.db.QueryRowContext(ctx, query, desde, hasta).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count logs in range: %w", err)
	}
	return count, nil
}

// FechasEntre returns the timestamps of entries within [desde, hasta).
// Bucketing per hour or per day happens in Go, which keeps the SQL portable
// across both drivers.
func (r *logRepository) FechasEntre(ctx context.Context, desde, hasta time.Time) ([]time.Time, error) {
	query := `SELECT fecha_hora FROM logs_transacciones WHERE fecha_hora >= ? AND fecha_hora < ?`

	rows, err := r.db.QueryContext(ctx, query, desde, hasta)
	if err != nil {
		return nil, fmt.Errorf("failed to query log timestamps: %w", err)
	}
	defer rows.Close()

	var fechas []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("failed to scan timestamp: %w", err)
		}
		fechas = append(fechas, t)
	}

	return fechas, rows.Err()
}
