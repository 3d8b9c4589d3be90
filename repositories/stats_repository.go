package repositories

import (
	"context"
	"database/sql"
	"fmt"
)

// StatsRepository exposes the aggregate counters behind the admin dashboard.
// Everything is recomputed per request; there is no caching layer.
type StatsRepository interface {
	CountUsuarios(ctx context.Context) (int, error)
	CountUsuariosPorRol(ctx context.Context) (map[string]int, error)
	CountMensajes(ctx context.Context) (int, error)
	CountTraficoDia(ctx context.Context, dia string) (int, error)
}

// statsRepository implements StatsRepository interface
type statsRepository struct {
	db *sql.DB
}

// NewStatsRepository creates a new stats repository
func NewStatsRepository(db *sql.DB) StatsRepository {
	return &statsRepository{db: db}
}

// CountUsuarios returns the total number of usuarios
func (r *statsRepository) CountUsuarios(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM usuarios`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count usuarios: %w", err)
	}
	return count, nil
}

// CountUsuariosPorRol returns per-role user counts
func (r *statsRepository) CountUsuariosPorRol(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT rol, COUNT(*) FROM usuarios GROUP BY rol`)
	if err != nil {
		return nil, fmt.Errorf("failed to count usuarios by rol: %w", err)
	}
	defer rows.Close()

	porRol := make(map[string]int)
	for rows.Next() {
		var rol string
		var count int
		if err := rows.Scan(&rol, &count); err != nil {
			return nil, fmt.Errorf("failed to scan rol count: %w", err)
		}
		porRol[rol] = count
	}

	return porRol, rows.Err()
}

// CountMensajes returns the total number of mensajes
func (r *statsRepository) CountMensajes(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM mensajes`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count mensajes: %w", err)
	}
	return count, nil
}

// CountTraficoDia counts traffic samples for one calendar day (YYYY-MM-DD)
func (r *statsRepository) CountTraficoDia(ctx context.Context, dia string) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM trafico_red WHERE fecha = ?`, dia).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count trafico: %w", err)
	}
	return count, nil
}
