package services

import (
	"context"
	"fmt"
	"time"

	"github.com/jespitia/portal-ucundinamarca/models"
	"github.com/jespitia/portal-ucundinamarca/repositories"
)

// Límites del rango de la serie de actividad.
const (
	ActividadDiasPorDefecto = 7
	ActividadDiasMaximo     = 90
)

// StatsService computes the admin dashboard aggregates on every request.
type StatsService interface {
	Resumen(ctx context.Context) (*models.Estadisticas, error)
	Actividad(ctx context.Context, dias int) (*models.ActividadSerie, error)
}

// statsService implements StatsService interface
type statsService struct {
	stats repositories.StatsRepository
	logs  repositories.LogRepository
}

// NewStatsService creates a new stats service
func NewStatsService(stats repositories.StatsRepository, logs repositories.LogRepository) StatsService {
	return &statsService{stats: stats, logs: logs}
}

// inicioDia returns midnight of t's calendar day, server-local.
func inicioDia(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Resumen computes the dashboard counters for the current server-local day.
func (s *statsService) Resumen(ctx context.Context) (*models.Estadisticas, error) {
	hoy := inicioDia(time.Now())
	manana := hoy.AddDate(0, 0, 1)

	totalUsuarios, err := s.stats.CountUsuarios(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute total usuarios: %w", err)
	}

	totalMensajes, err := s.stats.CountMensajes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute total mensajes: %w", err)
	}

	actividadHoy, err := s.logs.CountEntre(ctx, hoy, manana)
	if err != nil {
		return nil, fmt.Errorf("failed to compute actividad de hoy: %w", err)
	}

	conexionesHoy, err := s.stats.CountTraficoDia(ctx, hoy.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to compute conexiones de hoy: %w", err)
	}

	porRol, err := s.stats.CountUsuariosPorRol(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute usuarios por rol: %w", err)
	}
	// Both roles always appear, even at zero
	if _, ok := porRol[models.RolEstudiante]; !ok {
		porRol[models.RolEstudiante] = 0
	}
	if _, ok := porRol[models.RolAdministrador]; !ok {
		porRol[models.RolAdministrador] = 0
	}

	fechas, err := s.logs.FechasEntre(ctx, hoy, manana)
	if err != nil {
		return nil, fmt.Errorf("failed to load actividad por hora: %w", err)
	}

	// 24 buckets, zero-filled: hours without activity must still appear
	porHora := make([]int, 24)
	for _, f := range fechas {
		porHora[f.Hour()]++
	}

	return &models.Estadisticas{
		TotalUsuarios:    totalUsuarios,
		TotalMensajes:    totalMensajes,
		ActividadHoy:     actividadHoy,
		ConexionesHoy:    conexionesHoy,
		UsuariosPorRol:   porRol,
		ActividadPorHora: porHora,
	}, nil
}

// Actividad computes the trailing N-day series ending today. The result
// always has exactly N labels and N counts in ascending date order, zero for
// days with no entries.
func (s *statsService) Actividad(ctx context.Context, dias int) (*models.ActividadSerie, error) {
	if dias <= 0 {
		dias = ActividadDiasPorDefecto
	}
	if dias > ActividadDiasMaximo {
		dias = ActividadDiasMaximo
	}

	hoy := inicioDia(time.Now())
	desde := hoy.AddDate(0, 0, -(dias - 1))
	hasta := hoy.AddDate(0, 0, 1)

	fechas, err := s.logs.FechasEntre(ctx, desde, hasta)
	if err != nil {
		return nil, fmt.Errorf("failed to load actividad: %w", err)
	}

	porDia := make(map[string]int)
	for _, f := range fechas {
		porDia[f.Format("2006-01-02")]++
	}

	serie := &models.ActividadSerie{
		Labels: make([]string, 0, dias),
		Data:   make([]int, 0, dias),
	}
	for d := 0; d < dias; d++ {
		dia := desde.AddDate(0, 0, d).Format("2006-01-02")
		serie.Labels = append(serie.Labels, dia)
		serie.Data = append(serie.Data, porDia[dia])
	}

	return serie, nil
}
