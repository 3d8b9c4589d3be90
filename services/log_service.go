package services

import (
	"context"
	"fmt"

	"github.com/jespitia/portal-ucundinamarca/models"
	"github.com/jespitia/portal-ucundinamarca/repositories"
)

// LogService exposes the paged, filtered view over the transaction log.
type LogService interface {
	Listar(ctx context.Context, pagina int, usuario, accion string) ([]models.LogTransaccion, models.Paginacion, error)
	Recientes(ctx context.Context, limit int) ([]models.LogTransaccion, error)
}

// logService implements LogService interface
type logService struct {
	logs repositories.LogRepository
}

// NewLogService creates a new log service
func NewLogService(logs repositories.LogRepository) LogService {
	return &logService{logs: logs}
}

// Listar returns one page of log entries, newest first. The usuario and
// accion filters are AND-combined when both are present.
func (s *logService) Listar(ctx context.Context, pagina int, usuario, accion string) ([]models.LogTransaccion, models.Paginacion, error) {
	total, err := s.logs.Count(ctx, usuario, accion)
	if err != nil {
		return nil, models.Paginacion{}, fmt.Errorf("failed to count logs: %w", err)
	}

	paginacion := models.NewPaginacion(pagina, total, models.LogsPorPagina)

	logs, err := s.logs.List(ctx, usuario, accion, paginacion.PorPagina, paginacion.Offset())
	if err != nil {
		return nil, models.Paginacion{}, fmt.Errorf("failed to list logs: %w", err)
	}
	if logs == nil {
		logs = []models.LogTransaccion{}
	}

	return logs, paginacion, nil
}

// Recientes returns the newest entries for the admin overview
func (s *logService) Recientes(ctx context.Context, limit int) ([]models.LogTransaccion, error) {
	logs, err := s.logs.Recientes(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent logs: %w", err)
	}
	if logs == nil {
		logs = []models.LogTransaccion{}
	}
	return logs, nil
}
