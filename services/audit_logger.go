package services

import (
	"context"
	"log"
	"strings"

	"github.com/jespitia/portal-ucundinamarca/models"
	"github.com/jespitia/portal-ucundinamarca/repositories"
)

// AuditLogger appends one immutable entry per significant action. A failed
// write must never abort the operation it accompanies, so errors are logged
// internally and swallowed.
type AuditLogger interface {
	Record(ctx context.Context, usuarioID int, accion string, detalle ...string)
}

type auditLogger struct {
	logs repositories.LogRepository
}

// NewAuditLogger creates a new audit logger
func NewAuditLogger(logs repositories.LogRepository) AuditLogger {
	return &auditLogger{logs: logs}
}

// Record appends an entry. An optional detail is concatenated onto the
// action label, e.g. "REGISTRO - Usuario estudiante creado".
func (a *auditLogger) Record(ctx context.Context, usuarioID int, accion string, detalle ...string) {
	if len(detalle) > 0 {
		accion = accion + models.SeparadorDetalle + strings.Join(detalle, " ")
	}

	if err := a.logs.Create(ctx, usuarioID, accion); err != nil {
		log.Printf("Failed to create audit log: %v", err)
	}
}
