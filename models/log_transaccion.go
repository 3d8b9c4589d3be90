package models

import "time"

// Acciones registradas en logs_transacciones.
const (
	AccionLogin               = "LOGIN"
	AccionRegistro            = "REGISTRO"
	AccionUsuarioActualizado  = "USUARIO_ACTUALIZADO"
	AccionUsuarioEliminado    = "USUARIO_ELIMINADO"
	AccionUsuarioEstado       = "USUARIO_ESTADO"
	AccionContrasenaReseteada = "CONTRASENA_RESETEADA"
)

// SeparadorDetalle joins the action label with its free-text detail,
// e.g. "REGISTRO - Usuario estudiante creado".
const SeparadorDetalle = " - "

// FormatoFechaHora is the fixed textual form used for API consumers.
const FormatoFechaHora = "2006-01-02 15:04:05"

// LogTransaccion is an append-only audit entry. UsuarioNombre is nil when
// the user was deleted after the entry was written (outer join).
type LogTransaccion struct {
	ID            int64     `json:"id"`
	UsuarioID     *int      `json:"usuario_id"`
	UsuarioNombre *string   `json:"usuario_nombre"`
	Accion        string    `json:"accion"`
	FechaHora     time.Time `json:"-"`
}

// FechaHoraTexto returns the timestamp in the fixed API format.
func (l LogTransaccion) FechaHoraTexto() string {
	return l.FechaHora.Format(FormatoFechaHora)
}
