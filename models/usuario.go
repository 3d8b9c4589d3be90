package models

import (
	"strings"
	"time"
)

// Roles de usuario. Self-registration only ever produces RolEstudiante.
const (
	RolEstudiante    = "estudiante"
	RolAdministrador = "administrador"
)

// Usuario represents a row of the usuarios table joined with its document type.
type Usuario struct {
	ID              int       `json:"id"`
	TipoDocumentoID int       `json:"tipo_documento_id"`
	TipoDocumento   string    `json:"tipo_documento"`
	Documento       string    `json:"documento"`
	Nombre          string    `json:"nombre"`
	Correo          string    `json:"correo"`
	Telefono        string    `json:"telefono"`
	Contrasena      string    `json:"-"`
	Rol             string    `json:"rol"`
	Activo          bool      `json:"activo"`
	FechaRegistro   time.Time `json:"fecha_registro"`
}

// EsAdministrador reports whether the user holds the administrator role.
func (u *Usuario) EsAdministrador() bool {
	return u.Rol == RolAdministrador
}

// TipoDocumento is read-only reference data.
type TipoDocumento struct {
	ID          int    `json:"id"`
	Codigo      string `json:"codigo"`
	Descripcion string `json:"descripcion"`
}

// RegistroForm holds the self-registration form fields.
type RegistroForm struct {
	TipoDocumentoID int
	Documento       string
	Nombre          string
	Correo          string
	Telefono        string
	Contrasena      string
	Confirmar       string
}

// Validate checks the registration form. Errors come back in the order the
// checks run; the first one is what the user sees.
func (f *RegistroForm) Validate() []string {
	var errores []string

	if f.Contrasena != f.Confirmar {
		errores = append(errores, "Las contraseñas no coinciden.")
	}

	if len(f.Contrasena) < 6 {
		errores = append(errores, "La contraseña debe tener al menos 6 caracteres.")
	}

	if strings.TrimSpace(f.Nombre) == "" {
		errores = append(errores, "El nombre es obligatorio.")
	}

	if strings.TrimSpace(f.Correo) == "" {
		errores = append(errores, "El correo es obligatorio.")
	}

	if strings.TrimSpace(f.Documento) == "" {
		errores = append(errores, "El número de documento es obligatorio.")
	}

	return errores
}

// ActualizarUsuarioForm is the allow-list for partial updates. Nil fields
// were not supplied by the caller and are left untouched; anything outside
// this struct is ignored by design.
type ActualizarUsuarioForm struct {
	Nombre          *string `json:"nombre"`
	Correo          *string `json:"correo"`
	Telefono        *string `json:"telefono"`
	Rol             *string `json:"rol"`
	TipoDocumentoID *int    `json:"tipo_documento_id"`
	Documento       *string `json:"documento"`
}

// Vacio reports whether the form carries no fields at all.
func (f *ActualizarUsuarioForm) Vacio() bool {
	return f.Nombre == nil && f.Correo == nil && f.Telefono == nil &&
		f.Rol == nil && f.TipoDocumentoID == nil && f.Documento == nil
}

// Validate checks the supplied fields only.
func (f *ActualizarUsuarioForm) Validate() []string {
	var errores []string

	if f.Nombre != nil && strings.TrimSpace(*f.Nombre) == "" {
		errores = append(errores, "El nombre no puede estar vacío.")
	}

	if f.Correo != nil && strings.TrimSpace(*f.Correo) == "" {
		errores = append(errores, "El correo no puede estar vacío.")
	}

	if f.Rol != nil && *f.Rol != RolEstudiante && *f.Rol != RolAdministrador {
		errores = append(errores, "Rol inválido.")
	}

	return errores
}
