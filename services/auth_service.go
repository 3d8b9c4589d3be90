package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jespitia/portal-ucundinamarca/models"
	"github.com/jespitia/portal-ucundinamarca/repositories"
	"github.com/jespitia/portal-ucundinamarca/security"
)

// ErrCredencialesInvalidas is the single message for both an unknown email
// and a wrong password, so a caller cannot enumerate registered users.
var ErrCredencialesInvalidas = errors.New("Correo o contraseña incorrectos.")

// AuthService interface defines authentication and self-registration logic
type AuthService interface {
	Login(ctx context.Context, correo, contrasena string) (*models.Usuario, error)
	Registrar(ctx context.Context, form *models.RegistroForm) (*models.Usuario, error)
}

// authService implements AuthService interface
type authService struct {
	users      repositories.UserRepository
	audit      AuditLogger
	bcryptCost int
}

// NewAuthService creates a new auth service
func NewAuthService(users repositories.UserRepository, audit AuditLogger, bcryptCost int) AuthService {
	return &authService{users: users, audit: audit, bcryptCost: bcryptCost}
}

// Login verifies the credentials and returns the authenticated usuario.
func (s *authService) Login(ctx context.Context, correo, contrasena string) (*models.Usuario, error) {
	correo = strings.TrimSpace(correo)

	usuario, err := s.users.FindByEmail(ctx, correo)
	if err != nil {
		if errors.Is(err, repositories.ErrUsuarioNoEncontrado) {
			return nil, ErrCredencialesInvalidas
		}
		return nil, fmt.Errorf("login query failed: %w", err)
	}

	if !security.VerifyPassword(usuario.Contrasena, contrasena) {
		return nil, ErrCredencialesInvalidas
	}

	s.audit.Record(ctx, usuario.ID, models.AccionLogin, "Inicio de sesión exitoso")
	return usuario, nil
}

// Registrar validates the form and creates a new estudiante. The role is
// always estudiante: self-registration can never produce an administrator.
func (s *authService) Registrar(ctx context.Context, form *models.RegistroForm) (*models.Usuario, error) {
	if errores := form.Validate(); len(errores) > 0 {
		return nil, &ValidationError{Mensaje: errores[0]}
	}

	correo := strings.TrimSpace(form.Correo)

	// Friendly pre-check; the UNIQUE constraint below stays authoritative
	// for the race between this read and the insert.
	if _, err := s.users.FindByEmail(ctx, correo); err == nil {
		return nil, &ValidationError{Mensaje: "El correo ya está registrado."}
	} else if !errors.Is(err, repositories.ErrUsuarioNoEncontrado) {
		return nil, fmt.Errorf("registro pre-check failed: %w", err)
	}

	hash, err := security.HashPassword(form.Contrasena, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash contrasena: %w", err)
	}

	usuario := &models.Usuario{
		TipoDocumentoID: form.TipoDocumentoID,
		Documento:       strings.TrimSpace(form.Documento),
		Nombre:          strings.TrimSpace(form.Nombre),
		Correo:          correo,
		Telefono:        strings.TrimSpace(form.Telefono),
		Contrasena:      hash,
		Rol:             models.RolEstudiante,
		Activo:          true,
	}

	if err := s.users.Create(ctx, usuario); err != nil {
		if errors.Is(err, repositories.ErrCorreoExiste) {
			return nil, &ValidationError{Mensaje: "El correo ya está registrado."}
		}
		return nil, fmt.Errorf("failed to register usuario: %w", err)
	}

	s.audit.Record(ctx, usuario.ID, models.AccionRegistro, "Usuario estudiante creado")
	return usuario, nil
}
