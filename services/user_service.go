package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jespitia/portal-ucundinamarca/models"
	"github.com/jespitia/portal-ucundinamarca/repositories"
	"github.com/jespitia/portal-ucundinamarca/security"
)

// Delete guard errors; both map to a 400 at the API.
var (
	ErrEliminarAdministrador = errors.New("No se puede eliminar un usuario administrador.")
	ErrEliminarseASiMismo    = errors.New("No puedes eliminar tu propio usuario.")
)

// UserService interface defines admin user-management logic
type UserService interface {
	Listar(ctx context.Context, pagina int, busqueda string) ([]models.Usuario, models.Paginacion, error)
	Obtener(ctx context.Context, id int) (*models.Usuario, error)
	Actualizar(ctx context.Context, actorID, id int, form *models.ActualizarUsuarioForm) (*models.Usuario, error)
	Eliminar(ctx context.Context, actorID, id int) error
	ResetearContrasena(ctx context.Context, actorID, id int, contrasena string) error
	CambiarEstado(ctx context.Context, actorID, id int, activo bool) error
}

// userService implements UserService interface
type userService struct {
	users      repositories.UserRepository
	audit      AuditLogger
	bcryptCost int
}

// NewUserService creates a new user service
func NewUserService(users repositories.UserRepository, audit AuditLogger, bcryptCost int) UserService {
	return &userService{users: users, audit: audit, bcryptCost: bcryptCost}
}

// Listar returns one page of usuarios plus its pagination metadata. A page
// past the end yields an empty list, not an error.
func (s *userService) Listar(ctx context.Context, pagina int, busqueda string) ([]models.Usuario, models.Paginacion, error) {
	total, err := s.users.Count(ctx, busqueda)
	if err != nil {
		return nil, models.Paginacion{}, fmt.Errorf("failed to count usuarios: %w", err)
	}

	paginacion := models.NewPaginacion(pagina, total, models.UsuariosPorPagina)

	usuarios, err := s.users.List(ctx, busqueda, paginacion.PorPagina, paginacion.Offset())
	if err != nil {
		return nil, models.Paginacion{}, fmt.Errorf("failed to list usuarios: %w", err)
	}
	if usuarios == nil {
		usuarios = []models.Usuario{}
	}

	return usuarios, paginacion, nil
}

// Obtener retrieves a usuario by ID
func (s *userService) Obtener(ctx context.Context, id int) (*models.Usuario, error) {
	if id <= 0 {
		return nil, repositories.ErrUsuarioNoEncontrado
	}
	return s.users.GetByID(ctx, id)
}

// Actualizar writes only the allow-listed fields the caller supplied.
func (s *userService) Actualizar(ctx context.Context, actorID, id int, form *models.ActualizarUsuarioForm) (*models.Usuario, error) {
	if form.Vacio() {
		return nil, &ValidationError{Mensaje: "No se enviaron campos para actualizar."}
	}
	if errores := form.Validate(); len(errores) > 0 {
		return nil, &ValidationError{Mensaje: errores[0]}
	}

	usuario, err := s.Obtener(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.users.Update(ctx, id, form); err != nil {
		if errors.Is(err, repositories.ErrCorreoExiste) {
			return nil, &ValidationError{Mensaje: "El correo ya está registrado."}
		}
		return nil, fmt.Errorf("failed to update usuario: %w", err)
	}

	s.audit.Record(ctx, actorID, models.AccionUsuarioActualizado,
		fmt.Sprintf("Usuario %s (ID %d) actualizado", usuario.Nombre, usuario.ID))

	return s.users.GetByID(ctx, id)
}

// Eliminar deletes a usuario. Administrators can never be deleted and an
// admin cannot delete their own account.
func (s *userService) Eliminar(ctx context.Context, actorID, id int) error {
	usuario, err := s.Obtener(ctx, id)
	if err != nil {
		return err
	}

	if usuario.ID == actorID {
		return ErrEliminarseASiMismo
	}
	if usuario.EsAdministrador() {
		return ErrEliminarAdministrador
	}

	// Capture the name before the row disappears
	nombre := usuario.Nombre

	if err := s.users.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete usuario: %w", err)
	}

	s.audit.Record(ctx, actorID, models.AccionUsuarioEliminado,
		fmt.Sprintf("Usuario %s eliminado", nombre))
	return nil
}

// ResetearContrasena overwrites the stored hash with a new admin-chosen
// password. The old password is not required.
func (s *userService) ResetearContrasena(ctx context.Context, actorID, id int, contrasena string) error {
	if len(contrasena) < 6 {
		return &ValidationError{Mensaje: "La contraseña debe tener al menos 6 caracteres."}
	}

	usuario, err := s.Obtener(ctx, id)
	if err != nil {
		return err
	}

	hash, err := security.HashPassword(contrasena, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash contrasena: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, id, hash); err != nil {
		return fmt.Errorf("failed to reset contrasena: %w", err)
	}

	s.audit.Record(ctx, actorID, models.AccionContrasenaReseteada,
		fmt.Sprintf("Contraseña de %s reseteada", usuario.Nombre))
	return nil
}

// CambiarEstado toggles the persisted activo flag. The flag is informational
// and does not block login.
func (s *userService) CambiarEstado(ctx context.Context, actorID, id int, activo bool) error {
	usuario, err := s.Obtener(ctx, id)
	if err != nil {
		return err
	}

	if err := s.users.SetActivo(ctx, id, activo); err != nil {
		return fmt.Errorf("failed to change estado: %w", err)
	}

	estado := "desactivado"
	if activo {
		estado = "activado"
	}
	s.audit.Record(ctx, actorID, models.AccionUsuarioEstado,
		fmt.Sprintf("Usuario %s %s", usuario.Nombre, estado))
	return nil
}
