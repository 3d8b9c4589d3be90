package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jespitia/portal-ucundinamarca/models"
)

// UserRepository interface defines usuario database operations
type UserRepository interface {
	FindByEmail(ctx context.Context, correo string) (*models.Usuario, error)
	GetByID(ctx context.Context, id int) (*models.Usuario, error)
	List(ctx context.Context, busqueda string, limit, offset int) ([]models.Usuario, error)
	Count(ctx context.Context, busqueda string) (int, error)
	Create(ctx context.Context, usuario *models.Usuario) error
	Update(ctx context.Context, id int, form *models.ActualizarUsuarioForm) error
	UpdatePassword(ctx context.Context, id int, hash string) error
	SetActivo(ctx context.Context, id int, activo bool) error
	Delete(ctx context.Context, id int) error
}

// userRepository implements UserRepository interface
type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const usuarioColumns = `
	u.id, u.tipo_documento_id, td.descripcion, u.documento, u.nombre,
	u.correo, u.telefono, u.contrasena, u.rol, u.activo, u.fecha_registro
`

func scanUsuario(row interface{ Scan(...interface{}) error }) (*models.Usuario, error) {
	var u models.Usuario
	err := row.Scan(
		&u.ID,
		&u.TipoDocumentoID,
		&u.TipoDocumento,
		&u.Documento,
		&u.Nombre,
		&u.Correo,
		&u.Telefono,
		&u.Contrasena,
		&u.Rol,
		&u.Activo,
		&u.FechaRegistro,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByEmail retrieves a usuario by exact email match
func (r *userRepository) FindByEmail(ctx context.Context, correo string) (*models.Usuario, error) {
	query := `
		SELECT ` + usuarioColumns + `
		FROM usuarios u
		JOIN tipos_documento td ON td.id = u.tipo_documento_id
		WHERE u.correo = ?
	`

	usuario, err := scanUsuario(r.db.QueryRowContext(ctx, query, correo))
	if err == sql.ErrNoRows {
		return nil, ErrUsuarioNoEncontrado
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find usuario by correo: %w", err)
	}
	return usuario, nil
}

// GetByID retrieves a usuario by ID
func (r *userRepository) GetByID(ctx context.Context, id int) (*models.Usuario, error) {
	query := `
		SELECT ` + usuarioColumns + `
		FROM usuarios u
		JOIN tipos_documento td ON td.id = u.tipo_documento_id
		WHERE u.id = ?
	`

	usuario, err := scanUsuario(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrUsuarioNoEncontrado
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get usuario: %w", err)
	}
	return usuario, nil
}

// searchClause builds the optional free-text filter across nombre, correo and
// documento (OR-combined, case-insensitive substring).
func searchClause(busqueda string) (string, []interface{}) {
	if strings.TrimSpace(busqueda) == "" {
		return "", nil
	}
	patron := "%" + strings.ToLower(strings.TrimSpace(busqueda)) + "%"
	clause := `WHERE (LOWER(u.nombre) LIKE ? OR LOWER(u.correo) LIKE ? OR LOWER(u.documento) LIKE ?)`
	return clause, []interface{}{patron, patron, patron}
}

// List retrieves one page of usuarios ordered by registration date descending
func (r *userRepository) List(ctx context.Context, busqueda string, limit, offset int) ([]models.Usuario, error) {
	where, args := searchClause(busqueda)
	query := `
		SELECT ` + usuarioColumns + `
		FROM usuarios u
		JOIN tipos_documento td ON td.id = u.tipo_documento_id
		` + where + `
		ORDER BY u.fecha_registro DESC, u.id DESC
		LIMIT ? OFFSET ?
	`
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query usuarios: %w", err)
	}
	defer rows.Close()

	var usuarios []models.Usuario
	for rows.Next() {
		usuario, err := scanUsuario(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan usuario: %w", err)
		}
		usuarios = append(usuarios, *usuario)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating usuarios: %w", err)
	}

	return usuarios, nil
}

// Count returns the number of usuarios matching the search filter
func (r *userRepository) Count(ctx context.Context, busqueda string) (int, error) {
	where, args := searchClause(busqueda)
	query := `SELECT COUNT(*) FROM usuarios u ` + where

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count usuarios: %w", err)
	}
	return count, nil
}

// Create inserts a new usuario. The correo UNIQUE constraint is the
// authoritative uniqueness check; violations map to ErrCorreoExiste.
func (r *userRepository) Create(ctx context.Context, usuario *models.Usuario) error {
	query := `
		INSERT INTO usuarios (tipo_documento_id, documento, nombre, correo, telefono, contrasena, rol, activo, fecha_registro)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	if usuario.FechaRegistro.IsZero() {
		usuario.FechaRegistro = time.Now()
	}

	result, err := r.db.ExecContext(ctx, query,
		usuario.TipoDocumentoID,
		usuario.Documento,
		usuario.Nombre,
		usuario.Correo,
		usuario.Telefono,
		usuario.Contrasena,
		usuario.Rol,
		usuario.Activo,
		usuario.FechaRegistro,
	)
	if err != nil {
		if isDuplicateError(err) {
			return ErrCorreoExiste
		}
		return fmt.Errorf("failed to create usuario: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted ID: %w", err)
	}

	usuario.ID = int(id)
	return nil
}

// Update writes only the fields supplied in the form
func (r *userRepository) Update(ctx context.Context, id int, form *models.ActualizarUsuarioForm) error {
	var sets []string
	var args []interface{}

	if form.Nombre != nil {
		sets = append(sets, "nombre = ?")
		args = append(args, *form.Nombre)
	}
	if form.Correo != nil {
		sets = append(sets, "correo = ?")
		args = append(args, *form.Correo)
	}
	if form.Telefono != nil {
		sets = append(sets, "telefono = ?")
		args = append(args, *form.Telefono)
	}
	if form.Rol != nil {
		sets = append(sets, "rol = ?")
		args = append(args, *form.Rol)
	}
	if form.TipoDocumentoID != nil {
		sets = append(sets, "tipo_documento_id = ?")
		args = append(args, *form.TipoDocumentoID)
	}
	if form.Documento != nil {
		sets = append(sets, "documento = ?")
		args = append(args, *form.Documento)
	}

	if len(sets) == 0 {
		return nil
	}

	query := `UPDATE usuarios SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	args = append(args, id)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isDuplicateError(err) {
			return ErrCorreoExiste
		}
		return fmt.Errorf("failed to update usuario: %w", err)
	}
	return nil
}

// UpdatePassword overwrites the stored password hash
func (r *userRepository) UpdatePassword(ctx context.Context, id int, hash string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE usuarios SET contrasena = ? WHERE id = ?`, hash, id)
	if err != nil {
		return fmt.Errorf("failed to update contrasena: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrUsuarioNoEncontrado
	}
	return nil
}

// SetActivo toggles the persisted active flag
func (r *userRepository) SetActivo(ctx context.Context, id int, activo bool) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE usuarios SET activo = ? WHERE id = ?`, activo, id); err != nil {
		return fmt.Errorf("failed to update estado: %w", err)
	}
	return nil
}

// Delete removes a usuario by ID
func (r *userRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM usuarios WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete usuario: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrUsuarioNoEncontrado
	}
	return nil
}
