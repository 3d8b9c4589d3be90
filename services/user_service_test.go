package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jespitia/portal-ucundinamarca/models"
	"github.com/jespitia/portal-ucundinamarca/repositories"
)

func TestListar(t *testing.T) {
	srvs, _, _ := setupTestServices(t)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		registrarEstudiante(t, srvs,
			fmt.Sprintf("Estudiante %02d", i),
			fmt.Sprintf("estudiante%02d@ucundinamarca.edu.co", i),
			"secreto1")
	}

	usuarios, paginacion, err := srvs.Usuarios.Listar(ctx, 1, "")
	require.NoError(t, err)
	assert.Len(t, usuarios, models.UsuariosPorPagina)
	assert.Equal(t, 12, paginacion.TotalRegistros)
	assert.Equal(t, 2, paginacion.TotalPaginas)

	// A page past the end is an empty list, not an error
	usuarios, paginacion, err = srvs.Usuarios.Listar(ctx, 99, "")
	require.NoError(t, err)
	assert.NotNil(t, usuarios)
	assert.Empty(t, usuarios)
	assert.Equal(t, 99, paginacion.PaginaActual)

	// Search narrows the set and its pagination
	usuarios, paginacion, err = srvs.Usuarios.Listar(ctx, 1, "estudiante07")
	require.NoError(t, err)
	assert.Len(t, usuarios, 1)
	assert.Equal(t, 1, paginacion.TotalRegistros)
}

func TestActualizar(t *testing.T) {
	srvs, repos, _ := setupTestServices(t)
	ctx := context.Background()

	admin := crearAdmin(t, repos, "Jennifer Espitia", "jennifer@ucundinamarca.edu.co", "admin123")
	usuario := registrarEstudiante(t, srvs, "Leonardo Moscoso", "leo@ucundinamarca.edu.co", "estudiante123")

	// An empty body is rejected before touching the database
	var verr *ValidationError
	_, err := srvs.Usuarios.Actualizar(ctx, admin.ID, usuario.ID, &models.ActualizarUsuarioForm{})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "No se enviaron campos para actualizar.", verr.Mensaje)

	// Partial update touches only the supplied field
	telefono := "3209999999"
	actualizado, err := srvs.Usuarios.Actualizar(ctx, admin.ID, usuario.ID,
		&models.ActualizarUsuarioForm{Telefono: &telefono})
	require.NoError(t, err)
	assert.Equal(t, telefono, actualizado.Telefono)
	assert.Equal(t, "Leonardo Moscoso", actualizado.Nombre)
	assert.Equal(t, "leo@ucundinamarca.edu.co", actualizado.Correo)

	// Invalid rol never reaches the database
	rolMalo := "superusuario"
	_, err = srvs.Usuarios.Actualizar(ctx, admin.ID, usuario.ID,
		&models.ActualizarUsuarioForm{Rol: &rolMalo})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Rol inválido.", verr.Mensaje)

	// Taking another user's correo is a validation problem
	correoOcupado := admin.Correo
	_, err = srvs.Usuarios.Actualizar(ctx, admin.ID, usuario.ID,
		&models.ActualizarUsuarioForm{Correo: &correoOcupado})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "El correo ya está registrado.", verr.Mensaje)

	// Unknown target is a 404, not a validation error
	_, err = srvs.Usuarios.Actualizar(ctx, admin.ID, 9999,
		&models.ActualizarUsuarioForm{Telefono: &telefono})
	assert.ErrorIs(t, err, repositories.ErrUsuarioNoEncontrado)

	// The update was audited against the acting admin
	logs, _, err := srvs.Logs.Listar(ctx, 1, "", models.AccionUsuarioActualizado)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.NotNil(t, logs[0].UsuarioID)
	assert.Equal(t, admin.ID, *logs[0].UsuarioID)
}

func TestEliminar(t *testing.T) {
	srvs, repos, _ := setupTestServices(t)
	ctx := context.Background()

	admin := crearAdmin(t, repos, "Jennifer Espitia", "jennifer@ucundinamarca.edu.co", "admin123")
	otroAdmin := crearAdmin(t, repos, "Carlos Rojas", "carlos@ucundinamarca.edu.co", "admin456")
	estudiante := registrarEstudiante(t, srvs, "Leonardo Moscoso", "leo@ucundinamarca.edu.co", "estudiante123")

	// An admin cannot delete their own account, even though it is an admin
	// account; the self check answers first
	err := srvs.Usuarios.Eliminar(ctx, admin.ID, admin.ID)
	assert.ErrorIs(t, err, ErrEliminarseASiMismo)

	// Other administrators are protected too
	err = srvs.Usuarios.Eliminar(ctx, admin.ID, otroAdmin.ID)
	assert.ErrorIs(t, err, ErrEliminarAdministrador)

	// Unknown target
	err = srvs.Usuarios.Eliminar(ctx, admin.ID, 9999)
	assert.ErrorIs(t, err, repositories.ErrUsuarioNoEncontrado)

	// Students can be deleted, and the entry names the deleted user
	err = srvs.Usuarios.Eliminar(ctx, admin.ID, estudiante.ID)
	require.NoError(t, err)

	_, err = srvs.Usuarios.Obtener(ctx, estudiante.ID)
	assert.ErrorIs(t, err, repositories.ErrUsuarioNoEncontrado)

	logs, _, err := srvs.Logs.Listar(ctx, 1, "", models.AccionUsuarioEliminado)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0].Accion, "Leonardo Moscoso")
}

func TestResetearContrasena(t *testing.T) {
	srvs, repos, _ := setupTestServices(t)
	ctx := context.Background()

	admin := crearAdmin(t, repos, "Jennifer Espitia", "jennifer@ucundinamarca.edu.co", "admin123")
	estudiante := registrarEstudiante(t, srvs, "Leonardo Moscoso", "leo@ucundinamarca.edu.co", "estudiante123")

	// The minimum length applies to resets as well
	var verr *ValidationError
	err := srvs.Usuarios.ResetearContrasena(ctx, admin.ID, estudiante.ID, "abc")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "La contraseña debe tener al menos 6 caracteres.", verr.Mensaje)

	err = srvs.Usuarios.ResetearContrasena(ctx, admin.ID, estudiante.ID, "nueva123")
	require.NoError(t, err)

	// The old password stops working, the new one logs in
	_, err = srvs.Auth.Login(ctx, "leo@ucundinamarca.edu.co", "estudiante123")
	assert.ErrorIs(t, err, ErrCredencialesInvalidas)

	_, err = srvs.Auth.Login(ctx, "leo@ucundinamarca.edu.co", "nueva123")
	assert.NoError(t, err)
}

func TestCambiarEstado(t *testing.T) {
	srvs, repos, _ := setupTestServices(t)
	ctx := context.Background()

	admin := crearAdmin(t, repos, "Jennifer Espitia", "jennifer@ucundinamarca.edu.co", "admin123")
	estudiante := registrarEstudiante(t, srvs, "Leonardo Moscoso", "leo@ucundinamarca.edu.co", "estudiante123")

	err := srvs.Usuarios.CambiarEstado(ctx, admin.ID, estudiante.ID, false)
	require.NoError(t, err)

	desactivado, err := srvs.Usuarios.Obtener(ctx, estudiante.ID)
	require.NoError(t, err)
	assert.False(t, desactivado.Activo)

	// The flag is informational; login keeps working
	_, err = srvs.Auth.Login(ctx, "leo@ucundinamarca.edu.co", "estudiante123")
	assert.NoError(t, err)

	logs, _, err := srvs.Logs.Listar(ctx, 1, "", models.AccionUsuarioEstado)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0].Accion, "desactivado")

	err = srvs.Usuarios.CambiarEstado(ctx, admin.ID, estudiante.ID, true)
	require.NoError(t, err)

	reactivado, err := srvs.Usuarios.Obtener(ctx, estudiante.ID)
	require.NoError(t, err)
	assert.True(t, reactivado.Activo)
}
