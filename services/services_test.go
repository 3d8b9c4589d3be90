package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/jespitia/portal-ucundinamarca/config"
	"github.com/jespitia/portal-ucundinamarca/database"
	"github.com/jespitia/portal-ucundinamarca/models"
	"github.com/jespitia/portal-ucundinamarca/repositories"
	"github.com/jespitia/portal-ucundinamarca/security"
	_ "github.com/mattn/go-sqlite3"
)

// setupTestServices wires the full service stack over a fresh temporary
// SQLite database. MinCost keeps the bcrypt work factor out of the test time.
func setupTestServices(t *testing.T) (*Services, *repositories.Repositories, *sql.DB) {
	cfg := config.Config{
		DBDriver:   "sqlite3",
		SQLitePath: filepath.Join(t.TempDir(), "test.db"),
	}

	if err := database.Initialize(cfg); err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}
	t.Cleanup(func() {
		database.CloseDB()
	})

	db := database.GetDB()
	repos := repositories.NewRepositories(db)
	return NewServices(repos, bcrypt.MinCost), repos, db
}

// registrarEstudiante runs the real registration flow.
func registrarEstudiante(t *testing.T, srvs *Services, nombre, correo, contrasena string) *models.Usuario {
	usuario, err := srvs.Auth.Registrar(context.Background(), &models.RegistroForm{
		TipoDocumentoID: 1,
		Documento:       "1001234567",
		Nombre:          nombre,
		Correo:          correo,
		Telefono:        "3001234567",
		Contrasena:      contrasena,
		Confirmar:       contrasena,
	})
	if err != nil {
		t.Fatalf("Failed to register estudiante %s: %v", correo, err)
	}
	return usuario
}

// crearAdmin inserts an administrator directly; self-registration can never
// produce one.
func crearAdmin(t *testing.T, repos *repositories.Repositories, nombre, correo, contrasena string) *models.Usuario {
	hash, err := security.HashPassword(contrasena, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	admin := &models.Usuario{
		TipoDocumentoID: 1,
		Documento:       "9009876543",
		Nombre:          nombre,
		Correo:          correo,
		Telefono:        "3109876543",
		Contrasena:      hash,
		Rol:             models.RolAdministrador,
		Activo:          true,
	}
	if err := repos.Users.Create(context.Background(), admin); err != nil {
		t.Fatalf("Failed to create admin %s: %v", correo, err)
	}
	return admin
}
