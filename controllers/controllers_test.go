package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"gitea.com/go-chi/session"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jespitia/portal-ucundinamarca/config"
	"github.com/jespitia/portal-ucundinamarca/database"
	authmiddleware "github.com/jespitia/portal-ucundinamarca/middleware"
	"github.com/jespitia/portal-ucundinamarca/models"
	"github.com/jespitia/portal-ucundinamarca/repositories"
	"github.com/jespitia/portal-ucundinamarca/services"
	_ "github.com/mattn/go-sqlite3"
)

// TestMain moves to the module root so templates/ and static/ resolve the
// same way they do for the running server.
func TestMain(m *testing.M) {
	dir, err := os.Getwd()
	if err != nil {
		os.Exit(1)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	if err := os.Chdir(dir); err != nil {
		os.Exit(1)
	}
	os.Exit(m.Run())
}

// newTestServer boots the full stack over a fresh seeded SQLite database:
// session middleware, auth middleware and every route the browser or the
// admin panel uses.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := config.Config{
		DBDriver:        "sqlite3",
		SQLitePath:      filepath.Join(t.TempDir(), "test.db"),
		SessionProvider: "memory",
		SessionCookie:   "portal_session",
		SessionLifetime: 3600,
		BcryptCost:      bcrypt.MinCost,
	}

	require.NoError(t, database.Initialize(cfg))
	t.Cleanup(func() {
		database.CloseDB()
	})

	db := database.GetDB()
	require.NoError(t, database.Seed(db, cfg.BcryptCost))

	repos := repositories.NewRepositories(db)
	srvs := services.NewServices(repos, cfg.BcryptCost)
	ctrl := NewControllers(srvs)

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(10 * time.Second))

	sessionHandler, err := session.Sessioner(session.Options{
		Provider:    cfg.SessionProvider,
		CookieName:  cfg.SessionCookie,
		Gclifetime:  int64(cfg.SessionLifetime),
		Maxlifetime: int64(cfg.SessionLifetime),
	})
	require.NoError(t, err)
	r.Use(sessionHandler)

	r.Get("/", ctrl.Auth.LoginForm)
	r.Get("/login", ctrl.Auth.LoginForm)
	r.Post("/login", ctrl.Auth.Login)
	r.Get("/registro", ctrl.Auth.RegistroForm)
	r.Post("/registro", ctrl.Auth.Registro)
	r.Get("/recuperar", ctrl.Auth.RecuperarForm)
	r.Post("/recuperar", ctrl.Auth.Recuperar)
	r.Get("/logout", ctrl.Auth.Logout)

	r.Group(func(r chi.Router) {
		r.Use(authmiddleware.RequireAuth)
		r.Get("/dashboard", ctrl.Dashboard.Index)
		r.Get("/chat", ctrl.Dashboard.Chat)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authmiddleware.RequireAdmin)
			r.Get("/", ctrl.Admin.Index)
			r.Get("/usuarios", ctrl.Admin.Usuarios)
			r.Get("/logs", ctrl.Admin.Logs)
		})

		r.Route("/api", func(r chi.Router) {
			r.Use(authmiddleware.RequireAdminAPI)
			r.Get("/usuarios", ctrl.API.Usuarios)
			r.Get("/usuarios/{id}", ctrl.API.Usuario)
			r.Put("/usuarios/{id}", ctrl.API.ActualizarUsuario)
			r.Delete("/usuarios/{id}", ctrl.API.EliminarUsuario)
			r.Put("/usuarios/{id}/contrasena", ctrl.API.ResetearContrasena)
			r.Put("/usuarios/{id}/estado", ctrl.API.CambiarEstado)
			r.Get("/estadisticas", ctrl.API.Estadisticas)
			r.Get("/actividad", ctrl.API.Actividad)
			r.Get("/logs", ctrl.API.Logs)
		})
	})

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func login(t *testing.T, client *http.Client, base, correo, contrasena string) *http.Response {
	t.Helper()
	resp, err := client.PostForm(base+"/login", url.Values{
		"correo":     {correo},
		"contrasena": {contrasena},
	})
	require.NoError(t, err)
	return resp
}

// doJSON performs a request and decodes the JSON body into target when one
// is given. The response body is consumed either way.
func doJSON(t *testing.T, client *http.Client, method, rawurl string, payload, target interface{}) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, rawurl, body)
	require.NoError(t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if target != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
	} else {
		io.Copy(io.Discard, resp.Body)
	}
	return resp
}

type usuariosResponse struct {
	Usuarios   []models.Usuario  `json:"usuarios"`
	Paginacion models.Paginacion `json:"paginacion"`
}

func TestAPISinSesion(t *testing.T) {
	ts := newTestServer(t)
	client := newClient(t)

	var errResp map[string]string
	resp := doJSON(t, client, http.MethodGet, ts.URL+"/admin/api/usuarios", nil, &errResp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "no autorizado", errResp["error"])
}

func TestLoginInvalido(t *testing.T) {
	ts := newTestServer(t)
	client := newClient(t)

	resp := login(t, client, ts.URL, "jennifer@ucundinamarca.edu.co", "incorrecta")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Correo o contraseña incorrectos.")
}

func TestEstudianteNoEsAdmin(t *testing.T) {
	ts := newTestServer(t)
	client := newClient(t)

	// A student lands on their dashboard
	resp := login(t, client, ts.URL, "leo@ucundinamarca.edu.co", "estudiante123")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Request.URL.Path)

	// The JSON API rejects the student session
	var errResp map[string]string
	apiResp := doJSON(t, client, http.MethodGet, ts.URL+"/admin/api/usuarios", nil, &errResp)
	assert.Equal(t, http.StatusUnauthorized, apiResp.StatusCode)

	// Admin pages bounce through /login, which sends the live student
	// session back to its own dashboard
	pagina, err := client.Get(ts.URL + "/admin")
	require.NoError(t, err)
	defer pagina.Body.Close()
	assert.Equal(t, "/dashboard", pagina.Request.URL.Path)
}

func TestFlujoAdmin(t *testing.T) {
	ts := newTestServer(t)
	client := newClient(t)

	// The seeded admin lands on the admin overview
	resp := login(t, client, ts.URL, "jennifer@ucundinamarca.edu.co", "admin123")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/admin", resp.Request.URL.Path)

	// List users
	var lista usuariosResponse
	listResp := doJSON(t, client, http.MethodGet, ts.URL+"/admin/api/usuarios", nil, &lista)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	require.Len(t, lista.Usuarios, 2)
	assert.Equal(t, models.UsuariosPorPagina, lista.Paginacion.PorPagina)
	assert.Equal(t, 2, lista.Paginacion.TotalRegistros)

	var adminID, leoID int
	for _, u := range lista.Usuarios {
		switch u.Correo {
		case "jennifer@ucundinamarca.edu.co":
			adminID = u.ID
		case "leo@ucundinamarca.edu.co":
			leoID = u.ID
		}
	}
	require.NotZero(t, adminID)
	require.NotZero(t, leoID)

	// Partial update: only the supplied field changes
	var actualizado struct {
		Success bool           `json:"success"`
		Message string         `json:"message"`
		Usuario models.Usuario `json:"usuario"`
	}
	putResp := doJSON(t, client, http.MethodPut,
		ts.URL+"/admin/api/usuarios/"+strconv.Itoa(leoID),
		map[string]string{"telefono": "3209999999"}, &actualizado)
	require.Equal(t, http.StatusOK, putResp.StatusCode)
	assert.True(t, actualizado.Success)
	assert.Equal(t, "3209999999", actualizado.Usuario.Telefono)
	assert.Equal(t, "Leonardo Moscoso", actualizado.Usuario.Nombre)

	// Toggle estado
	var ok map[string]interface{}
	estadoResp := doJSON(t, client, http.MethodPut,
		ts.URL+"/admin/api/usuarios/"+strconv.Itoa(leoID)+"/estado",
		map[string]bool{"activo": false}, &ok)
	assert.Equal(t, http.StatusOK, estadoResp.StatusCode)

	// Password reset enforces the minimum length
	var errResp map[string]string
	cortaResp := doJSON(t, client, http.MethodPut,
		ts.URL+"/admin/api/usuarios/"+strconv.Itoa(leoID)+"/contrasena",
		map[string]string{"contrasena": "abc"}, &errResp)
	assert.Equal(t, http.StatusBadRequest, cortaResp.StatusCode)
	assert.Equal(t, "La contraseña debe tener al menos 6 caracteres.", errResp["error"])

	resetResp := doJSON(t, client, http.MethodPut,
		ts.URL+"/admin/api/usuarios/"+strconv.Itoa(leoID)+"/contrasena",
		map[string]string{"contrasena": "nueva123"}, &ok)
	assert.Equal(t, http.StatusOK, resetResp.StatusCode)

	// Dashboard numbers
	var stats models.Estadisticas
	statsResp := doJSON(t, client, http.MethodGet, ts.URL+"/admin/api/estadisticas", nil, &stats)
	require.Equal(t, http.StatusOK, statsResp.StatusCode)
	assert.Equal(t, 2, stats.TotalUsuarios)
	assert.Len(t, stats.ActividadPorHora, 24)
	assert.Equal(t, 5, stats.ConexionesHoy)

	var serie models.ActividadSerie
	serieResp := doJSON(t, client, http.MethodGet, ts.URL+"/admin/api/actividad?dias=3", nil, &serie)
	require.Equal(t, http.StatusOK, serieResp.StatusCode)
	assert.Len(t, serie.Labels, 3)
	assert.Len(t, serie.Data, 3)

	// Logs carry the formatted timestamp
	var logsResp struct {
		Logs []struct {
			UsuarioNombre *string `json:"usuario_nombre"`
			Accion        string  `json:"accion"`
			FechaHora     string  `json:"fecha_hora"`
		} `json:"logs"`
		Paginacion models.Paginacion `json:"paginacion"`
	}
	logsHTTP := doJSON(t, client, http.MethodGet, ts.URL+"/admin/api/logs", nil, &logsResp)
	require.Equal(t, http.StatusOK, logsHTTP.StatusCode)
	require.NotEmpty(t, logsResp.Logs)
	assert.NotEmpty(t, logsResp.Logs[0].FechaHora)
	assert.Equal(t, models.LogsPorPagina, logsResp.Paginacion.PorPagina)

	// Delete guards
	selfResp := doJSON(t, client, http.MethodDelete,
		ts.URL+"/admin/api/usuarios/"+strconv.Itoa(adminID), nil, &errResp)
	assert.Equal(t, http.StatusBadRequest, selfResp.StatusCode)
	assert.Equal(t, "No puedes eliminar tu propio usuario.", errResp["error"])

	// Deleting the student works
	delResp := doJSON(t, client, http.MethodDelete,
		ts.URL+"/admin/api/usuarios/"+strconv.Itoa(leoID), nil, &ok)
	assert.Equal(t, http.StatusOK, delResp.StatusCode)

	notFound := doJSON(t, client, http.MethodGet,
		ts.URL+"/admin/api/usuarios/"+strconv.Itoa(leoID), nil, &errResp)
	assert.Equal(t, http.StatusNotFound, notFound.StatusCode)
	assert.Equal(t, "Usuario no encontrado.", errResp["error"])
}

func TestRegistroFlujo(t *testing.T) {
	ts := newTestServer(t)
	client := newClient(t)

	resp, err := client.PostForm(ts.URL+"/registro", url.Values{
		"tipo_documento": {"1"},
		"documento":      {"1007654321"},
		"nombre":         {"Laura Prieto"},
		"correo":         {"laura@ucundinamarca.edu.co"},
		"telefono":       {"3001234567"},
		"contrasena":     {"secreto1"},
		"confirmar":      {"secreto1"},
	})
	require.NoError(t, err)
	defer resp.Body.Close()

	// Back on the login form with the success notice
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/login", resp.Request.URL.Path)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Registro exitoso")

	// The new account can log in and lands on the student dashboard
	sesion := login(t, client, ts.URL, "laura@ucundinamarca.edu.co", "secreto1")
	defer sesion.Body.Close()
	assert.Equal(t, http.StatusOK, sesion.StatusCode)
	assert.Equal(t, "/dashboard", sesion.Request.URL.Path)

	// Logout drops the session
	salida, err := client.Get(ts.URL + "/logout")
	require.NoError(t, err)
	defer salida.Body.Close()
	assert.Equal(t, "/login", salida.Request.URL.Path)

	protegido, err := client.Get(ts.URL + "/dashboard")
	require.NoError(t, err)
	defer protegido.Body.Close()
	assert.Equal(t, "/login", protegido.Request.URL.Path)
}

