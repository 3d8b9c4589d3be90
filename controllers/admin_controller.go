package controllers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/jespitia/portal-ucundinamarca/models"
	"github.com/jespitia/portal-ucundinamarca/services"
	"github.com/jespitia/portal-ucundinamarca/userctx"
)

// AdminController handles the server-rendered admin pages
type AdminController struct {
	services *services.Services
}

// NewAdminController creates a new admin controller
func NewAdminController(services *services.Services) *AdminController {
	return &AdminController{services: services}
}

// Index handles GET /admin: overview counters plus the most recent log entries
func (c *AdminController) Index(w http.ResponseWriter, r *http.Request) {
	usuario := userctx.GetUsuario(r.Context())

	stats, err := c.services.Stats.Resumen(r.Context())
	if err != nil {
		log.Printf("admin dashboard failed: %v", err)
		ErrorPage(w, http.StatusInternalServerError, MensajeErrorBD)
		return
	}

	recientes, err := c.services.Logs.Recientes(r.Context(), 10)
	if err != nil {
		log.Printf("admin dashboard failed: %v", err)
		ErrorPage(w, http.StatusInternalServerError, MensajeErrorBD)
		return
	}

	renderTemplate(w, "admin_dashboard", "templates/admin_dashboard.html", struct {
		Title     string
		Nombre    string
		Stats     *models.Estadisticas
		Recientes []models.LogTransaccion
	}{
		Title:     "Panel de administración",
		Nombre:    usuario.Nombre,
		Stats:     stats,
		Recientes: recientes,
	})
}

// Usuarios handles GET /admin/usuarios
func (c *AdminController) Usuarios(w http.ResponseWriter, r *http.Request) {
	pagina, _ := strconv.Atoi(r.URL.Query().Get("pagina"))
	busqueda := r.URL.Query().Get("busqueda")

	usuarios, paginacion, err := c.services.Usuarios.Listar(r.Context(), pagina, busqueda)
	if err != nil {
		log.Printf("listado de usuarios failed: %v", err)
		ErrorPage(w, http.StatusInternalServerError, MensajeErrorBD)
		return
	}

	renderTemplate(w, "admin_usuarios", "templates/admin_usuarios.html", struct {
		Title      string
		Usuarios   []models.Usuario
		Paginacion models.Paginacion
		Busqueda   string
	}{
		Title:      "Gestión de usuarios",
		Usuarios:   usuarios,
		Paginacion: paginacion,
		Busqueda:   busqueda,
	})
}

// Logs handles GET /admin/logs
func (c *AdminController) Logs(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, "admin_logs", "templates/admin_logs.html", struct {
		Title string
	}{
		Title: "Logs de transacciones",
	})
}
