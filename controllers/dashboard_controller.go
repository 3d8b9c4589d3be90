package controllers

import (
	"net/http"

	"github.com/jespitia/portal-ucundinamarca/services"
	"github.com/jespitia/portal-ucundinamarca/userctx"
)

// DashboardController handles the student-facing pages
type DashboardController struct {
	services *services.Services
}

// NewDashboardController creates a new dashboard controller
func NewDashboardController(services *services.Services) *DashboardController {
	return &DashboardController{services: services}
}

// Index handles GET /dashboard
func (c *DashboardController) Index(w http.ResponseWriter, r *http.Request) {
	usuario := userctx.GetUsuario(r.Context())

	renderTemplate(w, "dashboard", "templates/dashboard.html", struct {
		Title  string
		Nombre string
		Correo string
		Rol    string
	}{
		Title:  "Panel del estudiante",
		Nombre: usuario.Nombre,
		Correo: usuario.Correo,
		Rol:    usuario.Rol,
	})
}

// Chat handles GET /chat. The chat itself runs client-side; the page only
// needs the user's name.
func (c *DashboardController) Chat(w http.ResponseWriter, r *http.Request) {
	usuario := userctx.GetUsuario(r.Context())

	renderTemplate(w, "chat", "templates/chat.html", struct {
		Title  string
		Nombre string
	}{
		Title:  "Chat",
		Nombre: usuario.Nombre,
	})
}
