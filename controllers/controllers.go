package controllers

import (
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/jespitia/portal-ucundinamarca/services"
)

// Mensajes genéricos. Raw driver errors are logged internally, never shown.
const (
	MensajeErrorConexion = "Error de conexión con la base de datos."
	MensajeErrorBD       = "Error en la base de datos."
)

// renderTemplate creates a template set and renders it with the provided data
func renderTemplate(w http.ResponseWriter, templateName string, pageTemplate string, data interface{}) error {
	return renderTemplateWithStatus(w, http.StatusOK, templateName, pageTemplate, data)
}

// renderTemplateWithStatus creates a template set and renders it with the provided data and status code
func renderTemplateWithStatus(w http.ResponseWriter, statusCode int, templateName string, pageTemplate string, data interface{}) error {
	tmpl := template.New(templateName)
	tmpl.Funcs(template.FuncMap{
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
	})

	// Parse layout and page template
	_, err := tmpl.ParseFiles("templates/layout.html", pageTemplate)
	if err != nil {
		http.Error(w, "Failed to parse template: "+err.Error(), http.StatusInternalServerError)
		return err
	}

	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}

	if err := tmpl.ExecuteTemplate(w, "layout.html", data); err != nil {
		http.Error(w, "Failed to render template: "+err.Error(), http.StatusInternalServerError)
		return err
	}

	return nil
}

// ErrorPage renders the shared HTML error page, used for 404s and for
// unexpected failures on browser routes.
func ErrorPage(w http.ResponseWriter, statusCode int, mensaje string) {
	renderTemplateWithStatus(w, statusCode, "error", "templates/error.html", struct {
		Title   string
		Mensaje string
	}{Title: "Error", Mensaje: mensaje})
}

// respondJSON writes a JSON payload with the given status code
func respondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

// respondError writes the fixed JSON error shape {"error": mensaje}
func respondError(w http.ResponseWriter, statusCode int, mensaje string) {
	respondJSON(w, statusCode, map[string]string{"error": mensaje})
}

// Controllers holds all controller instances
type Controllers struct {
	Auth      *AuthController
	Dashboard *DashboardController
	Admin     *AdminController
	API       *APIController
}

// NewControllers creates and initializes all controller instances
func NewControllers(services *services.Services) *Controllers {
	return &Controllers{
		Auth:      NewAuthController(services),
		Dashboard: NewDashboardController(services),
		Admin:     NewAdminController(services),
		API:       NewAPIController(services),
	}
}
