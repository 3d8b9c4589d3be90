package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"gitea.com/go-chi/session"

	"github.com/jespitia/portal-ucundinamarca/middleware"
	"github.com/jespitia/portal-ucundinamarca/models"
	"github.com/jespitia/portal-ucundinamarca/services"
)

// AuthController handles login, self-registration and logout
type AuthController struct {
	services *services.Services
}

// NewAuthController creates a new auth controller
func NewAuthController(services *services.Services) *AuthController {
	return &AuthController{services: services}
}

type loginPageData struct {
	Title  string
	Error  string
	Aviso  string
	Correo string
}

// LoginForm handles GET /login (and GET /)
func (c *AuthController) LoginForm(w http.ResponseWriter, r *http.Request) {
	sess := session.GetSession(r)
	if id, ok := sess.Get(middleware.SessionUsuarioID).(int); ok && id != 0 {
		c.redirigirPorRol(w, r, sess.Get(middleware.SessionUsuarioRol))
		return
	}

	data := loginPageData{Title: "Iniciar sesión"}
	if r.URL.Query().Get("registro") == "ok" {
		data.Aviso = "Registro exitoso. Ahora puedes iniciar sesión."
	}

	renderTemplate(w, "login", "templates/login.html", data)
}

// Login handles POST /login
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	correo := r.FormValue("correo")
	contrasena := r.FormValue("contrasena")

	usuario, err := c.services.Auth.Login(r.Context(), correo, contrasena)
	if err != nil {
		data := loginPageData{Title: "Iniciar sesión", Correo: correo}
		status := http.StatusUnauthorized

		if errors.Is(err, services.ErrCredencialesInvalidas) {
			data.Error = err.Error()
		} else {
			log.Printf("login failed: %v", err)
			data.Error = MensajeErrorConexion
			status = http.StatusInternalServerError
		}

		renderTemplateWithStatus(w, status, "login_error", "templates/login.html", data)
		return
	}

	sess := session.GetSession(r)
	sess.Set(middleware.SessionUsuarioID, usuario.ID)
	sess.Set(middleware.SessionUsuarioNombre, usuario.Nombre)
	sess.Set(middleware.SessionUsuarioCorreo, usuario.Correo)
	sess.Set(middleware.SessionUsuarioRol, usuario.Rol)

	// Honor the destination stored by RequireAuth, if any
	if destino, ok := sess.Get("redirect_after_login").(string); ok && destino != "" {
		sess.Delete("redirect_after_login")
		http.Redirect(w, r, destino, http.StatusSeeOther)
		return
	}

	c.redirigirPorRol(w, r, usuario.Rol)
}

func (c *AuthController) redirigirPorRol(w http.ResponseWriter, r *http.Request, rol interface{}) {
	if rol == models.RolAdministrador {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

type registroPageData struct {
	Title string
	Error string
	Form  *models.RegistroForm
}

// RegistroForm handles GET /registro
func (c *AuthController) RegistroForm(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, "registro", "templates/registro.html", registroPageData{
		Title: "Registro",
		Form:  &models.RegistroForm{TipoDocumentoID: 1},
	})
}

// Registro handles POST /registro
func (c *AuthController) Registro(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	tipoDocumento, err := strconv.Atoi(r.FormValue("tipo_documento"))
	if err != nil || tipoDocumento <= 0 {
		tipoDocumento = 1
	}

	form := &models.RegistroForm{
		TipoDocumentoID: tipoDocumento,
		Documento:       r.FormValue("documento"),
		Nombre:          r.FormValue("nombre"),
		Correo:          r.FormValue("correo"),
		Telefono:        r.FormValue("telefono"),
		Contrasena:      r.FormValue("contrasena"),
		Confirmar:       r.FormValue("confirmar"),
	}

	if _, err := c.services.Auth.Registrar(r.Context(), form); err != nil {
		data := registroPageData{Title: "Registro", Form: form}
		status := http.StatusBadRequest

		var verr *services.ValidationError
		if errors.As(err, &verr) {
			data.Error = verr.Mensaje
		} else {
			log.Printf("registro failed: %v", err)
			data.Error = MensajeErrorConexion
			status = http.StatusInternalServerError
		}

		renderTemplateWithStatus(w, status, "registro_error", "templates/registro.html", data)
		return
	}

	http.Redirect(w, r, "/login?registro=ok", http.StatusSeeOther)
}

// RecuperarForm handles GET /recuperar
func (c *AuthController) RecuperarForm(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, "recuperar", "templates/recuperar.html", struct {
		Title   string
		Mensaje string
	}{Title: "Recuperar contraseña"})
}

// Recuperar handles POST /recuperar. The answer is the same whether or not
// the email exists, so the form cannot be used to enumerate users.
func (c *AuthController) Recuperar(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, "recuperar", "templates/recuperar.html", struct {
		Title   string
		Mensaje string
	}{
		Title:   "Recuperar contraseña",
		Mensaje: "Si el correo está registrado, se enviarán instrucciones.",
	})
}

// Logout handles GET /logout
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	sess := session.GetSession(r)
	sess.Delete(middleware.SessionUsuarioID)
	sess.Delete(middleware.SessionUsuarioNombre)
	sess.Delete(middleware.SessionUsuarioCorreo)
	sess.Delete(middleware.SessionUsuarioRol)

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
