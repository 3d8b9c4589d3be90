package middleware

import (
	"encoding/json"
	"net/http"

	"gitea.com/go-chi/session"

	"github.com/jespitia/portal-ucundinamarca/models"
	"github.com/jespitia/portal-ucundinamarca/userctx"
)

// Session keys written at login and cleared at logout.
const (
	SessionUsuarioID     = "usuario_id"
	SessionUsuarioNombre = "usuario_nombre"
	SessionUsuarioCorreo = "usuario_correo"
	SessionUsuarioRol    = "usuario_rol"
)

// usuarioDeSesion reads the authenticated identity out of the session.
func usuarioDeSesion(r *http.Request) (userctx.Usuario, bool) {
	sess := session.GetSession(r)

	id, ok := sess.Get(SessionUsuarioID).(int)
	if !ok || id == 0 {
		return userctx.Usuario{}, false
	}

	nombre, _ := sess.Get(SessionUsuarioNombre).(string)
	correo, _ := sess.Get(SessionUsuarioCorreo).(string)
	rol, _ := sess.Get(SessionUsuarioRol).(string)

	return userctx.Usuario{ID: id, Nombre: nombre, Correo: correo, Rol: rol}, true
}

// RequireAuth ensures the user is authenticated.
// If not authenticated, redirects to /login and stores the intended destination.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		usuario, ok := usuarioDeSesion(r)
		if !ok {
			sess := session.GetSession(r)
			sess.Set("redirect_after_login", r.URL.Path)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		ctx := userctx.SetUsuario(r.Context(), usuario)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin gates browser-rendered admin routes. Both checks run before
// any handler touches the data layer.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		usuario, ok := usuarioDeSesion(r)
		if !ok || usuario.Rol != models.RolAdministrador {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		ctx := userctx.SetUsuario(r.Context(), usuario)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdminAPI gates the JSON API: a missing session or wrong role gets a
// 401 with no body beyond the fixed error shape.
func RequireAdminAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		usuario, ok := usuarioDeSesion(r)
		if !ok || usuario.Rol != models.RolAdministrador {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "no autorizado"})
			return
		}

		ctx := userctx.SetUsuario(r.Context(), usuario)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
