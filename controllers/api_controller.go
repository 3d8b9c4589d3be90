package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jespitia/portal-ucundinamarca/models"
	"github.com/jespitia/portal-ucundinamarca/repositories"
	"github.com/jespitia/portal-ucundinamarca/services"
	"github.com/jespitia/portal-ucundinamarca/userctx"
)

// APIController handles the JSON endpoints under /admin/api
type APIController struct {
	services *services.Services
}

// NewAPIController creates a new API controller
func NewAPIController(services *services.Services) *APIController {
	return &APIController{services: services}
}

// manejarError maps service errors to the fixed JSON error responses.
// Validation problems are 400, missing users 404, everything else becomes a
// generic 500 with the real cause logged internally only.
func manejarError(w http.ResponseWriter, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		respondError(w, http.StatusBadRequest, verr.Mensaje)
	case errors.Is(err, services.ErrEliminarAdministrador),
		errors.Is(err, services.ErrEliminarseASiMismo):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repositories.ErrUsuarioNoEncontrado):
		respondError(w, http.StatusNotFound, "Usuario no encontrado.")
	default:
		log.Printf("api error: %v", err)
		respondError(w, http.StatusInternalServerError, MensajeErrorBD)
	}
}

func idDeRuta(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "id"))
}

// Usuarios handles GET /admin/api/usuarios
func (c *APIController) Usuarios(w http.ResponseWriter, r *http.Request) {
	pagina, _ := strconv.Atoi(r.URL.Query().Get("pagina"))
	busqueda := r.URL.Query().Get("busqueda")

	usuarios, paginacion, err := c.services.Usuarios.Listar(r.Context(), pagina, busqueda)
	if err != nil {
		manejarError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"usuarios":   usuarios,
		"paginacion": paginacion,
	})
}

// Usuario handles GET /admin/api/usuarios/{id}
func (c *APIController) Usuario(w http.ResponseWriter, r *http.Request) {
	id, err := idDeRuta(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "ID inválido.")
		return
	}

	usuario, err := c.services.Usuarios.Obtener(r.Context(), id)
	if err != nil {
		manejarError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"usuario": usuario})
}

// ActualizarUsuario handles PUT /admin/api/usuarios/{id}. Only the
// allow-listed fields present in the body are written; unknown fields are
// ignored, not errors.
func (c *APIController) ActualizarUsuario(w http.ResponseWriter, r *http.Request) {
	id, err := idDeRuta(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "ID inválido.")
		return
	}

	var form models.ActualizarUsuarioForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		respondError(w, http.StatusBadRequest, "Cuerpo de la petición inválido.")
		return
	}

	actor := userctx.GetUsuario(r.Context())
	usuario, err := c.services.Usuarios.Actualizar(r.Context(), actor.ID, id, &form)
	if err != nil {
		manejarError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Usuario actualizado correctamente.",
		"usuario": usuario,
	})
}

// EliminarUsuario handles DELETE /admin/api/usuarios/{id}
func (c *APIController) EliminarUsuario(w http.ResponseWriter, r *http.Request) {
	id, err := idDeRuta(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "ID inválido.")
		return
	}

	actor := userctx.GetUsuario(r.Context())
	if err := c.services.Usuarios.Eliminar(r.Context(), actor.ID, id); err != nil {
		manejarError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// ResetearContrasena handles PUT /admin/api/usuarios/{id}/contrasena
func (c *APIController) ResetearContrasena(w http.ResponseWriter, r *http.Request) {
	id, err := idDeRuta(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "ID inválido.")
		return
	}

	var body struct {
		Contrasena string `json:"contrasena"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Cuerpo de la petición inválido.")
		return
	}

	actor := userctx.GetUsuario(r.Context())
	if err := c.services.Usuarios.ResetearContrasena(r.Context(), actor.ID, id, body.Contrasena); err != nil {
		manejarError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// CambiarEstado handles PUT /admin/api/usuarios/{id}/estado
func (c *APIController) CambiarEstado(w http.ResponseWriter, r *http.Request) {
	id, err := idDeRuta(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "ID inválido.")
		return
	}

	var body struct {
		Activo *bool `json:"activo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Activo == nil {
		respondError(w, http.StatusBadRequest, "Cuerpo de la petición inválido.")
		return
	}

	actor := userctx.GetUsuario(r.Context())
	if err := c.services.Usuarios.CambiarEstado(r.Context(), actor.ID, id, *body.Activo); err != nil {
		manejarError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// Estadisticas handles GET /admin/api/estadisticas
func (c *APIController) Estadisticas(w http.ResponseWriter, r *http.Request) {
	stats, err := c.services.Stats.Resumen(r.Context())
	if err != nil {
		manejarError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

// Actividad handles GET /admin/api/actividad?dias=N
func (c *APIController) Actividad(w http.ResponseWriter, r *http.Request) {
	dias, _ := strconv.Atoi(r.URL.Query().Get("dias"))

	serie, err := c.services.Stats.Actividad(r.Context(), dias)
	if err != nil {
		manejarError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, serie)
}

// logJSON serializes a log entry with its timestamp in the fixed format.
type logJSON struct {
	ID            int64   `json:"id"`
	UsuarioID     *int    `json:"usuario_id"`
	UsuarioNombre *string `json:"usuario_nombre"`
	Accion        string  `json:"accion"`
	FechaHora     string  `json:"fecha_hora"`
}

// Logs handles GET /admin/api/logs
func (c *APIController) Logs(w http.ResponseWriter, r *http.Request) {
	pagina, _ := strconv.Atoi(r.URL.Query().Get("pagina"))
	usuario := r.URL.Query().Get("usuario")
	accion := r.URL.Query().Get("accion")

	logs, paginacion, err := c.services.Logs.Listar(r.Context(), pagina, usuario, accion)
	if err != nil {
		manejarError(w, err)
		return
	}

	salida := make([]logJSON, 0, len(logs))
	for _, entry := range logs {
		salida = append(salida, logJSON{
			ID:            entry.ID,
			UsuarioID:     entry.UsuarioID,
			UsuarioNombre: entry.UsuarioNombre,
			Accion:        entry.Accion,
			FechaHora:     entry.FechaHoraTexto(),
		})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"logs":       salida,
		"paginacion": paginacion,
	})
}
