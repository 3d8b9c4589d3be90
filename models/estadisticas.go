package models

// Estadisticas are the dashboard counters, recomputed on every request.
type Estadisticas struct {
	TotalUsuarios    int            `json:"total_usuarios"`
	TotalMensajes    int            `json:"total_mensajes"`
	ActividadHoy     int            `json:"actividad_hoy"`
	ConexionesHoy    int            `json:"conexiones_hoy"`
	UsuariosPorRol   map[string]int `json:"usuarios_por_rol"`
	ActividadPorHora []int          `json:"actividad_por_hora"` // 24 buckets, zero-filled
}

// ActividadSerie is the trailing N-day activity series. Labels and Data have
// the same length, one entry per calendar day in ascending order, zero for
// days with no rows.
type ActividadSerie struct {
	Labels []string `json:"labels"`
	Data   []int    `json:"data"`
}
