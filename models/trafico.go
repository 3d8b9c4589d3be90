package models

import "time"

// TraficoRed is a write-once traffic sample; the app only reads it in
// aggregate for the conexiones_hoy counter.
type TraficoRed struct {
	ID                  int       `json:"id"`
	ZonaID              int       `json:"zona_id"`
	Fecha               time.Time `json:"fecha"`
	Hora                string    `json:"hora"`
	TipoDispositivo     string    `json:"tipo_dispositivo"`
	UsuariosConectados  int       `json:"usuarios_conectados"`
	AnchoBandaConsumido float64   `json:"ancho_banda_consumido"`
	LatenciaPromedio    float64   `json:"latencia_promedio"`
}
