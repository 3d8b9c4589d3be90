package models

// Tamaños de página fijos por recurso.
const (
	UsuariosPorPagina = 10
	LogsPorPagina     = 20
)

// Paginacion describes the position of a page within the full result set.
type Paginacion struct {
	PaginaActual   int `json:"pagina_actual"`
	TotalPaginas   int `json:"total_paginas"`
	TotalRegistros int `json:"total_registros"`
	PorPagina      int `json:"por_pagina"`
}

// NewPaginacion computes the metadata for a page. total_paginas is
// ceil(total/porPagina); a page past the end is valid and simply empty.
func NewPaginacion(pagina, total, porPagina int) Paginacion {
	if pagina < 1 {
		pagina = 1
	}
	totalPaginas := (total + porPagina - 1) / porPagina
	return Paginacion{
		PaginaActual:   pagina,
		TotalPaginas:   totalPaginas,
		TotalRegistros: total,
		PorPagina:      porPagina,
	}
}

// Offset returns the row offset for the current page.
func (p Paginacion) Offset() int {
	return (p.PaginaActual - 1) * p.PorPagina
}
