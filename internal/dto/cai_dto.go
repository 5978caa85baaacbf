package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearCAIRequest struct {
	Codigo       string `json:"codigo"        validate:"required,min=6,max=40"`
	Caja         int    `json:"caja"          validate:"required,min=1"`
	RangoInicial int64  `json:"rango_inicial" validate:"required,min=1"`
	RangoFinal   int64  `json:"rango_final"   validate:"required,min=1"`
	// FechaLimite en formato YYYY-MM-DD
	FechaLimite string `json:"fecha_limite" validate:"required,datetime=2006-01-02"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CAIResponse struct {
	ID                string `json:"id"`
	Codigo            string `json:"codigo"`
	Caja              int    `json:"caja"`
	RangoInicial      int64  `json:"rango_inicial"`
	CorrelativoActual int64  `json:"correlativo_actual"`
	RangoFinal        int64  `json:"rango_final"`
	Restantes         int64  `json:"restantes"`
	Activo            bool   `json:"activo"`
	Agotado           bool   `json:"agotado"`
	FechaLimite       string `json:"fecha_limite"`
}
