package handler

import (
	"net/http"

	"edapos/internal/service"

	"github.com/gin-gonic/gin"
)

type ConsultaPreciosHandler struct{ svc service.ProductoService }

func NewConsultaPreciosHandler(svc service.ProductoService) *ConsultaPreciosHandler {
	return &ConsultaPreciosHandler{svc: svc}
}

// ConsultarPrecio godoc
// @Summary      Consultar precio por código de barras
// @Description  Verificador de precios del salón. La respuesta se sirve desde cache Redis cuando está disponible.
// @Tags         precios
// @Produce      json
// @Param        codigo path string true "Código de barras"
// @Success      200  {object} dto.PrecioResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/precio/{codigo} [get]
func (h *ConsultaPreciosHandler) ConsultarPrecio(c *gin.Context) {
	resp, err := h.svc.ConsultarPrecio(c.Request.Context(), c.Param("codigo"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
