package handler

import (
	"net/http"

	"edapos/internal/apierror"
	"edapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CobranzaHandler struct{ svc service.CobranzaService }

func NewCobranzaHandler(svc service.CobranzaService) *CobranzaHandler {
	return &CobranzaHandler{svc: svc}
}

// Deudores godoc
// @Summary      Clientes con saldo pendiente
// @Description  Agrega las facturas emitidas con saldo > 0 por cliente. Filtro opcional por nombre o RTN.
// @Tags         cobranza
// @Produce      json
// @Security     BearerAuth
// @Param        q query string false "Término de búsqueda (nombre o RTN)"
// @Success      200 {array} dto.DeudorResponse
// @Router       /v1/cobranza/deudores [get]
func (h *CobranzaHandler) Deudores(c *gin.Context) {
	resp, err := h.svc.ListarDeudores(c.Request.Context(), c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar deudores"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// FacturasPendientes godoc
// @Summary      Facturas pendientes de un cliente
// @Description  Detalle de la deuda en orden de vencimiento (la más próxima a vencer primero).
// @Tags         cobranza
// @Produce      json
// @Security     BearerAuth
// @Param        cliente_id path string true "UUID del cliente"
// @Success      200 {array} dto.FacturaPendienteResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/cobranza/clientes/{cliente_id}/facturas [get]
func (h *CobranzaHandler) FacturasPendientes(c *gin.Context) {
	clienteID, err := uuid.Parse(c.Param("cliente_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.ListarFacturasPendientes(c.Request.Context(), clienteID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
