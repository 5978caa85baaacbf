package handler

import (
	"net/http"

	"edapos/internal/apierror"
	"edapos/internal/dto"
	"edapos/internal/middleware"
	"edapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type VentasPendientesHandler struct{ svc service.VentaPendienteService }

func NewVentasPendientesHandler(svc service.VentaPendienteService) *VentasPendientesHandler {
	return &VentasPendientesHandler{svc: svc}
}

// Crear godoc
// @Summary      Guardar una venta pendiente
// @Description  Estaciona un carrito en curso. No consume correlativo ni toca nada fiscal.
// @Tags         ventas-pendientes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearVentaPendienteRequest true "Ítems del carrito"
// @Success      201  {object} dto.VentaPendienteResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/ventas-pendientes [post]
func (h *VentasPendientesHandler) Crear(c *gin.Context) {
	var req dto.CrearVentaPendienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Crear(c.Request.Context(), usuarioID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary      Cola de ventas pendientes del cajero
// @Description  Retorna los carritos estacionados del usuario autenticado, el más antiguo primero.
// @Tags         ventas-pendientes
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.VentaPendienteResponse
// @Router       /v1/ventas-pendientes [get]
func (h *VentasPendientesHandler) Listar(c *gin.Context) {
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.ListarPorUsuario(c.Request.Context(), usuarioID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar ventas pendientes"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Finalizar godoc
// @Summary      Finalizar venta pendiente
// @Description  Checkout atómico: valida turno abierto, consume el correlativo del CAI, emite la factura y elimina la venta pendiente. Si algo falla no queda ningún efecto.
// @Tags         ventas-pendientes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                    true "UUID de la venta pendiente"
// @Param        body body dto.FinalizarVentaRequest true "CAI, turno y pagos"
// @Success      201  {object} dto.FacturaResponse
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Failure      422  {object} apierror.APIError
// @Router       /v1/ventas-pendientes/{id}/finalizar [post]
func (h *VentasPendientesHandler) Finalizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.FinalizarVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Finalizar(c.Request.Context(), usuarioID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Obtener godoc
// @Summary      Detalle de una venta pendiente
// @Description  Retorna un carrito estacionado del usuario autenticado. Un carrito ajeno responde 404.
// @Tags         ventas-pendientes
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la venta pendiente"
// @Success      200 {object} dto.VentaPendienteResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/ventas-pendientes/{id} [get]
func (h *VentasPendientesHandler) Obtener(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.ObtenerPorID(c.Request.Context(), usuarioID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary      Abandonar venta pendiente
// @Description  Descarta el carrito del usuario autenticado. Nada fiscal ocurrió todavía.
// @Tags         ventas-pendientes
// @Security     BearerAuth
// @Param        id path string true "UUID de la venta pendiente"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/ventas-pendientes/{id} [delete]
func (h *VentasPendientesHandler) Eliminar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	if err := h.svc.Eliminar(c.Request.Context(), usuarioID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
