package handler

import (
	"net/http"

	"edapos/internal/apierror"
	"edapos/internal/dto"
	"edapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CatalogoHandler serves the reference tables: impuestos, descuentos and
// tipos de pago.
type CatalogoHandler struct{ svc service.CatalogoService }

func NewCatalogoHandler(svc service.CatalogoService) *CatalogoHandler {
	return &CatalogoHandler{svc: svc}
}

// ── Impuestos ─────────────────────────────────────────────────────────────────

// CrearImpuesto godoc
// @Summary      Crear impuesto
// @Tags         catalogo
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearImpuestoRequest true "Nombre y tasa"
// @Success      201  {object} dto.ImpuestoResponse
// @Router       /v1/catalogo/impuestos [post]
func (h *CatalogoHandler) CrearImpuesto(c *gin.Context) {
	var req dto.CrearImpuestoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearImpuesto(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListarImpuestos godoc
// @Summary      Listar impuestos activos
// @Tags         catalogo
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.ImpuestoResponse
// @Router       /v1/catalogo/impuestos [get]
func (h *CatalogoHandler) ListarImpuestos(c *gin.Context) {
	resp, err := h.svc.ListarImpuestos(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar impuestos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DesactivarImpuesto godoc
// @Summary      Desactivar impuesto
// @Tags         catalogo
// @Security     BearerAuth
// @Param        id path string true "UUID del impuesto"
// @Success      204
// @Router       /v1/catalogo/impuestos/{id} [delete]
func (h *CatalogoHandler) DesactivarImpuesto(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.DesactivarImpuesto(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Descuentos ────────────────────────────────────────────────────────────────

// CrearDescuento godoc
// @Summary      Crear descuento
// @Tags         catalogo
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearDescuentoRequest true "Nombre y porcentaje"
// @Success      201  {object} dto.DescuentoResponse
// @Router       /v1/catalogo/descuentos [post]
func (h *CatalogoHandler) CrearDescuento(c *gin.Context) {
	var req dto.CrearDescuentoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearDescuento(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListarDescuentos godoc
// @Summary      Listar descuentos activos
// @Tags         catalogo
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.DescuentoResponse
// @Router       /v1/catalogo/descuentos [get]
func (h *CatalogoHandler) ListarDescuentos(c *gin.Context) {
	resp, err := h.svc.ListarDescuentos(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar descuentos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DesactivarDescuento godoc
// @Summary      Desactivar descuento
// @Tags         catalogo
// @Security     BearerAuth
// @Param        id path string true "UUID del descuento"
// @Success      204
// @Router       /v1/catalogo/descuentos/{id} [delete]
func (h *CatalogoHandler) DesactivarDescuento(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.DesactivarDescuento(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Tipos de pago ─────────────────────────────────────────────────────────────

// CrearTipoPago godoc
// @Summary      Crear tipo de pago
// @Tags         catalogo
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearTipoPagoRequest true "Nombre"
// @Success      201  {object} dto.TipoPagoResponse
// @Router       /v1/catalogo/tipos-pago [post]
func (h *CatalogoHandler) CrearTipoPago(c *gin.Context) {
	var req dto.CrearTipoPagoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearTipoPago(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListarTiposPago godoc
// @Summary      Listar tipos de pago activos
// @Tags         catalogo
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.TipoPagoResponse
// @Router       /v1/catalogo/tipos-pago [get]
func (h *CatalogoHandler) ListarTiposPago(c *gin.Context) {
	resp, err := h.svc.ListarTiposPago(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar tipos de pago"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DesactivarTipoPago godoc
// @Summary      Desactivar tipo de pago
// @Tags         catalogo
// @Security     BearerAuth
// @Param        id path string true "UUID del tipo de pago"
// @Success      204
// @Router       /v1/catalogo/tipos-pago/{id} [delete]
func (h *CatalogoHandler) DesactivarTipoPago(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.DesactivarTipoPago(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
