package handler

import (
	"net/http"

	"edapos/internal/apierror"
	"edapos/internal/dto"
	"edapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CAIHandler struct{ svc service.CorrelativoService }

func NewCAIHandler(svc service.CorrelativoService) *CAIHandler { return &CAIHandler{svc: svc} }

// Crear godoc
// @Summary      Registrar un nuevo CAI
// @Description  Alta de una autorización de impresión con su rango de correlativos.
// @Tags         cai
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearCAIRequest true "Datos del CAI"
// @Success      201  {object} dto.CAIResponse
// @Failure      400  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/cai [post]
func (h *CAIHandler) Crear(c *gin.Context) {
	var req dto.CrearCAIRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Obtener godoc
// @Summary      Consultar un CAI
// @Tags         cai
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del CAI"
// @Success      200  {object} dto.CAIResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/cai/{id} [get]
func (h *CAIHandler) Obtener(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar godoc
// @Summary      Listar CAIs
// @Tags         cai
// @Produce      json
// @Security     BearerAuth
// @Param        incluir_inactivos query bool false "Incluir CAIs desactivados"
// @Success      200 {array} dto.CAIResponse
// @Router       /v1/cai [get]
func (h *CAIHandler) Listar(c *gin.Context) {
	incluirInactivos := c.Query("incluir_inactivos") == "true"
	resp, err := h.svc.Listar(c.Request.Context(), incluirInactivos)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar CAIs"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Desactivar godoc
// @Summary      Desactivar un CAI
// @Description  El CAI queda fuera de uso; las facturas ya emitidas conservan su número.
// @Tags         cai
// @Security     BearerAuth
// @Param        id path string true "UUID del CAI"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/cai/{id}/desactivar [post]
func (h *CAIHandler) Desactivar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.Desactivar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Eliminar godoc
// @Summary      Eliminar un CAI sin uso
// @Description  Solo se permite mientras el CAI no haya emitido ningún correlativo.
// @Tags         cai
// @Security     BearerAuth
// @Param        id path string true "UUID del CAI"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Failure      409 {object} apierror.APIError
// @Router       /v1/cai/{id} [delete]
func (h *CAIHandler) Eliminar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
