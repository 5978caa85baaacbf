package handler

import (
	"net/http"
	"strconv"

	"edapos/internal/apierror"
	"edapos/internal/dto"
	"edapos/internal/middleware"
	"edapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TurnosHandler struct{ svc service.TurnoService }

func NewTurnosHandler(svc service.TurnoService) *TurnosHandler { return &TurnosHandler{svc: svc} }

// Abrir godoc
// @Summary      Abrir turno
// @Description  Abre un turno en la caja indicada. Falla si la caja ya tiene un turno abierto.
// @Tags         turnos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.AbrirTurnoRequest true "Caja"
// @Success      201  {object} dto.TurnoResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/turnos [post]
func (h *TurnosHandler) Abrir(c *gin.Context) {
	var req dto.AbrirTurnoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Abrir(c.Request.Context(), usuarioID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Cerrar godoc
// @Summary      Cerrar turno
// @Description  Cierre terminal: el turno no puede reabrirse; sus facturas no cambian.
// @Tags         turnos
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del turno"
// @Success      200  {object} dto.TurnoResponse
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/turnos/{id}/cerrar [post]
func (h *TurnosHandler) Cerrar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.Cerrar(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener godoc
// @Summary      Consultar turno
// @Tags         turnos
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del turno"
// @Success      200  {object} dto.TurnoResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/turnos/{id} [get]
func (h *TurnosHandler) Obtener(c *gin.Context) {
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

// Activo godoc
// @Summary      Turno abierto del usuario autenticado
// @Tags         turnos
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object} dto.TurnoResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/turnos/activo [get]
func (h *TurnosHandler) Activo(c *gin.Context) {
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.ObtenerAbiertoPorUsuario(c.Request.Context(), usuarioID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Historial godoc
// @Summary      Historial de turnos
// @Tags         turnos
// @Produce      json
// @Security     BearerAuth
// @Param        page  query int false "Página (default 1)"
// @Param        limit query int false "Registros por página (default 50)"
// @Success      200  {object} dto.TurnoListResponse
// @Router       /v1/turnos [get]
func (h *TurnosHandler) Historial(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	resp, err := h.svc.Historial(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar turnos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary      Eliminar turno cerrado
// @Tags         turnos
// @Security     BearerAuth
// @Param        id path string true "UUID del turno"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Failure      409 {object} apierror.APIError
// @Router       /v1/turnos/{id} [delete]
func (h *TurnosHandler) Eliminar(c *gin.Context) {
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
