package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"gestion-formacion/backend/internal/service"
	"gestion-formacion/backend/pkg/response"
)

// ReferenciaHandler 角色、区域、培训中心只读接口
type ReferenciaHandler struct {
	svc service.ReferenciaService
}

// NewReferenciaHandler 创建 ReferenciaHandler
func NewReferenciaHandler(svc service.ReferenciaService) *ReferenciaHandler {
	return &ReferenciaHandler{svc: svc}
}

// ListRoles GET /api/v1/roles
func (h *ReferenciaHandler) ListRoles(c *gin.Context) {
	list, err := h.svc.ListRoles(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, list)
}

// ListRegionales GET /api/v1/regionales
func (h *ReferenciaHandler) ListRegionales(c *gin.Context) {
	list, err := h.svc.ListRegionales(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, list)
}

// ListCentros GET /api/v1/centro-formacion/centros
func (h *ReferenciaHandler) ListCentros(c *gin.Context) {
	list, err := h.svc.ListCentros(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, list)
}

// GetCentro GET /api/v1/centro-formacion/:cod_centro
func (h *ReferenciaHandler) GetCentro(c *gin.Context) {
	cod, ok := ParamInt(c, "cod_centro")
	if !ok {
		return
	}
	centro, err := h.svc.GetCentro(c.Request.Context(), cod)
	if err != nil {
		h.handleReferenciaError(c, err)
		return
	}
	response.OK(c, centro)
}

// GetCentroByNombre GET /api/v1/centro-formacion/nombre/:nombre_centro
func (h *ReferenciaHandler) GetCentroByNombre(c *gin.Context) {
	centro, err := h.svc.GetCentroByNombre(c.Request.Context(), c.Param("nombre_centro"))
	if err != nil {
		h.handleReferenciaError(c, err)
		return
	}
	response.OK(c, centro)
}

// ListCentrosByRegional GET /api/v1/centro-formacion/regional/:cod_regional
func (h *ReferenciaHandler) ListCentrosByRegional(c *gin.Context) {
	cod, ok := ParamInt(c, "cod_regional")
	if !ok {
		return
	}
	list, err := h.svc.ListCentrosByRegional(c.Request.Context(), cod)
	if err != nil {
		h.handleReferenciaError(c, err)
		return
	}
	response.OK(c, list)
}

func (h *ReferenciaHandler) handleReferenciaError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCentroNotFound):
		response.NotFound(c, 13001, err.Error())
	default:
		response.InternalError(c)
	}
}
