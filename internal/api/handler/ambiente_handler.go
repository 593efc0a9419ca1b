package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"gestion-formacion/backend/internal/dto"
	"gestion-formacion/backend/internal/service"
	"gestion-formacion/backend/pkg/response"
)

// AmbienteHandler 教学场地 HTTP 处理器
type AmbienteHandler struct {
	ambienteSvc service.AmbienteService
}

// NewAmbienteHandler 创建 AmbienteHandler
func NewAmbienteHandler(ambienteSvc service.AmbienteService) *AmbienteHandler {
	return &AmbienteHandler{ambienteSvc: ambienteSvc}
}

// Create 创建场地
// POST /api/v1/ambientes
func (h *AmbienteHandler) Create(c *gin.Context) {
	var req dto.CreateAmbienteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	a, err := h.ambienteSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleAmbienteError(c, err)
		return
	}

	response.Created(c, a)
}

// GetByID 场地详情
// GET /api/v1/ambientes/:id
func (h *AmbienteHandler) GetByID(c *gin.Context) {
	id, ok := ParamInt(c, "id")
	if !ok {
		return
	}

	a, err := h.ambienteSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleAmbienteError(c, err)
		return
	}

	response.OK(c, a)
}

// List 场地列表
// GET /api/v1/ambientes?cod_centro=&incluir_inactivos=
func (h *AmbienteHandler) List(c *gin.Context) {
	var req dto.AmbienteListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	list, err := h.ambienteSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleAmbienteError(c, err)
		return
	}

	response.OK(c, list)
}

// Update 部分更新
// PUT /api/v1/ambientes/:id
func (h *AmbienteHandler) Update(c *gin.Context) {
	id, ok := ParamInt(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateAmbienteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	a, err := h.ambienteSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleAmbienteError(c, err)
		return
	}

	response.OK(c, a)
}

// SetEstado 启用/停用
// PUT /api/v1/ambientes/:id/estado
func (h *AmbienteHandler) SetEstado(c *gin.Context) {
	id, ok := ParamInt(c, "id")
	if !ok {
		return
	}

	var req dto.SetEstadoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	a, err := h.ambienteSvc.SetEstado(c.Request.Context(), id, *req.Estado)
	if err != nil {
		h.handleAmbienteError(c, err)
		return
	}

	response.OK(c, a)
}

func (h *AmbienteHandler) handleAmbienteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAmbienteNotFound), errors.Is(err, service.ErrAmbienteNothingToApply):
		response.NotFound(c, 16001, err.Error())
	case errors.Is(err, service.ErrCentroNotFound):
		response.BadRequest(c, 16002, err.Error())
	default:
		response.InternalError(c)
	}
}
