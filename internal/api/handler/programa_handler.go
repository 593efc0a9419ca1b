package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"gestion-formacion/backend/internal/dto"
	"gestion-formacion/backend/internal/service"
	"gestion-formacion/backend/pkg/response"
)

// ProgramaHandler 培训项目 HTTP 处理器
type ProgramaHandler struct {
	programaSvc service.ProgramaService
}

// NewProgramaHandler 创建 ProgramaHandler
func NewProgramaHandler(programaSvc service.ProgramaService) *ProgramaHandler {
	return &ProgramaHandler{programaSvc: programaSvc}
}

// Create 创建项目
// POST /api/v1/programas
func (h *ProgramaHandler) Create(c *gin.Context) {
	var req dto.CreateProgramaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	p, err := h.programaSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleProgramaError(c, err)
		return
	}

	response.Created(c, p)
}

// List 项目分页
// GET /api/v1/programas
func (h *ProgramaHandler) List(c *gin.Context) {
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		bindError(c, err)
		return
	}

	list, total, err := h.programaSvc.List(c.Request.Context(), &page)
	if err != nil {
		h.handleProgramaError(c, err)
		return
	}

	response.OKPage(c, list, total, page.GetPage(), page.GetPageSize())
}

// Search 按名称模糊搜索
// GET /api/v1/programas/search?query=
func (h *ProgramaHandler) Search(c *gin.Context) {
	var req dto.ProgramaSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	list, total, err := h.programaSvc.Search(c.Request.Context(), &req)
	if err != nil {
		h.handleProgramaError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// GetLatest 项目最新版本
// GET /api/v1/programas/:cod_programa
func (h *ProgramaHandler) GetLatest(c *gin.Context) {
	cod, ok := ParamInt(c, "cod_programa")
	if !ok {
		return
	}

	p, err := h.programaSvc.GetLatest(c.Request.Context(), cod)
	if err != nil {
		h.handleProgramaError(c, err)
		return
	}

	response.OK(c, p)
}

// UpdateLatest 更新最新版本学时
// PUT /api/v1/programas/:cod_programa
func (h *ProgramaHandler) UpdateLatest(c *gin.Context) {
	cod, ok := ParamInt(c, "cod_programa")
	if !ok {
		return
	}

	var req dto.UpdateProgramaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	p, err := h.programaSvc.UpdateLatest(c.Request.Context(), cod, &req)
	if err != nil {
		h.handleProgramaError(c, err)
		return
	}

	response.OK(c, p)
}

// Delete 删除指定版本
// DELETE /api/v1/programas/:cod_programa/:la_version
func (h *ProgramaHandler) Delete(c *gin.Context) {
	cod, ok := ParamInt(c, "cod_programa")
	if !ok {
		return
	}
	ver, ok := ParamInt(c, "la_version")
	if !ok {
		return
	}

	if err := h.programaSvc.Delete(c.Request.Context(), cod, ver); err != nil {
		h.handleProgramaError(c, err)
		return
	}

	response.OKMessage(c, "Programa eliminado correctamente", nil)
}

// handleProgramaError 统一处理项目模块业务错误
func (h *ProgramaHandler) handleProgramaError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProgramaNotFound):
		response.NotFound(c, 14001, err.Error())
	case errors.Is(err, service.ErrProgramaExists):
		response.Conflict(c, 14002, err.Error())
	case errors.Is(err, service.ErrProgramaInUse):
		response.Conflict(c, 14003, err.Error())
	default:
		response.InternalError(c)
	}
}
