package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gestion-formacion/backend/internal/dto"
	"gestion-formacion/backend/internal/service"
	"gestion-formacion/backend/pkg/response"
)

// ProgramacionHandler 排课模块 HTTP 处理器
type ProgramacionHandler struct {
	programacionSvc service.ProgramacionService
}

// NewProgramacionHandler 创建 ProgramacionHandler
func NewProgramacionHandler(programacionSvc service.ProgramacionService) *ProgramacionHandler {
	return &ProgramacionHandler{programacionSvc: programacionSvc}
}

// Create 创建排课
// POST /api/v1/programacion
func (h *ProgramacionHandler) Create(c *gin.Context) {
	callerID, callerRole, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.CreateProgramacionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	p, err := h.programacionSvc.Create(c.Request.Context(), &req, callerID, callerRole)
	if err != nil {
		h.handleProgramacionError(c, err)
		return
	}

	response.Created(c, p)
}

// GetDetalle 排课详情
// GET /api/v1/programacion/detalle/:id
func (h *ProgramacionHandler) GetDetalle(c *gin.Context) {
	callerID, callerRole, ok := MustGetCaller(c)
	if !ok {
		return
	}
	id, ok := ParamInt(c, "id")
	if !ok {
		return
	}

	p, err := h.programacionSvc.GetDetalle(c.Request.Context(), id, callerID, callerRole)
	if err != nil {
		h.handleProgramacionError(c, err)
		return
	}

	response.OK(c, p)
}

// ListByFicha 班级排课
// GET /api/v1/programacion/ficha/:cod_ficha
func (h *ProgramacionHandler) ListByFicha(c *gin.Context) {
	cod, ok := ParamInt(c, "cod_ficha")
	if !ok {
		return
	}

	list, err := h.programacionSvc.ListByFicha(c.Request.Context(), cod)
	if err != nil {
		h.handleProgramacionError(c, err)
		return
	}

	response.OK(c, list)
}

// ListByInstructor 讲师排课
// GET /api/v1/programacion/instructor/:id
func (h *ProgramacionHandler) ListByInstructor(c *gin.Context) {
	callerID, callerRole, ok := MustGetCaller(c)
	if !ok {
		return
	}
	id, ok := ParamInt(c, "id")
	if !ok {
		return
	}

	list, err := h.programacionSvc.ListByInstructor(c.Request.Context(), id, callerID, callerRole)
	if err != nil {
		h.handleProgramacionError(c, err)
		return
	}

	response.OK(c, list)
}

// ListAll 全部排课分页
// GET /api/v1/programacion/all
func (h *ProgramacionHandler) ListAll(c *gin.Context) {
	var req dto.ProgramacionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	list, total, err := h.programacionSvc.ListAll(c.Request.Context(), &req)
	if err != nil {
		h.handleProgramacionError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Update 部分更新
// PUT /api/v1/programacion/:id
func (h *ProgramacionHandler) Update(c *gin.Context) {
	callerID, callerRole, ok := MustGetCaller(c)
	if !ok {
		return
	}
	id, ok := ParamInt(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateProgramacionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	p, err := h.programacionSvc.Update(c.Request.Context(), id, &req, callerID, callerRole)
	if err != nil {
		h.handleProgramacionError(c, err)
		return
	}

	response.OK(c, p)
}

// Delete 删除排课
// DELETE /api/v1/programacion/:id
func (h *ProgramacionHandler) Delete(c *gin.Context) {
	id, ok := ParamInt(c, "id")
	if !ok {
		return
	}

	if err := h.programacionSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleProgramacionError(c, err)
		return
	}

	response.OKMessage(c, "Programación eliminada correctamente", nil)
}

// ValidarCruce 冲突预检
// POST /api/v1/programacion/validar-cruce
func (h *ProgramacionHandler) ValidarCruce(c *gin.Context) {
	var req dto.ValidarCruceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	res, err := h.programacionSvc.ValidarCruce(c.Request.Context(), &req)
	if err != nil {
		h.handleProgramacionError(c, err)
		return
	}

	response.OK(c, res)
}

// CompetenciasByPrograma 下拉：项目的能力单元
// GET /api/v1/programacion/competencias/:cod_programa/:la_version
func (h *ProgramacionHandler) CompetenciasByPrograma(c *gin.Context) {
	cod, ok := ParamInt(c, "cod_programa")
	if !ok {
		return
	}

	list, err := h.programacionSvc.CompetenciasByPrograma(c.Request.Context(), cod)
	if err != nil {
		h.handleProgramacionError(c, err)
		return
	}

	response.OK(c, list)
}

// ResultadosByCompetencia 下拉：能力单元的学习成果
// GET /api/v1/programacion/resultados/:cod_competencia
func (h *ProgramacionHandler) ResultadosByCompetencia(c *gin.Context) {
	cod, ok := ParamInt64(c, "cod_competencia")
	if !ok {
		return
	}

	list, err := h.programacionSvc.ResultadosByCompetencia(c.Request.Context(), cod)
	if err != nil {
		h.handleProgramacionError(c, err)
		return
	}

	response.OK(c, list)
}

// Calendario 讲师排课日历订阅
// GET /api/v1/programacion/instructor/:id/calendar.ics
func (h *ProgramacionHandler) Calendario(c *gin.Context) {
	callerID, callerRole, ok := MustGetCaller(c)
	if !ok {
		return
	}
	id, ok := ParamInt(c, "id")
	if !ok {
		return
	}

	body, err := h.programacionSvc.CalendarioInstructor(c.Request.Context(), id, callerID, callerRole)
	if err != nil {
		h.handleProgramacionError(c, err)
		return
	}

	c.Header("Content-Disposition", "inline; filename=programacion.ics")
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}

func (h *ProgramacionHandler) handleProgramacionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProgramacionNotFound), errors.Is(err, service.ErrProgramacionNothingToApply):
		response.NotFound(c, 19001, err.Error())
	case errors.Is(err, service.ErrCruceHorario):
		response.Conflict(c, 19002, err.Error())
	case errors.Is(err, service.ErrHorarioInvalido):
		response.BadRequest(c, 19003, err.Error())
	case errors.Is(err, service.ErrProgramacionReferencia):
		response.BadRequest(c, 19004, err.Error())
	case errors.Is(err, service.ErrProgramacionVerOtro),
		errors.Is(err, service.ErrProgramacionActualizar),
		errors.Is(err, service.ErrProgramacionCrearOtro):
		response.Forbidden(c, 19005, err.Error())
	default:
		response.InternalError(c)
	}
}
