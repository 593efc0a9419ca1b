package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"gestion-formacion/backend/internal/dto"
	"gestion-formacion/backend/internal/service"
	"gestion-formacion/backend/pkg/response"
)

// GrupoInstructorHandler 班级-讲师分配 HTTP 处理器
type GrupoInstructorHandler struct {
	giSvc service.GrupoInstructorService
}

// NewGrupoInstructorHandler 创建 GrupoInstructorHandler
func NewGrupoInstructorHandler(giSvc service.GrupoInstructorService) *GrupoInstructorHandler {
	return &GrupoInstructorHandler{giSvc: giSvc}
}

// Assign 分配讲师
// POST /api/v1/grupo-instructor
func (h *GrupoInstructorHandler) Assign(c *gin.Context) {
	var req dto.GrupoInstructorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	gi, err := h.giSvc.Assign(c.Request.Context(), &req)
	if err != nil {
		h.handleGrupoInstructorError(c, err)
		return
	}

	response.Created(c, gi)
}

// ListInstructores 班级下的讲师
// GET /api/v1/grupo-instructor/grupo/:cod_ficha
func (h *GrupoInstructorHandler) ListInstructores(c *gin.Context) {
	cod, ok := ParamInt(c, "cod_ficha")
	if !ok {
		return
	}

	list, err := h.giSvc.ListInstructores(c.Request.Context(), cod)
	if err != nil {
		h.handleGrupoInstructorError(c, err)
		return
	}

	response.OK(c, list)
}

// ListGrupos 讲师负责的班级
// GET /api/v1/grupo-instructor/instructor/:id_instructor
func (h *GrupoInstructorHandler) ListGrupos(c *gin.Context) {
	id, ok := ParamInt(c, "id_instructor")
	if !ok {
		return
	}

	list, err := h.giSvc.ListGrupos(c.Request.Context(), id)
	if err != nil {
		h.handleGrupoInstructorError(c, err)
		return
	}

	response.OK(c, list)
}

// Move 调整分配（换班级或换讲师）
// PUT /api/v1/grupo-instructor/:cod_ficha/:id_instructor
func (h *GrupoInstructorHandler) Move(c *gin.Context) {
	cod, ok := ParamInt(c, "cod_ficha")
	if !ok {
		return
	}
	id, ok := ParamInt(c, "id_instructor")
	if !ok {
		return
	}

	var req dto.GrupoInstructorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	gi, err := h.giSvc.Move(c.Request.Context(), cod, id, &req)
	if err != nil {
		h.handleGrupoInstructorError(c, err)
		return
	}

	response.OK(c, gi)
}

// Delete 取消分配
// DELETE /api/v1/grupo-instructor/:cod_ficha/:id_instructor
func (h *GrupoInstructorHandler) Delete(c *gin.Context) {
	cod, ok := ParamInt(c, "cod_ficha")
	if !ok {
		return
	}
	id, ok := ParamInt(c, "id_instructor")
	if !ok {
		return
	}

	if err := h.giSvc.Delete(c.Request.Context(), cod, id); err != nil {
		h.handleGrupoInstructorError(c, err)
		return
	}

	response.OKMessage(c, "Asignación eliminada correctamente", nil)
}

func (h *GrupoInstructorHandler) handleGrupoInstructorError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAsignacionNotFound):
		response.NotFound(c, 17001, err.Error())
	case errors.Is(err, service.ErrAsignacionExists):
		response.Conflict(c, 17002, err.Error())
	case errors.Is(err, service.ErrInstructorNotFound):
		response.BadRequest(c, 17003, err.Error())
	case errors.Is(err, service.ErrGrupoNotFound):
		response.BadRequest(c, 17004, err.Error())
	default:
		response.InternalError(c)
	}
}
