package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"gestion-formacion/backend/internal/service"
	"gestion-formacion/backend/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportFicha 导出班级排课
// GET /api/v1/programacion/ficha/:cod_ficha/export
func (h *ExportHandler) ExportFicha(c *gin.Context) {
	cod, ok := ParamInt(c, "cod_ficha")
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportFicha(c.Request.Context(), cod)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrGrupoNotFound):
		response.NotFound(c, 23001, err.Error())
	case errors.Is(err, service.ErrExportSinProgramacion):
		response.NotFound(c, 23002, err.Error())
	default:
		response.InternalError(c)
	}
}
